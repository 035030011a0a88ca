package news

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Reactions live in news_reactions,
// keyed by (news_id, user_id), so a user holds at most one reaction per article.
type PGRepo struct {
	DB *sql.DB
}

const articleColumns = `id, title, summary, author, date, image, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (Article, error) {
	var a Article
	err := row.Scan(&a.ID, &a.Title, &a.Summary, &a.Author, &a.Date, &a.Image, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Article{}, err
	}
	a.LikedBy = NewReactionSet()
	a.DislikedBy = NewReactionSet()
	return a, nil
}

func (r *PGRepo) List(ctx context.Context) ([]Article, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT `+articleColumns+` FROM news ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Article
	index := make(map[string]int)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		index[a.ID] = len(out)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return []Article{}, nil
	}

	reactions, err := r.DB.QueryContext(ctx, `SELECT news_id, user_id, kind FROM news_reactions`)
	if err != nil {
		return nil, err
	}
	defer reactions.Close()
	for reactions.Next() {
		var newsID, userID string
		var kind Reaction
		if err := reactions.Scan(&newsID, &userID, &kind); err != nil {
			return nil, err
		}
		if i, ok := index[newsID]; ok {
			addReaction(&out[i], userID, kind)
		}
	}
	if err := reactions.Err(); err != nil {
		return nil, err
	}

	comments, err := r.DB.QueryContext(ctx, `SELECT news_id, author, text, created_at FROM news_comments ORDER BY news_id, id`)
	if err != nil {
		return nil, err
	}
	defer comments.Close()
	for comments.Next() {
		var newsID string
		var c Comment
		if err := comments.Scan(&newsID, &c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		if i, ok := index[newsID]; ok {
			out[i].Comments = append(out[i].Comments, c)
		}
	}
	return out, comments.Err()
}

func (r *PGRepo) Get(ctx context.Context, id string) (Article, error) {
	a, err := scanArticle(r.DB.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM news WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Article{}, ErrNotFound
		}
		return Article{}, err
	}

	rows, err := r.DB.QueryContext(ctx, `SELECT user_id, kind FROM news_reactions WHERE news_id = $1`, id)
	if err != nil {
		return Article{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var userID string
		var kind Reaction
		if err := rows.Scan(&userID, &kind); err != nil {
			return Article{}, err
		}
		addReaction(&a, userID, kind)
	}
	if err := rows.Err(); err != nil {
		return Article{}, err
	}

	a.Comments, err = r.comments(ctx, id)
	if err != nil {
		return Article{}, err
	}
	return a, nil
}

func (r *PGRepo) Create(ctx context.Context, a Article) error {
	const query = `
INSERT INTO news (id, title, summary, author, date, image, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query, a.ID, a.Title, a.Summary, a.Author, a.Date, a.Image, a.CreatedAt, a.UpdatedAt)
	return err
}

func (r *PGRepo) Update(ctx context.Context, a Article) error {
	const query = `
UPDATE news
SET title = $2, summary = $3, author = $4, date = $5, image = $6, updated_at = $7
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, a.ID, a.Title, a.Summary, a.Author, a.Date, a.Image, a.UpdatedAt)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) (Article, error) {
	a, err := scanArticle(r.DB.QueryRowContext(ctx, `DELETE FROM news WHERE id = $1 RETURNING `+articleColumns, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Article{}, ErrNotFound
		}
		return Article{}, err
	}
	return a, nil
}

func (r *PGRepo) React(ctx context.Context, id, userID string, kind Reaction) (Counts, error) {
	if err := r.exists(ctx, id); err != nil {
		return Counts{}, err
	}
	// The conditional upsert touches no row when the user already holds kind.
	const query = `
INSERT INTO news_reactions (news_id, user_id, kind)
VALUES ($1, $2, $3)
ON CONFLICT (news_id, user_id) DO UPDATE
SET kind = EXCLUDED.kind, created_at = now()
WHERE news_reactions.kind <> EXCLUDED.kind`
	res, err := r.DB.ExecContext(ctx, query, id, userID, string(kind))
	if err != nil {
		return Counts{}, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Counts{}, err
	}
	if n == 0 {
		return Counts{}, alreadyReacted(kind)
	}
	return r.counts(ctx, id)
}

func (r *PGRepo) Unreact(ctx context.Context, id, userID string, kind Reaction) (Counts, error) {
	if err := r.exists(ctx, id); err != nil {
		return Counts{}, err
	}
	const query = `DELETE FROM news_reactions WHERE news_id = $1 AND user_id = $2 AND kind = $3`
	if _, err := r.DB.ExecContext(ctx, query, id, userID, string(kind)); err != nil {
		return Counts{}, err
	}
	return r.counts(ctx, id)
}

func (r *PGRepo) AddComment(ctx context.Context, id string, c Comment) ([]Comment, error) {
	if err := r.exists(ctx, id); err != nil {
		return nil, err
	}
	const query = `INSERT INTO news_comments (news_id, author, text, created_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.DB.ExecContext(ctx, query, id, c.Author, c.Text, c.CreatedAt); err != nil {
		return nil, err
	}
	return r.comments(ctx, id)
}

func (r *PGRepo) RemoveComment(ctx context.Context, id string, index int, author string) ([]Comment, error) {
	if index < 0 {
		return nil, ErrCommentNotFound
	}
	if err := r.exists(ctx, id); err != nil {
		return nil, err
	}
	const query = `
DELETE FROM news_comments
WHERE id = (
    SELECT id FROM news_comments WHERE news_id = $1 ORDER BY id OFFSET $2 LIMIT 1
) AND author = $3`
	res, err := r.DB.ExecContext(ctx, query, id, index, author)
	if err != nil {
		return nil, err
	}
	if err := requireRow(res); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, r.commentMissOrForeign(ctx, id, index)
		}
		return nil, err
	}
	return r.comments(ctx, id)
}

// commentMissOrForeign explains a delete that matched no row.
func (r *PGRepo) commentMissOrForeign(ctx context.Context, id string, index int) error {
	var author string
	err := r.DB.QueryRowContext(ctx,
		`SELECT author FROM news_comments WHERE news_id = $1 ORDER BY id OFFSET $2 LIMIT 1`,
		id, index).Scan(&author)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return ErrCommentNotFound
	case err != nil:
		return err
	default:
		return ErrForbidden
	}
}

func (r *PGRepo) exists(ctx context.Context, id string) error {
	var one int
	err := r.DB.QueryRowContext(ctx, `SELECT 1 FROM news WHERE id = $1`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PGRepo) counts(ctx context.Context, id string) (Counts, error) {
	const query = `
SELECT
    COUNT(*) FILTER (WHERE kind = 'like'),
    COUNT(*) FILTER (WHERE kind = 'dislike')
FROM news_reactions
WHERE news_id = $1`
	var c Counts
	if err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.Likes, &c.Dislikes); err != nil {
		return Counts{}, fmt.Errorf("count reactions: %w", err)
	}
	return c, nil
}

func (r *PGRepo) comments(ctx context.Context, id string) ([]Comment, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT author, text, created_at FROM news_comments WHERE news_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Comment{}
	for rows.Next() {
		var c Comment
		if err := rows.Scan(&c.Author, &c.Text, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func addReaction(a *Article, userID string, kind Reaction) {
	switch kind {
	case ReactionLike:
		a.LikedBy.Add(userID)
	case ReactionDislike:
		a.DislikedBy.Add(userID)
	}
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
