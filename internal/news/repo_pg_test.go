package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

var articleCols = []string{"id", "title", "summary", "author", "date", "image", "created_at", "updated_at"}

func TestPGRepoCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	a := Article{ID: "n1", Title: "t", Summary: "s", Author: "a", Date: "2026-01-01", Image: "/uploads/news/x.png", CreatedAt: now, UpdatedAt: now}

	mock.ExpectExec("INSERT INTO news").
		WithArgs(a.ID, a.Title, a.Summary, a.Author, a.Date, a.Image, now, now).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetLoadsReactionsAndComments(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM news WHERE id = \\$1").
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows(articleCols).AddRow("n1", "t", "s", "a", "", "", now, now))
	mock.ExpectQuery("SELECT user_id, kind FROM news_reactions").
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "kind"}).
			AddRow("u1", "like").
			AddRow("u2", "like").
			AddRow("u3", "dislike"))
	mock.ExpectQuery("SELECT author, text, created_at FROM news_comments").
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"author", "text", "created_at"}).
			AddRow("Ada", "first", now).
			AddRow("Bob", "second", now))

	a, err := repo.Get(context.Background(), "n1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a.Likes() != 2 || a.Dislikes() != 1 {
		t.Fatalf("unexpected counts: %+v", a.Counts())
	}
	if !a.DislikedBy.Has("u3") || a.LikedBy.Has("u3") {
		t.Fatalf("unexpected reaction sets: %v %v", a.LikedBy.IDs(), a.DislikedBy.IDs())
	}
	if len(a.Comments) != 2 || a.Comments[1].Author != "Bob" {
		t.Fatalf("unexpected comments: %+v", a.Comments)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoGetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT (.+) FROM news WHERE id = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(articleCols))

	if _, err := repo.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoReactSwitchesKind(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT 1 FROM news").WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("INSERT INTO news_reactions").
		WithArgs("n1", "u1", "dislike").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("COUNT\\(\\*\\) FILTER").WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"likes", "dislikes"}).AddRow(0, 1))

	counts, err := repo.React(context.Background(), "n1", "u1", ReactionDislike)
	if err != nil {
		t.Fatalf("React: %v", err)
	}
	if counts != (Counts{Likes: 0, Dislikes: 1}) {
		t.Fatalf("unexpected counts: %+v", counts)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoReactDuplicate(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT 1 FROM news").WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("INSERT INTO news_reactions").
		WithArgs("n1", "u1", "like").
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := repo.React(context.Background(), "n1", "u1", ReactionLike)
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
}

func TestPGRepoReactUnknownArticle(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT 1 FROM news").WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	if _, err := repo.React(context.Background(), "missing", "u1", ReactionLike); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoRemoveCommentByIndex(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT 1 FROM news").WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("DELETE FROM news_comments").
		WithArgs("n1", 1, "Ada").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("SELECT author, text, created_at FROM news_comments").
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"author", "text", "created_at"}).AddRow("Ada", "first", now))

	left, err := repo.RemoveComment(context.Background(), "n1", 1, "Ada")
	if err != nil {
		t.Fatalf("RemoveComment: %v", err)
	}
	if len(left) != 1 {
		t.Fatalf("expected 1 comment left, got %d", len(left))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoRemoveCommentOutOfRange(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT 1 FROM news").WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("DELETE FROM news_comments").
		WithArgs("n1", 9, "Ada").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT author FROM news_comments").WithArgs("n1", 9).
		WillReturnRows(sqlmock.NewRows([]string{"author"}))

	if _, err := repo.RemoveComment(context.Background(), "n1", 9, "Ada"); !errors.Is(err, ErrCommentNotFound) {
		t.Fatalf("expected ErrCommentNotFound, got %v", err)
	}
}

func TestPGRepoRemoveCommentForeignAuthor(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT 1 FROM news").WithArgs("n1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec("DELETE FROM news_comments(.|\\n)*AND author = \\$3").
		WithArgs("n1", 1, "bob").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT author FROM news_comments").WithArgs("n1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"author"}).AddRow("carol"))

	if _, err := repo.RemoveComment(context.Background(), "n1", 1, "bob"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteReturnsImage(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery("DELETE FROM news WHERE id = \\$1 RETURNING").
		WithArgs("n1").
		WillReturnRows(sqlmock.NewRows(articleCols).AddRow("n1", "t", "", "", "", "/uploads/news/a.png", now, now))

	a, err := repo.Delete(context.Background(), "n1")
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if a.Image != "/uploads/news/a.png" {
		t.Fatalf("unexpected image: %q", a.Image)
	}
}

func TestPGRepoUpdateNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now().UTC()
	mock.ExpectExec("UPDATE news").
		WithArgs("n1", "t", "", "", "", "", now).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Update(context.Background(), Article{ID: "n1", Title: "t", UpdatedAt: now}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
