package news

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]*Article
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]*Article)}
}

func (r *MemoryRepo) List(ctx context.Context) ([]Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Article, 0, len(r.data))
	for _, a := range r.data {
		out = append(out, a.clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryRepo) Get(ctx context.Context, id string) (Article, error) {
	if err := ctx.Err(); err != nil {
		return Article{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.data[id]
	if !ok {
		return Article{}, ErrNotFound
	}
	return a.clone(), nil
}

func (r *MemoryRepo) Create(ctx context.Context, a Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := a.clone()
	if stored.LikedBy == nil {
		stored.LikedBy = NewReactionSet()
	}
	if stored.DislikedBy == nil {
		stored.DislikedBy = NewReactionSet()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[a.ID] = &stored
	return nil
}

func (r *MemoryRepo) Update(ctx context.Context, a Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.data[a.ID]
	if !ok {
		return ErrNotFound
	}
	cur.Title = a.Title
	cur.Summary = a.Summary
	cur.Author = a.Author
	cur.Date = a.Date
	cur.Image = a.Image
	cur.UpdatedAt = a.UpdatedAt
	return nil
}

func (r *MemoryRepo) Delete(ctx context.Context, id string) (Article, error) {
	if err := ctx.Err(); err != nil {
		return Article{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return Article{}, ErrNotFound
	}
	delete(r.data, id)
	return a.clone(), nil
}

func (r *MemoryRepo) React(ctx context.Context, id, userID string, kind Reaction) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return Counts{}, ErrNotFound
	}
	target, other := a.LikedBy, a.DislikedBy
	if kind == ReactionDislike {
		target, other = a.DislikedBy, a.LikedBy
	}
	if target.Has(userID) {
		return Counts{}, alreadyReacted(kind)
	}
	other.Remove(userID)
	target.Add(userID)
	return a.Counts(), nil
}

func (r *MemoryRepo) Unreact(ctx context.Context, id, userID string, kind Reaction) (Counts, error) {
	if err := ctx.Err(); err != nil {
		return Counts{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return Counts{}, ErrNotFound
	}
	if kind == ReactionDislike {
		a.DislikedBy.Remove(userID)
	} else {
		a.LikedBy.Remove(userID)
	}
	return a.Counts(), nil
}

func (r *MemoryRepo) AddComment(ctx context.Context, id string, c Comment) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	a.Comments = append(a.Comments, c)
	return append([]Comment(nil), a.Comments...), nil
}

func (r *MemoryRepo) RemoveComment(ctx context.Context, id string, index int, author string) ([]Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.data[id]
	if !ok {
		return nil, ErrNotFound
	}
	if index < 0 || index >= len(a.Comments) {
		return nil, ErrCommentNotFound
	}
	if a.Comments[index].Author != author {
		return nil, ErrForbidden
	}
	a.Comments = append(a.Comments[:index:index], a.Comments[index+1:]...)
	return append([]Comment(nil), a.Comments...), nil
}
