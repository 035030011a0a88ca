package news

import "context"

// Repo defines persistence operations for articles, reactions and comments.
type Repo interface {
	// List returns every article, newest first.
	List(ctx context.Context) ([]Article, error)
	Get(ctx context.Context, id string) (Article, error)
	Create(ctx context.Context, a Article) error
	// Update overwrites the scalar fields of an existing article.
	Update(ctx context.Context, a Article) error
	// Delete removes an article and returns it as it was.
	Delete(ctx context.Context, id string) (Article, error)
	// React records kind for userID, moving the user out of the opposite set.
	// It returns ErrAlreadyLiked or ErrAlreadyDisliked when nothing changes.
	React(ctx context.Context, id, userID string, kind Reaction) (Counts, error)
	// Unreact removes userID from the kind set; absent users are a no-op.
	Unreact(ctx context.Context, id, userID string, kind Reaction) (Counts, error)
	AddComment(ctx context.Context, id string, c Comment) ([]Comment, error)
	// RemoveComment deletes the comment at index in insertion order if it was
	// written by author. The check and the delete happen atomically.
	RemoveComment(ctx context.Context, id string, index int, author string) ([]Comment, error)
}
