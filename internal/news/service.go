package news

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"lawyerup-backend/internal/shared/telemetry"
	"lawyerup-backend/internal/uploads"
)

// AnonymousAuthor labels comments from callers without a display name.
const AnonymousAuthor = "Anonymous"

// ImageStore persists article images. *uploads.Router satisfies it.
type ImageStore interface {
	Store(ctx context.Context, f uploads.IncomingFile) (string, error)
	Discard(ctx context.Context, location string)
}

// Service contains business logic for news articles.
type Service struct {
	Repo   Repo
	Images ImageStore
	Now    func() time.Time
}

func NewService(repo Repo, images ImageStore) *Service {
	return &Service{Repo: repo, Images: images, Now: time.Now}
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *Service) List(ctx context.Context) ([]Article, error) {
	return s.Repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Article, error) {
	return s.Repo.Get(ctx, id)
}

// Create stores the optional image first, then the article. A nil image
// leaves Image empty and never touches storage.
func (s *Service) Create(ctx context.Context, in CreateInput, image *uploads.IncomingFile) (Article, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return Article{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	location, err := s.storeImage(ctx, image)
	if err != nil {
		return Article{}, err
	}

	now := s.now()
	a := Article{
		ID:         uuid.NewString(),
		Title:      in.Title,
		Summary:    in.Summary,
		Author:     in.Author,
		Date:       in.Date,
		Image:      location,
		LikedBy:    NewReactionSet(),
		DislikedBy: NewReactionSet(),
		Comments:   []Comment{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		s.discard(ctx, location)
		return Article{}, err
	}
	return a, nil
}

// Update applies patch and, when image is set, replaces the stored image.
// The previous location is discarded only after the new record is saved.
func (s *Service) Update(ctx context.Context, id string, patch UpdatePatch, image *uploads.IncomingFile) (Article, error) {
	cur, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Article{}, err
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return Article{}, fmt.Errorf("%w: title cannot be empty", ErrInvalidInput)
		}
		cur.Title = title
	}
	if patch.Summary != nil {
		cur.Summary = *patch.Summary
	}
	if patch.Author != nil {
		cur.Author = *patch.Author
	}
	if patch.Date != nil {
		cur.Date = *patch.Date
	}

	previous := cur.Image
	if image != nil {
		location, err := s.storeImage(ctx, image)
		if err != nil {
			return Article{}, err
		}
		cur.Image = location
	}
	cur.UpdatedAt = s.now()

	if err := s.Repo.Update(ctx, cur); err != nil {
		if image != nil {
			s.discard(ctx, cur.Image)
		}
		return Article{}, err
	}
	if image != nil && previous != cur.Image {
		s.discard(ctx, previous)
	}
	return cur, nil
}

// Delete removes the article and discards its image.
func (s *Service) Delete(ctx context.Context, id string) error {
	deleted, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.discard(ctx, deleted.Image)
	telemetry.Info("news.deleted", map[string]any{"article_id": id})
	return nil
}

func (s *Service) Like(ctx context.Context, id, userID string) (Counts, error) {
	return s.react(ctx, id, userID, ReactionLike)
}

func (s *Service) Dislike(ctx context.Context, id, userID string) (Counts, error) {
	return s.react(ctx, id, userID, ReactionDislike)
}

func (s *Service) Unlike(ctx context.Context, id, userID string) (Counts, error) {
	return s.unreact(ctx, id, userID, ReactionLike)
}

func (s *Service) Undislike(ctx context.Context, id, userID string) (Counts, error) {
	return s.unreact(ctx, id, userID, ReactionDislike)
}

func (s *Service) react(ctx context.Context, id, userID string, kind Reaction) (Counts, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Counts{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	return s.Repo.React(ctx, id, userID, kind)
}

func (s *Service) unreact(ctx context.Context, id, userID string, kind Reaction) (Counts, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Counts{}, fmt.Errorf("%w: userId is required", ErrInvalidInput)
	}
	return s.Repo.Unreact(ctx, id, userID, kind)
}

// AddComment appends a comment by author, defaulting to AnonymousAuthor.
func (s *Service) AddComment(ctx context.Context, id, author, text string) ([]Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	author = strings.TrimSpace(author)
	if author == "" {
		author = AnonymousAuthor
	}
	return s.Repo.AddComment(ctx, id, Comment{Author: author, Text: text, CreatedAt: s.now()})
}

// DeleteComment removes the comment at index if requester wrote it. Callers
// without a display name cannot delete anything.
func (s *Service) DeleteComment(ctx context.Context, id string, index int, requester string) ([]Comment, error) {
	a, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(a.Comments) {
		return nil, ErrCommentNotFound
	}
	requester = strings.TrimSpace(requester)
	if requester == "" || a.Comments[index].Author != requester {
		return nil, ErrForbidden
	}
	return s.Repo.RemoveComment(ctx, id, index, requester)
}

func (s *Service) storeImage(ctx context.Context, image *uploads.IncomingFile) (string, error) {
	if image == nil {
		return "", nil
	}
	if err := uploads.Validate(*image); err != nil {
		return "", err
	}
	return s.Images.Store(ctx, *image)
}

func (s *Service) discard(ctx context.Context, location string) {
	if location == "" || s.Images == nil {
		return
	}
	s.Images.Discard(ctx, location)
}
