package news

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("news not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrAlreadyReacted  = errors.New("already reacted")
	ErrAlreadyLiked    = fmt.Errorf("%w: already liked", ErrAlreadyReacted)
	ErrAlreadyDisliked = fmt.Errorf("%w: already disliked", ErrAlreadyReacted)
	ErrCommentNotFound = errors.New("comment not found")
	ErrForbidden       = errors.New("you can only delete your own comments")
)

func alreadyReacted(kind Reaction) error {
	if kind == ReactionDislike {
		return ErrAlreadyDisliked
	}
	return ErrAlreadyLiked
}
