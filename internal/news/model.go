package news

import (
	"sort"
	"time"
)

// Reaction is the kind of vote a user holds on an article.
type Reaction string

const (
	ReactionLike    Reaction = "like"
	ReactionDislike Reaction = "dislike"
)

// ReactionSet holds unique user IDs.
type ReactionSet map[string]struct{}

func NewReactionSet(ids ...string) ReactionSet {
	s := make(ReactionSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s ReactionSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s ReactionSet) Add(id string) {
	s[id] = struct{}{}
}

func (s ReactionSet) Remove(id string) {
	delete(s, id)
}

func (s ReactionSet) Len() int {
	return len(s)
}

// IDs returns the members in sorted order.
func (s ReactionSet) IDs() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (s ReactionSet) clone() ReactionSet {
	out := make(ReactionSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Comment is one entry in an article's comment thread. Threads keep
// insertion order and comments are addressed by position.
type Comment struct {
	Author    string
	Text      string
	CreatedAt time.Time
}

// Article is a news post. Image holds a stored upload location and may be empty.
type Article struct {
	ID         string
	Title      string
	Summary    string
	Author     string
	Date       string
	Image      string
	LikedBy    ReactionSet
	DislikedBy ReactionSet
	Comments   []Comment
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a Article) Likes() int    { return a.LikedBy.Len() }
func (a Article) Dislikes() int { return a.DislikedBy.Len() }

// Counts is the reaction tally returned by reaction endpoints.
type Counts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

func (a Article) Counts() Counts {
	return Counts{Likes: a.Likes(), Dislikes: a.Dislikes()}
}

// clone returns a deep copy so callers never share sets with a repository.
func (a Article) clone() Article {
	out := a
	out.LikedBy = a.LikedBy.clone()
	out.DislikedBy = a.DislikedBy.clone()
	out.Comments = append([]Comment(nil), a.Comments...)
	return out
}
