package news

import "time"

// ArticleResponse is the outward-facing representation of an article.
type ArticleResponse struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Summary    string            `json:"summary"`
	Author     string            `json:"author"`
	Date       string            `json:"date"`
	Image      string            `json:"image"`
	Likes      int               `json:"likes"`
	Dislikes   int               `json:"dislikes"`
	LikedBy    []string          `json:"likedBy"`
	DislikedBy []string          `json:"dislikedBy"`
	Comments   []CommentResponse `json:"comments"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type CommentResponse struct {
	User      string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type commentsResponse struct {
	Comments []CommentResponse `json:"comments"`
}

func toResponse(a Article) ArticleResponse {
	return ArticleResponse{
		ID:         a.ID,
		Title:      a.Title,
		Summary:    a.Summary,
		Author:     a.Author,
		Date:       a.Date,
		Image:      a.Image,
		Likes:      a.Likes(),
		Dislikes:   a.Dislikes(),
		LikedBy:    a.LikedBy.IDs(),
		DislikedBy: a.DislikedBy.IDs(),
		Comments:   toCommentResponses(a.Comments),
		CreatedAt:  a.CreatedAt,
		UpdatedAt:  a.UpdatedAt,
	}
}

func toCommentResponses(comments []Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, CommentResponse{User: c.Author, Text: c.Text, CreatedAt: c.CreatedAt})
	}
	return out
}

// CreateInput carries the form fields of a new article.
type CreateInput struct {
	Title   string
	Summary string
	Author  string
	Date    string
}

// UpdatePatch carries the fields to change; nil leaves a field as is.
type UpdatePatch struct {
	Title   *string
	Summary *string
	Author  *string
	Date    *string
}
