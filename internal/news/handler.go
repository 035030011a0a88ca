package news

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"lawyerup-backend/internal/shared/metrics"
	"lawyerup-backend/internal/shared/server/middleware"
	"lawyerup-backend/internal/shared/server/respond"
	"lawyerup-backend/internal/uploads"
)

const imageField = "image"

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches news routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/news")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.POST("", h.create)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.remove)
	g.POST("/:id/like", h.reaction(h.Svc.Like))
	g.POST("/:id/unlike", h.reaction(h.Svc.Unlike))
	g.POST("/:id/dislike", h.reaction(h.Svc.Dislike))
	g.POST("/:id/undislike", h.reaction(h.Svc.Undislike))
	g.POST("/:id/comments", h.addComment)
	g.DELETE("/:id/comments/:index", h.deleteComment)
}

func (h *Handler) list(c *gin.Context) {
	articles, err := h.Svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, toResponse(a))
	}
	respond.OK(c, out)
}

func (h *Handler) get(c *gin.Context) {
	id := articleID(c)
	a, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(a))
}

type articleBody struct {
	Title   *string `json:"title"`
	Summary *string `json:"summary"`
	Author  *string `json:"author"`
	Date    *string `json:"date"`
}

func (h *Handler) create(c *gin.Context) {
	body, image, ok := readArticleRequest(c)
	if !ok {
		return
	}
	in := CreateInput{
		Title:   deref(body.Title),
		Summary: deref(body.Summary),
		Author:  deref(body.Author),
		Date:    deref(body.Date),
	}
	a, err := h.Svc.Create(c.Request.Context(), in, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.Set("articleId", a.ID)
	respond.Created(c, toResponse(a))
}

func (h *Handler) update(c *gin.Context) {
	id := articleID(c)
	body, image, ok := readArticleRequest(c)
	if !ok {
		return
	}
	patch := UpdatePatch{Title: body.Title, Summary: body.Summary, Author: body.Author, Date: body.Date}
	a, err := h.Svc.Update(c.Request.Context(), id, patch, image)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(a))
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), articleID(c)); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true})
}

type reactionRequest struct {
	UserID string `json:"userId"`
}

type reactionFunc func(ctx context.Context, id, userID string) (Counts, error)

// reaction serves the four reaction routes. The user comes from the body
// when given, otherwise from the caller identity.
func (h *Handler) reaction(fn reactionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := articleID(c)
		var req reactionRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
		userID := strings.TrimSpace(req.UserID)
		if userID == "" {
			userID = middleware.UserIDFromContext(c)
		}
		counts, err := fn(c.Request.Context(), id, userID)
		if err != nil {
			writeError(c, err)
			return
		}
		respond.OK(c, counts)
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *Handler) addComment(c *gin.Context) {
	id := articleID(c)
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	comments, err := h.Svc.AddComment(c.Request.Context(), id, middleware.UserNameFromContext(c), req.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, commentsResponse{Comments: toCommentResponses(comments)})
}

func (h *Handler) deleteComment(c *gin.Context) {
	id := articleID(c)
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "comment_not_found", ErrCommentNotFound.Error(), nil)
		return
	}
	comments, err := h.Svc.DeleteComment(c.Request.Context(), id, index, middleware.UserNameFromContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, commentsResponse{Comments: toCommentResponses(comments)})
}

func articleID(c *gin.Context) string {
	id := strings.TrimSpace(c.Param("id"))
	c.Set("articleId", id)
	return id
}

// readArticleRequest accepts multipart forms (with an optional image) and
// plain JSON bodies. It writes the error response itself when ok is false.
func readArticleRequest(c *gin.Context) (articleBody, *uploads.IncomingFile, bool) {
	var body articleBody
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return articleBody{}, nil, false
		}
		return body, nil, true
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uploads.MaxUploadBytes+(1<<20))
	image, err := uploads.ReadFormFile(c, imageField)
	if err != nil {
		if errors.Is(err, uploads.ErrFileTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", err.Error(), nil)
		} else {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart body", nil)
		}
		return articleBody{}, nil, false
	}
	body.Title = formValue(c, "title")
	body.Summary = formValue(c, "summary")
	body.Author = formValue(c, "author")
	body.Date = formValue(c, "date")
	return body, image, true
}

func formValue(c *gin.Context, key string) *string {
	v, ok := c.GetPostForm(key)
	if !ok {
		return nil
	}
	return &v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func writeError(c *gin.Context, err error) {
	var storageErr *uploads.StorageError
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, ErrCommentNotFound):
		respond.Error(c, http.StatusNotFound, "comment_not_found", err.Error(), nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", err.Error(), nil)
	case errors.Is(err, ErrAlreadyReacted):
		respond.Error(c, http.StatusBadRequest, "already_reacted", strings.TrimPrefix(err.Error(), ErrAlreadyReacted.Error()+": "), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, uploads.ErrUnsupportedFileType):
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", err.Error(), nil)
	case errors.As(err, &storageErr):
		uploads.WriteStoreError(c, err)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process news request", nil)
	}
}
