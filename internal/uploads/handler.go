package uploads

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"lawyerup-backend/internal/shared/metrics"
	"lawyerup-backend/internal/shared/server/respond"
)

// MaxUploadBytes caps a single multipart file.
const MaxUploadBytes = 10 << 20

// ErrFileTooLarge is returned by ReadFormFile when the part exceeds MaxUploadBytes.
var ErrFileTooLarge = errors.New("file exceeds upload limit")

type Handler struct {
	router *Router
}

func NewHandler(router *Router) *Handler {
	return &Handler{router: router}
}

type uploadResponse struct {
	Location string   `json:"location"`
	Category Category `json:"category"`
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/uploads/:field", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	field := strings.TrimSpace(c.Param("field"))
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+(1<<20))

	f, err := ReadFormFile(c, field)
	if err != nil {
		if errors.Is(err, ErrFileTooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", err.Error(), nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart body", nil)
		return
	}
	if f == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", fmt.Sprintf("file field %q is required", field), nil)
		return
	}

	if err := Validate(*f); err != nil {
		metrics.IncUploadRejected()
		respond.Error(c, http.StatusBadRequest, "unsupported_file_type", err.Error(), nil)
		return
	}

	category := Classify(*f)
	location, err := h.router.StoreAs(c.Request.Context(), *f, category)
	if err != nil {
		WriteStoreError(c, err)
		return
	}

	c.Set("uploadCategory", string(category))
	respond.Created(c, uploadResponse{Location: location, Category: category})
}

// ReadFormFile buffers the multipart file under field. It returns nil, nil
// when the request carries no such file, which callers treat as "no upload".
// An empty declared MIME type is filled in by sniffing the content.
func ReadFormFile(c *gin.Context, field string) (*IncomingFile, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, ErrFileTooLarge
		}
		return nil, err
	}
	if header.Size > MaxUploadBytes {
		return nil, ErrFileTooLarge
	}

	src, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	mime := strings.TrimSpace(header.Header.Get("Content-Type"))
	if mime == "" {
		mime = mimetype.Detect(data).String()
	}
	return &IncomingFile{
		Field:    field,
		MimeType: mime,
		FileName: header.Filename,
		Data:     data,
	}, nil
}

// WriteStoreError maps a Router.Store failure onto the error envelope. The
// backend's message is passed through unchanged.
func WriteStoreError(c *gin.Context, err error) {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		respond.Error(c, http.StatusInternalServerError, "storage_error", storageErr.Err.Error(), gin.H{"backend": storageErr.Backend})
		return
	}
	if ctxErr := c.Request.Context().Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		respond.Error(c, http.StatusRequestTimeout, "request_cancelled", "request cancelled before upload started", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "storage_error", err.Error(), nil)
}
