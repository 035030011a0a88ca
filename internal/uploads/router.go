package uploads

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"

	"lawyerup-backend/internal/shared/metrics"
	"lawyerup-backend/internal/shared/telemetry"
)

// RouterConfig is fixed for the lifetime of the process.
type RouterConfig struct {
	UseRemote bool
}

// Router picks one backend at construction and sends every upload through it.
type Router struct {
	active Backend
	local  *LocalBackend
}

// NewRouter builds a router. The local backend is always required because
// prior local locations may need discarding even when remote is active.
func NewRouter(cfg RouterConfig, local *LocalBackend, remote Backend) (*Router, error) {
	if local == nil {
		return nil, errors.New("uploads: local backend is required")
	}
	r := &Router{active: local, local: local}
	if cfg.UseRemote {
		if remote == nil {
			return nil, errors.New("uploads: remote storage enabled but no remote backend configured")
		}
		r.active = remote
	}
	return r, nil
}

// Backend returns the name of the selected backend.
func (r *Router) Backend() string {
	return r.active.Name()
}

// Store classifies f, writes it through the selected backend and returns its
// location. Callers must not invoke Store without a file. Once the write has
// started it runs to completion even if ctx is cancelled.
func (r *Router) Store(ctx context.Context, f IncomingFile) (string, error) {
	return r.StoreAs(ctx, f, Classify(f))
}

// StoreAs is Store for a category the caller already computed.
func (r *Router) StoreAs(ctx context.Context, f IncomingFile, category Category) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	start := time.Now()

	location, err := r.active.Put(context.WithoutCancel(ctx), f, category)
	metrics.ObserveUploadDurationMs(float64(time.Since(start).Microseconds()) / 1000.0)
	if err != nil {
		metrics.IncUploadFailed()
		telemetry.Error("upload.store.failed", map[string]any{
			"backend":  r.active.Name(),
			"category": string(category),
			"field":    f.Field,
			"err":      err.Error(),
		})
		return "", &StorageError{Backend: r.active.Name(), Err: err}
	}

	metrics.IncUploadStored()
	telemetry.Info("upload.stored", map[string]any{
		"backend":  r.active.Name(),
		"category": string(category),
		"field":    f.Field,
		"size":     humanize.Bytes(uint64(len(f.Data))),
		"location": location,
	})
	return location, nil
}

// Discard deletes the file behind a prior local location on a best-effort
// basis. Remote URLs are left in place. It never returns an error.
func (r *Router) Discard(ctx context.Context, location string) {
	if location == "" {
		return
	}
	if !IsLocalLocation(location) {
		// TODO: remote deletion needs the provider's object id stored next to the URL.
		telemetry.Info("upload.discard.skipped", map[string]any{"location": location})
		return
	}
	if err := r.local.Remove(location); err != nil {
		telemetry.Warn("upload.discard.failed", map[string]any{"location": location, "err": err.Error()})
	}
}
