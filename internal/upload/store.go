// AngelaMos | 2026
// store.go

package upload

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tdfclan/portal/internal/config"
	"github.com/tdfclan/portal/internal/core"
)

var allowedMimeTypes = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

// Store writes evidence images to local disk under the configured
// directory. Filenames are generated server-side; client names never touch
// the filesystem.
type Store struct {
	dir      string
	maxBytes int64
	logger   *slog.Logger
}

func NewStore(cfg config.UploadsConfig, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	return &Store{
		dir:      cfg.Dir,
		maxBytes: cfg.MaxUploadMB * 1024 * 1024,
		logger:   logger,
	}, nil
}

func (s *Store) MaxBytes() int64 {
	return s.maxBytes
}

// Save persists one multipart file and returns the stored metadata. The
// declared content type must be an allowed image type and the payload must
// fit the size cap.
func (s *Store) Save(
	fileHeader *multipart.FileHeader,
) (path string, mimeType string, size int64, err error) {
	mimeType = fileHeader.Header.Get("Content-Type")
	ext, ok := allowedMimeTypes[mimeType]
	if !ok {
		return "", "", 0, core.ErrInvalidInput
	}

	if fileHeader.Size > s.maxBytes {
		return "", "", 0, core.ErrInvalidInput
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", "", 0, fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close() //nolint:errcheck // read-only handle

	name := "evi_" + uuid.NewString() + ext
	fullPath := filepath.Join(s.dir, name)

	dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", "", 0, fmt.Errorf("create stored file: %w", err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, s.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.Remove(name)
		return "", "", 0, fmt.Errorf("write stored file: %w", err)
	}

	if written > s.maxBytes {
		s.Remove(name)
		return "", "", 0, core.ErrInvalidInput
	}

	return name, mimeType, written, nil
}

func (s *Store) Open(storagePath string) (*os.File, error) {
	clean := filepath.Base(storagePath)
	f, err := os.Open(filepath.Join(s.dir, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("open stored file: %w", err)
	}
	return f, nil
}

// Remove deletes a stored file. Best-effort: a missing file is not an
// error, anything else is logged.
func (s *Store) Remove(storagePath string) {
	clean := filepath.Base(storagePath)
	if err := os.Remove(filepath.Join(s.dir, clean)); err != nil &&
		!os.IsNotExist(err) {
		s.logger.Warn("stored file removal failed",
			"path", clean,
			"error", err,
		)
	}
}
