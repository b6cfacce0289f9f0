// AngelaMos | 2026
// store_test.go

package upload

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tdfclan/portal/internal/config"
	"github.com/tdfclan/portal/internal/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewStore(config.UploadsConfig{
		Dir:         t.TempDir(),
		MaxUploadMB: 1,
	}, logger)
	require.NoError(t, err)

	return store
}

func makeFileHeader(
	t *testing.T,
	contentType string,
	content []byte,
) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := textproto.MIMEHeader{}
	header.Set(
		"Content-Disposition",
		`form-data; name="evidence"; filename="proof.png"`,
	)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))

	files := req.MultipartForm.File["evidence"]
	require.Len(t, files, 1)

	return files[0]
}

func TestStoreSaveAndOpen(t *testing.T) {
	store := newTestStore(t)
	content := []byte("png bytes")

	path, mimeType, size, err := store.Save(
		makeFileHeader(t, "image/png", content),
	)
	require.NoError(t, err)
	require.Equal(t, "image/png", mimeType)
	require.Equal(t, int64(len(content)), size)
	require.True(t, strings.HasPrefix(path, "evi_"))
	require.True(t, strings.HasSuffix(path, ".png"))

	f, err := store.Open(path)
	require.NoError(t, err)
	defer f.Close()

	got, err := io.ReadAll(f)
	require.NoError(t, err)
	require.Equal(t, content, got)
}

func TestStoreRejectsDisallowedType(t *testing.T) {
	store := newTestStore(t)

	_, _, _, err := store.Save(
		makeFileHeader(t, "application/x-sh", []byte("#!/bin/sh")),
	)
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestStoreRejectsOversizedFile(t *testing.T) {
	store := newTestStore(t)

	big := bytes.Repeat([]byte("a"), int(store.MaxBytes())+1)
	_, _, _, err := store.Save(makeFileHeader(t, "image/png", big))
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestStoreOpenJailsPath(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Open("../../etc/passwd")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestStoreRemove(t *testing.T) {
	store := newTestStore(t)

	path, _, _, err := store.Save(
		makeFileHeader(t, "image/jpeg", []byte("jpeg bytes")),
	)
	require.NoError(t, err)

	store.Remove(path)
	_, err = os.Stat(filepath.Join(store.dir, path))
	require.True(t, os.IsNotExist(err))

	// removing twice is fine
	store.Remove(path)
}
