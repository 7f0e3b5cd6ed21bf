package middleware

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/placeshare/api/internal/storage"
)

var (
	pngBytes  = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)
	jpegBytes = append([]byte("\xff\xd8\xff\xe0"), bytes.Repeat([]byte{0}, 64)...)
)

func multipartRequest(t *testing.T, fields map[string]string, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if content != nil {
		fw, err := mw.CreateFormFile("image", filename)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := fw.Write(content); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newUploadStore(t *testing.T) (*storage.Local, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	return store, dir
}

func listFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestImageUpload_StoresImageAndExposesPath(t *testing.T) {
	t.Parallel()
	store, dir := newUploadStore(t)
	var gotPath, gotName string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = GetImagePath(r.Context())
		gotName = r.FormValue("name")
		w.WriteHeader(http.StatusCreated)
	})

	rr := httptest.NewRecorder()
	ImageUpload(ImageUploadConfig{Store: store})(next).ServeHTTP(rr,
		multipartRequest(t, map[string]string{"name": "Ann"}, "me.png", pngBytes))

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	if gotName != "Ann" {
		t.Errorf("expected form field to stay readable, got %q", gotName)
	}
	if !strings.HasSuffix(gotPath, ".png") {
		t.Errorf("expected .png path, got %q", gotPath)
	}
	files := listFiles(t, dir)
	if len(files) != 1 || filepath.Base(gotPath) != files[0] {
		t.Errorf("expected stored file %s, found %v", filepath.Base(gotPath), files)
	}
	if files[0] == "me.png" {
		t.Error("client file name must not be used")
	}
}

func TestImageUpload_AcceptsJPEG(t *testing.T) {
	t.Parallel()
	store, _ := newUploadStore(t)
	var gotPath string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = GetImagePath(r.Context())
	})

	rr := httptest.NewRecorder()
	ImageUpload(ImageUploadConfig{Store: store})(next).ServeHTTP(rr, multipartRequest(t, nil, "a.jpg", jpegBytes))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.HasSuffix(gotPath, ".jpeg") {
		t.Errorf("expected .jpeg path, got %q", gotPath)
	}
}

func TestImageUpload_Rejections(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		file    string
		content []byte
		want    string
	}{
		{"missing file", "", nil, "image is required"},
		{"not an image", "a.png", []byte("plain text pretending to be png"), "png or jpeg"},
		{"gif", "a.gif", []byte("GIF89a......"), "png or jpeg"},
		{"too large", "big.png", append(pngBytes, make([]byte, 2048)...), "at most 1 KB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, dir := newUploadStore(t)
			next := &captureHandler{}
			rr := httptest.NewRecorder()

			ImageUpload(ImageUploadConfig{Store: store, MaxBytes: 1024})(next).ServeHTTP(rr,
				multipartRequest(t, nil, tt.file, tt.content))

			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected 422, got %d", rr.Code)
			}
			if !strings.Contains(rr.Body.String(), tt.want) {
				t.Errorf("expected body to mention %q, got %s", tt.want, rr.Body.String())
			}
			if next.called {
				t.Error("handler should not have been called")
			}
			if files := listFiles(t, dir); len(files) != 0 {
				t.Errorf("expected nothing stored, found %v", files)
			}
		})
	}
}

func TestImageUpload_NotMultipart_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	store, dir := newUploadStore(t)
	req := httptest.NewRequest(http.MethodPost, "/api/users/signup", strings.NewReader(`{"name":"Ann"}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	next := &captureHandler{}

	ImageUpload(ImageUploadConfig{Store: store})(next).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected 422, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "multipart form") {
		t.Errorf("expected body to mention the multipart form, got %s", rr.Body.String())
	}
	if next.called {
		t.Error("handler should not have been called")
	}
	if files := listFiles(t, dir); len(files) != 0 {
		t.Errorf("expected nothing stored, found %v", files)
	}
}

func TestImageUpload_FailedRequestDiscardsImage(t *testing.T) {
	t.Parallel()
	store, dir := newUploadStore(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if len(listFiles(t, dir)) != 1 {
			t.Error("image should exist while the handler runs")
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
	})

	rr := httptest.NewRecorder()
	ImageUpload(ImageUploadConfig{Store: store})(next).ServeHTTP(rr, multipartRequest(t, nil, "a.png", pngBytes))

	if files := listFiles(t, dir); len(files) != 0 {
		t.Errorf("expected image to be discarded, found %v", files)
	}
}

func TestImageUpload_PanicDiscardsImage(t *testing.T) {
	t.Parallel()
	store, dir := newUploadStore(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rr := httptest.NewRecorder()
	Recovery(ImageUpload(ImageUploadConfig{Store: store})(next)).ServeHTTP(rr, multipartRequest(t, nil, "a.png", pngBytes))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if files := listFiles(t, dir); len(files) != 0 {
		t.Errorf("expected image to be discarded, found %v", files)
	}
}

type failingStore struct {
	mu      sync.Mutex
	removed []string
}

func (f *failingStore) Save(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	return "", errors.New("disk full")
}

func (f *failingStore) Remove(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
	return nil
}

func TestImageUpload_StoreFailure_Returns500(t *testing.T) {
	t.Parallel()
	next := &captureHandler{}
	rr := httptest.NewRecorder()

	ImageUpload(ImageUploadConfig{Store: &failingStore{}})(next).ServeHTTP(rr, multipartRequest(t, nil, "a.png", pngBytes))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "disk full") {
		t.Error("storage error must not leak to the client")
	}
	if next.called {
		t.Error("handler should not have been called")
	}
}
