package playback

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func writeFootage(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write footage: %v", err)
	}
	return path
}

func TestServeFile_Whole(t *testing.T) {
	path := writeFootage(t, 1000)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/media/1/file", nil)

	if err := NewServer(nil).ServeFile(rr, req, path); err != nil {
		t.Fatalf("ServeFile() error = %v", err)
	}
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if rr.Body.Len() != 1000 {
		t.Errorf("body length = %d, want 1000", rr.Body.Len())
	}
	if got := rr.Header().Get("Accept-Ranges"); got != "bytes" {
		t.Errorf("Accept-Ranges = %q, want bytes", got)
	}
}

func TestServeFile_Range(t *testing.T) {
	path := writeFootage(t, 1000)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/media/1/file", nil)
	req.Header.Set("Range", "bytes=100-199")

	if err := NewServer(nil).ServeFile(rr, req, path); err != nil {
		t.Fatalf("ServeFile() error = %v", err)
	}
	if rr.Code != http.StatusPartialContent {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusPartialContent)
	}
	if got := rr.Header().Get("Content-Range"); got != "bytes 100-199/1000" {
		t.Errorf("Content-Range = %q", got)
	}
	body, _ := io.ReadAll(rr.Body)
	if len(body) != 100 || body[0] != byte(100%251) {
		t.Errorf("unexpected body: len=%d first=%d", len(body), body[0])
	}
}

func TestServeFile_Unsatisfiable(t *testing.T) {
	path := writeFootage(t, 10)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/media/1/file", nil)
	req.Header.Set("Range", "bytes=50-")

	if err := NewServer(nil).ServeFile(rr, req, path); err != nil {
		t.Fatalf("ServeFile() error = %v", err)
	}
	if rr.Code != http.StatusRequestedRangeNotSatisfiable {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusRequestedRangeNotSatisfiable)
	}
	if got := rr.Header().Get("Content-Range"); got != "bytes */10" {
		t.Errorf("Content-Range = %q", got)
	}
}

func TestServeFile_HeadAndOffline(t *testing.T) {
	path := writeFootage(t, 64)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodHead, "/media/1/file", nil)
	if err := NewServer(nil).ServeFile(rr, req, path); err != nil {
		t.Fatalf("ServeFile() error = %v", err)
	}
	if rr.Body.Len() != 0 {
		t.Errorf("HEAD body length = %d, want 0", rr.Body.Len())
	}
	if got := rr.Header().Get("Content-Length"); got != "64" {
		t.Errorf("Content-Length = %q, want 64", got)
	}

	rr = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/media/1/file", nil)
	if err := NewServer(nil).ServeFile(rr, req, filepath.Join(t.TempDir(), "gone.mp4")); err != nil {
		t.Fatalf("ServeFile() error = %v", err)
	}
	if rr.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestServeFrame(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/frame", nil)
	ServeFrame(rr, req, 42, []byte{0xff, 0xd8, 0xff})

	if got := rr.Header().Get("X-Splice-Frame"); got != "42" {
		t.Errorf("X-Splice-Frame = %q, want 42", got)
	}
	if rr.Body.Len() != 3 {
		t.Errorf("body length = %d, want 3", rr.Body.Len())
	}
}
