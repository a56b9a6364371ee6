package upload

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/quillchat/quill/internal/log"
)

// writeTestDoc creates a document file in a temp dir and returns its path.
func writeTestDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing test document: %v", err)
	}
	return path
}

func TestNewClient_InvalidEndpoint(t *testing.T) {
	tests := []struct {
		name     string
		endpoint string
	}{
		{"empty", ""},
		{"no scheme", "localhost:8000/upload"},
		{"bad scheme", "ftp://localhost/upload"},
		{"no host", "http:///upload"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.endpoint, log.NewNop())
			if !errors.Is(err, ErrEndpointInvalid) {
				t.Errorf("expected ErrEndpointInvalid, got %v", err)
			}
		})
	}
}

func TestNewClient_NilLogger(t *testing.T) {
	if _, err := NewClient("http://localhost:8000/upload", nil); err == nil {
		t.Error("expected error for nil logger")
	}
}

func TestAllowed(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"notes.txt", true},
		{"report.pdf", true},
		{"old.doc", true},
		{"new.docx", true},
		{"REPORT.PDF", true},
		{"image.png", false},
		{"archive.zip", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Allowed(tt.path); got != tt.want {
				t.Errorf("Allowed(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestUpload_Success(t *testing.T) {
	var gotField, gotFileName, gotContent string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing multipart field 'file': %v", err)
		}
		defer func() { _ = file.Close() }()

		buf := make([]byte, header.Size)
		n, _ := file.Read(buf)
		gotField = "file"
		gotFileName = header.Filename
		gotContent = string(buf[:n])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"indexed","chunks":3}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, log.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	path := writeTestDoc(t, "notes.txt", "document body")
	result, err := client.Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	if gotField != "file" || gotFileName != "notes.txt" || gotContent != "document body" {
		t.Errorf("unexpected multipart request: field=%q name=%q content=%q",
			gotField, gotFileName, gotContent)
	}
	if result.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", result.StatusCode)
	}
	if result.Response["status"] != "indexed" {
		t.Errorf("expected decoded response body, got %v", result.Response)
	}
}

func TestUpload_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, log.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	path := writeTestDoc(t, "report.pdf", "%PDF-1.4")
	result, err := client.Upload(context.Background(), path)
	if !errors.Is(err, ErrUploadFailed) {
		t.Fatalf("expected ErrUploadFailed, got %v", err)
	}
	if result == nil || result.StatusCode != http.StatusInternalServerError {
		t.Errorf("expected result with status 500, got %+v", result)
	}
}

func TestUpload_UnsupportedType(t *testing.T) {
	client, err := NewClient("http://localhost:8000/upload", log.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Upload(context.Background(), "photo.png")
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestUpload_MissingFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL, log.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	_, err = client.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if err == nil {
		t.Error("expected error for missing file")
	}
}

func TestUpload_RateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	// Burst of 1: the second immediate upload must be refused locally.
	client, err := NewClient(srv.URL, log.NewNop(), WithRateLimit(0.01, 1))
	if err != nil {
		t.Fatal(err)
	}

	path := writeTestDoc(t, "notes.txt", "body")
	if _, err := client.Upload(context.Background(), path); err != nil {
		t.Fatalf("first upload failed: %v", err)
	}
	if _, err := client.Upload(context.Background(), path); !errors.Is(err, ErrRateLimited) {
		t.Errorf("expected ErrRateLimited, got %v", err)
	}
}
