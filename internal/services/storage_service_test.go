package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type memoryFile struct {
	*bytes.Reader
}

func (memoryFile) Close() error { return nil }

func newMemoryFile(content []byte) memoryFile {
	return memoryFile{bytes.NewReader(content)}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 24))

func TestUploadFileSendsDetectedContentType(t *testing.T) {
	var uploadedPath, contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uploadedPath = r.URL.Path
		contentType = r.Header.Get("Content-Type")
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing service key auth header")
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "media", "test-key", 0)
	url, err := storage.UploadFile(context.Background(), newMemoryFile(pngHeader), "7-1.png", "portfolio")
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}

	if uploadedPath != "/storage/v1/object/media/portfolio/7-1.png" {
		t.Fatalf("unexpected upload path %s", uploadedPath)
	}
	if contentType != "image/png" {
		t.Fatalf("expected detected image/png, got %s", contentType)
	}
	want := server.URL + "/storage/v1/object/public/media/portfolio/7-1.png"
	if url != want {
		t.Fatalf("expected public url %s, got %s", want, url)
	}
}

func TestUploadFileRejectsDisallowedContentTypeForFolder(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "media", "test-key", 0)

	text := []byte("definitely not an image")
	if _, err := storage.UploadFile(context.Background(), newMemoryFile(text), "avatar.txt", "creators/avatars"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for a text avatar, got %v", err)
	}
	if requests != 0 {
		t.Fatalf("rejected upload must not reach storage, got %d requests", requests)
	}

	// Deliverables carry no restriction, creators ship arbitrary files.
	if _, err := storage.UploadFile(context.Background(), newMemoryFile(text), "notes.txt", "deliverables"); err != nil {
		t.Fatalf("deliverable upload should pass content check, got %v", err)
	}
}

func TestGetSignedURLUsesConfiguredTTL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var payload struct {
			ExpiresIn int `json:"expiresIn"`
		}
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("unmarshal sign payload: %v", err)
		}
		if payload.ExpiresIn != 900 {
			t.Errorf("expected expiresIn 900, got %d", payload.ExpiresIn)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"signedURL": "/object/sign/media/deliverables/final.mp4?token=abc",
		})
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "media", "test-key", 15*time.Minute)
	fileURL := server.URL + "/storage/v1/object/public/media/deliverables/final.mp4"

	signed, err := storage.GetSignedURL(context.Background(), fileURL)
	if err != nil {
		t.Fatalf("GetSignedURL: %v", err)
	}
	want := server.URL + "/storage/v1/object/sign/media/deliverables/final.mp4?token=abc"
	if signed != want {
		t.Fatalf("expected %s, got %s", want, signed)
	}
}

func TestDeleteFileTreatsMissingObjectAsDeleted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	storage := NewSupabaseStorageService(server.URL, "media", "test-key", 0)
	fileURL := server.URL + "/storage/v1/object/public/media/creators/avatars/7.png"

	if err := storage.DeleteFile(context.Background(), fileURL); err != nil {
		t.Fatalf("expected 404 delete to be a no-op, got %v", err)
	}
}

func TestDeleteFileRejectsForeignBucketURL(t *testing.T) {
	storage := NewSupabaseStorageService("http://storage.local", "media", "test-key", 0)

	err := storage.DeleteFile(context.Background(), "http://storage.local/storage/v1/object/public/other-bucket/file.png")
	if err == nil {
		t.Fatal("expected an error for a url outside the configured bucket")
	}
}
