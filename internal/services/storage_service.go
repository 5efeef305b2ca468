package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

type StorageService interface {
	UploadFile(ctx context.Context, file multipart.File, filename string, folder string) (string, error)
	DeleteFile(ctx context.Context, fileURL string) error
	GetSignedURL(ctx context.Context, fileURL string) (string, error)
}

const defaultSignedURLTTL = time.Hour

// Allowed content-type prefixes per top-level folder. Folders absent from the
// map accept anything; deliverables stay open because creators ship zips and
// cuts in whatever container the brand asked for.
var folderContentPrefixes = map[string][]string{
	"creators":  {"image/"},
	"brands":    {"image/"},
	"portfolio": {"image/", "video/"},
}

// SupabaseStorageService talks to the Supabase Storage REST API directly.
type SupabaseStorageService struct {
	baseURL      string
	bucket       string
	serviceKey   string
	signedURLTTL time.Duration
	httpClient   *http.Client
}

func NewSupabaseStorageService(baseURL, bucket, serviceKey string, signedURLTTL time.Duration) *SupabaseStorageService {
	if signedURLTTL <= 0 {
		signedURLTTL = defaultSignedURLTTL
	}
	return &SupabaseStorageService{
		baseURL:      strings.TrimRight(baseURL, "/"),
		bucket:       bucket,
		serviceKey:   serviceKey,
		signedURLTTL: signedURLTTL,
		httpClient:   http.DefaultClient,
	}
}

func (s *SupabaseStorageService) UploadFile(ctx context.Context, file multipart.File, filename string, folder string) (string, error) {
	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}

	contentType := http.DetectContentType(content)
	if !contentTypeAllowed(folder, contentType) {
		return "", fmt.Errorf("%w: %s uploads do not accept %s", ErrInvalidInput, folderRoot(folder), contentType)
	}

	objectPath := path.Join(strings.Trim(folder, "/"), filename)
	req, err := s.newRequest(ctx, http.MethodPost, s.objectURL(objectPath), bytes.NewReader(content))
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("x-upsert", "true")
	req.Header.Set("Content-Type", contentType)

	if err := s.do(req, "upload file", nil); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath), nil
}

func (s *SupabaseStorageService) DeleteFile(ctx context.Context, fileURL string) error {
	objectPath, err := s.objectPathFromURL(fileURL)
	if err != nil {
		return err
	}

	req, err := s.newRequest(ctx, http.MethodDelete, s.objectURL(objectPath), nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete file: %w", err)
	}
	defer resp.Body.Close()

	// Already gone counts as deleted.
	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	return checkStatus(resp, "delete file")
}

func (s *SupabaseStorageService) GetSignedURL(ctx context.Context, fileURL string) (string, error) {
	objectPath, err := s.objectPathFromURL(fileURL)
	if err != nil {
		return "", err
	}

	body, err := json.Marshal(map[string]int{"expiresIn": int(s.signedURLTTL.Seconds())})
	if err != nil {
		return "", fmt.Errorf("marshal signed url payload: %w", err)
	}

	signURL := fmt.Sprintf("%s/storage/v1/object/sign/%s/%s", s.baseURL, s.bucket, objectPath)
	req, err := s.newRequest(ctx, http.MethodPost, signURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build signed url request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var response struct {
		SignedURL string `json:"signedURL"`
	}
	if err := s.do(req, "get signed url", &response); err != nil {
		return "", err
	}
	if response.SignedURL == "" {
		return "", fmt.Errorf("signed url missing from response")
	}

	return fmt.Sprintf("%s/storage/v1%s", s.baseURL, response.SignedURL), nil
}

func (s *SupabaseStorageService) newRequest(ctx context.Context, method, requestURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	return req, nil
}

// do runs the request, fails on non-2xx, and decodes the body into out when
// out is non-nil.
func (s *SupabaseStorageService) do(req *http.Request, action string, out any) error {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp, action); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", action, err)
	}
	return nil
}

func checkStatus(resp *http.Response, action string) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	return fmt.Errorf("%s: status %d: %s", action, resp.StatusCode, strings.TrimSpace(string(body)))
}

func (s *SupabaseStorageService) objectURL(objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", s.baseURL, s.bucket, objectPath)
}

func (s *SupabaseStorageService) objectPathFromURL(fileURL string) (string, error) {
	parsed, err := url.Parse(fileURL)
	if err != nil {
		return "", fmt.Errorf("parse file url: %w", err)
	}

	publicPrefix := "/storage/v1/object/public/" + s.bucket + "/"
	objectPrefix := "/storage/v1/object/" + s.bucket + "/"

	switch {
	case strings.HasPrefix(parsed.Path, publicPrefix):
		return strings.TrimPrefix(parsed.Path, publicPrefix), nil
	case strings.HasPrefix(parsed.Path, objectPrefix):
		return strings.TrimPrefix(parsed.Path, objectPrefix), nil
	default:
		return "", fmt.Errorf("file url does not belong to configured bucket")
	}
}

func folderRoot(folder string) string {
	trimmed := strings.Trim(folder, "/")
	if idx := strings.IndexByte(trimmed, '/'); idx >= 0 {
		return trimmed[:idx]
	}
	return trimmed
}

func contentTypeAllowed(folder, contentType string) bool {
	prefixes, restricted := folderContentPrefixes[folderRoot(folder)]
	if !restricted {
		return true
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(contentType, prefix) {
			return true
		}
	}
	return false
}
