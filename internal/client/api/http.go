package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/itskiranbabu/InstaReelFlow/internal/client/models"
)

// TokenSource supplies the current bearer token, or "" when no session is
// active. The session layer implements it.
type TokenSource interface {
	Token() string
}

// HTTPClient implements Client against the backend's JSON-over-HTTP API.
type HTTPClient struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
}

// NewHTTPClient returns a client for the API served at baseURL.
// tokens may be nil for an unauthenticated client.
func NewHTTPClient(baseURL string, tokens TokenSource) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		tokens:  tokens,
	}
}

func (c *HTTPClient) Close() error {
	c.http.CloseIdleConnections()
	return nil
}

func (c *HTTPClient) authorize(req *http.Request) {
	if c.tokens == nil {
		return
	}
	if tok := c.tokens.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// do performs one JSON round trip. body and out may be nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// checkStatus maps a non-2xx response to a sentinel or *ServerError.
// The backend reports failures as {"message": "..."} bodies.
func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	var body struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	return &ServerError{Status: resp.StatusCode, Message: body.Message}
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", payload, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", payload, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

func (c *HTTPClient) ListFeed(ctx context.Context) ([]*models.MediaItem, error) {
	var out []*models.MediaItem
	if err := c.do(ctx, http.MethodGet, "/api/videos", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ListUserMedia(ctx context.Context, userID string) ([]*models.MediaItem, error) {
	var out []*models.MediaItem
	path := "/api/users/" + url.PathEscape(userID) + "/videos"
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *HTTPClient) ToggleLike(ctx context.Context, mediaID string) ([]string, error) {
	var out struct {
		Likes []string `json:"likes"`
	}
	path := "/api/videos/" + url.PathEscape(mediaID) + "/like"
	if err := c.do(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Likes, nil
}

func (c *HTTPClient) AddComment(ctx context.Context, mediaID, text string) ([]models.Comment, error) {
	var out struct {
		Comments []models.Comment `json:"comments"`
	}
	path := "/api/videos/" + url.PathEscape(mediaID) + "/comment"
	if err := c.do(ctx, http.MethodPost, path, map[string]string{"text": text}, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

// SubmitUpload posts the clip and description as a single multipart request.
// The file goes into the "video" part, the description into "description".
func (c *HTTPClient) SubmitUpload(ctx context.Context, file io.Reader, filename, description string) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fw, err := mw.CreateFormFile("video", filename)
	if err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return "", fmt.Errorf("read video file: %w", err)
	}
	if err := mw.WriteField("description", description); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/videos", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("POST /api/videos: %w", ErrUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if err := checkStatus(resp); err != nil {
		return "", err
	}
	var out struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.ID, nil
}
