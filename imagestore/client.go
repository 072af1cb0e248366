// Package imagestore talks to the remote image host. The host exposes two
// synchronous operations: upload a binary payload and get back a public URL,
// and destroy a previously uploaded asset by its public ID.
package imagestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUpstream wraps any failure reported by or while reaching the remote
// image host.
type ErrUpstream struct {
	Op  string
	Err error
}

func (e *ErrUpstream) Error() string {
	return fmt.Sprintf("image store %s: %v", e.Op, e.Err)
}

func (e *ErrUpstream) Unwrap() error { return e.Err }

type Client struct {
	http           *http.Client
	baseURL        string
	uploadPreset   string
	placeholderURL string
}

// New builds a client for the image host at baseURL. Remote calls are bounded
// by timeout; the reference behavior had none, so callers get a sane default
// when zero is passed.
func New(baseURL, uploadPreset, placeholderURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:           &http.Client{Timeout: timeout},
		baseURL:        strings.TrimRight(baseURL, "/"),
		uploadPreset:   uploadPreset,
		placeholderURL: placeholderURL,
	}
}

// PlaceholderURL is the shared default asset assigned to products created
// without an image. It is never uploaded and never destroyed.
func (c *Client) PlaceholderURL() string {
	return c.placeholderURL
}

// Upload sends the payload to the host and returns the public URL of the new
// asset. Each upload gets a fresh public ID so replacements never collide.
func (c *Client) Upload(ctx context.Context, data []byte, filename string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", &ErrUpstream{Op: "upload", Err: err}
	}
	if _, err := part.Write(data); err != nil {
		return "", &ErrUpstream{Op: "upload", Err: err}
	}
	_ = writer.WriteField("public_id", uuid.NewString())
	if c.uploadPreset != "" {
		_ = writer.WriteField("upload_preset", c.uploadPreset)
	}
	if err := writer.Close(); err != nil {
		return "", &ErrUpstream{Op: "upload", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/image/upload", &body)
	if err != nil {
		return "", &ErrUpstream{Op: "upload", Err: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &ErrUpstream{Op: "upload", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &ErrUpstream{Op: "upload", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var out struct {
		SecureURL string `json:"secure_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ErrUpstream{Op: "upload", Err: err}
	}
	if out.SecureURL == "" {
		return "", &ErrUpstream{Op: "upload", Err: fmt.Errorf("missing secure_url in response")}
	}
	return out.SecureURL, nil
}

// Destroy asks the host to remove the asset behind imageURL. The host reports
// the outcome in the response body; anything but "ok" is a failure.
func (c *Client) Destroy(ctx context.Context, imageURL string) error {
	form := url.Values{"public_id": {PublicID(imageURL)}}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/image/destroy",
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return &ErrUpstream{Op: "destroy", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return &ErrUpstream{Op: "destroy", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &ErrUpstream{Op: "destroy", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var out struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return &ErrUpstream{Op: "destroy", Err: err}
	}
	if out.Result != "ok" {
		return &ErrUpstream{Op: "destroy", Err: fmt.Errorf("result %q", out.Result)}
	}
	return nil
}

// PublicID derives the host-side asset ID from a public URL: the path
// basename without its extension.
func PublicID(imageURL string) string {
	base := path.Base(imageURL)
	return strings.TrimSuffix(base, path.Ext(base))
}
