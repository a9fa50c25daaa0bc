// Package github commits snapshot datasets as file writes through the
// GitHub contents API, the version-controlled file store the live site
// serves its JSON from.
package github

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.github.com"

// Config carries the write-API settings. Token, Owner and Repo are required
// secrets with no defaults.
type Config struct {
	Token   string
	Owner   string
	Repo    string
	Branch  string
	BaseURL string
}

// APIError is a non-success response from the contents API, surfaced to the
// caller rather than swallowed. The caller decides on retry or notification.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("github: status %d: %s", e.Status, e.Message)
}

type Client struct {
	cfg    Config
	client *http.Client
	logger *log.Logger
}

func New(cfg Config, logger *log.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Write commits content as data/<dataset>.json. It first reads the file's
// current revision marker (sha); the marker is omitted when the file does
// not exist yet and required by the API on every later write.
func (c *Client) Write(ctx context.Context, dataset string, content []byte, message string) error {
	if c.cfg.Token == "" {
		return errors.New("github: write token not configured")
	}
	if c.cfg.Owner == "" || c.cfg.Repo == "" {
		return errors.New("github: target repository not configured")
	}

	path := fmt.Sprintf("data/%s.json", dataset)
	sha, err := c.currentSHA(ctx, path)
	if err != nil {
		return err
	}

	payload := map[string]string{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
	}
	if sha != "" {
		payload["sha"] = sha
	}
	if c.cfg.Branch != "" {
		payload["branch"] = c.cfg.Branch
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("github: encode payload: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("github: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("github: put %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return c.apiError(resp)
	}
	c.logger.Printf("github: committed %s (%d bytes)", path, len(content))
	return nil
}

// currentSHA returns the file's revision marker, or "" when the file does
// not exist yet.
func (c *Client) currentSHA(ctx context.Context, path string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s?%s", c.cfg.BaseURL, c.cfg.Owner, c.cfg.Repo, path, cacheBust())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("github: build request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("github: get %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", nil
	}
	if resp.StatusCode != http.StatusOK {
		return "", c.apiError(resp)
	}

	var file struct {
		SHA string `json:"sha"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&file); err != nil {
		return "", fmt.Errorf("github: decode %s: %w", path, err)
	}
	return file.SHA, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Cache-Control", "no-cache")
}

func (c *Client) apiError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&payload)
	if payload.Message == "" {
		payload.Message = resp.Status
	}
	return &APIError{Status: resp.StatusCode, Message: payload.Message}
}

func cacheBust() string {
	return fmt.Sprintf("t=%d", time.Now().UnixNano())
}
