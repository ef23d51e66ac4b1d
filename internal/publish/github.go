package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Release is the subset of the GitHub release payload relevant to
// asset upload.
type Release struct {
	ID         int64   `json:"id"`
	TagName    string  `json:"tag_name"`
	Draft      bool    `json:"draft"`
	Prerelease bool    `json:"prerelease"`
	Assets     []Asset `json:"assets"`
}

// Asset is an uploaded release asset.
type Asset struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Client talks to the GitHub releases API for a single repository.
type Client struct {
	repository string // owner/name
	token      string
	apiBase    string
	uploadBase string
	httpClient *http.Client
}

// NewClient creates a release API client. Base URLs must not have a
// trailing slash; empty strings select the github.com endpoints.
func NewClient(repository, token, apiBase, uploadBase string) *Client {
	if apiBase == "" {
		apiBase = "https://api.github.com"
	}
	if uploadBase == "" {
		uploadBase = "https://uploads.github.com"
	}
	return &Client{
		repository: repository,
		token:      token,
		apiBase:    strings.TrimRight(apiBase, "/"),
		uploadBase: strings.TrimRight(uploadBase, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// GetReleaseByTag fetches the release associated with a tag.
func (c *Client) GetReleaseByTag(ctx context.Context, tag string) (*Release, error) {
	u := fmt.Sprintf("%s/repos/%s/releases/tags/%s", c.apiBase, c.repository, url.PathEscape(tag))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("no release found for tag %s", tag)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apiError("get release", resp)
	}

	var rel Release
	if err := json.NewDecoder(resp.Body).Decode(&rel); err != nil {
		return nil, fmt.Errorf("failed to decode release: %w", err)
	}
	return &rel, nil
}

// DeleteAsset removes an existing release asset.
func (c *Client) DeleteAsset(ctx context.Context, assetID int64) error {
	u := fmt.Sprintf("%s/repos/%s/releases/assets/%d", c.apiBase, c.repository, assetID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent {
		return apiError("delete asset", resp)
	}
	return nil
}

// UploadAsset uploads a file as a release asset. An existing asset with
// the same name is deleted first, so re-running a release replaces the
// artifact instead of failing.
func (c *Client) UploadAsset(ctx context.Context, rel *Release, path string) (*Asset, error) {
	name := filepath.Base(path)

	for _, existing := range rel.Assets {
		if existing.Name == name {
			if err := c.DeleteAsset(ctx, existing.ID); err != nil {
				return nil, fmt.Errorf("failed to replace asset %s: %w", name, err)
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	u := fmt.Sprintf("%s/repos/%s/releases/%d/assets?name=%s",
		c.uploadBase, c.repository, rel.ID, url.QueryEscape(name))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, f)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/zip")
	req.ContentLength = info.Size()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, apiError("upload asset", resp)
	}

	var asset Asset
	if err := json.NewDecoder(resp.Body).Decode(&asset); err != nil {
		return nil, fmt.Errorf("failed to decode asset: %w", err)
	}
	return &asset, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func apiError(action string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s failed: %s", action, resp.Status)
	}
	return fmt.Errorf("%s failed: %s: %s", action, resp.Status, msg)
}
