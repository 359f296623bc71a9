// Package catalog talks to the external package catalog. Every call goes to
// the network: results are never cached so that catalog changes are seen by
// the next request.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrUnavailable wraps every transport or protocol failure of the catalog.
var ErrUnavailable = errors.New("package catalog unavailable")

// Package is one catalog entry.
type Package struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language"`
	Size     int64  `json:"size"`
}

type packageList struct {
	Packages []Package `json:"packages"`
}

// Client is an HTTP client for the catalog service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient constructs a client; a zero timeout falls back to 10s.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Packages fetches the full catalog.
func (c *Client) Packages(ctx context.Context) ([]Package, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/packages", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	var list packageList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("%w: decode packages: %v", ErrUnavailable, err)
	}
	return list.Packages, nil
}

// PackageIDs returns every valid package id in catalog order.
func (c *Client) PackageIDs(ctx context.Context) ([]string, error) {
	packages, err := c.Packages(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(packages))
	for _, pkg := range packages {
		if pkg.ID != "" {
			ids = append(ids, pkg.ID)
		}
	}
	return ids, nil
}

// PackageSizes returns the size of each requested id. Unknown ids are absent from the result.
func (c *Client) PackageSizes(ctx context.Context, ids []string) (map[string]int64, error) {
	sizes := make(map[string]int64, len(ids))
	if len(ids) == 0 {
		return sizes, nil
	}
	packages, err := c.Packages(ctx)
	if err != nil {
		return nil, err
	}
	wanted := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}
	for _, pkg := range packages {
		if _, ok := wanted[pkg.ID]; ok {
			sizes[pkg.ID] = pkg.Size
		}
	}
	return sizes, nil
}

// ResourceSize returns the Content-Length of a remote resource archive.
func (c *Client) ResourceSize(ctx context.Context, url string) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: resource status %d", ErrUnavailable, resp.StatusCode)
	}
	if resp.ContentLength < 0 {
		return 0, fmt.Errorf("%w: resource size unknown", ErrUnavailable)
	}
	return resp.ContentLength, nil
}
