package checker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
)

// ErrStatus is returned for a non-2xx response.
var ErrStatus = errors.New("unexpected status")

// httpClient wraps http.Client with the service base URL.
type httpClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *httpClient {
	return &httpClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// getJSON performs a GET request and decodes a 2xx body into v.
func (c *httpClient) getJSON(ctx context.Context, path string, q url.Values, v any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s: %d %s", ErrStatus, path, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if v == nil {
		return nil
	}
	return json.Unmarshal(body, v)
}

// viewQuery builds the query of a stateless view request.
func viewQuery(cfg *Config, page int, sort *pipeline.SortKey) url.Values {
	q := url.Values{}
	if cfg.Level != "" {
		q.Set("level", cfg.Level)
	}
	if cfg.Tournament > 0 {
		q.Set("tournament", strconv.Itoa(cfg.Tournament))
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if sort != nil {
		q.Set("sort", sort.Column)
		q.Set("dir", string(sort.Direction))
	}
	return q
}

func (c *httpClient) view(ctx context.Context, cfg *Config, page int, sort *pipeline.SortKey) (views.View, error) {
	var v views.View
	err := c.getJSON(ctx, "/api/views/"+url.PathEscape(cfg.View), viewQuery(cfg, page, sort), &v)
	return v, err
}
