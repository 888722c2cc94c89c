// Package client is the data layer the pages use to talk to the member API:
// typed calls, a query cache with the same invalidation rules after every
// mutation, debounced search and listing exports.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchLimit page size requested by Search.
const SearchLimit = 50

const (
	keyList   = "agremiados"
	keySearch = "search"
	keyOne    = "agremiado"
)

// Client member API client
type Client struct {
	baseURL string
	http    *http.Client
	cache   *QueryCache
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithCacheTTL sets how long query results are reused.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) { c.cache = NewQueryCache(ttl) }
}

// New creates a client for the API rooted at baseURL, e.g.
// "http://localhost:8080/api".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		cache:   NewQueryCache(30 * time.Second),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type forwardedForKey struct{}

// WithForwardedFor returns a context whose requests carry X-Forwarded-For: ip,
// so a server trusting this caller attributes them to the end user.
func WithForwardedFor(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, forwardedForKey{}, ip)
}

// Cache exposes the query cache.
func (c *Client) Cache() *QueryCache { return c.cache }

// ═══════════════════════════════════════════════════════════
// Queries
// ═══════════════════════════════════════════════════════════

// List one page of the registry, newest first.
func (c *Client) List(ctx context.Context, page, limit int) (*Page, error) {
	v, err := c.cache.Fetch(ctx, Key(keyList, page, limit), func(ctx context.Context) (interface{}, error) {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(limit))

		var p Page
		if err := c.do(ctx, http.MethodGet, "/agremiados?"+q.Encode(), nil, &p, "Error al cargar agremiados"); err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

// Search looks term up by cop, names or colegio, SearchLimit per page. A
// blank term yields an empty page without calling the API.
func (c *Client) Search(ctx context.Context, term string, page int) (*Page, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return &Page{Data: []Agremiado{}, Page: page, Limit: SearchLimit}, nil
	}

	v, err := c.cache.Fetch(ctx, Key(keyList, keySearch, term, page), func(ctx context.Context) (interface{}, error) {
		q := url.Values{}
		q.Set("q", term)
		q.Set("page", strconv.Itoa(page))
		q.Set("limit", strconv.Itoa(SearchLimit))

		var p Page
		if err := c.do(ctx, http.MethodGet, "/agremiados/search?"+q.Encode(), nil, &p, "Error en la búsqueda"); err != nil {
			return nil, err
		}
		return &p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Page), nil
}

// Get one member.
func (c *Client) Get(ctx context.Context, id int64) (*Agremiado, error) {
	v, err := c.cache.Fetch(ctx, Key(keyOne, id), func(ctx context.Context) (interface{}, error) {
		var env struct {
			Data Agremiado `json:"data"`
		}
		if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/agremiados/%d", id), nil, &env, "Error al cargar agremiado"); err != nil {
			return nil, err
		}
		return &env.Data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Agremiado), nil
}

// ═══════════════════════════════════════════════════════════
// Mutations
// ═══════════════════════════════════════════════════════════

// Create registers a member and drops every cached listing.
func (c *Client) Create(ctx context.Context, in CreateInput) (*Agremiado, error) {
	var env struct {
		Data Agremiado `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, "/agremiados", in, &env, "Error al crear agremiado"); err != nil {
		return nil, err
	}
	c.cache.InvalidatePrefix(keyList)
	return &env.Data, nil
}

// Update patches a member and drops its cached detail plus every listing.
func (c *Client) Update(ctx context.Context, id int64, in UpdateInput) (*Agremiado, error) {
	var env struct {
		Data Agremiado `json:"data"`
	}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/agremiados/%d", id), in, &env, "Error al actualizar agremiado"); err != nil {
		return nil, err
	}
	c.cache.Invalidate(Key(keyOne, id))
	c.cache.InvalidatePrefix(keyList)
	return &env.Data, nil
}

// Delete removes a member.
func (c *Client) Delete(ctx context.Context, id int64) error {
	if err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/agremiados/%d", id), nil, nil, "Error al eliminar agremiado"); err != nil {
		return err
	}
	c.cache.Invalidate(Key(keyOne, id))
	c.cache.InvalidatePrefix(keyList)
	return nil
}

// ── transport ──

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, fallback string) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ip, _ := ctx.Value(forwardedForKey{}).(string); ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		if apiErr.Message == "" {
			apiErr.Message = fallback
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
