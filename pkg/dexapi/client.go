package dexapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL  = "https://pokeapi.co/api/v2"
	defaultTimeout  = 10 * time.Second
	defaultPageSize = 500
)

// APIError is returned when the upstream responds with a non-2xx status.
type APIError struct {
	StatusCode int
	Endpoint   string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("dexapi: %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

// ErrNotFound is wrapped into 404 responses so callers can distinguish an
// unknown name from an upstream outage.
var ErrNotFound = errors.New("dexapi: not found")

// Option is a functional option for configuring a [Client].
type Option func(*Client)

// WithBaseURL overrides the upstream base URL. Useful for tests and for
// self-hosted catalog mirrors. Trailing slashes are trimmed.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithHTTPClient replaces the underlying [http.Client]. The default client
// carries a 10s timeout; retries are the caller's concern.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithPageSize sets the page size used by [Client.ListNames]. Default: 500.
func WithPageSize(n int) Option {
	return func(c *Client) {
		c.pageSize = n
	}
}

// Client is a read-only REST client for the species database. It is safe
// for concurrent use.
type Client struct {
	baseURL    string
	pageSize   int
	httpClient *http.Client
}

// New creates a [Client] with the supplied options.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		pageSize:   defaultPageSize,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// GetPokemon fetches the per-form record for a canonical Pokémon name.
func (c *Client) GetPokemon(ctx context.Context, name string) (*Pokemon, error) {
	var p Pokemon
	if err := c.get(ctx, c.baseURL+"/pokemon/"+url.PathEscape(name), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetSpecies fetches the per-species record for a canonical species name.
func (c *Client) GetSpecies(ctx context.Context, name string) (*Species, error) {
	var s Species
	if err := c.get(ctx, c.baseURL+"/pokemon-species/"+url.PathEscape(name), &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// GetType fetches the record for a canonical type name.
func (c *Client) GetType(ctx context.Context, name string) (*TypeRecord, error) {
	var t TypeRecord
	if err := c.get(ctx, c.baseURL+"/type/"+url.PathEscape(name), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// GetAbility fetches the record for a canonical ability name.
func (c *Client) GetAbility(ctx context.Context, name string) (*Ability, error) {
	var a Ability
	if err := c.get(ctx, c.baseURL+"/ability/"+url.PathEscape(name), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// GetEvolutionChainByURL fetches an evolution chain via the absolute URL
// carried in [Species.EvolutionChain]. The URL must point at the same
// upstream the client was configured for; no validation is performed.
func (c *Client) GetEvolutionChainByURL(ctx context.Context, chainURL string) (*EvolutionChain, error) {
	var ec EvolutionChain
	if err := c.get(ctx, chainURL, &ec); err != nil {
		return nil, err
	}
	return &ec, nil
}

// ListNames returns every canonical name in the given listing category
// (e.g. "pokemon-species", "type", "ability", "version"), following
// pagination until the upstream reports no further page. Order is the
// upstream declaration order.
func (c *Client) ListNames(ctx context.Context, category string) ([]string, error) {
	next := fmt.Sprintf("%s/%s?limit=%d", c.baseURL, url.PathEscape(category), c.pageSize)

	var names []string
	for next != "" {
		var page Page
		if err := c.get(ctx, next, &page); err != nil {
			return nil, fmt.Errorf("dexapi: list %s: %w", category, err)
		}
		for _, ref := range page.Results {
			names = append(names, ref.Name)
		}
		next = page.Next
	}
	return names, nil
}

// Ping performs a cheap reachability probe against the upstream. Intended
// for readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	var page Page
	return c.get(ctx, c.baseURL+"/type?limit=1", &page)
}

// get performs one GET request and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("dexapi: build request %q: %w", rawURL, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dexapi: get %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, rawURL)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &APIError{StatusCode: resp.StatusCode, Endpoint: rawURL}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("dexapi: decode %q: %w", rawURL, err)
	}
	return nil
}
