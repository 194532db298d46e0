package strapi

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

	"github.com/gerunddev/strapisync/internal/article"
)

const (
	DefaultCollection = "articles"
	DefaultPageSize   = 100
	defaultTimeout    = 30 * time.Second
)

var (
	ErrBaseURLRequired = errors.New("strapi: base url is required")
	ErrUnreachable     = errors.New("strapi: server unreachable")
)

// APIError is a non-2xx response from the Strapi REST API
type APIError struct {
	StatusCode int
	Status     string
	Name       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("strapi: %s (%s: %s)", e.Status, e.Name, e.Message)
	}
	return fmt.Sprintf("strapi: %s", e.Status)
}

// Options configures a Client
type Options struct {
	BaseURL    string
	Token      string
	Collection string
	PageSize   int
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client lists articles from a Strapi server
type Client struct {
	http       *http.Client
	baseURL    string
	token      string
	collection string
	pageSize   int
}

type listResponse struct {
	Data []json.RawMessage `json:"data"`
	Meta struct {
		Pagination struct {
			Page      int `json:"page"`
			PageSize  int `json:"pageSize"`
			PageCount int `json:"pageCount"`
			Total     int `json:"total"`
		} `json:"pagination"`
	} `json:"meta"`
}

type errorResponse struct {
	Error struct {
		Status  int    `json:"status"`
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient creates a client for the server at opts.BaseURL
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, ErrBaseURLRequired
	}

	collection := strings.Trim(opts.Collection, "/")
	if collection == "" {
		collection = DefaultCollection
	}

	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}

	return &Client{
		http:       hc,
		baseURL:    base,
		token:      opts.Token,
		collection: collection,
		pageSize:   pageSize,
	}, nil
}

// ListArticles fetches every published article, newest first, following
// pagination until the last page.
func (c *Client) ListArticles(ctx context.Context) ([]article.Article, error) {
	var articles []article.Article

	for page := 1; ; page++ {
		resp, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}

		for i, raw := range resp.Data {
			var a article.Article
			if err := json.Unmarshal(raw, &a); err != nil {
				return nil, fmt.Errorf("failed to decode article %d on page %d: %w", i, page, err)
			}
			articles = append(articles, a)
		}

		if len(resp.Data) == 0 || page >= resp.Meta.Pagination.PageCount {
			break
		}
	}

	return articles, nil
}

func (c *Client) pageURL(page int) string {
	q := url.Values{}
	q.Set("populate", "*")
	q.Set("sort", "publishedAt:desc")
	q.Set("pagination[page]", strconv.Itoa(page))
	q.Set("pagination[pageSize]", strconv.Itoa(c.pageSize))
	return fmt.Sprintf("%s/api/%s?%s", c.baseURL, c.collection, q.Encode())
}

func (c *Client) fetchPage(ctx context.Context, page int) (*listResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(page), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
		var body errorResponse
		if json.Unmarshal(raw, &body) == nil {
			apiErr.Name = body.Error.Name
			apiErr.Message = body.Error.Message
		}
		return nil, apiErr
	}

	var parsed listResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse article list: %w", err)
	}
	return &parsed, nil
}
