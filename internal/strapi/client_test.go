package strapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gerunddev/strapisync/internal/article"
)

func TestListArticlesPaginates(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/articles", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("populate"))
		assert.Equal(t, "publishedAt:desc", r.URL.Query().Get("sort"))
		assert.Equal(t, "2", r.URL.Query().Get("pagination[pageSize]"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		page := r.URL.Query().Get("pagination[page]")
		pages = append(pages, page)

		w.Header().Set("Content-Type", "application/json")
		switch page {
		case "1":
			fmt.Fprint(w, `{"data":[{"id":3,"title":"c","publishedAt":"2024-03-01T00:00:00Z"},{"id":2,"title":"b","publishedAt":"2024-02-01T00:00:00Z"}],"meta":{"pagination":{"page":1,"pageSize":2,"pageCount":2,"total":3}}}`)
		default:
			fmt.Fprint(w, `{"data":[{"id":1,"title":"a","publishedAt":"2024-01-01T00:00:00Z","content":[{"type":"paragraph","children":[{"type":"text","text":"x"}]}]}],"meta":{"pagination":{"page":2,"pageSize":2,"pageCount":2,"total":3}}}`)
		}
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL + "/", Token: "secret", PageSize: 2})
	require.NoError(t, err)

	got, err := c.ListArticles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2"}, pages)
	require.Len(t, got, 3)
	assert.Equal(t, []article.ID{"3", "2", "1"}, []article.ID{got[0].ID, got[1].ID, got[2].ID})
	assert.Len(t, got[2].Content, 1)
}

func TestListArticlesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[],"meta":{"pagination":{"page":1,"pageSize":100,"pageCount":0,"total":0}}}`)
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	got, err := c.ListArticles(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListArticlesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		fmt.Fprint(w, `{"data":null,"error":{"status":403,"name":"ForbiddenError","message":"Forbidden"}}`)
	}))
	defer srv.Close()

	c, err := NewClient(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.ListArticles(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "ForbiddenError", apiErr.Name)
	assert.Contains(t, apiErr.Error(), "Forbidden")
}

func TestListArticlesUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(Options{BaseURL: addr})
	require.NoError(t, err)

	_, err = c.ListArticles(context.Background())
	assert.ErrorIs(t, err, ErrUnreachable)
}

func TestNewClientRequiresBaseURL(t *testing.T) {
	_, err := NewClient(Options{BaseURL: "  "})
	assert.ErrorIs(t, err, ErrBaseURLRequired)
}

func TestCustomCollection(t *testing.T) {
	c, err := NewClient(Options{BaseURL: "http://cms.local", Collection: "/posts/"})
	require.NoError(t, err)
	assert.Contains(t, c.pageURL(1), "http://cms.local/api/posts?")
}
