package response

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pageParam(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("page")
}

func TestPageLinksMiddlePage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/enrollments/summary?active=true&page=2&page_size=10", nil)

	next, previous := PageLinks(r, 2, 3)
	require.NotNil(t, next)
	require.NotNil(t, previous)
	assert.Equal(t, "3", pageParam(t, *next))
	assert.Equal(t, "1", pageParam(t, *previous))
	assert.Contains(t, *next, "http://example.com/api/enrollments/summary")
	assert.Contains(t, *next, "active=true")
	assert.Contains(t, *next, "page_size=10")
}

func TestPageLinksBoundaries(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/enrollments/summary", nil)

	next, previous := PageLinks(r, 1, 3)
	require.NotNil(t, next)
	assert.Equal(t, "2", pageParam(t, *next))
	assert.Nil(t, previous)

	next, previous = PageLinks(r, 3, 3)
	assert.Nil(t, next)
	require.NotNil(t, previous)
	assert.Equal(t, "2", pageParam(t, *previous))

	next, previous = PageLinks(r, 1, 0)
	assert.Nil(t, next)
	assert.Nil(t, previous)

	next, previous = PageLinks(r, 1, 1)
	assert.Nil(t, next)
	assert.Nil(t, previous)
}

func TestPageLinksForwardedProto(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/enrollments/summary?page=2", nil)
	r.Header.Set("X-Forwarded-Proto", "https")

	next, _ := PageLinks(r, 2, 3)
	require.NotNil(t, next)
	assert.Contains(t, *next, "https://example.com/")
}

func TestETagStableForEqualPayloads(t *testing.T) {
	type payload struct {
		A string `json:"a"`
	}
	first := ETag([]payload{{A: "x"}})
	second := ETag([]payload{{A: "x"}})
	other := ETag([]payload{{A: "y"}})

	require.NotEmpty(t, first)
	assert.Equal(t, first, second)
	assert.NotEqual(t, first, other)
}
