package response

import (
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	appErrors "github.com/openlms/enrollment-summary-api/pkg/errors"
)

// JSON sends a success response that intermediaries must not cache.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Error sends an error response in the {"error": "<description>"} contract.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(appErr.Status, gin.H{"error": appErr.Message})
}

// Fresh marks a response as reusable by intermediate caches for maxAge.
func Fresh(c *gin.Context, maxAge time.Duration) {
	c.Header("Cache-Control", fmt.Sprintf("max-age=%d, public", int(maxAge.Seconds())))
}

// ETag derives a weak entity tag from the serialized payload.
func ETag(payload interface{}) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	_, _ = h.Write(raw)
	return fmt.Sprintf("\"%016x\"", h.Sum64())
}

// PageLinks builds absolute next/previous URLs for a page-number paginated
// listing. A link is present only when the adjacent page is non-empty.
func PageLinks(r *http.Request, page, totalPages int) (next, previous *string) {
	if page < totalPages {
		u := pageURL(r, page+1)
		next = &u
	}
	if page > 1 && page-1 <= totalPages {
		u := pageURL(r, page-1)
		previous = &u
	}
	return next, previous
}

func pageURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := r.Header.Get("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	u.Scheme = scheme
	u.Host = r.Host
	return u.String()
}
