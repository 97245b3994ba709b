package server

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// cachedResponse holds one cached endpoint response.
type cachedResponse struct {
	status      int
	contentType string
	body        []byte
	expiresAt   time.Time
}

func (r *cachedResponse) expired() bool {
	return time.Now().After(r.expiresAt)
}

// ResponseCache returns a Gin middleware that caches successful GET responses
// per route for ttl. Statistics and predictions are eventually-consistent
// snapshots, so serving a response up to ttl old is within contract.
func ResponseCache(ttl time.Duration) gin.HandlerFunc {
	var mu sync.RWMutex
	entries := make(map[string]*cachedResponse)

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := c.FullPath()
		mu.RLock()
		e, ok := entries[key]
		mu.RUnlock()
		if ok && !e.expired() {
			c.Data(e.status, e.contentType, e.body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer}
		c.Writer = w
		c.Next()

		if w.Status() != http.StatusOK {
			return
		}
		mu.Lock()
		entries[key] = &cachedResponse{
			status:      w.Status(),
			contentType: w.Header().Get("Content-Type"),
			body:        w.buf.Bytes(),
			expiresAt:   time.Now().Add(ttl),
		}
		mu.Unlock()
	}
}

// captureWriter tees the response body so it can be cached.
type captureWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
