package logging

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/bizops-api/internal/constants"
)

const RequestIDHeader = "X-Request-ID"

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRequestID returns a lexicographically sortable ULID string.
func NewRequestID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy).String()
}

// Middleware logs every request and stores a request-scoped entry in the gin context.
func Middleware(base *logrus.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqID := c.GetHeader(RequestIDHeader)
		if reqID == "" {
			reqID = NewRequestID()
		}
		c.Header(RequestIDHeader, reqID)

		entry := base.WithFields(logrus.Fields{
			"req_id":      reqID,
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"remote_addr": c.ClientIP(),
		})
		c.Set(constants.ContextKeyLogger, entry)

		c.Next()

		fields := logrus.Fields{
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"user_agent":  c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.WithFields(fields).Error("http_request")
		case status >= 400:
			entry.WithFields(fields).Warn("http_request")
		default:
			entry.WithFields(fields).Info("http_request")
		}
	}
}

// FromContext returns the request logger, or the standard logger outside a request.
func FromContext(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(constants.ContextKeyLogger); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
