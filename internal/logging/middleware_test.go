package logging

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_AssignsRequestIDAndLogs(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(Middleware(logrus.NewEntry(logger)))
	r.GET("/ping", func(c *gin.Context) {
		FromContext(c).Info("inside handler")
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	require.Equal(t, http.StatusNoContent, w.Code)
	reqID := w.Header().Get(RequestIDHeader)
	_, err := ulid.ParseStrict(reqID)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var last map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &last))
	require.Equal(t, "http_request", last["msg"])
	require.Equal(t, reqID, last["req_id"])
	require.EqualValues(t, http.StatusNoContent, last["status"])
}

func TestMiddleware_KeepsIncomingRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	r := gin.New()
	r.Use(Middleware(logrus.NewEntry(logger)))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "from-proxy")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "from-proxy", w.Header().Get(RequestIDHeader))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, logrus.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, logrus.WarnLevel, parseLevel("warning"))
	require.Equal(t, logrus.ErrorLevel, parseLevel("error"))
	require.Equal(t, logrus.InfoLevel, parseLevel("nonsense"))
}
