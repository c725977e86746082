package middleware

import (
	"bytes"
	"net/http"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/logger"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/metrics"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	defer logger.SetOutput(os.Stdout)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/api/projects/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := testutil.CollectAndCount(metrics.RequestDuration)
	require.Equal(t, http.StatusNotFound, serve(r, "/api/projects/7", ""))

	require.Contains(t, buf.String(), "[WARN] access: GET /api/projects/7 404")
	require.Equal(t, before+1, testutil.CollectAndCount(metrics.RequestDuration))
}
