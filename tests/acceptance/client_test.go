package acceptance

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/uni10/storefront-api/config"
	"github.com/uni10/storefront-api/middleware"
	"github.com/uni10/storefront-api/routes"
	"github.com/uni10/storefront-api/tests/testutil"
)

// loadTestConfig loads configuration the way main does, with HS256 tokens
func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	gin.SetMode(gin.TestMode)
	testutil.MustSetTestEnvironment(t)

	os.Setenv("DATABASE_URL", "sqlite://file::memory:")
	os.Setenv("JWT_SECRET", testutil.TestJWTSecret)
	os.Unsetenv("AUTH0_DOMAIN")
	os.Unsetenv("AWS_S3_BUCKET")

	cfg, err := config.Load()
	require.NoError(t, err)
	if testing.Verbose() {
		testutil.PrintEnvironmentInfo()
	}
	return cfg
}

// startServer serves the full router over a real listener
func startServer(cfg *config.Config) *httptest.Server {
	router := routes.NewRouter(routes.Options{
		Auth:         middleware.EnsureValidToken(cfg),
		OptionalAuth: middleware.OptionalToken(cfg),
		CORSOrigins:  cfg.CORSAllowedOrigins,
	})
	return httptest.NewServer(router)
}

// apiResponse is a decoded response envelope
type apiResponse struct {
	Status int
	Header http.Header
	Body   map[string]interface{}
}

func (r apiResponse) data() map[string]interface{} {
	data, _ := r.Body["data"].(map[string]interface{})
	return data
}

func (r apiResponse) list() []interface{} {
	list, _ := r.Body["data"].([]interface{})
	return list
}

// call sends a JSON request to the server; headers are key/value pairs
func call(t *testing.T, server *httptest.Server, method, path string, body interface{}, headers ...string) apiResponse {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	result := apiResponse{Status: resp.StatusCode, Header: resp.Header}
	require.NoError(t, json.Unmarshal(raw, &result.Body), "Response body: %s", string(raw))
	return result
}

// formatID renders a JSON number id for a URL path
func formatID(id float64) string {
	return strconv.FormatFloat(id, 'f', 0, 64)
}
