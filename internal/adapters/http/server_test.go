package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aretw0/picograph"
	"github.com/aretw0/picograph/internal/metrics"
	"github.com/aretw0/picograph/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const circleDoc = `{
  "nodes": [
    {"id": "init", "definitionId": "on_init"},
    {"id": "ball", "definitionId": "circ", "properties": {"x": 10, "y": 20, "r": 4}}
  ],
  "connections": [
    {"fromNode": "init", "fromPin": "then", "toNode": "ball", "toPin": "exec"}
  ]
}`

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestGetHealth(t *testing.T) {
	rr := do(t, NewHandler(picograph.New()), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}

func TestGetInfo(t *testing.T) {
	rr := do(t, NewHandler(picograph.New(), WithVersion("1.2.3")), http.MethodGet, "/info", "")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "1.2.3", body["version"])
	assert.Greater(t, body["nodes"], 0.0)
}

func TestListNodes(t *testing.T) {
	rr := do(t, NewHandler(picograph.New()), http.MethodGet, "/nodes", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var defs []domain.NodeDefinition
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &defs))
	ids := make([]string, 0, len(defs))
	for _, d := range defs {
		ids = append(ids, d.ID)
	}
	assert.Contains(t, ids, "circ")
	assert.Contains(t, ids, "on_draw")
}

func TestCompile(t *testing.T) {
	h := NewHandler(picograph.New())

	req := httptest.NewRequest(http.MethodPost, "/compile", strings.NewReader(circleDoc))
	req.Header.Set("X-Request-ID", "req-1")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var resp CompileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "function _init()\n  circ(10, 20, 4)\nend\n", resp.Source)
	assert.Empty(t, resp.Cartridge)
}

func TestCompile_Cartridge(t *testing.T) {
	rr := do(t, NewHandler(picograph.New()), http.MethodPost, "/compile?format=cart", circleDoc)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp CompileResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.True(t, strings.HasPrefix(resp.Cartridge, "pico-8 cartridge"))
	assert.Contains(t, resp.Cartridge, "__lua__\nfunction _init()")
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		kind   string
		node   string
	}{
		{
			name:   "malformed document",
			body:   `{"nodes": [`,
			status: http.StatusBadRequest,
			kind:   "invalid_graph",
		},
		{
			name:   "unknown definition",
			body:   `{"nodes": [{"id": "x", "definitionId": "warp"}]}`,
			status: http.StatusUnprocessableEntity,
			kind:   "unknown_node_definition",
			node:   "x",
		},
		{
			name:   "duplicate entry",
			body:   `{"nodes": [{"id": "a", "definitionId": "on_draw"}, {"id": "b", "definitionId": "on_draw"}]}`,
			status: http.StatusUnprocessableEntity,
			kind:   "duplicate_entry_point",
			node:   "b",
		},
	}

	h := NewHandler(picograph.New())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, h, http.MethodPost, "/compile", tt.body)
			assert.Equal(t, tt.status, rr.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			assert.Equal(t, tt.node, resp.Node)
			assert.NotEmpty(t, resp.Error)
		})
	}
}

func TestCompile_BodyTooLarge(t *testing.T) {
	rr := do(t, NewHandler(picograph.New(), WithMaxBodyBytes(16)), http.MethodPost, "/compile", circleDoc)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}

func TestValidate(t *testing.T) {
	h := NewHandler(picograph.New())

	rr := do(t, h, http.MethodPost, "/validate", circleDoc)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"valid":true}`, rr.Body.String())

	rr = do(t, h, http.MethodPost, "/validate", `{"nodes":[{"id":"a","definitionId":"cls"}],"connections":[{"fromNode":"a","fromPin":"then","toNode":"ghost","toPin":"exec"}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_connection")
}

func TestMetricsEndpoint(t *testing.T) {
	rec := metrics.New()
	h := NewHandler(picograph.New(picograph.WithMetrics(rec)), WithMetricsHandler(rec.Handler()))

	do(t, h, http.MethodPost, "/compile", circleDoc)
	rr := do(t, h, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `picograph_compiles_total{result="ok"} 1`)

	rr = do(t, NewHandler(picograph.New()), http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestCORSPreflight(t *testing.T) {
	rr := do(t, NewHandler(picograph.New()), http.MethodOptions, "/compile", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}
