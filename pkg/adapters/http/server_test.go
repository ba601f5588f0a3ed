package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/keyframe/pkg/dsl"
	"github.com/aretw0/keyframe/pkg/observability"
	"github.com/aretw0/keyframe/pkg/registry"
	"github.com/aretw0/keyframe/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) *registry.Registry {
	t.Helper()
	b := dsl.New("door").Bool("open")
	base := b.Layer("base")
	base.State("Closed").Length(1).Loop().To("Open").When("open").Fixed(0.1)
	base.State("Open").Length(1).Event(0.5, "creak")
	base.State("Stuck").Length(1)

	loader, err := b.Build()
	require.NoError(t, err)

	reg := registry.New(loader)
	require.NoError(t, reg.Reload(context.Background()))
	return reg
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestServer_Inspection(t *testing.T) {
	h := NewHandler(newCatalog(t))

	w := do(t, h, "GET", "/animators", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `["door"]`, w.Body.String())

	w = do(t, h, "GET", "/animators/door", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"default_state":"Closed"`)

	w = do(t, h, "GET", "/animators/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, "GET", "/animators/door/graph", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `L0_Closed -- "open" --> L0_Open`)

	w = do(t, h, "GET", "/health", "")
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = do(t, h, "GET", "/info", "")
	assert.Contains(t, w.Body.String(), `"app":"keyframe-http"`)

	w = do(t, h, "OPTIONS", "/animators", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestServer_Validate(t *testing.T) {
	h := NewHandler(newCatalog(t))

	w := do(t, h, "GET", "/animators/door/validate", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ValidationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Empty(t, resp.Errors)
	require.Len(t, resp.Warnings, 1, "Stuck is unreachable")
	assert.Contains(t, resp.Warnings[0], "Stuck")
}

func TestServer_Simulate(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	h := NewHandler(newCatalog(t), WithMetrics(metrics), WithGatherer(reg))

	body := `{"name":"open","steps":[{"dt":0.1},{"dt":0.1,"repeat":4,"bool":{"open":true},"expect":{"base":"Open"}}]}`
	w := do(t, h, "POST", "/animators/door/simulate", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var trace runner.Trace
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trace))
	assert.True(t, trace.Passed())
	assert.Len(t, trace.Frames, 5)

	w = do(t, h, "GET", "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `keyframe_transitions_started_total{animator="door",from="Closed",layer="0",to="Open"} 1`)

	w = do(t, h, "POST", "/animators/door/simulate", `{"steps":[{"dt":0.1,"expect":{"base":"Open"}}]}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &trace))
	assert.False(t, trace.Passed())

	w = do(t, h, "POST", "/animators/door/simulate", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, "POST", "/animators/door/simulate", `{"steps":[{"dt":0.1,"bogus":1}]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	limited := NewHandler(newCatalog(t), WithMaxFrames(2))
	w = do(t, limited, "POST", "/animators/door/simulate", `{"steps":[{"dt":0.1,"repeat":3}]}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	huge := `{"steps":[{"dt":0.1,"repeat":4611686018427387904},{"dt":0.1,"repeat":4611686018427387904}]}`
	w = do(t, limited, "POST", "/animators/door/simulate", huge)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestServer_NoMetricsRoute(t *testing.T) {
	w := do(t, NewHandler(newCatalog(t)), "GET", "/metrics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents(t *testing.T) {
	srv := NewServer(newCatalog(t))
	h := srv.Handler()

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest("GET", "/events", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.ServeHTTP(w, req)
		close(done)
	}()

	require.Eventually(t, func() bool { return srv.Streams.Len() == 1 }, time.Second, 10*time.Millisecond)
	srv.Notify("door")

	// Give the handler a moment to flush before disconnecting.
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := w.Body.String()
	assert.Contains(t, body, "event: ping")
	assert.Contains(t, body, "event: reload\ndata: door\n\n")
	assert.Equal(t, 0, srv.Streams.Len())
}
