package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/agbru/cassels/internal/logging"
	"github.com/agbru/cassels/internal/search"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	if m.handler == nil {
		t.Error("Metrics.handler should be initialized")
	}
	if m.Search() == nil {
		t.Error("search recorder should be initialized")
	}
	// Independent registries: a second instance must not collide.
	_ = NewMetrics()
}

func TestMetrics_WritePrometheus(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	m.IncrementActiveRequests()
	defer m.DecrementActiveRequests()

	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	body := rec.Body.String()

	for _, want := range []string{
		"cassels_active_requests 1",
		"cassels_tuples_examined_total{rule=\"castle\"} 0",
		"cassels_units_total 0",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMetrics_RecordsSearch(t *testing.T) {
	t.Parallel()
	m := NewMetrics()
	if _, err := search.New(search.WithRecorder(m.Search()), search.WithWorkers(2)).Run(context.Background(), 7, 4, nil); err != nil {
		t.Fatal(err)
	}

	rec := httptest.NewRecorder()
	m.WritePrometheus(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))
	body := rec.Body.String()
	for _, want := range []string{"cassels_units_total 24", "cassels_waves_total 3", `cassels_tuples_examined_total{rule="keep"} 4`, `cassels_wave_duration_seconds_count{modulus="14"} 3`} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestServer_metricsMiddleware(t *testing.T) {
	t.Parallel()
	s := &Server{metrics: NewMetrics(), logger: logging.Nop()}

	var activeDuring float64
	handler := s.metricsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		activeDuring = gaugeValue(t, s.metrics, "cassels_active_requests")
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if activeDuring != 1 {
		t.Errorf("active requests during the call = %v, want 1", activeDuring)
	}
	if after := gaugeValue(t, s.metrics, "cassels_active_requests"); after != 0 {
		t.Errorf("active requests after the call = %v, want 0", after)
	}
}

// gaugeValue gathers m and returns the value of the unlabelled gauge name.
func gaugeValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.registry.Gather()
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func TestServer_handleMetrics(t *testing.T) {
	t.Parallel()
	tests := []struct {
		method string
		want   int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusMethodNotAllowed},
		{http.MethodPut, http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			t.Parallel()
			s := &Server{metrics: NewMetrics(), logger: logging.Nop()}
			rec := httptest.NewRecorder()
			s.handleMetrics(rec, httptest.NewRequest(tt.method, "/metrics", http.NoBody))
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestServer_StartShutdown(t *testing.T) {
	t.Parallel()
	s := New("127.0.0.1:0", NewMetrics(), logging.Nop())
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}

	for path, want := range map[string]string{"/healthz": "ok", "/metrics": "cassels_requests_total"} {
		resp, err := http.Get("http://" + s.Addr() + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), want) {
			t.Errorf("GET %s: status %d, body missing %q", path, resp.StatusCode, want)
		}
		if resp.Header.Get("X-Content-Type-Options") != "nosniff" {
			t.Errorf("GET %s: security headers missing", path)
		}
	}

	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestServer_StartFailsOnBadAddress(t *testing.T) {
	t.Parallel()
	s := New("256.0.0.1:bad", NewMetrics(), logging.Nop())
	if err := s.Start(); err == nil {
		s.Shutdown(context.Background())
		t.Fatal("expected a listen error")
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown of a server that never started: %v", err)
	}
}
