package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewCollector(t *testing.T) {
	c := New()
	if c == nil {
		t.Fatal("expected non-nil collector")
	}
}

func TestMetricsHandler(t *testing.T) {
	c := New()
	handler := c.Handler()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body, _ := io.ReadAll(w.Body)
	content := string(body)

	// Should contain Go runtime metrics.
	if !strings.Contains(content, "go_goroutines") {
		t.Fatal("expected go_goroutines metric")
	}
}

func TestProcessStateMetric(t *testing.T) {
	c := New()
	c.SetProcessState("web", 20) // any state code is exported as-is

	body := scrape(t, c)
	if !strings.Contains(body, `groundcontrol_process_state{name="web"} 20`) {
		t.Fatalf("expected process state metric, got:\n%s", body)
	}
}

func TestProcessStartCounter(t *testing.T) {
	c := New()
	c.IncProcessStart("web")
	c.IncProcessStart("web")
	c.IncProcessStart("web")
	c.IncProcessStart("web")
	c.IncProcessStart("web")

	body := scrape(t, c)
	if !strings.Contains(body, `groundcontrol_process_start_total{name="web"} 5`) {
		t.Fatalf("expected start_total=5, got:\n%s", body)
	}
}

func TestProcessExitCounter(t *testing.T) {
	c := New()
	c.IncProcessExit("web", false)
	c.IncProcessExit("web", true)
	c.IncProcessExit("web", false)

	body := scrape(t, c)
	if !strings.Contains(body, `groundcontrol_process_exit_total{expected="false",name="web"} 2`) {
		t.Fatalf("expected exit_total unexpected=2, got:\n%s", body)
	}
	if !strings.Contains(body, `groundcontrol_process_exit_total{expected="true",name="web"} 1`) {
		t.Fatalf("expected exit_total expected=1, got:\n%s", body)
	}
}

func TestStartupDurationHistogram(t *testing.T) {
	c := New()
	c.ObserveStartupDuration(0.25)

	body := scrape(t, c)
	if !strings.Contains(body, "groundcontrol_startup_duration_seconds_sum 0.25") {
		t.Fatalf("expected startup duration sum, got:\n%s", body)
	}
	if !strings.Contains(body, "groundcontrol_startup_duration_seconds_count 1") {
		t.Fatalf("expected startup duration count, got:\n%s", body)
	}
}

func TestProcessCountPerState(t *testing.T) {
	c := New()
	c.SetProcessCount("running", 5)
	c.SetProcessCount("stopped", 2)

	body := scrape(t, c)
	if !strings.Contains(body, `groundcontrol_supervisor_processes{state="running"} 5`) {
		t.Fatalf("expected running=5, got:\n%s", body)
	}
	if !strings.Contains(body, `groundcontrol_supervisor_processes{state="stopped"} 2`) {
		t.Fatalf("expected stopped=2, got:\n%s", body)
	}
}

func TestBuildInfo(t *testing.T) {
	c := New()
	c.SetBuildInfo("1.0.0", "go1.26.0")

	body := scrape(t, c)
	if !strings.Contains(body, `groundcontrol_info{go_version="go1.26.0",version="1.0.0"} 1`) {
		t.Fatalf("expected build info metric, got:\n%s", body)
	}
}

func TestMetricNamingConventions(t *testing.T) {
	c := New()
	// Initialize all metrics so they appear in output.
	c.SetProcessState("test", 0)
	c.IncProcessStart("test")
	c.IncProcessExit("test", false)
	c.ObserveStartupDuration(1)
	c.SetProcessCount("running", 1)
	c.SetBuildInfo("dev", "go1.26")

	body := scrape(t, c)

	metricNames := []string{
		"groundcontrol_process_state",
		"groundcontrol_process_start_total",
		"groundcontrol_process_exit_total",
		"groundcontrol_startup_duration_seconds",
		"groundcontrol_supervisor_processes",
		"groundcontrol_info",
	}
	for _, name := range metricNames {
		if !strings.Contains(body, name) {
			t.Errorf("expected metric %s in output", name)
		}
	}
}

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	c.Handler().ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics scrape failed: %d", w.Code)
	}
	body, _ := io.ReadAll(w.Body)
	return string(body)
}
