package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthCheckerBasic(t *testing.T) {
	hc := NewHealthChecker("studio", "v1")
	hc.AddCheck("ok", func() CheckResult { return CheckResult{Status: StatusHealthy} })
	status := hc.CheckHealth()
	if status.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", status.Status)
	}
	if status.Service != "studio" {
		t.Fatalf("expected service name in status")
	}
}

func TestHealthCheckerDegradedAndUnhealthy(t *testing.T) {
	hc := NewHealthChecker("studio", "v1")
	hc.AddCheck("cache", func() CheckResult { return CheckResult{Status: StatusDegraded} })
	if got := hc.CheckHealth().Status; got != StatusDegraded {
		t.Fatalf("expected degraded, got %s", got)
	}

	hc.AddCheck("db", func() CheckResult { return CheckResult{Status: StatusUnhealthy} })
	if got := hc.CheckHealth().Status; got != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", got)
	}
}

func TestHTTPServiceHealthCheck(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200) }))
	defer s.Close()
	res := HTTPServiceHealthCheck("gateway", s.URL)()
	if res.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", res.Status)
	}
}

func TestHTTPServiceHealthCheckFailure(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(503) }))
	defer s.Close()
	res := HTTPServiceHealthCheck("gateway", s.URL)()
	if res.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", res.Status)
	}
}

func TestRedisHealthCheckNilClient(t *testing.T) {
	res := RedisHealthCheck(nil)()
	if res.Status != StatusDegraded {
		t.Fatalf("expected degraded for nil client, got %s", res.Status)
	}
}

func TestConfigurationHealthCheck(t *testing.T) {
	res := ConfigurationHealthCheck(map[string]string{"DATABASE_URL": "postgres://x"})()
	if res.Status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", res.Status)
	}
	res = ConfigurationHealthCheck(map[string]string{"JWT_SECRET": ""})()
	if res.Status != StatusUnhealthy {
		t.Fatalf("expected unhealthy on missing config, got %s", res.Status)
	}
}
