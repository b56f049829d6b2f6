package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestProbe_SuccessWithMarkers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>BOLAMIGA SYSTEM <canvas id=\"gameCanvas\"></canvas></html>"))
	}))
	defer srv.Close()

	p := New()
	res := p.Probe(context.Background(), srv.URL, EndpointSpec{
		Path:            "/",
		Name:            "root_page",
		ExpectedMarkers: []string{"BOLAMIGA", "gameCanvas"},
	}, 5*time.Second)

	if !res.Success {
		t.Fatalf("expected success, got %+v", res)
	}
	if res.HTTPStatus == nil || *res.HTTPStatus != 200 {
		t.Fatalf("expected HTTP 200, got %v", res.HTTPStatus)
	}
	if !res.ContentMatched {
		t.Fatal("expected content to match")
	}
	if res.ResponseTimeMS == nil {
		t.Fatal("expected response time to be recorded")
	}
	if res.ContentLength == 0 {
		t.Fatal("expected nonzero content length")
	}
}

func TestProbe_MarkerMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>BOLAMIGA only</html>"))
	}))
	defer srv.Close()

	p := New()
	res := p.Probe(context.Background(), srv.URL, EndpointSpec{
		Path:            "/",
		ExpectedMarkers: []string{"BOLAMIGA", "gameCanvas"},
	}, 5*time.Second)

	if res.Success {
		t.Fatal("expected failure when a marker is absent")
	}
	if res.ContentMatched {
		t.Fatal("content must not match when any marker is absent")
	}
	if res.Error != "" {
		t.Fatalf("marker mismatch is not an error, got %q", res.Error)
	}
	if res.HTTPStatus == nil || *res.HTTPStatus != 200 {
		t.Fatalf("expected HTTP status recorded, got %v", res.HTTPStatus)
	}
}

func TestProbe_NoMarkersStatusOnly(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		wantSuccess bool
	}{
		{"200 succeeds", http.StatusOK, true},
		{"302 succeeds", http.StatusFound, true},
		{"399 succeeds", 399, true},
		{"400 fails", http.StatusBadRequest, false},
		{"404 fails", http.StatusNotFound, false},
		{"500 fails", http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			p := New()
			res := p.Probe(context.Background(), srv.URL, EndpointSpec{Path: "/api/highscores"}, 5*time.Second)
			if res.Success != tt.wantSuccess {
				t.Fatalf("status %d: want success=%v, got %+v", tt.status, tt.wantSuccess, res)
			}
		})
	}
}

func TestProbe_ConnectionRefused(t *testing.T) {
	// Grab a port nothing listens on.
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	p := New()
	res := p.Probe(context.Background(), url, EndpointSpec{Path: "/"}, 2*time.Second)

	if res.Success {
		t.Fatal("expected failure against closed port")
	}
	if res.Error == "" {
		t.Fatal("expected classified error")
	}
	if res.HTTPStatus != nil {
		t.Fatalf("http status must be absent on network failure, got %v", *res.HTTPStatus)
	}
	if res.ResponseTimeMS != nil {
		t.Fatal("response time must be absent on network failure")
	}
	if !strings.Contains(res.Error, "refused") {
		t.Fatalf("expected refusal classification, got %q", res.Error)
	}
}

func TestProbe_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer srv.Close()

	p := New()
	res := p.Probe(context.Background(), srv.URL, EndpointSpec{Path: "/slow"}, 100*time.Millisecond)

	if res.Success {
		t.Fatal("expected timeout failure")
	}
	if !strings.Contains(res.Error, "timeout") {
		t.Fatalf("expected timeout classification, got %q", res.Error)
	}
}

func TestProbe_TruncatedBodyIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Promise more bytes than the handler delivers; the server closes
		// the connection mid-body and the client sees an unexpected EOF.
		w.Header().Set("Content-Length", "1000")
		w.Write([]byte("partial"))
	}))
	defer srv.Close()

	p := New()
	res := p.Probe(context.Background(), srv.URL, EndpointSpec{Path: "/"}, 2*time.Second)

	if res.Success {
		t.Fatalf("truncated body must fail the probe, got %+v", res)
	}
	if res.Error == "" {
		t.Fatal("expected a recorded read error")
	}
	if res.HTTPStatus == nil || *res.HTTPStatus != 200 {
		t.Fatalf("status should still be recorded, got %v", res.HTTPStatus)
	}
}

func TestProbe_EndpointTimeoutOverride(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	p := New()
	// Target default would time out; the override must win.
	res := p.Probe(context.Background(), srv.URL, EndpointSpec{
		Path:            "/",
		TimeoutOverride: 5 * time.Second,
	}, 50*time.Millisecond)

	if !res.Success {
		t.Fatalf("override timeout should allow slow response, got %+v", res)
	}
}

func TestEndpointSpec_Timeout(t *testing.T) {
	e := EndpointSpec{}
	if got := e.Timeout(5 * time.Second); got != 5*time.Second {
		t.Fatalf("want target default, got %v", got)
	}
	e.TimeoutOverride = time.Second
	if got := e.Timeout(5 * time.Second); got != time.Second {
		t.Fatalf("want override, got %v", got)
	}
}

func TestTargetResult_Validate(t *testing.T) {
	tr := &TargetResult{
		Spec:   TargetSpec{Name: "local"},
		Probes: []Result{{Success: true}, {}},
		Summary: TargetSummary{
			Total:      2,
			Successful: 1,
			Failed:     1,
		},
	}
	if err := tr.Validate(); err != nil {
		t.Fatalf("valid result rejected: %v", err)
	}

	tr.Summary.Failed = 2
	if err := tr.Validate(); err == nil {
		t.Fatal("expected count invariant violation")
	}

	tr.Summary.Failed = 1
	tr.Summary.Total = 3
	if err := tr.Validate(); err == nil {
		t.Fatal("expected total/len mismatch to be rejected")
	}
}
