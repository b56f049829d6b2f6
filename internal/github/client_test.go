package github

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestNewClient_NilContext(t *testing.T) {
	var ctx context.Context
	if _, err := NewClient(ctx, "tok"); err == nil {
		t.Fatal("want error for nil context")
	}
}

func TestFileIssues_UserAgentAndTrace(t *testing.T) {
	var gotAgent, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"number": 1, "html_url": "https://github.com/acme/bolamiga/issues/1"}`))
	}))
	defer srv.Close()

	var trace bytes.Buffer
	c, err := NewClient(context.Background(), "secret-token",
		WithUserAgent("deployverify/1.2.3"),
		WithVerbose(true, &trace))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	base, err := url.Parse(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	c.api.BaseURL = base

	payloads := []IssuePayload{{Title: "canvas regression", Body: "body"}}
	if _, err := c.FileIssues(context.Background(), "acme", "bolamiga", payloads); err != nil {
		t.Fatalf("FileIssues: %v", err)
	}

	if !strings.HasPrefix(gotAgent, "deployverify/1.2.3") {
		t.Fatalf("user agent %q", gotAgent)
	}
	if gotAuth != "Bearer secret-token" {
		t.Fatalf("authorization %q", gotAuth)
	}
	out := trace.String()
	if !strings.Contains(out, "issue api: POST") {
		t.Fatalf("trace missing request line:\n%s", out)
	}
	if !strings.Contains(out, "issue api: 201 Created") {
		t.Fatalf("trace missing response line:\n%s", out)
	}
	if strings.Contains(out, "secret-token") {
		t.Fatalf("trace leaked the token:\n%s", out)
	}
}
