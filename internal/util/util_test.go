package util

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewProxyFunc_ExplicitOverridesEnvironment(t *testing.T) {
	t.Setenv("HTTP_PROXY", "http://env-proxy:3128")
	t.Setenv("HTTPS_PROXY", "")
	t.Setenv("https_proxy", "")
	t.Setenv("NO_PROXY", "")
	t.Setenv("no_proxy", "")

	proxy := NewProxyFunc("http://explicit:8080", "", "internal.example")

	tests := []struct {
		desc string
		url  string
		want string
	}{
		{"explicit http proxy wins", "http://feeds.example.com/list.txt", "http://explicit:8080"},
		{"no_proxy host bypasses", "http://internal.example/list.txt", ""},
		{"https without proxy", "https://feeds.example.com/list.txt", ""},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			got, err := proxy(req)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			gotStr := ""
			if got != nil {
				gotStr = got.String()
			}
			if gotStr != tt.want {
				t.Errorf("Expected proxy %q, got %q", tt.want, gotStr)
			}
		})
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		ua   string
		want string
	}{
		{"capevent/0.1 (+https://example.com/bot)", "capevent"},
		{"capevent", "capevent"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.ua); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q): expected %q, got %q", tt.ua, tt.want, got)
		}
	}
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: capevent\nDisallow: /blocked/\nCrawl-delay: 2\n\nUser-agent: *\nDisallow: /\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker("capevent/0.1", nil, 5*time.Second)

	allowed, delay, err := checker.CanFetch(context.Background(), server.URL+"/lists/orgs.txt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !allowed {
		t.Error("Expected /lists/ to be allowed for capevent")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected crawl delay 2s, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(context.Background(), server.URL+"/blocked/orgs.txt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Error("Expected /blocked/ to be disallowed")
	}

	if hits := robotsHits.Load(); hits != 1 {
		t.Errorf("Expected robots.txt fetched once per host, got %d", hits)
	}

	other := NewRobotsChecker("otherbot/1.0", nil, 5*time.Second)
	allowed, _, _ = other.CanFetch(context.Background(), server.URL+"/lists/orgs.txt")
	if allowed {
		t.Error("Expected wildcard group to disallow other agents")
	}
}

func TestRobotsChecker_UnreachableAllows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := server.URL
	server.Close()

	checker := NewRobotsChecker("capevent", nil, time.Second)
	allowed, _, err := checker.CanFetch(context.Background(), addr+"/orgs.txt")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !allowed {
		t.Error("Expected unreachable robots.txt to allow")
	}
}

func TestRobotsChecker_MissingHost(t *testing.T) {
	checker := NewRobotsChecker("capevent", nil, time.Second)
	if _, _, err := checker.CanFetch(context.Background(), "/relative/path"); err == nil {
		t.Error("Expected error for URL without host")
	}
}
