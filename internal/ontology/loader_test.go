package ontology

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Formats(t *testing.T) {
	tests := []struct {
		desc string
		ext  string
		data string
		want []string
	}{
		{"yaml list", ".yaml", "- Flipkart\n- Zepto\n", []string{"Flipkart", "Zepto"}},
		{"yaml document", ".yml", "entities:\n  - Flipkart\n  - ' Zepto '\n", []string{"Flipkart", "Zepto"}},
		{"json list", ".json", `["Flipkart", ""]`, []string{"Flipkart"}},
		{"json document", ".json", `{"entities": ["Swiggy"]}`, []string{"Swiggy"}},
		{"text lines", ".txt", "# known orgs\nFlipkart\n\n  Zepto  \n", []string{"Flipkart", "Zepto"}},
		{"no extension", "", "Swiggy\n", []string{"Swiggy"}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			got, err := Parse([]byte(tt.data), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{"entities": 5}`), ".json")
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orgs.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities: [Flipkart, Zepto]\n"), 0o644))

	names, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Flipkart", "Zepto"}, names)

	_, err = LoadFile(filepath.Join(dir, "missing.txt"))
	assert.Error(t, err)
}

func TestWatch_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orgs.txt")
	require.NoError(t, os.WriteFile(path, []byte("Flipkart\n"), 0o644))

	r := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, r, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()

	// Give the watcher time to register before writing
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("Flipkart\nZepto\n"), 0o644))

	require.Eventually(t, func() bool {
		return r.Snapshot().Contains("Zepto")
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}

func TestFetcher_Fetch(t *testing.T) {
	var gotUA string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/robots.txt":
			_, _ = fmt.Fprint(w, "User-agent: *\nDisallow: /private/\n")
		case "/orgs.json":
			gotUA = r.Header.Get("User-Agent")
			_, _ = fmt.Fprint(w, `{"entities": ["Flipkart", "Zepto"]}`)
		case "/private/orgs.txt":
			_, _ = fmt.Fprint(w, "Secret\n")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	f := NewFetcher(FetcherOptions{UserAgent: "capevent/0.1", Timeout: 5 * time.Second})

	names, err := f.Fetch(context.Background(), server.URL+"/orgs.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"Flipkart", "Zepto"}, names)
	assert.Equal(t, "capevent/0.1", gotUA)

	_, err = f.Fetch(context.Background(), server.URL+"/private/orgs.txt")
	assert.True(t, errors.Is(err, ErrDisallowed), "expected ErrDisallowed, got %v", err)

	_, err = f.Fetch(context.Background(), server.URL+"/missing.txt")
	assert.Error(t, err)
}

func TestFetcher_SizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = fmt.Fprint(w, "Flipkart\nZepto\nSwiggy\n")
	}))
	defer server.Close()

	f := NewFetcher(FetcherOptions{UserAgent: "capevent", MaxBytes: 9})
	names, err := f.Fetch(context.Background(), server.URL+"/orgs.txt")
	require.NoError(t, err)
	assert.Equal(t, []string{"Flipkart"}, names, "body is truncated at MaxBytes")
}
