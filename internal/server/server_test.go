package server

import (
	"bytes"
	"encoding/json"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/popcon/pkg/pipeline"
)

func writeSnapshots(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"2024-03-01": "vim,500\nemacs,300\n",
		"2024-03-02": "vim,510\nemacs,290\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newTestServer(t *testing.T, dataDir string) *httptest.Server {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, nil)
	srv := New(runner, pipeline.Options{DataDir: dataDir}, nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, body
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))
	resp, body := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
	if !strings.HasPrefix(resp.Header.Get("Server"), "popcon/") {
		t.Errorf("Server header = %q", resp.Header.Get("Server"))
	}
}

func TestGraphPNG(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))

	tests := []struct {
		query      string
		wantWidth  int
		wantHeight int
	}{
		{"", 1000, 700},
		{"?size=300x200", 300, 200},
		{"?size=bogus", 1000, 700},
		{"?size=0x10", 1000, 700},
		{"?size=99999x10", 1000, 700},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, body := get(t, ts.URL+"/graph.png"+tt.query)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
				t.Errorf("Content-Type = %q", ct)
			}
			cfg, err := png.DecodeConfig(bytes.NewReader(body))
			if err != nil {
				t.Fatalf("decode png: %v", err)
			}
			if cfg.Width != tt.wantWidth || cfg.Height != tt.wantHeight {
				t.Errorf("size = %dx%d, want %dx%d", cfg.Width, cfg.Height, tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestGraphURL(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))
	resp, body := get(t, ts.URL+"/graph/url?percent=true")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	u := string(body)
	if !strings.HasPrefix(u, "http://chart.apis.google.com/chart?") {
		t.Errorf("url = %s", u)
	}
	if !strings.Contains(u, "chs=600x500") || !strings.Contains(u, "chdl=vim%7Cemacs") {
		t.Errorf("url missing parameters: %s", u)
	}
}

func TestGraphJSON(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))
	resp, body := get(t, ts.URL+"/graph.json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var doc map[string]any
	if err := json.Unmarshal(body, &doc); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if doc["width"] != float64(1000) {
		t.Errorf("width = %v", doc["width"])
	}
}

func TestMissingData(t *testing.T) {
	ts := newTestServer(t, filepath.Join(t.TempDir(), "missing"))

	for _, path := range []string{"/graph.png", "/graph/url", "/graph.json"} {
		resp, _ := get(t, ts.URL+path)
		if resp.StatusCode != http.StatusNotFound {
			t.Errorf("%s status = %d, want 404", path, resp.StatusCode)
		}
	}

	resp, body := get(t, ts.URL+"/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("page status = %d", resp.StatusCode)
	}
	if !strings.Contains(string(body), "Remote chart unavailable") {
		t.Errorf("page should report the missing remote chart:\n%s", body)
	}
}

func TestPage(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))
	resp, body := get(t, ts.URL+"/?size=300x200&ignored=1")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	page := string(body)
	if !strings.Contains(page, `src="graph.png?size=300x200"`) {
		t.Errorf("page missing raster image:\n%s", page)
	}
	if !strings.Contains(page, "http://chart.apis.google.com/chart?") {
		t.Errorf("page missing remote image:\n%s", page)
	}
}

func TestRequestID(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))

	resp, _ := get(t, ts.URL+"/healthz")
	if _, err := uuid.Parse(resp.Header.Get(RequestIDHeader)); err != nil {
		t.Errorf("response id %q is not a uuid", resp.Header.Get(RequestIDHeader))
	}

	id := uuid.NewString()
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != id {
		t.Errorf("request id = %q, want %q", got, id)
	}

	req.Header.Set(RequestIDHeader, "not-a-uuid")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got == "not-a-uuid" {
		t.Error("malformed request id should be replaced")
	}
}

func TestConcurrentRequests(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))

	var wg sync.WaitGroup
	bodies := make([][]byte, 8)
	for i := range bodies {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := http.Get(ts.URL + "/graph/url")
			if err != nil {
				t.Error(err)
				return
			}
			defer resp.Body.Close()
			bodies[i], _ = io.ReadAll(resp.Body)
		}()
	}
	wg.Wait()

	for i := 1; i < len(bodies); i++ {
		if !bytes.Equal(bodies[0], bodies[i]) {
			t.Errorf("response %d differs from response 0", i)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t, writeSnapshots(t))
	resp, _ := get(t, ts.URL+"/graph.gif")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}
