package cmd

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/eso-addons/internal/config"
	"github.com/ethanolivertroy/eso-addons/internal/models"
)

// hostRewriter sends every request to one test server, whatever its host
type hostRewriter struct {
	target *url.URL
}

func (h hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.URL.Scheme = h.target.Scheme
	r.URL.Host = h.target.Host
	r.Host = ""
	return http.DefaultTransport.RoundTrip(r)
}

// esouiSite serves download pages and CDN archives by addon id
type esouiSite struct {
	mu     sync.Mutex
	addons map[string]string // id -> addon name
	hits   map[string]int    // request path -> count
}

func (s *esouiSite) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	var id, name string
	for i, n := range s.addons {
		switch r.URL.Path {
		case "/downloads/download" + i:
			fmt.Fprintf(w, `<html><head><meta property="og:title" content="%s"></head>
<body><a href="https://cdn.esoui.com/downloads/file%s/%s.zip">Download</a></body></html>`, n, i, n)
			return
		case "/downloads/file" + i + "/" + n + ".zip":
			id, name = i, n
		}
	}
	if id == "" {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, entry := range []string{name + "/" + name + ".txt", name + "/" + name + ".lua"} {
		fw, err := zw.Create(entry)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		_, _ = fw.Write([]byte("## Version: 1.0\n"))
	}
	if err := zw.Close(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	_, _ = w.Write(buf.Bytes())
}

func (s *esouiSite) count(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

func serveESOUI(t *testing.T, addons map[string]string) *esouiSite {
	t.Helper()
	site := &esouiSite{addons: addons, hits: map[string]int{}}
	srv := httptest.NewServer(site)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	require.NoError(t, err)
	httpClient = &http.Client{Transport: hostRewriter{target: target}}
	t.Cleanup(func() { httpClient = nil })
	return site
}

func TestAdd(t *testing.T) {
	site := serveESOUI(t, map[string]string{
		"1360": "CombatMetrics",
		"2275": "LibDebugLogger",
	})
	f := newFixture(t, models.DesiredEntry{Name: "LibDebugLogger"})
	t.Cleanup(func() {
		flagDependency = false
		flagRate = 2
	})

	const combatMetricsURL = "https://www.esoui.com/downloads/download1360"
	const combatMetricsArchive = "/downloads/file1360/CombatMetrics.zip"

	out, err := f.run(t, "--rate", "0", "add", "--dependency=false", "https://www.esoui.com/downloads/info1360-CombatMetrics")
	require.NoError(t, err)
	assert.Contains(t, out, "Installed CombatMetrics!")
	assert.FileExists(t, filepath.Join(f.addonDir, "CombatMetrics", "CombatMetrics.txt"))
	assert.Equal(t, 1, site.count("/downloads/download1360"), "info URL is fetched as its download page")
	assert.Equal(t, 1, site.count(combatMetricsArchive))

	desired, err := config.Load(f.configFile)
	require.NoError(t, err)
	assert.Equal(t, []models.DesiredEntry{
		{Name: "LibDebugLogger"},
		{Name: "CombatMetrics", URL: combatMetricsURL},
	}, desired.Addons)

	t.Run("same URL again is skipped", func(t *testing.T) {
		out, err := f.run(t, "add", "https://www.esoui.com/downloads/info1360-CombatMetrics")
		require.NoError(t, err)
		assert.Contains(t, out, "Addon CombatMetrics is already installed")
		assert.Equal(t, 1, site.count("/downloads/download1360"))
		assert.Equal(t, 1, site.count(combatMetricsArchive))

		again, err := config.Load(f.configFile)
		require.NoError(t, err)
		assert.Equal(t, desired, again)
	})

	t.Run("dependency replaces entry with the same name", func(t *testing.T) {
		out, err := f.run(t, "add", "-d", "https://www.esoui.com/downloads/fileinfo.php?id=2275")
		require.NoError(t, err)
		assert.Contains(t, out, "Installed LibDebugLogger!")

		updated, err := config.Load(f.configFile)
		require.NoError(t, err)
		assert.Equal(t, []models.DesiredEntry{
			{Name: "LibDebugLogger", URL: "https://www.esoui.com/downloads/download2275", Dependency: true},
			{Name: "CombatMetrics", URL: combatMetricsURL},
		}, updated.Addons)
	})
}
