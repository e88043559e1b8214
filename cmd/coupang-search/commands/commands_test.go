package commands

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const page = `<html><body><ul>
<li class="search-product" id="product_1"><a class="search-product-link" href="/vp/products/1"><div class="name">노트북 1</div><strong class="price-value">990,000</strong></a></li>
<li class="search-product" id="product_2"><a class="search-product-link" href="/vp/products/2"><div class="name">노트북 2</div></a></li>
<li class="search-product" id="product_3"><a class="search-product-link" href="/vp/products/3"><div class="name">노트북 3</div></a></li>
</ul></body></html>`

func execute(t testing.TB, args ...string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	code := ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), code
}

func writeConfig(t testing.TB, srv *httptest.Server) string {
	path := filepath.Join(t.TempDir(), "coupang.json5")
	contents := fmt.Sprintf(`{
  // point the scraper at the local store
  site: {
    landing_url: "%[1]s/landing",
    search_url: "%[1]s/np/search",
    base_url: "%[1]s",
  },
  timeout_seconds: 5,
}`, srv.URL)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestRunCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/landing":
			w.Write([]byte("<html></html>"))
		case "/np/search":
			if r.URL.Query().Get("q") == "blocked" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(page))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	config := writeConfig(t, srv)
	dir := t.TempDir()

	stdout, stderr, code := execute(t, "--config", config, "run", "노트북", "-n", "2", "-o", dir)
	require.Equal(t, 0, code, stderr)
	jsonPath := filepath.Join(dir, "coupang_search_노트북.json")
	require.Equal(t, jsonPath, strings.TrimSpace(stdout))

	contents, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	require.Contains(t, string(contents), "노트북 2")
	require.NotContains(t, string(contents), "노트북 3")

	stdout, stderr, code = execute(t, "--config", config, "run", "blocked", "-n", "2", "-o", dir)
	require.Equal(t, 1, code)
	require.Empty(t, stdout)
	require.Contains(t, stderr, "failed to complete the search and extraction process")
	require.NoFileExists(t, filepath.Join(dir, "coupang_search_blocked.json"))

	_, stderr, code = execute(t, "--config", config, "run", "노트북", "-n", "0", "-o", dir)
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "--num-products must be a positive number")
}

func TestRunCommandDumpHttp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/landing" {
			w.Write([]byte("<html></html>"))
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(page))
	}))
	defer srv.Close()
	t.Cleanup(func() {
		runCmd.Flags().Set("dump-http", "")
	})

	config := writeConfig(t, srv)
	dir := t.TempDir()
	previous := filepath.Join(dir, "coupang_search_mouse.json")
	require.NoError(t, os.WriteFile(previous, []byte("[]\n"), 0644))

	_, stderr, code := execute(t, "--config", config, "run", "노트북", "-n", "2", "-o", dir, "--dump-http", dir)
	require.Equal(t, 0, code, stderr)
	require.FileExists(t, previous)
	require.FileExists(t, filepath.Join(dir, "coupang_search_노트북.json"))

	dumps, err := filepath.Glob(filepath.Join(dir, "http-*", "*.txt"))
	require.NoError(t, err)
	require.Len(t, dumps, 2)
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coupang_search_laptop.html"), []byte(page), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coupang_search_mouse.html"), []byte(page), 0644))
	dbPath := filepath.Join(t.TempDir(), "history.db")

	stdout, stderr, code := execute(t, "--config", filepath.Join(dir, "missing.json5"), "extract", "-d", dir, "-n", "5", "--db", dbPath)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "coupang_search_laptop.html")
	require.Contains(t, stdout, "coupang_search_mouse.html")
	require.Contains(t, strings.ToLower(stdout), "0 failed")
	require.FileExists(t, filepath.Join(dir, "coupang_search_laptop.json"))

	stdout, stderr, code = execute(t, "--config", filepath.Join(dir, "missing.json5"), "history", "--db", dbPath)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, stdout, "laptop")
	require.Contains(t, stdout, "mouse")
}
