package pipeline

import (
	"context"
	_ "embed"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"coupang-search/internal/components/telemetry"
	"coupang-search/internal/history"
	"coupang-search/internal/scrapers/coupang"
	"coupang-search/lib/testutil"

	"github.com/stretchr/testify/require"
)

//go:embed testdata/search.html
var searchPage []byte

// newStore serves a two hop landing chain and a search endpoint, the query
// "empty" gets a page without products and "blocked" gets a 403.
func newStore(t testing.TB) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/landing", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "PCID", Value: "abc", Path: "/"})
		w.Header().Set("Location", "/home")
		w.WriteHeader(http.StatusFound)
	})
	mux.HandleFunc("/home", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	})
	mux.HandleFunc("/np/search", func(w http.ResponseWriter, r *http.Request) {
		if _, err := r.Cookie("PCID"); err != nil {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch r.URL.Query().Get("q") {
		case "blocked":
			w.WriteHeader(http.StatusForbidden)
		case "empty":
			w.Write([]byte("<html><body>검색결과가 없습니다</body></html>"))
		default:
			w.Write(searchPage)
		}
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func storeOptions(srv *httptest.Server, outputDir string, tel telemetry.API) Options {
	return Options{
		Limit:     10,
		OutputDir: outputDir,
		Client: coupang.ClientOptions{
			Site: coupang.Site{
				LandingUrl: srv.URL + "/landing",
				SearchUrl:  srv.URL + "/np/search",
				BaseUrl:    srv.URL,
			},
		},
		Telemetry: tel,
	}
}

func TestSearchAndExtract(t *testing.T) {
	srv := newStore(t)
	dir := filepath.Join(t.TempDir(), "output")

	recorder := history.NewRecorder(testutil.OpenHistoryDB(t))

	opts := storeOptions(srv, dir, &telemetry.TestAPI{})
	opts.History = &recorder

	result, err := SearchAndExtract(context.Background(), "무선 청소기!!", opts)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "coupang_search_무선_청소기.html"), result.HtmlPath)
	require.Equal(t, filepath.Join(dir, "coupang_search_무선_청소기.json"), result.JsonPath)
	require.Len(t, result.Products, 10)
	require.Equal(t, srv.URL+"/vp/products/1001?itemId=5001&vendorItemId=9001", *result.Products[0].Url)
	require.FileExists(t, result.JsonPath)

	saved, err := os.ReadFile(result.HtmlPath)
	require.NoError(t, err)
	require.Equal(t, searchPage, saved)

	require.NotEmpty(t, result.RunId)
	stored, err := recorder.Products(context.Background(), result.RunId)
	require.NoError(t, err)
	require.Len(t, stored, 10)
}

func TestSearchAndExtractSearchFailure(t *testing.T) {
	srv := newStore(t)
	dir := filepath.Join(t.TempDir(), "output")
	tel := &telemetry.TestAPI{}

	result, err := SearchAndExtract(context.Background(), "blocked", storeOptions(srv, dir, tel))
	require.ErrorIs(t, err, coupang.ErrUnexpectedStatus)
	require.Empty(t, result.JsonPath)
	require.Empty(t, result.HtmlPath)
	require.NoFileExists(t, filepath.Join(dir, "coupang_search_blocked.json"))
	require.True(t, tel.HasReport(telemetry.KindWarning, report_search_and_extract))
}

func TestSearchAndExtractSessionFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	result, err := SearchAndExtract(context.Background(), "laptop", storeOptions(srv, t.TempDir(), nil))
	require.ErrorIs(t, err, coupang.ErrUnexpectedStatus)
	require.Empty(t, result.JsonPath)
}

func TestSearchAndExtractNoProducts(t *testing.T) {
	srv := newStore(t)
	dir := t.TempDir()

	result, err := SearchAndExtract(context.Background(), "empty", storeOptions(srv, dir, nil))
	require.ErrorIs(t, err, ErrNoProducts)
	require.Empty(t, result.Products)

	contents, err := os.ReadFile(filepath.Join(dir, "coupang_search_empty.json"))
	require.NoError(t, err)
	require.Equal(t, "[]\n", string(contents))
}

func TestExtractDir(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string][]byte{
		"coupang_search_laptop.html": searchPage,
		"coupang_search_mouse.html":  searchPage,
	})

	recorder := history.NewRecorder(testutil.OpenHistoryDB(t))

	results, err := ExtractDir(context.Background(), dir, Options{Limit: 5, History: &recorder})
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		require.NoError(t, r.Err)
		require.Len(t, r.Products, 5)
		require.FileExists(t, r.JsonPath)
	}

	recent, err := recorder.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	queries := []string{recent[0].Query, recent[1].Query}
	require.ElementsMatch(t, []string{"laptop", "mouse"}, queries)
}

func TestQueryFromFilename(t *testing.T) {
	require.Equal(t, "무선_청소기", QueryFromFilename("output/coupang_search_무선_청소기.html"))
	require.Equal(t, "notes", QueryFromFilename("notes.html"))
}
