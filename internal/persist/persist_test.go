package persist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/korean"
)

func TestSanitizeQuery(t *testing.T) {
	testCases := []struct {
		query    string
		expected string
	}{
		{query: "무선 청소기!!", expected: "무선_청소기"},
		{query: "laptop", expected: "laptop"},
		{query: "  usb-c hub  ", expected: "usb_c_hub"},
		{query: "갤럭시 S24 울트라", expected: "갤럭시_S24_울트라"},
		{query: "../../etc/passwd", expected: "etc_passwd"},
		{query: "!!!", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, SanitizeQuery(test.query), test.query)
	}
}

func TestSaveSearchHtml(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "output")
	body := []byte(`<html><head><meta charset="utf-8"></head><body>무선 청소기</body></html>`)

	path, err := SaveSearchHtml(dir, "무선 청소기!!", body, "text/html; charset=UTF-8")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "coupang_search_무선_청소기.html"), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, body, saved)
}

func TestSaveSearchHtmlTranscodes(t *testing.T) {
	dir := t.TempDir()
	page := "<html><body>무선 청소기</body></html>"
	encoded, err := korean.EUCKR.NewEncoder().String(page)
	require.NoError(t, err)

	path, err := SaveSearchHtml(dir, "청소기", []byte(encoded), "text/html; charset=euc-kr")
	require.NoError(t, err)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, page, string(saved))
}

func TestSaveSearchHtmlError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := SaveSearchHtml(filepath.Join(blocker, "output"), "laptop", []byte("<html></html>"), "")
	require.Error(t, err)
}

func TestWriteJson(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	value := []map[string]any{
		{"name": "삼성 <노트북> & 가방"},
	}

	require.NoError(t, WriteJson(path, value))

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[\n  {\n    \"name\": \"삼성 <노트북> & 가방\"\n  }\n]\n", string(contents))
}
