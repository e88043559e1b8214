package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/net/html/charset"
)

const filenamePrefix = "coupang_search_"

// SanitizeQuery replaces every rune that is not a letter or a number with an
// underscore and trims underscores from both ends.
func SanitizeQuery(query string) string {
	sanitized := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return '_'
	}, query)
	return strings.Trim(sanitized, "_")
}

// HtmlFilename is the name a results page of `query` is saved under.
func HtmlFilename(query string) string {
	return fmt.Sprintf("%s%s.html", filenamePrefix, SanitizeQuery(query))
}

// toUtf8 transcodes body when its encoding is known for certain and is not
// already utf-8.
func toUtf8(body []byte, contentType string) []byte {
	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if !certain || name == "utf-8" {
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body
	}
	return decoded
}

// SaveSearchHtml writes a results page to <outputDir>/coupang_search_<query>.html
// as utf-8 and returns the path.
func SaveSearchHtml(outputDir, query string, body []byte, contentType string) (string, error) {
	err := os.MkdirAll(outputDir, 0755)
	if err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(outputDir, HtmlFilename(query))
	err = os.WriteFile(path, toUtf8(body, contentType), 0644)
	if err != nil {
		return "", fmt.Errorf("save search html: %w", err)
	}
	return path, nil
}

// WriteJson writes `v` with 2 space indentation, non-ascii characters and
// html are written verbatim.
func WriteJson(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	err := enc.Encode(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	err = os.WriteFile(path, buf.Bytes(), 0644)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
