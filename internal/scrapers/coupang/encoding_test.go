package coupang

import (
	"bytes"
	"compress/gzip"
	"compress/zlib"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

func compress(t testing.TB, encoding string, data []byte) []byte {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch encoding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "br":
		w = brotli.NewWriter(&buf)
	case "zstd":
		enc, err := zstd.NewWriter(&buf)
		require.NoError(t, err)
		w = enc
	default:
		return data
	}
	_, err := w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func TestDecodingTransport(t *testing.T) {
	page := []byte(`<html><body><li class="search-product">노트북</li></body></html>`)

	testCases := []struct {
		encoding string
		body     []byte
		expected []byte
	}{
		{encoding: "gzip", body: page, expected: page},
		{encoding: "deflate", body: page, expected: page},
		{encoding: "br", body: page, expected: page},
		{encoding: "zstd", body: page, expected: page},
		{encoding: "", body: page, expected: page},
		{encoding: "identity", body: page, expected: page},
		{encoding: "gzip", body: nil, expected: []byte{}},
		// unknown encodings are handed through untouched
		{encoding: "compress", body: page, expected: page},
	}

	for _, test := range testCases {
		t.Run(test.encoding, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if test.encoding != "" {
					w.Header().Set("Content-Encoding", test.encoding)
				}
				w.Write(compress(t, test.encoding, test.body))
			}))
			defer srv.Close()

			client := &http.Client{Transport: decodingTransport{inner: http.DefaultTransport}}
			req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
			require.NoError(t, err)
			req.Header.Set("Accept-Encoding", "gzip, deflate, br, zstd")

			res, err := client.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()

			body, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			require.Equal(t, test.expected, body)
		})
	}
}

func TestDecodingTransportCorruptBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		w.Write([]byte("definitely not gzip"))
	}))
	defer srv.Close()

	client := &http.Client{Transport: decodingTransport{inner: http.DefaultTransport}}
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("Accept-Encoding", "gzip")

	_, err = client.Do(req)
	require.Error(t, err)
}
