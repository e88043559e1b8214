package coupang

import (
	"bufio"
	"compress/gzip"
	"compress/zlib"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/zstd"
)

// decodingTransport undoes the Content-Encoding of a response.
//
// net/http only decompresses gzip transparently and only when it chose the
// Accept-Encoding itself, since the browser headers advertise br and zstd as
// well the body has to be decoded here.
type decodingTransport struct {
	inner http.RoundTripper
}

type decodedBody struct {
	io.Reader
	closers []func() error
}

func (b decodedBody) Close() error {
	var errs []error
	for _, c := range b.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func (t decodingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.inner.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	encoding := strings.ToLower(strings.TrimSpace(res.Header.Get("Content-Encoding")))
	if encoding == "" || encoding == "identity" || res.ContentLength == 0 {
		return res, nil
	}

	buffered := bufio.NewReader(res.Body)
	passthrough := decodedBody{Reader: buffered, closers: []func() error{res.Body.Close}}

	// an encoded but empty body (common on redirects) has nothing to decode
	if _, err := buffered.Peek(1); err == io.EOF {
		res.Body = passthrough
		return res, nil
	}

	decoded, err := decodeBody(encoding, buffered)
	if err != nil {
		res.Body.Close()
		return nil, fmt.Errorf("decode %s response body: %w", encoding, err)
	}
	if decoded == nil {
		res.Body = passthrough
		return res, nil
	}
	decoded.closers = append(decoded.closers, res.Body.Close)

	res.Body = *decoded
	res.Header.Del("Content-Encoding")
	res.Header.Del("Content-Length")
	res.ContentLength = -1
	res.Uncompressed = true
	return res, nil
}

// decodeBody returns nil for encodings it does not know so the body is passed through.
func decodeBody(encoding string, r io.Reader) (*decodedBody, error) {
	switch encoding {
	case "gzip", "x-gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &decodedBody{Reader: gz, closers: []func() error{gz.Close}}, nil
	case "deflate":
		zr, err := zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &decodedBody{Reader: zr, closers: []func() error{zr.Close}}, nil
	case "br":
		return &decodedBody{Reader: brotli.NewReader(r)}, nil
	case "zstd":
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		return &decodedBody{Reader: zr, closers: []func() error{
			func() error {
				zr.Close()
				return nil
			},
		}}, nil
	}
	return nil, nil
}
