package coupang

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type SearchResponse struct {
	Body       []byte
	StatusCode int
	// Url is the final url after any redirects.
	Url         string
	ContentType string
}

// Search requests the results page of a single query with the cookies
// collected by Initialize.
func (s *Session) Search(ctx context.Context, query string) (SearchResponse, error) {
	if s == nil {
		return SearchResponse{}, ErrNoSession
	}
	if strings.TrimSpace(query) == "" {
		return SearchResponse{}, ErrEmptyQuery
	}

	ctx, span := tracer.Start(ctx, "Search")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	fail := func(err error) (SearchResponse, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.tel.ReportWarning(report_search, err, query)
		return SearchResponse{}, err
	}

	headers := navigationHeaders(s.userAgent, fetchSameOrigin)
	headers["Referer"] = s.Site.RootUrl()

	s.tel.ReportInfo("searching", "query", query, "referer", headers["Referer"])

	res, err := s.Http.R().
		SetContext(ctx).
		SetHeaders(headers).
		SetQueryParam("component", "").
		SetQueryParam("q", query).
		SetQueryParam("channel", "user").
		Get(s.Site.SearchUrl)
	if err != nil {
		return fail(fmt.Errorf("%w: search %q: %w", ErrTransport, query, err))
	}
	if !isSuccess(res.StatusCode()) {
		return fail(fmt.Errorf("%w: search %q returned %d", ErrUnexpectedStatus, query, res.StatusCode()))
	}

	final := s.Site.SearchUrl
	if res.RawResponse != nil && res.RawResponse.Request != nil {
		final = res.RawResponse.Request.URL.String()
	}
	s.tel.ReportInfo("search successful", "status", res.StatusCode(), "bytes", len(res.Body()))

	return SearchResponse{
		Body:        res.Body(),
		StatusCode:  res.StatusCode(),
		Url:         final,
		ContentType: res.Header().Get("Content-Type"),
	}, nil
}
