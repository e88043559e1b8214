package coupang

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// hop is one request of the redirect walk.
type hop struct {
	index   int
	url     *url.URL
	referer string
}

func (h hop) headers(userAgent string) map[string]string {
	headers := navigationHeaders(userAgent, fetchCrossSite)
	headers["Host"] = h.url.Host
	headers["Referer"] = h.referer
	return headers
}

// next resolves location against the current url, the query of location
// travels inside the resolved url.
func (h hop) next(location string) (hop, error) {
	target, err := h.url.Parse(location)
	if err != nil {
		return hop{}, fmt.Errorf("%w: %q: %w", ErrInvalidRedirect, location, err)
	}
	return hop{
		index:   h.index + 1,
		url:     target,
		referer: h.url.String(),
	}, nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently,
		http.StatusFound,
		http.StatusSeeOther,
		http.StatusTemporaryRedirect,
		http.StatusPermanentRedirect:
		return true
	}
	return false
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// Initialize walks the landing redirect chain by hand, one request per hop,
// collecting every cookie handed out along the way. It succeeds once a hop
// answers with a 2xx status.
func Initialize(ctx context.Context, opts ClientOptions) (*Session, error) {
	ctx, span := tracer.Start(ctx, "Initialize")
	defer span.End()

	opts = opts.withDefaults()
	tel := opts.Telemetry

	fail := func(err error) (*Session, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tel.ReportWarning(report_session_initialize, err)
		return nil, err
	}

	jar, err := newCookieJar()
	if err != nil {
		return fail(err)
	}
	walker := newHttpClient(jar, opts, false)

	landing, err := opts.Site.landingUrl()
	if err != nil {
		return fail(fmt.Errorf("%w: landing url: %w", ErrInvalidRedirect, err))
	}
	current := hop{
		index:   0,
		url:     landing,
		referer: opts.Site.LandingReferer,
	}

	for current.index <= opts.MaxRedirects {
		tel.ReportDebug(
			"requesting hop",
			fmt.Sprintf("%d/%d", current.index+1, opts.MaxRedirects+1),
			current.url.String(),
		)

		res, err := walker.R().
			SetContext(ctx).
			SetHeaders(current.headers(opts.UserAgent)).
			Get(current.url.String())
		if err != nil {
			return fail(fmt.Errorf("%w: hop %d: %w", ErrTransport, current.index+1, err))
		}

		status := res.StatusCode()
		tel.ReportDebug("hop status", current.index+1, status)

		switch {
		case isRedirect(status):
			location := res.Header().Get("Location")
			if location == "" {
				return fail(fmt.Errorf("%w: hop %d (status %d)", ErrMissingLocation, current.index+1, status))
			}
			tel.ReportDebug("redirecting", location)

			current, err = current.next(location)
			if err != nil {
				return fail(err)
			}
		case isSuccess(status):
			final := current.url.String()
			if res.RawResponse != nil && res.RawResponse.Request != nil {
				final = res.RawResponse.Request.URL.String()
			}

			span.SetAttributes(
				attribute.Int("hops", current.index+1),
				attribute.String("final_url", final),
			)
			tel.ReportCount(report_session_hops, int64(current.index+1))
			tel.ReportInfo("session initialized", "final_url", final, "status", status)

			return &Session{
				Site:      opts.Site,
				Jar:       jar,
				Http:      newHttpClient(jar, opts, true),
				FinalUrl:  final,
				userAgent: opts.UserAgent,
				tel:       tel,
			}, nil
		default:
			return fail(fmt.Errorf("%w: hop %d returned %d", ErrUnexpectedStatus, current.index+1, status))
		}
	}

	return fail(fmt.Errorf("%w (%d)", ErrTooManyRedirects, opts.MaxRedirects))
}
