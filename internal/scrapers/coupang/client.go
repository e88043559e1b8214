package coupang

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"time"

	"coupang-search/internal/components/telemetry"
	"coupang-search/lib/restyutil"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultMaxRedirects = 15
	DefaultTimeout      = 15 * time.Second
)

var (
	ErrTransport        = errors.New("request failed")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrMissingLocation  = errors.New("redirect response has no Location header")
	ErrTooManyRedirects = errors.New("exceeded maximum redirect hops without reaching a final page")
	ErrInvalidRedirect  = errors.New("redirect Location is not a valid url")
	ErrNoSession        = errors.New("no session provided")
	ErrEmptyQuery       = errors.New("search query cannot be empty")
)

type ClientOptions struct {
	// Site defaults to DefaultSite() when LandingUrl is empty.
	Site      Site
	UserAgent string
	// Timeout applies to each request, not the whole walk.
	Timeout time.Duration
	// MaxRedirects is the number of redirects followed before giving up,
	// values <= 0 mean DefaultMaxRedirects.
	MaxRedirects int
	Telemetry    telemetry.API
	// DumpOutput receives every HTTP exchange when set.
	DumpOutput restyutil.InstrumentOutput
}

func (o ClientOptions) withDefaults() ClientOptions {
	if o.Site.LandingUrl == "" {
		o.Site = DefaultSite()
	}
	if o.UserAgent == "" {
		o.UserAgent = DefaultUserAgent
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxRedirects <= 0 {
		o.MaxRedirects = DefaultMaxRedirects
	}
	o.Telemetry = telemetry.NewScopedAPI("coupang", telemetry.OrDefault(o.Telemetry))
	return o
}

// Session is a warmed up browser-like session, its cookie jar holds whatever
// the redirect chain handed out.
type Session struct {
	Site Site
	Jar  http.CookieJar
	// Http follows redirects and shares Jar with the client that walked the chain.
	Http *resty.Client
	// FinalUrl is where the redirect chain ended.
	FinalUrl string

	userAgent string
	tel       telemetry.API
}

func newCookieJar() (http.CookieJar, error) {
	return cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
}

var noRedirects = resty.RedirectPolicyFunc(func(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
})

func newHttpClient(jar http.CookieJar, opts ClientOptions, followRedirects bool) *resty.Client {
	client := resty.New()
	client.SetCookieJar(jar)
	client.SetTransport(decodingTransport{
		inner: cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport),
	})
	client.SetTimeout(opts.Timeout)
	dumpPrefix := "session-"
	if followRedirects {
		client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
		dumpPrefix = "search-"
	} else {
		client.SetRedirectPolicy(noRedirects)
	}

	telemetry.InstrumentResty(
		client,
		"coupang-search/scrapers/coupang/http",
		opts.Telemetry,
		restyutil.WithPrefix(opts.DumpOutput, dumpPrefix),
	)
	return client
}
