package coupang

import (
	"net/url"
)

// Site holds the endpoints the session walks through, tests swap them for
// httptest servers.
type Site struct {
	// LandingUrl is where the redirect walk begins (an ad click-through link).
	LandingUrl    string
	LandingParams url.Values
	// LandingReferer is the Referer of the very first hop.
	LandingReferer string
	SearchUrl      string
	// BaseUrl is the site root, it is the Referer of the search and the base
	// that relative links in results resolve against.
	BaseUrl string
}

func DefaultSite() Site {
	return Site{
		LandingUrl: "https://link.coupang.com/re/SAGOOGLEPCHOME",
		LandingParams: url.Values{
			"spec":       {"10304902"},
			"lptag":      {"coupang"},
			"network":    {"g"},
			"gad_source": {"1"},
			"gbraid":     {"0AAAAAC3fSoqGUMwyvcgLOeYP1KiZRflKb"},
			"gclid":      {"EAIaIQobChMI64b_oZyJjQMVQRB7Bx2ifSaVEAAYASAAEgIfM_D_BwE"},
		},
		LandingReferer: "https://www.google.com/",
		SearchUrl:      "https://www.coupang.com/np/search",
		BaseUrl:        "https://www.coupang.com",
	}
}

// RootUrl is BaseUrl with a trailing slash, the way a browser sends it as a Referer.
func (s Site) RootUrl() string {
	base, err := url.Parse(s.BaseUrl)
	if err != nil {
		return s.BaseUrl
	}
	if base.Path == "" {
		base.Path = "/"
	}
	return base.String()
}

func (s Site) landingUrl() (*url.URL, error) {
	landing, err := url.Parse(s.LandingUrl)
	if err != nil {
		return nil, err
	}
	if len(s.LandingParams) > 0 {
		query := landing.Query()
		for k, values := range s.LandingParams {
			for _, v := range values {
				query.Add(k, v)
			}
		}
		landing.RawQuery = query.Encode()
	}
	return landing, nil
}

const DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/135.0.0.0 Safari/537.36"

type fetchSite string

const (
	fetchCrossSite  fetchSite = "cross-site"
	fetchSameOrigin fetchSite = "same-origin"
)

// navigationHeaders are the static headers Chrome sends on a top level
// document navigation.
func navigationHeaders(userAgent string, site fetchSite) map[string]string {
	return map[string]string{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
		"Accept-Encoding":           "gzip, deflate, br, zstd",
		"Accept-Language":           "en-US,en;q=0.9",
		"Sec-Ch-Ua":                 `"Google Chrome";v="135", "Not-A.Brand";v="8", "Chromium";v="135"`,
		"Sec-Ch-Ua-Mobile":          "?0",
		"Sec-Ch-Ua-Platform":        `"macOS"`,
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            string(site),
		"Sec-Fetch-User":            "?1",
		"Upgrade-Insecure-Requests": "1",
		"User-Agent":                userAgent,
	}
}
