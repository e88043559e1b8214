package commands

import (
	"time"

	"coupang-search/internal/components/telemetry"
	"coupang-search/internal/extract"
	"coupang-search/internal/pipeline"
	"coupang-search/internal/scrapers/coupang"
	"coupang-search/lib/configutil"
	"coupang-search/lib/restyutil"
)

type SiteConfig struct {
	LandingUrl     string `json:"landing_url"`
	LandingReferer string `json:"landing_referer"`
	SearchUrl      string `json:"search_url"`
	BaseUrl        string `json:"base_url"`
}

type Config struct {
	OutputDir   string `json:"output_dir"`
	NumProducts int    `json:"num_products"`
	// Db is the run history database, history is off when empty.
	Db string `json:"db"`
	// DumpHttp is a directory every HTTP exchange is written to.
	DumpHttp       string     `json:"dump_http"`
	UserAgent      string     `json:"user_agent"`
	TimeoutSeconds int        `json:"timeout_seconds"`
	MaxRedirects   int        `json:"max_redirects"`
	Site           SiteConfig `json:"site"`
}

func defaultConfig() Config {
	return Config{
		OutputDir:      pipeline.DefaultOutputDir,
		NumProducts:    extract.DefaultLimit,
		TimeoutSeconds: int(coupang.DefaultTimeout / time.Second),
		MaxRedirects:   coupang.DefaultMaxRedirects,
	}
}

func readConfig(path string) (Config, error) {
	return configutil.ReadConfigOr(path, defaultConfig())
}

// site overrides the default endpoints with whichever ones are configured.
func (c Config) site() coupang.Site {
	site := coupang.DefaultSite()
	if c.Site.LandingUrl != "" {
		site.LandingUrl = c.Site.LandingUrl
		site.LandingParams = nil
	}
	if c.Site.LandingReferer != "" {
		site.LandingReferer = c.Site.LandingReferer
	}
	if c.Site.SearchUrl != "" {
		site.SearchUrl = c.Site.SearchUrl
	}
	if c.Site.BaseUrl != "" {
		site.BaseUrl = c.Site.BaseUrl
	}
	return site
}

func (c Config) clientOptions(tel telemetry.API, dump restyutil.InstrumentOutput) coupang.ClientOptions {
	return coupang.ClientOptions{
		Site:         c.site(),
		UserAgent:    c.UserAgent,
		Timeout:      time.Duration(c.TimeoutSeconds) * time.Second,
		MaxRedirects: c.MaxRedirects,
		Telemetry:    tel,
		DumpOutput:   dump,
	}
}
