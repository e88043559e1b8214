package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"coupang-search/internal/components/telemetry"
	"coupang-search/internal/extract"
	"coupang-search/internal/history"
	"coupang-search/internal/persist"
	"coupang-search/internal/scrapers/coupang"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("coupang-search/pipeline")

const (
	report_search_and_extract = "search-and-extract"
	report_extract_dir        = "extract-dir"
	report_history            = "history"
)

const DefaultOutputDir = "output"

var ErrNoProducts = errors.New("no products extracted")

type Options struct {
	// Limit is the maximum number of products extracted.
	Limit     int
	OutputDir string
	Client    coupang.ClientOptions
	// History is optional, when set every successful extraction is recorded.
	History   *history.Recorder
	Telemetry telemetry.API
}

func (o Options) withDefaults() Options {
	if o.OutputDir == "" {
		o.OutputDir = DefaultOutputDir
	}
	if o.Client.Telemetry == nil {
		o.Client.Telemetry = o.Telemetry
	}
	return o
}

func (o Options) extractOptions() extract.Options {
	return extract.Options{
		Limit:     o.Limit,
		BaseUrl:   o.Client.Site.BaseUrl,
		Telemetry: o.Telemetry,
	}
}

type Result struct {
	Query    string
	HtmlPath string
	JsonPath string
	Products []extract.Product
	// RunId is set when the run was recorded to history.
	RunId string
}

// SearchAndExtract runs a query through every stage: session, search,
// saving the page and extracting its products to JSON next to it. The
// first stage that fails ends the run.
func SearchAndExtract(ctx context.Context, query string, opts Options) (Result, error) {
	ctx, span := tracer.Start(ctx, "SearchAndExtract")
	defer span.End()
	span.SetAttributes(attribute.String("query", query))

	opts = opts.withDefaults()
	tel := telemetry.NewScopedAPI("pipeline", telemetry.OrDefault(opts.Telemetry))

	result := Result{Query: query}
	fail := func(err error) (Result, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tel.ReportWarning(report_search_and_extract, err)
		return result, err
	}

	tel.ReportInfo("starting search", "query", query)

	session, err := coupang.Initialize(ctx, opts.Client)
	if err != nil {
		return fail(fmt.Errorf("failed to initialize session: %w", err))
	}

	res, err := session.Search(ctx, query)
	if err != nil {
		return fail(fmt.Errorf("failed to get search results for %q: %w", query, err))
	}

	htmlPath, err := persist.SaveSearchHtml(opts.OutputDir, query, res.Body, res.ContentType)
	if err != nil {
		return fail(fmt.Errorf("failed to save search results: %w", err))
	}
	result.HtmlPath = htmlPath
	tel.ReportInfo("saved search results", "path", htmlPath)

	jsonPath, products, err := extract.ProcessFile(ctx, htmlPath, opts.extractOptions())
	if err != nil {
		return fail(fmt.Errorf("failed to extract products: %w", err))
	}
	result.JsonPath = jsonPath
	result.Products = products
	if len(products) == 0 {
		return fail(ErrNoProducts)
	}

	if opts.History != nil {
		result.RunId = record(ctx, tel, *opts.History, history.Entry{
			Query:      query,
			HtmlPath:   htmlPath,
			JsonPath:   jsonPath,
			FinalUrl:   res.Url,
			StatusCode: res.StatusCode,
			Products:   products,
		})
	}

	span.SetAttributes(attribute.Int("products", len(products)))
	return result, nil
}

// record keeps history failures from failing a run that already produced
// its JSON.
func record(ctx context.Context, tel telemetry.API, recorder history.Recorder, entry history.Entry) string {
	runId, err := recorder.Record(ctx, entry)
	if err != nil {
		tel.ReportWarning(report_history, err, entry.HtmlPath)
		return ""
	}
	return runId
}

// QueryFromFilename recovers the sanitized query of a saved page.
func QueryFromFilename(htmlPath string) string {
	base := filepath.Base(htmlPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimPrefix(base, "coupang_search_")
}

// ExtractDir re-runs extraction on every saved page in dir without touching
// the network.
func ExtractDir(ctx context.Context, dir string, opts Options) ([]extract.FileResult, error) {
	ctx, span := tracer.Start(ctx, "ExtractDir")
	defer span.End()

	opts = opts.withDefaults()
	tel := telemetry.NewScopedAPI("pipeline", telemetry.OrDefault(opts.Telemetry))

	results, err := extract.ProcessDir(ctx, dir, opts.extractOptions())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tel.ReportWarning(report_extract_dir, err, dir)
		return results, err
	}

	if opts.History != nil {
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			record(ctx, tel, *opts.History, history.Entry{
				Query:    QueryFromFilename(r.HtmlPath),
				HtmlPath: r.HtmlPath,
				JsonPath: r.JsonPath,
				Products: r.Products,
			})
		}
	}

	return results, nil
}
