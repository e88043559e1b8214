package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"coupang-search/internal/components/telemetry"
	"coupang-search/internal/persist"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("coupang-search/extract")

const (
	report_process_file = "process-file"
	report_process_dir  = "process-dir"
	report_products     = "products"
)

// JsonPath is the sibling .json of a saved page.
func JsonPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".json"
}

// ProcessFile extracts the products of a saved results page and writes them
// next to it as JSON.
func ProcessFile(ctx context.Context, htmlPath string, opts Options) (string, []Product, error) {
	_, span := tracer.Start(ctx, "ProcessFile")
	defer span.End()
	span.SetAttributes(attribute.String("path", htmlPath))

	tel := telemetry.NewScopedAPI("extract", telemetry.OrDefault(opts.Telemetry))
	opts.Telemetry = tel

	fail := func(err error) (string, []Product, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		tel.ReportWarning(report_process_file, err, htmlPath)
		return "", nil, err
	}

	f, err := os.Open(htmlPath)
	if err != nil {
		return fail(err)
	}
	defer f.Close()

	products, err := ParseProducts(f, opts)
	if err != nil {
		return fail(fmt.Errorf("parse %s: %w", htmlPath, err))
	}

	jsonPath := JsonPath(htmlPath)
	err = persist.WriteJson(jsonPath, products)
	if err != nil {
		return fail(err)
	}

	tel.ReportCount(report_products, int64(len(products)))
	tel.ReportInfo("saved products", "count", len(products), "path", jsonPath)
	return jsonPath, products, nil
}

type FileResult struct {
	HtmlPath string
	// JsonPath is empty when the file failed.
	JsonPath string
	Products []Product
	Err      error
}

// ProcessDir runs ProcessFile on every .html file directly inside dir, a
// file that fails is reported and ends up with no products. Only an
// unreadable dir or a cancelled ctx is an error.
func ProcessDir(ctx context.Context, dir string, opts Options) ([]FileResult, error) {
	ctx, span := tracer.Start(ctx, "ProcessDir")
	defer span.End()

	tel := telemetry.NewScopedAPI("extract", telemetry.OrDefault(opts.Telemetry))

	entries, err := os.ReadDir(dir)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	var paths []string
	for _, entry := range entries {
		if strings.EqualFold(filepath.Ext(entry.Name()), ".html") {
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	if len(paths) == 0 {
		tel.ReportInfo("no html files found", "dir", dir)
		return nil, nil
	}

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		tel.ReportInfo("processing", "path", path)
		jsonPath, products, err := ProcessFile(ctx, path, opts)
		if err != nil {
			tel.ReportWarning(report_process_dir, err, path)
			products = []Product{}
		}
		results = append(results, FileResult{
			HtmlPath: path,
			JsonPath: jsonPath,
			Products: products,
			Err:      err,
		})
	}
	return results, nil
}
