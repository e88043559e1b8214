package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"coupang-search/internal/components/chrono"
	"coupang-search/internal/components/telemetry"
	"coupang-search/internal/db"
	"coupang-search/internal/extract"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("coupang-search/history")

const (
	report_record       = "record"
	report_record_count = "record.products"
	report_clock        = "clock"
)

// Entry is one extraction worth remembering, FinalUrl and StatusCode are
// zero for pages extracted from disk.
type Entry struct {
	Query      string
	HtmlPath   string
	JsonPath   string
	FinalUrl   string
	StatusCode int
	Products   []extract.Product
}

// Recorder stores extractions in the run history database.
type Recorder struct {
	qry    *db.Queries
	makeTx db.MakeTx
	tel    telemetry.API
	clock  chrono.API
}

type RecorderOption func(cfg *recorderCfg)

type recorderCfg struct {
	tel   telemetry.API
	clock chrono.API
}

func WithCustomTelemetryAPI(tel telemetry.API) RecorderOption {
	return func(cfg *recorderCfg) {
		cfg.tel = tel
	}
}

func WithChrono(clock chrono.API) RecorderOption {
	return func(cfg *recorderCfg) {
		cfg.clock = clock
	}
}

func NewRecorder(sqldb *sql.DB, opts ...RecorderOption) Recorder {
	var cfg recorderCfg
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.tel == nil {
		cfg.tel = telemetry.SlogAPI{}
	}
	if cfg.clock == nil {
		clock, err := chrono.NewStandardImpl()
		if err != nil {
			cfg.tel.ReportWarning(report_clock, err)
			clock = chrono.UTC()
		}
		cfg.clock = clock
	}

	return Recorder{
		qry:    db.New(sqldb),
		makeTx: db.NewMakeTx(sqldb),
		tel:    telemetry.NewScopedAPI("history", cfg.tel),
		clock:  cfg.clock,
	}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Record stores an entry and its products in one transaction and returns
// the run id it was stored under.
func (r Recorder) Record(ctx context.Context, entry Entry) (string, error) {
	ctx, span := tracer.Start(ctx, "Record")
	defer span.End()

	runId, err := r.record(ctx, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.tel.ReportBroken(report_record, err, entry.Query)
		return "", err
	}
	r.tel.ReportCount(report_record_count, int64(len(entry.Products)))
	r.tel.ReportDebug("recorded run", runId, entry.Query)
	return runId, nil
}

func (r Recorder) record(ctx context.Context, entry Entry) (string, error) {
	txqry, discard, commit, err := r.makeTx(ctx)
	if err != nil {
		return "", err
	}
	defer discard()

	search := db.CreateSearchParams{
		RunID:        uuid.NewString(),
		Query:        entry.Query,
		HtmlPath:     entry.HtmlPath,
		JsonPath:     entry.JsonPath,
		ProductCount: int64(len(entry.Products)),
		CreatedAt:    r.clock.Now().Unix(),
	}
	if entry.FinalUrl != "" {
		search.FinalUrl = sql.NullString{String: entry.FinalUrl, Valid: true}
	}
	if entry.StatusCode != 0 {
		search.StatusCode = sql.NullInt64{Int64: int64(entry.StatusCode), Valid: true}
	}

	searchId, err := txqry.CreateSearch(ctx, search)
	if err != nil {
		return "", fmt.Errorf("create search: %w", err)
	}

	for i, p := range entry.Products {
		var badges sql.NullString
		if len(p.Badges) > 0 {
			encoded, err := json.Marshal(p.Badges)
			if err != nil {
				return "", err
			}
			badges = sql.NullString{String: string(encoded), Valid: true}
		}

		err = txqry.CreateProduct(ctx, db.CreateProductParams{
			SearchID:      searchId,
			Position:      int64(i),
			ProductID:     nullString(p.Id),
			Name:          nullString(p.Name),
			Url:           nullString(p.Url),
			Price:         nullString(p.Price),
			OriginalPrice: nullString(p.OriginalPrice),
			Rating:        nullString(p.Rating),
			RatingCount:   nullString(p.RatingCount),
			ImageUrl:      nullString(p.ImageUrl),
			Badges:        badges,
		})
		if err != nil {
			return "", fmt.Errorf("create product %d: %w", i, err)
		}
	}

	err = commit()
	if err != nil {
		return "", err
	}
	return search.RunID, nil
}

func fromNull(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

// Products loads the products stored under a run id, in their original order.
func (r Recorder) Products(ctx context.Context, runId string) ([]extract.Product, error) {
	search, err := r.qry.GetSearch(ctx, runId)
	if err != nil {
		return nil, err
	}
	rows, err := r.qry.GetProducts(ctx, search.ID)
	if err != nil {
		return nil, err
	}

	products := make([]extract.Product, 0, len(rows))
	for _, row := range rows {
		p := extract.Product{
			Id:            fromNull(row.ProductID),
			Name:          fromNull(row.Name),
			Url:           fromNull(row.Url),
			Price:         fromNull(row.Price),
			OriginalPrice: fromNull(row.OriginalPrice),
			Rating:        fromNull(row.Rating),
			RatingCount:   fromNull(row.RatingCount),
			ImageUrl:      fromNull(row.ImageUrl),
		}
		if row.Badges.Valid {
			err := json.Unmarshal([]byte(row.Badges.String), &p.Badges)
			if err != nil {
				return nil, fmt.Errorf("decode badges of product %d: %w", row.Position, err)
			}
		}
		products = append(products, p)
	}
	return products, nil
}

// CreatedAt returns when a run was recorded, in the recorder's timezone.
func (r Recorder) CreatedAt(search db.Search) time.Time {
	return time.Unix(search.CreatedAt, 0).In(r.clock.Location())
}

// Recent lists the latest recorded runs.
func (r Recorder) Recent(ctx context.Context, limit int) ([]db.Search, error) {
	return r.qry.ListSearches(ctx, int64(limit))
}
