package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeteredAPI forwards everything to an inner API and additionally records
// counts on an OpenTelemetry gauge, one series per report id.
type MeteredAPI struct {
	API
	gauge metric.Int64Gauge
}

func NewMeteredAPI(inner API) (MeteredAPI, error) {
	gauge, err := otel.Meter("coupang-search").Int64Gauge(
		"coupang_search.count",
		metric.WithDescription("point in time counts reported by pipeline components"),
	)
	if err != nil {
		return MeteredAPI{}, err
	}
	return MeteredAPI{API: inner, gauge: gauge}, nil
}

func (m MeteredAPI) ReportCount(id string, count int64) {
	m.gauge.Record(
		context.Background(),
		count,
		metric.WithAttributes(attribute.String("id", id)),
	)
	m.API.ReportCount(id, count)
}
