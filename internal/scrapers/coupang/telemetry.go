package coupang

import (
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("coupang-search/scrapers/coupang")

const (
	report_session_initialize = "session.initialize"
	report_session_hops       = "session.hops"
	report_search             = "search"
)
