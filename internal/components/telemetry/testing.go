package telemetry

import (
	"strings"
	"sync"
)

type ReportKind int

const (
	KindBroken ReportKind = iota
	KindWarning
	KindInfo
	KindDebug
	KindCount
)

type Report struct {
	Kind   ReportKind
	Id     string
	Params []any
	Count  int64
}

// TestAPI records every report so tests can assert on them, it also
// forwards to SlogAPI so test output stays readable.
type TestAPI struct {
	mutex   sync.Mutex
	reports []Report
}

func (t *TestAPI) record(r Report) {
	t.mutex.Lock()
	defer t.mutex.Unlock()
	t.reports = append(t.reports, r)
}

func (t *TestAPI) ReportBroken(id string, params ...any) {
	t.record(Report{Kind: KindBroken, Id: id, Params: params})
	SlogAPI{}.ReportBroken(id, params...)
}

func (t *TestAPI) ReportWarning(id string, params ...any) {
	t.record(Report{Kind: KindWarning, Id: id, Params: params})
	SlogAPI{}.ReportWarning(id, params...)
}

func (t *TestAPI) ReportInfo(msg string, params ...any) {
	t.record(Report{Kind: KindInfo, Id: msg, Params: params})
	SlogAPI{}.ReportInfo(msg, params...)
}

func (t *TestAPI) ReportDebug(msg string, params ...any) {
	t.record(Report{Kind: KindDebug, Id: msg, Params: params})
	SlogAPI{}.ReportDebug(msg, params...)
}

func (t *TestAPI) ReportCount(id string, count int64) {
	t.record(Report{Kind: KindCount, Id: id, Count: count})
}

// Reports returns a copy of every report of the given kind.
func (t *TestAPI) Reports(kind ReportKind) []Report {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	var out []Report
	for _, r := range t.reports {
		if r.Kind == kind {
			out = append(out, r)
		}
	}
	return out
}

// HasReport returns true if a report of the given kind has an id ending in `suffix`,
// this ignores the namespaces added by ScopedAPI.
func (t *TestAPI) HasReport(kind ReportKind, suffix string) bool {
	for _, r := range t.Reports(kind) {
		if strings.HasSuffix(r.Id, suffix) {
			return true
		}
	}
	return false
}

// LastCount returns the last count reported under an id ending in `suffix`.
func (t *TestAPI) LastCount(suffix string) (int64, bool) {
	counts := t.Reports(KindCount)
	for i := len(counts) - 1; i >= 0; i-- {
		if strings.HasSuffix(counts[i].Id, suffix) {
			return counts[i].Count, true
		}
	}
	return 0, false
}
