package history

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"coupang-search/internal/components/chrono"
	"coupang-search/internal/components/telemetry"
	"coupang-search/internal/extract"
	"coupang-search/lib/testutil"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string {
	return &s
}

func setupRecorder(t testing.TB, opts ...RecorderOption) (Recorder, *sql.DB) {
	sqldb := testutil.OpenHistoryDB(t)
	return NewRecorder(sqldb, opts...), sqldb
}

func TestRecord(t *testing.T) {
	tel := &telemetry.TestAPI{}
	now := time.Date(2025, 4, 20, 12, 0, 0, 0, time.UTC)
	recorder, _ := setupRecorder(t, WithCustomTelemetryAPI(tel), WithChrono(chrono.FixedImpl{Time: now}))

	products := []extract.Product{
		{
			Id:          ptr("1001"),
			Name:        ptr("삼성전자 제트 무선 청소기"),
			Price:       ptr("329,000"),
			RatingCount: ptr("1,234"),
			Badges:      []string{"로켓배송", "무료배송"},
		},
		{
			Name: ptr("다이슨 V15 디텍트"),
		},
	}

	runId, err := recorder.Record(context.Background(), Entry{
		Query:      "무선 청소기",
		HtmlPath:   "output/coupang_search_무선_청소기.html",
		JsonPath:   "output/coupang_search_무선_청소기.json",
		FinalUrl:   "https://www.coupang.com/",
		StatusCode: 200,
		Products:   products,
	})
	require.NoError(t, err)
	require.NotEmpty(t, runId)

	stored, err := recorder.Products(context.Background(), runId)
	require.NoError(t, err)
	diff := cmp.Diff(products, stored)
	if diff != "" {
		t.Fatal(diff)
	}

	recent, err := recorder.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, runId, recent[0].RunID)
	require.Equal(t, "무선 청소기", recent[0].Query)
	require.EqualValues(t, 2, recent[0].ProductCount)
	require.Equal(t, now.Unix(), recent[0].CreatedAt)
	require.True(t, now.Equal(recorder.CreatedAt(recent[0])))
	require.True(t, recent[0].FinalUrl.Valid)
	require.EqualValues(t, 200, recent[0].StatusCode.Int64)

	count, ok := tel.LastCount(report_record_count)
	require.True(t, ok)
	require.EqualValues(t, 2, count)
}

func TestRecordFromDisk(t *testing.T) {
	recorder, _ := setupRecorder(t)

	runId, err := recorder.Record(context.Background(), Entry{
		Query:    "coupang_search_laptop",
		HtmlPath: "output/coupang_search_laptop.html",
		JsonPath: "output/coupang_search_laptop.json",
	})
	require.NoError(t, err)

	stored, err := recorder.Products(context.Background(), runId)
	require.NoError(t, err)
	require.Empty(t, stored)

	recent, err := recorder.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.False(t, recent[0].FinalUrl.Valid)
	require.False(t, recent[0].StatusCode.Valid)
}

func TestRecordFailureRollsBack(t *testing.T) {
	tel := &telemetry.TestAPI{}
	recorder, sqldb := setupRecorder(t, WithCustomTelemetryAPI(tel))

	_, err := sqldb.Exec("drop table product")
	require.NoError(t, err)

	_, err = recorder.Record(context.Background(), Entry{
		Query:    "laptop",
		Products: []extract.Product{{Name: ptr("노트북")}},
	})
	require.Error(t, err)
	require.True(t, tel.HasReport(telemetry.KindBroken, report_record))

	recent, err := recorder.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Empty(t, recent)
}
