package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
)

func strPtr(s string) *string { return &s }
func i64Ptr(v int64) *int64   { return &v }

func rowAt(t time.Time) repositories.StatsRow {
	return repositories.StatsRow{CreatedAt: t}
}

func TestQualityScore(t *testing.T) {
	assert.Equal(t, 100.0, qualityScore(0, 0))
	assert.Equal(t, 100.0, qualityScore(10, 0))
	assert.Equal(t, 66.7, qualityScore(3, 1))
	assert.Equal(t, 0.0, qualityScore(5, 5))
}

func TestRateOf(t *testing.T) {
	assert.Equal(t, 0.0, rateOf(5, 0))
	assert.Equal(t, 50.0, rateOf(1, 2))
	assert.Equal(t, 33.3, rateOf(1, 3))
}

func TestGrowthPercent(t *testing.T) {
	assert.Equal(t, 50.0, growthPercent(15, 10))
	assert.Equal(t, -20.0, growthPercent(8, 10))
	assert.Equal(t, 100.0, growthPercent(7, 0))
	assert.Equal(t, 0.0, growthPercent(0, 0))
}

func TestDuplicateRecordsGroupsByEmailThenPhone(t *testing.T) {
	base := time.Date(2026, 4, 10, 10, 0, 0, 0, helpers.TurkeyTZ)

	rows := []repositories.StatsRow{
		{ID: 1, Email: strPtr("a@example.com"), Phone: strPtr("111"), CreatedAt: base},
		{ID: 2, Email: strPtr("a@example.com"), Phone: strPtr("222"), CreatedAt: base.Add(time.Hour)},
		{ID: 3, Email: strPtr("a@example.com"), Phone: strPtr("333"), CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Email: strPtr("b@example.com"), Phone: strPtr("444"), CreatedAt: base.Add(3 * time.Hour)},
		{ID: 5, Phone: strPtr("444"), CreatedAt: base.Add(4 * time.Hour)},
	}

	records := duplicateRecords(rows, 50)
	require.Len(t, records, 5)

	// the email trio outranks the phone pair
	assert.Equal(t, int64(3), records[0].MatchCount)
	assert.Equal(t, "email", records[0].DuplicateType)
	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, int64(2), records[1].ID)
	assert.Equal(t, int64(1), records[2].ID)

	assert.Equal(t, "phone", records[3].DuplicateType)
	assert.Equal(t, int64(5), records[3].ID)
	assert.Equal(t, int64(4), records[4].ID)
}

func TestDuplicateRecordsExcludesEmailMatchesFromPhoneGroups(t *testing.T) {
	base := time.Date(2026, 4, 10, 10, 0, 0, 0, helpers.TurkeyTZ)

	// both records share an email and a phone, so only the email group forms
	rows := []repositories.StatsRow{
		{ID: 1, Email: strPtr("x@example.com"), Phone: strPtr("555"), CreatedAt: base},
		{ID: 2, Email: strPtr("x@example.com"), Phone: strPtr("555"), CreatedAt: base.Add(time.Minute)},
	}

	records := duplicateRecords(rows, 50)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "email", r.DuplicateType)
	}
}

func TestDuplicateRecordsPhoneCountIncludesEmailMatchedRows(t *testing.T) {
	base := time.Date(2026, 4, 10, 10, 0, 0, 0, helpers.TurkeyTZ)

	// records 1 and 2 share an email and a phone; record 3 shares only the
	// phone. Record 3 must still report all three phone sharers.
	rows := []repositories.StatsRow{
		{ID: 1, Email: strPtr("x@example.com"), Phone: strPtr("555"), CreatedAt: base},
		{ID: 2, Email: strPtr("x@example.com"), Phone: strPtr("555"), CreatedAt: base.Add(time.Minute)},
		{ID: 3, Email: strPtr("y@example.com"), Phone: strPtr("555"), CreatedAt: base.Add(2 * time.Minute)},
	}

	records := duplicateRecords(rows, 50)
	require.Len(t, records, 3)

	// the phone record outranks the email pair on match count
	assert.Equal(t, int64(3), records[0].ID)
	assert.Equal(t, "phone", records[0].DuplicateType)
	assert.Equal(t, int64(3), records[0].MatchCount)

	assert.Equal(t, "email", records[1].DuplicateType)
	assert.Equal(t, int64(2), records[1].MatchCount)
	assert.Equal(t, "email", records[2].DuplicateType)
}

func TestDuplicateRecordsHonorsLimit(t *testing.T) {
	base := time.Date(2026, 4, 10, 10, 0, 0, 0, helpers.TurkeyTZ)

	rows := []repositories.StatsRow{
		{ID: 1, Email: strPtr("x@example.com"), CreatedAt: base},
		{ID: 2, Email: strPtr("x@example.com"), CreatedAt: base.Add(time.Minute)},
		{ID: 3, Email: strPtr("x@example.com"), CreatedAt: base.Add(2 * time.Minute)},
	}

	records := duplicateRecords(rows, 2)
	assert.Len(t, records, 2)
}

func TestDuplicateRecordsEmptyInput(t *testing.T) {
	records := duplicateRecords(nil, 50)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestDepartmentCounts(t *testing.T) {
	rows := []repositories.StatsRow{
		{DepartmentName: strPtr("Tıp")},
		{DepartmentName: strPtr("Tıp")},
		{DepartmentName: strPtr("Hukuk")},
		{},
	}

	counts := departmentCounts(rows)
	require.Len(t, counts, 3)
	assert.Equal(t, "Tıp", counts[0].DepartmentName)
	assert.Equal(t, int64(2), counts[0].Count)
	assert.Contains(t, []string{counts[1].DepartmentName, counts[2].DepartmentName}, "Belirtilmemiş")
}

func TestTypeCountsSkipsMissingType(t *testing.T) {
	sayisal := models.YKSSayisal
	sozel := models.YKSSozel

	rows := []repositories.StatsRow{
		{YKSType: &sayisal},
		{YKSType: &sayisal},
		{YKSType: &sozel},
		{},
	}

	counts := typeCounts(rows)
	require.Len(t, counts, 2)
	assert.Equal(t, string(models.YKSSayisal), counts[0].YksType)
	assert.Equal(t, int64(2), counts[0].Count)
}

func TestDayCountsSortedChronologically(t *testing.T) {
	rows := []repositories.StatsRow{
		rowAt(time.Date(2026, 4, 12, 9, 0, 0, 0, helpers.TurkeyTZ)),
		rowAt(time.Date(2026, 4, 10, 9, 0, 0, 0, helpers.TurkeyTZ)),
		rowAt(time.Date(2026, 4, 10, 15, 0, 0, 0, helpers.TurkeyTZ)),
	}

	counts := dayCounts(rows)
	require.Len(t, counts, 2)
	assert.Equal(t, "2026-04-10", counts[0].Date)
	assert.Equal(t, int64(2), counts[0].Count)
	assert.Equal(t, "2026-04-12", counts[1].Date)
}

func TestHourCountsFillsAllBuckets(t *testing.T) {
	rows := []repositories.StatsRow{
		rowAt(time.Date(2026, 4, 10, 9, 30, 0, 0, helpers.TurkeyTZ)),
		rowAt(time.Date(2026, 4, 10, 9, 45, 0, 0, helpers.TurkeyTZ)),
		rowAt(time.Date(2026, 4, 10, 14, 0, 0, 0, helpers.TurkeyTZ)),
	}

	counts := hourCounts(rows)
	require.Len(t, counts, 24)
	assert.Equal(t, int64(2), counts[9].Count)
	assert.Equal(t, int64(1), counts[14].Count)
	assert.Equal(t, int64(0), counts[0].Count)
}

func TestHeatmapCellsMondayIsDayZero(t *testing.T) {
	// 2026-04-13 is a Monday
	rows := []repositories.StatsRow{
		rowAt(time.Date(2026, 4, 13, 10, 0, 0, 0, helpers.TurkeyTZ)),
		rowAt(time.Date(2026, 4, 13, 10, 30, 0, 0, helpers.TurkeyTZ)),
		rowAt(time.Date(2026, 4, 19, 22, 0, 0, 0, helpers.TurkeyTZ)), // Sunday
	}

	cells, maxCount := heatmapCells(rows)
	require.Len(t, cells, 7*24)
	assert.Equal(t, int64(2), maxCount)

	monday := cells[10]
	assert.Equal(t, 0, monday.DayOfWeek)
	assert.Equal(t, "Pazartesi", monday.DayName)
	assert.Equal(t, 10, monday.Hour)
	assert.Equal(t, int64(2), monday.Count)

	sunday := cells[6*24+22]
	assert.Equal(t, 6, sunday.DayOfWeek)
	assert.Equal(t, "Pazar", sunday.DayName)
	assert.Equal(t, int64(1), sunday.Count)
}

func TestDepartmentTrendsFillsMissingDays(t *testing.T) {
	startDay := time.Date(2026, 4, 10, 0, 0, 0, 0, helpers.TurkeyTZ)
	endDay := time.Date(2026, 4, 12, 0, 0, 0, 0, helpers.TurkeyTZ)

	rows := []repositories.StatsRow{
		{DepartmentName: strPtr("Tıp"), CreatedAt: time.Date(2026, 4, 10, 9, 0, 0, 0, helpers.TurkeyTZ)},
		{DepartmentName: strPtr("Tıp"), CreatedAt: time.Date(2026, 4, 12, 9, 0, 0, 0, helpers.TurkeyTZ)},
		{DepartmentName: strPtr("Hukuk"), CreatedAt: time.Date(2026, 4, 11, 9, 0, 0, 0, helpers.TurkeyTZ)},
	}

	top, trends := departmentTrends(rows, startDay, endDay, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "Tıp", top[0].DepartmentName)
	assert.Equal(t, int64(2), top[0].Total)

	require.Contains(t, trends, "Tıp")
	series := trends["Tıp"].Data
	require.Len(t, series, 3)
	assert.Equal(t, int64(1), series[0].Count)
	assert.Equal(t, int64(0), series[1].Count)
	assert.Equal(t, int64(1), series[2].Count)
}

func TestDayStats(t *testing.T) {
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, helpers.TurkeyTZ)
	sayisal := models.YKSSayisal

	rows := []repositories.StatsRow{
		{
			ID: 1, Email: strPtr("a@example.com"), Phone: strPtr("111"),
			YKSType: &sayisal, DepartmentID: i64Ptr(1), DepartmentName: strPtr("Tıp"),
			WantsTour: true, CreatedByID: i64Ptr(1),
			CreatedAt: day.Add(9 * time.Hour),
		},
		{
			ID: 2, DepartmentID: i64Ptr(1), DepartmentName: strPtr("Tıp"),
			CreatedByID: i64Ptr(1),
			CreatedAt:   day.Add(9*time.Hour + 30*time.Minute),
		},
		{
			ID:          3,
			CreatedByID: i64Ptr(2),
			CreatedAt:   day.Add(14 * time.Hour),
		},
	}

	teachers := []repositories.TeacherCount{
		{UserID: 1, Username: "Okan", Count: 2, TodayCount: 2},
		{UserID: 2, Username: "Özgür Güler", Count: 1, TodayCount: 1},
	}

	stats := dayStats(rows, teachers)

	assert.Equal(t, int64(3), stats.Summary.TotalStudents)
	assert.Equal(t, int64(3), stats.Summary.UniqueStudents)
	assert.Equal(t, int64(3), stats.Summary.TodayCount)
	assert.Equal(t, int64(1), stats.Summary.TourRequests)
	assert.Equal(t, int64(1), stats.Summary.UniqueDepartments)

	// records 2 and 3 are missing contact or department details
	assert.Equal(t, int64(2), stats.DataQuality.IncompleteRecords)
	assert.Equal(t, 33.3, stats.DataQuality.QualityScore)
	assert.Equal(t, int64(0), stats.DataQuality.DuplicateEmails)

	require.Len(t, stats.TourRequests, 1)
	assert.Equal(t, "Tıp", stats.TourRequests[0].DepartmentName)
	assert.Equal(t, int64(1), stats.TourRequests[0].TourRequests)
	assert.Equal(t, int64(2), stats.TourRequests[0].TotalStudents)

	require.Len(t, stats.Hourly, 2)
	assert.Equal(t, 9, stats.Hourly[0].Hour)
	assert.Equal(t, int64(2), stats.Hourly[0].Count)

	require.Len(t, stats.ByTeacher, 2)
	assert.Equal(t, "Okan", stats.ByTeacher[0].Username)
	assert.Equal(t, int64(2), stats.ByTeacher[0].TodayCount)

	assert.Nil(t, stats.ConversionFunnel)
}
