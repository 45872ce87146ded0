package services

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/models/dto"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
)

const unspecifiedDepartment = "Belirtilmemiş"

// weekdayNames indexes Turkish day names with Monday at zero
var weekdayNames = [7]string{"Pazartesi", "Salı", "Çarşamba", "Perşembe", "Cuma", "Cumartesi", "Pazar"}

// comparisonOffsets maps the compare_with parameter to a day shift
var comparisonOffsets = map[string]int{
	"yesterday":  1,
	"last_week":  7,
	"last_month": 30,
}

// StatsService computes the reporting endpoints over student records
type StatsService struct {
	statsRepo *repositories.StatsRepository
	now       func() time.Time
}

// NewStatsService creates a new stats service instance
func NewStatsService(statsRepo *repositories.StatsRepository) *StatsService {
	return &StatsService{
		statsRepo: statsRepo,
		now:       helpers.TurkeyNow,
	}
}

// roundOne rounds to one decimal place
func roundOne(x float64) float64 {
	return math.Round(x*10) / 10
}

// qualityScore is the share of complete records as a percentage.
// An empty dataset scores a full 100.
func qualityScore(total, incomplete int64) float64 {
	if total == 0 {
		return 100.0
	}
	return roundOne(float64(total-incomplete) / float64(total) * 100)
}

// rateOf is part over whole as a percentage, zero when the whole is zero
func rateOf(part, whole int64) float64 {
	if whole == 0 {
		return 0.0
	}
	return roundOne(float64(part) / float64(whole) * 100)
}

// growthPercent is the relative change from compare to current
func growthPercent(current, compare int64) float64 {
	switch {
	case compare > 0:
		return roundOne(float64(current-compare) / float64(compare) * 100)
	case current > 0:
		return 100.0
	default:
		return 0.0
	}
}

func scopeFor(caller *models.User) *int64 {
	if caller.IsAdmin() {
		return nil
	}
	return &caller.ID
}

// Summary returns the headline dashboard counters
func (s *StatsService) Summary(ctx context.Context) (*dto.StatsSummary, error) {
	total, err := s.statsRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	identity, err := s.statsRepo.IdentityCounts(ctx)
	if err != nil {
		return nil, err
	}

	today, err := s.statsRepo.CountSince(ctx, helpers.DayStart(s.now()))
	if err != nil {
		return nil, err
	}

	tours, err := s.statsRepo.CountWantsTour(ctx)
	if err != nil {
		return nil, err
	}

	departments, err := s.statsRepo.CountDistinctDepartments(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsSummary{
		TotalStudents:     total,
		UniqueStudents:    identity.DistinctEmails + identity.DistinctPhonesOnly + identity.NoIdentifier,
		TodayCount:        today,
		TourRequests:      tours,
		UniqueDepartments: departments,
	}, nil
}

// Quality returns the data completeness and duplication metrics
func (s *StatsService) Quality(ctx context.Context) (*dto.DataQualityStats, error) {
	total, err := s.statsRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	incomplete, err := s.statsRepo.CountIncomplete(ctx)
	if err != nil {
		return nil, err
	}

	dupEmails, err := s.statsRepo.CountDuplicateEmails(ctx)
	if err != nil {
		return nil, err
	}

	dupPhones, err := s.statsRepo.CountDuplicatePhones(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DataQualityStats{
		IncompleteRecords: incomplete,
		DuplicateEmails:   dupEmails,
		DuplicatePhones:   dupPhones,
		QualityScore:      qualityScore(total, incomplete),
	}, nil
}

// Funnel returns the registration to tour-dispatch progression
func (s *StatsService) Funnel(ctx context.Context) (*dto.ConversionFunnel, error) {
	registered, err := s.statsRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}

	requested, err := s.statsRepo.CountWantsTour(ctx)
	if err != nil {
		return nil, err
	}

	sent, err := s.statsRepo.CountTourSent(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ConversionFunnel{
		Registered:         registered,
		TourRequested:      requested,
		TourSent:           sent,
		TourRequestRate:    rateOf(requested, registered),
		TourCompletionRate: rateOf(sent, requested),
	}, nil
}

// ByDepartment returns the busiest departments
func (s *StatsService) ByDepartment(ctx context.Context, limit int) ([]dto.DepartmentStats, error) {
	counts, err := s.statsRepo.ByDepartment(ctx, limit)
	if err != nil {
		return nil, err
	}

	result := make([]dto.DepartmentStats, 0, len(counts))
	for _, c := range counts {
		name := c.DepartmentName
		if name == "" {
			name = unspecifiedDepartment
		}
		result = append(result, dto.DepartmentStats{DepartmentName: name, Count: c.Count})
	}
	return result, nil
}

// ByType returns registration counts per exam type
func (s *StatsService) ByType(ctx context.Context) ([]dto.YksTypeStats, error) {
	counts, err := s.statsRepo.ByYKSType(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.YksTypeStats, 0, len(counts))
	for _, c := range counts {
		result = append(result, dto.YksTypeStats{YksType: c.YKSType, Count: c.Count})
	}
	return result, nil
}

// TourRequests returns tour request counts per department
func (s *StatsService) TourRequests(ctx context.Context) ([]dto.TourRequestStats, error) {
	counts, err := s.statsRepo.TourRequestsByDepartment(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dto.TourRequestStats, 0, len(counts))
	for _, c := range counts {
		result = append(result, dto.TourRequestStats{
			DepartmentName: c.DepartmentName,
			TourRequests:   c.TourRequests,
			TotalStudents:  c.TotalStudents,
		})
	}
	return result, nil
}

// Hourly returns per-hour counts over a trailing window of whole days
func (s *StatsService) Hourly(ctx context.Context, days int) ([]dto.HourlyStats, error) {
	since := s.now().Add(-time.Duration(days) * 24 * time.Hour)
	return s.hourlySince(ctx, since)
}

func (s *StatsService) hourlySince(ctx context.Context, since time.Time) ([]dto.HourlyStats, error) {
	counts, err := s.statsRepo.Hourly(ctx, since)
	if err != nil {
		return nil, err
	}

	result := make([]dto.HourlyStats, 0, len(counts))
	for _, c := range counts {
		result = append(result, dto.HourlyStats{Hour: c.Hour, Count: c.Count})
	}
	return result, nil
}

// ByTeacher returns registration totals per registering user
func (s *StatsService) ByTeacher(ctx context.Context) ([]dto.TeacherStats, error) {
	counts, err := s.statsRepo.ByTeacher(ctx, helpers.DayStart(s.now()))
	if err != nil {
		return nil, err
	}
	return teacherStats(counts), nil
}

func teacherStats(counts []repositories.TeacherCount) []dto.TeacherStats {
	result := make([]dto.TeacherStats, 0, len(counts))
	for _, c := range counts {
		result = append(result, dto.TeacherStats{
			UserID:     c.UserID,
			Username:   c.Username,
			Count:      c.Count,
			TodayCount: c.TodayCount,
		})
	}
	return result
}

// Duplicates returns records sharing an email or phone with other records,
// grouped by the shared identifier. Teachers receive an empty list.
func (s *StatsService) Duplicates(ctx context.Context, caller *models.User, limit int) ([]dto.DuplicateRecord, error) {
	if !caller.IsAdmin() {
		return []dto.DuplicateRecord{}, nil
	}

	rows, err := s.statsRepo.ListRows(ctx, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	return duplicateRecords(rows, limit), nil
}

// duplicateRecords groups rows by shared email, then by shared phone. Phone
// group sizes count every sharer; rows already caught by an email group are
// only dropped from the emitted list, so the remaining members still report
// the full shared count. The flattened records are ordered by group size,
// then recency.
func duplicateRecords(rows []repositories.StatsRow, limit int) []dto.DuplicateRecord {
	emailGroups := make(map[string][]repositories.StatsRow)
	for _, row := range rows {
		if row.Email != nil && *row.Email != "" {
			emailGroups[*row.Email] = append(emailGroups[*row.Email], row)
		}
	}

	duplicateEmails := make(map[string]bool)
	for email, group := range emailGroups {
		if len(group) > 1 {
			duplicateEmails[email] = true
		}
	}

	phoneGroups := make(map[string][]repositories.StatsRow)
	for _, row := range rows {
		if row.Phone == nil || *row.Phone == "" {
			continue
		}
		phoneGroups[*row.Phone] = append(phoneGroups[*row.Phone], row)
	}

	var records []dto.DuplicateRecord
	appendGroup := func(group []repositories.StatsRow, duplicateType string, matchCount int) {
		sort.Slice(group, func(i, j int) bool {
			return group[i].CreatedAt.After(group[j].CreatedAt)
		})
		for _, row := range group {
			records = append(records, dto.DuplicateRecord{
				ID:             row.ID,
				FirstName:      row.FirstName,
				LastName:       row.LastName,
				Email:          row.Email,
				Phone:          row.Phone,
				DepartmentName: row.DepartmentName,
				CreatedAt:      row.CreatedAt,
				DuplicateType:  duplicateType,
				MatchCount:     int64(matchCount),
			})
		}
	}

	for _, group := range emailGroups {
		if len(group) > 1 {
			appendGroup(group, "email", len(group))
		}
	}
	for _, group := range phoneGroups {
		if len(group) < 2 {
			continue
		}
		var emitted []repositories.StatsRow
		for _, row := range group {
			if row.Email != nil && duplicateEmails[*row.Email] {
				continue
			}
			emitted = append(emitted, row)
		}
		appendGroup(emitted, "phone", len(group))
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].MatchCount != records[j].MatchCount {
			return records[i].MatchCount > records[j].MatchCount
		}
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	if len(records) > limit {
		records = records[:limit]
	}
	if records == nil {
		records = []dto.DuplicateRecord{}
	}
	return records
}

// Combined returns the full dashboard payload in one response
func (s *StatsService) Combined(ctx context.Context) (*dto.StatsResponse, error) {
	summary, err := s.Summary(ctx)
	if err != nil {
		return nil, err
	}

	quality, err := s.Quality(ctx)
	if err != nil {
		return nil, err
	}

	byDepartment, err := s.ByDepartment(ctx, 10)
	if err != nil {
		return nil, err
	}

	byType, err := s.ByType(ctx)
	if err != nil {
		return nil, err
	}

	tourRequests, err := s.TourRequests(ctx)
	if err != nil {
		return nil, err
	}

	hourly, err := s.hourlySince(ctx, helpers.DayStart(s.now()))
	if err != nil {
		return nil, err
	}

	byTeacher, err := s.ByTeacher(ctx)
	if err != nil {
		return nil, err
	}

	funnel, err := s.Funnel(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		Summary:          *summary,
		DataQuality:      *quality,
		ByDepartment:     byDepartment,
		ByType:           byType,
		TourRequests:     tourRequests,
		Hourly:           hourly,
		ByTeacher:        byTeacher,
		ConversionFunnel: funnel,
	}, nil
}

// Comparison contrasts the requested period (default: the last seven days)
// against an earlier window of the same length, shifted by compare_with
func (s *StatsService) Comparison(ctx context.Context, caller *models.User, startStr, endStr, compareWith string) (*dto.ComparisonResponse, error) {
	offset, ok := comparisonOffsets[compareWith]
	if !ok {
		return nil, apperrors.NewValidationError("compare_with", "must be one of yesterday, last_week, last_month")
	}

	scope := scopeFor(caller)

	currentEnd := helpers.DayEnd(s.now())
	currentStart := helpers.DayStart(currentEnd.AddDate(0, 0, -6))
	if startStr != "" && endStr != "" {
		start, err := time.ParseInLocation("2006-01-02", startStr, helpers.TurkeyTZ)
		if err != nil {
			return nil, apperrors.NewValidationError("start_date", "invalid date format, use YYYY-MM-DD")
		}
		end, err := time.ParseInLocation("2006-01-02", endStr, helpers.TurkeyTZ)
		if err != nil {
			return nil, apperrors.NewValidationError("end_date", "invalid date format, use YYYY-MM-DD")
		}
		currentStart = helpers.DayStart(start)
		currentEnd = helpers.DayEnd(end)
	}
	compareStart := currentStart.AddDate(0, 0, -offset)
	compareEnd := currentEnd.AddDate(0, 0, -offset)

	currentCount, err := s.statsRepo.CountBetween(ctx, currentStart, currentEnd, scope)
	if err != nil {
		return nil, err
	}

	compareCount, err := s.statsRepo.CountBetween(ctx, compareStart, compareEnd, scope)
	if err != nil {
		return nil, err
	}

	return &dto.ComparisonResponse{
		CurrentPeriod: dto.StatsPeriod{
			Start: currentStart.Format("2006-01-02"),
			End:   currentEnd.Format("2006-01-02"),
			Count: currentCount,
		},
		ComparePeriod: dto.StatsPeriod{
			Start: compareStart.Format("2006-01-02"),
			End:   compareEnd.Format("2006-01-02"),
			Count: compareCount,
		},
		Growth: dto.GrowthStats{
			Absolute:   currentCount - compareCount,
			Percentage: growthPercent(currentCount, compareCount),
		},
		CompareWith: compareWith,
	}, nil
}

// Range returns aggregated registration stats for a custom date range
func (s *StatsService) Range(ctx context.Context, caller *models.User, startStr, endStr string) (*dto.RangeStatsResponse, error) {
	startDay, err := time.ParseInLocation("2006-01-02", startStr, helpers.TurkeyTZ)
	if err != nil {
		return nil, apperrors.NewValidationError("start_date", "invalid date format, use YYYY-MM-DD")
	}
	endDay, err := time.ParseInLocation("2006-01-02", endStr, helpers.TurkeyTZ)
	if err != nil {
		return nil, apperrors.NewValidationError("end_date", "invalid date format, use YYYY-MM-DD")
	}
	if startDay.After(endDay) {
		return nil, apperrors.NewValidationError("start_date", "start date must not be after end date")
	}

	start := helpers.DayStart(startDay)
	end := helpers.DayEnd(endDay)

	rows, err := s.statsRepo.ListRows(ctx, &start, &end, scopeFor(caller))
	if err != nil {
		return nil, err
	}

	var tourRequests int64
	departmentIDs := make(map[int64]bool)
	for _, row := range rows {
		if row.WantsTour {
			tourRequests++
		}
		if row.DepartmentID != nil {
			departmentIDs[*row.DepartmentID] = true
		}
	}

	return &dto.RangeStatsResponse{
		Period: dto.RangePeriod{
			Start: startDay.Format("2006-01-02"),
			End:   endDay.Format("2006-01-02"),
			Days:  int(endDay.Sub(startDay).Hours()/24) + 1,
		},
		Summary: dto.RangeSummary{
			TotalStudents:     int64(len(rows)),
			TourRequests:      tourRequests,
			UniqueDepartments: len(departmentIDs),
		},
		ByDepartment: departmentCounts(rows),
		ByType:       typeCounts(rows),
		ByDay:        dayCounts(rows),
		ByHour:       hourCounts(rows),
	}, nil
}

// departmentCounts aggregates rows per department name, ordered descending
func departmentCounts(rows []repositories.StatsRow) []dto.DepartmentStats {
	counts := make(map[string]int64)
	for _, row := range rows {
		name := unspecifiedDepartment
		if row.DepartmentName != nil && *row.DepartmentName != "" {
			name = *row.DepartmentName
		}
		counts[name]++
	}

	result := make([]dto.DepartmentStats, 0, len(counts))
	for name, count := range counts {
		result = append(result, dto.DepartmentStats{DepartmentName: name, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].DepartmentName < result[j].DepartmentName
	})
	return result
}

// typeCounts aggregates rows per exam type, skipping records without one
func typeCounts(rows []repositories.StatsRow) []dto.YksTypeStats {
	counts := make(map[string]int64)
	for _, row := range rows {
		if row.YKSType != nil {
			counts[string(*row.YKSType)]++
		}
	}

	result := make([]dto.YksTypeStats, 0, len(counts))
	for yksType, count := range counts {
		result = append(result, dto.YksTypeStats{YksType: yksType, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].YksType < result[j].YksType
	})
	return result
}

// dayCounts aggregates rows per calendar day, sorted chronologically
func dayCounts(rows []repositories.StatsRow) []dto.DateStats {
	counts := make(map[string]int64)
	for _, row := range rows {
		counts[row.CreatedAt.In(helpers.TurkeyTZ).Format("2006-01-02")]++
	}

	result := make([]dto.DateStats, 0, len(counts))
	for date, count := range counts {
		result = append(result, dto.DateStats{Date: date, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Date < result[j].Date
	})
	return result
}

// hourCounts aggregates rows per hour of day, filling all 24 buckets
func hourCounts(rows []repositories.StatsRow) []dto.HourlyStats {
	var buckets [24]int64
	for _, row := range rows {
		buckets[row.CreatedAt.In(helpers.TurkeyTZ).Hour()]++
	}

	result := make([]dto.HourlyStats, 0, 24)
	for hour, count := range buckets {
		result = append(result, dto.HourlyStats{Hour: hour, Count: count})
	}
	return result
}

// Heatmap returns day-of-week by hour-of-day registration activity
func (s *StatsService) Heatmap(ctx context.Context, caller *models.User, days int) (*dto.HeatmapResponse, error) {
	start := s.now().AddDate(0, 0, -days)

	rows, err := s.statsRepo.ListRows(ctx, &start, nil, scopeFor(caller))
	if err != nil {
		return nil, err
	}

	cells, maxCount := heatmapCells(rows)

	return &dto.HeatmapResponse{
		PeriodDays: days,
		Data:       cells,
		MaxCount:   maxCount,
	}, nil
}

// heatmapCells builds the full 7x24 matrix with Monday as day zero
func heatmapCells(rows []repositories.StatsRow) ([]dto.HeatmapCell, int64) {
	var matrix [7][24]int64
	for _, row := range rows {
		local := row.CreatedAt.In(helpers.TurkeyTZ)
		day := (int(local.Weekday()) + 6) % 7
		matrix[day][local.Hour()]++
	}

	var maxCount int64
	cells := make([]dto.HeatmapCell, 0, 7*24)
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			count := matrix[day][hour]
			if count > maxCount {
				maxCount = count
			}
			cells = append(cells, dto.HeatmapCell{
				DayOfWeek: day,
				DayName:   weekdayNames[day],
				Hour:      hour,
				Count:     count,
			})
		}
	}
	return cells, maxCount
}

// DepartmentTrends returns per-day registration series for the busiest
// departments over a trailing window
func (s *StatsService) DepartmentTrends(ctx context.Context, caller *models.User, days, limit int) (*dto.DepartmentTrendsResponse, error) {
	endDay := helpers.DayStart(s.now())
	startDay := endDay.AddDate(0, 0, -(days - 1))
	end := helpers.DayEnd(endDay)

	rows, err := s.statsRepo.ListRows(ctx, &startDay, &end, scopeFor(caller))
	if err != nil {
		return nil, err
	}

	top, trends := departmentTrends(rows, startDay, endDay, limit)

	return &dto.DepartmentTrendsResponse{
		PeriodDays:     days,
		StartDate:      startDay.Format("2006-01-02"),
		EndDate:        endDay.Format("2006-01-02"),
		TopDepartments: top,
		Trends:         trends,
	}, nil
}

// departmentTrends picks the departments with the highest totals and builds a
// per-day series for each, filling days without registrations with zero
func departmentTrends(rows []repositories.StatsRow, startDay, endDay time.Time, limit int) ([]dto.DepartmentTotal, map[string]dto.TrendSeries) {
	totals := make(map[string]int64)
	daily := make(map[string]map[string]int64)
	for _, row := range rows {
		name := unspecifiedDepartment
		if row.DepartmentName != nil && *row.DepartmentName != "" {
			name = *row.DepartmentName
		}
		totals[name]++
		if daily[name] == nil {
			daily[name] = make(map[string]int64)
		}
		daily[name][row.CreatedAt.In(helpers.TurkeyTZ).Format("2006-01-02")]++
	}

	top := make([]dto.DepartmentTotal, 0, len(totals))
	for name, total := range totals {
		top = append(top, dto.DepartmentTotal{DepartmentName: name, Total: total})
	}
	sort.Slice(top, func(i, j int) bool {
		if top[i].Total != top[j].Total {
			return top[i].Total > top[j].Total
		}
		return top[i].DepartmentName < top[j].DepartmentName
	})
	if len(top) > limit {
		top = top[:limit]
	}

	trends := make(map[string]dto.TrendSeries, len(top))
	for _, dept := range top {
		var series []dto.DateStats
		for day := startDay; !day.After(endDay); day = day.AddDate(0, 0, 1) {
			date := day.Format("2006-01-02")
			series = append(series, dto.DateStats{Date: date, Count: daily[dept.DepartmentName][date]})
		}
		trends[dept.DepartmentName] = dto.TrendSeries{Data: series}
	}

	return top, trends
}

// Day returns the full dashboard payload for a single calendar day.
// The date accepts 2006-01-02 or 02.01.2006 form.
func (s *StatsService) Day(ctx context.Context, caller *models.User, dateStr string) (*dto.StatsResponse, error) {
	day, err := helpers.ParseDate(dateStr)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "invalid date format, use DD.MM.YYYY or YYYY-MM-DD")
	}

	start := helpers.DayStart(day)
	end := helpers.DayEnd(day)
	scope := scopeFor(caller)

	rows, err := s.statsRepo.ListRows(ctx, &start, &end, scope)
	if err != nil {
		return nil, err
	}

	teacherCounts, err := s.statsRepo.ByTeacherBetween(ctx, start, end, scope)
	if err != nil {
		return nil, err
	}

	return dayStats(rows, teacherCounts), nil
}

// dayStats derives the dashboard aggregates from a single day's rows.
// Every record counts as unique within one day, and cross-day duplicate
// metrics are left at zero.
func dayStats(rows []repositories.StatsRow, teacherCounts []repositories.TeacherCount) *dto.StatsResponse {
	total := int64(len(rows))

	var incomplete, tourRequests int64
	departmentIDs := make(map[int64]bool)
	tourByDept := make(map[string]*dto.TourRequestStats)
	for _, row := range rows {
		if row.Email == nil || *row.Email == "" || row.Phone == nil || row.DepartmentID == nil {
			incomplete++
		}
		if row.WantsTour {
			tourRequests++
		}
		if row.DepartmentID != nil {
			departmentIDs[*row.DepartmentID] = true
		}

		name := unspecifiedDepartment
		if row.DepartmentName != nil && *row.DepartmentName != "" {
			name = *row.DepartmentName
		}
		entry := tourByDept[name]
		if entry == nil {
			entry = &dto.TourRequestStats{DepartmentName: name}
			tourByDept[name] = entry
		}
		entry.TotalStudents++
		if row.WantsTour {
			entry.TourRequests++
		}
	}

	tourStats := make([]dto.TourRequestStats, 0, len(tourByDept))
	for _, entry := range tourByDept {
		if entry.TourRequests > 0 {
			tourStats = append(tourStats, *entry)
		}
	}
	sort.Slice(tourStats, func(i, j int) bool {
		if tourStats[i].TourRequests != tourStats[j].TourRequests {
			return tourStats[i].TourRequests > tourStats[j].TourRequests
		}
		return tourStats[i].DepartmentName < tourStats[j].DepartmentName
	})

	return &dto.StatsResponse{
		Summary: dto.StatsSummary{
			TotalStudents:     total,
			UniqueStudents:    total,
			TodayCount:        total,
			TourRequests:      tourRequests,
			UniqueDepartments: int64(len(departmentIDs)),
		},
		DataQuality: dto.DataQualityStats{
			IncompleteRecords: incomplete,
			QualityScore:      qualityScore(total, incomplete),
		},
		ByDepartment: departmentCounts(rows),
		ByType:       typeCounts(rows),
		TourRequests: tourStats,
		Hourly:       dayHourly(rows),
		ByTeacher:    teacherStats(teacherCounts),
	}
}

// dayHourly aggregates rows per hour, listing only hours with activity
func dayHourly(rows []repositories.StatsRow) []dto.HourlyStats {
	counts := make(map[int]int64)
	for _, row := range rows {
		counts[row.CreatedAt.In(helpers.TurkeyTZ).Hour()]++
	}

	result := make([]dto.HourlyStats, 0, len(counts))
	for hour, count := range counts {
		result = append(result, dto.HourlyStats{Hour: hour, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Hour < result[j].Hour
	})
	return result
}
