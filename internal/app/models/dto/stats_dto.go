package dto

import "time"

// StatsSummary carries the headline dashboard counters
type StatsSummary struct {
	TotalStudents     int64 `json:"total_students"`
	UniqueStudents    int64 `json:"unique_students"`
	TodayCount        int64 `json:"today_count"`
	TourRequests      int64 `json:"tour_requests"`
	UniqueDepartments int64 `json:"unique_departments"`
}

// DataQualityStats reports completeness and duplication metrics
type DataQualityStats struct {
	IncompleteRecords int64   `json:"incomplete_records"`
	DuplicateEmails   int64   `json:"duplicate_emails"`
	DuplicatePhones   int64   `json:"duplicate_phones"`
	QualityScore      float64 `json:"quality_score"`
}

// DepartmentStats is a per-department count
type DepartmentStats struct {
	DepartmentName string `json:"department_name"`
	Count          int64  `json:"count"`
}

// YksTypeStats is a per-exam-type count
type YksTypeStats struct {
	YksType string `json:"yks_type"`
	Count   int64  `json:"count"`
}

// TourRequestStats compares tour requests against registrations per department
type TourRequestStats struct {
	DepartmentName string `json:"department_name"`
	TourRequests   int64  `json:"tour_requests"`
	TotalStudents  int64  `json:"total_students"`
}

// HourlyStats is a per-hour-of-day count
type HourlyStats struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// TeacherStats aggregates registrations per creating user
type TeacherStats struct {
	UserID     int64  `json:"user_id"`
	Username   string `json:"username"`
	Count      int64  `json:"count"`
	TodayCount int64  `json:"today_count"`
}

// DuplicateRecord is a student sharing an identifier with other records
type DuplicateRecord struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	DepartmentName *string   `json:"department_name"`
	CreatedAt      time.Time `json:"created_at"`
	DuplicateType  string    `json:"duplicate_type"`
	MatchCount     int64     `json:"match_count"`
}

// ConversionFunnel tracks registration to tour-dispatch progression
type ConversionFunnel struct {
	Registered         int64   `json:"registered"`
	TourRequested      int64   `json:"tour_requested"`
	TourSent           int64   `json:"tour_sent"`
	TourRequestRate    float64 `json:"tour_request_rate"`
	TourCompletionRate float64 `json:"tour_completion_rate"`
}

// StatsResponse is the combined dashboard payload
type StatsResponse struct {
	Summary          StatsSummary       `json:"summary"`
	DataQuality      DataQualityStats   `json:"data_quality"`
	ByDepartment     []DepartmentStats  `json:"by_department"`
	ByType           []YksTypeStats     `json:"by_type"`
	TourRequests     []TourRequestStats `json:"tour_requests"`
	Hourly           []HourlyStats      `json:"hourly"`
	ByTeacher        []TeacherStats     `json:"by_teacher"`
	ConversionFunnel *ConversionFunnel  `json:"conversion_funnel,omitempty"`
}

// StatsPeriod describes a bounded time window
type StatsPeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Count int64  `json:"count"`
}

// GrowthStats is the absolute and relative change between two periods
type GrowthStats struct {
	Absolute   int64   `json:"absolute"`
	Percentage float64 `json:"percentage"`
}

// ComparisonResponse contrasts a period with an earlier one
type ComparisonResponse struct {
	CurrentPeriod StatsPeriod `json:"current_period"`
	ComparePeriod StatsPeriod `json:"compare_period"`
	Growth        GrowthStats `json:"growth"`
	CompareWith   string      `json:"compare_with"`
}

// DateStats is a per-calendar-day count
type DateStats struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// RangePeriod describes the bounds of a range report
type RangePeriod struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// RangeSummary carries the headline counters for a range report
type RangeSummary struct {
	TotalStudents     int64 `json:"total_students"`
	TourRequests      int64 `json:"tour_requests"`
	UniqueDepartments int   `json:"unique_departments"`
}

// RangeStatsResponse is the custom date range report
type RangeStatsResponse struct {
	Period       RangePeriod       `json:"period"`
	Summary      RangeSummary      `json:"summary"`
	ByDepartment []DepartmentStats `json:"by_department"`
	ByType       []YksTypeStats    `json:"by_type"`
	ByDay        []DateStats       `json:"by_day"`
	ByHour       []HourlyStats     `json:"by_hour"`
}

// HeatmapCell is one day-of-week x hour-of-day bucket
type HeatmapCell struct {
	DayOfWeek int    `json:"day_of_week"`
	DayName   string `json:"day_name"`
	Hour      int    `json:"hour"`
	Count     int64  `json:"count"`
}

// HeatmapResponse is the weekly activity matrix
type HeatmapResponse struct {
	PeriodDays int           `json:"period_days"`
	Data       []HeatmapCell `json:"data"`
	MaxCount   int64         `json:"max_count"`
}

// DepartmentTotal pairs a department with its range total
type DepartmentTotal struct {
	DepartmentName string `json:"department_name"`
	Total          int64  `json:"total"`
}

// TrendSeries is a department's per-day counts over the range
type TrendSeries struct {
	Data []DateStats `json:"data"`
}

// DepartmentTrendsResponse tracks top departments over time
type DepartmentTrendsResponse struct {
	PeriodDays     int                    `json:"period_days"`
	StartDate      string                 `json:"start_date"`
	EndDate        string                 `json:"end_date"`
	TopDepartments []DepartmentTotal      `json:"top_departments"`
	Trends         map[string]TrendSeries `json:"trends"`
}
