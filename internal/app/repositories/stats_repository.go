package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saewt/university-visitor-system/internal/app/models"
)

// DepartmentCount is a per-department registration count
type DepartmentCount struct {
	DepartmentName string
	Count          int64
}

// TypeCount is a per-exam-type registration count
type TypeCount struct {
	YKSType string
	Count   int64
}

// HourCount is a per-hour-of-day registration count
type HourCount struct {
	Hour  int
	Count int64
}

// TeacherCount aggregates registrations per creating user
type TeacherCount struct {
	UserID     int64
	Username   string
	Count      int64
	TodayCount int64
}

// TourDepartmentCount pairs a department's tour requests with its total registrations
type TourDepartmentCount struct {
	DepartmentName string
	TourRequests   int64
	TotalStudents  int64
}

// IdentityCounts carries the components of the unique-visitor heuristic
type IdentityCounts struct {
	DistinctEmails     int64
	DistinctPhonesOnly int64
	NoIdentifier       int64
}

// StatsRow is a minimal student projection for in-memory aggregation
type StatsRow struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          *string
	Phone          *string
	YKSType        *models.YKSType
	DepartmentID   *int64
	DepartmentName *string
	WantsTour      bool
	TourSent       bool
	CreatedByID    *int64
	CreatedAt      time.Time
}

// StatsRepository runs aggregation queries over the student records
type StatsRepository struct {
	db *pgxpool.Pool
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{
		db: db,
	}
}

// CountAll returns the total number of student records
func (r *StatsRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students: %w", err)
	}
	return count, nil
}

// CountSince returns the number of records created at or after the given time
func (r *StatsRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE created_at >= $1`, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting recent students: %w", err)
	}
	return count, nil
}

// CountBetween returns the number of records in [start, end],
// optionally restricted to a creating user
func (r *StatsRepository) CountBetween(ctx context.Context, start, end time.Time, createdByID *int64) (int64, error) {
	query := `SELECT COUNT(*) FROM students WHERE created_at >= $1 AND created_at <= $2`
	args := []interface{}{start, end}

	if createdByID != nil {
		query += ` AND created_by_user_id = $3`
		args = append(args, *createdByID)
	}

	var count int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting students in range: %w", err)
	}
	return count, nil
}

// CountWantsTour returns the number of records with a tour request
func (r *StatsRepository) CountWantsTour(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE wants_tour = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting tour requests: %w", err)
	}
	return count, nil
}

// CountTourSent returns the number of records already notified
func (r *StatsRepository) CountTourSent(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE tour_sent = TRUE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting sent tours: %w", err)
	}
	return count, nil
}

// CountDistinctDepartments returns the number of distinct department references
func (r *StatsRepository) CountDistinctDepartments(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT department_id) FROM students`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting distinct departments: %w", err)
	}
	return count, nil
}

// IdentityCounts returns the tiered identity components of the unique-visitor
// heuristic. Records with an email count by distinct email; records with only
// a phone count by distinct phone; records with neither each count as one.
func (r *StatsRepository) IdentityCounts(ctx context.Context) (IdentityCounts, error) {
	var c IdentityCounts
	query := `
		SELECT
			COUNT(DISTINCT email) FILTER (WHERE email IS NOT NULL AND email != ''),
			COUNT(DISTINCT phone) FILTER (WHERE phone IS NOT NULL AND phone != ''
				AND (email IS NULL OR email = '')),
			COUNT(*) FILTER (WHERE (email IS NULL OR email = '')
				AND (phone IS NULL OR phone = ''))
		FROM students
	`
	err := r.db.QueryRow(ctx, query).Scan(&c.DistinctEmails, &c.DistinctPhonesOnly, &c.NoIdentifier)
	if err != nil {
		return IdentityCounts{}, fmt.Errorf("error computing identity counts: %w", err)
	}
	return c, nil
}

// CountIncomplete returns records missing email, phone, or department
func (r *StatsRepository) CountIncomplete(ctx context.Context) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*)
		FROM students
		WHERE email IS NULL OR email = ''
			OR phone IS NULL
			OR department_id IS NULL
	`
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting incomplete records: %w", err)
	}
	return count, nil
}

// CountDuplicateEmails returns the number of distinct email values on two or more records
func (r *StatsRepository) CountDuplicateEmails(ctx context.Context) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM (
			SELECT email
			FROM students
			WHERE email IS NOT NULL AND email != ''
			GROUP BY email
			HAVING COUNT(*) > 1
		) dup
	`
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting duplicate emails: %w", err)
	}
	return count, nil
}

// CountDuplicatePhones returns the number of distinct phone values on two or more records
func (r *StatsRepository) CountDuplicatePhones(ctx context.Context) (int64, error) {
	var count int64
	query := `
		SELECT COUNT(*) FROM (
			SELECT phone
			FROM students
			WHERE phone IS NOT NULL AND phone != ''
			GROUP BY phone
			HAVING COUNT(*) > 1
		) dup
	`
	if err := r.db.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting duplicate phones: %w", err)
	}
	return count, nil
}

// ByDepartment returns per-department counts ordered descending
func (r *StatsRepository) ByDepartment(ctx context.Context, limit int) ([]DepartmentCount, error) {
	query := `
		SELECT d.name, COUNT(s.id) AS count
		FROM departments d
		LEFT JOIN students s ON s.department_id = d.id
		GROUP BY d.id, d.name
		ORDER BY count DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by department: %w", err)
	}
	defer rows.Close()

	var results []DepartmentCount
	for rows.Next() {
		var d DepartmentCount
		if err := rows.Scan(&d.DepartmentName, &d.Count); err != nil {
			return nil, err
		}
		results = append(results, d)
	}

	return results, rows.Err()
}

// ByYKSType returns per-exam-type counts, excluding records without a type
func (r *StatsRepository) ByYKSType(ctx context.Context) ([]TypeCount, error) {
	query := `
		SELECT yks_type, COUNT(*) AS count
		FROM students
		WHERE yks_type IS NOT NULL
		GROUP BY yks_type
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by exam type: %w", err)
	}
	defer rows.Close()

	var results []TypeCount
	for rows.Next() {
		var t TypeCount
		if err := rows.Scan(&t.YKSType, &t.Count); err != nil {
			return nil, err
		}
		results = append(results, t)
	}

	return results, rows.Err()
}

// TourRequestsByDepartment returns tour request counts per department
// alongside each department's total registrations
func (r *StatsRepository) TourRequestsByDepartment(ctx context.Context) ([]TourDepartmentCount, error) {
	query := `
		SELECT d.name,
			COUNT(s.id) FILTER (WHERE s.wants_tour = TRUE) AS tour_requests,
			COUNT(s.id) AS total_students
		FROM departments d
		LEFT JOIN students s ON s.department_id = d.id
		GROUP BY d.id, d.name
		HAVING COUNT(s.id) FILTER (WHERE s.wants_tour = TRUE) > 0
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error aggregating tour requests: %w", err)
	}
	defer rows.Close()

	var results []TourDepartmentCount
	for rows.Next() {
		var t TourDepartmentCount
		if err := rows.Scan(&t.DepartmentName, &t.TourRequests, &t.TotalStudents); err != nil {
			return nil, err
		}
		results = append(results, t)
	}

	return results, rows.Err()
}

// Hourly returns per-hour-of-day counts for records created at or after since.
// Hours are extracted in the fixed UTC+3 offset.
func (r *StatsRepository) Hourly(ctx context.Context, since time.Time) ([]HourCount, error) {
	query := `
		SELECT EXTRACT(HOUR FROM created_at AT TIME ZONE INTERVAL '+03:00')::int AS hour,
			COUNT(*) AS count
		FROM students
		WHERE created_at >= $1
		GROUP BY hour
		ORDER BY hour
	`

	rows, err := r.db.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("error aggregating hourly: %w", err)
	}
	defer rows.Close()

	var results []HourCount
	for rows.Next() {
		var h HourCount
		if err := rows.Scan(&h.Hour, &h.Count); err != nil {
			return nil, err
		}
		results = append(results, h)
	}

	return results, rows.Err()
}

// ByTeacher returns registration totals per creating user, ordered descending,
// with a separate count of records created at or after todayStart
func (r *StatsRepository) ByTeacher(ctx context.Context, todayStart time.Time) ([]TeacherCount, error) {
	query := `
		SELECT u.id, u.username,
			COUNT(s.id) AS count,
			COUNT(s.id) FILTER (WHERE s.created_at >= $1) AS today_count
		FROM users u
		LEFT JOIN students s ON s.created_by_user_id = u.id
		WHERE u.role IN ('teacher', 'admin')
		GROUP BY u.id, u.username
		ORDER BY count DESC
	`

	rows, err := r.db.Query(ctx, query, todayStart)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by teacher: %w", err)
	}
	defer rows.Close()

	var results []TeacherCount
	for rows.Next() {
		var t TeacherCount
		if err := rows.Scan(&t.UserID, &t.Username, &t.Count, &t.TodayCount); err != nil {
			return nil, err
		}
		results = append(results, t)
	}

	return results, rows.Err()
}

// ByTeacherBetween returns registration counts per creating user limited to
// records in [start, end], optionally restricted to a single user. Users
// without registrations in the range are omitted.
func (r *StatsRepository) ByTeacherBetween(ctx context.Context, start, end time.Time, userID *int64) ([]TeacherCount, error) {
	query := `
		SELECT u.id, u.username,
			COUNT(s.id) FILTER (WHERE s.created_at >= $1 AND s.created_at <= $2) AS count
		FROM users u
		LEFT JOIN students s ON s.created_by_user_id = u.id
		WHERE u.role IN ('teacher', 'admin')
	`
	args := []interface{}{start, end}
	if userID != nil {
		args = append(args, *userID)
		query += fmt.Sprintf(" AND u.id = $%d", len(args))
	}
	query += `
		GROUP BY u.id, u.username
		HAVING COUNT(s.id) FILTER (WHERE s.created_at >= $1 AND s.created_at <= $2) > 0
		ORDER BY count DESC
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error aggregating by teacher in range: %w", err)
	}
	defer rows.Close()

	var results []TeacherCount
	for rows.Next() {
		var t TeacherCount
		if err := rows.Scan(&t.UserID, &t.Username, &t.Count); err != nil {
			return nil, err
		}
		t.TodayCount = t.Count
		results = append(results, t)
	}

	return results, rows.Err()
}

// ListRows returns minimal student projections for in-memory aggregation,
// optionally bounded by a creation time range and creating user
func (r *StatsRepository) ListRows(ctx context.Context, start, end *time.Time, createdByID *int64) ([]StatsRow, error) {
	query := `
		SELECT s.id, s.first_name, s.last_name, s.email, s.phone, s.yks_type,
			s.department_id, d.name, s.wants_tour, s.tour_sent, s.created_by_user_id, s.created_at
		FROM students s
		LEFT JOIN departments d ON d.id = s.department_id
	`

	var clauses []string
	var args []interface{}
	if start != nil {
		args = append(args, *start)
		clauses = append(clauses, fmt.Sprintf("s.created_at >= $%d", len(args)))
	}
	if end != nil {
		args = append(args, *end)
		clauses = append(clauses, fmt.Sprintf("s.created_at <= $%d", len(args)))
	}
	if createdByID != nil {
		args = append(args, *createdByID)
		clauses = append(clauses, fmt.Sprintf("s.created_by_user_id = $%d", len(args)))
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += " ORDER BY s.created_at"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing stats rows: %w", err)
	}
	defer rows.Close()

	var results []StatsRow
	for rows.Next() {
		var row StatsRow
		if err := rows.Scan(
			&row.ID,
			&row.FirstName,
			&row.LastName,
			&row.Email,
			&row.Phone,
			&row.YKSType,
			&row.DepartmentID,
			&row.DepartmentName,
			&row.WantsTour,
			&row.TourSent,
			&row.CreatedByID,
			&row.CreatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, row)
	}

	return results, rows.Err()
}
