package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
)

// studentSortColumns maps API sort keys to SQL expressions
var studentSortColumns = map[string]string{
	"created_at":      "s.created_at",
	"ranking":         "s.ranking",
	"first_name":      "s.first_name",
	"last_name":       "s.last_name",
	"yks_score":       "s.yks_score",
	"yks_type":        "s.yks_type",
	"wants_tour":      "s.wants_tour",
	"department_name": "d.name",
}

// StudentFilter narrows student list queries
type StudentFilter struct {
	DepartmentID    *int64
	YKSType         *models.YKSType
	WantsTour       *bool
	Search          string
	TeacherUsername string
	CreatedByID     *int64
	StartDate       *time.Time
	EndDate         *time.Time
	SortBy          string
	SortOrder       string
	Skip            int
	Limit           int
}

// DateCount is a per-day registration count
type DateCount struct {
	Date  time.Time
	Count int64
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
	}
}

const studentSelectColumns = `
	s.id, s.first_name, s.last_name, s.email, s.phone, s.high_school,
	s.ranking, s.yks_score, s.yks_type, s.department_id, s.wants_tour,
	s.tour_sent, s.created_by_user_id, s.created_at, s.updated_at,
	d.name AS department_name, u.username AS created_by_username`

func scanStudent(row pgx.Row) (*models.Student, error) {
	var student models.Student
	err := row.Scan(
		&student.ID,
		&student.FirstName,
		&student.LastName,
		&student.Email,
		&student.Phone,
		&student.HighSchool,
		&student.Ranking,
		&student.YKSScore,
		&student.YKSType,
		&student.DepartmentID,
		&student.WantsTour,
		&student.TourSent,
		&student.CreatedByID,
		&student.CreatedAt,
		&student.UpdatedAt,
		&student.DepartmentName,
		&student.CreatedByName,
	)
	if err != nil {
		return nil, err
	}
	return &student, nil
}

// Create creates a new student record
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	query := `
		INSERT INTO students (
			first_name, last_name, email, phone, high_school,
			ranking, yks_score, yks_type, department_id, wants_tour, created_by_user_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, tour_sent, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Phone,
		student.HighSchool,
		student.Ranking,
		student.YKSScore,
		student.YKSType,
		student.DepartmentID,
		student.WantsTour,
		student.CreatedByID,
	).Scan(&student.ID, &student.TourSent, &student.CreatedAt, &student.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student with its joined display fields
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := `
		SELECT ` + studentSelectColumns + `
		FROM students s
		LEFT JOIN departments d ON d.id = s.department_id
		LEFT JOIN users u ON u.id = s.created_by_user_id
		WHERE s.id = $1
	`

	student, err := scanStudent(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	return student, nil
}

// buildFilterClauses renders the WHERE conditions for a filter.
// Returns the clauses and the bound arguments.
func buildFilterClauses(filter StudentFilter) ([]string, []interface{}) {
	var clauses []string
	var args []interface{}

	next := func() int { return len(args) + 1 }

	if filter.DepartmentID != nil {
		clauses = append(clauses, fmt.Sprintf("s.department_id = $%d", next()))
		args = append(args, *filter.DepartmentID)
	}
	if filter.YKSType != nil {
		clauses = append(clauses, fmt.Sprintf("s.yks_type = $%d", next()))
		args = append(args, *filter.YKSType)
	}
	if filter.WantsTour != nil {
		clauses = append(clauses, fmt.Sprintf("s.wants_tour = $%d", next()))
		args = append(args, *filter.WantsTour)
	}
	if filter.TeacherUsername != "" {
		clauses = append(clauses, fmt.Sprintf("u.username = $%d", next()))
		args = append(args, filter.TeacherUsername)
	}
	if filter.CreatedByID != nil {
		clauses = append(clauses, fmt.Sprintf("s.created_by_user_id = $%d", next()))
		args = append(args, *filter.CreatedByID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		clauses = append(clauses, fmt.Sprintf(
			"(s.first_name ILIKE $%d OR s.last_name ILIKE $%d OR s.email ILIKE $%d OR s.phone ILIKE $%d)",
			next(), next(), next(), next()))
		args = append(args, pattern)
	}
	if filter.StartDate != nil {
		clauses = append(clauses, fmt.Sprintf("s.created_at >= $%d", next()))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		clauses = append(clauses, fmt.Sprintf("s.created_at <= $%d", next()))
		args = append(args, *filter.EndDate)
	}

	return clauses, args
}

// List retrieves students matching the filter along with the unpaginated total
func (r *StudentRepository) List(ctx context.Context, filter StudentFilter) ([]*models.Student, int64, error) {
	clauses, args := buildFilterClauses(filter)

	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	countQuery := `
		SELECT COUNT(*)
		FROM students s
		LEFT JOIN departments d ON d.id = s.department_id
		LEFT JOIN users u ON u.id = s.created_by_user_id` + where

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sortColumn, ok := studentSortColumns[filter.SortBy]
	if !ok {
		sortColumn = "s.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	query := `
		SELECT ` + studentSelectColumns + `
		FROM students s
		LEFT JOIN departments d ON d.id = s.department_id
		LEFT JOIN users u ON u.id = s.created_by_user_id` + where +
		fmt.Sprintf(" ORDER BY %s %s NULLS LAST OFFSET $%d LIMIT $%d",
			sortColumn, direction, len(args)+1, len(args)+2)
	args = append(args, filter.Skip, filter.Limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

// Update updates an existing student record
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	query := `
		UPDATE students
		SET first_name = $1, last_name = $2, email = $3, phone = $4, high_school = $5,
			ranking = $6, yks_score = $7, yks_type = $8, department_id = $9,
			wants_tour = $10, tour_sent = $11, updated_at = $12
		WHERE id = $13
	`

	now := time.Now()
	cmdTag, err := r.db.Exec(ctx, query,
		student.FirstName,
		student.LastName,
		student.Email,
		student.Phone,
		student.HighSchool,
		student.Ranking,
		student.YKSScore,
		student.YKSType,
		student.DepartmentID,
		student.WantsTour,
		student.TourSent,
		now,
		student.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	student.UpdatedAt = now
	return nil
}

// MarkTourSent flags that a tour notification dispatch was attempted
func (r *StudentRepository) MarkTourSent(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE students SET tour_sent = TRUE, updated_at = $1 WHERE id = $2`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("error marking tour sent: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// Delete deletes a student by ID
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting student: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}

	return nil
}

// FindByEmailOrPhone returns the most recent records matching either identifier
func (r *StudentRepository) FindByEmailOrPhone(ctx context.Context, email, phone string, limit int) ([]*models.Student, error) {
	var clauses []string
	var args []interface{}

	if email != "" {
		args = append(args, email)
		clauses = append(clauses, fmt.Sprintf("s.email = $%d", len(args)))
	}
	if phone != "" {
		args = append(args, phone)
		clauses = append(clauses, fmt.Sprintf("s.phone = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return nil, apperrors.ErrBadRequest
	}

	args = append(args, limit)
	query := `
		SELECT ` + studentSelectColumns + `
		FROM students s
		LEFT JOIN departments d ON d.id = s.department_id
		LEFT JOIN users u ON u.id = s.created_by_user_id
		WHERE ` + strings.Join(clauses, " OR ") + `
		ORDER BY s.created_at DESC
		LIMIT $` + fmt.Sprint(len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error searching students: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return students, nil
}

// ListForExport returns all records matching the filters, newest first
func (r *StudentRepository) ListForExport(ctx context.Context, start, end *time.Time, departmentID *int64) ([]*models.Student, error) {
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
	if departmentID != nil {
		args = append(args, *departmentID)
		clauses = append(clauses, fmt.Sprintf("s.department_id = $%d", len(args)))
	}

	query := `
		SELECT ` + studentSelectColumns + `
		FROM students s
		LEFT JOIN departments d ON d.id = s.department_id
		LEFT JOIN users u ON u.id = s.created_by_user_id
	`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY s.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing students for export: %w", err)
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

// CountByDepartment returns the number of students referencing a department
func (r *StudentRepository) CountByDepartment(ctx context.Context, departmentID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE department_id = $1`, departmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students by department: %w", err)
	}

	return count, nil
}

// CountByCreator returns the number of students registered by a user
func (r *StudentRepository) CountByCreator(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE created_by_user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students by creator: %w", err)
	}

	return count, nil
}

// HistoryDates returns per-day registration counts, newest day first.
// Day boundaries follow the fixed UTC+3 offset. When createdByID is set
// the counts cover only that user's registrations.
func (r *StudentRepository) HistoryDates(ctx context.Context, createdByID *int64) ([]DateCount, error) {
	query := `
		SELECT DATE(s.created_at AT TIME ZONE INTERVAL '+03:00') AS day, COUNT(*) AS count
		FROM students s
	`
	var args []interface{}

	if createdByID != nil {
		query += ` WHERE s.created_by_user_id = $1`
		args = append(args, *createdByID)
	}

	query += `
		GROUP BY day
		ORDER BY day DESC
	`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing history dates: %w", err)
	}
	defer rows.Close()

	var dates []DateCount
	for rows.Next() {
		var d DateCount
		if err := rows.Scan(&d.Date, &d.Count); err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return dates, nil
}
