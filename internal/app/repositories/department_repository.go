package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
	"github.com/Saewt/university-visitor-system/internal/pkg/dberrors"
)

// DepartmentWithCount pairs a department with its registered-student count
type DepartmentWithCount struct {
	Department   models.Department
	StudentCount int64
}

// DepartmentRepository handles database operations for departments
type DepartmentRepository struct {
	db *pgxpool.Pool
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *pgxpool.Pool) *DepartmentRepository {
	return &DepartmentRepository{
		db: db,
	}
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department *models.Department) error {
	query := `
		INSERT INTO departments (name, telegram_chat_id, active)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, department.Name, department.TelegramChatID, department.Active).
		Scan(&department.ID, &department.CreatedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error creating department: %w", err)
	}

	return nil
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id int64) (*models.Department, error) {
	query := `
		SELECT id, name, telegram_chat_id, active, created_at
		FROM departments
		WHERE id = $1
	`

	var department models.Department
	err := r.db.QueryRow(ctx, query, id).Scan(
		&department.ID,
		&department.Name,
		&department.TelegramChatID,
		&department.Active,
		&department.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}

	return &department, nil
}

// GetActive retrieves all active departments ordered by name
func (r *DepartmentRepository) GetActive(ctx context.Context) ([]*models.Department, error) {
	query := `
		SELECT id, name, telegram_chat_id, active, created_at
		FROM departments
		WHERE active = TRUE
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var departments []*models.Department
	for rows.Next() {
		var department models.Department
		if err := rows.Scan(
			&department.ID,
			&department.Name,
			&department.TelegramChatID,
			&department.Active,
			&department.CreatedAt,
		); err != nil {
			return nil, err
		}
		departments = append(departments, &department)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// GetAllWithCounts retrieves departments with student counts, newest first
func (r *DepartmentRepository) GetAllWithCounts(ctx context.Context, activeOnly bool) ([]DepartmentWithCount, error) {
	query := `
		SELECT d.id, d.name, d.telegram_chat_id, d.active, d.created_at, COUNT(s.id) AS student_count
		FROM departments d
		LEFT JOIN students s ON s.department_id = d.id
	`

	if activeOnly {
		query += ` WHERE d.active = TRUE`
	}

	query += `
		GROUP BY d.id
		ORDER BY d.id DESC
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing departments: %w", err)
	}
	defer rows.Close()

	var departments []DepartmentWithCount
	for rows.Next() {
		var d DepartmentWithCount
		if err := rows.Scan(
			&d.Department.ID,
			&d.Department.Name,
			&d.Department.TelegramChatID,
			&d.Department.Active,
			&d.Department.CreatedAt,
			&d.StudentCount,
		); err != nil {
			return nil, err
		}
		departments = append(departments, d)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return departments, nil
}

// NameExistsExcept checks if a department name is used by any department other than excludeID
func (r *DepartmentRepository) NameExistsExcept(ctx context.Context, name string, excludeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM departments WHERE name = $1 AND id != $2)`,
		name, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking department existence: %w", err)
	}

	return exists, nil
}

// Update updates an existing department
func (r *DepartmentRepository) Update(ctx context.Context, department *models.Department) error {
	query := `
		UPDATE departments
		SET name = $1, telegram_chat_id = $2, active = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		department.Name, department.TelegramChatID, department.Active, department.ID)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrDepartmentAlreadyExists
		}
		return fmt.Errorf("error updating department: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}

// Delete deletes a department by ID
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting department: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrDepartmentNotFound
	}

	return nil
}
