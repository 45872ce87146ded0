package dto

import (
	"time"

	"github.com/Saewt/university-visitor-system/internal/app/models"
)

// CreateStudentRequest represents student registration data
type CreateStudentRequest struct {
	FirstName    string   `json:"first_name" binding:"required"`
	LastName     string   `json:"last_name" binding:"required"`
	Email        *string  `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string  `json:"phone,omitempty"`
	HighSchool   *string  `json:"high_school,omitempty"`
	Ranking      *int64   `json:"ranking,omitempty" binding:"omitempty,min=1"`
	YKSScore     *float64 `json:"yks_score,omitempty" binding:"omitempty,min=0,max=600"`
	YKSType      *string  `json:"yks_type,omitempty" binding:"omitempty,oneof=SAYISAL SOZEL EA DIL"`
	DepartmentID *int64   `json:"department_id,omitempty" binding:"omitempty,min=1"`
	WantsTour    bool     `json:"wants_tour"`
}

// UpdateStudentRequest represents a partial student update.
// Only provided fields are changed.
type UpdateStudentRequest struct {
	FirstName    *string  `json:"first_name,omitempty" binding:"omitempty,min=1"`
	LastName     *string  `json:"last_name,omitempty" binding:"omitempty,min=1"`
	Email        *string  `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string  `json:"phone,omitempty"`
	HighSchool   *string  `json:"high_school,omitempty"`
	Ranking      *int64   `json:"ranking,omitempty" binding:"omitempty,min=1"`
	YKSScore     *float64 `json:"yks_score,omitempty" binding:"omitempty,min=0,max=600"`
	YKSType      *string  `json:"yks_type,omitempty" binding:"omitempty,oneof=SAYISAL SOZEL EA DIL"`
	DepartmentID *int64   `json:"department_id,omitempty" binding:"omitempty,min=1"`
	WantsTour    *bool    `json:"wants_tour,omitempty"`
}

// StudentResponse represents a full student record
type StudentResponse struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          *string   `json:"email"`
	Phone          *string   `json:"phone"`
	HighSchool     *string   `json:"high_school"`
	Ranking        *int64    `json:"ranking"`
	YKSScore       *float64  `json:"yks_score"`
	YKSType        *string   `json:"yks_type"`
	DepartmentID   *int64    `json:"department_id"`
	DepartmentName *string   `json:"department_name,omitempty"`
	WantsTour      bool      `json:"wants_tour"`
	TourSent       bool      `json:"tour_sent"`
	CreatedByID    *int64    `json:"created_by_user_id"`
	CreatedByName  *string   `json:"created_by_username,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// StudentListResponse is a paginated student listing
type StudentListResponse struct {
	Data  []StudentResponse `json:"data"`
	Total int64             `json:"total"`
	Skip  int               `json:"skip"`
	Limit int               `json:"limit"`
}

// DuplicateMatch is a single record matching a duplicate probe
type DuplicateMatch struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Department *string `json:"department"`
	CreatedAt  string  `json:"created_at"`
}

// DuplicateCheckResponse reports existing records sharing an email or phone
type DuplicateCheckResponse struct {
	HasDuplicates bool             `json:"has_duplicates"`
	Count         int              `json:"count"`
	Duplicates    []DuplicateMatch `json:"duplicates"`
}

// HistoryDateResponse is a registration date with its record count
type HistoryDateResponse struct {
	Date    string `json:"date"`
	DateISO string `json:"date_iso"`
	Count   int64  `json:"count"`
}

// NewStudentResponse maps a student model to its API representation
func NewStudentResponse(student *models.Student) StudentResponse {
	var yksType *string
	if student.YKSType != nil {
		t := string(*student.YKSType)
		yksType = &t
	}

	return StudentResponse{
		ID:             student.ID,
		FirstName:      student.FirstName,
		LastName:       student.LastName,
		Email:          student.Email,
		Phone:          student.Phone,
		HighSchool:     student.HighSchool,
		Ranking:        student.Ranking,
		YKSScore:       student.YKSScore,
		YKSType:        yksType,
		DepartmentID:   student.DepartmentID,
		DepartmentName: student.DepartmentName,
		WantsTour:      student.WantsTour,
		TourSent:       student.TourSent,
		CreatedByID:    student.CreatedByID,
		CreatedByName:  student.CreatedByName,
		CreatedAt:      student.CreatedAt,
		UpdatedAt:      student.UpdatedAt,
	}
}

// NewStudentListResponse maps a page of student models
func NewStudentListResponse(students []*models.Student, total int64, skip, limit int) StudentListResponse {
	data := make([]StudentResponse, 0, len(students))
	for _, s := range students {
		data = append(data, NewStudentResponse(s))
	}

	return StudentListResponse{
		Data:  data,
		Total: total,
		Skip:  skip,
		Limit: limit,
	}
}
