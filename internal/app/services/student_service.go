package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/models/dto"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
	"github.com/Saewt/university-visitor-system/internal/pkg/events"
	"github.com/Saewt/university-visitor-system/internal/pkg/helpers"
	"github.com/Saewt/university-visitor-system/internal/pkg/telegram"
)

// notifyTimeout bounds a single outbound notification attempt
const notifyTimeout = 15 * time.Second

// StudentService handles visitor registration operations
type StudentService struct {
	studentRepo *repositories.StudentRepository
	deptRepo    *repositories.DepartmentRepository
	hub         *events.Hub
	notifier    *telegram.Client
	logger      zerolog.Logger
}

// NewStudentService creates a new student service instance
func NewStudentService(
	studentRepo *repositories.StudentRepository,
	deptRepo *repositories.DepartmentRepository,
	hub *events.Hub,
	notifier *telegram.Client,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{
		studentRepo: studentRepo,
		deptRepo:    deptRepo,
		hub:         hub,
		notifier:    notifier,
		logger:      logger,
	}
}

// eventPayload is the student projection carried on broadcast events
type eventPayload struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	WantsTour    bool   `json:"wants_tour"`
}

func (s *StudentService) broadcast(eventType string, student *models.Student) {
	s.hub.Broadcast(events.Event{
		Type: eventType,
		Payload: eventPayload{
			ID:           student.ID,
			FirstName:    student.FirstName,
			LastName:     student.LastName,
			DepartmentID: student.DepartmentID,
			WantsTour:    student.WantsTour,
		},
		Timestamp: helpers.TurkeyNow(),
	})
}

// requireAccess loads a student and checks the caller may act on it.
// Admins can access any record, teachers only their own.
func (s *StudentService) requireAccess(ctx context.Context, studentID int64, caller *models.User) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() && (student.CreatedByID == nil || *student.CreatedByID != caller.ID) {
		return nil, apperrors.ErrPermissionDenied
	}

	return student, nil
}

// dispatchTourNotification marks the record as notified and fires the
// Telegram message in the background. The flag is set on the dispatch
// attempt, not on delivery, so a failed send is never retried.
func (s *StudentService) dispatchTourNotification(ctx context.Context, student *models.Student, department *models.Department) {
	if department == nil || department.TelegramChatID == nil || *department.TelegramChatID == "" {
		s.logger.Debug().Int64("studentID", student.ID).Msg("Tour notification skipped: no chat target")
		return
	}

	if err := s.studentRepo.MarkTourSent(ctx, student.ID); err != nil {
		s.logger.Error().Err(err).Int64("studentID", student.ID).Msg("Failed to mark tour notification")
		return
	}
	student.TourSent = true

	notified := *student
	dept := *department
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if !s.notifier.NotifyTourRequest(sendCtx, &notified, &dept) {
			s.logger.Warn().Int64("studentID", notified.ID).Msg("Tour notification delivery failed")
		}
	}()
}

// validateStudentFields checks the numeric registration bounds. The binding
// tags enforce the same limits on the HTTP path; this guards every other
// caller.
func validateStudentFields(score *float64, ranking *int64) error {
	if score != nil && (*score < models.YKSScoreMin || *score > models.YKSScoreMax) {
		return apperrors.NewValidationError("yks_score", fmt.Sprintf("must be between %g and %g", models.YKSScoreMin, models.YKSScoreMax))
	}
	if ranking != nil && *ranking < models.RankingMin {
		return apperrors.NewValidationError("ranking", fmt.Sprintf("must be at least %d", models.RankingMin))
	}
	return nil
}

// Create registers a new student and broadcasts a student_created event.
// A tour notification is dispatched when the visitor wants a tour and the
// department has a chat target configured.
func (s *StudentService) Create(ctx context.Context, caller *models.User, req dto.CreateStudentRequest) (*models.Student, error) {
	var department *models.Department
	if req.DepartmentID != nil {
		var err error
		department, err = s.deptRepo.GetByID(ctx, *req.DepartmentID)
		if err != nil {
			return nil, err
		}
	}

	var yksType *models.YKSType
	if req.YKSType != nil {
		t := models.YKSType(*req.YKSType)
		if !t.IsValid() {
			return nil, apperrors.NewValidationError("yks_type", "unknown exam type")
		}
		yksType = &t
	}

	if err := validateStudentFields(req.YKSScore, req.Ranking); err != nil {
		return nil, err
	}

	student := &models.Student{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		HighSchool:   req.HighSchool,
		Ranking:      req.Ranking,
		YKSScore:     req.YKSScore,
		YKSType:      yksType,
		DepartmentID: req.DepartmentID,
		WantsTour:    req.WantsTour,
		CreatedByID:  &caller.ID,
	}

	if err := s.studentRepo.Create(ctx, student); err != nil {
		return nil, err
	}

	if department != nil {
		student.DepartmentName = &department.Name
	}
	student.CreatedByName = &caller.Username

	if student.WantsTour && student.DepartmentID != nil {
		s.dispatchTourNotification(ctx, student, department)
	}

	s.broadcast("student_created", student)

	return student, nil
}

// Get returns a student the caller is allowed to see
func (s *StudentService) Get(ctx context.Context, caller *models.User, id int64) (*models.Student, error) {
	return s.requireAccess(ctx, id, caller)
}

// List returns students matching the filter. Filtering by teacher is
// restricted to admins.
func (s *StudentService) List(ctx context.Context, caller *models.User, filter repositories.StudentFilter) ([]*models.Student, int64, error) {
	if filter.TeacherUsername != "" && !caller.IsAdmin() {
		return nil, 0, apperrors.ErrPermissionDenied
	}

	return s.studentRepo.List(ctx, filter)
}

// Update applies a partial update to a student the caller may act on.
// A newly requested tour triggers a notification when one was never sent.
func (s *StudentService) Update(ctx context.Context, caller *models.User, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.requireAccess(ctx, id, caller)
	if err != nil {
		return nil, err
	}

	if err := validateStudentFields(req.YKSScore, req.Ranking); err != nil {
		return nil, err
	}

	var department *models.Department
	if req.DepartmentID != nil {
		department, err = s.deptRepo.GetByID(ctx, *req.DepartmentID)
		if err != nil {
			return nil, err
		}
		student.DepartmentID = req.DepartmentID
		student.DepartmentName = &department.Name
	}

	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.Email != nil {
		student.Email = req.Email
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.HighSchool != nil {
		student.HighSchool = req.HighSchool
	}
	if req.Ranking != nil {
		student.Ranking = req.Ranking
	}
	if req.YKSScore != nil {
		student.YKSScore = req.YKSScore
	}
	if req.YKSType != nil {
		t := models.YKSType(*req.YKSType)
		if !t.IsValid() {
			return nil, apperrors.NewValidationError("yks_type", "unknown exam type")
		}
		student.YKSType = &t
	}
	if req.WantsTour != nil {
		student.WantsTour = *req.WantsTour
	}

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}

	if student.WantsTour && !student.TourSent && student.DepartmentID != nil {
		if department == nil {
			department, err = s.deptRepo.GetByID(ctx, *student.DepartmentID)
			if err != nil {
				return nil, err
			}
		}
		s.dispatchTourNotification(ctx, student, department)
	}

	s.broadcast("student_updated", student)

	return student, nil
}

// Delete removes a student record and broadcasts a student_deleted event
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.studentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.broadcast("student_deleted", student)

	return nil
}

// CheckDuplicate reports existing records sharing the probe's email or phone
func (s *StudentService) CheckDuplicate(ctx context.Context, email, phone string) (*dto.DuplicateCheckResponse, error) {
	if email == "" && phone == "" {
		return nil, apperrors.NewValidationError("email", "at least one of email or phone must be provided")
	}

	matches, err := s.studentRepo.FindByEmailOrPhone(ctx, email, phone, 5)
	if err != nil {
		return nil, err
	}

	resp := &dto.DuplicateCheckResponse{
		HasDuplicates: len(matches) > 0,
		Count:         len(matches),
		Duplicates:    make([]dto.DuplicateMatch, 0, len(matches)),
	}

	for _, m := range matches {
		resp.Duplicates = append(resp.Duplicates, dto.DuplicateMatch{
			ID:         m.ID,
			Name:       fmt.Sprintf("%s %s", m.FirstName, m.LastName),
			Email:      m.Email,
			Phone:      m.Phone,
			Department: m.DepartmentName,
			CreatedAt:  m.CreatedAt.Format(time.RFC3339),
		})
	}

	return resp, nil
}

// ActiveDepartments returns the active departments for registration pickers
func (s *StudentService) ActiveDepartments(ctx context.Context) ([]dto.DepartmentOptionResponse, error) {
	departments, err := s.deptRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]dto.DepartmentOptionResponse, 0, len(departments))
	for _, d := range departments {
		options = append(options, dto.DepartmentOptionResponse{ID: d.ID, Name: d.Name})
	}

	return options, nil
}

// HistoryDates returns the calendar days with registrations, newest first.
// Teachers see only their own registration days.
func (s *StudentService) HistoryDates(ctx context.Context, caller *models.User) ([]dto.HistoryDateResponse, error) {
	var createdBy *int64
	if !caller.IsAdmin() {
		createdBy = &caller.ID
	}

	dates, err := s.studentRepo.HistoryDates(ctx, createdBy)
	if err != nil {
		return nil, err
	}

	result := make([]dto.HistoryDateResponse, 0, len(dates))
	for _, d := range dates {
		result = append(result, dto.HistoryDateResponse{
			Date:    d.Date.Format("02.01.2006"),
			DateISO: d.Date.Format("2006-01-02"),
			Count:   d.Count,
		})
	}

	return result, nil
}

// HistoryByDate returns the registrations of one calendar day, newest first.
// The date accepts 2006-01-02 or 02.01.2006 form.
func (s *StudentService) HistoryByDate(ctx context.Context, caller *models.User, dateStr string, skip, limit int) ([]*models.Student, error) {
	day, err := helpers.ParseDate(dateStr)
	if err != nil {
		return nil, apperrors.NewValidationError("date", "invalid date format, use DD.MM.YYYY or YYYY-MM-DD")
	}

	start := helpers.DayStart(day)
	end := helpers.DayEnd(day)

	filter := repositories.StudentFilter{
		StartDate: &start,
		EndDate:   &end,
		SortBy:    "created_at",
		SortOrder: "desc",
		Skip:      skip,
		Limit:     limit,
	}
	if !caller.IsAdmin() {
		filter.CreatedByID = &caller.ID
	}

	students, _, err := s.studentRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return students, nil
}
