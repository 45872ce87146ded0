package services

import (
	"context"

	"github.com/Saewt/university-visitor-system/internal/app/models"
	"github.com/Saewt/university-visitor-system/internal/app/models/dto"
	"github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
	"github.com/Saewt/university-visitor-system/internal/pkg/auth"
)

// ManagementService handles user and department administration
type ManagementService struct {
	userRepo    *repositories.UserRepository
	deptRepo    *repositories.DepartmentRepository
	studentRepo *repositories.StudentRepository
}

// NewManagementService creates a new management service instance
func NewManagementService(
	userRepo *repositories.UserRepository,
	deptRepo *repositories.DepartmentRepository,
	studentRepo *repositories.StudentRepository,
) *ManagementService {
	return &ManagementService{
		userRepo:    userRepo,
		deptRepo:    deptRepo,
		studentRepo: studentRepo,
	}
}

// ListUsers returns users with their registration counts
func (s *ManagementService) ListUsers(ctx context.Context, role *models.Role, skip, limit int) ([]dto.UserWithStatsResponse, error) {
	if role != nil && !role.IsValid() {
		return nil, apperrors.NewValidationError("role", "role must be teacher or admin")
	}

	users, err := s.userRepo.GetAllWithCounts(ctx, role, skip, limit)
	if err != nil {
		return nil, err
	}

	return dto.NewUserListResponse(users), nil
}

// GetUser returns a single user with their registration count
func (s *ManagementService) GetUser(ctx context.Context, id int64) (*dto.UserWithStatsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.studentRepo.CountByCreator(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserWithStatsResponse(user, count)
	return &resp, nil
}

// CreateUser creates a new staff account
func (s *ManagementService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*dto.UserWithStatsResponse, error) {
	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: passwordHash,
		Role:         models.Role(req.Role),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	resp := dto.NewUserWithStatsResponse(user, 0)
	return &resp, nil
}

// UpdateUser applies a partial update to a user account.
// An admin cannot change their own role.
func (s *ManagementService) UpdateUser(ctx context.Context, callerID, id int64, req dto.UpdateUserRequest) (*dto.UserWithStatsResponse, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Role != nil && id == callerID && models.Role(*req.Role) != user.Role {
		return nil, apperrors.ErrSelfModification
	}

	if req.Username != nil && *req.Username != user.Username {
		taken, err := s.userRepo.UsernameExistsExcept(ctx, *req.Username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrUsernameAlreadyUsed
		}
		user.Username = *req.Username
	}

	if req.Role != nil {
		user.Role = models.Role(*req.Role)
	}

	if req.Password != nil {
		passwordHash, err := auth.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = passwordHash
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	count, err := s.studentRepo.CountByCreator(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewUserWithStatsResponse(user, count)
	return &resp, nil
}

// DeleteUser removes a user account. Deletion is blocked while the user
// still has registered students, and admins cannot delete themselves.
func (s *ManagementService) DeleteUser(ctx context.Context, callerID, id int64) error {
	if id == callerID {
		return apperrors.ErrSelfModification
	}

	if _, err := s.userRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.studentRepo.CountByCreator(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewDependencyError(apperrors.ErrUserHasStudents,
			"cannot delete user with associated students", int(count))
	}

	return s.userRepo.Delete(ctx, id)
}

// ListDepartments returns departments with their registration counts
func (s *ManagementService) ListDepartments(ctx context.Context, activeOnly bool) ([]dto.DepartmentWithCountResponse, error) {
	departments, err := s.deptRepo.GetAllWithCounts(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	return dto.NewDepartmentListResponse(departments), nil
}

// GetDepartment returns a single department with its registration count
func (s *ManagementService) GetDepartment(ctx context.Context, id int64) (*dto.DepartmentWithCountResponse, error) {
	department, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.studentRepo.CountByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewDepartmentWithCountResponse(department, count)
	return &resp, nil
}

// CreateDepartment creates a new department
func (s *ManagementService) CreateDepartment(ctx context.Context, req dto.CreateDepartmentRequest) (*dto.DepartmentWithCountResponse, error) {
	active := true
	if req.Active != nil {
		active = *req.Active
	}

	department := &models.Department{
		Name:           req.Name,
		TelegramChatID: req.TelegramChatID,
		Active:         active,
	}

	if err := s.deptRepo.Create(ctx, department); err != nil {
		return nil, err
	}

	resp := dto.NewDepartmentWithCountResponse(department, 0)
	return &resp, nil
}

// UpdateDepartment applies a partial update to a department
func (s *ManagementService) UpdateDepartment(ctx context.Context, id int64, req dto.UpdateDepartmentRequest) (*dto.DepartmentWithCountResponse, error) {
	department, err := s.deptRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != department.Name {
		taken, err := s.deptRepo.NameExistsExcept(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrDepartmentAlreadyExists
		}
		department.Name = *req.Name
	}

	if req.TelegramChatID != nil {
		department.TelegramChatID = req.TelegramChatID
	}

	if req.Active != nil {
		department.Active = *req.Active
	}

	if err := s.deptRepo.Update(ctx, department); err != nil {
		return nil, err
	}

	count, err := s.studentRepo.CountByDepartment(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewDepartmentWithCountResponse(department, count)
	return &resp, nil
}

// DeleteDepartment removes a department. Deletion is blocked while
// students still reference it.
func (s *ManagementService) DeleteDepartment(ctx context.Context, id int64) error {
	if _, err := s.deptRepo.GetByID(ctx, id); err != nil {
		return err
	}

	count, err := s.studentRepo.CountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperrors.NewDependencyError(apperrors.ErrDepartmentHasStudents,
			"cannot delete department with associated students", int(count))
	}

	return s.deptRepo.Delete(ctx, id)
}
