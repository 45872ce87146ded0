package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/Saewt/university-visitor-system/internal/app/models"
	appRepos "github.com/Saewt/university-visitor-system/internal/app/repositories"
	"github.com/Saewt/university-visitor-system/internal/pkg/apperrors"
	pkgAuth "github.com/Saewt/university-visitor-system/internal/pkg/auth"
)

// defaultDepartments are the departments offered at the open day
var defaultDepartments = []string{
	"Bilgisayar Mühendisliği",
	"Yazılım Mühendisliği",
	"Elektrik-Elektronik Mühendisliği",
	"Makine Mühendisliği",
	"İnşaat Mühendisliği",
	"Endüstri Mühendisliği",
	"Kimya Mühendisliği",
	"Çevre Mühendisliği",
	"Eczacılık",
	"Tıp",
	"Diş Hekimliği",
	"Hemşirelik",
	"Hukuk",
	"İktisat",
	"İşletme",
	"Psikoloji",
	"Eğitim Bilimleri",
	"Güzel Sanatlar",
	"Mimarlık",
	"Şehir ve Bölge Planlama",
}

// defaultUsers are the initial accounts. Passwords are meant to be changed
// after the first login.
var defaultUsers = []struct {
	Username string
	Password string
	Role     appModels.Role
}{
	{Username: "Özgür Güler", Password: "admin123", Role: appModels.RoleAdmin},
	{Username: "Okan", Password: "teacher123", Role: appModels.RoleTeacher},
}

// CreateDefaultData creates the default users and departments if they don't exist
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	userRepo := appRepos.NewUserRepository(dbPool)
	departmentRepo := appRepos.NewDepartmentRepository(dbPool)

	lgr.Info().Msg("Checking/Creating default data (users/departments)...")
	var finalErr error

	for _, account := range defaultUsers {
		passwordHash, err := pkgAuth.HashPassword(account.Password)
		if err != nil {
			lgr.Error().Err(err).Str("username", account.Username).Msg("Error hashing default user password")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		user := &appModels.User{
			Username:     account.Username,
			PasswordHash: passwordHash,
			Role:         account.Role,
		}
		if err := userRepo.Create(ctx, user); err != nil && !errors.Is(err, apperrors.ErrUsernameAlreadyUsed) {
			lgr.Error().Err(err).Str("username", account.Username).Msg("Error creating default user")
			finalErr = errors.Join(finalErr, err)
		}
	}

	for _, name := range defaultDepartments {
		department := &appModels.Department{Name: name, Active: true}
		if err := departmentRepo.Create(ctx, department); err != nil && !errors.Is(err, apperrors.ErrDepartmentAlreadyExists) {
			lgr.Error().Err(err).Str("department", name).Msg("Error creating default department")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Msg("Default data check complete.")
	}
	return finalErr
}
