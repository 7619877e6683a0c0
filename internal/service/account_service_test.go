package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/models"
	"github.com/smartlab-id/smartlab-api/internal/repository"
	"github.com/smartlab-id/smartlab-api/internal/service"
)

func newAccountService(db *gorm.DB) service.AccountService {
	return service.NewAccountService(
		repository.NewUserRepository(db),
		testValidator(),
		"smartlab.sch.id",
		testLogger(),
	)
}

func TestAccountService_ProvisionTeacher_GeneratesCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	result, err := svc.ProvisionTeacher(context.Background(), dto.TeacherProvisionRequest{
		FullName: "Budi Santoso",
		Phone:    "081234567890",
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(result.Email, "budi.santoso."))
	require.True(t, strings.HasSuffix(result.Email, "@smartlab.sch.id"))
	require.Len(t, result.Password, 12)
	require.Equal(t, models.RoleGuru, result.User.Role)
	require.NotEmpty(t, result.User.ID)

	var stored models.User
	require.NoError(t, db.First(&stored, result.User.ID).Error)
	require.NotEqual(t, result.Password, stored.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(result.Password)))
	require.NotEmpty(t, stored.AuthID)
}

func TestAccountService_ProvisionTeacher_ExplicitCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	result, err := svc.ProvisionTeacher(context.Background(), dto.TeacherProvisionRequest{
		FullName: "Siti Rahma",
		Phone:    "081234567891",
		Email:    "Siti.Rahma@Sekolah.ID",
		Password: "rahasia-sekali",
	})
	require.NoError(t, err)
	require.Equal(t, "siti.rahma@sekolah.id", result.Email)
	require.Equal(t, "rahasia-sekali", result.Password)
}

func TestAccountService_ProvisionTeacher_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	ctx := context.Background()
	_, err := svc.ProvisionTeacher(ctx, dto.TeacherProvisionRequest{
		FullName: "Budi Santoso",
		Phone:    "081234567890",
		Email:    "budi@sekolah.id",
	})
	require.NoError(t, err)

	_, err = svc.ProvisionTeacher(ctx, dto.TeacherProvisionRequest{
		FullName: "Budi Lainnya",
		Phone:    "081234567899",
		Email:    "budi@sekolah.id",
	})
	require.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestAccountService_ProvisionTeacher_ValidatesPayload(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	_, err := svc.ProvisionTeacher(context.Background(), dto.TeacherProvisionRequest{
		FullName: "X",
		Phone:    "1",
	})
	require.Error(t, err)
}

func TestAccountService_List_FiltersByRole(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	users := []models.User{
		{FullName: "Guru Satu", Email: "guru1@smartlab.sch.id", Role: models.RoleGuru},
		{FullName: "Siswa Satu", Email: "siswa1@smartlab.sch.id", Role: models.RoleSiswa},
		{FullName: "Siswa Dua", Email: "siswa2@smartlab.sch.id", Role: models.RoleSiswa},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	rows, err := svc.List(context.Background(), dto.UserFilter{Role: models.RoleSiswa})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		require.Equal(t, models.RoleSiswa, row.Role)
	}
}

func TestAccountService_Get_NotFound(t *testing.T) {
	db := newTestDB(t)
	svc := newAccountService(db)

	_, err := svc.Get(context.Background(), 999)
	require.ErrorIs(t, err, service.ErrUserNotFound)
}
