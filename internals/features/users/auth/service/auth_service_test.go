package service

import (
	"fmt"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	configs "hostelku_backend/internals/configs"
	database "hostelku_backend/internals/databases"
	helper "hostelku_backend/internals/helpers"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	configs.JWTSecret = "unit-test-secret"
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateAll(db))
	return db
}

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := HashPassword("admin12345")
	require.NoError(t, err)
	require.NotEqual(t, "admin12345", hash)

	require.NoError(t, CheckPasswordHash(hash, "admin12345"))
	require.Error(t, CheckPasswordHash(hash, "salah-password"))
}

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register(RegisterInput{
		Name:     "admin",
		Email:    "Admin@Hostelku.Local",
		Password: "admin12345",
	})
	require.NoError(t, err)
	require.Equal(t, "admin", user.UserRole)
	require.Equal(t, "admin@hostelku.local", user.UserEmail) // email di-lowercase

	// Login dengan username
	res, err := svc.Login("admin", "admin12345")
	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)

	// Login dengan email, case-insensitive
	res, err = svc.Login("ADMIN@hostelku.local", "admin12345")
	require.NoError(t, err)

	// Token ber-claim role + sub
	tok, err := jwt.Parse(res.AccessToken, func(t *jwt.Token) (any, error) {
		return []byte(configs.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	require.Equal(t, "admin", claims["role"])
	require.Equal(t, user.UserID.String(), claims["sub"])
}

func TestLogin_WrongCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(RegisterInput{Name: "admin", Email: "admin@hostelku.local", Password: "admin12345"})
	require.NoError(t, err)

	_, err = svc.Login("admin", "salah-password")
	require.ErrorIs(t, err, helper.ErrUnauthorized)

	_, err = svc.Login("tidak-ada", "admin12345")
	require.ErrorIs(t, err, helper.ErrUnauthorized)

	_, err = svc.Login("", "")
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestLogin_InactiveAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register(RegisterInput{Name: "staff1", Email: "staff@hostelku.local", Password: "staff12345", Role: "staff"})
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("user_is_active", false).Error)

	_, err = svc.Login("staff1", "staff12345")
	require.ErrorIs(t, err, helper.ErrUnauthorized)
}

func TestRegister_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(RegisterInput{Name: "admin", Email: "admin@hostelku.local", Password: "pendek"})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)

	_, err = svc.Register(RegisterInput{Name: "admin", Email: "admin@hostelku.local", Password: "admin12345"})
	require.NoError(t, err)

	// Username/email ganda ditolak
	_, err = svc.Register(RegisterInput{Name: "admin", Email: "lain@hostelku.local", Password: "admin12345"})
	require.ErrorIs(t, err, helper.ErrInvalidArgument)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db)

	_, err := svc.Register(RegisterInput{Name: "admin", Email: "admin@hostelku.local", Password: "admin12345"})
	require.NoError(t, err)
	res, err := svc.Login("admin", "admin12345")
	require.NoError(t, err)

	black, err := svc.IsBlacklisted(res.AccessToken)
	require.NoError(t, err)
	require.False(t, black)

	require.NoError(t, svc.Logout(res.AccessToken))

	black, err = svc.IsBlacklisted(res.AccessToken)
	require.NoError(t, err)
	require.True(t, black)

	// Logout tanpa token → no-op
	require.NoError(t, svc.Logout(""))
}
