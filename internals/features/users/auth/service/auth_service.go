package service

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	configs "hostelku_backend/internals/configs"
	authModel "hostelku_backend/internals/features/users/auth/model"
	helper "hostelku_backend/internals/helpers"
)

const accessTTLDefault = 24 * time.Hour

type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db}
}

// =======================================================
// PASSWORD
// =======================================================

func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

// =======================================================
// LOGIN (username/email + password)
// =======================================================

type LoginResult struct {
	User        *authModel.User `json:"user"`
	AccessToken string          `json:"access_token"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

func (s *AuthService) Login(identifier, password string) (*LoginResult, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: identifier dan password wajib diisi", helper.ErrInvalidArgument)
	}

	var user authModel.User
	err := s.DB.
		Where("user_name = ? OR user_email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: identifier atau password salah", helper.ErrUnauthorized)
		}
		return nil, err
	}
	if !user.UserIsActive {
		return nil, fmt.Errorf("%w: akun dinonaktifkan", helper.ErrUnauthorized)
	}
	if err := CheckPasswordHash(user.UserPassword, password); err != nil {
		return nil, fmt.Errorf("%w: identifier atau password salah", helper.ErrUnauthorized)
	}

	return s.issueToken(&user)
}

// =======================================================
// LOGIN GOOGLE
// =======================================================

func (s *AuthService) LoginGoogle(idToken string) (*LoginResult, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, fmt.Errorf("%w: id_token wajib diisi", helper.ErrInvalidArgument)
	}

	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{configs.GoogleClientID}); err != nil {
		return nil, fmt.Errorf("%w: google id token tidak valid", helper.ErrUnauthorized)
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: gagal decode id token", helper.ErrUnauthorized)
	}
	googleID := claimSet.Sub

	var user authModel.User
	err = s.DB.Where("user_google_id = ?", googleID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Akun baru via Google: password acak, role default admin
		dummy, herr := HashPassword(uuid.New().String())
		if herr != nil {
			return nil, herr
		}
		user = authModel.User{
			UserName:     claimSet.Name,
			UserEmail:    strings.ToLower(claimSet.Email),
			UserPassword: dummy,
			UserRole:     "admin",
			UserIsActive: true,
			UserGoogleID: &googleID,
		}
		if cerr := s.DB.Create(&user).Error; cerr != nil {
			if helper.IsUniqueViolation(cerr) {
				return nil, fmt.Errorf("%w: email sudah terdaftar", helper.ErrInvalidArgument)
			}
			return nil, cerr
		}
	} else if err != nil {
		return nil, err
	}

	if !user.UserIsActive {
		return nil, fmt.Errorf("%w: akun dinonaktifkan", helper.ErrUnauthorized)
	}
	return s.issueToken(&user)
}

// =======================================================
// TOKEN
// =======================================================

func (s *AuthService) issueToken(user *authModel.User) (*LoginResult, error) {
	secret := strings.TrimSpace(configs.JWTSecret)
	if secret == "" {
		return nil, errors.New("JWT_SECRET belum diset")
	}

	now := time.Now().UTC()
	exp := now.Add(accessTTLDefault)
	claims := jwt.MapClaims{
		"typ":       "access",
		"sub":       user.UserID.String(),
		"id":        user.UserID.String(),
		"user_name": user.UserName,
		"role":      user.UserRole,
		"iat":       now.Unix(),
		"exp":       exp.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return nil, fmt.Errorf("gagal membuat access token: %w", err)
	}

	return &LoginResult{User: user, AccessToken: token, ExpiresAt: exp}, nil
}

// =======================================================
// LOGOUT + BLACKLIST
// =======================================================

// Logout memasukkan access token ke blacklist sampai kadaluarsanya.
func (s *AuthService) Logout(rawToken string) error {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil // idempotent
	}

	expiredAt := time.Now().Add(accessTTLDefault)
	if tok, err := jwt.Parse(rawToken, func(t *jwt.Token) (any, error) {
		return []byte(configs.JWTSecret), nil
	}); err == nil && tok.Valid {
		if claims, ok := tok.Claims.(jwt.MapClaims); ok {
			if exp, ok := claims["exp"].(float64); ok {
				expiredAt = time.Unix(int64(exp), 0)
			}
		}
	}

	entry := authModel.TokenBlacklist{
		Token:     rawToken,
		ExpiredAt: expiredAt,
	}
	if err := s.DB.Create(&entry).Error; err != nil {
		log.Printf("[WARN] gagal blacklist token: %v", err)
		return err
	}
	return nil
}

// IsBlacklisted dipakai middleware auth untuk menolak token ter-logout.
func (s *AuthService) IsBlacklisted(rawToken string) (bool, error) {
	var count int64
	err := s.DB.Model(&authModel.TokenBlacklist{}).
		Where("token = ? AND expired_at > ?", rawToken, time.Now()).
		Count(&count).Error
	return count > 0, err
}

// =======================================================
// REGISTER (operator baru, dipanggil admin/seeder)
// =======================================================

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

func (s *AuthService) Register(in RegisterInput) (*authModel.User, error) {
	if len(in.Password) < 8 {
		return nil, fmt.Errorf("%w: password minimal 8 karakter", helper.ErrInvalidArgument)
	}
	if in.Role == "" {
		in.Role = "admin"
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := authModel.User{
		UserName:     in.Name,
		UserEmail:    strings.ToLower(strings.TrimSpace(in.Email)),
		UserPassword: hash,
		UserRole:     in.Role,
		UserIsActive: true,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: username/email sudah terdaftar", helper.ErrInvalidArgument)
		}
		return nil, err
	}
	return &user, nil
}
