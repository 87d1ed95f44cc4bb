package auth

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/payroll-management/internal"
)

// Repository defines the data access methods for user accounts.
type Repository interface {
	GetByEmail(email string) (*User, error)
	GetByID(id int64) (*User, error)
}

type Service struct {
	repo          Repository
	jwtSecret     []byte
	tokenDuration time.Duration
	logger        *slog.Logger
}

func NewService(repo Repository, jwtSecret string, tokenDuration time.Duration, logger *slog.Logger) *Service {
	return &Service{
		repo:          repo,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
		logger:        logger,
	}
}

type claims struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	EmployeeID int64  `json:"employee_id"`
	jwt.RegisteredClaims
}

func (s *Service) Login(dto LoginDTO) (*TokenResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	user, err := s.repo.GetByEmail(dto.Email)
	if err != nil {
		s.logger.Warn("login failed: user lookup", "email", dto.Email, "error", err)
		return nil, internal.NewUnauthorizedError("Invalid email or password", internal.ErrCodeInvalidCredentials)
	}

	if !user.IsActive {
		s.logger.Warn("login failed: inactive account", "user_id", user.ID)
		return nil, internal.NewForbiddenError("User account is inactive", internal.ErrCodeAccessDenied)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login failed: password mismatch", "user_id", user.ID)
		return nil, internal.NewUnauthorizedError("Invalid email or password", internal.ErrCodeInvalidCredentials)
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, internal.NewInternalError("failed to sign token", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "role", user.Role)

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokenDuration.Seconds()),
	}, nil
}

func (s *Service) issueToken(user *User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name:       user.Name,
		Role:       user.Role,
		EmployeeID: user.EmployeeID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenDuration)),
		},
	})
	return token.SignedString(s.jwtSecret)
}

// ParseToken validates the signed token and returns the actor it identifies.
func (s *Service) ParseToken(tokenString string) (*internal.Actor, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	c, ok := parsed.Claims.(*claims)
	if !ok || !parsed.Valid {
		return nil, internal.ErrInvalidToken
	}

	if _, ok := ParseRole(c.Role); !ok {
		return nil, internal.ErrInvalidToken
	}

	var userID int64
	if _, err := fmt.Sscanf(c.Subject, "%d", &userID); err != nil {
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	return &internal.Actor{
		ID:         userID,
		Name:       c.Name,
		Role:       c.Role,
		EmployeeID: c.EmployeeID,
	}, nil
}
