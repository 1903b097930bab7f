package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pharmaflow/internal/models"
	"pharmaflow/internal/store"
	"pharmaflow/internal/util"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for both unknown usernames and wrong
// passwords, so login failures do not reveal which one it was.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims carried by an issued token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// AuthService verifies employee credentials and issues the tokens the API
// layer turns into an employee identity for billing.
type AuthService struct {
	store     *store.Store
	jwtSecret []byte
	tokenTTL  time.Duration
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store *store.Store, jwtSecret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		store:     store,
		jwtSecret: []byte(jwtSecret),
		tokenTTL:  tokenTTL,
		logger:    util.GetLogger(),
	}
}

// Login validates credentials against the employees table and returns a
// signed token plus the employee's role.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, string, error) {
	if username == "" || password == "" {
		return "", "", &models.ValidationError{Field: "credentials", Reason: "username and password required"}
	}

	emp, err := s.store.GetEmployeeByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			util.LoginAttemptsTotal.WithLabelValues("failed").Inc()
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(emp.PasswordHash), []byte(password)); err != nil {
		util.LoginAttemptsTotal.WithLabelValues("failed").Inc()
		s.logger.Warn("Failed login attempt", zap.String("username", username))
		return "", "", ErrInvalidCredentials
	}

	token, err := s.issueToken(emp)
	if err != nil {
		return "", "", fmt.Errorf("issue token: %w", err)
	}

	util.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.logger.Info("Employee logged in",
		zap.String("username", username),
		zap.String("role", emp.Role))
	return token, emp.Role, nil
}

func (s *AuthService) issueToken(emp *models.Employee) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: emp.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   emp.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

// Register creates an employee with a freshly hashed password.
func (s *AuthService) Register(ctx context.Context, username, password, role string) (*models.Employee, error) {
	if username == "" || password == "" {
		return nil, &models.ValidationError{Field: "credentials", Reason: "username and password required"}
	}
	if role != models.RoleAdmin && role != models.RolePharmacist {
		return nil, &models.ValidationError{Field: "role", Reason: "must be admin or pharmacist"}
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	emp := &models.Employee{Username: username, PasswordHash: hash, Role: role}
	if err := s.store.CreateEmployee(ctx, emp); err != nil {
		return nil, err
	}

	s.logger.Info("Employee registered",
		zap.String("username", username),
		zap.String("role", role))
	return emp, nil
}

// VerifyToken parses a token and returns the employee username and role.
func (s *AuthService) VerifyToken(tokenString string) (string, string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return "", "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", errors.New("invalid token")
	}
	return claims.Subject, claims.Role, nil
}

// HashPassword produces a bcrypt hash for storing new employee passwords.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
