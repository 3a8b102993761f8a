package services

import (
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/GOlukorede/PhoneStore-REST-API/internal/models"
	"github.com/GOlukorede/PhoneStore-REST-API/internal/repositories"
)

// Role claim values.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Token type claim values.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// AuthService handles registration, login, token issuance and revocation.
type AuthService struct {
	userRepo     repositories.UserRepository
	tokenRepo    repositories.TokenBlockListRepository
	jwtSecret    []byte
	accessDurat  time.Duration
	refreshDurat time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, tokenRepo repositories.TokenBlockListRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		tokenRepo:    tokenRepo,
		jwtSecret:    []byte(jwtSecret),
		accessDurat:  30 * time.Minute,
		refreshDurat: 30 * 24 * time.Hour,
	}
}

// RegisterUser registers a new user, hashes their password, and saves them.
func (s *AuthService) RegisterUser(user *models.User) error {
	if existing, err := s.userRepo.GetByUsername(user.Username); err == nil && existing != nil {
		return fmt.Errorf("username '%s' already taken: %w", user.Username, repositories.ErrDuplicateUser)
	}
	if existing, err := s.userRepo.GetByEmail(user.Email); err == nil && existing != nil {
		return fmt.Errorf("email '%s' already registered: %w", user.Email, repositories.ErrDuplicateUser)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	user.IsActive = true

	if err := s.userRepo.Create(user); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// LoginUser authenticates a user by email and returns an access and a refresh
// token. Lookup and password failures report the same generic error.
func (s *AuthService) LoginUser(email, password string) (accessToken, refreshToken string, err error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", "", fmt.Errorf("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", fmt.Errorf("invalid credentials")
	}

	accessToken, err = s.generateToken(user, TokenTypeAccess, s.accessDurat)
	if err != nil {
		return "", "", err
	}
	refreshToken, err = s.generateToken(user, TokenTypeRefresh, s.refreshDurat)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// RefreshAccessToken exchanges a valid refresh token for a new access token.
func (s *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := s.ValidateToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims["type"] != TokenTypeRefresh {
		return "", fmt.Errorf("invalid token: refresh token required")
	}
	email, _ := claims["sub"].(string)
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	return s.generateToken(user, TokenTypeAccess, s.accessDurat)
}

// ListUsers retrieves one page of registered users. Exposed to
// administrators only.
func (s *AuthService) ListUsers(page, perPage int) ([]models.User, models.Pagination, error) {
	users, total, err := s.userRepo.List(page, perPage)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	return users, models.NewPagination(page, perPage, total), nil
}

// Logout revokes the token with the given jti. Both access and refresh
// tokens can be revoked this way.
func (s *AuthService) Logout(jti string) error {
	if err := s.tokenRepo.Add(jti); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

// ValidateToken parses and validates a JWT, rejecting revoked tokens, and
// returns the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	jti, _ := claims["jti"].(string)
	if jti != "" {
		revoked, err := s.tokenRepo.Contains(jti)
		if err != nil {
			return nil, fmt.Errorf("failed to check token blocklist: %w", err)
		}
		if revoked {
			return nil, fmt.Errorf("invalid token: token has been revoked")
		}
	}
	return claims, nil
}

func (s *AuthService) generateToken(user *models.User, tokenType string, durat time.Duration) (string, error) {
	role := RoleUser
	if user.IsAdmin {
		role = RoleAdmin
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.Email,
		"role": role,
		"type": tokenType,
		"jti":  uuid.New().String(),
		"exp":  time.Now().Add(durat).Unix(),
		"iat":  time.Now().Unix(),
	})
	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}
