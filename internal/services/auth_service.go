package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"pizzaria/internal/models"
	"pizzaria/internal/repositories"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles staff authentication and role management.
type AuthService struct {
	userRepo   repositories.UserRepository
	jwtSecret  []byte
	tokenDurat time.Duration // Duration for which JWT is valid
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtSecret:  []byte(jwtSecret),
		tokenDurat: 24 * time.Hour, // Token valid for 24 hours
	}
}

// RegisterUser hashes the password and saves a new back-office user with
// the given roles.
func (s *AuthService) RegisterUser(user *models.Profile, roles ...models.Role) error {
	// Check if username or email already exists
	if existingUser, err := s.userRepo.GetByUsername(user.Username); err == nil && existingUser != nil {
		return fmt.Errorf("username '%s': %w", user.Username, ErrAlreadyExists)
	}
	if existingUser, err := s.userRepo.GetByEmail(user.Email); err == nil && existingUser != nil {
		return fmt.Errorf("email '%s': %w", user.Email, ErrAlreadyExists)
	}
	for _, r := range roles {
		if r != models.RoleAdmin && r != models.RoleStaff {
			return fmt.Errorf("%w: role %q", ErrInvalidInput, r)
		}
	}

	// Hash the password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword) // Store the hashed password

	if err := s.userRepo.Create(user, roles...); err != nil {
		return fmt.Errorf("failed to register user: %w", err)
	}
	return nil
}

// EnsureAdmin creates the first admin account when no user exists yet.
func (s *AuthService) EnsureAdmin(username, password string) (bool, error) {
	n, err := s.userRepo.Count()
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}
	if password == "" {
		return false, fmt.Errorf("%w: an admin password is required to create the first account", ErrInvalidInput)
	}
	admin := &models.Profile{Username: username, Email: username + "@localhost", FullName: "Administrator", Password: password}
	if err := s.RegisterUser(admin, models.RoleAdmin, models.RoleStaff); err != nil {
		return false, err
	}
	return true, nil
}

func roleNames(p *models.Profile) []string {
	names := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		names = append(names, string(r.Role))
	}
	return names
}

// LoginUser authenticates a user and returns a JWT token if successful.
// Accounts without any role cannot sign in.
func (s *AuthService) LoginUser(username, password string) (string, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}
	// Compare the provided password with the hashed password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}
	if len(user.Roles) == 0 {
		return "", fmt.Errorf("%w: no back-office role", ErrInvalidCredentials)
	}

	// Generate JWT token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"roles":    roleNames(user),
		"exp":      time.Now().Add(s.tokenDurat).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return tokenString, nil
}

// ValidateToken parses and validates a JWT token, returning the claims if valid.
func (s *AuthService) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the alg is what we expect:
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		log.Printf("Token validation error: %v", err)
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, fmt.Errorf("invalid token")
}

// ClaimRoles extracts the roles claim.
func ClaimRoles(claims jwt.MapClaims) []models.Role {
	raw, _ := claims["roles"].([]interface{})
	roles := make([]models.Role, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, models.Role(s))
		}
	}
	return roles
}

func (s *AuthService) ListUsers() ([]models.Profile, error) {
	users, err := s.userRepo.GetAll()
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].Password = ""
	}
	return users, nil
}

func (s *AuthService) SetRoles(userID string, roles ...models.Role) error {
	for _, r := range roles {
		if r != models.RoleAdmin && r != models.RoleStaff {
			return fmt.Errorf("%w: role %q", ErrInvalidInput, r)
		}
	}
	return s.userRepo.SetRoles(userID, roles...)
}
