package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/localmarket/commercehub/internal/models"
	"github.com/localmarket/commercehub/internal/notifier"
	"github.com/localmarket/commercehub/internal/repository"
	"github.com/localmarket/commercehub/internal/utils"
	"github.com/localmarket/commercehub/pkg/logger"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("email or password is wrong")
	ErrRoleNotAllowed     = errors.New("role is not allowed")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// RegisterInput carries the fields accepted at user registration.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	Age         int
	City        string
	Interest    []string
	AllowOffers bool
	Role        string
}

type AuthService struct {
	userRepo      *repository.UserRepository
	notify        notifier.Notifier
	jwtSecret     string
	jwtExpiration time.Duration
	environment   string
}

func NewAuthService(userRepo *repository.UserRepository, notify notifier.Notifier, jwtSecret string, jwtExpiration time.Duration, environment string) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		notify:        notify,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
		environment:   environment,
	}
}

// IsProduction returns true if running in production environment
func (s *AuthService) IsProduction() bool {
	return s.environment == "production"
}

func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	logger.Log.Debug("Processing user registration",
		zap.String("email", in.Email),
	)

	if err := s.validateRegisterInput(in); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		return nil, err
	}

	existing, err := s.userRepo.GetUserByEmail(in.Email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error registering user: %v", err))
		return nil, err
	}
	if existing != nil {
		logger.Log.Warn("Email already exists",
			zap.String("email", in.Email),
		)
		return nil, ErrEmailAlreadyExists
	}

	hashStart := time.Now()
	hashedPassword, err := utils.HashPassword(in.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Debug("Password hashed successfully",
		zap.Duration("hash_duration", time.Since(hashStart)),
	)

	role := models.RoleUser
	if in.Role == string(models.RoleAdmin) {
		// Only the test environment may self-register admins; everywhere
		// else admins come from the seeder.
		if s.environment != "test" {
			return nil, ErrRoleNotAllowed
		}
		role = models.RoleAdmin
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hashedPassword,
		Age:          in.Age,
		City:         in.City,
		Interest:     models.StringList(in.Interest),
		AllowOffers:  in.AllowOffers,
		Role:         role,
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		logger.Log.Error("Failed to create user in database",
			zap.String("email", in.Email),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error registering user: %v", err))
		return nil, err
	}

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("email", in.Email),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

// Login verifies credentials and issues a user token. The error for a wrong
// email and a wrong password is the same on purpose, so callers cannot probe
// which addresses are registered.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	logger.Log.Debug("Processing user login",
		zap.String("email", email),
	)

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		s.notify.Notify(fmt.Sprintf("Error logging in user: %v", err))
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		return nil, "", ErrInvalidCredentials
	}

	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", ErrInvalidCredentials
	}

	token, err := utils.GenerateUserToken(user, s.jwtSecret, s.jwtExpiration)
	if err != nil {
		logger.Log.Error("Failed to generate JWT token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, token, nil
}

func (s *AuthService) validateRegisterInput(in RegisterInput) error {
	if in.Name == "" {
		return errors.New("name is required")
	}
	if !emailRegex.MatchString(in.Email) {
		return errors.New("invalid email format")
	}
	if len(in.Email) > 100 {
		return errors.New("email too long")
	}
	if len(in.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}
	if len(in.Password) > 128 {
		return errors.New("password too long")
	}
	if in.Age < 0 {
		return errors.New("age must not be negative")
	}
	if in.City == "" {
		return errors.New("city is required")
	}
	if len(in.Interest) == 0 {
		return errors.New("interest is required")
	}
	return nil
}
