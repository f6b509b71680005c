package service

import (
	"errors"
	"strings"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

type RegisterInput struct {
	Name     string         `json:"name" binding:"required"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required"`
	Role     model.UserRole `json:"role"`
}

func (s *AuthService) Register(input RegisterInput) (*model.User, string, error) {
	if len(input.Password) < 8 {
		return nil, "", util.Validationf("password must be at least 8 characters")
	}
	if input.Role == "" {
		input.Role = model.Student
	}
	// Admins are created out of band, never through registration.
	if input.Role != model.Student && input.Role != model.Instructor {
		return nil, "", util.Validationf("unknown role %q", input.Role)
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if _, err := s.UserRepo.FindByEmail(email); err == nil {
		return nil, "", util.Conflictf("email is already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        email,
		Password:     string(hashed),
		Role:         input.Role,
		AuthProvider: "local",
		FolderID:     model.GenerateUUID(),
		LastLogin:    time.Now(),
	}
	if err := s.UserRepo.Create(user); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) Login(email, password string) (*model.User, string, error) {
	user, err := s.UserRepo.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		// Same answer whether the account exists or the password is wrong.
		return nil, "", util.Validationf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", util.Validationf("invalid credentials")
	}

	if err := s.UserRepo.Update(user.ID, map[string]interface{}{"last_login": time.Now()}); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
