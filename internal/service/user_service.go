package service

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	StorageService *StorageService
	Cleaner        MediaCleaner
}

func NewUserService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	storageService *StorageService,
	cleaner MediaCleaner,
) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		StorageService: storageService,
		Cleaner:        cleaner,
	}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("user not found")
		}
		return nil, err
	}
	return user, nil
}

type ProfileUpdateInput struct {
	Name       *string `json:"name"`
	Profession *string `json:"profession"`
	Bio        *string `json:"bio"`
}

func (s *UserService) UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error) {
	fields := map[string]interface{}{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, util.Validationf("name cannot be empty")
		}
		fields["name"] = *input.Name
	}
	if input.Profession != nil {
		fields["profession"] = *input.Profession
	}
	if input.Bio != nil {
		if len(*input.Bio) > 400 {
			return nil, util.Validationf("bio is too long")
		}
		fields["bio"] = *input.Bio
	}

	if len(fields) > 0 {
		if err := s.UserRepo.Update(userID, fields); err != nil {
			return nil, err
		}
	}
	return s.GetProfile(userID)
}

// UpdateAvatar stores the new image in the user's folder and schedules the
// old one for removal.
func (s *UserService) UpdateAvatar(ctx context.Context, userID uint, file *multipart.FileHeader) (*model.User, error) {
	user, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return nil, util.Validationf("avatar must be an image: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	url, err := s.StorageService.UploadAsset(ctx, user.FolderID, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return nil, util.UploadErr("avatar upload failed", err)
	}

	if err := s.UserRepo.Update(userID, map[string]interface{}{"avatar": url}); err != nil {
		return nil, err
	}

	if user.Avatar != "" {
		if err := s.Cleaner.EnqueueDeleteMedia(user.Avatar); err != nil {
			logger.Log.Error("enqueue avatar cleanup failed", zap.String("url", user.Avatar), zap.Error(err))
		}
	}

	user.Avatar = url
	return user, nil
}

// AddToCart is idempotent; putting the same course in twice leaves one
// cart line.
func (s *UserService) AddToCart(userID uint, courseID string) error {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundf("course not found")
		}
		return err
	}
	if !course.IsPublished {
		return util.Validationf("course is not available")
	}
	if course.InstructorID == userID {
		return util.Validationf("cannot add your own course to the cart")
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return util.Conflictf("already enrolled in this course")
	}

	return s.UserRepo.AddCartItem(userID, courseID)
}

func (s *UserService) RemoveFromCart(userID uint, courseID string) error {
	return s.UserRepo.RemoveCartItem(userID, courseID)
}

func (s *UserService) GetCart(userID uint) ([]model.Course, error) {
	ids, err := s.UserRepo.CartCourseIDs(userID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.Course{}, nil
	}
	return s.CourseRepo.FindByIDs(ids)
}
