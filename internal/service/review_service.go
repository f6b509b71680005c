package service

import (
	"errors"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type ReviewService struct {
	ReviewRepo     *repository.ReviewRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	DB             *gorm.DB
}

func NewReviewService(
	reviewRepo *repository.ReviewRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	db *gorm.DB,
) *ReviewService {
	return &ReviewService{
		ReviewRepo:     reviewRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		DB:             db,
	}
}

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment" binding:"required"`
}

// Create accepts one review per student per course, from enrolled students
// only. The progress record's hasReview flag is set in the same
// transaction so the two can never disagree.
func (s *ReviewService) Create(userID uint, courseID string, input ReviewInput) (*model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, util.Validationf("rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Comment) == "" {
		return nil, util.Validationf("comment is required")
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbiddenf("only enrolled students can review a course")
	}

	exists, err := s.ReviewRepo.ExistsByUserAndCourse(userID, courseID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, util.Conflictf("you have already reviewed this course")
	}

	review := &model.Review{
		UserID:   userID,
		CourseID: courseID,
		Rating:   input.Rating,
		Comment:  input.Comment,
	}
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ReviewRepo.Create(tx, review); err != nil {
			return err
		}
		return tx.Model(&model.CourseProgress{}).
			Where("user_id = ? AND course_id = ?", userID, courseID).
			Update("has_review", true).Error
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (s *ReviewService) ListByCourse(courseID string) ([]model.Review, error) {
	return s.ReviewRepo.ListByCourse(courseID)
}

func (s *ReviewService) HasReviewed(userID uint, courseID string) (bool, error) {
	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return progress.HasReview, nil
}
