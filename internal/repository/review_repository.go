package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{DB: db}
}

func (r *ReviewRepository) Create(tx *gorm.DB, review *model.Review) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(review).Error
}

func (r *ReviewRepository) ExistsByUserAndCourse(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Review{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) ListByCourse(courseID string) ([]model.Review, error) {
	var reviews []model.Review
	err := r.DB.Preload("User").
		Where("course_id = ?", courseID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepository) AverageRating(courseID string) (float64, error) {
	var avg *float64
	err := r.DB.Model(&model.Review{}).
		Where("course_id = ?", courseID).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil || avg == nil {
		return 0, err
	}
	return *avg, nil
}
