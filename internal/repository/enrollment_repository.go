package repository

import (
	"time"

	"learnhub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

// EnrollAll appends an enrollment per course, skipping pairs that already
// exist. The conflict-ignoring insert is what makes enrolling idempotent:
// calling this twice with overlapping course sets never duplicates a row.
// Runs inside the caller's transaction when tx is non-nil.
func (r *EnrollmentRepository) EnrollAll(tx *gorm.DB, userID uint, courseIDs []string, at time.Time) error {
	if tx == nil {
		tx = r.DB
	}
	if len(courseIDs) == 0 {
		return nil
	}

	rows := make([]model.Enrollment, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		rows = append(rows, model.Enrollment{
			UserID:     userID,
			CourseID:   courseID,
			EnrolledAt: at,
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

func (r *EnrollmentRepository) IsEnrolled(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").
		Where("user_id = ?", userID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	return enrollments, err
}

// CountByCourse is the size of the course's enrolled-student set.
func (r *EnrollmentRepository) CountByCourse(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}
