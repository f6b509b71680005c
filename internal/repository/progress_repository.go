package repository

import (
	"time"

	"learnhub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndCourse(userID uint, courseID string) (*model.CourseProgress, error) {
	var progress model.CourseProgress
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&progress).Error
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

// EnsureForCourses creates a progress record per course unless one already
// exists for the pair. Existing records are left untouched, so a repeated
// payment confirmation never wipes progress the student has made since.
func (r *ProgressRepository) EnsureForCourses(tx *gorm.DB, userID uint, courseIDs []string) error {
	if tx == nil {
		tx = r.DB
	}
	if len(courseIDs) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]model.CourseProgress, 0, len(courseIDs))
	for _, courseID := range courseIDs {
		rows = append(rows, model.CourseProgress{
			UserID:       userID,
			CourseID:     courseID,
			LastAccessed: now,
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}

// AddCompletedLecture inserts the membership row, reporting false when it
// was already present. The insert itself is the set-add primitive; there
// is no read-modify-write of the whole completed set.
func (r *ProgressRepository) AddCompletedLecture(tx *gorm.DB, progressID, lectureID string) (bool, error) {
	if tx == nil {
		tx = r.DB
	}
	res := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "progress_id"}, {Name: "lecture_id"}},
		DoNothing: true,
	}).Create(&model.ProgressLecture{
		ProgressID: progressID,
		LectureID:  lectureID,
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *ProgressRepository) RemoveCompletedLecture(tx *gorm.DB, progressID, lectureID string) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Where("progress_id = ? AND lecture_id = ?", progressID, lectureID).
		Delete(&model.ProgressLecture{}).Error
}

func (r *ProgressRepository) CompletedLectureIDs(progressID string) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.ProgressLecture{}).
		Where("progress_id = ?", progressID).
		Pluck("lecture_id", &ids).Error
	return ids, err
}

// CompletedCurrentCount counts only completed lectures that still exist in
// the course: the join against live lectures drops stale ids, so deleted
// lectures never inflate the numerator.
func (r *ProgressRepository) CompletedCurrentCount(progressID, courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ProgressLecture{}).
		Joins("JOIN lectures ON lectures.id = progress_lectures.lecture_id AND lectures.deleted_at IS NULL").
		Where("progress_lectures.progress_id = ? AND lectures.course_id = ?", progressID, courseID).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) TouchLastAccessed(userID uint, courseID string) (int64, error) {
	res := r.DB.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("last_accessed", time.Now())
	return res.RowsAffected, res.Error
}

func (r *ProgressRepository) SetHasReview(userID uint, courseID string) error {
	return r.DB.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("has_review", true).Error
}

func (r *ProgressRepository) ListByUser(userID uint) ([]model.CourseProgress, error) {
	var progresses []model.CourseProgress
	err := r.DB.Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&progresses).Error
	return progresses, err
}
