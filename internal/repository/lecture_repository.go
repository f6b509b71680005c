package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type LectureRepository struct {
	DB *gorm.DB
}

func NewLectureRepository(db *gorm.DB) *LectureRepository {
	return &LectureRepository{DB: db}
}

func (r *LectureRepository) FindByID(id string) (*model.Lecture, error) {
	var lecture model.Lecture
	err := r.DB.First(&lecture, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &lecture, nil
}

func (r *LectureRepository) CountBySection(tx *gorm.DB, sectionID string) (int64, error) {
	if tx == nil {
		tx = r.DB
	}
	var count int64
	err := tx.Model(&model.Lecture{}).Where("section_id = ?", sectionID).Count(&count).Error
	return count, err
}

// CountByCourse is the denominator of every completion percentage: the
// number of lectures currently reachable from the course.
func (r *LectureRepository) CountByCourse(courseID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lecture{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *LectureRepository) ListBySection(tx *gorm.DB, sectionID string) ([]model.Lecture, error) {
	if tx == nil {
		tx = r.DB
	}
	var lectures []model.Lecture
	err := tx.Where("section_id = ?", sectionID).Order("position").Find(&lectures).Error
	return lectures, err
}
