package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// FindTree loads the course with its sections and lectures in display
// order.
func (r *CourseRepository) FindTree(id string) (*model.Course, error) {
	var course model.Course
	err := r.DB.
		Preload("Sections", func(db *gorm.DB) *gorm.DB {
			return db.Order("sections.position")
		}).
		Preload("Sections.Lectures", func(db *gorm.DB) *gorm.DB {
			return db.Order("lectures.position")
		}).
		First(&course, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *CourseRepository) FindByIDs(ids []string) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("is_published = ?", true).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) ListByInstructor(instructorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("instructor_id = ?", instructorID).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) Update(id string, fields map[string]interface{}) error {
	return r.DB.Model(&model.Course{}).Where("id = ?", id).Updates(fields).Error
}

func (r *CourseRepository) SectionCount(tx *gorm.DB, courseID string) (int64, error) {
	if tx == nil {
		tx = r.DB
	}
	var count int64
	err := tx.Model(&model.Section{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

// DeleteTree removes the course and everything hanging off it in one
// transaction: lectures, sections, progress rows (with their completed
// sets), enrollments, cart references, reviews and notes. Purchases are
// kept as financial history.
func (r *CourseRepository) DeleteTree(courseID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var progressIDs []string
		if err := tx.Model(&model.CourseProgress{}).
			Where("course_id = ?", courseID).
			Pluck("id", &progressIDs).Error; err != nil {
			return err
		}
		if len(progressIDs) > 0 {
			if err := tx.Where("progress_id IN ?", progressIDs).
				Delete(&model.ProgressLecture{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.CourseProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Note{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Lecture{}).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", courseID).Delete(&model.Section{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", courseID).Delete(&model.Course{}).Error
	})
}
