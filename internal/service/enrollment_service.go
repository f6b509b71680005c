package service

import (
	"errors"
	"time"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	ProgressRepo   *repository.ProgressRepository
	LectureRepo    *repository.LectureRepository
	DB             *gorm.DB
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	lectureRepo *repository.LectureRepository,
	db *gorm.DB,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		ProgressRepo:   progressRepo,
		LectureRepo:    lectureRepo,
		DB:             db,
	}
}

// EnrollFree enrolls the student directly in a zero-price course. Paid
// courses only grant enrollment through a confirmed purchase.
func (s *EnrollmentService) EnrollFree(userID uint, courseID string) error {
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
	if course.Price > 0 {
		return util.Validationf("course is not free, purchase it through checkout")
	}
	if course.InstructorID == userID {
		return util.Validationf("cannot enroll in your own course")
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return err
	}
	if enrolled {
		return util.Conflictf("already enrolled in this course")
	}

	now := time.Now()
	return s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.EnrollmentRepo.EnrollAll(tx, userID, []string{courseID}, now); err != nil {
			return err
		}
		return s.ProgressRepo.EnsureForCourses(tx, userID, []string{courseID})
	})
}

// EnrolledCourse is one entry in the student's learning dashboard.
type EnrolledCourse struct {
	Course            model.Course `json:"course"`
	EnrolledAt        time.Time    `json:"enrolledAt"`
	CompletionPercent int          `json:"completionPercent"`
	LastAccessed      *time.Time   `json:"lastAccessed,omitempty"`
}

// ListEnrolled returns the student's courses with their completion state,
// most recently enrolled first.
func (s *EnrollmentService) ListEnrolled(userID uint) ([]EnrolledCourse, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	out := make([]EnrolledCourse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		if enrollment.Course.ID == "" {
			// Course row vanished between list and preload; skip rather
			// than render an empty card.
			continue
		}
		entry := EnrolledCourse{
			Course:     enrollment.Course,
			EnrolledAt: enrollment.EnrolledAt,
		}

		progress, err := s.ProgressRepo.FindByUserAndCourse(userID, enrollment.CourseID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, err
			}
		} else {
			entry.LastAccessed = &progress.LastAccessed

			total, err := s.LectureRepo.CountByCourse(enrollment.CourseID)
			if err != nil {
				return nil, err
			}
			completed, err := s.ProgressRepo.CompletedCurrentCount(progress.ID, enrollment.CourseID)
			if err != nil {
				return nil, err
			}
			entry.CompletionPercent = percentOf(completed, total)
		}

		out = append(out, entry)
	}
	return out, nil
}

func (s *EnrollmentService) IsEnrolled(userID uint, courseID string) (bool, error) {
	return s.EnrollmentRepo.IsEnrolled(userID, courseID)
}
