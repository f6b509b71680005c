package service

import (
	"errors"
	"math"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

// ProgressService tracks which lectures a student has completed and
// derives completion percentages from the live lecture set.
type ProgressService struct {
	ProgressRepo   *repository.ProgressRepository
	LectureRepo    *repository.LectureRepository
	EnrollmentRepo *repository.EnrollmentRepository
	DB             *gorm.DB
}

func NewProgressService(
	progressRepo *repository.ProgressRepository,
	lectureRepo *repository.LectureRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	db *gorm.DB,
) *ProgressService {
	return &ProgressService{
		ProgressRepo:   progressRepo,
		LectureRepo:    lectureRepo,
		EnrollmentRepo: enrollmentRepo,
		DB:             db,
	}
}

type ToggleResult struct {
	LectureID         string `json:"lectureId"`
	Completed         bool   `json:"completed"`
	CompletionPercent int    `json:"completionPercent"`
}

type CompletionResult struct {
	CourseID            string   `json:"courseId"`
	CompletedCount      int      `json:"completedCount"`
	TotalLectures       int      `json:"totalLectures"`
	CompletionPercent   int      `json:"completionPercent"`
	CompletedLectureIDs []string `json:"completedLectureIds"`
}

// ToggleLecture flips the completed state of one lecture: not completed
// becomes completed, completed becomes not completed. Applying it twice is
// always a no-op, however many requests race on the same pair.
func (s *ProgressService) ToggleLecture(userID uint, lectureID string) (*ToggleResult, error) {
	lecture, err := s.LectureRepo.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("lecture not found")
		}
		return nil, err
	}

	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, lecture.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbiddenf("not enrolled in this course")
	}

	result := &ToggleResult{LectureID: lectureID}
	var progressID string
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.ProgressRepo.EnsureForCourses(tx, userID, []string{lecture.CourseID}); err != nil {
			return err
		}

		var progress model.CourseProgress
		if err := tx.Where("user_id = ? AND course_id = ?", userID, lecture.CourseID).
			First(&progress).Error; err != nil {
			return err
		}
		progressID = progress.ID

		added, err := s.ProgressRepo.AddCompletedLecture(tx, progress.ID, lectureID)
		if err != nil {
			return err
		}
		if !added {
			// Already completed, so this toggle removes it.
			if err := s.ProgressRepo.RemoveCompletedLecture(tx, progress.ID, lectureID); err != nil {
				return err
			}
		}
		result.Completed = added
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.CompletionPercent, err = s.completionPercent(progressID, lecture.CourseID)
	if err != nil {
		return nil, err
	}

	if _, err := s.ProgressRepo.TouchLastAccessed(userID, lecture.CourseID); err != nil {
		return nil, err
	}
	return result, nil
}

// GetCompletion recomputes completion against the lectures the course has
// right now. Completed lectures that were since deleted count for nothing,
// which means percentages move when instructors restructure content.
func (s *ProgressService) GetCompletion(userID uint, courseID string) (*CompletionResult, error) {
	enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, util.Forbiddenf("not enrolled in this course")
	}

	result := &CompletionResult{CourseID: courseID}

	total, err := s.LectureRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	result.TotalLectures = int(total)

	progress, err := s.ProgressRepo.FindByUserAndCourse(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			result.CompletedLectureIDs = []string{}
			return result, nil
		}
		return nil, err
	}

	result.CompletedLectureIDs, err = s.ProgressRepo.CompletedLectureIDs(progress.ID)
	if err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CompletedCurrentCount(progress.ID, courseID)
	if err != nil {
		return nil, err
	}
	result.CompletedCount = int(completed)
	result.CompletionPercent = percentOf(completed, total)
	return result, nil
}

// TouchLastAccessed stamps the progress record with the current time. It
// never creates the record; accessing a course you never started is not
// progress.
func (s *ProgressService) TouchLastAccessed(userID uint, courseID string) error {
	rows, err := s.ProgressRepo.TouchLastAccessed(userID, courseID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return util.NotFoundf("no progress for this course")
	}
	return nil
}

func (s *ProgressService) ListByUser(userID uint) ([]model.CourseProgress, error) {
	return s.ProgressRepo.ListByUser(userID)
}

func (s *ProgressService) completionPercent(progressID, courseID string) (int, error) {
	total, err := s.LectureRepo.CountByCourse(courseID)
	if err != nil {
		return 0, err
	}
	completed, err := s.ProgressRepo.CompletedCurrentCount(progressID, courseID)
	if err != nil {
		return 0, err
	}
	return percentOf(completed, total), nil
}

// percentOf rounds to the nearest whole percent. A course with no lectures
// is 0 percent complete, never a division by zero.
func percentOf(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
