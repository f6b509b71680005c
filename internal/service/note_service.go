package service

import (
	"errors"
	"strings"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"gorm.io/gorm"
)

type NoteService struct {
	NoteRepo       *repository.NoteRepository
	LectureRepo    *repository.LectureRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewNoteService(
	noteRepo *repository.NoteRepository,
	lectureRepo *repository.LectureRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *NoteService {
	return &NoteService{
		NoteRepo:       noteRepo,
		LectureRepo:    lectureRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

type NoteInput struct {
	Content   string `json:"content" binding:"required"`
	TimeStamp string `json:"timeStamp"`
}

func (s *NoteService) Create(userID uint, lectureID string, input NoteInput) (*model.Note, error) {
	if strings.TrimSpace(input.Content) == "" {
		return nil, util.Validationf("note content is required")
	}

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

	note := &model.Note{
		UserID:    userID,
		CourseID:  lecture.CourseID,
		LectureID: lectureID,
		Content:   input.Content,
		TimeStamp: input.TimeStamp,
	}
	if err := s.NoteRepo.Create(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) ListByLecture(userID uint, lectureID string) ([]model.Note, error) {
	return s.NoteRepo.ListByUserAndLecture(userID, lectureID)
}

func (s *NoteService) Update(userID uint, noteID uint, input NoteInput) (*model.Note, error) {
	note, err := s.ownedNote(userID, noteID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, util.Validationf("note content is required")
	}

	note.Content = input.Content
	if input.TimeStamp != "" {
		note.TimeStamp = input.TimeStamp
	}
	if err := s.NoteRepo.Update(note); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *NoteService) Delete(userID uint, noteID uint) error {
	if _, err := s.ownedNote(userID, noteID); err != nil {
		return err
	}
	return s.NoteRepo.Delete(noteID)
}

func (s *NoteService) ownedNote(userID uint, noteID uint) (*model.Note, error) {
	note, err := s.NoteRepo.FindByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("note not found")
		}
		return nil, err
	}
	if note.UserID != userID {
		return nil, util.Forbiddenf("note belongs to another user")
	}
	return note, nil
}
