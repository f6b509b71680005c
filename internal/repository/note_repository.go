package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type NoteRepository struct {
	DB *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{DB: db}
}

func (r *NoteRepository) Create(note *model.Note) error {
	return r.DB.Create(note).Error
}

func (r *NoteRepository) FindByID(id uint) (*model.Note, error) {
	var note model.Note
	err := r.DB.First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) ListByUserAndLecture(userID uint, lectureID string) ([]model.Note, error) {
	var notes []model.Note
	err := r.DB.Where("user_id = ? AND lecture_id = ?", userID, lectureID).
		Order("time_stamp").
		Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) Update(note *model.Note) error {
	return r.DB.Model(note).Updates(map[string]interface{}{
		"content":    note.Content,
		"time_stamp": note.TimeStamp,
	}).Error
}

func (r *NoteRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Note{}, id).Error
}
