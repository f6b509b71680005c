package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type SectionRepository struct {
	DB *gorm.DB
}

func NewSectionRepository(db *gorm.DB) *SectionRepository {
	return &SectionRepository{DB: db}
}

func (r *SectionRepository) Create(tx *gorm.DB, section *model.Section) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Create(section).Error
}

func (r *SectionRepository) FindByID(id string) (*model.Section, error) {
	var section model.Section
	err := r.DB.First(&section, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &section, nil
}

func (r *SectionRepository) UpdateTitle(id, title string) error {
	return r.DB.Model(&model.Section{}).Where("id = ?", id).Update("title", title).Error
}
