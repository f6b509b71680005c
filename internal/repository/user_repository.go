package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(id uint, fields map[string]interface{}) error {
	return r.DB.Model(&model.User{}).Where("id = ?", id).Updates(fields).Error
}

// AddCartItem is a no-op if the course is already in the cart.
func (r *UserRepository) AddCartItem(userID uint, courseID string) error {
	item := model.CartItem{UserID: userID, CourseID: courseID}
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "course_id"}},
		DoNothing: true,
	}).Create(&item).Error
}

func (r *UserRepository) RemoveCartItem(userID uint, courseID string) error {
	return r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&model.CartItem{}).Error
}

func (r *UserRepository) CartCourseIDs(userID uint) ([]string, error) {
	var ids []string
	err := r.DB.Model(&model.CartItem{}).
		Where("user_id = ?", userID).
		Order("created_at").
		Pluck("course_id", &ids).Error
	return ids, err
}

// ClearCart runs inside the caller's transaction when tx is non-nil.
func (r *UserRepository) ClearCart(tx *gorm.DB, userID uint) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}
