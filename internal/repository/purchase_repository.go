package repository

import (
	"learnhub_backend/internal/model"

	"gorm.io/gorm"
)

type PurchaseRepository struct {
	DB *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{DB: db}
}

// CreateWithItems writes the pending purchase and its course lines in one
// transaction.
func (r *PurchaseRepository) CreateWithItems(purchase *model.CoursePurchase, courseIDs []string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		items := make([]model.PurchaseItem, 0, len(courseIDs))
		for _, courseID := range courseIDs {
			items = append(items, model.PurchaseItem{
				PurchaseID: purchase.ID,
				CourseID:   courseID,
			})
		}
		return tx.Create(&items).Error
	})
}

func (r *PurchaseRepository) FindByID(id string) (*model.CoursePurchase, error) {
	var purchase model.CoursePurchase
	err := r.DB.Preload("Items").First(&purchase, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// MarkCompleted sets the terminal status and provider reference. Applying
// it again to an already-completed purchase rewrites the same values, so a
// re-confirm is harmless.
func (r *PurchaseRepository) MarkCompleted(tx *gorm.DB, id, paymentRef string) error {
	if tx == nil {
		tx = r.DB
	}
	return tx.Model(&model.CoursePurchase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      model.PurchaseCompleted,
			"payment_ref": paymentRef,
		}).Error
}

// Delete removes an unpaid pending purchase and its items.
func (r *PurchaseRepository) Delete(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("purchase_id = ?", id).Delete(&model.PurchaseItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("id = ?", id).Delete(&model.CoursePurchase{}).Error
	})
}

func (r *PurchaseRepository) HasCompletedForCourse(userID uint, courseID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.PurchaseItem{}).
		Joins("JOIN course_purchases ON course_purchases.id = purchase_items.purchase_id").
		Where("course_purchases.user_id = ? AND course_purchases.status = ? AND purchase_items.course_id = ?",
			userID, model.PurchaseCompleted, courseID).
		Count(&count).Error
	return count > 0, err
}

func (r *PurchaseRepository) ListCompletedByUser(userID uint) ([]model.CoursePurchase, error) {
	var purchases []model.CoursePurchase
	err := r.DB.Preload("Items").
		Where("user_id = ? AND status = ?", userID, model.PurchaseCompleted).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
