package model

import "time"

type PurchaseStatus string

const (
	PurchasePending   PurchaseStatus = "pending"
	PurchaseCompleted PurchaseStatus = "completed"
)

// CoursePurchase is created in pending state together with the hosted
// checkout session and flips to completed exactly once when the provider
// confirms payment. A purchase that never completes is deleted, not
// soft-cancelled, so status only ever moves pending -> completed.
// swagger:model CoursePurchase
type CoursePurchase struct {
	UUIDBase
	UserID        uint           `gorm:"index;not null" json:"userId"`
	Amount        float64        `gorm:"not null" json:"amount"`
	Currency      string         `gorm:"size:10;default:'USD'" json:"currency"`
	PaymentMethod string         `gorm:"size:20;default:'Card'" json:"paymentMethod"`
	Status        PurchaseStatus `gorm:"type:varchar(20);default:'pending'" json:"status"`
	// PaymentRef holds the provider's payment reference once confirmed.
	PaymentRef string `gorm:"size:100" json:"paymentRef,omitempty"`

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

func (CoursePurchase) TableName() string {
	return "course_purchases"
}

// PurchaseItem links a purchase to one of the courses being bought.
type PurchaseItem struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	PurchaseID string    `gorm:"type:varchar(36);index;not null" json:"purchaseId"`
	CourseID   string    `gorm:"type:varchar(36);index;not null" json:"courseId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (PurchaseItem) TableName() string {
	return "purchase_items"
}
