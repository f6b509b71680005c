package model

// swagger:model Review
type Review struct {
	BaseModel
	UserID   uint   `gorm:"index;not null" json:"userId"`
	CourseID string `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Rating   int    `gorm:"not null" json:"rating"` // 1..5
	Comment  string `gorm:"type:text;not null" json:"comment"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
