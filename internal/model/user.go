package model

import "time"

type UserRole string

const (
	Student    UserRole = "student"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name         string   `gorm:"size:100;not null" json:"name"`
	Email        string   `gorm:"size:100;unique;not null" json:"email"`
	Password     string   `gorm:"size:100;not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);default:'student'" json:"role"`
	AuthProvider string   `gorm:"size:20;default:'local'" json:"authProvider"`
	Avatar       string   `gorm:"size:255" json:"avatar"`
	Profession   string   `gorm:"size:100" json:"profession,omitempty"`
	Bio          string   `gorm:"size:400" json:"bio,omitempty"`
	// Opaque key for the user's asset folder in object storage, assigned once.
	FolderID  string    `gorm:"size:36;not null" json:"-"`
	LastLogin time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// CartItem is a course sitting in a user's cart. The pair is unique so
// adding the same course twice is a no-op at the database level. Hard
// deletes only: a soft-deleted row would keep the unique index occupied.
type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index:idx_cart_user_course,unique" json:"userId"`
	CourseID  string    `gorm:"type:varchar(36);index:idx_cart_user_course,unique" json:"courseId"`
	CreatedAt time.Time `json:"createdAt"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
