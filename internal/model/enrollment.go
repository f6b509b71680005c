package model

import "time"

// Enrollment is one user's access to one course. The unique pair index is
// what makes enrolling idempotent: a second insert for the same pair is a
// conflict, not a duplicate. It doubles as the course's enrolled-student
// set, so there is no separate counter to keep in sync.
// swagger:model Enrollment
type Enrollment struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     uint      `gorm:"index:idx_enroll_user_course,unique;not null" json:"userId"`
	CourseID   string    `gorm:"type:varchar(36);index:idx_enroll_user_course,unique;not null" json:"courseId"`
	EnrolledAt time.Time `gorm:"not null" json:"enrolledAt"`

	Course Course `gorm:"foreignKey:CourseID" json:"course,omitempty"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
