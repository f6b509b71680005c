package model

import "time"

// CourseProgress tracks one user's completion state for one course. The
// unique (user_id, course_id) index guarantees at most one row per pair no
// matter how many toggles or payment confirmations race to create it.
//
// Completed lectures live in progress_lectures rows so membership changes
// are single-row inserts/deletes rather than whole-record rewrites. Rows
// may reference lectures that were later deleted from the course; the
// completion percentage always recomputes against the live lecture set, so
// deleting lectures changes percentages retroactively. That is intended.
// swagger:model CourseProgress
type CourseProgress struct {
	UUIDBase
	UserID       uint      `gorm:"index:idx_progress_user_course,unique;not null" json:"userId"`
	CourseID     string    `gorm:"type:varchar(36);index:idx_progress_user_course,unique;not null" json:"courseId"`
	HasReview    bool      `gorm:"default:false" json:"hasReview"`
	LastAccessed time.Time `json:"lastAccessed"`

	CompletedLectures []ProgressLecture `gorm:"foreignKey:ProgressID" json:"completedLectures,omitempty"`
}

func (CourseProgress) TableName() string {
	return "course_progresses"
}

// ProgressLecture marks one lecture completed within a progress record.
// Hard deletes only, so toggling a lecture off frees the unique pair for
// the next toggle on.
type ProgressLecture struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProgressID string    `gorm:"type:varchar(36);index:idx_progress_lecture,unique;not null" json:"progressId"`
	LectureID  string    `gorm:"type:varchar(36);index:idx_progress_lecture,unique;not null" json:"lectureId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (ProgressLecture) TableName() string {
	return "progress_lectures"
}
