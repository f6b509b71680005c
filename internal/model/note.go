package model

// Note is a timestamped annotation a student takes while watching a lecture.
// swagger:model Note
type Note struct {
	BaseModel
	UserID    uint   `gorm:"index;not null" json:"userId"`
	CourseID  string `gorm:"type:varchar(36);index" json:"courseId,omitempty"`
	LectureID string `gorm:"type:varchar(36);index" json:"lectureId,omitempty"`
	Content   string `gorm:"type:text;not null" json:"content"`
	TimeStamp string `gorm:"size:20" json:"timeStamp"` // position in the video, e.g. "12:34"
}

func (Note) TableName() string {
	return "notes"
}
