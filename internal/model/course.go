package model

import "gorm.io/gorm"

type CourseLevel string

const (
	Beginner     CourseLevel = "beginner"
	Intermediate CourseLevel = "intermediate"
	Advanced     CourseLevel = "advanced"
)

const (
	// MaxSectionsPerCourse caps how many sections a course may hold.
	MaxSectionsPerCourse = 20
	// MaxLecturesPerSection caps how many lectures a section may hold.
	MaxLecturesPerSection = 30
)

// Course is the root of the content tree. TotalDuration and TotalLectures
// are denormalized aggregates maintained incrementally by every lecture
// write; they must always equal the sum over the course's lectures.
// swagger:model Course
type Course struct {
	UUIDBase
	Title       string      `gorm:"size:100;not null" json:"title"`
	Subtitle    string      `gorm:"size:200" json:"subtitle,omitempty"`
	Description string      `gorm:"type:text" json:"description,omitempty"`
	Category    string      `gorm:"size:50;not null" json:"category"`
	Level       CourseLevel `gorm:"type:varchar(20);default:'beginner'" json:"level"`
	Price       float64     `gorm:"not null" json:"price"`
	Thumbnail   string      `gorm:"size:255" json:"thumbnail"`
	// FolderID keys the course's asset folder in object storage. Assigned in
	// BeforeCreate and never changed afterwards.
	FolderID      string  `gorm:"size:36;not null" json:"-"`
	InstructorID  uint    `gorm:"index" json:"instructorId"`
	IsPublished   bool    `gorm:"default:false" json:"isPublished"`
	TotalDuration float64 `gorm:"default:0" json:"totalDuration"`
	TotalLectures int     `gorm:"default:0" json:"totalLectures"`

	Sections []Section `gorm:"foreignKey:CourseID" json:"sections,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if err := c.UUIDBase.BeforeCreate(tx); err != nil {
		return err
	}
	if c.FolderID == "" {
		c.FolderID = GenerateUUID()
	}
	return nil
}

// Section belongs to exactly one course. Position preserves insertion
// order, which is also display order.
// swagger:model Section
type Section struct {
	UUIDBase
	CourseID string `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title    string `gorm:"size:100;not null" json:"title"`
	Position int    `gorm:"not null" json:"position"`

	Lectures []Lecture `gorm:"foreignKey:SectionID" json:"lectures,omitempty"`
}

func (Section) TableName() string {
	return "sections"
}

// Lecture carries playable media. A lecture never exists without a
// successfully uploaded video, so VideoURL is always set on live rows.
// swagger:model Lecture
type Lecture struct {
	UUIDBase
	SectionID string  `gorm:"type:varchar(36);index;not null" json:"sectionId"`
	CourseID  string  `gorm:"type:varchar(36);index;not null" json:"courseId"`
	Title     string  `gorm:"size:100;not null" json:"title"`
	VideoURL  string  `gorm:"size:255" json:"videoUrl"`
	Duration  float64 `gorm:"default:0" json:"duration"` // seconds
	Position  int     `gorm:"not null" json:"position"`
}

func (Lecture) TableName() string {
	return "lectures"
}
