package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newReviewService(db *gorm.DB) *ReviewService {
	return NewReviewService(
		repository.NewReviewRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		db,
	)
}

func TestCreateReview(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)
	seedEnrollment(t, db, student.ID, course.ID)
	require.NoError(t, db.Create(&model.CourseProgress{UserID: student.ID, CourseID: course.ID}).Error)

	review, err := svc.Create(student.ID, course.ID, ReviewInput{Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.NotEmpty(t, review.ID)

	// The hasReview flag lands in the same transaction as the review.
	reviewed, err := svc.HasReviewed(student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, reviewed)

	_, err = svc.Create(student.ID, course.ID, ReviewInput{Rating: 5, Comment: "again"})
	assert.True(t, util.IsKind(err, util.KindConflict))
}

func TestCreateReviewValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)

	_, err := svc.Create(student.ID, course.ID, ReviewInput{Rating: 0, Comment: "x"})
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = svc.Create(student.ID, course.ID, ReviewInput{Rating: 6, Comment: "x"})
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = svc.Create(student.ID, course.ID, ReviewInput{Rating: 3, Comment: "   "})
	assert.True(t, util.IsKind(err, util.KindValidation))

	// Not enrolled.
	_, err = svc.Create(student.ID, course.ID, ReviewInput{Rating: 3, Comment: "fine"})
	assert.True(t, util.IsKind(err, util.KindForbidden))
}

func TestListReviewsWithAuthors(t *testing.T) {
	db := newTestDB(t)
	svc := newReviewService(db)
	instructor := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, instructor.ID, 10, true)

	for i := 0; i < 3; i++ {
		student := seedUser(t, db, model.Student)
		seedEnrollment(t, db, student.ID, course.ID)
		_, err := svc.Create(student.ID, course.ID, ReviewInput{Rating: i + 3, Comment: "ok"})
		require.NoError(t, err)
	}

	reviews, err := svc.ListByCourse(course.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 3)
	for _, review := range reviews {
		assert.NotEmpty(t, review.User.Name)
	}
}
