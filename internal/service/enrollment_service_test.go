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

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewProgressRepository(db),
		repository.NewLectureRepository(db),
		db,
	)
}

func TestEnrollFree(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	free := seedCourse(t, db, instructor.ID, 0, true)

	require.NoError(t, svc.EnrollFree(student.ID, free.ID))

	enrolled, err := svc.IsEnrolled(student.ID, free.ID)
	require.NoError(t, err)
	assert.True(t, enrolled)

	var progresses int64
	require.NoError(t, db.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", student.ID, free.ID).
		Count(&progresses).Error)
	assert.Equal(t, int64(1), progresses)

	// Enrolling twice is a conflict, not a duplicate row.
	err = svc.EnrollFree(student.ID, free.ID)
	assert.True(t, util.IsKind(err, util.KindConflict))
}

func TestEnrollFreeRejectsPaidAndDraftCourses(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)

	paid := seedCourse(t, db, instructor.ID, 49.99, true)
	assert.True(t, util.IsKind(svc.EnrollFree(student.ID, paid.ID), util.KindValidation))

	draft := seedCourse(t, db, instructor.ID, 0, false)
	assert.True(t, util.IsKind(svc.EnrollFree(student.ID, draft.ID), util.KindValidation))

	ownFree := seedCourse(t, db, instructor.ID, 0, true)
	assert.True(t, util.IsKind(svc.EnrollFree(instructor.ID, ownFree.ID), util.KindValidation))

	assert.True(t, util.IsKind(svc.EnrollFree(student.ID, "no-such-course"), util.KindNotFound))
}

func TestListEnrolledWithCompletion(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	progressSvc := newProgressService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)
	first := seedLecture(t, db, course, section.ID, 1, 60)
	seedLecture(t, db, course, section.ID, 2, 60)
	seedLecture(t, db, course, section.ID, 3, 60)
	seedEnrollment(t, db, student.ID, course.ID)

	_, err := progressSvc.ToggleLecture(student.ID, first.ID)
	require.NoError(t, err)

	entries, err := svc.ListEnrolled(student.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, course.ID, entries[0].Course.ID)
	assert.Equal(t, 33, entries[0].CompletionPercent)
	assert.NotNil(t, entries[0].LastAccessed)
}
