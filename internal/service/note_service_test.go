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

func newNoteService(db *gorm.DB) *NoteService {
	return NewNoteService(
		repository.NewNoteRepository(db),
		repository.NewLectureRepository(db),
		repository.NewEnrollmentRepository(db),
	)
}

func TestNoteLifecycle(t *testing.T) {
	db := newTestDB(t)
	svc := newNoteService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)
	lecture := seedLecture(t, db, course, section.ID, 1, 60)
	seedEnrollment(t, db, student.ID, course.ID)

	note, err := svc.Create(student.ID, lecture.ID, NoteInput{Content: "remember this", TimeStamp: "02:15"})
	require.NoError(t, err)
	assert.Equal(t, course.ID, note.CourseID)

	updated, err := svc.Update(student.ID, note.ID, NoteInput{Content: "revised"})
	require.NoError(t, err)
	assert.Equal(t, "revised", updated.Content)
	assert.Equal(t, "02:15", updated.TimeStamp)

	notes, err := svc.ListByLecture(student.ID, lecture.ID)
	require.NoError(t, err)
	require.Len(t, notes, 1)

	require.NoError(t, svc.Delete(student.ID, note.ID))
	notes, err = svc.ListByLecture(student.ID, lecture.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
}

func TestNoteAccessControl(t *testing.T) {
	db := newTestDB(t)
	svc := newNoteService(db)
	instructor := seedUser(t, db, model.Instructor)
	owner := seedUser(t, db, model.Student)
	other := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)
	lecture := seedLecture(t, db, course, section.ID, 1, 60)
	seedEnrollment(t, db, owner.ID, course.ID)

	// Not enrolled.
	_, err := svc.Create(other.ID, lecture.ID, NoteInput{Content: "x"})
	assert.True(t, util.IsKind(err, util.KindForbidden))

	_, err = svc.Create(owner.ID, "no-such-lecture", NoteInput{Content: "x"})
	assert.True(t, util.IsKind(err, util.KindNotFound))

	_, err = svc.Create(owner.ID, lecture.ID, NoteInput{Content: "  "})
	assert.True(t, util.IsKind(err, util.KindValidation))

	note, err := svc.Create(owner.ID, lecture.ID, NoteInput{Content: "mine"})
	require.NoError(t, err)

	_, err = svc.Update(other.ID, note.ID, NoteInput{Content: "hijack"})
	assert.True(t, util.IsKind(err, util.KindForbidden))

	err = svc.Delete(other.ID, note.ID)
	assert.True(t, util.IsKind(err, util.KindForbidden))
}
