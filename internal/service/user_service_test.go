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

func newUserService(db *gorm.DB) *UserService {
	cfg := testConfig()
	return NewUserService(
		repository.NewUserRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		&StorageService{Provider: &LocalStorageProvider{Config: &cfg.Storage}},
		&fakeCleaner{},
	)
}

func TestCartRoundTrip(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)

	require.NoError(t, svc.AddToCart(student.ID, course.ID))
	// Adding again is a no-op, not an error.
	require.NoError(t, svc.AddToCart(student.ID, course.ID))

	cart, err := svc.GetCart(student.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, course.ID, cart[0].ID)

	require.NoError(t, svc.RemoveFromCart(student.ID, course.ID))
	cart, err = svc.GetCart(student.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestAddToCartRejections(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)

	assert.True(t, util.IsKind(svc.AddToCart(student.ID, "no-such-course"), util.KindNotFound))

	draft := seedCourse(t, db, instructor.ID, 10, false)
	assert.True(t, util.IsKind(svc.AddToCart(student.ID, draft.ID), util.KindValidation))

	own := seedCourse(t, db, instructor.ID, 10, true)
	assert.True(t, util.IsKind(svc.AddToCart(instructor.ID, own.ID), util.KindValidation))

	enrolledIn := seedCourse(t, db, instructor.ID, 10, true)
	seedEnrollment(t, db, student.ID, enrolledIn.ID)
	assert.True(t, util.IsKind(svc.AddToCart(student.ID, enrolledIn.ID), util.KindConflict))
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newUserService(db)
	user := seedUser(t, db, model.Student)

	name := "New Name"
	bio := "Short bio"
	updated, err := svc.UpdateProfile(user.ID, ProfileUpdateInput{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "New Name", updated.Name)
	assert.Equal(t, "Short bio", updated.Bio)

	empty := "  "
	_, err = svc.UpdateProfile(user.ID, ProfileUpdateInput{Name: &empty})
	assert.True(t, util.IsKind(err, util.KindValidation))

	long := make([]byte, 401)
	for i := range long {
		long[i] = 'a'
	}
	tooLong := string(long)
	_, err = svc.UpdateProfile(user.ID, ProfileUpdateInput{Bio: &tooLong})
	assert.True(t, util.IsKind(err, util.KindValidation))
}
