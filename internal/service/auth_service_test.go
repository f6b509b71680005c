package service

import (
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testConfig())

	user, token, err := svc.Register(RegisterInput{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, model.Student, user.Role)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEqual(t, "correct-horse", user.Password)
	assert.NotEmpty(t, user.FolderID)

	// Email comparison is case-insensitive at login too.
	logged, token, err := svc.Login("ADA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	_, _, err = svc.Login("ada@example.com", "wrong")
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestRegisterValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(repository.NewUserRepository(db), testConfig())

	_, _, err := svc.Register(RegisterInput{Name: "A", Email: "a@b.com", Password: "short"})
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, _, err = svc.Register(RegisterInput{Name: "A", Email: "a@b.com", Password: "long-enough", Role: model.Admin})
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, _, err = svc.Register(RegisterInput{Name: "A", Email: "a@b.com", Password: "long-enough"})
	require.NoError(t, err)

	_, _, err = svc.Register(RegisterInput{Name: "B", Email: "A@B.com", Password: "long-enough"})
	assert.True(t, util.IsKind(err, util.KindConflict))
}
