package service

import (
	"context"
	"errors"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitiateCheckoutValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db, &fakePayment{})
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)

	_, err := svc.InitiateCheckout(context.Background(), student.ID, nil)
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = svc.InitiateCheckout(context.Background(), student.ID, []string{"no-such-course"})
	assert.True(t, util.IsKind(err, util.KindNotFound))

	draft := seedCourse(t, db, instructor.ID, 10, false)
	_, err = svc.InitiateCheckout(context.Background(), student.ID, []string{draft.ID})
	assert.True(t, util.IsKind(err, util.KindValidation))

	own := seedCourse(t, db, instructor.ID, 10, true)
	_, err = svc.InitiateCheckout(context.Background(), instructor.ID, []string{own.ID})
	assert.True(t, util.IsKind(err, util.KindValidation))

	enrolledIn := seedCourse(t, db, instructor.ID, 10, true)
	seedEnrollment(t, db, student.ID, enrolledIn.ID)
	_, err = svc.InitiateCheckout(context.Background(), student.ID, []string{enrolledIn.ID})
	assert.True(t, util.IsKind(err, util.KindConflict))
}

func TestInitiateCheckoutRejectsFreeOrder(t *testing.T) {
	db := newTestDB(t)
	payment := &fakePayment{}
	svc := newCheckoutService(db, payment)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	free := seedCourse(t, db, instructor.ID, 0, true)

	// A zero total never reaches the gateway; the free path is EnrollFree.
	_, err := svc.InitiateCheckout(context.Background(), student.ID, []string{free.ID})
	assert.True(t, util.IsKind(err, util.KindValidation))
	assert.Nil(t, payment.lines)

	var purchases int64
	require.NoError(t, db.Model(&model.CoursePurchase{}).Count(&purchases).Error)
	assert.Zero(t, purchases)
}

func TestInitiateCheckoutPricesFromDatabase(t *testing.T) {
	db := newTestDB(t)
	payment := &fakePayment{}
	svc := newCheckoutService(db, payment)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	courseA := seedCourse(t, db, instructor.ID, 49.99, true)
	courseB := seedCourse(t, db, instructor.ID, 20.01, true)

	result, err := svc.InitiateCheckout(context.Background(), student.ID,
		[]string{courseA.ID, courseB.ID, courseA.ID}) // duplicate collapses
	require.NoError(t, err)
	assert.InDelta(t, 70.0, result.Amount, 0.001)
	assert.Equal(t, "cs_test_1", result.SessionID)
	assert.Len(t, payment.lines, 2)
	assert.Equal(t, result.PurchaseID, payment.metadata["purchaseId"])

	var purchase model.CoursePurchase
	require.NoError(t, db.Preload("Items").First(&purchase, "id = ?", result.PurchaseID).Error)
	assert.Equal(t, model.PurchasePending, purchase.Status)
	assert.Len(t, purchase.Items, 2)
	assert.InDelta(t, 70.0, purchase.Amount, 0.001)
}

func TestInitiateCheckoutSessionFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	svc := newCheckoutService(db, &fakePayment{createErr: errors.New("gateway down")})
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)

	_, err := svc.InitiateCheckout(context.Background(), student.ID, []string{course.ID})
	assert.True(t, util.IsKind(err, util.KindPayment))

	// No half-created purchase is left behind.
	var purchases, items int64
	require.NoError(t, db.Model(&model.CoursePurchase{}).Count(&purchases).Error)
	require.NoError(t, db.Model(&model.PurchaseItem{}).Count(&items).Error)
	assert.Zero(t, purchases)
	assert.Zero(t, items)
}

func TestConfirmPaymentPaid(t *testing.T) {
	db := newTestDB(t)
	payment := &fakePayment{paid: true}
	svc := newCheckoutService(db, payment)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)
	other := seedCourse(t, db, instructor.ID, 15, true)

	// Both courses in the cart, only one being bought.
	require.NoError(t, db.Create(&model.CartItem{UserID: student.ID, CourseID: course.ID}).Error)
	require.NoError(t, db.Create(&model.CartItem{UserID: student.ID, CourseID: other.ID}).Error)

	initiated, err := svc.InitiateCheckout(context.Background(), student.ID, []string{course.ID})
	require.NoError(t, err)

	result, err := svc.ConfirmPayment(context.Background(), student.ID, initiated.SessionID)
	require.NoError(t, err)
	assert.True(t, result.Paid)
	assert.Equal(t, []string{course.ID}, result.CourseIDs)

	var purchase model.CoursePurchase
	require.NoError(t, db.First(&purchase, "id = ?", initiated.PurchaseID).Error)
	assert.Equal(t, model.PurchaseCompleted, purchase.Status)
	assert.Equal(t, "pi_test_1", purchase.PaymentRef)

	var enrollments int64
	require.NoError(t, db.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)

	var progresses int64
	require.NoError(t, db.Model(&model.CourseProgress{}).
		Where("user_id = ? AND course_id = ?", student.ID, course.ID).
		Count(&progresses).Error)
	assert.Equal(t, int64(1), progresses)

	// Only the purchased course leaves the cart.
	var cartIDs []string
	require.NoError(t, db.Model(&model.CartItem{}).
		Where("user_id = ?", student.ID).
		Pluck("course_id", &cartIDs).Error)
	assert.Equal(t, []string{other.ID}, cartIDs)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	db := newTestDB(t)
	payment := &fakePayment{paid: true}
	svc := newCheckoutService(db, payment)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)

	initiated, err := svc.InitiateCheckout(context.Background(), student.ID, []string{course.ID})
	require.NoError(t, err)

	first, err := svc.ConfirmPayment(context.Background(), student.ID, initiated.SessionID)
	require.NoError(t, err)
	second, err := svc.ConfirmPayment(context.Background(), student.ID, initiated.SessionID)
	require.NoError(t, err)

	assert.True(t, first.Paid)
	assert.True(t, second.Paid)
	assert.Equal(t, first.CourseIDs, second.CourseIDs)

	var enrollments int64
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&enrollments).Error)
	assert.Equal(t, int64(1), enrollments)
}

func TestConfirmPaymentUnpaid(t *testing.T) {
	db := newTestDB(t)
	payment := &fakePayment{paid: false}
	svc := newCheckoutService(db, payment)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)

	initiated, err := svc.InitiateCheckout(context.Background(), student.ID, []string{course.ID})
	require.NoError(t, err)

	// Abandoning the checkout is a normal outcome, not an error.
	result, err := svc.ConfirmPayment(context.Background(), student.ID, initiated.SessionID)
	require.NoError(t, err)
	assert.False(t, result.Paid)

	var purchases, enrollments int64
	require.NoError(t, db.Model(&model.CoursePurchase{}).Count(&purchases).Error)
	require.NoError(t, db.Model(&model.Enrollment{}).Count(&enrollments).Error)
	assert.Zero(t, purchases)
	assert.Zero(t, enrollments)
}

func TestConfirmPaymentWrongUser(t *testing.T) {
	db := newTestDB(t)
	payment := &fakePayment{paid: true}
	svc := newCheckoutService(db, payment)
	instructor := seedUser(t, db, model.Instructor)
	buyer := seedUser(t, db, model.Student)
	intruder := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)

	initiated, err := svc.InitiateCheckout(context.Background(), buyer.ID, []string{course.ID})
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(context.Background(), intruder.ID, initiated.SessionID)
	assert.True(t, util.IsKind(err, util.KindForbidden))
}
