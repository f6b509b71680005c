package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CheckoutService sells courses. A purchase is pending from session
// creation until the gateway confirms payment; only then does the student
// get enrolled, in the same transaction that completes the purchase.
type CheckoutService struct {
	PurchaseRepo   *repository.PurchaseRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	Payment        PaymentProvider
	Cfg            *config.Config
	DB             *gorm.DB
}

func NewCheckoutService(
	purchaseRepo *repository.PurchaseRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	payment PaymentProvider,
	cfg *config.Config,
	db *gorm.DB,
) *CheckoutService {
	return &CheckoutService{
		PurchaseRepo:   purchaseRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		Payment:        payment,
		Cfg:            cfg,
		DB:             db,
	}
}

type CheckoutResult struct {
	PurchaseID  string  `json:"purchaseId"`
	SessionID   string  `json:"sessionId"`
	CheckoutURL string  `json:"checkoutUrl"`
	Amount      float64 `json:"amount"`
}

type ConfirmResult struct {
	Paid       bool     `json:"paid"`
	PurchaseID string   `json:"purchaseId"`
	CourseIDs  []string `json:"courseIds,omitempty"`
}

// InitiateCheckout validates the basket, writes a pending purchase and
// opens a gateway session for it. Prices come from the database at this
// moment, never from the client. If the gateway call fails the pending
// purchase is rolled back so nothing dangles.
func (s *CheckoutService) InitiateCheckout(ctx context.Context, userID uint, courseIDs []string) (*CheckoutResult, error) {
	courseIDs = dedupe(courseIDs)
	if len(courseIDs) == 0 {
		return nil, util.Validationf("no courses to purchase")
	}

	courses, err := s.CourseRepo.FindByIDs(courseIDs)
	if err != nil {
		return nil, err
	}
	if len(courses) != len(courseIDs) {
		return nil, util.NotFoundf("one or more courses not found")
	}

	var amount float64
	lines := make([]CheckoutLine, 0, len(courses))
	for _, course := range courses {
		if !course.IsPublished {
			return nil, util.Validationf("course %q is not available for purchase", course.Title)
		}
		if course.InstructorID == userID {
			return nil, util.Validationf("cannot purchase your own course")
		}
		enrolled, err := s.EnrollmentRepo.IsEnrolled(userID, course.ID)
		if err != nil {
			return nil, err
		}
		if enrolled {
			return nil, util.Conflictf("already enrolled in %q", course.Title)
		}
		amount += course.Price
		lines = append(lines, CheckoutLine{Name: course.Title, Amount: course.Price})
	}
	if amount <= 0 {
		// The gateway rejects zero-amount sessions; free courses enroll
		// directly instead of going through checkout.
		return nil, util.Validationf("order total must be positive")
	}

	purchase := &model.CoursePurchase{
		UserID:        userID,
		Amount:        amount,
		Currency:      s.Cfg.Stripe.Currency,
		PaymentMethod: "stripe",
		Status:        model.PurchasePending,
	}
	if err := s.PurchaseRepo.CreateWithItems(purchase, courseIDs); err != nil {
		return nil, err
	}

	session, err := s.Payment.CreateSession(ctx, lines, map[string]string{
		"purchaseId": purchase.ID,
		"userId":     strconv.FormatUint(uint64(userID), 10),
		"courseIds":  strings.Join(courseIDs, ","),
	})
	if err != nil {
		// Without a session nobody can ever pay this purchase.
		if delErr := s.PurchaseRepo.Delete(purchase.ID); delErr != nil {
			logger.Log.Error("orphaned pending purchase",
				zap.String("purchaseId", purchase.ID), zap.Error(delErr))
		}
		return nil, util.PaymentErr("could not create checkout session", err)
	}

	return &CheckoutResult{
		PurchaseID:  purchase.ID,
		SessionID:   session.ID,
		CheckoutURL: session.URL,
		Amount:      amount,
	}, nil
}

// ConfirmPayment settles a session after the buyer returns. Paid sessions
// complete the purchase, enroll the student in every purchased course,
// seed progress records and clear those courses from the cart, all in one
// transaction. Unpaid sessions delete the pending purchase and report
// Paid=false; an abandoned checkout is not an error. Confirming an
// already-completed purchase again changes nothing.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, userID uint, sessionID string) (*ConfirmResult, error) {
	if sessionID == "" {
		return nil, util.Validationf("session id is required")
	}

	status, err := s.Payment.RetrieveSession(ctx, sessionID)
	if err != nil {
		return nil, util.PaymentErr("could not retrieve checkout session", err)
	}

	purchaseID := status.Metadata["purchaseId"]
	if purchaseID == "" {
		return nil, util.Validationf("session does not reference a purchase")
	}

	purchase, err := s.PurchaseRepo.FindByID(purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("purchase not found")
		}
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, util.Forbiddenf("purchase belongs to another user")
	}

	courseIDs := make([]string, 0, len(purchase.Items))
	for _, item := range purchase.Items {
		courseIDs = append(courseIDs, item.CourseID)
	}

	if purchase.Status == model.PurchaseCompleted {
		return &ConfirmResult{Paid: true, PurchaseID: purchase.ID, CourseIDs: courseIDs}, nil
	}

	if !status.Paid {
		if err := s.PurchaseRepo.Delete(purchase.ID); err != nil {
			return nil, err
		}
		return &ConfirmResult{Paid: false, PurchaseID: purchase.ID}, nil
	}

	now := time.Now()
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.PurchaseRepo.MarkCompleted(tx, purchase.ID, status.PaymentRef); err != nil {
			return err
		}
		if err := s.EnrollmentRepo.EnrollAll(tx, userID, courseIDs, now); err != nil {
			return err
		}
		if err := s.ProgressRepo.EnsureForCourses(tx, userID, courseIDs); err != nil {
			return err
		}
		return tx.Where("user_id = ? AND course_id IN ?", userID, courseIDs).
			Delete(&model.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	monitoring.PurchasesCompleted.Inc()
	return &ConfirmResult{Paid: true, PurchaseID: purchase.ID, CourseIDs: courseIDs}, nil
}

func (s *CheckoutService) PurchaseStatus(userID uint, purchaseID string) (*model.CoursePurchase, error) {
	purchase, err := s.PurchaseRepo.FindByID(purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("purchase not found")
		}
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, util.Forbiddenf("purchase belongs to another user")
	}
	return purchase, nil
}

func (s *CheckoutService) ListPurchased(userID uint) ([]model.CoursePurchase, error) {
	return s.PurchaseRepo.ListCompletedByUser(userID)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
