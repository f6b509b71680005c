package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/pkg/database"
	"learnhub_backend/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	logger.Log = zap.NewNop()
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:     "test-secret-for-unit-tests-only!",
			ExpireTime: time.Hour,
		},
		Stripe: config.StripeConfig{
			Currency: "usd",
		},
	}
}

type fakeCleaner struct {
	media   []string
	folders []string
}

func (f *fakeCleaner) EnqueueDeleteMedia(url string) error {
	f.media = append(f.media, url)
	return nil
}

func (f *fakeCleaner) EnqueueDeleteFolder(folderID string) error {
	f.folders = append(f.folders, folderID)
	return nil
}

type fakePayment struct {
	createErr   error
	retrieveErr error
	paid        bool
	metadata    map[string]string
	lines       []CheckoutLine
}

func (f *fakePayment) CreateSession(ctx context.Context, lines []CheckoutLine, metadata map[string]string) (*CheckoutSession, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.metadata = metadata
	f.lines = lines
	return &CheckoutSession{ID: "cs_test_1", URL: "https://pay.example/cs_test_1"}, nil
}

func (f *fakePayment) RetrieveSession(ctx context.Context, sessionID string) (*SessionStatus, error) {
	if f.retrieveErr != nil {
		return nil, f.retrieveErr
	}
	return &SessionStatus{
		Paid:       f.paid,
		PaymentRef: "pi_test_1",
		Metadata:   f.metadata,
	}, nil
}

func seedUser(t *testing.T, db *gorm.DB, role model.UserRole) *model.User {
	t.Helper()
	user := &model.User{
		Name:      "Test " + string(role),
		Email:     fmt.Sprintf("%s@example.com", uuid.New().String()[:8]),
		Password:  "hashed",
		Role:      role,
		FolderID:  model.GenerateUUID(),
		LastLogin: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedCourse(t *testing.T, db *gorm.DB, instructorID uint, price float64, published bool) *model.Course {
	t.Helper()
	course := &model.Course{
		Title:        "Course " + uuid.New().String()[:8],
		Category:     "engineering",
		Level:        model.Beginner,
		Price:        price,
		InstructorID: instructorID,
		IsPublished:  published,
	}
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedSection(t *testing.T, db *gorm.DB, courseID string, position int) *model.Section {
	t.Helper()
	section := &model.Section{
		CourseID: courseID,
		Title:    fmt.Sprintf("Section %d", position),
		Position: position,
	}
	require.NoError(t, db.Create(section).Error)
	return section
}

// seedLecture inserts a lecture and bumps the course aggregates the same
// way the upload path does.
func seedLecture(t *testing.T, db *gorm.DB, course *model.Course, sectionID string, position int, duration float64) *model.Lecture {
	t.Helper()
	lecture := &model.Lecture{
		SectionID: sectionID,
		CourseID:  course.ID,
		Title:     fmt.Sprintf("Lecture %d", position),
		VideoURL:  "/uploads/" + course.FolderID + "/" + model.GenerateUUID() + ".mp4",
		Duration:  duration,
		Position:  position,
	}
	require.NoError(t, db.Create(lecture).Error)
	require.NoError(t, db.Model(&model.Course{}).
		Where("id = ?", course.ID).
		Updates(map[string]interface{}{
			"total_duration": gorm.Expr("total_duration + ?", duration),
			"total_lectures": gorm.Expr("total_lectures + ?", 1),
		}).Error)
	return lecture
}

func seedEnrollment(t *testing.T, db *gorm.DB, userID uint, courseID string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}).Error)
}

func newContentService(db *gorm.DB, cleaner *fakeCleaner) *ContentService {
	cfg := testConfig()
	return NewContentService(
		repository.NewCourseRepository(db),
		repository.NewSectionRepository(db),
		repository.NewLectureRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		repository.NewReviewRepository(db),
		&StorageService{Provider: &LocalStorageProvider{Config: &cfg.Storage}},
		cleaner,
		cfg,
		nil,
		db,
	)
}

func newProgressService(db *gorm.DB) *ProgressService {
	return NewProgressService(
		repository.NewProgressRepository(db),
		repository.NewLectureRepository(db),
		repository.NewEnrollmentRepository(db),
		db,
	)
}

func newCheckoutService(db *gorm.DB, payment PaymentProvider) *CheckoutService {
	return NewCheckoutService(
		repository.NewPurchaseRepository(db),
		repository.NewCourseRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewProgressRepository(db),
		payment,
		testConfig(),
		db,
	)
}
