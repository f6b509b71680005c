package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/repository"
	"learnhub_backend/internal/util"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MediaCleaner schedules asynchronous removal of orphaned media. The
// production implementation is the task queue client; tests swap in a
// recording fake.
type MediaCleaner interface {
	EnqueueDeleteMedia(url string) error
	EnqueueDeleteFolder(folderID string) error
}

const (
	publishedCoursesCacheKey = "courses:published"
	publishedCoursesCacheTTL = 5 * time.Minute
)

// ContentService owns the course content tree: courses, sections and
// lectures, together with their media assets and the denormalized course
// aggregates.
type ContentService struct {
	CourseRepo     *repository.CourseRepository
	SectionRepo    *repository.SectionRepository
	LectureRepo    *repository.LectureRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
	ReviewRepo     *repository.ReviewRepository
	StorageService *StorageService
	Cleaner        MediaCleaner
	Cfg            *config.Config
	Redis          *redis.Client
	DB             *gorm.DB
}

func NewContentService(
	courseRepo *repository.CourseRepository,
	sectionRepo *repository.SectionRepository,
	lectureRepo *repository.LectureRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
	reviewRepo *repository.ReviewRepository,
	storageService *StorageService,
	cleaner MediaCleaner,
	cfg *config.Config,
	rdb *redis.Client,
	db *gorm.DB,
) *ContentService {
	return &ContentService{
		CourseRepo:     courseRepo,
		SectionRepo:    sectionRepo,
		LectureRepo:    lectureRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
		ReviewRepo:     reviewRepo,
		StorageService: storageService,
		Cleaner:        cleaner,
		Cfg:            cfg,
		Redis:          rdb,
		DB:             db,
	}
}

type CourseInput struct {
	Title       string            `json:"title" binding:"required"`
	Subtitle    string            `json:"subtitle"`
	Description string            `json:"description"`
	Category    string            `json:"category" binding:"required"`
	Level       model.CourseLevel `json:"level"`
	Price       float64           `json:"price"`
}

type CourseUpdateInput struct {
	Title       *string            `json:"title"`
	Subtitle    *string            `json:"subtitle"`
	Description *string            `json:"description"`
	Category    *string            `json:"category"`
	Level       *model.CourseLevel `json:"level"`
	Price       *float64           `json:"price"`
	IsPublished *bool              `json:"isPublished"`
}

func validLevel(level model.CourseLevel) bool {
	switch level {
	case model.Beginner, model.Intermediate, model.Advanced:
		return true
	}
	return false
}

func (s *ContentService) CreateCourse(ctx context.Context, instructorID uint, input CourseInput, thumbnail *multipart.FileHeader) (*model.Course, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, util.Validationf("title is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return nil, util.Validationf("category is required")
	}
	if input.Price < 0 {
		return nil, util.Validationf("price cannot be negative")
	}
	if input.Level == "" {
		input.Level = model.Beginner
	}
	if !validLevel(input.Level) {
		return nil, util.Validationf("unknown level %q", input.Level)
	}

	course := &model.Course{
		Title:       input.Title,
		Subtitle:    input.Subtitle,
		Description: input.Description,
		Category:    input.Category,
		Level:       input.Level,
		Price:       input.Price,
		// Assigned here rather than in the create hook because the
		// thumbnail goes into the folder before the row exists.
		FolderID:     model.GenerateUUID(),
		InstructorID: instructorID,
	}

	if thumbnail != nil {
		url, err := s.uploadImage(ctx, course.FolderID, thumbnail)
		if err != nil {
			return nil, err
		}
		course.Thumbnail = url
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}

	s.invalidatePublishedCache(ctx)
	return course, nil
}

func (s *ContentService) UpdateCourse(ctx context.Context, instructorID uint, courseID string, input CourseUpdateInput, thumbnail *multipart.FileHeader) (*model.Course, error) {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, util.Validationf("title cannot be empty")
		}
		fields["title"] = *input.Title
	}
	if input.Subtitle != nil {
		fields["subtitle"] = *input.Subtitle
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Category != nil {
		if strings.TrimSpace(*input.Category) == "" {
			return nil, util.Validationf("category cannot be empty")
		}
		fields["category"] = *input.Category
	}
	if input.Level != nil {
		if !validLevel(*input.Level) {
			return nil, util.Validationf("unknown level %q", *input.Level)
		}
		fields["level"] = *input.Level
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, util.Validationf("price cannot be negative")
		}
		fields["price"] = *input.Price
	}
	if input.IsPublished != nil {
		fields["is_published"] = *input.IsPublished
	}

	oldThumbnail := ""
	if thumbnail != nil {
		url, err := s.uploadImage(ctx, course.FolderID, thumbnail)
		if err != nil {
			return nil, err
		}
		fields["thumbnail"] = url
		oldThumbnail = course.Thumbnail
	}

	if len(fields) > 0 {
		if err := s.CourseRepo.Update(courseID, fields); err != nil {
			return nil, err
		}
	}

	if oldThumbnail != "" {
		s.enqueueMediaDelete(oldThumbnail)
	}

	s.invalidatePublishedCache(ctx)
	return s.CourseRepo.FindByID(courseID)
}

// DeleteCourse removes the course tree and schedules removal of its whole
// asset folder. Purchase history survives the course.
func (s *ContentService) DeleteCourse(ctx context.Context, instructorID uint, courseID string) error {
	course, err := s.ownedCourse(instructorID, courseID)
	if err != nil {
		return err
	}

	if err := s.CourseRepo.DeleteTree(courseID); err != nil {
		return err
	}

	if err := s.Cleaner.EnqueueDeleteFolder(course.FolderID); err != nil {
		logger.Log.Error("enqueue folder cleanup failed",
			zap.String("folderId", course.FolderID), zap.Error(err))
	}

	s.invalidatePublishedCache(ctx)
	return nil
}

func (s *ContentService) AddSection(instructorID uint, courseID, title string) (*model.Section, error) {
	if strings.TrimSpace(title) == "" {
		return nil, util.Validationf("section title is required")
	}
	if _, err := s.ownedCourse(instructorID, courseID); err != nil {
		return nil, err
	}

	section := &model.Section{CourseID: courseID, Title: title}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		count, err := s.CourseRepo.SectionCount(tx, courseID)
		if err != nil {
			return err
		}
		if count >= model.MaxSectionsPerCourse {
			return util.Validationf("course already has the maximum of %d sections", model.MaxSectionsPerCourse)
		}
		section.Position = int(count) + 1
		return s.SectionRepo.Create(tx, section)
	})
	if err != nil {
		return nil, err
	}
	return section, nil
}

func (s *ContentService) UpdateSection(instructorID uint, sectionID, title string) (*model.Section, error) {
	if strings.TrimSpace(title) == "" {
		return nil, util.Validationf("section title is required")
	}

	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("section not found")
		}
		return nil, err
	}
	if _, err := s.ownedCourse(instructorID, section.CourseID); err != nil {
		return nil, err
	}

	if err := s.SectionRepo.UpdateTitle(sectionID, title); err != nil {
		return nil, err
	}
	section.Title = title
	return section, nil
}

// DeleteSection drops the section with its lectures and walks the course
// aggregates back down by exactly what the lectures contributed.
func (s *ContentService) DeleteSection(ctx context.Context, instructorID uint, sectionID string) error {
	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundf("section not found")
		}
		return err
	}
	if _, err := s.ownedCourse(instructorID, section.CourseID); err != nil {
		return err
	}

	// The lecture set is read inside the transaction and deleted by id, so
	// the counter decrement covers exactly the rows removed; a lecture
	// committed concurrently is neither swept nor uncounted.
	var lectures []model.Lecture
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		lectures, err = s.LectureRepo.ListBySection(tx, sectionID)
		if err != nil {
			return err
		}

		if len(lectures) > 0 {
			ids := make([]string, 0, len(lectures))
			var removedDuration float64
			for _, lecture := range lectures {
				ids = append(ids, lecture.ID)
				removedDuration += lecture.Duration
			}
			if err := tx.Where("id IN ?", ids).Delete(&model.Lecture{}).Error; err != nil {
				return err
			}
			if err := tx.Model(&model.Course{}).
				Where("id = ?", section.CourseID).
				Updates(map[string]interface{}{
					"total_duration": gorm.Expr("total_duration - ?", removedDuration),
					"total_lectures": gorm.Expr("total_lectures - ?", len(lectures)),
				}).Error; err != nil {
				return err
			}
		}

		return tx.Where("id = ?", sectionID).Delete(&model.Section{}).Error
	})
	if err != nil {
		return err
	}

	for _, lecture := range lectures {
		if lecture.VideoURL != "" {
			s.enqueueMediaDelete(lecture.VideoURL)
		}
	}
	return nil
}

// AddLecture uploads the video first and only then creates the row, so a
// live lecture always has playable media. If the database write fails the
// uploaded object is scheduled for cleanup.
func (s *ContentService) AddLecture(ctx context.Context, instructorID uint, sectionID, title string, video *multipart.FileHeader) (*model.Lecture, error) {
	if strings.TrimSpace(title) == "" {
		return nil, util.Validationf("lecture title is required")
	}
	if video == nil {
		return nil, util.Validationf("lecture video is required")
	}

	section, err := s.SectionRepo.FindByID(sectionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("section not found")
		}
		return nil, err
	}
	course, err := s.ownedCourse(instructorID, section.CourseID)
	if err != nil {
		return nil, err
	}

	videoURL, duration, err := s.uploadVideo(ctx, course.FolderID, video)
	if err != nil {
		return nil, err
	}

	lecture := &model.Lecture{
		SectionID: sectionID,
		CourseID:  course.ID,
		Title:     title,
		VideoURL:  videoURL,
		Duration:  duration,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		position, err := s.nextLecturePosition(tx, sectionID)
		if err != nil {
			return err
		}
		lecture.Position = position

		if err := tx.Create(lecture).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).
			Where("id = ?", course.ID).
			Updates(map[string]interface{}{
				"total_duration": gorm.Expr("total_duration + ?", duration),
				"total_lectures": gorm.Expr("total_lectures + ?", 1),
			}).Error
	})
	if err != nil {
		s.enqueueMediaDelete(videoURL)
		return nil, err
	}

	monitoring.LecturesUploaded.Inc()
	return lecture, nil
}

// nextLecturePosition reserves the next slot in the section, enforcing the
// per-section lecture cap. Must run inside the transaction that creates the
// lecture so the count cannot go stale.
func (s *ContentService) nextLecturePosition(tx *gorm.DB, sectionID string) (int, error) {
	count, err := s.LectureRepo.CountBySection(tx, sectionID)
	if err != nil {
		return 0, err
	}
	if count >= model.MaxLecturesPerSection {
		return 0, util.Validationf("section already has the maximum of %d lectures", model.MaxLecturesPerSection)
	}
	return int(count) + 1, nil
}

type LectureUpdateInput struct {
	Title *string `json:"title"`
}

func (s *ContentService) UpdateLecture(ctx context.Context, instructorID uint, lectureID string, input LectureUpdateInput, video *multipart.FileHeader) (*model.Lecture, error) {
	lecture, err := s.LectureRepo.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("lecture not found")
		}
		return nil, err
	}
	course, err := s.ownedCourse(instructorID, lecture.CourseID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, util.Validationf("lecture title cannot be empty")
		}
		fields["title"] = *input.Title
		lecture.Title = *input.Title
	}

	oldURL := ""
	if video != nil {
		videoURL, duration, err := s.uploadVideo(ctx, course.FolderID, video)
		if err != nil {
			return nil, err
		}
		fields["video_url"] = videoURL
		fields["duration"] = duration

		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&model.Lecture{}).Where("id = ?", lectureID).Updates(fields).Error; err != nil {
				return err
			}
			return tx.Model(&model.Course{}).
				Where("id = ?", course.ID).
				Update("total_duration", gorm.Expr("total_duration + ?", duration-lecture.Duration)).Error
		})
		if err != nil {
			s.enqueueMediaDelete(videoURL)
			return nil, err
		}

		oldURL = lecture.VideoURL
		lecture.VideoURL = videoURL
		lecture.Duration = duration
	} else if len(fields) > 0 {
		if err := s.DB.Model(&model.Lecture{}).Where("id = ?", lectureID).Updates(fields).Error; err != nil {
			return nil, err
		}
	}

	if oldURL != "" {
		s.enqueueMediaDelete(oldURL)
	}
	return lecture, nil
}

func (s *ContentService) DeleteLecture(ctx context.Context, instructorID uint, lectureID string) error {
	lecture, err := s.LectureRepo.FindByID(lectureID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundf("lecture not found")
		}
		return err
	}
	if _, err := s.ownedCourse(instructorID, lecture.CourseID); err != nil {
		return err
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", lectureID).Delete(&model.Lecture{}).Error; err != nil {
			return err
		}
		return tx.Model(&model.Course{}).
			Where("id = ?", lecture.CourseID).
			Updates(map[string]interface{}{
				"total_duration": gorm.Expr("total_duration - ?", lecture.Duration),
				"total_lectures": gorm.Expr("total_lectures - ?", 1),
			}).Error
	})
	if err != nil {
		return err
	}

	if lecture.VideoURL != "" {
		s.enqueueMediaDelete(lecture.VideoURL)
	}
	return nil
}

// CourseDetail is the course tree plus everything derived: audience size,
// rating, and the viewer's own enrollment state.
type CourseDetail struct {
	*model.Course
	EnrolledCount       int64    `json:"enrolledCount"`
	AverageRating       float64  `json:"averageRating"`
	IsEnrolled          bool     `json:"isEnrolled"`
	CompletedLectureIDs []string `json:"completedLectureIds,omitempty"`
}

// GetCourse returns the full course tree. Unpublished courses are visible
// only to their instructor and to already-enrolled students.
func (s *ContentService) GetCourse(ctx context.Context, courseID string, viewerID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindTree(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("course not found")
		}
		return nil, err
	}

	detail := &CourseDetail{Course: course}

	if viewerID != 0 {
		enrolled, err := s.EnrollmentRepo.IsEnrolled(viewerID, courseID)
		if err != nil {
			return nil, err
		}
		detail.IsEnrolled = enrolled
	}

	if !course.IsPublished && course.InstructorID != viewerID && !detail.IsEnrolled {
		return nil, util.NotFoundf("course not found")
	}

	detail.EnrolledCount, err = s.EnrollmentRepo.CountByCourse(courseID)
	if err != nil {
		return nil, err
	}
	detail.AverageRating, err = s.ReviewRepo.AverageRating(courseID)
	if err != nil {
		return nil, err
	}

	if detail.IsEnrolled {
		progress, err := s.ProgressRepo.FindByUserAndCourse(viewerID, courseID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if progress != nil {
			detail.CompletedLectureIDs, err = s.ProgressRepo.CompletedLectureIDs(progress.ID)
			if err != nil {
				return nil, err
			}
		}
	}

	return detail, nil
}

// ListPublished serves the catalog from redis when it can. The cache is
// dropped on every course mutation, so a stale read lasts at most the TTL
// after a write the invalidation missed.
func (s *ContentService) ListPublished(ctx context.Context) ([]model.Course, error) {
	if s.Redis != nil {
		cached, err := s.Redis.Get(ctx, publishedCoursesCacheKey).Result()
		if err == nil {
			var courses []model.Course
			if err := json.Unmarshal([]byte(cached), &courses); err == nil {
				return courses, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("published courses cache read failed", zap.Error(err))
		}
	}

	courses, err := s.CourseRepo.ListPublished()
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if data, err := json.Marshal(courses); err == nil {
			if err := s.Redis.Set(ctx, publishedCoursesCacheKey, data, publishedCoursesCacheTTL).Err(); err != nil {
				logger.Log.Warn("published courses cache write failed", zap.Error(err))
			}
		}
	}
	return courses, nil
}

func (s *ContentService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByInstructor(instructorID)
}

func (s *ContentService) ownedCourse(instructorID uint, courseID string) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundf("course not found")
		}
		return nil, err
	}
	if course.InstructorID != instructorID {
		return nil, util.Forbiddenf("course belongs to another instructor")
	}
	return course, nil
}

func (s *ContentService) uploadImage(ctx context.Context, folderID string, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeImage}); err != nil {
		return "", util.Validationf("file is not an image: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	url, err := s.StorageService.UploadAsset(ctx, folderID, file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		return "", util.UploadErr("image upload failed", err)
	}
	return url, nil
}

// uploadVideo stages the file locally, verifies it is a real video with a
// readable duration, then pushes it to storage. The returned duration
// feeds the course aggregate.
func (s *ContentService) uploadVideo(ctx context.Context, folderID string, file *multipart.FileHeader) (string, float64, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", 0, util.Validationf("unsupported video extension %q", ext)
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, err
	}
	defer src.Close()

	if _, err := util.ValidateMimeType(src, []string{util.MimeVideo}); err != nil {
		return "", 0, util.Validationf("file is not a video: %v", err)
	}
	if seeker, ok := src.(io.Seeker); ok {
		seeker.Seek(0, io.SeekStart)
	}

	tempDir := filepath.Join(s.Cfg.Storage.LocalPath, "temp")
	if err := os.MkdirAll(tempDir, 0755); err != nil {
		return "", 0, err
	}
	tempPath := filepath.Join(tempDir, fmt.Sprintf("upload_%d%s", time.Now().UnixNano(), ext))
	defer os.Remove(tempPath)

	dst, err := os.Create(tempPath)
	if err != nil {
		return "", 0, err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return "", 0, err
	}
	dst.Close()

	info, err := util.ProbeVideo(tempPath)
	if err != nil {
		return "", 0, util.Validationf("video is not playable: %v", err)
	}

	url, err := s.StorageService.UploadAssetFile(ctx, folderID, file.Filename, tempPath, file.Header.Get("Content-Type"))
	if err != nil {
		return "", 0, util.UploadErr("video upload failed", err)
	}
	return url, info.Duration, nil
}

func (s *ContentService) enqueueMediaDelete(url string) {
	if err := s.Cleaner.EnqueueDeleteMedia(url); err != nil {
		logger.Log.Error("enqueue media cleanup failed", zap.String("url", url), zap.Error(err))
	}
}

func (s *ContentService) invalidatePublishedCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, publishedCoursesCacheKey).Err(); err != nil {
		logger.Log.Warn("published courses cache invalidation failed", zap.Error(err))
	}
}
