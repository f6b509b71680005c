package service

import (
	"context"
	"testing"

	"learnhub_backend/internal/model"
	"learnhub_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateCourseValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	instructor := seedUser(t, db, model.Instructor)

	_, err := svc.CreateCourse(context.Background(), instructor.ID, CourseInput{
		Title: "", Category: "engineering",
	}, nil)
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = svc.CreateCourse(context.Background(), instructor.ID, CourseInput{
		Title: "Go", Category: "engineering", Price: -1,
	}, nil)
	assert.True(t, util.IsKind(err, util.KindValidation))

	_, err = svc.CreateCourse(context.Background(), instructor.ID, CourseInput{
		Title: "Go", Category: "engineering", Level: "expert",
	}, nil)
	assert.True(t, util.IsKind(err, util.KindValidation))

	course, err := svc.CreateCourse(context.Background(), instructor.ID, CourseInput{
		Title: "Go", Category: "engineering", Price: 49.99,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, model.Beginner, course.Level)
	assert.NotEmpty(t, course.FolderID)
	assert.False(t, course.IsPublished)
}

func TestAddSectionCapAndPosition(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	instructor := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, instructor.ID, 10, true)

	for i := 1; i < model.MaxSectionsPerCourse; i++ {
		seedSection(t, db, course.ID, i)
	}

	section, err := svc.AddSection(instructor.ID, course.ID, "Last one")
	require.NoError(t, err)
	assert.Equal(t, model.MaxSectionsPerCourse, section.Position)

	_, err = svc.AddSection(instructor.ID, course.ID, "One too many")
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestAddSectionOwnership(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	owner := seedUser(t, db, model.Instructor)
	other := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, owner.ID, 10, true)

	_, err := svc.AddSection(other.ID, course.ID, "Intro")
	assert.True(t, util.IsKind(err, util.KindForbidden))

	_, err = svc.AddSection(owner.ID, "no-such-course", "Intro")
	assert.True(t, util.IsKind(err, util.KindNotFound))
}

func TestDeleteLectureMaintainsAggregates(t *testing.T) {
	db := newTestDB(t)
	cleaner := &fakeCleaner{}
	svc := newContentService(db, cleaner)
	instructor := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)
	keep := seedLecture(t, db, course, section.ID, 1, 120)
	doomed := seedLecture(t, db, course, section.ID, 2, 300)

	require.NoError(t, svc.DeleteLecture(context.Background(), instructor.ID, doomed.ID))

	var fresh model.Course
	require.NoError(t, db.First(&fresh, "id = ?", course.ID).Error)
	assert.Equal(t, 1, fresh.TotalLectures)
	assert.InDelta(t, keep.Duration, fresh.TotalDuration, 0.001)
	assert.Equal(t, []string{doomed.VideoURL}, cleaner.media)

	err := db.First(&model.Lecture{}, "id = ?", doomed.ID).Error
	assert.Error(t, err)
}

func TestDeleteSectionRemovesLecturesAndTotals(t *testing.T) {
	db := newTestDB(t)
	cleaner := &fakeCleaner{}
	svc := newContentService(db, cleaner)
	instructor := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, instructor.ID, 10, true)
	sectionA := seedSection(t, db, course.ID, 1)
	sectionB := seedSection(t, db, course.ID, 2)
	seedLecture(t, db, course, sectionA.ID, 1, 100)
	seedLecture(t, db, course, sectionA.ID, 2, 200)
	survivor := seedLecture(t, db, course, sectionB.ID, 1, 50)

	require.NoError(t, svc.DeleteSection(context.Background(), instructor.ID, sectionA.ID))

	var fresh model.Course
	require.NoError(t, db.First(&fresh, "id = ?", course.ID).Error)
	assert.Equal(t, 1, fresh.TotalLectures)
	assert.InDelta(t, survivor.Duration, fresh.TotalDuration, 0.001)
	assert.Len(t, cleaner.media, 2)

	var count int64
	require.NoError(t, db.Model(&model.Lecture{}).Where("section_id = ?", sectionA.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteSectionCountsOnlyDeletedLectures(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	instructor := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)
	seedLecture(t, db, course, section.ID, 1, 100)
	seedLecture(t, db, course, section.ID, 2, 200)

	// Land a lecture after the section's lectures were listed but before
	// they are removed, the way a concurrent upload commits mid-delete.
	injected := false
	require.NoError(t, db.Callback().Delete().Before("gorm:delete").Register("inject_lecture", func(tx *gorm.DB) {
		if injected || tx.Statement.Table != "lectures" {
			return
		}
		injected = true
		session := tx.Session(&gorm.Session{NewDB: true})
		late := &model.Lecture{
			SectionID: section.ID,
			CourseID:  course.ID,
			Title:     "Late arrival",
			VideoURL:  "/uploads/" + course.FolderID + "/late.mp4",
			Duration:  40,
			Position:  3,
		}
		require.NoError(t, session.Create(late).Error)
		require.NoError(t, session.Model(&model.Course{}).
			Where("id = ?", course.ID).
			Updates(map[string]interface{}{
				"total_duration": gorm.Expr("total_duration + ?", late.Duration),
				"total_lectures": gorm.Expr("total_lectures + ?", 1),
			}).Error)
	}))

	require.NoError(t, svc.DeleteSection(context.Background(), instructor.ID, section.ID))

	// The late lecture was never part of the deleted set, so it survives
	// and the aggregates still match the surviving rows.
	var survivors int64
	require.NoError(t, db.Model(&model.Lecture{}).Where("course_id = ?", course.ID).Count(&survivors).Error)
	assert.Equal(t, int64(1), survivors)

	var fresh model.Course
	require.NoError(t, db.First(&fresh, "id = ?", course.ID).Error)
	assert.Equal(t, 1, fresh.TotalLectures)
	assert.InDelta(t, 40.0, fresh.TotalDuration, 0.001)
}

func TestLectureCapPerSection(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	instructor := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)

	for i := 1; i < model.MaxLecturesPerSection; i++ {
		seedLecture(t, db, course, section.ID, i, 10)
	}

	position, err := svc.nextLecturePosition(db, section.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MaxLecturesPerSection, position)

	seedLecture(t, db, course, section.ID, model.MaxLecturesPerSection, 10)
	_, err = svc.nextLecturePosition(db, section.ID)
	assert.True(t, util.IsKind(err, util.KindValidation))
}

func TestDeleteCourseCascades(t *testing.T) {
	db := newTestDB(t)
	cleaner := &fakeCleaner{}
	svc := newContentService(db, cleaner)
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)
	lecture := seedLecture(t, db, course, section.ID, 1, 60)

	seedEnrollment(t, db, student.ID, course.ID)
	progress := &model.CourseProgress{UserID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(progress).Error)
	require.NoError(t, db.Create(&model.ProgressLecture{ProgressID: progress.ID, LectureID: lecture.ID}).Error)
	require.NoError(t, db.Create(&model.CartItem{UserID: instructor.ID, CourseID: course.ID}).Error)
	require.NoError(t, db.Create(&model.Review{UserID: student.ID, CourseID: course.ID, Rating: 5, Comment: "great"}).Error)
	require.NoError(t, db.Create(&model.Note{UserID: student.ID, CourseID: course.ID, LectureID: lecture.ID, Content: "hm"}).Error)

	purchase := &model.CoursePurchase{UserID: student.ID, Amount: 10, Status: model.PurchaseCompleted}
	require.NoError(t, db.Create(purchase).Error)
	require.NoError(t, db.Create(&model.PurchaseItem{PurchaseID: purchase.ID, CourseID: course.ID}).Error)

	require.NoError(t, svc.DeleteCourse(context.Background(), instructor.ID, course.ID))

	counts := map[string]interface{}{
		"enrollments":       &model.Enrollment{},
		"progresses":        &model.CourseProgress{},
		"progress_lectures": &model.ProgressLecture{},
		"cart items":        &model.CartItem{},
		"reviews":           &model.Review{},
		"notes":             &model.Note{},
		"lectures":          &model.Lecture{},
		"sections":          &model.Section{},
	}
	for name, m := range counts {
		var count int64
		require.NoError(t, db.Model(m).Count(&count).Error)
		assert.Zero(t, count, name)
	}

	// Purchase history outlives the course.
	var purchases int64
	require.NoError(t, db.Model(&model.CoursePurchase{}).Count(&purchases).Error)
	assert.Equal(t, int64(1), purchases)

	assert.Equal(t, []string{course.FolderID}, cleaner.folders)
}

func TestGetCourseVisibility(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	instructor := seedUser(t, db, model.Instructor)
	stranger := seedUser(t, db, model.Student)
	enrolled := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, false)
	seedEnrollment(t, db, enrolled.ID, course.ID)

	_, err := svc.GetCourse(context.Background(), course.ID, stranger.ID)
	assert.True(t, util.IsKind(err, util.KindNotFound))

	_, err = svc.GetCourse(context.Background(), course.ID, 0)
	assert.True(t, util.IsKind(err, util.KindNotFound))

	detail, err := svc.GetCourse(context.Background(), course.ID, instructor.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsEnrolled)

	detail, err = svc.GetCourse(context.Background(), course.ID, enrolled.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsEnrolled)
	assert.Equal(t, int64(1), detail.EnrolledCount)
}

func TestGetCourseCompletedOverlay(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	instructor := seedUser(t, db, model.Instructor)
	student := seedUser(t, db, model.Student)
	course := seedCourse(t, db, instructor.ID, 10, true)
	section := seedSection(t, db, course.ID, 1)
	done := seedLecture(t, db, course, section.ID, 1, 60)
	seedLecture(t, db, course, section.ID, 2, 60)

	seedEnrollment(t, db, student.ID, course.ID)
	progress := &model.CourseProgress{UserID: student.ID, CourseID: course.ID}
	require.NoError(t, db.Create(progress).Error)
	require.NoError(t, db.Create(&model.ProgressLecture{ProgressID: progress.ID, LectureID: done.ID}).Error)

	detail, err := svc.GetCourse(context.Background(), course.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{done.ID}, detail.CompletedLectureIDs)
	require.Len(t, detail.Sections, 1)
	assert.Len(t, detail.Sections[0].Lectures, 2)
}

func TestUpdateCoursePublish(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db, &fakeCleaner{})
	instructor := seedUser(t, db, model.Instructor)
	course := seedCourse(t, db, instructor.ID, 10, false)

	published := true
	newPrice := 99.0
	updated, err := svc.UpdateCourse(context.Background(), instructor.ID, course.ID, CourseUpdateInput{
		IsPublished: &published,
		Price:       &newPrice,
	}, nil)
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	assert.InDelta(t, 99.0, updated.Price, 0.001)
}
