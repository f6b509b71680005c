package controller

import (
	"learnhub_backend/internal/model"
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	ContentService *service.ContentService
}

func NewCourseController(contentService *service.ContentService) *CourseController {
	return &CourseController{ContentService: contentService}
}

// swagger:model CreateCourseRequest
type CreateCourseRequest struct {
	Title       string  `form:"title" binding:"required"`
	Subtitle    string  `form:"subtitle"`
	Description string  `form:"description"`
	Category    string  `form:"category" binding:"required"`
	Level       string  `form:"level"`
	Price       float64 `form:"price"`
}

// CreateCourse godoc
// @Summary Create a course
// @Description Create a draft course, optionally with a thumbnail image
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param title formData string true "Course title"
// @Param subtitle formData string false "Subtitle"
// @Param description formData string false "Description"
// @Param category formData string true "Category"
// @Param level formData string false "Level (beginner, intermediate, advanced)" Enums(beginner, intermediate, advanced)
// @Param price formData number false "Price"
// @Param thumbnail formData file false "Thumbnail image"
// @Success 201 {object} util.Response{data=model.Course} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/instructor/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateCourseRequest
	if err := ctx.ShouldBind(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	thumbnail, _ := ctx.FormFile("thumbnail")

	course, err := c.ContentService.CreateCourse(ctx, claims.UserID, service.CourseInput{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Category:    req.Category,
		Level:       model.CourseLevel(req.Level),
		Price:       req.Price,
	}, thumbnail)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Created(ctx, course)
}

// UpdateCourse godoc
// @Summary Update a course
// @Description Update course fields, replace the thumbnail, or publish
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=model.Course} "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/instructor/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.CourseUpdateInput
	if ctx.ContentType() == "application/json" {
		if err := ctx.ShouldBindJSON(&input); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	} else {
		bindFormUpdate(ctx, &input)
	}

	thumbnail, _ := ctx.FormFile("thumbnail")

	course, err := c.ContentService.UpdateCourse(ctx, claims.UserID, ctx.Param("id"), input, thumbnail)
	if err != nil {
		util.Fail(ctx, err)
		return
	}

	util.Success(ctx, course)
}

// bindFormUpdate reads only the form fields the client actually sent, so
// an omitted field never clobbers the stored value.
func bindFormUpdate(ctx *gin.Context, input *service.CourseUpdateInput) {
	if v, ok := ctx.GetPostForm("title"); ok {
		input.Title = &v
	}
	if v, ok := ctx.GetPostForm("subtitle"); ok {
		input.Subtitle = &v
	}
	if v, ok := ctx.GetPostForm("description"); ok {
		input.Description = &v
	}
	if v, ok := ctx.GetPostForm("category"); ok {
		input.Category = &v
	}
	if v, ok := ctx.GetPostForm("level"); ok {
		level := model.CourseLevel(v)
		input.Level = &level
	}
	if v, ok := ctx.GetPostForm("price"); ok {
		if price, err := util.ParseFloat(v); err == nil {
			input.Price = &price
		}
	}
	if v, ok := ctx.GetPostForm("isPublished"); ok {
		published := v == "true" || v == "1"
		input.IsPublished = &published
	}
}

// DeleteCourse godoc
// @Summary Delete a course
// @Description Remove the course, its content tree and its media assets
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/instructor/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteCourse(ctx, claims.UserID, ctx.Param("id")); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

type SectionRequest struct {
	Title string `json:"title" binding:"required"`
}

// AddSection godoc
// @Summary Add a section
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param body body SectionRequest true "Section data"
// @Success 201 {object} util.Response{data=model.Section} "Created"
// @Failure 400 {object} util.Response "Section cap reached"
// @Router /api/instructor/courses/{id}/sections [post]
func (c *CourseController) AddSection(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.ContentService.AddSection(claims.UserID, ctx.Param("id"), req.Title)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, section)
}

// UpdateSection godoc
// @Summary Rename a section
// @Tags courses
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Section ID"
// @Param body body SectionRequest true "Section data"
// @Success 200 {object} util.Response{data=model.Section} "Success"
// @Router /api/instructor/sections/{id} [put]
func (c *CourseController) UpdateSection(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	section, err := c.ContentService.UpdateSection(claims.UserID, ctx.Param("id"), req.Title)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, section)
}

// DeleteSection godoc
// @Summary Delete a section
// @Description Remove a section with its lectures and their videos
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Section ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/instructor/sections/{id} [delete]
func (c *CourseController) DeleteSection(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteSection(ctx, claims.UserID, ctx.Param("id")); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddLecture godoc
// @Summary Add a lecture
// @Description Upload a lecture video into a section
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Section ID"
// @Param title formData string true "Lecture title"
// @Param video formData file true "Video file"
// @Success 201 {object} util.Response{data=model.Lecture} "Created"
// @Failure 400 {object} util.Response "Invalid video or lecture cap reached"
// @Router /api/instructor/sections/{id}/lectures [post]
func (c *CourseController) AddLecture(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	title := ctx.PostForm("title")
	video, err := ctx.FormFile("video")
	if err != nil {
		util.BadRequest(ctx, "video file is required")
		return
	}

	lecture, err := c.ContentService.AddLecture(ctx, claims.UserID, ctx.Param("id"), title, video)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, lecture)
}

// UpdateLecture godoc
// @Summary Update a lecture
// @Description Rename a lecture and/or replace its video
// @Tags courses
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Lecture ID"
// @Param title formData string false "New title"
// @Param video formData file false "Replacement video"
// @Success 200 {object} util.Response{data=model.Lecture} "Success"
// @Router /api/instructor/lectures/{id} [put]
func (c *CourseController) UpdateLecture(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.LectureUpdateInput
	if v, ok := ctx.GetPostForm("title"); ok {
		input.Title = &v
	}
	video, _ := ctx.FormFile("video")

	lecture, err := c.ContentService.UpdateLecture(ctx, claims.UserID, ctx.Param("id"), input, video)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, lecture)
}

// DeleteLecture godoc
// @Summary Delete a lecture
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Lecture ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/instructor/lectures/{id} [delete]
func (c *CourseController) DeleteLecture(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ContentService.DeleteLecture(ctx, claims.UserID, ctx.Param("id")); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListCourses godoc
// @Summary Browse the catalog
// @Description List all published courses
// @Tags courses
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Course} "Success"
// @Router /api/courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.ContentService.ListPublished(ctx)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// GetCourse godoc
// @Summary Course detail
// @Description Full course tree with rating, audience size and, for the viewer, enrollment state
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=service.CourseDetail} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	var viewerID uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		viewerID = claims.UserID
	}

	detail, err := c.ContentService.GetCourse(ctx, ctx.Param("id"), viewerID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// ListMyCourses godoc
// @Summary Instructor's courses
// @Description List every course the instructor owns, drafts included
// @Tags courses
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course} "Success"
// @Router /api/instructor/courses [get]
func (c *CourseController) ListMyCourses(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.ContentService.ListByInstructor(claims.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, courses)
}
