package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// ToggleLecture godoc
// @Summary Toggle lecture completion
// @Description Mark a lecture completed, or un-mark it if it already was
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Lecture ID"
// @Success 200 {object} util.Response{data=service.ToggleResult} "Success"
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 404 {object} util.Response "Lecture not found"
// @Router /api/progress/lectures/{id}/toggle [post]
func (c *ProgressController) ToggleLecture(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressService.ToggleLecture(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetCompletion godoc
// @Summary Course completion
// @Description Completed lecture set and percentage for one course
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=service.CompletionResult} "Success"
// @Failure 403 {object} util.Response "Not enrolled"
// @Router /api/progress/courses/{id} [get]
func (c *ProgressController) GetCompletion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ProgressService.GetCompletion(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// TouchLastAccessed godoc
// @Summary Record course access
// @Description Stamp the course's progress record with the current time
// @Tags progress
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response "Success"
// @Failure 404 {object} util.Response "No progress for this course"
// @Router /api/progress/courses/{id}/touch [post]
func (c *ProgressController) TouchLastAccessed(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ProgressService.TouchLastAccessed(claims.UserID, ctx.Param("id")); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
