package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService       *service.UserService
	EnrollmentService *service.EnrollmentService
}

func NewUserController(userService *service.UserService, enrollmentService *service.EnrollmentService) *UserController {
	return &UserController{
		UserService:       userService,
		EnrollmentService: enrollmentService,
	}
}

// GetProfile godoc
// @Summary Get profile
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Router /api/users/profile [get]
func (c *UserController) GetProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.UserService.GetProfile(claims.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateProfile godoc
// @Summary Update profile
// @Tags users
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ProfileUpdateInput true "Profile fields"
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Router /api/users/profile [put]
func (c *UserController) UpdateProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.ProfileUpdateInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateProfile(claims.UserID, input)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// UpdateAvatar godoc
// @Summary Upload avatar
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param avatar formData file true "Avatar image"
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Failure 400 {object} util.Response "Not an image"
// @Router /api/users/avatar [put]
func (c *UserController) UpdateAvatar(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("avatar")
	if err != nil {
		util.BadRequest(ctx, "avatar file is required")
		return
	}

	user, err := c.UserService.UpdateAvatar(ctx, claims.UserID, file)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// GetCart godoc
// @Summary View cart
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Course} "Success"
// @Router /api/users/cart [get]
func (c *UserController) GetCart(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.UserService.GetCart(claims.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// AddToCart godoc
// @Summary Add a course to the cart
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response "Success"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/users/cart/{id} [post]
func (c *UserController) AddToCart(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.UserService.AddToCart(claims.UserID, ctx.Param("id")); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// RemoveFromCart godoc
// @Summary Remove a course from the cart
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/users/cart/{id} [delete]
func (c *UserController) RemoveFromCart(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.UserService.RemoveFromCart(claims.UserID, ctx.Param("id")); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// ListEnrolled godoc
// @Summary My courses
// @Description Enrolled courses with completion state, most recent first
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.EnrolledCourse} "Success"
// @Router /api/users/courses [get]
func (c *UserController) ListEnrolled(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.EnrollmentService.ListEnrolled(claims.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// EnrollFree godoc
// @Summary Enroll in a free course
// @Tags users
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response "Success"
// @Failure 400 {object} util.Response "Course is not free"
// @Failure 409 {object} util.Response "Already enrolled"
// @Router /api/courses/{id}/enroll [post]
func (c *UserController) EnrollFree(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.EnrollmentService.EnrollFree(claims.UserID, ctx.Param("id")); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
