package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ReviewController struct {
	ReviewService *service.ReviewService
}

func NewReviewController(reviewService *service.ReviewService) *ReviewController {
	return &ReviewController{ReviewService: reviewService}
}

// CreateReview godoc
// @Summary Review a course
// @Description One review per enrolled student per course
// @Tags reviews
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Course ID"
// @Param body body service.ReviewInput true "Review"
// @Success 201 {object} util.Response{data=model.Review} "Created"
// @Failure 403 {object} util.Response "Not enrolled"
// @Failure 409 {object} util.Response "Already reviewed"
// @Router /api/courses/{id}/reviews [post]
func (c *ReviewController) CreateReview(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.ReviewInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	review, err := c.ReviewService.Create(claims.UserID, ctx.Param("id"), input)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, review)
}

// ListReviews godoc
// @Summary Course reviews
// @Tags reviews
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} util.Response{data=[]model.Review} "Success"
// @Router /api/courses/{id}/reviews [get]
func (c *ReviewController) ListReviews(ctx *gin.Context) {
	reviews, err := c.ReviewService.ListByCourse(ctx.Param("id"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, reviews)
}
