package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	CheckoutService *service.CheckoutService
}

func NewCheckoutController(checkoutService *service.CheckoutService) *CheckoutController {
	return &CheckoutController{CheckoutService: checkoutService}
}

type CheckoutRequest struct {
	CourseIDs []string `json:"courseIds" binding:"required"`
}

// InitiateCheckout godoc
// @Summary Start a checkout
// @Description Create a pending purchase and a hosted payment session for the given courses
// @Tags checkout
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body CheckoutRequest true "Courses to buy"
// @Success 201 {object} util.Response{data=service.CheckoutResult} "Created"
// @Failure 400 {object} util.Response "Bad Request"
// @Failure 409 {object} util.Response "Already enrolled"
// @Failure 402 {object} util.Response "Payment session could not be created"
// @Router /api/checkout [post]
func (c *CheckoutController) InitiateCheckout(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CheckoutService.InitiateCheckout(ctx, claims.UserID, req.CourseIDs)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, result)
}

type ConfirmRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// ConfirmPayment godoc
// @Summary Confirm a payment
// @Description Settle the session after the buyer returns; paid sessions enroll the student
// @Tags checkout
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ConfirmRequest true "Session to confirm"
// @Success 200 {object} util.Response{data=service.ConfirmResult} "Success"
// @Failure 402 {object} util.Response "Session could not be retrieved"
// @Failure 404 {object} util.Response "Purchase not found"
// @Router /api/checkout/confirm [post]
func (c *CheckoutController) ConfirmPayment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req ConfirmRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.CheckoutService.ConfirmPayment(ctx, claims.UserID, req.SessionID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// PurchaseStatus godoc
// @Summary Purchase status
// @Tags checkout
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Purchase ID"
// @Success 200 {object} util.Response{data=model.CoursePurchase} "Success"
// @Failure 404 {object} util.Response "Not Found"
// @Router /api/purchases/{id} [get]
func (c *CheckoutController) PurchaseStatus(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	purchase, err := c.CheckoutService.PurchaseStatus(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, purchase)
}

// ListPurchased godoc
// @Summary Purchase history
// @Description List the user's completed purchases
// @Tags checkout
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.CoursePurchase} "Success"
// @Router /api/purchases [get]
func (c *CheckoutController) ListPurchased(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	purchases, err := c.CheckoutService.ListPurchased(claims.UserID)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, purchases)
}
