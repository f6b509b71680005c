package controller

import (
	"learnhub_backend/internal/service"
	"learnhub_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type NoteController struct {
	NoteService *service.NoteService
}

func NewNoteController(noteService *service.NoteService) *NoteController {
	return &NoteController{NoteService: noteService}
}

// CreateNote godoc
// @Summary Take a note
// @Description Attach a timestamped note to a lecture
// @Tags notes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Lecture ID"
// @Param body body service.NoteInput true "Note"
// @Success 201 {object} util.Response{data=model.Note} "Created"
// @Failure 403 {object} util.Response "Not enrolled"
// @Router /api/lectures/{id}/notes [post]
func (c *NoteController) CreateNote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.NoteInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note, err := c.NoteService.Create(claims.UserID, ctx.Param("id"), input)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Created(ctx, note)
}

// ListNotes godoc
// @Summary My notes for a lecture
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Lecture ID"
// @Success 200 {object} util.Response{data=[]model.Note} "Success"
// @Router /api/lectures/{id}/notes [get]
func (c *NoteController) ListNotes(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	notes, err := c.NoteService.ListByLecture(claims.UserID, ctx.Param("id"))
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, notes)
}

// UpdateNote godoc
// @Summary Edit a note
// @Tags notes
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Param body body service.NoteInput true "Note"
// @Success 200 {object} util.Response{data=model.Note} "Success"
// @Failure 403 {object} util.Response "Forbidden"
// @Router /api/notes/{id} [put]
func (c *NoteController) UpdateNote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var input service.NoteInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	note, err := c.NoteService.Update(claims.UserID, util.MustParseUint(ctx.Param("id")), input)
	if err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, note)
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Note ID"
// @Success 200 {object} util.Response "Success"
// @Router /api/notes/{id} [delete]
func (c *NoteController) DeleteNote(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.NoteService.Delete(claims.UserID, util.MustParseUint(ctx.Param("id"))); err != nil {
		util.Fail(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
