package api_router

import (
	"context"

	"github.com/Vampire-js/techfiesta/internal/app"
	"github.com/Vampire-js/techfiesta/internal/dto"
	"github.com/Vampire-js/techfiesta/internal/middleware"
	pkgapp "github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"
	apperrors "github.com/Vampire-js/techfiesta/pkg/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DocumentHandler handles the document routes. Ownership comes from the
// token; the id alone never grants access.
type DocumentHandler struct {
	*Handler
}

func NewDocumentHandler(a *app.App) *DocumentHandler {
	return &DocumentHandler{
		Handler: NewHandler(a),
	}
}

// Create inserts a folder or note.
func (h *DocumentHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.DocumentCreateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("DocumentHandler.Create.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	doc, err := h.App.DocumentService.Create(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "DocumentHandler.Create", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(doc))
}

// List returns the caller's whole collection.
func (h *DocumentHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	docs, err := h.App.DocumentService.List(ctx, uid)
	if err != nil {
		h.logError(ctx, "DocumentHandler.List", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(docs))
}

// Get returns one document with content.
func (h *DocumentHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.DocumentGetRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("DocumentHandler.Get.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	doc, err := h.App.DocumentService.Get(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "DocumentHandler.Get", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(doc))
}

// UpdateContent saves a note's content wholesale.
func (h *DocumentHandler) UpdateContent(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.DocumentUpdateRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("DocumentHandler.UpdateContent.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	doc, err := h.App.DocumentService.UpdateContent(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "DocumentHandler.UpdateContent", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(doc))
}

// Rename changes the display name.
func (h *DocumentHandler) Rename(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.DocumentRenameRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("DocumentHandler.Rename.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	doc, err := h.App.DocumentService.Rename(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "DocumentHandler.Rename", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(doc))
}

// Move reparents a document.
func (h *DocumentHandler) Move(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.DocumentMoveRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("DocumentHandler.Move.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	doc, err := h.App.DocumentService.Move(ctx, uid, params)
	if err != nil {
		h.logError(ctx, "DocumentHandler.Move", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(doc))
}

// Delete removes a document and, for folders, its whole subtree.
func (h *DocumentHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.DocumentDeleteRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("DocumentHandler.Delete.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	if err := h.App.DocumentService.Delete(ctx, uid, params); err != nil {
		h.logError(ctx, "DocumentHandler.Delete", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

func (h *DocumentHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
