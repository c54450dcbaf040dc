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

// UserHandler handles account routes. The login flow doubles the token
// into the session cookie so browser clients authenticate without
// touching headers.
type UserHandler struct {
	*Handler
}

func NewUserHandler(a *app.App) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(a),
	}
}

// cookieMaxAge converts the configured token expiry to cookie seconds.
func (h *UserHandler) cookieMaxAge() int {
	return int(h.App.Config().GetTokenExpiry().Seconds())
}

func (h *UserHandler) setAuthCookie(c *gin.Context, token string) {
	c.SetCookie(h.App.Config().Security.AuthCookieName, token, h.cookieMaxAge(), "/", "", false, true)
}

func (h *UserHandler) clearAuthCookie(c *gin.Context) {
	c.SetCookie(h.App.Config().Security.AuthCookieName, "", -1, "/", "", false, true)
}

// Register creates an account and starts a session.
func (h *UserHandler) Register(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserRegisterRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Register.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()

	userDTO, err := h.App.UserService.Register(ctx, params)
	if err != nil {
		h.logError(ctx, "UserHandler.Register", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	h.setAuthCookie(c, userDTO.Token)
	response.ToResponse(code.Success.WithData(userDTO))
}

// Login authenticates by email or username and starts a session.
func (h *UserHandler) Login(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserLoginRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.Login.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	clientIP := c.ClientIP()

	userDTO, err := h.App.UserService.Login(ctx, params, clientIP)
	if err != nil {
		h.logError(ctx, "UserHandler.Login", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	h.setAuthCookie(c, userDTO.Token)
	response.ToResponse(code.Success.WithData(userDTO))
}

// Logout drops the session cookie.
func (h *UserHandler) Logout(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	h.clearAuthCookie(c)
	response.ToResponse(code.Success)
}

// Check reports whether the presented token is still valid. Runs behind
// the auth middleware, so reaching here means yes.
func (h *UserHandler) Check(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	uid := pkgapp.GetUID(c)
	response.ToResponse(code.Success.WithData(gin.H{"uid": uid}))
}

// UserInfo returns the authenticated account profile.
func (h *UserHandler) UserInfo(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	userDTO, err := h.App.UserService.GetInfo(ctx, uid)
	if err != nil {
		h.logError(ctx, "UserHandler.UserInfo", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success.WithData(userDTO))
}

// UserChangePassword changes the password after verifying the old one.
func (h *UserHandler) UserChangePassword(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &dto.UserChangePasswordRequest{}

	valid, errs := pkgapp.BindAndValid(c, params)
	if !valid {
		h.App.Logger().Error("UserHandler.UserChangePassword.BindAndValid errs", zap.Error(errs))
		response.ToResponse(code.ErrorInvalidParams.WithDetails(errs.ErrorsToString()).WithData(errs.MapsToString()))
		return
	}

	ctx := c.Request.Context()
	uid := pkgapp.GetUID(c)

	if err := h.App.UserService.ChangePassword(ctx, uid, params); err != nil {
		h.logError(ctx, "UserHandler.UserChangePassword", err)
		apperrors.ErrorResponse(c, err)
		return
	}

	response.ToResponse(code.Success)
}

// logError records an error log line including the trace id.
func (h *UserHandler) logError(ctx context.Context, method string, err error) {
	traceID := middleware.GetTraceID(ctx)
	h.App.Logger().Error(method,
		zap.Error(err),
		zap.String("traceId", traceID),
	)
}
