// Package api_router provides the HTTP API route handlers.
package api_router

import (
	"github.com/Vampire-js/techfiesta/internal/app"
)

// Handler is the base handler wrapping the App container. Every API
// handler embeds it to get its dependencies.
type Handler struct {
	App *app.App
}

// NewHandler creates the base Handler.
func NewHandler(a *app.App) *Handler {
	return &Handler{App: a}
}
