package api_router

import (
	"github.com/Vampire-js/techfiesta/internal/app"
	pkgapp "github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"

	"github.com/gin-gonic/gin"
)

type VersionHandler struct {
	*Handler
}

func NewVersionHandler(a *app.App) *VersionHandler {
	return &VersionHandler{
		Handler: NewHandler(a),
	}
}

// ServerVersion returns the build metadata.
func (h *VersionHandler) ServerVersion(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	response.ToResponse(code.Success.WithData(h.App.Version()))
}
