package middleware

import (
	"github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 handler.
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToResponse(code.ErrorNotFoundAPI)
		c.Abort()
	}
}
