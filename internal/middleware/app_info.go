package middleware

import (
	"github.com/Vampire-js/techfiesta/global"

	"github.com/gin-gonic/gin"
)

func AppInfo() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("app_name", global.Name)
		c.Set("app_version", global.Version)

		c.Next()
	}
}
