// Package middleware provides the gin middleware chain.
package middleware

import (
	"github.com/Vampire-js/techfiesta/pkg/app"
	"github.com/Vampire-js/techfiesta/pkg/code"

	"github.com/gin-gonic/gin"
)

// DefaultAuthCookieName is the session cookie carrying the token for
// browser clients.
const DefaultAuthCookieName = "access_token"

// UserAuthTokenWithConfig authenticates the request. The token is looked
// up in the session cookie first, then the usual header and query spots,
// so both browsers and API clients work.
func UserAuthTokenWithConfig(secretKey string, cookieName string) gin.HandlerFunc {
	if cookieName == "" {
		cookieName = DefaultAuthCookieName
	}
	return func(c *gin.Context) {
		var token string
		response := app.NewResponse(c)

		if s, err := c.Cookie(cookieName); err == nil && s != "" {
			token = s
		} else if s := c.GetHeader("Authorization"); len(s) != 0 {
			token = s
		} else if s := c.GetHeader("authorization"); len(s) != 0 {
			token = s
		} else if s := c.GetHeader("Token"); len(s) != 0 {
			token = s
		} else if s := c.GetHeader("token"); len(s) != 0 {
			token = s
		} else if s, exist := c.GetQuery("token"); exist {
			token = s
		}

		if token == "" {
			response.ToResponse(code.ErrorNotUserAuthToken)
			c.Abort()
			return
		}

		user, err := app.ParseTokenWithKey(token, secretKey)
		if err != nil {
			response.ToResponse(code.ErrorInvalidUserAuthToken)
			c.Abort()
			return
		}
		c.Set("user_token", user)

		c.Next()
	}
}
