package middleware

import (
	"strings"

	"github.com/ananyabshetty/SQL-Detective-Game/internal/config"
	"github.com/ananyabshetty/SQL-Detective-Game/internal/util"
	"github.com/gin-gonic/gin"
)

// AdminAuth gates the instructor endpoints behind a bearer token issued by
// the admin login handler.
func AdminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		cfg := c.MustGet("config").(*config.Config)
		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		if claims.Role != "admin" {
			util.Forbidden(c, "admin access required")
			c.Abort()
			return
		}

		c.Set("admin", claims)
		c.Next()
	}
}
