package bootstrap

import "github.com/gin-gonic/gin"

// SetGinMode maps the app environment onto gin's mode; anything that is not
// production or test keeps gin's debug default.
func SetGinMode(env string) {
	switch env {
	case "production":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	}
}
