package middleware

import (
	"github.com/haierkeys/projectforge-office-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfo 在上下文中放入应用名称、版本与访问地址
func AppInfo(name, version string) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
