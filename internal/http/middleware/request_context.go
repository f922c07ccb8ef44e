package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/itinerum-backend/internal/platform/ctxutil"
)

// AttachRequestContext installs an empty RequestData tagged with the API
// version so handlers can fill in the caller.
func AttachRequestContext(apiVersion string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context())
		if rd := ctxutil.GetRequestData(ctx); rd != nil && apiVersion != "" {
			rd.APIVersion = apiVersion
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
