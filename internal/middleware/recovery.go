package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/neuroscan/clinic-api/pkg/errors"
	"github.com/neuroscan/clinic-api/pkg/httputil"
	"github.com/neuroscan/clinic-api/pkg/logger"
)

// Recovery converts panics into 500 responses instead of dropped
// connections.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(fmt.Errorf("%v", r), "panic recovered",
					"path", c.Request.URL.Path,
					"request_id", c.GetString(requestIDKey),
				)
				httputil.RespondWithError(c, errors.Internal(fmt.Errorf("panic: %v", r)))
				c.Abort()
			}
		}()
		c.Next()
	}
}
