package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// Recovery converts panics into 500 responses without leaking internals.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)),
					logging.String("stack", string(debug.Stack())),
				)
				resp := common.NewErrorResponse(string(errors.CodeInternal), "internal server error")
				resp.RequestID = GetRequestID(c)
				c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
			}
		}()
		c.Next()
	}
}
