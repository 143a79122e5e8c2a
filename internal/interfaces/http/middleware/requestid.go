// Package middleware holds the gin middleware chain for the HTTP API.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// RequestIDHeader is the inbound/outbound request id header.
const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's request id or assigns a new one, storing
// it in both the gin context and the request context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(string(common.ContextKeyRequestID), id)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), common.ContextKeyRequestID, id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the request id stored by RequestID, if any.
func GetRequestID(c *gin.Context) string {
	if v, ok := c.Get(string(common.ContextKeyRequestID)); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
