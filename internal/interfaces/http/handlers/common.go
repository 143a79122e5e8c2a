// Package handlers implements the HTTP API over the triage service.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/interfaces/http/middleware"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/types/common"
)

// respond writes a success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	resp := common.NewSuccessResponse(data)
	resp.RequestID = middleware.GetRequestID(c)
	c.JSON(status, resp)
}

// respondError maps an application error to its HTTP status.  Server-side
// codes are masked with their canonical message so internals never leak.
func respondError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	status := errors.HTTPStatusForCode(code)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		message = errors.DefaultMessageForCode(code)
	}

	resp := common.NewErrorResponse(string(code), message)
	resp.RequestID = middleware.GetRequestID(c)
	c.AbortWithStatusJSON(status, resp)
}

// respondBadRequest rejects malformed request bodies.
func respondBadRequest(c *gin.Context, err error) {
	respondError(c, errors.Wrap(err, errors.CodeInvalidParam, "invalid request body"))
}
