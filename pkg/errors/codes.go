package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeUnauthorized       ErrorCode = "COMMON_003"
	ErrCodeForbidden          ErrorCode = "COMMON_004"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeExternalService    ErrorCode = "COMMON_014"
	ErrCodeNotImplemented     ErrorCode = "COMMON_015"
)

// Short aliases used throughout the codebase.
const (
	CodeInternal       = ErrCodeInternal
	CodeInvalidParam   = ErrCodeBadRequest
	CodeUnauthorized   = ErrCodeUnauthorized
	CodeForbidden      = ErrCodeForbidden
	CodeNotFound       = ErrCodeNotFound
	CodeConflict       = ErrCodeConflict
	CodeRateLimit      = ErrCodeTooManyRequests
	CodeNotImplemented = ErrCodeNotImplemented
	CodeOK             = ErrorCode("OK")
	CodeUnknown        = ErrorCode("")

	CodeDatabaseError = ErrCodeDatabaseError
	CodeCacheError    = ErrCodeCacheError
)

// Complaint Module Error Codes
const (
	ErrCodeComplaintNotFound      ErrorCode = "CMP_001"
	ErrCodeComplaintInvalidDraft  ErrorCode = "CMP_002"
	ErrCodeInvalidTransition      ErrorCode = "CMP_003"
	ErrCodeCategoryUnknown        ErrorCode = "CMP_004"
	ErrCodeDuplicateLinkFailed    ErrorCode = "CMP_005"
	ErrCodeComplaintAlreadyLinked ErrorCode = "CMP_006"
)

// Geography Module Error Codes
const (
	ErrCodeGeoUnitNotFound    ErrorCode = "GEO_001"
	ErrCodeGeoInvalidPoint    ErrorCode = "GEO_002"
	ErrCodeGeoInvalidPolygon  ErrorCode = "GEO_003"
	ErrCodeGeoUnitInactive    ErrorCode = "GEO_004"
	ErrCodeGeoHierarchyBroken ErrorCode = "GEO_005"
)

// Triage Module Error Codes
const (
	ErrCodeTriageResolveFailed   ErrorCode = "TRG_001"
	ErrCodeTriageDedupFailed     ErrorCode = "TRG_002"
	ErrCodeTriageScoringFailed   ErrorCode = "TRG_003"
	ErrCodeTriageInvalidWeights  ErrorCode = "TRG_004"
	ErrCodeSimilarityInputTooBig ErrorCode = "TRG_005"
)

// SLA Module Error Codes
const (
	ErrCodeSLAConfigInvalid ErrorCode = "SLA_001"
	ErrCodeSLASweepFailed   ErrorCode = "SLA_002"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeUnauthorized:       http.StatusUnauthorized,
	ErrCodeForbidden:          http.StatusForbidden,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeExternalService:    http.StatusInternalServerError,
	ErrCodeNotImplemented:     http.StatusNotImplemented,

	ErrCodeComplaintNotFound:      http.StatusNotFound,
	ErrCodeComplaintInvalidDraft:  http.StatusBadRequest,
	ErrCodeInvalidTransition:      http.StatusConflict,
	ErrCodeCategoryUnknown:        http.StatusBadRequest,
	ErrCodeDuplicateLinkFailed:    http.StatusInternalServerError,
	ErrCodeComplaintAlreadyLinked: http.StatusConflict,

	ErrCodeGeoUnitNotFound:    http.StatusNotFound,
	ErrCodeGeoInvalidPoint:    http.StatusBadRequest,
	ErrCodeGeoInvalidPolygon:  http.StatusBadRequest,
	ErrCodeGeoUnitInactive:    http.StatusConflict,
	ErrCodeGeoHierarchyBroken: http.StatusInternalServerError,

	ErrCodeTriageResolveFailed:   http.StatusInternalServerError,
	ErrCodeTriageDedupFailed:     http.StatusInternalServerError,
	ErrCodeTriageScoringFailed:   http.StatusInternalServerError,
	ErrCodeTriageInvalidWeights:  http.StatusInternalServerError,
	ErrCodeSimilarityInputTooBig: http.StatusBadRequest,

	ErrCodeSLAConfigInvalid: http.StatusInternalServerError,
	ErrCodeSLASweepFailed:   http.StatusInternalServerError,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeUnauthorized:       "unauthorized",
	ErrCodeForbidden:          "forbidden",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeExternalService:    "external service error",
	ErrCodeNotImplemented:     "not implemented",

	ErrCodeComplaintNotFound:      "complaint not found",
	ErrCodeComplaintInvalidDraft:  "invalid complaint draft",
	ErrCodeInvalidTransition:      "invalid status transition",
	ErrCodeCategoryUnknown:        "unknown complaint category",
	ErrCodeDuplicateLinkFailed:    "failed to link duplicate complaint",
	ErrCodeComplaintAlreadyLinked: "complaint already linked as duplicate",

	ErrCodeGeoUnitNotFound:    "geographic unit not found",
	ErrCodeGeoInvalidPoint:    "coordinates out of range",
	ErrCodeGeoInvalidPolygon:  "malformed boundary polygon",
	ErrCodeGeoUnitInactive:    "geographic unit is inactive",
	ErrCodeGeoHierarchyBroken: "geographic hierarchy is inconsistent",

	ErrCodeTriageResolveFailed:   "hierarchy resolution failed",
	ErrCodeTriageDedupFailed:     "duplicate detection failed",
	ErrCodeTriageScoringFailed:   "severity scoring failed",
	ErrCodeTriageInvalidWeights:  "triage weights are invalid",
	ErrCodeSimilarityInputTooBig: "similarity input exceeds limit",

	ErrCodeSLAConfigInvalid: "SLA configuration invalid",
	ErrCodeSLASweepFailed:   "SLA breach sweep failed",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}
