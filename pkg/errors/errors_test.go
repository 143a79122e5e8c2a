package errors

import (
	stderrors "errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_CarriesCodeAndMessage(t *testing.T) {
	err := New(ErrCodeComplaintNotFound, "complaint %s not found", "abc")
	assert.Equal(t, ErrCodeComplaintNotFound, err.Code)
	assert.Contains(t, err.Error(), "CMP_001")
	assert.Contains(t, err.Error(), "complaint abc not found")
	assert.NotEmpty(t, err.Stack)
}

func TestWrap_NilYieldsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestWrap_PreservesChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeDatabaseError, "query failed")
	assert.True(t, stderrors.Is(err, cause))
	assert.Contains(t, err.Error(), "connection refused")
}

func TestIsCode_WalksChain(t *testing.T) {
	inner := New(ErrCodeGeoUnitNotFound, "uc missing")
	outer := Wrap(inner, ErrCodeTriageResolveFailed, "resolution failed")

	assert.True(t, IsCode(outer, ErrCodeTriageResolveFailed))
	assert.True(t, IsCode(outer, ErrCodeGeoUnitNotFound))
	assert.False(t, IsCode(outer, ErrCodeComplaintNotFound))
	assert.False(t, IsCode(nil, ErrCodeComplaintNotFound))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeConflict, GetCode(Conflict("busy")))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
}

func TestInvalidTransition(t *testing.T) {
	err := InvalidTransition("reported", "resolved")
	assert.True(t, IsInvalidTransition(err))
	assert.Contains(t, err.Error(), `"reported"`)
	assert.Contains(t, err.Error(), `"resolved"`)
	assert.Equal(t, http.StatusConflict, err.HTTPStatus())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(NotFound("gone")))
	assert.True(t, IsNotFound(New(ErrCodeComplaintNotFound, "gone")))
	assert.True(t, IsNotFound(New(ErrCodeGeoUnitNotFound, "gone")))
	assert.False(t, IsNotFound(Internal("boom")))
}

func TestWithDetail_DoesNotMutateOriginal(t *testing.T) {
	base := New(CodeConflict, "conflict")
	detailed := base.WithDetail("already linked to %s", "xyz")
	assert.Empty(t, base.Detail)
	assert.Contains(t, detailed.Error(), "already linked to xyz")
}

func TestHTTPStatusForCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, HTTPStatusForCode(ErrCodeComplaintNotFound))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusForCode(ErrCodeGeoInvalidPoint))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusForCode(ErrorCode("NOPE_999")))
}

func TestIsClientServerError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeBadRequest))
	assert.False(t, IsClientError(ErrCodeInternal))
	assert.True(t, IsServerError(ErrCodeTriageDedupFailed))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "CMP", ModuleForCode(ErrCodeComplaintNotFound))
	assert.Equal(t, "GEO", ModuleForCode(ErrCodeGeoInvalidPoint))
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
}
