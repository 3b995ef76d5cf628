package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/engine"
)

func TestRespondConflictOnWrite(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondConflictOnWrite(rec)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "CONFLICT_ON_WRITE", resp.Code)
	assert.True(t, resp.Retryable)
}

func TestRespondRejection(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondRejection(rec, engine.ReasonTooFar.String(), RejectionMessage(engine.ReasonTooFar))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"code":"TOO_FAR","message":"дата слишком далеко в будущем"}`, rec.Body.String())
}

func TestRejectionMessage_CoversAllReasons(t *testing.T) {
	for _, reason := range engine.Reasons {
		assert.NotEqual(t, string(reason), RejectionMessage(reason), reason)
	}
	assert.Equal(t, "SOMETHING", RejectionMessage(engine.Reason("SOMETHING")))
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(r, &dst))
	assert.Equal(t, "x", dst.Name)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x","extra":1}`))
	assert.Error(t, DecodeJSON(r, &dst))
}
