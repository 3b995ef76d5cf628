package upsert_availability_rule

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	day  int
	req  *models.UpsertRuleRequest
	resp *models.RuleResponse
	err  error
}

func (f *fakeService) UpsertRule(_ context.Context, day int, req *models.UpsertRuleRequest) (*models.RuleResponse, error) {
	f.day, f.req = day, req
	return f.resp, f.err
}

func serve(svc *fakeService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/availability-rules/{dayOfWeek}", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, path, strings.NewReader(body)))
	return rec
}

func TestHandle_ToggleOnlyPassesActiveFlag(t *testing.T) {
	svc := &fakeService{resp: &models.RuleResponse{DayOfWeek: 3, IsActive: false, BufferAfter: 15}}

	rec := serve(svc, "/api/v1/availability-rules/3", `{"isActive":false}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 3, svc.day)
	require.NotNil(t, svc.req.IsActive)
	assert.False(t, *svc.req.IsActive)
	assert.Nil(t, svc.req.BufferAfter)
	assert.Nil(t, svc.req.StartTime)
}

func TestHandle_Errors(t *testing.T) {
	rec := serve(&fakeService{}, "/api/v1/availability-rules/mon", `{"isActive":true}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{}, "/api/v1/availability-rules/1", `{"isActive":"yes"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{err: fmt.Errorf("%w: start must be before end", availability.ErrInvalidInput)},
		"/api/v1/availability-rules/1", `{"startTime":"18:00","endTime":"09:00"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{err: availability.ErrInternal}, "/api/v1/availability-rules/1", `{"isActive":true}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
