package copy_availability_window

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	resp *models.CopyWindowResponse
	err  error
}

func (f *fakeService) CopyWindowToActiveDays(_ context.Context, _ int) (*models.CopyWindowResponse, error) {
	return f.resp, f.err
}

func serve(svc *fakeService, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/availability-rules/{dayOfWeek}/copy-window", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, nil))
	return rec
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		svc    *fakeService
		status int
	}{
		{"ok", "/api/v1/availability-rules/1/copy-window",
			&fakeService{resp: &models.CopyWindowResponse{SourceDay: 1, UpdatedDays: []int{2, 3}}}, http.StatusOK},
		{"bad day", "/api/v1/availability-rules/x/copy-window", &fakeService{}, http.StatusBadRequest},
		{"out of range", "/api/v1/availability-rules/9/copy-window", &fakeService{err: availability.ErrInvalidInput}, http.StatusBadRequest},
		{"no rule", "/api/v1/availability-rules/0/copy-window", &fakeService{err: availability.ErrRuleNotFound}, http.StatusNotFound},
		{"inactive", "/api/v1/availability-rules/0/copy-window", &fakeService{err: availability.ErrSourceDayInactive}, http.StatusConflict},
		{"internal", "/api/v1/availability-rules/1/copy-window", &fakeService{err: availability.ErrInternal}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(tt.svc, tt.path)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
