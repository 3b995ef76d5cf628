package update_appointment_status

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/api/middleware"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	id   int64
	req  *models.UpdateStatusRequest
	resp *models.AppointmentResponse
	err  error
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, req *models.UpdateStatusRequest) (*models.AppointmentResponse, error) {
	f.id, f.req = id, req
	return f.resp, f.err
}

func serve(svc *fakeService, path, body string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Auth)
	r.HandleFunc("/api/v1/appointments/{appointmentId}/status", NewHandler(svc, logger.NewNop()).Handle).
		Methods(http.MethodPatch)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	req.Header.Set(middleware.UserIDHeader, "3")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Cancel(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentResponse{ID: 5, Status: "cancelled"}}

	rec := serve(svc, "/api/v1/appointments/5/status", `{"status":"cancelled","cancellationReason":"sick"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, int64(5), svc.id)
	assert.Equal(t, int64(3), svc.req.UserID)
	assert.Equal(t, "cancelled", svc.req.Status)
	assert.Equal(t, "sick", *svc.req.CancellationReason)
	assert.Contains(t, rec.Body.String(), `"status":"cancelled"`)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", appointments.ErrAppointmentNotFound, http.StatusNotFound},
		{"invalid", appointments.ErrInvalidInput, http.StatusBadRequest},
		{"transition", appointments.ErrInvalidTransition, http.StatusConflict},
		{"internal", appointments.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "/api/v1/appointments/5/status", `{"status":"completed"}`)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestHandle_BadRequest(t *testing.T) {
	rec := serve(&fakeService{}, "/api/v1/appointments/x/status", `{"status":"completed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{}, "/api/v1/appointments/5/status", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
