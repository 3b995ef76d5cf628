package get_appointment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
)

type fakeService struct {
	resp *models.AppointmentResponse
	err  error
}

func (f *fakeService) GetByID(_ context.Context, _ int64) (*models.AppointmentResponse, error) {
	return f.resp, f.err
}

func serve(svc *fakeService, path string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.HandleFunc("/api/v1/appointments/{appointmentId}", NewHandler(svc, logger.NewNop()).Handle)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandle(t *testing.T) {
	rec := serve(&fakeService{resp: &models.AppointmentResponse{ID: 5, EndTime: "10:30"}}, "/api/v1/appointments/5")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"endTime":"10:30"`)

	rec = serve(&fakeService{err: appointments.ErrAppointmentNotFound}, "/api/v1/appointments/5")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(&fakeService{err: appointments.ErrInternal}, "/api/v1/appointments/5")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(&fakeService{}, "/api/v1/appointments/abc")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
