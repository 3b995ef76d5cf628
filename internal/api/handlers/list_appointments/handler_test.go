package list_appointments

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/logger"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type fakeService struct {
	req  *models.ListAppointmentsRequest
	resp *models.AppointmentListResponse
	err  error
}

func (f *fakeService) List(_ context.Context, req *models.ListAppointmentsRequest) (*models.AppointmentListResponse, error) {
	f.req = req
	return f.resp, f.err
}

func serve(svc *fakeService, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	NewHandler(svc, logger.NewNop()).Handle(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestToServiceRequest(t *testing.T) {
	req, err := ToServiceRequest(url.Values{"date": {"2026-10-19"}, "includeInactive": {"true"}})
	require.NoError(t, err)
	assert.Equal(t, types.NewDate(2026, 10, 19), req.StartDate)
	assert.Equal(t, req.StartDate, req.EndDate)
	assert.True(t, req.IncludeInactive)

	req, err = ToServiceRequest(url.Values{"startDate": {"2026-10-18"}, "endDate": {"2026-10-24"}, "status": {"pending"}})
	require.NoError(t, err)
	assert.Equal(t, types.NewDate(2026, 10, 24), req.EndDate)
	assert.Equal(t, "pending", *req.Status)

	_, err = ToServiceRequest(url.Values{})
	assert.ErrorIs(t, err, errMissingDate)

	_, err = ToServiceRequest(url.Values{"date": {"2026-10-19"}, "includeInactive": {"maybe"}})
	assert.Error(t, err)
}

func TestHandle(t *testing.T) {
	svc := &fakeService{resp: &models.AppointmentListResponse{Appointments: []models.AppointmentResponse{}}}
	rec := serve(svc, "/api/v1/appointments?date=2026-10-19")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"appointments":[]}`, rec.Body.String())
	assert.False(t, svc.req.IncludeInactive)

	rec = serve(&fakeService{err: appointments.ErrInvalidInput}, "/api/v1/appointments?startDate=2026-10-24&endDate=2026-10-18")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{}, "/api/v1/appointments")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&fakeService{err: appointments.ErrInternal}, "/api/v1/appointments?date=2026-10-19")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
