package list_appointments

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

var errMissingDate = errors.New("date or startDate/endDate is required")

// ToServiceRequest собирает запрос сервиса из query параметров.
// date задает один день, startDate/endDate задают период включительно
func ToServiceRequest(query url.Values) (*models.ListAppointmentsRequest, error) {
	req := &models.ListAppointmentsRequest{}

	if dateStr := query.Get("date"); dateStr != "" {
		date, err := types.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("date: %w", err)
		}
		req.StartDate, req.EndDate = date, date
	} else {
		startStr, endStr := query.Get("startDate"), query.Get("endDate")
		if startStr == "" || endStr == "" {
			return nil, errMissingDate
		}

		start, err := types.ParseDate(startStr)
		if err != nil {
			return nil, fmt.Errorf("startDate: %w", err)
		}
		end, err := types.ParseDate(endStr)
		if err != nil {
			return nil, fmt.Errorf("endDate: %w", err)
		}
		req.StartDate, req.EndDate = start, end
	}

	if status := query.Get("status"); status != "" {
		req.Status = &status
	}

	if inactive := query.Get("includeInactive"); inactive != "" {
		v, err := strconv.ParseBool(inactive)
		if err != nil {
			return nil, fmt.Errorf("includeInactive: %w", err)
		}
		req.IncludeInactive = v
	}

	return req, nil
}
