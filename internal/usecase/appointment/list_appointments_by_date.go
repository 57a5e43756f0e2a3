package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lawnmate-api/internal/dto"
)

type ListAppointmentsByDate struct {
	repo domain.Repository
	loc  *time.Location
}

func NewListAppointmentsByDate(
	repo domain.Repository,
	loc *time.Location,
) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{
		repo: repo,
		loc:  loc,
	}
}

// Execute lists the appointments arriving on date's calendar day in the
// business timezone, optionally for one team.
func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	date time.Time,
	team string,
) ([]dto.AppointmentListDTO, error) {

	start, end := domain.DayBounds(date, uc.loc)

	appointments, err := uc.repo.ListAppointmentsForPeriod(ctx, start, end, team)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AppointmentListDTO, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, dto.AppointmentListDTO{
			ID:                 ap.ID,
			CustomerLocationID: ap.CustomerLocationID,
			Address:            ap.CustomerLocation.Address,
			ArrivalDatetime:    ap.ArrivalDatetime.In(uc.loc),
			DepartureDatetime:  ap.DepartureDatetime.In(uc.loc),
			Team:               ap.Team,
		})
	}

	return out, nil
}
