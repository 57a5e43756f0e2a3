package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

type Repository interface {
	// -------- Location --------
	GetLocation(
		ctx context.Context,
		id uint,
	) (*models.CustomerLocation, error)

	// -------- Appointment --------
	ListAppointmentsForPeriod(
		ctx context.Context,
		start time.Time,
		end time.Time,
		team string,
	) ([]models.Appointment, error)
}
