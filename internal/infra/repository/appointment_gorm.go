package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

var ErrLocationNotFound = httperr.ErrBusinessMsg("location_not_found", "Customer location not found")

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

var _ domain.Repository = (*AppointmentGormRepository)(nil)

// --------------------------------------------------
// Location
// --------------------------------------------------

func (r *AppointmentGormRepository) GetLocation(
	ctx context.Context,
	id uint,
) (*models.CustomerLocation, error) {

	var loc models.CustomerLocation
	if err := r.db.WithContext(ctx).First(&loc, id).Error; err != nil {
		return nil, notFound(err, ErrLocationNotFound)
	}
	return &loc, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *AppointmentGormRepository) ListAppointmentsForPeriod(
	ctx context.Context,
	start time.Time,
	end time.Time,
	team string,
) ([]models.Appointment, error) {

	q := r.db.WithContext(ctx).
		Preload("CustomerLocation").
		Where("arrival_datetime >= ? AND arrival_datetime < ?", start.UTC(), end.UTC())

	if team != "" {
		q = q.Where("team = ?", team)
	}

	var list []models.Appointment
	if err := q.
		Order("arrival_datetime ASC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}
