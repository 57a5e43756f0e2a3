package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/lawnmate-api/internal/infra/repository"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/testutil"
)

func TestListAppointmentsByDate(t *testing.T) {
	db := testutil.NewDB(t)
	cust := testutil.CreateCustomer(t, db, "c@example.com", "")
	loc := models.CustomerLocation{CustomerID: cust.ID, Address: "9 Oak Ave"}
	require.NoError(t, db.Create(&loc).Error)

	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, a := range []struct {
		offset time.Duration
		team   string
	}{
		{8 * time.Hour, "A"},
		{13 * time.Hour, "B"},
		{-time.Hour, "A"},
		{25 * time.Hour, "A"},
	} {
		ap := models.Appointment{
			CustomerLocationID: loc.ID,
			ArrivalDatetime:    day.Add(a.offset),
			DepartureDatetime:  day.Add(a.offset + time.Hour),
			Team:               a.team,
		}
		require.NoError(t, db.Create(&ap).Error)
	}

	uc := NewListAppointmentsByDate(repository.NewAppointmentGormRepository(db), time.UTC)

	all, err := uc.Execute(context.Background(), day.Add(12*time.Hour), "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "A", all[0].Team)
	assert.Equal(t, "9 Oak Ave", all[0].Address)
	assert.True(t, all[0].ArrivalDatetime.Before(all[1].ArrivalDatetime))

	teamB, err := uc.Execute(context.Background(), day, "B")
	require.NoError(t, err)
	require.Len(t, teamB, 1)
	assert.Equal(t, day.Add(13*time.Hour), teamB[0].ArrivalDatetime.UTC())
}
