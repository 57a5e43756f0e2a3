package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

type TimeLogHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewTimeLogHandler(db *gorm.DB, loc *time.Location) *TimeLogHandler {
	return &TimeLogHandler{db: db, loc: loc}
}

type TimeLogRequest struct {
	AppointmentID *uint   `json:"appointment_id"`
	EmployeeID    *uint   `json:"employee_id"`
	TimeIn        *string `json:"time_in"`
	TimeOut       *string `json:"time_out"`
}

func (h *TimeLogHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if appointmentID := c.Query("appointment_id"); appointmentID != "" {
		q = q.Where("appointment_id = ?", appointmentID)
	}
	if employeeID := c.Query("employee_id"); employeeID != "" {
		q = q.Where("employee_id = ?", employeeID)
	}

	var logs []models.TimeLog
	if err := q.Order("time_in DESC").Find(&logs).Error; err != nil {
		writeError(c, err, "failed_to_list_timelogs")
		return
	}
	httpresp.Items(c, logs)
}

func (h *TimeLogHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tl, ok := findByID[models.TimeLog](c, h.db, id, "timelog_not_found", "Time log not found")
	if !ok {
		return
	}
	httpresp.OK(c, tl)
}

// Create defaults employee_id to the caller.
func (h *TimeLogHandler) Create(c *gin.Context) {
	var req TimeLogRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AppointmentID == nil || req.TimeIn == nil {
		httperr.BadRequest(c, "missing_fields", "appointment_id and time_in are required")
		return
	}

	tl := models.TimeLog{EmployeeID: middleware.CurrentEmployee(c).ID}
	if !h.apply(c, &tl, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&tl).Error; err != nil {
		writeError(c, err, "failed_to_create_timelog")
		return
	}
	httpresp.Created(c, tl)
}

func (h *TimeLogHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tl, ok := findByID[models.TimeLog](c, h.db, id, "timelog_not_found", "Time log not found")
	if !ok {
		return
	}

	var req TimeLogRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.apply(c, tl, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(tl).Error; err != nil {
		writeError(c, err, "failed_to_update_timelog")
		return
	}
	httpresp.OK(c, tl)
}

func (h *TimeLogHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	tl, ok := findByID[models.TimeLog](c, h.db, id, "timelog_not_found", "Time log not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(tl).Error; err != nil {
		writeError(c, err, "failed_to_delete_timelog")
		return
	}
	httpresp.Message(c, http.StatusOK, "Time log deleted")
}

// apply merges req into tl and recomputes total_time whenever time_out is set.
func (h *TimeLogHandler) apply(c *gin.Context, tl *models.TimeLog, req TimeLogRequest) bool {
	if req.AppointmentID != nil {
		if _, ok := findByID[models.Appointment](c, h.db, *req.AppointmentID, "appointment_not_found", "Appointment not found"); !ok {
			return false
		}
		tl.AppointmentID = *req.AppointmentID
	}
	if req.EmployeeID != nil {
		if _, ok := findByID[models.Employee](c, h.db, *req.EmployeeID, "employee_not_found", "Employee not found"); !ok {
			return false
		}
		tl.EmployeeID = *req.EmployeeID
	}
	if req.TimeIn != nil {
		t, err := parseDatetimeIn(h.loc, *req.TimeIn)
		if err != nil {
			httperr.BadRequest(c, "invalid_datetime", "Invalid time_in")
			return false
		}
		tl.TimeIn = t
	}
	if req.TimeOut != nil {
		t, err := parseDatetimeIn(h.loc, *req.TimeOut)
		if err != nil {
			httperr.BadRequest(c, "invalid_datetime", "Invalid time_out")
			return false
		}
		tl.TimeOut = &t
	}

	if tl.TimeOut != nil {
		hours, err := domain.WorkedHours(tl.TimeIn, *tl.TimeOut)
		if err != nil {
			writeError(c, err, "invalid_time_out")
			return false
		}
		tl.TotalTime = &hours
	}
	return true
}
