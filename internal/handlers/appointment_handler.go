package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/appointment"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	ucappointment "github.com/BruksfildServices01/lawnmate-api/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db        *gorm.DB
	repo      domain.Repository
	loc       *time.Location
	audit     *audit.Dispatcher
	listByDay *ucappointment.ListAppointmentsByDate
}

func NewAppointmentHandler(
	db *gorm.DB,
	repo domain.Repository,
	loc *time.Location,
	auditDispatcher *audit.Dispatcher,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:        db,
		repo:      repo,
		loc:       loc,
		audit:     auditDispatcher,
		listByDay: ucappointment.NewListAppointmentsByDate(repo, loc),
	}
}

// ======================================================
// REQUESTS
// ======================================================

type AppointmentRequest struct {
	CustomerLocationID *uint   `json:"customer_location_id"`
	ArrivalDatetime    *string `json:"arrival_datetime"`
	DepartureDatetime  *string `json:"departure_datetime"`
	Team               *string `json:"team"`
	Notes              *string `json:"notes"`
}

type RecurringAppointmentRequest struct {
	CustomerLocationID *uint   `json:"customer_location_id"`
	StartDate          *string `json:"start_date"`
	Schedule           *string `json:"schedule"`
	Team               *string `json:"team"`
}

// ======================================================
// LIST / GET
// ======================================================

// List returns every appointment, or with ?date=YYYY-MM-DD the ones
// arriving that day in the business timezone.
func (h *AppointmentHandler) List(c *gin.Context) {
	team := strings.TrimSpace(c.Query("team"))

	if dateStr := c.Query("date"); dateStr != "" {
		date, err := parseDateIn(h.loc, dateStr)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "Date must be YYYY-MM-DD")
			return
		}
		list, err := h.listByDay.Execute(c.Request.Context(), date, team)
		if err != nil {
			writeError(c, err, "failed_to_list_appointments")
			return
		}
		httpresp.Items(c, list)
		return
	}

	q := h.db.WithContext(c.Request.Context())
	if team != "" {
		q = q.Where("team = ?", team)
	}
	if locationID := c.Query("customer_location_id"); locationID != "" {
		q = q.Where("customer_location_id = ?", locationID)
	}

	var appointments []models.Appointment
	if err := q.Order("arrival_datetime ASC").Find(&appointments).Error; err != nil {
		writeError(c, err, "failed_to_list_appointments")
		return
	}
	httpresp.Items(c, appointments)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ap, ok := findByID[models.Appointment](c, h.db, id, "appointment_not_found", "Appointment not found")
	if !ok {
		return
	}
	httpresp.OK(c, ap)
}

// ======================================================
// CREATE / UPDATE / DELETE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CustomerLocationID == nil || req.ArrivalDatetime == nil || req.DepartureDatetime == nil {
		httperr.BadRequest(c, "missing_fields", "customer_location_id, arrival_datetime and departure_datetime are required")
		return
	}

	ap := models.Appointment{}
	if !h.apply(c, &ap, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&ap).Error; err != nil {
		writeError(c, err, "failed_to_create_appointment")
		return
	}

	writeAudit(h.audit, c, "appointment_created", "appointment", ap.ID, gin.H{
		"customer_location_id": ap.CustomerLocationID,
		"arrival_datetime":     ap.ArrivalDatetime,
	})
	httpresp.Created(c, ap)
}

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ap, ok := findByID[models.Appointment](c, h.db, id, "appointment_not_found", "Appointment not found")
	if !ok {
		return
	}

	var req AppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.apply(c, ap, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Omit("CustomerLocation").Save(ap).Error; err != nil {
		writeError(c, err, "failed_to_update_appointment")
		return
	}

	writeAudit(h.audit, c, "appointment_updated", "appointment", ap.ID, nil)
	httpresp.OK(c, ap)
}

// Delete cascades to the appointment's invoices, quotes, photos and time logs.
func (h *AppointmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	ap, ok := findByID[models.Appointment](c, h.db, id, "appointment_not_found", "Appointment not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(ap).Error; err != nil {
		writeError(c, err, "failed_to_delete_appointment")
		return
	}

	writeAudit(h.audit, c, "appointment_deleted", "appointment", ap.ID, nil)
	httpresp.Message(c, http.StatusOK, "Appointment deleted")
}

// apply merges req into ap, checking the location and the time window.
func (h *AppointmentHandler) apply(c *gin.Context, ap *models.Appointment, req AppointmentRequest) bool {
	if req.CustomerLocationID != nil && *req.CustomerLocationID != ap.CustomerLocationID {
		if _, err := h.repo.GetLocation(c.Request.Context(), *req.CustomerLocationID); err != nil {
			writeError(c, err, "failed_to_check_location")
			return false
		}
		ap.CustomerLocationID = *req.CustomerLocationID
	}

	if req.ArrivalDatetime != nil {
		t, err := parseDatetimeIn(h.loc, *req.ArrivalDatetime)
		if err != nil {
			httperr.BadRequest(c, "invalid_datetime", "Invalid arrival_datetime")
			return false
		}
		ap.ArrivalDatetime = t
	}
	if req.DepartureDatetime != nil {
		t, err := parseDatetimeIn(h.loc, *req.DepartureDatetime)
		if err != nil {
			httperr.BadRequest(c, "invalid_datetime", "Invalid departure_datetime")
			return false
		}
		ap.DepartureDatetime = t
	}
	if err := domain.ValidateWindow(ap.ArrivalDatetime, ap.DepartureDatetime); err != nil {
		writeError(c, err, "invalid_window")
		return false
	}

	if req.Team != nil {
		ap.Team = strings.TrimSpace(*req.Team)
	}
	if req.Notes != nil {
		ap.Notes = *req.Notes
	}
	return true
}

// ======================================================
// RECURRING
// ======================================================

func (h *AppointmentHandler) ListRecurring(c *gin.Context) {
	var list []models.RecurringAppointment
	if err := h.db.WithContext(c.Request.Context()).Order("id ASC").Find(&list).Error; err != nil {
		writeError(c, err, "failed_to_list_recurring")
		return
	}
	httpresp.Items(c, list)
}

func (h *AppointmentHandler) CreateRecurring(c *gin.Context) {
	var req RecurringAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CustomerLocationID == nil || req.StartDate == nil || req.Schedule == nil || strings.TrimSpace(*req.Schedule) == "" {
		httperr.BadRequest(c, "missing_fields", "customer_location_id, start_date and schedule are required")
		return
	}

	rec := models.RecurringAppointment{}
	if !h.applyRecurring(c, &rec, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&rec).Error; err != nil {
		writeError(c, err, "failed_to_create_recurring")
		return
	}
	httpresp.Created(c, rec)
}

func (h *AppointmentHandler) UpdateRecurring(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rec, ok := findByID[models.RecurringAppointment](c, h.db, id, "recurring_appointment_not_found", "Recurring appointment not found")
	if !ok {
		return
	}

	var req RecurringAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.applyRecurring(c, rec, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(rec).Error; err != nil {
		writeError(c, err, "failed_to_update_recurring")
		return
	}
	httpresp.OK(c, rec)
}

func (h *AppointmentHandler) DeleteRecurring(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	rec, ok := findByID[models.RecurringAppointment](c, h.db, id, "recurring_appointment_not_found", "Recurring appointment not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(rec).Error; err != nil {
		writeError(c, err, "failed_to_delete_recurring")
		return
	}
	httpresp.Message(c, http.StatusOK, "Recurring appointment deleted")
}

func (h *AppointmentHandler) applyRecurring(c *gin.Context, rec *models.RecurringAppointment, req RecurringAppointmentRequest) bool {
	if req.CustomerLocationID != nil {
		if _, err := h.repo.GetLocation(c.Request.Context(), *req.CustomerLocationID); err != nil {
			writeError(c, err, "failed_to_check_location")
			return false
		}
		rec.CustomerLocationID = *req.CustomerLocationID
	}
	if req.StartDate != nil {
		d, err := parseDateIn(h.loc, *req.StartDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "start_date must be YYYY-MM-DD")
			return false
		}
		rec.StartDate = d
	}
	if req.Schedule != nil {
		rec.Schedule = strings.TrimSpace(*req.Schedule)
	}
	if req.Team != nil {
		rec.Team = strings.TrimSpace(*req.Team)
	}
	return true
}
