package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

type QuoteHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewQuoteHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *QuoteHandler {
	return &QuoteHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CreateQuoteRequest struct {
	AppointmentID uint          `json:"appointment_id" binding:"required"`
	EmployeeID    *uint         `json:"employee_id"`
	Estimate      money.Cents   `json:"estimate"`
	Items         []ItemRequest `json:"items"`
}

type UpdateQuoteRequest struct {
	EmployeeID *uint        `json:"employee_id"`
	Estimate   *money.Cents `json:"estimate"`
}

// --------- Quotes ---------

func (h *QuoteHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if appointmentID := c.Query("appointment_id"); appointmentID != "" {
		q = q.Where("appointment_id = ?", appointmentID)
	}

	var quotes []models.Quote
	if err := q.Order("id ASC").Find(&quotes).Error; err != nil {
		writeError(c, err, "failed_to_list_quotes")
		return
	}
	httpresp.Items(c, quotes)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	quote, ok := findByID[models.Quote](c, h.db, id, "quote_not_found", "Quote not found")
	if !ok {
		return
	}
	httpresp.OK(c, quote)
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req CreateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Estimate < 0 {
		httperr.BadRequest(c, "invalid_estimate", "Estimate cannot be negative")
		return
	}
	if !h.checkRefs(c, &req.AppointmentID, req.EmployeeID) {
		return
	}

	quote := models.Quote{
		AppointmentID: req.AppointmentID,
		EmployeeID:    req.EmployeeID,
		Estimate:      req.Estimate,
	}
	for _, it := range req.Items {
		if !checkServiceCost(c, h.db, it.ServiceID, it.Cost) {
			return
		}
		quote.Items = append(quote.Items, models.QuoteItem{ServiceID: it.ServiceID, Cost: it.Cost})
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&quote).Error; err != nil {
		writeError(c, err, "failed_to_create_quote")
		return
	}

	writeAudit(h.audit, c, "quote_created", "quote", quote.ID, gin.H{"appointment_id": quote.AppointmentID})
	httpresp.Created(c, quote)
}

func (h *QuoteHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	quote, ok := findByID[models.Quote](c, h.db, id, "quote_not_found", "Quote not found")
	if !ok {
		return
	}

	var req UpdateQuoteRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.checkRefs(c, nil, req.EmployeeID) {
		return
	}

	if req.EmployeeID != nil {
		quote.EmployeeID = req.EmployeeID
	}
	if req.Estimate != nil {
		if *req.Estimate < 0 {
			httperr.BadRequest(c, "invalid_estimate", "Estimate cannot be negative")
			return
		}
		quote.Estimate = *req.Estimate
	}

	if err := h.db.WithContext(c.Request.Context()).Save(quote).Error; err != nil {
		writeError(c, err, "failed_to_update_quote")
		return
	}
	httpresp.OK(c, quote)
}

func (h *QuoteHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	quote, ok := findByID[models.Quote](c, h.db, id, "quote_not_found", "Quote not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Select("Items").Delete(quote).Error; err != nil {
		writeError(c, err, "failed_to_delete_quote")
		return
	}

	writeAudit(h.audit, c, "quote_deleted", "quote", quote.ID, nil)
	httpresp.Message(c, http.StatusOK, "Quote deleted")
}

// --------- Items ---------

func (h *QuoteHandler) ListItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findByID[models.Quote](c, h.db, id, "quote_not_found", "Quote not found"); !ok {
		return
	}

	var items []models.QuoteItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("quote_id = ?", id).
		Order("id ASC").
		Find(&items).Error; err != nil {

		writeError(c, err, "failed_to_list_items")
		return
	}
	httpresp.Items(c, items)
}

func (h *QuoteHandler) CreateItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findByID[models.Quote](c, h.db, id, "quote_not_found", "Quote not found"); !ok {
		return
	}

	var req ItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkServiceCost(c, h.db, req.ServiceID, req.Cost) {
		return
	}

	item := models.QuoteItem{QuoteID: id, ServiceID: req.ServiceID, Cost: req.Cost}
	if err := h.db.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		writeError(c, err, "failed_to_create_item")
		return
	}
	httpresp.Created(c, item)
}

func (h *QuoteHandler) DeleteItem(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	item, ok := findByID[models.QuoteItem](c, h.db, itemID, "item_not_found", "Quote item not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		writeError(c, err, "failed_to_delete_item")
		return
	}
	httpresp.Message(c, http.StatusOK, "Item deleted")
}

// --------- Helpers ---------

func (h *QuoteHandler) checkRefs(c *gin.Context, appointmentID, employeeID *uint) bool {
	if appointmentID != nil {
		found, err := exists(c, h.db, &models.Appointment{}, *appointmentID)
		if err != nil {
			writeError(c, err, "failed_to_check_appointment")
			return false
		}
		if !found {
			httperr.NotFound(c, "appointment_not_found", "Appointment not found")
			return false
		}
	}
	if employeeID != nil {
		found, err := exists(c, h.db, &models.Employee{}, *employeeID)
		if err != nil {
			writeError(c, err, "failed_to_check_employee")
			return false
		}
		if !found {
			httperr.NotFound(c, "employee_not_found", "Employee not found")
			return false
		}
	}
	return true
}

