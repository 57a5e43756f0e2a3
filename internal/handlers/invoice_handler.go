package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/billing"
	"github.com/BruksfildServices01/lawnmate-api/internal/dto"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
	ucbilling "github.com/BruksfildServices01/lawnmate-api/internal/usecase/billing"
)

type InvoiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher

	create   *ucbilling.CreateInvoice
	generate *ucbilling.GenerateInvoice
	update   *ucbilling.UpdateInvoice
	remove   *ucbilling.DeleteInvoice
}

func NewInvoiceHandler(
	db *gorm.DB,
	repo domain.Repository,
	auditDispatcher *audit.Dispatcher,
	eventDispatcher *events.Dispatcher,
) *InvoiceHandler {
	return &InvoiceHandler{
		db:       db,
		audit:    auditDispatcher,
		create:   ucbilling.NewCreateInvoice(repo, auditDispatcher),
		generate: ucbilling.NewGenerateInvoice(repo, auditDispatcher),
		update:   ucbilling.NewUpdateInvoice(repo, auditDispatcher, eventDispatcher),
		remove:   ucbilling.NewDeleteInvoice(repo, auditDispatcher),
	}
}

// --------- Requests ---------

type ItemRequest struct {
	ServiceID uint        `json:"service_id" binding:"required"`
	Cost      money.Cents `json:"cost"`
}

type CreateInvoiceRequest struct {
	AppointmentID uint          `json:"appointment_id" binding:"required"`
	Subtotal      money.Cents   `json:"subtotal"`
	Total         money.Cents   `json:"total"`
	TaxRate       float64       `json:"tax_rate"`
	Attempt       int           `json:"attempt"`
	DueDate       *string       `json:"due_date"`
	Items         []ItemRequest `json:"items"`
}

type GenerateInvoiceRequest struct {
	TaxRate float64       `json:"tax_rate"`
	DueDate *string       `json:"due_date"`
	Items   []ItemRequest `json:"items"`
}

type UpdateInvoiceRequest struct {
	Subtotal *money.Cents `json:"subtotal"`
	Total    *money.Cents `json:"total"`
	TaxRate  *float64     `json:"tax_rate"`
	Attempt  *int         `json:"attempt"`
	DueDate  *string      `json:"due_date"`
}

type UpdateItemRequest struct {
	ServiceID *uint        `json:"service_id"`
	Cost      *money.Cents `json:"cost"`
}

func itemInputs(in []ItemRequest) []ucbilling.ItemInput {
	out := make([]ucbilling.ItemInput, 0, len(in))
	for _, it := range in {
		out = append(out, ucbilling.ItemInput{ServiceID: it.ServiceID, Cost: it.Cost})
	}
	return out
}

// --------- Invoices ---------

func (h *InvoiceHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if appointmentID := c.Query("appointment_id"); appointmentID != "" {
		q = q.Where("appointment_id = ?", appointmentID)
	}

	var invoices []models.Invoice
	if err := q.Order("id ASC").Find(&invoices).Error; err != nil {
		writeError(c, err, "failed_to_list_invoices")
		return
	}
	httpresp.Items(c, dto.Invoices(invoices))
}

func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	inv, ok := findByID[models.Invoice](c, h.db, id, "invoice_not_found", "Invoice not found")
	if !ok {
		return
	}
	httpresp.OK(c, dto.Invoice(inv))
}

func (h *InvoiceHandler) Create(c *gin.Context) {
	var req CreateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	due, err := optionalDate(req.DueDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "due_date must be YYYY-MM-DD")
		return
	}

	inv, err := h.create.Execute(c.Request.Context(), middleware.CurrentEmployee(c), ucbilling.CreateInvoiceInput{
		AppointmentID: req.AppointmentID,
		Subtotal:      req.Subtotal,
		Total:         req.Total,
		TaxRate:       req.TaxRate,
		Attempt:       req.Attempt,
		DueDate:       due,
		Items:         itemInputs(req.Items),
	})
	if err != nil {
		writeError(c, err, "failed_to_create_invoice")
		return
	}
	httpresp.Created(c, dto.Invoice(inv))
}

// GenerateFromAppointment bills the appointment's latest quote unless
// items are given in the body.
func (h *InvoiceHandler) GenerateFromAppointment(c *gin.Context) {
	appointmentID, ok := paramID(c, "appointment_id")
	if !ok {
		return
	}

	var req GenerateInvoiceRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	due, err := optionalDate(req.DueDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "due_date must be YYYY-MM-DD")
		return
	}

	inv, err := h.generate.Execute(c.Request.Context(), middleware.CurrentEmployee(c), ucbilling.GenerateInvoiceInput{
		AppointmentID: appointmentID,
		TaxRate:       req.TaxRate,
		DueDate:       due,
		Items:         itemInputs(req.Items),
	})
	if err != nil {
		writeError(c, err, "failed_to_generate_invoice")
		return
	}
	httpresp.Created(c, dto.Invoice(inv))
}

func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdateInvoiceRequest
	if !bindJSON(c, &req) {
		return
	}
	due, err := optionalDate(req.DueDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "due_date must be YYYY-MM-DD")
		return
	}

	inv, err := h.update.Execute(c.Request.Context(), middleware.CurrentEmployee(c), ucbilling.UpdateInvoiceInput{
		InvoiceID: id,
		Subtotal:  req.Subtotal,
		Total:     req.Total,
		TaxRate:   req.TaxRate,
		Attempt:   req.Attempt,
		DueDate:   due,
	})
	if err != nil {
		writeError(c, err, "failed_to_update_invoice")
		return
	}
	httpresp.OK(c, dto.Invoice(inv))
}

func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.CurrentEmployee(c), id); err != nil {
		writeError(c, err, "failed_to_delete_invoice")
		return
	}
	httpresp.Message(c, http.StatusOK, "Invoice deleted")
}

// --------- Items ---------

func (h *InvoiceHandler) ListItems(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findByID[models.Invoice](c, h.db, id, "invoice_not_found", "Invoice not found"); !ok {
		return
	}

	var items []models.InvoiceItem
	if err := h.db.WithContext(c.Request.Context()).
		Where("invoice_id = ?", id).
		Order("id ASC").
		Find(&items).Error; err != nil {

		writeError(c, err, "failed_to_list_items")
		return
	}
	httpresp.Items(c, items)
}

// CreateItem adds a line item. Totals are edited through Update so the
// billed amount never moves silently.
func (h *InvoiceHandler) CreateItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findByID[models.Invoice](c, h.db, id, "invoice_not_found", "Invoice not found"); !ok {
		return
	}

	var req ItemRequest
	if !bindJSON(c, &req) {
		return
	}
	if !checkServiceCost(c, h.db, req.ServiceID, req.Cost) {
		return
	}

	item := models.InvoiceItem{InvoiceID: id, ServiceID: req.ServiceID, Cost: req.Cost}
	if err := h.db.WithContext(c.Request.Context()).Omit("Service").Create(&item).Error; err != nil {
		writeError(c, err, "failed_to_create_item")
		return
	}

	writeAudit(h.audit, c, "invoice_item_created", "invoice", id, gin.H{"item_id": item.ID, "cost": item.Cost})
	httpresp.Created(c, item)
}

func (h *InvoiceHandler) UpdateItem(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	item, ok := findByID[models.InvoiceItem](c, h.db, itemID, "item_not_found", "Invoice item not found")
	if !ok {
		return
	}

	var req UpdateItemRequest
	if !bindJSON(c, &req) {
		return
	}

	serviceID, cost := item.ServiceID, item.Cost
	if req.ServiceID != nil {
		serviceID = *req.ServiceID
	}
	if req.Cost != nil {
		cost = *req.Cost
	}
	if !checkServiceCost(c, h.db, serviceID, cost) {
		return
	}
	item.ServiceID, item.Cost = serviceID, cost

	if err := h.db.WithContext(c.Request.Context()).Omit("Service").Save(item).Error; err != nil {
		writeError(c, err, "failed_to_update_item")
		return
	}
	httpresp.OK(c, item)
}

func (h *InvoiceHandler) DeleteItem(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	item, ok := findByID[models.InvoiceItem](c, h.db, itemID, "item_not_found", "Invoice item not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(item).Error; err != nil {
		writeError(c, err, "failed_to_delete_item")
		return
	}

	writeAudit(h.audit, c, "invoice_item_deleted", "invoice", item.InvoiceID, gin.H{"item_id": item.ID})
	httpresp.Message(c, http.StatusOK, "Item deleted")
}
