package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	domain "github.com/BruksfildServices01/lawnmate-api/internal/domain/billing"
	"github.com/BruksfildServices01/lawnmate-api/internal/dto"
	"github.com/BruksfildServices01/lawnmate-api/internal/events"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
	ucbilling "github.com/BruksfildServices01/lawnmate-api/internal/usecase/billing"
)

// PaymentHandler only talks to the billing use cases; every write goes
// through reconciliation.
type PaymentHandler struct {
	repo domain.Repository
	loc  *time.Location

	create *ucbilling.CreatePayment
	update *ucbilling.UpdatePayment
	remove *ucbilling.DeletePayment
}

func NewPaymentHandler(
	repo domain.Repository,
	loc *time.Location,
	auditDispatcher *audit.Dispatcher,
	eventDispatcher *events.Dispatcher,
) *PaymentHandler {
	return &PaymentHandler{
		repo:   repo,
		loc:    loc,
		create: ucbilling.NewCreatePayment(repo, auditDispatcher, eventDispatcher),
		update: ucbilling.NewUpdatePayment(repo, auditDispatcher, eventDispatcher),
		remove: ucbilling.NewDeletePayment(repo, auditDispatcher, eventDispatcher),
	}
}

// --------- Requests ---------

type CreatePaymentRequest struct {
	InvoiceID       uint        `json:"invoice_id" binding:"required"`
	Amount          money.Cents `json:"amount"`
	PaymentDate     string      `json:"payment_date"`
	PaymentMethod   string      `json:"payment_method"`
	ReferenceNumber *string     `json:"reference_number"`
	Notes           *string     `json:"notes"`
}

type UpdatePaymentRequest struct {
	Amount          *money.Cents `json:"amount"`
	PaymentDate     *string      `json:"payment_date"`
	PaymentMethod   *string      `json:"payment_method"`
	ReferenceNumber *string      `json:"reference_number"`
	Notes           *string      `json:"notes"`
}

// --------- Handlers ---------

func (h *PaymentHandler) Create(c *gin.Context) {
	var req CreatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		d, err := parseDateOrDatetime(h.loc, req.PaymentDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_payment_date", "Invalid payment_date")
			return
		}
		paymentDate = d
	}

	payment, _, err := h.create.Execute(c.Request.Context(), middleware.CurrentEmployee(c), ucbilling.CreatePaymentInput{
		InvoiceID:       req.InvoiceID,
		Amount:          req.Amount,
		PaymentDate:     paymentDate,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err, "failed_to_create_payment")
		return
	}
	httpresp.Created(c, dto.Payment(payment))
}

func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	payment, err := h.repo.GetPayment(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed_to_get_payment")
		return
	}
	httpresp.OK(c, dto.Payment(payment))
}

func (h *PaymentHandler) ListForInvoice(c *gin.Context) {
	invoiceID, ok := paramID(c, "invoice_id")
	if !ok {
		return
	}
	if _, err := h.repo.GetInvoice(c.Request.Context(), invoiceID); err != nil {
		writeError(c, err, "failed_to_get_invoice")
		return
	}

	payments, err := h.repo.ListPaymentsForInvoice(c.Request.Context(), invoiceID)
	if err != nil {
		writeError(c, err, "failed_to_list_payments")
		return
	}
	httpresp.Items(c, dto.Payments(payments))
}

func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	in := ucbilling.UpdatePaymentInput{
		PaymentID:       id,
		Amount:          req.Amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}
	if req.PaymentDate != nil {
		d, err := parseDateOrDatetime(h.loc, *req.PaymentDate)
		if err != nil {
			httperr.BadRequest(c, "invalid_payment_date", "Invalid payment_date")
			return
		}
		in.PaymentDate = &d
	}

	payment, _, err := h.update.Execute(c.Request.Context(), middleware.CurrentEmployee(c), in)
	if err != nil {
		writeError(c, err, "failed_to_update_payment")
		return
	}
	httpresp.OK(c, dto.Payment(payment))
}

func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	if _, err := h.remove.Execute(c.Request.Context(), middleware.CurrentEmployee(c), id); err != nil {
		writeError(c, err, "failed_to_delete_payment")
		return
	}
	httpresp.Message(c, http.StatusOK, "Payment deleted")
}
