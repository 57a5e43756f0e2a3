package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/checkout"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
	"github.com/BruksfildServices01/lawnmate-api/internal/dto"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/validators"
)

// CustomerPortalHandler serves the self-service side. Every query is
// scoped to the calling customer through customer_locations.
type CustomerPortalHandler struct {
	db       *gorm.DB
	cfg      *config.Config
	tokens   *auth.TokenService
	checkout checkout.Provider
}

func NewCustomerPortalHandler(
	db *gorm.DB,
	cfg *config.Config,
	tokens *auth.TokenService,
	provider checkout.Provider,
) *CustomerPortalHandler {
	if provider == nil {
		provider = checkout.Disabled{}
	}
	return &CustomerPortalHandler{
		db:       db,
		cfg:      cfg,
		tokens:   tokens,
		checkout: provider,
	}
}

// --------- Requests ---------

type PortalRegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type PortalProfileRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
}

type PortalReviewRequest struct {
	LocationID    *uint  `json:"location_id"`
	AppointmentID *uint  `json:"appointment_id"`
	Rating        int    `json:"rating"`
	Comment       string `json:"comment"`
}

// --------- Account ---------

func (h *CustomerPortalHandler) Register(c *gin.Context) {
	var req PortalRegisterRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	name := strings.TrimSpace(req.Name)
	email := validators.NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		httperr.BadRequest(c, "missing_fields", "Missing required fields")
		return
	}
	if !validators.IsEmail(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email format")
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		writeError(c, err, "failed_to_hash_password")
		return
	}

	cust := models.Customer{
		Name:         name,
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: &hash,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&cust).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.BadRequest(c, "email_already_registered", "Email already registered")
			return
		}
		writeError(c, err, "failed_to_register")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg":         "Customer registered successfully",
		"customer_id": cust.ID,
	})
}

func (h *CustomerPortalHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		httperr.BadRequest(c, "missing_credentials", "Email and password required")
		return
	}

	var cust models.Customer
	err := h.db.WithContext(c.Request.Context()).Where("email = ?", email).First(&cust).Error
	if err != nil && !httperr.IsNotFound(err) {
		writeError(c, err, "login_failed")
		return
	}
	// customers created by staff have no password until they register
	if err != nil || cust.PasswordHash == nil || !auth.CheckPassword(*cust.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "Invalid email or password")
		return
	}

	pair, err := h.tokens.IssuePair(auth.Customer{ID: cust.ID})
	if err != nil {
		writeError(c, err, "failed_to_generate_token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"customer":      cust,
	})
}

func (h *CustomerPortalHandler) GetProfile(c *gin.Context) {
	me := middleware.CurrentCustomer(c)
	cust, ok := findByID[models.Customer](c, h.db, me.ID, "customer_not_found", "Customer not found")
	if !ok {
		return
	}
	httpresp.OK(c, cust)
}

func (h *CustomerPortalHandler) UpdateProfile(c *gin.Context) {
	me := middleware.CurrentCustomer(c)
	cust, ok := findByID[models.Customer](c, h.db, me.ID, "customer_not_found", "Customer not found")
	if !ok {
		return
	}

	var req PortalProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		cust.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		cust.Phone = *req.Phone
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password, h.cfg.BcryptCost)
		if err != nil {
			writeError(c, err, "failed_to_hash_password")
			return
		}
		cust.PasswordHash = &hash
	}

	if err := h.db.WithContext(c.Request.Context()).Save(cust).Error; err != nil {
		writeError(c, err, "failed_to_update_profile")
		return
	}
	httpresp.OK(c, cust)
}

// --------- Scoped reads ---------

func (h *CustomerPortalHandler) Appointments(c *gin.Context) {
	me := middleware.CurrentCustomer(c)

	var appointments []models.Appointment
	if err := h.db.WithContext(c.Request.Context()).
		Joins("JOIN customer_locations ON customer_locations.id = appointments.customer_location_id").
		Where("customer_locations.customer_id = ?", me.ID).
		Order("appointments.arrival_datetime DESC").
		Find(&appointments).Error; err != nil {

		writeError(c, err, "failed_to_list_appointments")
		return
	}
	httpresp.Items(c, appointments)
}

func (h *CustomerPortalHandler) Invoices(c *gin.Context) {
	me := middleware.CurrentCustomer(c)

	var invoices []models.Invoice
	if err := h.ownedInvoices(c, me.ID).
		Order("invoices.id DESC").
		Find(&invoices).Error; err != nil {

		writeError(c, err, "failed_to_list_invoices")
		return
	}
	httpresp.Items(c, dto.Invoices(invoices))
}

func (h *CustomerPortalHandler) Photos(c *gin.Context) {
	me := middleware.CurrentCustomer(c)

	var photos []models.Photo
	if err := h.db.WithContext(c.Request.Context()).
		Joins("JOIN appointments ON appointments.id = photos.appointment_id").
		Joins("JOIN customer_locations ON customer_locations.id = appointments.customer_location_id").
		Where("customer_locations.customer_id = ? AND photos.show_to_customer = ?", me.ID, true).
		Order("photos.datetime DESC").
		Find(&photos).Error; err != nil {

		writeError(c, err, "failed_to_list_photos")
		return
	}
	httpresp.Items(c, photos)
}

func (h *CustomerPortalHandler) CreateReview(c *gin.Context) {
	me := middleware.CurrentCustomer(c)

	var req PortalReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if !validRating(req.Rating) {
		httperr.BadRequest(c, "invalid_rating", "Rating must be between 1 and 5")
		return
	}

	if req.LocationID != nil {
		var n int64
		if err := h.db.WithContext(c.Request.Context()).
			Model(&models.CustomerLocation{}).
			Where("id = ? AND customer_id = ?", *req.LocationID, me.ID).
			Count(&n).Error; err != nil {
			writeError(c, err, "failed_to_check_location")
			return
		}
		if n == 0 {
			httperr.NotFound(c, "location_not_found", "Location not found")
			return
		}
	}

	review := models.Review{
		CustomerID:    me.ID,
		LocationID:    req.LocationID,
		AppointmentID: req.AppointmentID,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Datetime:      time.Now().UTC(),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&review).Error; err != nil {
		writeError(c, err, "failed_to_create_review")
		return
	}
	httpresp.Created(c, review)
}

// --------- Payment ---------

// Payment opens a hosted checkout for the invoice's open balance.
func (h *CustomerPortalHandler) Payment(c *gin.Context) {
	me := middleware.CurrentCustomer(c)
	invoiceID, ok := paramID(c, "invoice_id")
	if !ok {
		return
	}

	var inv models.Invoice
	if err := h.ownedInvoices(c, me.ID).
		Where("invoices.id = ?", invoiceID).
		First(&inv).Error; err != nil {

		if httperr.IsNotFound(err) {
			httperr.NotFound(c, "invoice_not_found", "Invoice not found")
			return
		}
		writeError(c, err, "failed_to_get_invoice")
		return
	}

	if _, disabled := h.checkout.(checkout.Disabled); disabled {
		httperr.Write(c, http.StatusNotImplemented, "payment_not_implemented", "Payment integration not implemented")
		return
	}
	if inv.Balance <= 0 {
		httperr.Conflict(c, "nothing_owed", "Invoice has no open balance")
		return
	}

	session, err := h.checkout.CreateSession(c.Request.Context(), checkout.Request{
		InvoiceID: inv.ID,
		Title:     fmt.Sprintf("Invoice #%d", inv.ID),
		Amount:    inv.Balance,
	})
	if err != nil {
		if errors.Is(err, checkout.ErrNotConfigured) {
			httperr.Write(c, http.StatusNotImplemented, "payment_not_implemented", "Payment integration not implemented")
			return
		}
		slog.Error("checkout session failed", "invoice_id", inv.ID, "error", err)
		httperr.Write(c, http.StatusBadGateway, "checkout_failed", "Could not start checkout")
		return
	}

	httpresp.OK(c, gin.H{
		"invoice_id":    inv.ID,
		"balance":       inv.Balance,
		"preference_id": session.PreferenceID,
		"checkout_url":  session.CheckoutURL,
	})
}

func (h *CustomerPortalHandler) ownedInvoices(c *gin.Context, customerID uint) *gorm.DB {
	return h.db.WithContext(c.Request.Context()).
		Model(&models.Invoice{}).
		Joins("JOIN appointments ON appointments.id = invoices.appointment_id").
		Joins("JOIN customer_locations ON customer_locations.id = appointments.customer_location_id").
		Where("customer_locations.customer_id = ?", customerID)
}
