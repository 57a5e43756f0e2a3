package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/validators"
)

type CustomerHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCustomerHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *CustomerHandler {
	return &CustomerHandler{db: db, audit: auditDispatcher}
}

// --------- Requests ---------

type CustomerRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
	Notes *string `json:"notes"`
}

type LocationRequest struct {
	CustomerID     *uint    `json:"customer_id"`
	Address        *string  `json:"address"`
	PointOfContact *string  `json:"point_of_contact"`
	PropertyType   *string  `json:"property_type"`
	ApproxAcres    *float64 `json:"approx_acres"`
	Notes          *string  `json:"notes"`
}

// --------- Customers ---------

func (h *CustomerHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if search := strings.ToLower(strings.TrimSpace(c.Query("query"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := q.Order("id ASC").Find(&customers).Error; err != nil {
		writeError(c, err, "failed_to_list_customers")
		return
	}
	httpresp.Items(c, customers)
}

func (h *CustomerHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cust, ok := findByID[models.Customer](c, h.db, id, "customer_not_found", "Customer not found")
	if !ok {
		return
	}
	httpresp.OK(c, cust)
}

func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" || req.Email == nil {
		httperr.BadRequest(c, "missing_fields", "name and email are required")
		return
	}

	cust := models.Customer{}
	if !applyCustomer(c, &cust, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&cust).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "Email already exists")
			return
		}
		writeError(c, err, "failed_to_create_customer")
		return
	}

	writeAudit(h.audit, c, "customer_created", "customer", cust.ID, nil)
	httpresp.Created(c, cust)
}

func (h *CustomerHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cust, ok := findByID[models.Customer](c, h.db, id, "customer_not_found", "Customer not found")
	if !ok {
		return
	}

	var req CustomerRequest
	if !bindJSON(c, &req) {
		return
	}
	if !applyCustomer(c, cust, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(cust).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "Email already exists")
			return
		}
		writeError(c, err, "failed_to_update_customer")
		return
	}

	writeAudit(h.audit, c, "customer_updated", "customer", cust.ID, nil)
	httpresp.OK(c, cust)
}

// Delete cascades to the customer's locations and everything scheduled at them.
func (h *CustomerHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cust, ok := findByID[models.Customer](c, h.db, id, "customer_not_found", "Customer not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Select("Locations").Delete(cust).Error; err != nil {
		writeError(c, err, "failed_to_delete_customer")
		return
	}

	writeAudit(h.audit, c, "customer_deleted", "customer", cust.ID, nil)
	httpresp.Message(c, http.StatusOK, "Customer deleted")
}

func applyCustomer(c *gin.Context, cust *models.Customer, req CustomerRequest) bool {
	if req.Name != nil {
		cust.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if !validators.IsEmail(email) {
			httperr.BadRequest(c, "invalid_email", "Invalid email format")
			return false
		}
		cust.Email = email
	}
	if req.Phone != nil {
		cust.Phone = *req.Phone
	}
	if req.Notes != nil {
		cust.Notes = *req.Notes
	}
	return true
}

// --------- Locations ---------

func (h *CustomerHandler) ListLocations(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if customerID := c.Query("customer_id"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}

	var locations []models.CustomerLocation
	if err := q.Order("id ASC").Find(&locations).Error; err != nil {
		writeError(c, err, "failed_to_list_locations")
		return
	}
	httpresp.Items(c, locations)
}

func (h *CustomerHandler) GetLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	loc, ok := findByID[models.CustomerLocation](c, h.db, id, "location_not_found", "Customer location not found")
	if !ok {
		return
	}
	httpresp.OK(c, loc)
}

func (h *CustomerHandler) CreateLocation(c *gin.Context) {
	var req LocationRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CustomerID == nil || req.Address == nil || strings.TrimSpace(*req.Address) == "" {
		httperr.BadRequest(c, "missing_fields", "customer_id and address are required")
		return
	}

	found, err := exists(c, h.db, &models.Customer{}, *req.CustomerID)
	if err != nil {
		writeError(c, err, "failed_to_create_location")
		return
	}
	if !found {
		httperr.NotFound(c, "customer_not_found", "Customer not found")
		return
	}

	loc := models.CustomerLocation{CustomerID: *req.CustomerID}
	applyLocation(&loc, req)

	if err := h.db.WithContext(c.Request.Context()).Create(&loc).Error; err != nil {
		writeError(c, err, "failed_to_create_location")
		return
	}

	writeAudit(h.audit, c, "location_created", "customer_location", loc.ID, gin.H{"customer_id": loc.CustomerID})
	httpresp.Created(c, loc)
}

func (h *CustomerHandler) UpdateLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	loc, ok := findByID[models.CustomerLocation](c, h.db, id, "location_not_found", "Customer location not found")
	if !ok {
		return
	}

	var req LocationRequest
	if !bindJSON(c, &req) {
		return
	}
	// ownership is fixed at creation
	req.CustomerID = nil
	applyLocation(loc, req)

	if err := h.db.WithContext(c.Request.Context()).Save(loc).Error; err != nil {
		writeError(c, err, "failed_to_update_location")
		return
	}
	httpresp.OK(c, loc)
}

func (h *CustomerHandler) DeleteLocation(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	loc, ok := findByID[models.CustomerLocation](c, h.db, id, "location_not_found", "Customer location not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(loc).Error; err != nil {
		writeError(c, err, "failed_to_delete_location")
		return
	}

	writeAudit(h.audit, c, "location_deleted", "customer_location", loc.ID, nil)
	httpresp.Message(c, http.StatusOK, "Location deleted")
}

func applyLocation(loc *models.CustomerLocation, req LocationRequest) {
	if req.Address != nil {
		loc.Address = strings.TrimSpace(*req.Address)
	}
	if req.PointOfContact != nil {
		loc.PointOfContact = *req.PointOfContact
	}
	if req.PropertyType != nil {
		loc.PropertyType = *req.PropertyType
	}
	if req.ApproxAcres != nil {
		loc.ApproxAcres = *req.ApproxAcres
	}
	if req.Notes != nil {
		loc.Notes = *req.Notes
	}
}
