package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
	"github.com/BruksfildServices01/lawnmate-api/internal/timezone"
)

type EquipmentHandler struct {
	db    *gorm.DB
	loc   *time.Location
	audit *audit.Dispatcher
}

func NewEquipmentHandler(db *gorm.DB, loc *time.Location, auditDispatcher *audit.Dispatcher) *EquipmentHandler {
	return &EquipmentHandler{db: db, loc: loc, audit: auditDispatcher}
}

// --------- Requests ---------

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

type EquipmentRequest struct {
	Name                   *string      `json:"name"`
	EquipmentCategoryID    *uint        `json:"equipment_category_id"`
	PurchasedDate          *string      `json:"purchased_date"`
	PurchasedCondition     *string      `json:"purchased_condition"`
	WarrantyExpirationDate *string      `json:"warranty_expiration_date"`
	Manufacturer           *string      `json:"manufacturer"`
	Model                  *string      `json:"model"`
	PurchasePrice          *money.Cents `json:"purchase_price"`
	RepairCostToDate       *money.Cents `json:"repair_cost_to_date"`
	PurchasedBy            *string      `json:"purchased_by"`
	FuelType               *string      `json:"fuel_type"`
	OilType                *string      `json:"oil_type"`
}

type AssignmentRequest struct {
	Team         string `json:"team" binding:"required"`
	AssignedDate string `json:"assigned_date"`
}

type ConsumableRequest struct {
	ConsumableType string      `json:"consumable_type" binding:"required"`
	AmountUsed     float64     `json:"amount_used"`
	CostPerLiter   money.Cents `json:"cost_per_liter"`
	DateRecorded   string      `json:"date_recorded"`
}

// --------- Categories ---------

func (h *EquipmentHandler) ListCategories(c *gin.Context) {
	var list []models.EquipmentCategory
	if err := h.db.WithContext(c.Request.Context()).Order("name ASC").Find(&list).Error; err != nil {
		writeError(c, err, "failed_to_list_categories")
		return
	}
	httpresp.Items(c, list)
}

func (h *EquipmentHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}

	cat := models.EquipmentCategory{Name: strings.TrimSpace(req.Name)}
	if err := h.db.WithContext(c.Request.Context()).Create(&cat).Error; err != nil {
		writeError(c, err, "failed_to_create_category")
		return
	}
	httpresp.Created(c, cat)
}

func (h *EquipmentHandler) UpdateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, ok := findByID[models.EquipmentCategory](c, h.db, id, "category_not_found", "Equipment category not found")
	if !ok {
		return
	}

	var req CategoryRequest
	if !bindJSON(c, &req) {
		return
	}
	cat.Name = strings.TrimSpace(req.Name)

	if err := h.db.WithContext(c.Request.Context()).Save(cat).Error; err != nil {
		writeError(c, err, "failed_to_update_category")
		return
	}
	httpresp.OK(c, cat)
}

func (h *EquipmentHandler) DeleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	cat, ok := findByID[models.EquipmentCategory](c, h.db, id, "category_not_found", "Equipment category not found")
	if !ok {
		return
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Equipment{}).
			Where("equipment_category_id = ?", cat.ID).
			Update("equipment_category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(cat).Error
	})
	if err != nil {
		writeError(c, err, "failed_to_delete_category")
		return
	}
	httpresp.Message(c, http.StatusOK, "Category deleted")
}

// --------- Equipment ---------

func (h *EquipmentHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if categoryID := c.Query("category_id"); categoryID != "" {
		q = q.Where("equipment_category_id = ?", categoryID)
	}

	var list []models.Equipment
	if err := q.Order("id ASC").Find(&list).Error; err != nil {
		writeError(c, err, "failed_to_list_equipment")
		return
	}
	httpresp.Items(c, list)
}

func (h *EquipmentHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	eq, ok := findByID[models.Equipment](c, h.db, id, "equipment_not_found", "Equipment not found")
	if !ok {
		return
	}
	httpresp.OK(c, eq)
}

func (h *EquipmentHandler) Create(c *gin.Context) {
	var req EquipmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		httperr.BadRequest(c, "missing_fields", "name is required")
		return
	}

	eq := models.Equipment{}
	if !h.apply(c, &eq, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&eq).Error; err != nil {
		writeError(c, err, "failed_to_create_equipment")
		return
	}

	writeAudit(h.audit, c, "equipment_created", "equipment", eq.ID, nil)
	httpresp.Created(c, eq)
}

func (h *EquipmentHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	eq, ok := findByID[models.Equipment](c, h.db, id, "equipment_not_found", "Equipment not found")
	if !ok {
		return
	}

	var req EquipmentRequest
	if !bindJSON(c, &req) {
		return
	}
	if !h.apply(c, eq, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(eq).Error; err != nil {
		writeError(c, err, "failed_to_update_equipment")
		return
	}
	httpresp.OK(c, eq)
}

func (h *EquipmentHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	eq, ok := findByID[models.Equipment](c, h.db, id, "equipment_not_found", "Equipment not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Select("Assignments", "Consumables").Delete(eq).Error; err != nil {
		writeError(c, err, "failed_to_delete_equipment")
		return
	}

	writeAudit(h.audit, c, "equipment_deleted", "equipment", eq.ID, nil)
	httpresp.Message(c, http.StatusOK, "Equipment deleted")
}

func (h *EquipmentHandler) apply(c *gin.Context, eq *models.Equipment, req EquipmentRequest) bool {
	if req.EquipmentCategoryID != nil {
		found, err := exists(c, h.db, &models.EquipmentCategory{}, *req.EquipmentCategoryID)
		if err != nil {
			writeError(c, err, "failed_to_check_category")
			return false
		}
		if !found {
			httperr.NotFound(c, "category_not_found", "Equipment category not found")
			return false
		}
		eq.EquipmentCategoryID = req.EquipmentCategoryID
	}

	purchased, err := optionalDate(req.PurchasedDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "purchased_date must be YYYY-MM-DD")
		return false
	}
	if purchased != nil {
		eq.PurchasedDate = purchased
	}
	warranty, err := optionalDate(req.WarrantyExpirationDate)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "warranty_expiration_date must be YYYY-MM-DD")
		return false
	}
	if warranty != nil {
		eq.WarrantyExpirationDate = warranty
	}

	setString(&eq.Name, req.Name)
	setString(&eq.PurchasedCondition, req.PurchasedCondition)
	setString(&eq.Manufacturer, req.Manufacturer)
	setString(&eq.Model, req.Model)
	setString(&eq.PurchasedBy, req.PurchasedBy)
	setString(&eq.FuelType, req.FuelType)
	setString(&eq.OilType, req.OilType)
	if req.PurchasePrice != nil {
		eq.PurchasePrice = *req.PurchasePrice
	}
	if req.RepairCostToDate != nil {
		eq.RepairCostToDate = *req.RepairCostToDate
	}
	return true
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

// --------- Assignments ---------

func (h *EquipmentHandler) ListAssignments(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var list []models.EquipmentAssignment
	if err := h.db.WithContext(c.Request.Context()).
		Where("equipment_id = ?", id).
		Order("assigned_date DESC").
		Find(&list).Error; err != nil {

		writeError(c, err, "failed_to_list_assignments")
		return
	}
	httpresp.Items(c, list)
}

func (h *EquipmentHandler) CreateAssignment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findByID[models.Equipment](c, h.db, id, "equipment_not_found", "Equipment not found"); !ok {
		return
	}

	var req AssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	assigned, ok := h.dateOrToday(c, req.AssignedDate, "assigned_date")
	if !ok {
		return
	}

	a := models.EquipmentAssignment{
		EquipmentID:  id,
		Team:         strings.TrimSpace(req.Team),
		AssignedDate: assigned,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&a).Error; err != nil {
		writeError(c, err, "failed_to_create_assignment")
		return
	}
	httpresp.Created(c, a)
}

func (h *EquipmentHandler) DeleteAssignment(c *gin.Context) {
	id, ok := paramID(c, "assignment_id")
	if !ok {
		return
	}
	a, ok := findByID[models.EquipmentAssignment](c, h.db, id, "assignment_not_found", "Assignment not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(a).Error; err != nil {
		writeError(c, err, "failed_to_delete_assignment")
		return
	}
	httpresp.Message(c, http.StatusOK, "Assignment deleted")
}

// --------- Consumables ---------

func (h *EquipmentHandler) ListConsumables(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	var list []models.ConsumableUsage
	if err := h.db.WithContext(c.Request.Context()).
		Where("equipment_id = ?", id).
		Order("date_recorded DESC").
		Find(&list).Error; err != nil {

		writeError(c, err, "failed_to_list_consumables")
		return
	}
	httpresp.Items(c, list)
}

func (h *EquipmentHandler) CreateConsumable(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findByID[models.Equipment](c, h.db, id, "equipment_not_found", "Equipment not found"); !ok {
		return
	}

	var req ConsumableRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.AmountUsed <= 0 || req.CostPerLiter < 0 {
		httperr.BadRequest(c, "invalid_amount", "amount_used must be positive and cost_per_liter not negative")
		return
	}
	recorded, ok := h.dateOrToday(c, req.DateRecorded, "date_recorded")
	if !ok {
		return
	}

	u := models.ConsumableUsage{
		EquipmentID:    id,
		ConsumableType: strings.TrimSpace(req.ConsumableType),
		AmountUsed:     req.AmountUsed,
		CostPerLiter:   req.CostPerLiter,
		DateRecorded:   recorded,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&u).Error; err != nil {
		writeError(c, err, "failed_to_create_consumable")
		return
	}
	httpresp.Created(c, u)
}

func (h *EquipmentHandler) DeleteConsumable(c *gin.Context) {
	id, ok := paramID(c, "consumable_id")
	if !ok {
		return
	}
	u, ok := findByID[models.ConsumableUsage](c, h.db, id, "consumable_not_found", "Consumable usage not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(u).Error; err != nil {
		writeError(c, err, "failed_to_delete_consumable")
		return
	}
	httpresp.Message(c, http.StatusOK, "Consumable usage deleted")
}

func (h *EquipmentHandler) dateOrToday(c *gin.Context, s, field string) (time.Time, bool) {
	if s == "" {
		now := timezone.NowIn(h.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc), true
	}
	d, err := parseDateIn(h.loc, s)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", field+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return d, true
}
