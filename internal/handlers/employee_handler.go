package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/auth"
	"github.com/BruksfildServices01/lawnmate-api/internal/config"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/validators"
)

type EmployeeHandler struct {
	db     *gorm.DB
	cfg    *config.Config
	tokens *auth.TokenService
	audit  *audit.Dispatcher
}

func NewEmployeeHandler(
	db *gorm.DB,
	cfg *config.Config,
	tokens *auth.TokenService,
	auditDispatcher *audit.Dispatcher,
) *EmployeeHandler {
	return &EmployeeHandler{
		db:     db,
		cfg:    cfg,
		tokens: tokens,
		audit:  auditDispatcher,
	}
}

// --------- Requests ---------

type CreateEmployeeRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Phone    string `json:"phone"`
	Team     string `json:"team"`
	Role     string `json:"role"`
}

type UpdateEmployeeRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Phone    *string `json:"phone"`
	Team     *string `json:"team"`
	Role     *string `json:"role"`
}

// --------- Handlers ---------

func (h *EmployeeHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if team := strings.TrimSpace(c.Query("team")); team != "" {
		q = q.Where("team = ?", team)
	}

	var employees []models.Employee
	if err := q.Order("id ASC").Find(&employees).Error; err != nil {
		writeError(c, err, "failed_to_list_employees")
		return
	}
	httpresp.Items(c, employees)
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	emp, ok := findByID[models.Employee](c, h.db, id, "employee_not_found", "Employee not found")
	if !ok {
		return
	}
	httpresp.OK(c, emp)
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req CreateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	email := validators.NormalizeEmail(req.Email)
	if !validators.IsEmail(email) {
		httperr.BadRequest(c, "invalid_email", "Invalid email format")
		return
	}

	role := auth.RoleEmployee
	if req.Role != "" {
		r, err := auth.ParseRole(req.Role)
		if err != nil {
			httperr.BadRequest(c, "invalid_role", "Role must be admin, lead or employee")
			return
		}
		role = r
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.BcryptCost)
	if err != nil {
		writeError(c, err, "failed_to_hash_password")
		return
	}

	emp := models.Employee{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Team:         req.Team,
		Role:         string(role),
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&emp).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "Email already exists")
			return
		}
		writeError(c, err, "failed_to_create_employee")
		return
	}

	writeAudit(h.audit, c, "employee_created", "employee", emp.ID, gin.H{"role": emp.Role})
	httpresp.Created(c, emp)
}

// Update revokes the employee's refresh tokens when the role changes, so
// the old role cannot be refreshed back into an access token.
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	emp, ok := findByID[models.Employee](c, h.db, id, "employee_not_found", "Employee not found")
	if !ok {
		return
	}

	var req UpdateEmployeeRequest
	if !bindJSON(c, &req) {
		return
	}

	roleWas := emp.Role

	if req.Name != nil {
		emp.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := validators.NormalizeEmail(*req.Email)
		if !validators.IsEmail(email) {
			httperr.BadRequest(c, "invalid_email", "Invalid email format")
			return
		}
		emp.Email = email
	}
	if req.Phone != nil {
		emp.Phone = *req.Phone
	}
	if req.Team != nil {
		emp.Team = *req.Team
	}
	if req.Role != nil {
		r, err := auth.ParseRole(*req.Role)
		if err != nil {
			httperr.BadRequest(c, "invalid_role", "Role must be admin, lead or employee")
			return
		}
		emp.Role = string(r)
	}
	if req.Password != nil && *req.Password != "" {
		hash, err := auth.HashPassword(*req.Password, h.cfg.BcryptCost)
		if err != nil {
			writeError(c, err, "failed_to_hash_password")
			return
		}
		emp.PasswordHash = hash
	}

	if err := h.db.WithContext(c.Request.Context()).Save(emp).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Conflict(c, "email_already_exists", "Email already exists")
			return
		}
		writeError(c, err, "failed_to_update_employee")
		return
	}

	if emp.Role != roleWas {
		h.revoke(c, emp.ID)
	}

	writeAudit(h.audit, c, "employee_updated", "employee", emp.ID, gin.H{"role_from": roleWas, "role_to": emp.Role})
	httpresp.OK(c, emp)
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	emp, ok := findByID[models.Employee](c, h.db, id, "employee_not_found", "Employee not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(emp).Error; err != nil {
		writeError(c, err, "failed_to_delete_employee")
		return
	}
	h.revoke(c, emp.ID)

	writeAudit(h.audit, c, "employee_deleted", "employee", emp.ID, nil)
	httpresp.Message(c, http.StatusOK, "Employee deleted")
}

func (h *EmployeeHandler) revoke(c *gin.Context, id uint) {
	if err := h.tokens.RevokePrincipal(c.Request.Context(), auth.Employee{ID: id}); err != nil {
		slog.Error("failed to revoke employee tokens", "employee_id", id, "error", err)
	}
}
