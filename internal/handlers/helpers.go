package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
	"github.com/BruksfildServices01/lawnmate-api/internal/money"
)

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_id", "Invalid id")
		return 0, false
	}
	return uint(id), true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints that also accept an empty body.
func bindOptionalJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return false
	}
	return true
}

// findByID loads one row or writes 404/500 itself.
func findByID[T any](c *gin.Context, db *gorm.DB, id uint, notFoundCode, notFoundMsg string) (*T, bool) {
	var row T
	if err := db.WithContext(c.Request.Context()).First(&row, id).Error; err != nil {
		if httperr.IsNotFound(err) {
			httperr.NotFound(c, notFoundCode, notFoundMsg)
			return nil, false
		}
		writeError(c, err, "lookup_failed")
		return nil, false
	}
	return &row, true
}

// exists reports whether a row of model with id is present.
func exists(c *gin.Context, db *gorm.DB, model any, id uint) (bool, error) {
	var n int64
	err := db.WithContext(c.Request.Context()).Model(model).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

// checkServiceCost validates one line item against the services table.
func checkServiceCost(c *gin.Context, db *gorm.DB, serviceID uint, cost money.Cents) bool {
	if cost < 0 {
		httperr.BadRequest(c, "invalid_cost", "Item cost cannot be negative")
		return false
	}
	found, err := exists(c, db, &models.Service{}, serviceID)
	if err != nil {
		writeError(c, err, "failed_to_check_service")
		return false
	}
	if !found {
		httperr.NotFound(c, "service_not_found", "Service not found")
		return false
	}
	return true
}

func isIntegrityError(err error) bool {
	return errors.Is(err, gorm.ErrForeignKeyViolated) ||
		errors.Is(err, gorm.ErrCheckConstraintViolated) ||
		httperr.IsUniqueViolation(err)
}

// writeError is the single place use case and store errors become HTTP
// errors. Business codes ending in _not_found are 404, the rest 400.
func writeError(c *gin.Context, err error, internalCode string) {
	if be, ok := httperr.AsBusiness(err); ok {
		status := http.StatusBadRequest
		if strings.HasSuffix(be.Code, "_not_found") {
			status = http.StatusNotFound
		}
		httperr.Write(c, status, be.Code, be.Error())
		return
	}

	if isIntegrityError(err) {
		httperr.BadRequest(c, "integrity_error", err.Error())
		return
	}

	slog.Error("request failed",
		"path", c.FullPath(),
		"code", internalCode,
		"request_id", c.GetString(middleware.ContextRequestID),
		"error", err,
	)
	httperr.Internal(c, internalCode, "Internal server error")
}

// optionalDate parses a YYYY-MM-DD pointer field.
func optionalDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, err
	}
	return &t, nil
}
