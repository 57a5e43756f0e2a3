package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 200
)

type AuditLogsHandler struct {
	db  *gorm.DB
	loc *time.Location
}

func NewAuditLogsHandler(db *gorm.DB, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, loc: loc}
}

type pageParams struct {
	page  int
	limit int
}

func readPage(c *gin.Context) pageParams {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page <= 0 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil || limit <= 0 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	return pageParams{page: page, limit: limit}
}

func (p pageParams) scope(db *gorm.DB) *gorm.DB {
	return db.Limit(p.limit).Offset((p.page - 1) * p.limit)
}

// List filters by action, entity, entity_id, actor_type, actor_id and an
// inclusive from/to date range in the business zone.
func (h *AuditLogsHandler) List(c *gin.Context) {
	p := readPage(c)
	q := h.db.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	for _, col := range []string{"action", "entity", "actor_type"} {
		if v := c.Query(col); v != "" {
			q = q.Where(col+" = ?", v)
		}
	}
	for _, col := range []string{"entity_id", "actor_id"} {
		v := c.Query(col)
		if v == "" {
			continue
		}
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_id", col+" must be a positive integer")
			return
		}
		q = q.Where(col+" = ?", uint(id))
	}

	if v := c.Query("from"); v != "" {
		from, err := parseDateIn(h.loc, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD")
			return
		}
		q = q.Where("created_at >= ?", from.UTC())
	}
	if v := c.Query("to"); v != "" {
		to, err := parseDateIn(h.loc, v)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD")
			return
		}
		q = q.Where("created_at < ?", to.AddDate(0, 0, 1).UTC())
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		writeError(c, err, "audit_count_failed")
		return
	}

	var logs []models.AuditLog
	if err := q.Scopes(p.scope).Order("created_at DESC, id DESC").Find(&logs).Error; err != nil {
		writeError(c, err, "audit_list_failed")
		return
	}

	httpresp.Page(c, p.page, p.limit, total, logs)
}
