package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/lawnmate-api/internal/audit"
	"github.com/BruksfildServices01/lawnmate-api/internal/httperr"
	"github.com/BruksfildServices01/lawnmate-api/internal/httpresp"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

type ReviewHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewReviewHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *ReviewHandler {
	return &ReviewHandler{db: db, audit: auditDispatcher}
}

type ReviewRequest struct {
	CustomerID    *uint   `json:"customer_id"`
	LocationID    *uint   `json:"location_id"`
	AppointmentID *uint   `json:"appointment_id"`
	Rating        *int    `json:"rating"`
	Comment       *string `json:"comment"`
}

func validRating(r int) bool {
	return r >= 1 && r <= 5
}

func (h *ReviewHandler) List(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context())
	if customerID := c.Query("customer_id"); customerID != "" {
		q = q.Where("customer_id = ?", customerID)
	}
	if locationID := c.Query("location_id"); locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}

	var reviews []models.Review
	if err := q.Order("datetime DESC").Find(&reviews).Error; err != nil {
		writeError(c, err, "failed_to_list_reviews")
		return
	}
	httpresp.Items(c, reviews)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.CustomerID == nil || req.Rating == nil {
		httperr.BadRequest(c, "missing_fields", "customer_id and rating are required")
		return
	}

	found, err := exists(c, h.db, &models.Customer{}, *req.CustomerID)
	if err != nil {
		writeError(c, err, "failed_to_check_customer")
		return
	}
	if !found {
		httperr.NotFound(c, "customer_not_found", "Customer not found")
		return
	}

	review := models.Review{CustomerID: *req.CustomerID, Datetime: time.Now().UTC()}
	if !applyReview(c, &review, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Create(&review).Error; err != nil {
		writeError(c, err, "failed_to_create_review")
		return
	}

	writeAudit(h.audit, c, "review_created", "review", review.ID, nil)
	httpresp.Created(c, review)
}

func (h *ReviewHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	review, ok := findByID[models.Review](c, h.db, id, "review_not_found", "Review not found")
	if !ok {
		return
	}

	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	if !applyReview(c, review, req) {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Save(review).Error; err != nil {
		writeError(c, err, "failed_to_update_review")
		return
	}
	httpresp.OK(c, review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	review, ok := findByID[models.Review](c, h.db, id, "review_not_found", "Review not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(review).Error; err != nil {
		writeError(c, err, "failed_to_delete_review")
		return
	}

	writeAudit(h.audit, c, "review_deleted", "review", review.ID, nil)
	httpresp.Message(c, http.StatusOK, "Review deleted")
}

func applyReview(c *gin.Context, review *models.Review, req ReviewRequest) bool {
	if req.Rating != nil {
		if !validRating(*req.Rating) {
			httperr.BadRequest(c, "invalid_rating", "Rating must be between 1 and 5")
			return false
		}
		review.Rating = *req.Rating
	}
	if req.LocationID != nil {
		review.LocationID = req.LocationID
	}
	if req.AppointmentID != nil {
		review.AppointmentID = req.AppointmentID
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}
	return true
}
