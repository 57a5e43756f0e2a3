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
	"github.com/BruksfildServices01/lawnmate-api/internal/middleware"
	"github.com/BruksfildServices01/lawnmate-api/internal/models"
)

// PhotoHandler manages photo metadata; file storage is external.
type PhotoHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPhotoHandler(db *gorm.DB, auditDispatcher *audit.Dispatcher) *PhotoHandler {
	return &PhotoHandler{db: db, audit: auditDispatcher}
}

type CreatePhotoRequest struct {
	AppointmentID  uint   `json:"appointment_id" binding:"required"`
	FilePath       string `json:"file_path" binding:"required"`
	ShowToCustomer bool   `json:"show_to_customer"`
	ShowOnWebsite  bool   `json:"show_on_website"`
}

type UpdatePhotoRequest struct {
	FilePath       *string `json:"file_path"`
	ShowToCustomer *bool   `json:"show_to_customer"`
	ShowOnWebsite  *bool   `json:"show_on_website"`
	Approve        *bool   `json:"approve"`
}

func (h *PhotoHandler) List(c *gin.Context) {
	var photos []models.Photo
	if err := h.db.WithContext(c.Request.Context()).Order("datetime DESC").Find(&photos).Error; err != nil {
		writeError(c, err, "failed_to_list_photos")
		return
	}
	httpresp.Items(c, photos)
}

func (h *PhotoHandler) ListForAppointment(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if _, ok := findByID[models.Appointment](c, h.db, id, "appointment_not_found", "Appointment not found"); !ok {
		return
	}

	var photos []models.Photo
	if err := h.db.WithContext(c.Request.Context()).
		Where("appointment_id = ?", id).
		Order("datetime ASC").
		Find(&photos).Error; err != nil {

		writeError(c, err, "failed_to_list_photos")
		return
	}
	httpresp.Items(c, photos)
}

func (h *PhotoHandler) Create(c *gin.Context) {
	var req CreatePhotoRequest
	if !bindJSON(c, &req) {
		return
	}
	if strings.TrimSpace(req.FilePath) == "" {
		httperr.BadRequest(c, "missing_fields", "file_path is required")
		return
	}
	if _, ok := findByID[models.Appointment](c, h.db, req.AppointmentID, "appointment_not_found", "Appointment not found"); !ok {
		return
	}

	uploader := middleware.CurrentEmployee(c).ID
	photo := models.Photo{
		AppointmentID:  req.AppointmentID,
		FilePath:       strings.TrimSpace(req.FilePath),
		UploadedBy:     &uploader,
		ShowToCustomer: req.ShowToCustomer,
		ShowOnWebsite:  req.ShowOnWebsite,
		Datetime:       time.Now().UTC(),
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&photo).Error; err != nil {
		writeError(c, err, "failed_to_create_photo")
		return
	}
	httpresp.Created(c, photo)
}

// Update can approve a photo; the approver is the caller.
func (h *PhotoHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	photo, ok := findByID[models.Photo](c, h.db, id, "photo_not_found", "Photo not found")
	if !ok {
		return
	}

	var req UpdatePhotoRequest
	if !bindJSON(c, &req) {
		return
	}

	if req.FilePath != nil && strings.TrimSpace(*req.FilePath) != "" {
		photo.FilePath = strings.TrimSpace(*req.FilePath)
	}
	if req.ShowToCustomer != nil {
		photo.ShowToCustomer = *req.ShowToCustomer
	}
	if req.ShowOnWebsite != nil {
		photo.ShowOnWebsite = *req.ShowOnWebsite
	}
	if req.Approve != nil {
		if *req.Approve {
			approver := middleware.CurrentEmployee(c).ID
			photo.ApprovedBy = &approver
		} else {
			photo.ApprovedBy = nil
		}
	}

	if err := h.db.WithContext(c.Request.Context()).Save(photo).Error; err != nil {
		writeError(c, err, "failed_to_update_photo")
		return
	}

	writeAudit(h.audit, c, "photo_updated", "photo", photo.ID, gin.H{"show_to_customer": photo.ShowToCustomer})
	httpresp.OK(c, photo)
}

func (h *PhotoHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	photo, ok := findByID[models.Photo](c, h.db, id, "photo_not_found", "Photo not found")
	if !ok {
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(photo).Error; err != nil {
		writeError(c, err, "failed_to_delete_photo")
		return
	}
	httpresp.Message(c, http.StatusOK, "Photo deleted")
}
