package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"cephai-backend/internal/models"
)

// --- Structs for Request Binding ---

type CreatePatientRequest struct {
	Name  string  `json:"name" binding:"required"`
	DOB   *string `json:"dob"`
	Notes *string `json:"notes"`
}

// --- Handler Functions ---

// CreatePatient creates a patient record owned by the caller.
func (h *Handler) CreatePatient(c *gin.Context) {
	var req CreatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := currentUser(c)

	newPatient := models.Patient{
		Name:    req.Name,
		DOB:     req.DOB,
		Notes:   req.Notes,
		OwnerID: user.ID,
	}

	if err := h.db.Create(&newPatient).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create patient", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, newPatient)
}

// ListPatients returns all patients for admins and only owned patients
// for everyone else.
func (h *Handler) ListPatients(c *gin.Context) {
	user := currentUser(c)

	query := h.db.Model(&models.Patient{})
	if !user.IsAdmin() {
		query = query.Where("owner_id = ?", user.ID)
	}

	var patients []models.Patient
	if err := query.Order("id asc").Find(&patients).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Database error fetching patients", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}

// scopedPatientQuery restricts patient lookups to what the user may
// see: admins see everything, other roles only their own patients. A
// patient outside the caller's scope is indistinguishable from a
// missing one.
func (h *Handler) scopedPatientQuery(user *models.User, patientID uint) *gorm.DB {
	query := h.db.Where("id = ?", patientID)
	if !user.IsAdmin() {
		query = query.Where("owner_id = ?", user.ID)
	}
	return query
}
