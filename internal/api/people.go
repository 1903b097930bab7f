package api

import (
	"net/http"
	"strconv"
	"time"

	"pharmaflow/internal/models"

	"github.com/gin-gonic/gin"
)

type patientRequest struct {
	FullName       string  `json:"full_name" binding:"required"`
	DateOfBirth    string  `json:"date_of_birth"`
	Gender         *string `json:"gender"`
	PhoneNumber    *string `json:"phone_number"`
	Email          *string `json:"email"`
	Address        *string `json:"address"`
	AllergiesNotes *string `json:"allergies_notes"`
}

func (r *patientRequest) toModel() (*models.Patient, error) {
	p := &models.Patient{
		FullName:       r.FullName,
		Gender:         r.Gender,
		PhoneNumber:    r.PhoneNumber,
		Email:          r.Email,
		Address:        r.Address,
		AllergiesNotes: r.AllergiesNotes,
	}
	if r.DateOfBirth != "" {
		d, err := time.Parse(dateLayout, r.DateOfBirth)
		if err != nil {
			return nil, &models.ValidationError{Field: "date_of_birth", Reason: "must be YYYY-MM-DD"}
		}
		p.DateOfBirth = &d
	}
	return p, nil
}

func (h *Handler) createPatient(c *gin.Context) {
	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	p, err := req.toModel()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.people.CreatePatient(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) getPatient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	p, err := h.people.GetPatient(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) listPatients(c *gin.Context) {
	patients, err := h.people.ListPatients(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"patients": patients})
}

func (h *Handler) updatePatient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	var req patientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	p, err := req.toModel()
	if err != nil {
		writeError(c, err)
		return
	}
	p.ID = id
	if err := h.people.UpdatePatient(c.Request.Context(), p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) deletePatient(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid patient ID"})
		return
	}

	if err := h.people.DeletePatient(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

type supplierRequest struct {
	SupplierName  string  `json:"supplier_name" binding:"required"`
	ContactPerson *string `json:"contact_person"`
	PhoneNumber   *string `json:"phone_number"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
}

func (r *supplierRequest) toModel() *models.Supplier {
	return &models.Supplier{
		SupplierName:  r.SupplierName,
		ContactPerson: r.ContactPerson,
		PhoneNumber:   r.PhoneNumber,
		Email:         r.Email,
		Address:       r.Address,
	}
}

func (h *Handler) createSupplier(c *gin.Context) {
	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sup := req.toModel()
	if err := h.people.CreateSupplier(c.Request.Context(), sup); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sup)
}

func (h *Handler) getSupplier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	sup, err := h.people.GetSupplier(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.people.ListSuppliers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers})
}

func (h *Handler) updateSupplier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	var req supplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	sup := req.toModel()
	sup.ID = id
	if err := h.people.UpdateSupplier(c.Request.Context(), sup); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sup)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid supplier ID"})
		return
	}

	if err := h.people.DeleteSupplier(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
