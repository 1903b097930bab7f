package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"pharmaflow/internal/alerts"
	"pharmaflow/internal/cart"
	"pharmaflow/internal/models"
	"pharmaflow/internal/service"
	"pharmaflow/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Handler contains HTTP handlers
type Handler struct {
	catalog *service.CatalogService
	billing *service.BillingService
	auth    *service.AuthService
	people  *service.PeopleService
}

// NewHandler creates a new HTTP handler
func NewHandler(catalog *service.CatalogService, billing *service.BillingService, auth *service.AuthService, people *service.PeopleService) *Handler {
	return &Handler{
		catalog: catalog,
		billing: billing,
		auth:    auth,
		people:  people,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/api/v1/login", h.login)

	v1 := router.Group("/api/v1")
	v1.Use(authRequired(h.auth))
	{
		v1.GET("/medicines", h.searchMedicines)
		v1.GET("/medicines/:ref", h.getMedicine)
		v1.POST("/sales", h.createSale)
		v1.GET("/sales/:id", h.getSale)
		v1.GET("/sales/:id/receipt", h.getSaleReceipt)

		v1.GET("/patients", h.listPatients)
		v1.POST("/patients", h.createPatient)
		v1.GET("/patients/:id", h.getPatient)
		v1.PUT("/patients/:id", h.updatePatient)
		v1.DELETE("/patients/:id", h.deletePatient)

		admin := v1.Group("")
		admin.Use(requireRole(models.RoleAdmin))
		{
			admin.POST("/medicines", h.createMedicine)
			admin.PUT("/medicines/:ref", h.updateMedicine)
			admin.DELETE("/medicines/:ref", h.deleteMedicine)
			admin.POST("/medicines/:ref/restock", h.restockMedicine)

			admin.POST("/employees", h.registerEmployee)

			admin.GET("/suppliers", h.listSuppliers)
			admin.POST("/suppliers", h.createSupplier)
			admin.GET("/suppliers/:id", h.getSupplier)
			admin.PUT("/suppliers/:id", h.updateSupplier)
			admin.DELETE("/suppliers/:id", h.deleteSupplier)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	var billingErr *models.BillingError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.Is(err, models.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrDuplicateRef):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInsufficientStock):
		resp := gin.H{"error": err.Error()}
		if errors.As(err, &billingErr) && billingErr.RefNo != "" {
			resp["ref_no"] = billingErr.RefNo
		}
		c.JSON(http.StatusConflict, resp)
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Store unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login handles employee authentication
func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	token, role, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "role": role})
}

type registerEmployeeRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// registerEmployee creates a new employee account (admin only)
func (h *Handler) registerEmployee(c *gin.Context) {
	var req registerEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	emp, err := h.auth.Register(c.Request.Context(), req.Username, req.Password, req.Role)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, emp)
}

// medicineResponse pairs a catalog entry with its advisory alert flags.
type medicineResponse struct {
	models.Medicine
	Alerts []alerts.Flag `json:"alerts"`
}

func (h *Handler) toMedicineResponse(med models.Medicine) medicineResponse {
	flags := h.catalog.ComputeAlerts(&med)
	if flags == nil {
		flags = []alerts.Flag{}
	}
	return medicineResponse{Medicine: med, Alerts: flags}
}

// getMedicine handles medicine lookup by ref no
func (h *Handler) getMedicine(c *gin.Context) {
	med, err := h.catalog.GetMedicineByRef(c.Request.Context(), c.Param("ref"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toMedicineResponse(*med))
}

// searchMedicines handles the enumerated, AND-combined catalog search.
// Without query parameters it lists the whole catalog.
func (h *Handler) searchMedicines(c *gin.Context) {
	criteria := store.SearchCriteria{
		RefNo:    c.Query("ref"),
		NameLike: c.Query("name"),
		UsesLike: c.Query("uses"),
		AgeGap:   c.Query("age_gap"),
		LowStock: c.Query("low_stock") == "true",
	}

	if v := c.Query("stock"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(c, &models.ValidationError{Field: "stock", Reason: "must be an integer"})
			return
		}
		criteria.ExactStock = &n
	}
	if v := c.Query("price"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil {
			writeError(c, &models.ValidationError{Field: "price", Reason: "must be a decimal number"})
			return
		}
		criteria.ExactPrice = &p
	}
	if v := c.Query("expiring_within_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(c, &models.ValidationError{Field: "expiring_within_days", Reason: "must be an integer"})
			return
		}
		criteria.ExpiringWithinDays = &n
	}

	meds, err := h.catalog.SearchMedicines(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]medicineResponse, 0, len(meds))
	for _, med := range meds {
		out = append(out, h.toMedicineResponse(med))
	}
	c.JSON(http.StatusOK, gin.H{"medicines": out})
}

type medicineRequest struct {
	RefNo      string  `json:"ref_no" binding:"required"`
	Name       string  `json:"name" binding:"required"`
	IssueDate  string  `json:"issue_date"`
	ExpiryDate string  `json:"expiry_date"`
	StockQty   int     `json:"stock_qty"`
	AgeGap     *string `json:"age_gap"`
	Uses       *string `json:"uses"`
	Storage    *string `json:"storage"`
	Price      string  `json:"price" binding:"required"`
	Dose       *string `json:"dose"`
}

func (r *medicineRequest) toModel() (*models.Medicine, error) {
	price, err := decimal.NewFromString(r.Price)
	if err != nil {
		return nil, &models.ValidationError{Field: "price", Reason: "must be a decimal number"}
	}

	med := &models.Medicine{
		RefNo:    r.RefNo,
		Name:     r.Name,
		StockQty: r.StockQty,
		AgeGap:   r.AgeGap,
		Uses:     r.Uses,
		Storage:  r.Storage,
		Price:    price,
		Dose:     r.Dose,
	}

	if r.IssueDate != "" {
		d, err := time.Parse(dateLayout, r.IssueDate)
		if err != nil {
			return nil, &models.ValidationError{Field: "issue_date", Reason: "must be YYYY-MM-DD"}
		}
		med.IssueDate = &d
	}
	if r.ExpiryDate != "" {
		d, err := time.Parse(dateLayout, r.ExpiryDate)
		if err != nil {
			return nil, &models.ValidationError{Field: "expiry_date", Reason: "must be YYYY-MM-DD"}
		}
		med.ExpiryDate = &d
	}
	return med, nil
}

// createMedicine handles catalog entry creation (admin only)
func (h *Handler) createMedicine(c *gin.Context) {
	var req medicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	med, err := req.toModel()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.catalog.CreateMedicine(c.Request.Context(), med); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.toMedicineResponse(*med))
}

// updateMedicine handles catalog edits, including renames (admin only)
func (h *Handler) updateMedicine(c *gin.Context) {
	var req medicineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	med, err := req.toModel()
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.catalog.UpdateMedicine(c.Request.Context(), c.Param("ref"), med); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toMedicineResponse(*med))
}

// deleteMedicine handles catalog entry removal (admin only)
func (h *Handler) deleteMedicine(c *gin.Context) {
	if err := h.catalog.DeleteMedicine(c.Request.Context(), c.Param("ref")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("ref")})
}

type restockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// restockMedicine handles stock adjustments outside the billing path
func (h *Handler) restockMedicine(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	newQty, err := h.catalog.AdjustStock(c.Request.Context(), c.Param("ref"), req.Delta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ref_no": c.Param("ref"), "stock_qty": newQty})
}

type saleLineRequest struct {
	RefNo    string `json:"ref_no" binding:"required"`
	Quantity int    `json:"quantity" binding:"required,min=1"`
	// AppendDuplicate stages an independent line even when the ref is
	// already in the cart; the default merges quantities.
	AppendDuplicate bool `json:"append_duplicate,omitempty"`
}

type createSaleRequest struct {
	PatientName string            `json:"patient_name"`
	Lines       []saleLineRequest `json:"lines" binding:"required,min=1"`
}

// createSale stages the submitted lines into a cart and commits it as one
// atomic sale.
func (h *Handler) createSale(c *gin.Context) {
	var req createSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	ctx := c.Request.Context()
	staged := cart.New(h.catalog)
	for _, line := range req.Lines {
		policy := cart.MergeDuplicate
		if line.AppendDuplicate {
			policy = cart.AppendDuplicate
		}
		if err := staged.Add(ctx, line.RefNo, line.Quantity, policy); err != nil {
			writeError(c, err)
			return
		}
	}

	sale, items, err := h.billing.Commit(ctx, staged, req.PatientName, c.GetString(ctxUsername))
	if err != nil {
		writeError(c, err)
		return
	}

	// Stock changed durably; drop stale cache entries.
	for _, item := range items {
		h.catalog.InvalidateMedicine(ctx, item.MedicineRefNo)
	}

	c.JSON(http.StatusCreated, gin.H{"sale": sale, "items": items})
}

// getSale handles sale lookup by transaction id
func (h *Handler) getSale(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	sale, items, err := h.billing.GetSale(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale, "items": items})
}

// getSaleReceipt renders a committed sale as receipt text
func (h *Handler) getSaleReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid transaction ID"})
		return
	}

	sale, items, err := h.billing.GetSale(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.String(http.StatusOK, service.FormatReceipt(sale, items))
}
