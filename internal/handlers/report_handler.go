package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/medbay/medbay-api/internal/auth"
	"github.com/medbay/medbay-api/internal/middleware"
	"github.com/medbay/medbay-api/internal/models"
	"github.com/medbay/medbay-api/internal/store"
)

type reportRequest struct {
	PatientName   string `json:"patientName" form:"patientName" binding:"required"`
	Age           int    `json:"age" form:"age" binding:"required"`
	HospitalName  string `json:"hospitalName" form:"hospitalName" binding:"required"`
	Weight        string `json:"weight" form:"weight" binding:"required"`
	Height        string `json:"height" form:"height" binding:"required"`
	BloodGroup    string `json:"bloodGroup" form:"bloodGroup" binding:"required"`
	Genotype      string `json:"genotype" form:"genotype" binding:"required"`
	BloodPressure string `json:"bloodPressure" form:"bloodPressure" binding:"required"`
	HIVStatus     string `json:"hivStatus" form:"hivStatus" binding:"required"`
	Hepatitis     string `json:"hepatitis" form:"hepatitis" binding:"required"`
}

// CreateReport inserts a report owned by the calling doctor. Ownership is
// fixed here and never changes.
func (h *Handler) CreateReport(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": middleware.FirstValidationError(err),
			"error":   "invalid input",
		})
		return
	}

	doctorID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorised", "error": "please login"})
		return
	}

	report := &models.Report{
		PatientName:   req.PatientName,
		Age:           req.Age,
		HospitalName:  req.HospitalName,
		Weight:        req.Weight,
		Height:        req.Height,
		BloodGroup:    req.BloodGroup,
		Genotype:      req.Genotype,
		BloodPressure: req.BloodPressure,
		HIVStatus:     req.HIVStatus,
		Hepatitis:     req.Hepatitis,
		DoctorID:      doctorID,
	}
	if err := h.Reports.Create(c.Request.Context(), report); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}

	h.Audit.Record(c.Request.Context(), "report_created", doctorID.Hex(), report.ID.Hex())
	c.Redirect(http.StatusFound, "/users/v/report/k/"+report.ID.Hex())
}

// GetReport returns one report. Owners and admins get the full view; other
// doctors get the read-only variant, flagged by "owner": false.
func (h *Handler) GetReport(c *gin.Context) {
	report, ok := h.findReport(c)
	if !ok {
		return
	}
	owner := middleware.IDMatch(c, report.DoctorID)
	c.JSON(http.StatusOK, gin.H{
		"data":  report,
		"owner": owner || middleware.IsAdmin(c),
	})
}

func (h *Handler) findReport(c *gin.Context) (*models.Report, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found", "error": "no report found"})
		return nil, false
	}
	report, err := h.Reports.FindByID(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found", "error": "no report found"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return nil, false
	}
	return report, true
}

// ListReports returns every report. Any doctor or admin may browse them.
func (h *Handler) ListReports(c *gin.Context) {
	reports, err := h.Reports.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reports})
}

// MyReports returns the reports owned by the calling doctor.
func (h *Handler) MyReports(c *gin.Context) {
	doctorID, ok := middleware.CallerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "unauthorised", "error": "please login"})
		return
	}
	reports, err := h.Reports.FindByDoctor(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": reports})
}

type fetchRequest struct {
	ReportID    string `json:"reportId" form:"reportId"`
	PatientName string `json:"patientName" form:"patientName"`
}

// FetchReport looks a report up by id or patient name and redirects to its
// page under the caller's route group.
func (h *Handler) FetchReport(c *gin.Context) {
	var req fetchRequest
	if err := c.ShouldBind(&req); err != nil || (req.ReportID == "" && req.PatientName == "") {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "error": "reportId or patientName required"})
		return
	}

	var (
		report *models.Report
		err    error
	)
	if req.ReportID != "" {
		id, idErr := primitive.ObjectIDFromHex(req.ReportID)
		if idErr != nil {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found", "error": "no report found"})
			return
		}
		report, err = h.Reports.FindByID(c.Request.Context(), id)
	} else {
		report, err = h.Reports.FindByPatientName(c.Request.Context(), req.PatientName)
	}
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found", "error": "no report found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}

	base := "/users/v/report/k/"
	if middleware.IsAdmin(c) {
		base = "/admin/va/report/k/"
	}
	c.Redirect(http.StatusFound, base+report.ID.Hex())
}

// UpdateReport applies a partial update. Only the owning doctor may update;
// empty fields are left untouched and ownership cannot be reassigned.
func (h *Handler) UpdateReport(c *gin.Context) {
	report, ok := h.findReport(c)
	if !ok {
		return
	}
	if !middleware.IDMatch(c, report.DoctorID) {
		c.JSON(http.StatusForbidden, gin.H{"message": "report not created by you", "error": "unauthorised"})
		return
	}

	var req struct {
		PatientName   string `json:"patientName" form:"patientName"`
		Age           int    `json:"age" form:"age"`
		HospitalName  string `json:"hospitalName" form:"hospitalName"`
		Weight        string `json:"weight" form:"weight"`
		Height        string `json:"height" form:"height"`
		BloodGroup    string `json:"bloodGroup" form:"bloodGroup"`
		Genotype      string `json:"genotype" form:"genotype"`
		BloodPressure string `json:"bloodPressure" form:"bloodPressure"`
		HIVStatus     string `json:"hivStatus" form:"hivStatus"`
		Hepatitis     string `json:"hepatitis" form:"hepatitis"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid input", "error": err.Error()})
		return
	}

	err := h.Reports.Update(c.Request.Context(), report.ID, store.ReportUpdate{
		PatientName:   req.PatientName,
		Age:           req.Age,
		HospitalName:  req.HospitalName,
		Weight:        req.Weight,
		Height:        req.Height,
		BloodGroup:    req.BloodGroup,
		Genotype:      req.Genotype,
		BloodPressure: req.BloodPressure,
		HIVStatus:     req.HIVStatus,
		Hepatitis:     req.Hepatitis,
	})
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "not found", "error": "no report found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}

	h.Audit.Record(c.Request.Context(), "report_updated", report.DoctorID.Hex(), report.ID.Hex())
	c.Redirect(http.StatusFound, "/users/v/report/k/"+report.ID.Hex())
}

// DeleteReport removes a report. Only the owner may delete, and must
// re-confirm their password. Deleting an already-deleted report is a 404.
func (h *Handler) DeleteReport(c *gin.Context) {
	report, ok := h.findReport(c)
	if !ok {
		return
	}
	if !middleware.IDMatch(c, report.DoctorID) {
		c.JSON(http.StatusForbidden, gin.H{
			"message": "report not deleted",
			"error":   "reports can only be deleted by the doctor who created them",
		})
		return
	}

	var req struct {
		Password string `json:"password" form:"password" binding:"required"`
	}
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "report not deleted", "error": "wrong input"})
		return
	}

	doctorID, _ := middleware.CallerID(c)
	doctor, err := h.Users.FindByID(c.Request.Context(), doctorID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found", "error": "try logging in"})
		return
	}
	if !auth.CheckPasswordHash(req.Password, doctor.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "report not deleted", "error": "wrong input"})
		return
	}

	if err := h.Reports.Delete(c.Request.Context(), report.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found", "error": "no report found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "server error", "error": err.Error()})
		return
	}

	h.Audit.Record(c.Request.Context(), "report_deleted", doctorID.Hex(), report.ID.Hex())
	c.JSON(http.StatusOK, gin.H{"message": "report deleted"})
}
