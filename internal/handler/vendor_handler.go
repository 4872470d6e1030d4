package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/response"
)

// VendorHandler serves the vendor surface: mentor lifecycle, rosters and
// the tenant dashboard. Every operation is scoped to the acting vendor.
type VendorHandler struct {
	onboarding *service.OnboardingService
	vendors    *service.VendorService
	mentors    *service.MentorService
	approvals  *service.ApprovalService
	dashboards *service.DashboardService
}

// NewVendorHandler creates a new handler.
func NewVendorHandler(
	onboarding *service.OnboardingService,
	vendors *service.VendorService,
	mentors *service.MentorService,
	approvals *service.ApprovalService,
	dashboards *service.DashboardService,
) *VendorHandler {
	return &VendorHandler{
		onboarding: onboarding,
		vendors:    vendors,
		mentors:    mentors,
		approvals:  approvals,
		dashboards: dashboards,
	}
}

// Profile returns the acting vendor's own record.
func (h *VendorHandler) Profile(c *gin.Context) {
	vendor, err := h.vendors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vendor, nil)
}

// CreateMentor godoc
// @Summary Create a mentor slot
// @Description Generate a mentor registration key under the acting vendor
// @Tags Vendor
// @Accept json
// @Produce json
// @Param payload body models.CreateMentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /vendor/mentors [post]
func (h *VendorHandler) CreateMentor(c *gin.Context) {
	var req models.CreateMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mentor payload"))
		return
	}

	vendor, err := h.vendors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	mentor, err := h.onboarding.CreateMentor(c.Request.Context(), vendor.ID, claimsFromContext(c).UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// ListMentors returns the acting vendor's mentors with rollup counts.
func (h *VendorHandler) ListMentors(c *gin.Context) {
	vendor, err := h.vendors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	mentors, err := h.mentors.ListByVendor(c.Request.Context(), vendor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, nil)
}

// ApproveMentor moves one of the acting vendor's mentors to APPROVED.
func (h *VendorHandler) ApproveMentor(c *gin.Context) {
	h.transitionMentor(c, models.StatusApproved)
}

// RejectMentor moves a mentor to REJECTED with an optional reason.
func (h *VendorHandler) RejectMentor(c *gin.Context) {
	h.transitionMentor(c, models.StatusRejected)
}

// SuspendMentor moves a mentor to SUSPENDED with an optional reason.
func (h *VendorHandler) SuspendMentor(c *gin.Context) {
	h.transitionMentor(c, models.StatusSuspended)
}

func (h *VendorHandler) transitionMentor(c *gin.Context, status models.ApprovalStatus) {
	var req models.ApprovalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
			return
		}
	}

	vendor, err := h.vendors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	mentor, err := h.approvals.TransitionMentor(c.Request.Context(), c.Param("id"), vendor.ID, claimsFromContext(c).UserID, status, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// ListStudents returns every student under the acting vendor's mentors.
func (h *VendorHandler) ListStudents(c *gin.Context) {
	vendor, err := h.vendors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	students, err := h.mentors.StudentsOfVendor(c.Request.Context(), vendor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// Dashboard returns the tenant rollup.
func (h *VendorHandler) Dashboard(c *gin.Context) {
	vendor, err := h.vendors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	dash, err := h.dashboards.Vendor(c.Request.Context(), vendor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}
