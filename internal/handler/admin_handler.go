package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/response"
)

// AdminHandler serves the admin surface: vendor lifecycle, the course
// catalog, enrollment review and the platform dashboard.
type AdminHandler struct {
	onboarding  *service.OnboardingService
	vendors     *service.VendorService
	approvals   *service.ApprovalService
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	referrals   *service.ReferralService
	dashboards  *service.DashboardService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(
	onboarding *service.OnboardingService,
	vendors *service.VendorService,
	approvals *service.ApprovalService,
	courses *service.CourseService,
	enrollments *service.EnrollmentService,
	referrals *service.ReferralService,
	dashboards *service.DashboardService,
) *AdminHandler {
	return &AdminHandler{
		onboarding:  onboarding,
		vendors:     vendors,
		approvals:   approvals,
		courses:     courses,
		enrollments: enrollments,
		referrals:   referrals,
		dashboards:  dashboards,
	}
}

// CreateVendor godoc
// @Summary Create a vendor slot
// @Description Generate a vendor registration key and a default referral code
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.CreateVendorRequest true "Vendor payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /admin/vendors [post]
func (h *AdminHandler) CreateVendor(c *gin.Context) {
	var req models.CreateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vendor payload"))
		return
	}

	created, err := h.onboarding.CreateVendor(c.Request.Context(), claimsFromContext(c).UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, created)
}

// ListVendors returns all vendors with rollup counts.
func (h *AdminHandler) ListVendors(c *gin.Context) {
	vendors, err := h.vendors.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vendors, nil)
}

// GetVendor returns one vendor.
func (h *AdminHandler) GetVendor(c *gin.Context) {
	vendor, err := h.vendors.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vendor, nil)
}

// UpdateVendor edits a vendor's descriptive fields.
func (h *AdminHandler) UpdateVendor(c *gin.Context) {
	var req models.UpdateVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid vendor payload"))
		return
	}

	vendor, err := h.vendors.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vendor, nil)
}

// DeleteVendor removes a vendor slot.
func (h *AdminHandler) DeleteVendor(c *gin.Context) {
	if err := h.vendors.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ApproveVendor godoc
// @Summary Approve a vendor
// @Tags Admin
// @Produce json
// @Param id path string true "Vendor id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/vendors/{id}/approve [put]
func (h *AdminHandler) ApproveVendor(c *gin.Context) {
	h.transitionVendor(c, models.StatusApproved)
}

// RejectVendor moves a vendor to REJECTED with an optional reason.
func (h *AdminHandler) RejectVendor(c *gin.Context) {
	h.transitionVendor(c, models.StatusRejected)
}

// SuspendVendor moves a vendor to SUSPENDED with an optional reason.
func (h *AdminHandler) SuspendVendor(c *gin.Context) {
	h.transitionVendor(c, models.StatusSuspended)
}

func (h *AdminHandler) transitionVendor(c *gin.Context, status models.ApprovalStatus) {
	var req models.ApprovalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid approval payload"))
			return
		}
	}

	vendor, err := h.approvals.TransitionVendor(c.Request.Context(), c.Param("id"), claimsFromContext(c).UserID, status, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, vendor, nil)
}

// CreateCourse adds a catalog entry.
func (h *AdminHandler) CreateCourse(c *gin.Context) {
	var req models.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// ListCourses returns the full catalog.
func (h *AdminHandler) ListCourses(c *gin.Context) {
	courses, err := h.courses.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// GetCourse returns one course.
func (h *AdminHandler) GetCourse(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// UpdateCourse replaces a course's mutable fields.
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	var req models.CourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid course payload"))
		return
	}

	course, err := h.courses.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// DeleteCourse removes a catalog entry.
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	if err := h.courses.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEnrollments returns every enrollment with display context.
func (h *AdminHandler) ListEnrollments(c *gin.Context) {
	enrollments, err := h.enrollments.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// DeleteEnrollment removes an enrollment fact.
func (h *AdminHandler) DeleteEnrollment(c *gin.Context) {
	if err := h.enrollments.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CreateReferralCode godoc
// @Summary Create a vendor-scoped referral code
// @Description Issue a referral code bound to a tenant without a referring mentor
// @Tags Admin
// @Accept json
// @Produce json
// @Param payload body models.CreateVendorCodeRequest true "Referral code payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/referral-codes [post]
func (h *AdminHandler) CreateReferralCode(c *gin.Context) {
	var req models.CreateVendorCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid referral code payload"))
		return
	}

	code, err := h.referrals.CreateVendorCode(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, code)
}

// Dashboard godoc
// @Summary Platform dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/dashboard [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	dash, err := h.dashboards.Admin(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}
