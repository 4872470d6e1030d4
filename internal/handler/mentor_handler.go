package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/response"
)

// MentorHandler serves the mentor surface: referral codes, the student
// roster and the mentor dashboard.
type MentorHandler struct {
	mentors     *service.MentorService
	referrals   *service.ReferralService
	enrollments *service.EnrollmentService
	dashboards  *service.DashboardService
}

// NewMentorHandler creates a new handler.
func NewMentorHandler(
	mentors *service.MentorService,
	referrals *service.ReferralService,
	enrollments *service.EnrollmentService,
	dashboards *service.DashboardService,
) *MentorHandler {
	return &MentorHandler{
		mentors:     mentors,
		referrals:   referrals,
		enrollments: enrollments,
		dashboards:  dashboards,
	}
}

// Profile returns the acting mentor's own record.
func (h *MentorHandler) Profile(c *gin.Context) {
	mentor, err := h.mentors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// CreateReferralCode godoc
// @Summary Create a referral code
// @Description Open a new referral code under the active-code cap
// @Tags Mentor
// @Accept json
// @Produce json
// @Param payload body models.CreateReferralCodeRequest true "Referral code payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /mentor/referral-codes [post]
func (h *MentorHandler) CreateReferralCode(c *gin.Context) {
	var req models.CreateReferralCodeRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid referral code payload"))
			return
		}
	}

	code, err := h.referrals.CreateCode(c.Request.Context(), claimsFromContext(c).UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, code)
}

// ListReferralCodes returns the acting mentor's codes.
func (h *MentorHandler) ListReferralCodes(c *gin.Context) {
	codes, err := h.referrals.ListCodes(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, codes, nil)
}

// DeactivateReferralCode flips one of the acting mentor's codes inactive.
func (h *MentorHandler) DeactivateReferralCode(c *gin.Context) {
	if err := h.referrals.DeactivateCode(c.Request.Context(), claimsFromContext(c).UserID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListStudents returns the acting mentor's student roster.
func (h *MentorHandler) ListStudents(c *gin.Context) {
	students, err := h.mentors.StudentsOfMentor(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students, nil)
}

// ListEnrollments returns the acting mentor's enrollments.
func (h *MentorHandler) ListEnrollments(c *gin.Context) {
	mentor, err := h.mentors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	enrollments, err := h.enrollments.ListByMentor(c.Request.Context(), mentor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, nil)
}

// Dashboard returns the mentor rollup.
func (h *MentorHandler) Dashboard(c *gin.Context) {
	mentor, err := h.mentors.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	dash, err := h.dashboards.Mentor(c.Request.Context(), mentor.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}
