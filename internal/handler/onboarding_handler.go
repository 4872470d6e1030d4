package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/response"
)

// OnboardingHandler serves the public registration endpoints.
type OnboardingHandler struct {
	onboarding *service.OnboardingService
	referrals  *service.ReferralService
}

// NewOnboardingHandler creates a new handler.
func NewOnboardingHandler(onboarding *service.OnboardingService, referrals *service.ReferralService) *OnboardingHandler {
	return &OnboardingHandler{onboarding: onboarding, referrals: referrals}
}

// RegisterVendor godoc
// @Summary Register as a vendor
// @Description Claim a vendor slot with an admin-issued key, or open a fresh pending slot when no key is supplied
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body models.RegisterVendorRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register/vendor [post]
func (h *OnboardingHandler) RegisterVendor(c *gin.Context) {
	var req models.RegisterVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	vendor, err := h.onboarding.RegisterVendor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, vendor)
}

// RegisterMentor godoc
// @Summary Register as a mentor
// @Description Claim a mentor slot with a key, or self-register under the default vendor without one
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body models.RegisterMentorRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register/mentor [post]
func (h *OnboardingHandler) RegisterMentor(c *gin.Context) {
	var req models.RegisterMentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	mentor, err := h.onboarding.RegisterMentor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, mentor)
}

// RegisterStudent godoc
// @Summary Register as a student
// @Description Register with a mentor referral code, consuming one use of the code
// @Tags Registration
// @Accept json
// @Produce json
// @Param payload body models.RegisterStudentRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /register/student [post]
func (h *OnboardingHandler) RegisterStudent(c *gin.Context) {
	var req models.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	student, err := h.onboarding.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, student)
}

// CheckReferral godoc
// @Summary Check a referral code
// @Description Report whether a referral code is currently usable without consuming it
// @Tags Registration
// @Produce json
// @Param code path string true "Referral code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /referral-codes/{code}/check [get]
func (h *OnboardingHandler) CheckReferral(c *gin.Context) {
	rc, err := h.referrals.Check(c.Request.Context(), c.Param("code"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"code":        rc.Code,
		"usable":      true,
		"usage_count": rc.UsageCount,
		"max_usage":   rc.MaxUsage,
		"expires_at":  rc.ExpiresAt,
	}, nil)
}
