package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
	"github.com/noah-isme/mentora-api/pkg/response"
)

// StudentHandler serves the student surface: profile, available courses
// and enrollment.
type StudentHandler struct {
	students    *service.StudentService
	courses     *service.CourseService
	enrollments *service.EnrollmentService
	dashboards  *service.DashboardService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(students *service.StudentService, courses *service.CourseService, enrollments *service.EnrollmentService, dashboards *service.DashboardService) *StudentHandler {
	return &StudentHandler{students: students, courses: courses, enrollments: enrollments, dashboards: dashboards}
}

// Profile returns the acting student with their enrolled courses.
func (h *StudentHandler) Profile(c *gin.Context) {
	profile, err := h.students.Profile(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, profile, nil)
}

// AvailableCourses returns the courses the acting student can enroll in.
func (h *StudentHandler) AvailableCourses(c *gin.Context) {
	courses, err := h.courses.Available(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, nil)
}

// Dashboard returns the acting student's rollup.
func (h *StudentHandler) Dashboard(c *gin.Context) {
	dash, err := h.dashboards.Student(c.Request.Context(), claimsFromContext(c).UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dash, nil)
}

// Enroll godoc
// @Summary Enroll into a course
// @Description Enroll the acting student with a simulated payment capture; enrollment and payment commit atomically
// @Tags Student
// @Accept json
// @Produce json
// @Param payload body models.EnrollRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/enroll [post]
func (h *StudentHandler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid enrollment payload"))
		return
	}

	receipt, err := h.enrollments.Enroll(c.Request.Context(), claimsFromContext(c).UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, receipt)
}
