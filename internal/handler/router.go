package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mentora-api/internal/middleware"
	"github.com/noah-isme/mentora-api/internal/models"
	"github.com/noah-isme/mentora-api/internal/service"
)

// Handlers groups the HTTP handlers for route registration.
type Handlers struct {
	Auth       *AuthHandler
	Onboarding *OnboardingHandler
	Admin      *AdminHandler
	Vendor     *VendorHandler
	Mentor     *MentorHandler
	Student    *StudentHandler
}

// RegisterRoutes mounts the API under prefix. Public routes carry no
// auth; role groups stack the JWT and role middlewares.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, authService *service.AuthService, metrics *service.MetricsService) {
	api := r.Group(prefix)
	api.Use(middleware.Metrics(metrics))

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/resend-otp", h.Auth.ResendOTP)
	}

	register := api.Group("/register")
	{
		register.POST("/vendor", h.Onboarding.RegisterVendor)
		register.POST("/mentor", h.Onboarding.RegisterMentor)
		register.POST("/student", h.Onboarding.RegisterStudent)
	}
	api.GET("/referral-codes/:code/check", h.Onboarding.CheckReferral)

	admin := api.Group("/admin", middleware.JWT(authService), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.POST("/vendors", h.Admin.CreateVendor)
		admin.GET("/vendors", h.Admin.ListVendors)
		admin.GET("/vendors/:id", h.Admin.GetVendor)
		admin.PUT("/vendors/:id", h.Admin.UpdateVendor)
		admin.DELETE("/vendors/:id", h.Admin.DeleteVendor)
		admin.PUT("/vendors/:id/approve", h.Admin.ApproveVendor)
		admin.PUT("/vendors/:id/reject", h.Admin.RejectVendor)
		admin.PUT("/vendors/:id/suspend", h.Admin.SuspendVendor)

		admin.POST("/courses", h.Admin.CreateCourse)
		admin.GET("/courses", h.Admin.ListCourses)
		admin.GET("/courses/:id", h.Admin.GetCourse)
		admin.PUT("/courses/:id", h.Admin.UpdateCourse)
		admin.DELETE("/courses/:id", h.Admin.DeleteCourse)

		admin.POST("/referral-codes", h.Admin.CreateReferralCode)

		admin.GET("/enrollments", h.Admin.ListEnrollments)
		admin.DELETE("/enrollments/:id", h.Admin.DeleteEnrollment)

		admin.GET("/dashboard", h.Admin.Dashboard)
	}

	vendor := api.Group("/vendor", middleware.JWT(authService), middleware.RequireRoles(models.RoleVendor))
	{
		vendor.GET("/profile", h.Vendor.Profile)
		vendor.POST("/mentors", h.Vendor.CreateMentor)
		vendor.GET("/mentors", h.Vendor.ListMentors)
		vendor.PUT("/mentors/:id/approve", h.Vendor.ApproveMentor)
		vendor.PUT("/mentors/:id/reject", h.Vendor.RejectMentor)
		vendor.PUT("/mentors/:id/suspend", h.Vendor.SuspendMentor)
		vendor.GET("/students", h.Vendor.ListStudents)
		vendor.GET("/dashboard", h.Vendor.Dashboard)
	}

	mentor := api.Group("/mentor", middleware.JWT(authService), middleware.RequireRoles(models.RoleMentor))
	{
		mentor.GET("/profile", h.Mentor.Profile)
		mentor.POST("/referral-codes", h.Mentor.CreateReferralCode)
		mentor.GET("/referral-codes", h.Mentor.ListReferralCodes)
		mentor.PUT("/referral-codes/:id/deactivate", h.Mentor.DeactivateReferralCode)
		mentor.GET("/students", h.Mentor.ListStudents)
		mentor.GET("/enrollments", h.Mentor.ListEnrollments)
		mentor.GET("/dashboard", h.Mentor.Dashboard)
	}

	student := api.Group("/student", middleware.JWT(authService), middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/profile", h.Student.Profile)
		student.GET("/courses", h.Student.AvailableCourses)
		student.GET("/dashboard", h.Student.Dashboard)
		student.POST("/enroll", h.Student.Enroll)
	}

	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found", "status": http.StatusNotFound}})
	})
}
