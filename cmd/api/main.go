package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/mentora-api/api/swagger"
	"github.com/noah-isme/mentora-api/internal/handler"
	"github.com/noah-isme/mentora-api/internal/repository"
	"github.com/noah-isme/mentora-api/internal/service"
	"github.com/noah-isme/mentora-api/pkg/cache"
	"github.com/noah-isme/mentora-api/pkg/config"
	"github.com/noah-isme/mentora-api/pkg/database"
	"github.com/noah-isme/mentora-api/pkg/keygen"
	"github.com/noah-isme/mentora-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/mentora-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/mentora-api/pkg/middleware/requestid"
)

// @title Mentora API
// @version 1.0.0
// @description Multi-tenant onboarding and referral platform
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	validate := validator.New()

	userRepo := repository.NewUserRepository(db)
	vendorRepo := repository.NewVendorRepository(db)
	mentorRepo := repository.NewMentorRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	referralRepo := repository.NewReferralRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)
	otpRepo := repository.NewOTPRepository(redisClient)

	metricsSvc := service.NewMetricsService()
	mailer := service.NewLogMailer(logr)

	authSvc := service.NewAuthService(userRepo, studentRepo, otpRepo, mailer, keygen.OTP, validate, logr, service.AuthConfig{
		Secret:        cfg.JWT.Secret,
		Expiry:        cfg.JWT.Expiration,
		Issuer:        cfg.JWT.Issuer,
		AdminEmail:    cfg.Admin.Email,
		AdminPassword: cfg.Admin.Password,
		OTPTTL:        cfg.Onboarding.OTPTTL,
	})

	onboardingCfg := service.OnboardingConfig{
		VendorKeyTTL:          cfg.Onboarding.VendorKeyTTL,
		KeygenMaxAttempts:     cfg.Onboarding.KeygenMaxAttempts,
		VendorReferralMaxUses: cfg.Onboarding.VendorReferralMaxUses,
		MaxActiveCodes:        cfg.Onboarding.MaxActiveCodes,
	}
	onboardingSvc := service.NewOnboardingService(
		userRepo, vendorRepo, mentorRepo, referralRepo, studentRepo,
		service.FirstApprovedResolver{Vendors: vendorRepo, MaxAttempts: onboardingCfg.KeygenMaxAttempts},
		authSvc, nil, validate, logr, onboardingCfg,
	)

	approvalSvc := service.NewApprovalService(vendorRepo, mentorRepo, validate, logr)
	referralSvc := service.NewReferralService(referralRepo, mentorRepo, userRepo, vendorRepo, validate, logr, onboardingCfg)
	vendorSvc := service.NewVendorService(vendorRepo, validate, logr)
	mentorSvc := service.NewMentorService(mentorRepo, studentRepo, logr)
	studentSvc := service.NewStudentService(studentRepo, logr)
	courseSvc := service.NewCourseService(courseRepo, studentRepo, mentorRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, studentRepo, mentorRepo, courseRepo, referralRepo, metricsSvc, validate, logr)
	dashboardSvc := service.NewDashboardService(dashboardRepo, redisClient, metricsSvc, logr, cfg.Dashboard.CacheTTL)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "postgres": err.Error()})
			return
		}
		if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "redis": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Auth:       handler.NewAuthHandler(authSvc),
		Onboarding: handler.NewOnboardingHandler(onboardingSvc, referralSvc),
		Admin:      handler.NewAdminHandler(onboardingSvc, vendorSvc, approvalSvc, courseSvc, enrollmentSvc, referralSvc, dashboardSvc),
		Vendor:     handler.NewVendorHandler(onboardingSvc, vendorSvc, mentorSvc, approvalSvc, dashboardSvc),
		Mentor:     handler.NewMentorHandler(mentorSvc, referralSvc, enrollmentSvc, dashboardSvc),
		Student:    handler.NewStudentHandler(studentSvc, courseSvc, enrollmentSvc, dashboardSvc),
	}, authSvc, metricsSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
