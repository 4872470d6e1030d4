package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/noah-isme/mentora-api/internal/models"
	appErrors "github.com/noah-isme/mentora-api/pkg/errors"
)

type dashboardRepository interface {
	Admin(ctx context.Context) (*models.AdminDashboard, error)
	Vendor(ctx context.Context, vendorID string) (*models.VendorDashboard, error)
	Mentor(ctx context.Context, mentorID string) (*models.MentorDashboard, error)
	Student(ctx context.Context, userID string) (*models.StudentDashboard, error)
}

type dashboardMetrics interface {
	RecordCacheOperation(hit bool)
}

// DashboardService serves the role dashboards through a short-TTL Redis
// cache. The rollups are aggregate counts; brief staleness is acceptable.
type DashboardService struct {
	repo    dashboardRepository
	cache   *redis.Client
	metrics dashboardMetrics
	logger  *zap.Logger
	ttl     time.Duration
}

// NewDashboardService constructs a DashboardService instance. A nil cache
// client disables caching.
func NewDashboardService(repo dashboardRepository, cache *redis.Client, metrics dashboardMetrics, logger *zap.Logger, ttl time.Duration) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, metrics: metrics, logger: logger, ttl: ttl}
}

// Admin returns the platform-wide rollup.
func (s *DashboardService) Admin(ctx context.Context) (*models.AdminDashboard, error) {
	var dash models.AdminDashboard
	err := s.cached(ctx, "dashboard:admin", &dash, func(ctx context.Context) (interface{}, error) {
		return s.repo.Admin(ctx)
	})
	if err != nil {
		return nil, err
	}
	return &dash, nil
}

// Vendor returns the rollup for one tenant.
func (s *DashboardService) Vendor(ctx context.Context, vendorID string) (*models.VendorDashboard, error) {
	var dash models.VendorDashboard
	key := fmt.Sprintf("dashboard:vendor:%s", vendorID)
	err := s.cached(ctx, key, &dash, func(ctx context.Context) (interface{}, error) {
		return s.repo.Vendor(ctx, vendorID)
	})
	if err != nil {
		return nil, err
	}
	return &dash, nil
}

// Mentor returns the rollup for one mentor.
func (s *DashboardService) Mentor(ctx context.Context, mentorID string) (*models.MentorDashboard, error) {
	var dash models.MentorDashboard
	key := fmt.Sprintf("dashboard:mentor:%s", mentorID)
	err := s.cached(ctx, key, &dash, func(ctx context.Context) (interface{}, error) {
		return s.repo.Mentor(ctx, mentorID)
	})
	if err != nil {
		return nil, err
	}
	return &dash, nil
}

// Student returns the rollup for one student, addressed by user id.
func (s *DashboardService) Student(ctx context.Context, userID string) (*models.StudentDashboard, error) {
	var dash models.StudentDashboard
	key := fmt.Sprintf("dashboard:student:%s", userID)
	err := s.cached(ctx, key, &dash, func(ctx context.Context) (interface{}, error) {
		return s.repo.Student(ctx, userID)
	})
	if err != nil {
		return nil, err
	}
	return &dash, nil
}

// cached reads through the cache: unmarshal a hit into out, otherwise load
// from the repository and write back. Cache failures degrade to direct
// reads rather than erroring.
func (s *DashboardService) cached(ctx context.Context, key string, out interface{}, load func(ctx context.Context) (interface{}, error)) error {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(raw, out); jsonErr == nil {
				if s.metrics != nil {
					s.metrics.RecordCacheOperation(true)
				}
				return nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("dashboard cache read failed", zap.String("key", key), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.RecordCacheOperation(false)
		}
	}

	value, err := load(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "dashboard not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build dashboard")
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode dashboard")
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to decode dashboard")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, raw, s.ttl).Err(); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return nil
}
