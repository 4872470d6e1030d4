package service

import (
	"context"

	"go.uber.org/zap"
)

// Mailer delivers onboarding notifications. The default implementation
// only logs; a real SMTP or provider-backed mailer satisfies the same
// interface.
type Mailer interface {
	SendOTP(ctx context.Context, email, otp string) error
	SendRegistrationKey(ctx context.Context, email, key string) error
}

// LogMailer writes outbound mail to the application log instead of
// delivering it. Used in development and tests.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogMailer{logger: logger}
}

// SendOTP logs the verification code.
func (m *LogMailer) SendOTP(_ context.Context, email, otp string) error {
	m.logger.Info("otp issued", zap.String("email", email), zap.String("otp", otp))
	return nil
}

// SendRegistrationKey logs the generated key.
func (m *LogMailer) SendRegistrationKey(_ context.Context, email, key string) error {
	m.logger.Info("registration key issued", zap.String("email", email), zap.String("key", key))
	return nil
}
