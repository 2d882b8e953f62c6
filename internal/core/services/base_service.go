package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/veltapay/velta_backend/internal/apperrors"
	portsrepo "github.com/veltapay/velta_backend/internal/core/ports/repositories"
	"github.com/veltapay/velta_backend/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	userReader portsrepo.UserReader
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	s.GetLogger(ctx).Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// AuthorizeAdmin verifies the user holds the administrator role. Returns
// ErrForbidden otherwise, ErrNotFound when the user does not exist.
func (s *BaseService) AuthorizeAdmin(ctx context.Context, userID string) error {
	if s.userReader == nil {
		return fmt.Errorf("%w: admin authorization unavailable", apperrors.ErrInternal)
	}
	user, err := s.userReader.FindUserByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsAdmin() {
		return fmt.Errorf("%w: user %s is not an administrator", apperrors.ErrForbidden, userID)
	}
	return nil
}
