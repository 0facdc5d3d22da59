// Package service provides the application services orchestrating domain
// services, repositories, and infrastructure adapters.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/perimetra/devscope/internal/application/dto"
	"github.com/perimetra/devscope/internal/domain/models"
	"github.com/perimetra/devscope/internal/domain/repository"
	domainservice "github.com/perimetra/devscope/internal/domain/service"
	"github.com/perimetra/devscope/internal/infrastructure/monitoring"
	"github.com/perimetra/devscope/pkg/constants"
	"github.com/perimetra/devscope/pkg/errors"
	"github.com/perimetra/devscope/pkg/logger"
)

// AuthAppService authenticates credentials and issues scoped tokens.
type AuthAppService interface {
	// Login verifies the credential pair, snapshots the principal's
	// authorized account set, and issues a signed token carrying it. A
	// principal with zero accounts still logs in successfully; the token
	// simply authorizes nothing.
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
}

type authAppService struct {
	credentials repository.CredentialStore
	codec       domainservice.TokenCodec
	audit       domainservice.AuditService
	metrics     *monitoring.Metrics
	logger      logger.Logger
	tokenTTL    time.Duration
	now         func() time.Time
}

// NewAuthAppService creates the authenticator.
func NewAuthAppService(
	credentials repository.CredentialStore,
	codec domainservice.TokenCodec,
	audit domainservice.AuditService,
	metrics *monitoring.Metrics,
	log logger.Logger,
	tokenTTL time.Duration,
) AuthAppService {
	return &authAppService{
		credentials: credentials,
		codec:       codec,
		audit:       audit,
		metrics:     metrics,
		logger:      log.WithComponent("auth"),
		tokenTTL:    tokenTTL,
		now:         time.Now,
	}
}

func (s *authAppService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	if req == nil || req.Username == "" || req.Password == "" {
		return nil, errors.ErrInvalidRequest("username and password are required")
	}

	principal, err := s.credentials.Verify(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.loginFailure(ctx, req.Username, err)
	}

	token, err := s.codec.Encode(ctx, principal.Subject, principal.AccountIDs(), s.now().UTC(), s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token issuance failed", err, logger.String("subject", principal.Subject))
		s.metrics.RecordLogin("error")
		return nil, err
	}

	s.metrics.RecordLogin("success")
	s.logger.Info(ctx, "login succeeded",
		logger.String("subject", principal.Subject),
		logger.Int("account_count", len(principal.Accounts)),
		logger.Time("expires", token.ExpiresAt),
	)
	s.recordAudit(ctx, models.AuditEvent{
		Type:    constants.AuditEventLoginSucceeded,
		Subject: principal.Subject,
		Outcome: "success",
	})

	return dto.NewLoginResponse(token, principal.Accounts), nil
}

// loginFailure funnels every failed verification through one path so the
// externally observable outcome is identical for unknown users and wrong
// passwords. The internal distinction survives only in the audit trail.
func (s *authAppService) loginFailure(ctx context.Context, username string, cause error) error {
	if errors.HasCode(cause, errors.CodeUpstreamUnavailable) {
		s.logger.Error(ctx, "credential store unavailable", cause)
		s.metrics.RecordLogin("upstream_error")
		return cause
	}

	s.metrics.RecordLogin("denied")
	s.logger.Warn(ctx, "login rejected", logger.String("username", username))
	s.recordAudit(ctx, models.AuditEvent{
		Type:    constants.AuditEventLoginFailed,
		Subject: username,
		Outcome: "denied",
		Reason:  cause.Error(),
	})
	return errors.ErrInvalidCredentials()
}

func (s *authAppService) recordAudit(ctx context.Context, event models.AuditEvent) {
	if s.audit == nil {
		return
	}
	event.ID = uuid.NewString()
	event.OccurredAt = s.now().UTC()
	if requestID, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
		event.RequestID = requestID
	}
	s.audit.Record(ctx, event)
}
