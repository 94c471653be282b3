package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/foundit/lostfound-service/internal/auth"
	"github.com/foundit/lostfound-service/internal/config"
	"github.com/foundit/lostfound-service/internal/domain"
	"github.com/foundit/lostfound-service/internal/events"
	"github.com/foundit/lostfound-service/internal/repository"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// maxUsernameAttempts bounds the suffix search for a free username.
const maxUsernameAttempts = 100

// IdentityService coordinates signup, login and the notification inbox.
type IdentityService struct {
	accounts      repository.AccountRepository
	notifications repository.NotificationRepository
	tokenMgr      *auth.TokenManager
	dispatcher    events.Dispatcher
	logger        *zap.Logger
	bcryptCost    int
	identity      config.IdentityConfig
	inboxCap      int
}

// IdentityDependencies encapsulates repo requirements for the identity service.
type IdentityDependencies struct {
	AccountRepo      repository.AccountRepository
	NotificationRepo repository.NotificationRepository
	Dispatcher       events.Dispatcher
	Logger           *zap.Logger
}

// Registration is the result of a successful signup or login.
type Registration struct {
	Account *domain.Account
	Token   domain.Token
}

// Profile is the caller's own view of their account.
type Profile struct {
	Account       *domain.Account
	Notifications []domain.Notification
}

// NewIdentityService builds the service.
func NewIdentityService(cfg config.Config, deps IdentityDependencies) *IdentityService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityService{
		accounts:      deps.AccountRepo,
		notifications: deps.NotificationRepo,
		tokenMgr:      auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		dispatcher:    deps.Dispatcher,
		logger:        logger,
		bcryptCost:    cfg.Auth.BcryptCost,
		identity:      cfg.Identity,
		inboxCap:      cfg.Notification.MaxPerAccount,
	}
}

// RoleForEmail decides the role an email would register with, or reports
// that the email is not admissible.
func (s *IdentityService) RoleForEmail(email string) (domain.Role, bool) {
	email = normalizeEmail(email)
	for _, suffix := range s.identity.AdminDomains {
		if strings.HasSuffix(email, suffix) {
			return domain.RoleAdmin, true
		}
	}
	for _, suffix := range s.identity.UserDomains {
		if strings.HasSuffix(email, suffix) {
			return domain.RoleUser, true
		}
	}
	return "", false
}

// Register creates an account. Admin-domain emails skip the user domain and
// password length rules. Uniqueness is enforced by the store.
func (s *IdentityService) Register(ctx context.Context, email, password string) (*Registration, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError("Invalid email or password", nil)
	}

	role, ok := s.RoleForEmail(email)
	if !ok || (role == domain.RoleUser && len(password) < s.identity.MinPasswordLength) {
		return nil, apperrors.NewValidationError("Invalid email or password", nil)
	}
	localPart, _, _ := strings.Cut(email, "@")
	if localPart == "" {
		return nil, apperrors.NewValidationError("Invalid email or password", nil)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	account := &domain.Account{Email: email, PasswordHash: hash, Role: role}
	if err := s.insertWithFreeUsername(ctx, account, localPart); err != nil {
		return nil, err
	}

	token, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	s.publish(ctx, events.New(events.EventAccountRegistered,
		events.Actor{AccountID: account.ID, Role: account.Role},
		events.AccountRegisteredPayload{AccountID: account.ID, Username: account.Username, Role: account.Role}))
	return &Registration{Account: account, Token: token}, nil
}

// insertWithFreeUsername tries base, base1, base2, ... until the username
// constraint accepts one. An email conflict ends the search.
func (s *IdentityService) insertWithFreeUsername(ctx context.Context, account *domain.Account, base string) error {
	for attempt := 0; attempt < maxUsernameAttempts; attempt++ {
		account.Username = base
		if attempt > 0 {
			account.Username = base + strconv.Itoa(attempt)
		}

		err := s.accounts.Create(ctx, account)
		switch {
		case err == nil:
			return nil
		case repository.IsUniqueViolation(err, repository.ConstraintAccountEmail):
			if account.Role == domain.RoleAdmin {
				return apperrors.NewConflict("Admin already exists", nil)
			}
			return apperrors.NewConflict("User already exists", nil)
		case repository.IsUniqueViolation(err, repository.ConstraintAccountUsername):
			continue
		default:
			return apperrors.NewInternalError(err)
		}
	}
	return apperrors.NewInternalError(errors.New("no free username for " + base))
}

// Login authenticates by email and password. Every failure mode returns the
// same message.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*Registration, error) {
	invalid := apperrors.NewUnauthorized("Invalid credentials")

	account, err := s.accounts.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			auth.CompareDummy(password)
			return nil, invalid
		}
		return nil, apperrors.NewInternalError(err)
	}
	if err := auth.ComparePassword(account.PasswordHash, password); err != nil {
		return nil, invalid
	}

	token, err := s.tokenMgr.GenerateToken(account)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Registration{Account: account, Token: token}, nil
}

// Profile returns the account with its notifications in insertion order.
func (s *IdentityService) Profile(ctx context.Context, accountID string) (*Profile, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	inbox, err := s.notifications.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Profile{Account: account, Notifications: inbox}, nil
}

// AppendNotification adds a message to the account's inbox, trimming the
// oldest entries beyond the configured cap.
func (s *IdentityService) AppendNotification(ctx context.Context, accountID, message string) (*domain.Notification, error) {
	n := &domain.Notification{AccountID: accountID, Message: message}
	if err := s.notifications.Append(ctx, n, s.inboxCap); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("User", nil)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return n, nil
}

// ClearNotifications empties the account's inbox.
func (s *IdentityService) ClearNotifications(ctx context.Context, accountID string) error {
	if _, err := s.notifications.ClearByAccount(ctx, accountID); err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *IdentityService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *IdentityService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
