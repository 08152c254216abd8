package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"go-retail-store/internal/access"
	storeerrors "go-retail-store/internal/errors"
	"go-retail-store/internal/model"
	"go-retail-store/internal/repository"
	"go-retail-store/internal/ws"
	"go-retail-store/pkg/jwt"
	"go-retail-store/pkg/validator"
)

type AuthService interface {
	Login(ctx context.Context, login, password string) (*LoginResponse, error)
	ChangePassword(ctx context.Context, actor access.Actor, req ChangePasswordRequest) error
	ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error)
	Authenticate(ctx context.Context, tokenString string) (access.Actor, error)
	Heartbeat(ctx context.Context, actor access.Actor) error
}

type LoginResponse struct {
	Token  string             `json:"token"`
	User   model.UserResponse `json:"user"`
	Grants []access.Grant     `json:"grants"`
}

type TokenValidationResponse struct {
	User   model.UserResponse `json:"user"`
	Grants []access.Grant     `json:"grants"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// AuthOptions controls token lifetime. A zero IdleTimeout disables the
// inactivity check.
type AuthOptions struct {
	TokenTTL    time.Duration
	IdleTimeout time.Duration
}

type authService struct {
	userRepo repository.UserRepository
	policy   *access.Policy
	notifier Notifier
	opts     AuthOptions
}

func NewAuthService(userRepo repository.UserRepository, policy *access.Policy, notifier Notifier, opts AuthOptions) AuthService {
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}
	return &authService{
		userRepo: userRepo,
		policy:   policy,
		notifier: notifierOrNoop(notifier),
		opts:     opts,
	}
}

func (s *authService) Login(ctx context.Context, login, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByLogin(ctx, login)
	if errors.Is(err, storeerrors.NotFound) {
		return nil, errors.Annotate(storeerrors.Unauthenticated, "invalid login or password")
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	if !user.IsActive {
		return nil, errors.Annotatef(storeerrors.Unauthenticated, "account %q is inactive", login)
	}
	if !user.CheckPassword(password) {
		return nil, errors.Annotate(storeerrors.Unauthenticated, "invalid login or password")
	}
	if !user.Role().Valid() {
		return nil, errors.Annotatef(storeerrors.PermissionDenied, "account %q has no valid group", login)
	}

	// A new version invalidates every token issued before this login.
	version := uuid.New().String()
	if err := s.userRepo.StartSession(ctx, user.ID, version); err != nil {
		return nil, errors.Trace(err)
	}
	now := time.Now()
	user.TokenVersion = version
	user.LastSeenAt = &now

	token, err := jwt.GenerateToken(user.ID, user.Login, user.Name, string(user.Role()), version, s.opts.TokenTTL)
	if err != nil {
		return nil, errors.Annotate(err, "signing token")
	}

	logger.Infof("user %q logged in as %s", user.Login, user.Role())
	return &LoginResponse{
		Token:  token,
		User:   user.ToResponse(),
		Grants: s.policy.Grants(user.Role()),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, actor access.Actor, req ChangePasswordRequest) error {
	if err := validator.Check(&req); err != nil {
		return err
	}
	user, err := s.userRepo.FindByID(ctx, actor.UserID)
	if err != nil {
		return errors.Trace(err)
	}
	if !user.CheckPassword(req.OldPassword) {
		return errors.Annotate(storeerrors.InvalidArgument, "current password is incorrect")
	}
	if err := user.SetPassword(req.NewPassword); err != nil {
		return errors.Annotate(err, "hashing password")
	}
	return s.userRepo.UpdatePassword(ctx, user.ID, user.Password)
}

func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*TokenValidationResponse, error) {
	user, err := s.sessionUser(ctx, tokenString)
	if err != nil {
		return nil, err
	}
	return &TokenValidationResponse{
		User:   user.ToResponse(),
		Grants: s.policy.Grants(user.Role()),
	}, nil
}

// Authenticate resolves a bearer token to the actor it was issued to.
// The role always comes from the user's current group, not the token.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (access.Actor, error) {
	user, err := s.sessionUser(ctx, tokenString)
	if err != nil {
		return access.Actor{}, err
	}
	return user.Actor(), nil
}

func (s *authService) sessionUser(ctx context.Context, tokenString string) (*model.User, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, errors.Annotate(storeerrors.Unauthenticated, err.Error())
	}

	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if errors.Is(err, storeerrors.NotFound) {
		return nil, errors.Annotatef(storeerrors.Unauthenticated, "user %d no longer exists", claims.UserID)
	} else if err != nil {
		return nil, errors.Trace(err)
	}
	if !user.IsActive {
		return nil, errors.Annotatef(storeerrors.Unauthenticated, "account %q is inactive", user.Login)
	}
	if user.TokenVersion != claims.TokenVersion {
		return nil, errors.Annotate(storeerrors.Unauthenticated, "session replaced by a newer login")
	}
	if s.opts.IdleTimeout > 0 {
		if user.LastSeenAt == nil || time.Since(*user.LastSeenAt) > s.opts.IdleTimeout {
			return nil, errors.Annotate(storeerrors.Unauthenticated, "session expired due to inactivity")
		}
	}
	return user, nil
}

// Heartbeat keeps the actor's session alive and tells listeners the user
// is online.
func (s *authService) Heartbeat(ctx context.Context, actor access.Actor) error {
	if err := s.userRepo.UpdateLastSeen(ctx, actor.UserID); err != nil {
		return errors.Trace(err)
	}
	s.notifier.Notify(ws.Event{
		Type: "user_status_update",
		Data: map[string]interface{}{
			"user_id":      actor.UserID,
			"status":       "online",
			"last_seen_at": time.Now(),
		},
		User: actor.Name,
	})
	return nil
}
