package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/task-manager/internal/model"
	"github.com/iliyamo/task-manager/internal/queue"
	"github.com/iliyamo/task-manager/internal/repository"
	"github.com/iliyamo/task-manager/internal/utils"
)

// UserStore is the identity store the auth flow depends on.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// PasswordHasher hashes and checks passwords.  Compare must not reveal why
// a comparison failed.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(plain, hash string) bool
}

// TokenIssuer mints access/refresh pairs and verifies refresh tokens.
type TokenIssuer interface {
	Issue(p utils.Payload) (utils.TokenPair, error)
	VerifyRefresh(raw string) (utils.Payload, error)
}

// EventPublisher receives auth audit events.  Publishing is best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.AuthEvent) error
}

// RegisterInput is a validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput is a validated login request.
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is returned by a successful login.
type AuthResult struct {
	User   *model.User     `json:"user"`
	Tokens utils.TokenPair `json:"tokens"`
}

// publishTimeout bounds each audit publish, dial included.
const publishTimeout = 2 * time.Second

// AuthService runs the register, login, refresh and logout flows.  Tokens are
// stateless: nothing about a session is stored server side.
type AuthService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	events EventPublisher
	log    *zap.Logger
	now    func() time.Time
}

// NewAuthService wires the flow.  events and log may be nil.
func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, events EventPublisher, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
		log:    log.Named("auth"),
		now:    time.Now,
	}
}

// Register creates an account.  A duplicate email is rejected up front and,
// if two registrations race, again by the store's unique index.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	_, err := s.users.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, DuplicateEmailError()
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, InternalError("lookup email", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, InternalError("hash password", err)
	}

	u := &model.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, DuplicateEmailError()
		}
		return nil, InternalError("create user", err)
	}

	s.log.Info("user registered", zap.String("user_id", u.ID))
	s.publish(ctx, queue.EventRegistered, u.ID, u.Email)
	return u, nil
}

// Login checks credentials and issues a fresh token pair.  Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, InvalidCredentialsError()
		}
		return nil, InternalError("lookup email", err)
	}
	if !s.hasher.Compare(in.Password, u.PasswordHash) {
		return nil, InvalidCredentialsError()
	}

	pair, err := s.tokens.Issue(utils.Payload{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, InternalError("issue tokens", err)
	}

	s.publish(ctx, queue.EventLoggedIn, u.ID, u.Email)
	return &AuthResult{User: u, Tokens: pair}, nil
}

// RefreshAccessToken exchanges a refresh token for a new pair.  Both tokens
// rotate.  The user must still exist.
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*utils.TokenPair, error) {
	p, err := s.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, InvalidTokenError()
	}

	u, err := s.users.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, UserNotFoundError()
		}
		return nil, InternalError("lookup user", err)
	}

	pair, err := s.tokens.Issue(utils.Payload{UserID: u.ID, Email: u.Email})
	if err != nil {
		return nil, InternalError("issue tokens", err)
	}

	s.publish(ctx, queue.EventRefreshed, u.ID, u.Email)
	return &pair, nil
}

// Logout only records the event.  Issued tokens stay valid until they
// expire; the client is expected to discard them.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return UnauthenticatedError()
	}
	s.log.Info("user logged out", zap.String("user_id", userID))
	s.publish(ctx, queue.EventLoggedOut, userID, "")
	return nil
}

func (s *AuthService) publish(ctx context.Context, typ queue.EventType, userID, email string) {
	if s.events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	ev := queue.AuthEvent{
		Type:       typ,
		UserID:     userID,
		Email:      email,
		OccurredAt: s.now().UTC().Format(time.RFC3339),
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish auth event failed", zap.String("type", string(typ)), zap.Error(err))
	}
}
