package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"cellquest-service/internal/domain"
	"cellquest-service/internal/store"
)

// AccountService owns user records. Passwords are plaintext equality
// checks against the stored record; this matches the data model and is
// deliberately not an authentication system.
type AccountService struct {
	store store.Store
	log   *zap.Logger
	now   func() time.Time
}

func NewAccountService(st store.Store, log *zap.Logger) *AccountService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AccountService{store: st, log: log, now: time.Now}
}

func userPath(username string) string {
	return store.Join("users", username)
}

// Register creates a user. Uniqueness is a pre-check plus a conditional
// create; two racing registrations resolve by whichever write lands first,
// the store offers no stronger guarantee.
func (s *AccountService) Register(ctx context.Context, username, password string) (domain.SessionContext, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.SessionContext{}, fmt.Errorf("%w: empty username", domain.ErrInvalidCredentials)
	}

	var existing domain.User
	err := s.store.Get(ctx, userPath(username), &existing)
	if err == nil {
		return domain.SessionContext{}, domain.ErrUsernameTaken
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.SessionContext{}, fmt.Errorf("check username: %w", err)
	}

	user := domain.User{
		Username:  username,
		Password:  password,
		CreatedAt: s.now(),
	}
	created, err := s.store.SetIfAbsent(ctx, userPath(username), user)
	if err != nil {
		return domain.SessionContext{}, fmt.Errorf("create user: %w", err)
	}
	if !created {
		return domain.SessionContext{}, domain.ErrUsernameTaken
	}
	s.log.Info("user registered", zap.String("username", username))
	return domain.SessionContext{Username: username}, nil
}

// Login checks the stored plaintext password. Users created without a
// password (the quick-start flow) log in with an empty one.
func (s *AccountService) Login(ctx context.Context, username, password string) (domain.SessionContext, error) {
	username = strings.TrimSpace(username)
	var user domain.User
	err := s.store.Get(ctx, userPath(username), &user)
	if errors.Is(err, store.ErrNotFound) {
		return domain.SessionContext{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.SessionContext{}, fmt.Errorf("load user: %w", err)
	}
	if user.Password != password {
		return domain.SessionContext{}, domain.ErrInvalidCredentials
	}
	return domain.SessionContext{Username: user.Username}, nil
}

// Resume restores a session from a client-persisted identity without
// re-authentication. The user record must still exist.
func (s *AccountService) Resume(ctx context.Context, username string) (domain.SessionContext, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return domain.SessionContext{}, domain.ErrNotAuthenticated
	}
	var user domain.User
	err := s.store.Get(ctx, userPath(username), &user)
	if errors.Is(err, store.ErrNotFound) {
		return domain.SessionContext{}, domain.ErrNotAuthenticated
	}
	if err != nil {
		return domain.SessionContext{}, fmt.Errorf("load user: %w", err)
	}
	return domain.SessionContext{Username: user.Username}, nil
}

// Delete removes the user and everything stored under them. Users are never
// deleted automatically; this is the explicit path.
func (s *AccountService) Delete(ctx context.Context, sc domain.SessionContext) error {
	if sc.Username == "" {
		return domain.ErrNotAuthenticated
	}
	docs, err := s.store.List(ctx, userPath(sc.Username))
	if err != nil {
		return fmt.Errorf("list user docs: %w", err)
	}
	for path := range docs {
		if err := s.store.Delete(ctx, path); err != nil {
			return fmt.Errorf("delete %s: %w", path, err)
		}
	}
	s.log.Info("user deleted", zap.String("username", sc.Username))
	return nil
}
