package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/francolucas/habit-tracker/internal/store"
	"github.com/francolucas/habit-tracker/pkg/config"
	"github.com/francolucas/habit-tracker/pkg/logger"
)

// AccountsCollection holds account documents keyed by lower-cased email.
const AccountsCollection = "accounts"

var (
	ErrAccountExists      = errors.New("account already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidEmail       = errors.New("invalid email")
)

const minPasswordLength = 8

// Identity is the signed-in user as seen by the rest of the application.
// A nil Identity in a watcher callback means signed out.
type Identity struct {
	UserID      uuid.UUID `json:"userId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
}

// Service is the authentication boundary: account registration, credential
// checks, token lifecycle and identity watching.
type Service interface {
	Register(ctx context.Context, email, password, displayName string) (*Identity, string, error)
	Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*Identity, string, error)
	Logout(ctx context.Context, token string) error
	Current(ctx context.Context, token string) (*Identity, error)
	WatchIdentity(ctx context.Context, onChange func(*Identity))
}

type service struct {
	docs store.DocStore
	cfg  *config.Config
	jwt  *JWTService
	log  *logger.Logger

	mu       sync.Mutex
	watchers map[string]func(*Identity)
}

func NewService(docs store.DocStore, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		docs:     docs,
		cfg:      cfg,
		jwt:      NewJWTService(cfg),
		log:      log,
		watchers: make(map[string]func(*Identity)),
	}
}

func (s *service) Register(ctx context.Context, email, password, displayName string) (*Identity, string, error) {
	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	snap, err := s.docs.Get(ctx, AccountsCollection, email)
	if err != nil {
		return nil, "", err
	}
	if snap.Exists {
		return nil, "", ErrAccountExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	userID := uuid.New()
	now := time.Now().UTC().Format(time.RFC3339)
	merge := store.Merge{
		"id":           store.Value(userID.String()),
		"email":        store.Value(email),
		"displayName":  store.Value(displayName),
		"passwordHash": store.Value(string(hash)),
		"createdAt":    store.Value(now),
		"updatedAt":    store.Value(now),
	}
	if err := s.docs.Apply(ctx, AccountsCollection, email, merge); err != nil {
		return nil, "", err
	}

	s.log.Info("Account registered", zap.String("email", email))

	identity := &Identity{UserID: userID, Email: email, DisplayName: displayName}
	token, err := s.issueToken(identity, "", "")
	if err != nil {
		return nil, "", err
	}
	s.notify(identity)
	return identity, token, nil
}

func (s *service) Login(ctx context.Context, email, password, deviceInfo, ipAddress string) (*Identity, string, error) {
	email = normalizeEmail(email)

	snap, err := s.docs.Get(ctx, AccountsCollection, email)
	if err != nil {
		return nil, "", err
	}
	if !snap.Exists {
		return nil, "", ErrInvalidCredentials
	}

	hash, _ := snap.Fields["passwordHash"].(string)
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	identity := identityFromSnapshot(snap)

	now := time.Now().UTC().Format(time.RFC3339)
	if err := s.docs.Apply(ctx, AccountsCollection, email, store.Merge{
		"lastLoginAt": store.Value(now),
		"updatedAt":   store.Value(now),
	}); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(identity, deviceInfo, ipAddress)
	if err != nil {
		return nil, "", err
	}

	s.log.Info("User logged in", zap.String("email", email))
	s.notify(identity)
	return identity, token, nil
}

// Logout blacklists the token until its natural expiry and drops the
// session, so the same token can never authenticate again.
func (s *service) Logout(ctx context.Context, token string) error {
	claims, err := ValidateToken(token, s.cfg.Auth.JWTSecret)
	if err != nil {
		return ErrInvalidCredentials
	}

	GetTokenBlacklist().AddToBlacklist(token, claims.ExpiresAt.Time)
	GetSessionStore().InvalidateSession(token)

	s.log.Info("User logged out", zap.String("email", claims.Email))
	s.notify(nil)
	return nil
}

func (s *service) Current(ctx context.Context, token string) (*Identity, error) {
	if GetTokenBlacklist().IsBlacklisted(token) {
		return nil, ErrInvalidCredentials
	}
	claims, err := ValidateToken(token, s.cfg.Auth.JWTSecret)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	snap, err := s.docs.Get(ctx, AccountsCollection, claims.Email)
	if err != nil {
		return nil, err
	}
	if !snap.Exists {
		return nil, ErrInvalidCredentials
	}
	return identityFromSnapshot(snap), nil
}

// WatchIdentity registers a callback for sign-in and sign-out transitions.
// The registration lasts until ctx is cancelled.
func (s *service) WatchIdentity(ctx context.Context, onChange func(*Identity)) {
	id := uuid.New().String()

	s.mu.Lock()
	s.watchers[id] = onChange
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}()
}

func (s *service) notify(identity *Identity) {
	s.mu.Lock()
	callbacks := make([]func(*Identity), 0, len(s.watchers))
	for _, cb := range s.watchers {
		callbacks = append(callbacks, cb)
	}
	s.mu.Unlock()

	for _, cb := range callbacks {
		cb(identity)
	}
}

func (s *service) issueToken(identity *Identity, deviceInfo, ipAddress string) (string, error) {
	token, err := GenerateToken(identity.UserID, identity.Email, s.cfg.Auth.JWTSecret, s.cfg.Auth.JWTExpiryHours)
	if err != nil {
		return "", err
	}
	expiry := time.Duration(s.cfg.Auth.JWTExpiryHours) * time.Hour
	GetSessionStore().CreateSession(identity.UserID, deviceInfo, ipAddress, token, expiry)
	return token, nil
}

func identityFromSnapshot(snap store.Snapshot) *Identity {
	identity := &Identity{}
	if raw, ok := snap.Fields["id"].(string); ok {
		if parsed, err := uuid.Parse(raw); err == nil {
			identity.UserID = parsed
		}
	}
	identity.Email, _ = snap.Fields["email"].(string)
	identity.DisplayName, _ = snap.Fields["displayName"].(string)
	return identity
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	domain := email[at+1:]
	return strings.Contains(domain, ".") && !strings.HasPrefix(domain, ".") && !strings.HasSuffix(domain, ".")
}
