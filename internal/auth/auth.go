// Package auth signs organizers up and in, issues session tokens and tells
// subscribers when a session changes.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"eventInvite/internal/model"
	"eventInvite/internal/repo"
)

const MinPasswordLength = 6

// PrincipalKey is where the HTTP middleware stores the request's *Principal.
const PrincipalKey = "auth.principal"

var (
	ErrInvalidCredentials = errors.New("אימייל או סיסמה שגויים")
	ErrWeakPassword       = errors.New("הסיסמה חייבת להכיל לפחות 6 תווים")
	ErrUnauthorized       = errors.New("unauthorized")
)

type EventType string

const (
	SignedIn    EventType = "SIGNED_IN"
	SignedOut   EventType = "SIGNED_OUT"
	UserCreated EventType = "USER_CREATED"
)

// Event describes one session change.
type Event struct {
	Type        EventType
	OrganizerID string
	Email       string
	SessionID   string
	At          time.Time
}

type Store interface {
	CreateOrganizer(ctx context.Context, o *model.Organizer) error
	GetOrganizerByEmail(ctx context.Context, email string) (*model.Organizer, error)
	GetOrganizerByID(ctx context.Context, id string) (*model.Organizer, error)
	CreateSession(ctx context.Context, s *model.Session) error
	GetSession(ctx context.Context, id string) (*model.Session, error)
	DeleteSession(ctx context.Context, id string) error
}

// Principal is the authenticated organizer behind a request.
type Principal struct {
	OrganizerID string
	SessionID   string
}

type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time

	mu     sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

func NewManager(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{
		store:  store,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
		subs:   make(map[int]func(Event)),
	}
}

// Subscribe registers fn for every session change and returns a function
// that removes it.
func (m *Manager) Subscribe(fn func(Event)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) publish(ev Event) {
	m.mu.RLock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}

func (m *Manager) SignUp(ctx context.Context, email, password string) (string, *model.Organizer, error) {
	if len(password) < MinPasswordLength {
		return "", nil, ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, fmt.Errorf("hash password: %w", err)
	}

	o := &model.Organizer{
		ID:           uuid.NewString(),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hashed),
	}
	if err := m.store.CreateOrganizer(ctx, o); err != nil {
		return "", nil, err
	}
	m.publish(Event{Type: UserCreated, OrganizerID: o.ID, Email: o.Email, At: m.now()})

	token, err := m.startSession(ctx, o)
	if err != nil {
		return "", nil, err
	}
	return token, o, nil
}

func (m *Manager) SignIn(ctx context.Context, email, password string) (string, *model.Organizer, error) {
	o, err := m.store.GetOrganizerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrOrganizerNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(o.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := m.startSession(ctx, o)
	if err != nil {
		return "", nil, err
	}
	return token, o, nil
}

func (m *Manager) startSession(ctx context.Context, o *model.Organizer) (string, error) {
	now := m.now()
	s := &model.Session{
		ID:          uuid.NewString(),
		OrganizerID: o.ID,
		ExpiresAt:   now.Add(m.ttl),
	}
	if err := m.store.CreateSession(ctx, s); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   o.ID,
		ID:        s.ID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(s.ExpiresAt),
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	m.publish(Event{Type: SignedIn, OrganizerID: o.ID, Email: o.Email, SessionID: s.ID, At: now})
	return signed, nil
}

// Authenticate checks the token signature and that its session still exists.
func (m *Manager) Authenticate(ctx context.Context, tokenString string) (*Principal, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil {
		return nil, ErrUnauthorized
	}

	s, err := m.store.GetSession(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, repo.ErrSessionNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if s.OrganizerID != claims.Subject || !m.now().Before(s.ExpiresAt) {
		return nil, ErrUnauthorized
	}
	return &Principal{OrganizerID: s.OrganizerID, SessionID: s.ID}, nil
}

func (m *Manager) SignOut(ctx context.Context, p *Principal) error {
	if err := m.store.DeleteSession(ctx, p.SessionID); err != nil && !errors.Is(err, repo.ErrSessionNotFound) {
		return err
	}
	m.publish(Event{Type: SignedOut, OrganizerID: p.OrganizerID, SessionID: p.SessionID, At: m.now()})
	return nil
}

// Organizer loads the organizer behind p.
func (m *Manager) Organizer(ctx context.Context, p *Principal) (*model.Organizer, error) {
	return m.store.GetOrganizerByID(ctx, p.OrganizerID)
}
