package authapi

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/SurendarRam14/login-authentication-backend/internal/auth/session"
	"github.com/SurendarRam14/login-authentication-backend/internal/identity"
)

// fakeUserStore is an in-memory identity.Store keyed by email.
type fakeUserStore struct {
	mu      sync.Mutex
	users   map[string]identity.User
	nextID  int
	failAll error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[string]identity.User{}}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return identity.User{}, s.failAll
	}
	u, ok := s.users[strings.ToLower(email)]
	if !ok || u.IsDeleted {
		return identity.User{}, identity.NotFoundError{Op: "fake.FindByEmail", Resource: "user"}
	}
	return u, nil
}

func (s *fakeUserStore) Create(_ context.Context, in identity.CreateUserInput) (identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return identity.User{}, s.failAll
	}
	email := strings.ToLower(in.Email)
	if _, ok := s.users[email]; ok {
		return identity.User{}, identity.ConflictError{Op: "fake.Create", Field: "email"}
	}
	s.nextID++
	u := identity.User{
		ID:                    "user-" + itoa(s.nextID),
		Email:                 email,
		Username:              in.Username,
		PasswordHash:          in.PasswordHash,
		CreatedAt:             in.Now,
		LastPasswordUpdatedAt: in.Now,
		LastModifiedAt:        in.Now,
	}
	s.users[email] = u
	return u, nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, email, newHash string, now time.Time) (identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return identity.User{}, s.failAll
	}
	key := strings.ToLower(email)
	u, ok := s.users[key]
	if !ok || u.IsDeleted {
		return identity.User{}, identity.NotFoundError{Op: "fake.UpdatePassword", Resource: "user"}
	}
	u.PasswordHash = newHash
	u.LastPasswordUpdatedAt = now
	u.LastModifiedAt = now
	s.users[key] = u
	return u, nil
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var b []byte
	for n > 0 {
		b = append([]byte{byte('0' + n%10)}, b...)
		n /= 10
	}
	return string(b)
}

// fakeLoginStore keys records by the plain refresh token.
type fakeLoginStore struct {
	mu      sync.Mutex
	records map[string]*session.Record
	created int
	failAll error
}

func newFakeLoginStore() *fakeLoginStore {
	return &fakeLoginStore{records: map[string]*session.Record{}}
}

func (s *fakeLoginStore) Create(_ context.Context, now time.Time, userID, refreshToken string) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return session.Record{}, s.failAll
	}
	s.created++
	rec := &session.Record{
		ID:         "rec-" + itoa(s.created),
		UserID:     userID,
		LoggedOut:  false,
		LoginTime:  now,
		LogoutTime: now,
	}
	s.records[refreshToken] = rec
	return *rec, nil
}

func (s *fakeLoginStore) CloseActiveByToken(_ context.Context, refreshToken string, now time.Time) (session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAll != nil {
		return session.Record{}, s.failAll
	}
	rec, ok := s.records[refreshToken]
	if !ok || rec.LoggedOut {
		return session.Record{}, session.ErrRecordNotFound
	}
	rec.LoggedOut = true
	rec.LogoutTime = now
	return *rec, nil
}

func (s *fakeLoginStore) get(refreshToken string) (session.Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[refreshToken]
	if !ok {
		return session.Record{}, false
	}
	return *rec, true
}

func (s *fakeLoginStore) createdCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.created
}

// fakeMarkerStore is an in-memory session.MarkerStore.
type fakeMarkerStore struct {
	mu         sync.Mutex
	markers    map[string]string
	nextID     int
	destroyErr error
}

func newFakeMarkerStore() *fakeMarkerStore {
	return &fakeMarkerStore{markers: map[string]string{}}
}

func (s *fakeMarkerStore) Create(_ context.Context, userID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := "marker-" + itoa(s.nextID)
	s.markers[id] = userID
	return id, nil
}

func (s *fakeMarkerStore) Lookup(_ context.Context, markerID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.markers[markerID]
	if !ok {
		return "", session.ErrMarkerNotFound
	}
	return userID, nil
}

func (s *fakeMarkerStore) Destroy(_ context.Context, markerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyErr != nil {
		return s.destroyErr
	}
	delete(s.markers, markerID)
	return nil
}

func (s *fakeMarkerStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.markers)
}
