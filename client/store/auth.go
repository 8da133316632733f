package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/graphgen/infographic-api/client/api"
)

const (
	sessionKey = "session"
	tokenKey   = "token"
)

// ErrLoginFailed wraps the backend's rejection message.
var ErrLoginFailed = errors.New("login failed")

// LoginClient is the slice of the API client the auth store needs.
type LoginClient interface {
	Login(ctx context.Context, username, password string) (*api.LoginResponse, error)
}

// tokenSetter is implemented by clients that carry a mutable bearer
// token, such as api.Client.
type tokenSetter interface {
	SetToken(token string)
}

// AuthStore owns the persisted session. Login is a single atomic
// round trip: the store holds either no session or a complete one,
// never an intermediate state.
type AuthStore struct {
	storage Storage
	client  LoginClient
}

func NewAuthStore(storage Storage, client LoginClient) *AuthStore {
	return &AuthStore{storage: storage, client: client}
}

// Login delegates the credential check to the backend and persists
// the session on success. The backend's message is surfaced inline on
// failure.
func (s *AuthStore) Login(ctx context.Context, username, password string) (*api.Session, error) {
	resp, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !resp.OK || resp.User == nil {
		msg := resp.Error
		if msg == "" {
			msg = "Invalid username or password"
		}
		return nil, fmt.Errorf("%w: %s", ErrLoginFailed, msg)
	}

	data, err := json.Marshal(resp.User)
	if err != nil {
		return nil, err
	}
	if err := s.storage.Set(sessionKey, string(data)); err != nil {
		return nil, err
	}
	if resp.AccessToken != "" {
		if err := s.storage.Set(tokenKey, resp.AccessToken); err != nil {
			return nil, err
		}
		// The live client starts authenticating immediately, not on
		// the next process start.
		if ts, ok := s.client.(tokenSetter); ok {
			ts.SetToken(resp.AccessToken)
		}
	}
	return resp.User, nil
}

// Logout clears the persisted session unconditionally.
func (s *AuthStore) Logout() error {
	if err := s.storage.Delete(sessionKey); err != nil {
		return err
	}
	if ts, ok := s.client.(tokenSetter); ok {
		ts.SetToken("")
	}
	return s.storage.Delete(tokenKey)
}

// Current returns the persisted session, if any.
func (s *AuthStore) Current() (*api.Session, bool) {
	raw, ok := s.storage.Get(sessionKey)
	if !ok {
		return nil, false
	}
	var session api.Session
	if err := json.Unmarshal([]byte(raw), &session); err != nil {
		return nil, false
	}
	return &session, true
}

// Token returns the persisted access token, if any.
func (s *AuthStore) Token() (string, bool) {
	return s.storage.Get(tokenKey)
}

// PersistedToken reads the access token straight from storage, for
// callers that need it before an AuthStore exists.
func PersistedToken(storage Storage) (string, bool) {
	return storage.Get(tokenKey)
}
