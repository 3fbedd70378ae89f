// Package session holds everything scoped to one logged-in user: the
// bearer token, the self record, and the preference store. A Session is
// created at login and discarded at logout; tests construct one directly
// around a fake store, which is the reason this is a struct and not
// package-level state.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/cragmatch/cragmatch/internal/climber"
	"github.com/cragmatch/cragmatch/internal/discovery"
	"github.com/cragmatch/cragmatch/internal/match"
	"github.com/cragmatch/cragmatch/internal/preferences"
	"github.com/cragmatch/cragmatch/internal/recordstore"
)

// ErrProfileIncomplete is returned by Discover when the caller's own
// profile is missing required fields. Incomplete profiles may neither
// browse nor be browsed.
var ErrProfileIncomplete = errors.New("profile incomplete")

// ErrNotLoggedIn is returned by operations that need a token.
var ErrNotLoggedIn = errors.New("not logged in")

type Session struct {
	client *recordstore.Client
	prefs  *preferences.Store
	log    *slog.Logger

	mu    sync.Mutex
	token string
	self  *climber.Climber
}

// New creates a logged-out session around the given client.
func New(client *recordstore.Client, log *slog.Logger) *Session {
	return &Session{
		client: client,
		prefs:  preferences.NewStore(client, log),
		log:    log,
	}
}

// Login authenticates against the record store and syncs preferences.
// A failed preference sync does not fail the login; the session starts
// with empty local state and resyncs later.
func (s *Session) Login(ctx context.Context, identity, password string) error {
	token, self, err := s.client.AuthWithPassword(ctx, identity, password)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.self = self
	s.mu.Unlock()

	s.prefs.Reset()
	_ = s.prefs.Sync(ctx, token, self.ID)
	return nil
}

// Logout drops the token and wipes all session-local decision state.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.self = nil
	s.mu.Unlock()
	s.prefs.Reset()
}

// Preferences exposes the session's preference store.
func (s *Session) Preferences() *preferences.Store { return s.prefs }

// Self returns the current user's record snapshot, or nil when logged
// out. The snapshot refreshes on every roster fetch.
func (s *Session) Self() *climber.Climber {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.self
}

func (s *Session) credentials() (token, selfID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.self != nil {
		selfID = s.self.ID
	}
	return s.token, selfID
}

// SyncPreferences refreshes the preference store from the remote record.
// Best-effort; the error is logged inside the store and returned for
// callers that want it.
func (s *Session) SyncPreferences(ctx context.Context) error {
	token, selfID := s.credentials()
	return s.prefs.Sync(ctx, token, selfID)
}

// Accept records and persists a like for the candidate under the mode.
func (s *Session) Accept(ctx context.Context, cand *climber.Climber, mode climber.Mode) error {
	token, selfID := s.credentials()
	return s.prefs.Accept(ctx, cand, token, selfID, mode)
}

// Reject hides the candidate for the rest of the session (local only).
func (s *Session) Reject(cand *climber.Climber) {
	s.prefs.Reject(cand)
}

// AcceptPartnerRequest answers an incoming partner request; accepting is
// just a like under partner mode, which completes the mutual pair.
func (s *Session) AcceptPartnerRequest(ctx context.Context, requester *climber.Climber) error {
	return s.Accept(ctx, requester, climber.ModePartner)
}

// roster fetches the full user list and refreshes the self snapshot from
// it when present.
func (s *Session) roster(ctx context.Context) ([]climber.Climber, error) {
	token, selfID := s.credentials()
	if token == "" {
		return nil, ErrNotLoggedIn
	}

	roster, err := s.client.List(ctx, token)
	if err != nil {
		return nil, err
	}

	for i := range roster {
		if roster[i].ID == selfID {
			fresh := roster[i]
			s.mu.Lock()
			s.self = &fresh
			s.mu.Unlock()
			break
		}
	}
	return roster, nil
}

// Matches resolves the session's mutual matches. Fail-soft: a roster
// fetch failure is logged and surfaces as an empty list, identical to
// having no matches. Callers needing the distinction use the client
// directly.
func (s *Session) Matches(ctx context.Context) []climber.Match {
	_, selfID := s.credentials()
	roster, err := s.roster(ctx)
	if err != nil {
		s.log.Error("match resolution failed", "err", err)
		return []climber.Match{}
	}
	matches := match.Resolve(roster, selfID, s.client.BaseURL())
	if matches == nil {
		matches = []climber.Match{}
	}
	return matches
}

// PartnerRequests returns incoming one-way partner likes. Fail-soft like
// Matches.
func (s *Session) PartnerRequests(ctx context.Context) []climber.Climber {
	_, selfID := s.credentials()
	roster, err := s.roster(ctx)
	if err != nil {
		s.log.Error("partner request fetch failed", "err", err)
		return []climber.Climber{}
	}
	return match.IncomingPartnerRequests(roster, selfID, s.client.BaseURL())
}

// DatingLikedYou returns one-way dating likes toward the current user.
func (s *Session) DatingLikedYou(ctx context.Context) []climber.Climber {
	_, selfID := s.credentials()
	roster, err := s.roster(ctx)
	if err != nil {
		s.log.Error("dating liker fetch failed", "err", err)
		return []climber.Climber{}
	}
	return match.DatingLikedYou(roster, selfID, s.client.BaseURL())
}

// Discover runs the filter pipeline for the given mode over a fresh
// roster snapshot. Unlike match resolution this is not fail-soft: the
// discovery screens show a retryable error state on fetch failure.
func (s *Session) Discover(ctx context.Context, mode climber.Mode, search string, filters discovery.Filters) ([]climber.Climber, error) {
	self := s.Self()
	if self == nil {
		return nil, ErrNotLoggedIn
	}
	if !self.Complete() {
		return nil, ErrProfileIncomplete
	}

	roster, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}

	queue := discovery.Run(roster, self.ID, mode, s.prefs, search, filters)
	for i := range queue {
		if queue[i].ImageURL == "" {
			queue[i].ImageURL = queue[i].AvatarURL(s.client.BaseURL())
		}
	}
	return queue, nil
}
