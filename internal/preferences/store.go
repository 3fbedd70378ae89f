// Package preferences tracks the current session's accept/reject decisions
// per intent and reconciles them with the caller's record on the remote
// store. One Store is created at login and torn down at logout; nothing in
// it survives a session switch.
package preferences

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/cragmatch/cragmatch/internal/climber"
	"github.com/cragmatch/cragmatch/internal/recordstore"
)

type Action string

const (
	ActionAccept Action = "accept"
	ActionReject Action = "reject"
)

// Entry is one local bookkeeping record of a decision. Reject entries
// carry no mode.
type Entry struct {
	ClimberID string
	Action    Action
	Mode      climber.Mode
	At        time.Time
}

// Store holds the session's decision state. Accepted ids live in one set
// per mode plus a combined set kept for "already decided" filtering.
// Rejections are session-local and never persisted.
type Store struct {
	client *recordstore.Client
	log    *slog.Logger

	mu       sync.Mutex
	dating   map[string]struct{}
	partner  map[string]struct{}
	combined map[string]struct{}
	rejected map[string]struct{}
	entries  []Entry
}

// NewStore creates an empty preference store backed by the given record
// store client.
func NewStore(client *recordstore.Client, log *slog.Logger) *Store {
	s := &Store{client: client, log: log}
	s.clearLocked()
	return s
}

func (s *Store) clearLocked() {
	s.dating = make(map[string]struct{})
	s.partner = make(map[string]struct{})
	s.combined = make(map[string]struct{})
	s.rejected = make(map[string]struct{})
	s.entries = nil
}

// Sync replaces the accepted sets with the authoritative state from the
// caller's own record. The deprecated unified like list is folded into
// both per-mode sets. Best-effort: on failure the previous state stays in
// place and the error is returned for callers that care; most ignore it.
func (s *Store) Sync(ctx context.Context, token, selfID string) error {
	if token == "" || selfID == "" {
		s.log.Warn("skipping preference sync, missing token or self id")
		return nil
	}

	self, err := s.client.Get(ctx, token, selfID)
	if err != nil {
		s.log.Error("preference sync failed", "err", err)
		return err
	}

	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.dating = make(map[string]struct{})
	s.partner = make(map[string]struct{})
	s.combined = make(map[string]struct{})
	s.entries = nil

	for _, id := range self.LikedDating {
		s.dating[id] = struct{}{}
		s.combined[id] = struct{}{}
		s.entries = append(s.entries, Entry{ClimberID: id, Action: ActionAccept, Mode: climber.ModeDating, At: now})
	}
	for _, id := range self.LikedPartner {
		s.partner[id] = struct{}{}
		s.combined[id] = struct{}{}
		s.entries = append(s.entries, Entry{ClimberID: id, Action: ActionAccept, Mode: climber.ModePartner, At: now})
	}
	// Legacy likes predate per-mode sets; count them for both.
	for _, id := range self.LikedUsers {
		s.dating[id] = struct{}{}
		s.partner[id] = struct{}{}
		s.combined[id] = struct{}{}
	}

	s.log.Debug("preferences synced",
		"dating", len(s.dating), "partner", len(s.partner), "combined", len(s.combined))
	return nil
}

// Accept records a like for the candidate under the given mode. An id is
// settled under exactly one mode at a time: accepting under one mode
// removes the id from the other mode's set. With a token the full
// snapshot of both sets is persisted (last-writer-wins); without one the
// decision is local-only and lost on restart unless a later sync picks it
// up from another device's write.
func (s *Store) Accept(ctx context.Context, cand *climber.Climber, token, selfID string, mode climber.Mode) error {
	if selfID == "" {
		s.log.Warn("accept without self id, ignoring", "candidate", cand.ID)
		return nil
	}
	if mode != climber.ModePartner {
		mode = climber.ModeDating
	}

	s.mu.Lock()
	if mode == climber.ModeDating {
		s.dating[cand.ID] = struct{}{}
		delete(s.partner, cand.ID)
	} else {
		s.partner[cand.ID] = struct{}{}
		delete(s.dating, cand.ID)
	}
	s.combined[cand.ID] = struct{}{}
	delete(s.rejected, cand.ID)
	s.entries = append(s.entries, Entry{
		ClimberID: cand.ID,
		Action:    ActionAccept,
		Mode:      mode,
		At:        time.Now(),
	})
	patch := recordstore.LikesPatch{
		Dating:  keys(s.dating),
		Partner: keys(s.partner),
	}
	s.mu.Unlock()

	if token == "" {
		s.log.Warn("accept not persisted, no token", "candidate", cand.ID, "mode", mode)
		return nil
	}

	if err := s.client.PatchLikes(ctx, token, selfID, patch); err != nil {
		s.log.Error("failed to persist accept", "candidate", cand.ID, "mode", mode, "err", err)
		return err
	}
	return nil
}

// Reject hides the candidate for the rest of the session. Rejections are
// never written to the store.
func (s *Store) Reject(cand *climber.Climber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rejected[cand.ID] = struct{}{}
	delete(s.combined, cand.ID)
	s.entries = append(s.entries, Entry{
		ClimberID: cand.ID,
		Action:    ActionReject,
		At:        time.Now(),
	})
}

// Accepted reports whether id has been accepted under any mode.
func (s *Store) Accepted(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.combined[id]
	return ok
}

// AcceptedForDating reports whether id is in the dating like set.
func (s *Store) AcceptedForDating(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.dating[id]
	return ok
}

// AcceptedForPartner reports whether id is in the partner like set.
func (s *Store) AcceptedForPartner(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.partner[id]
	return ok
}

// Rejected reports whether id was rejected in this session.
func (s *Store) Rejected(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rejected[id]
	return ok
}

// Seen reports whether any decision has been made on id.
func (s *Store) Seen(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.combined[id]; ok {
		return true
	}
	_, ok := s.rejected[id]
	return ok
}

// AcceptedIDs returns the combined accepted set, sorted.
func (s *Store) AcceptedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys(s.combined)
}

// AcceptedDatingIDs returns the dating like set, sorted.
func (s *Store) AcceptedDatingIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys(s.dating)
}

// AcceptedPartnerIDs returns the partner like set, sorted.
func (s *Store) AcceptedPartnerIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys(s.partner)
}

// RejectedIDs returns the session's rejected set, sorted.
func (s *Store) RejectedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return keys(s.rejected)
}

// Log returns a copy of the append-only decision log.
func (s *Store) Log() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Entry, len(s.entries))
	copy(out, s.entries)
	return out
}

// Reset clears all sets and the log. Called at logout so no state leaks
// into the next account's session.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

func keys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
