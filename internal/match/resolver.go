// Package match derives mutual-like matches from the roster. Matches are
// never stored; every resolution pass recomputes them from both parties'
// like sets, so a match disappears the moment either side's likes change.
package match

import (
	"time"

	"github.com/cragmatch/cragmatch/internal/climber"
)

// Resolve computes all mutual-like matches from selfID's perspective.
//
// A pair matches in a mode when both sides declare the mode's intent and
// each appears in the other's like set for that mode. The two modes are
// independent: a pair mutually liked under both produces two match
// records, keyed (otherID, mode), never merged.
//
// Matches come back in roster order. avatarBase is used to build the
// snapshot's image URL.
func Resolve(roster []climber.Climber, selfID, avatarBase string) []climber.Match {
	self := find(roster, selfID)
	if self == nil {
		return nil
	}

	selfDates := self.HasIntent(climber.IntentDate)
	selfPartners := self.HasIntent(climber.IntentPartner)

	var matches []climber.Match
	now := time.Now()

	for i := range roster {
		other := &roster[i]
		if other.ID == selfID {
			continue
		}

		if selfDates && other.HasIntent(climber.IntentDate) &&
			self.Likes(climber.ModeDating, other.ID) &&
			other.Likes(climber.ModeDating, selfID) {
			matches = append(matches, snapshot(other, climber.ModeDating, avatarBase, now))
		}

		if selfPartners && other.HasIntent(climber.IntentPartner) &&
			self.Likes(climber.ModePartner, other.ID) &&
			other.Likes(climber.ModePartner, selfID) {
			matches = append(matches, snapshot(other, climber.ModePartner, avatarBase, now))
		}
	}

	return matches
}

// IncomingPartnerRequests returns partner-intent climbers who liked
// selfID in partner mode and have not been liked back yet. Once selfID
// likes them back the pair becomes a match and drops out of this list.
func IncomingPartnerRequests(roster []climber.Climber, selfID, avatarBase string) []climber.Climber {
	self := find(roster, selfID)
	if self == nil {
		return nil
	}

	var requests []climber.Climber
	for i := range roster {
		other := &roster[i]
		if other.ID == selfID || !other.HasIntent(climber.IntentPartner) {
			continue
		}
		if !other.Likes(climber.ModePartner, selfID) {
			continue
		}
		if self.Likes(climber.ModePartner, other.ID) {
			continue // already mutual
		}
		requests = append(requests, denormalize(other, avatarBase))
	}
	return requests
}

// DatingLikedYou returns dating-intent climbers who liked selfID in
// dating mode without a match existing yet. The UI surfaces at most the
// first as a "someone liked you" hint.
func DatingLikedYou(roster []climber.Climber, selfID, avatarBase string) []climber.Climber {
	self := find(roster, selfID)
	if self == nil {
		return nil
	}

	var likers []climber.Climber
	for i := range roster {
		other := &roster[i]
		if other.ID == selfID || !other.HasIntent(climber.IntentDate) {
			continue
		}
		if !other.Likes(climber.ModeDating, selfID) {
			continue
		}
		if self.Likes(climber.ModeDating, other.ID) {
			continue // mutual, shows up as a match instead
		}
		likers = append(likers, denormalize(other, avatarBase))
	}
	return likers
}

func find(roster []climber.Climber, id string) *climber.Climber {
	for i := range roster {
		if roster[i].ID == id {
			return &roster[i]
		}
	}
	return nil
}

// snapshot builds the display-ready match record for the other climber.
// The copy is point-in-time; it is not kept live against later roster
// fetches.
func snapshot(other *climber.Climber, mode climber.Mode, avatarBase string, at time.Time) climber.Match {
	return climber.Match{
		ID:          climber.MatchID(other.ID, mode),
		Climber:     denormalize(other, avatarBase),
		MatchedAt:   at,
		UnreadCount: 0,
		Mode:        mode,
	}
}

func denormalize(other *climber.Climber, avatarBase string) climber.Climber {
	c := *other
	if c.ImageURL == "" {
		c.ImageURL = c.AvatarURL(avatarBase)
	}
	return c
}
