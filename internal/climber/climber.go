package climber

import (
	"fmt"
	"time"
)

// Intent is a relationship goal a climber has declared on their profile.
type Intent string

const (
	IntentDate    Intent = "date"
	IntentPartner Intent = "partner"
)

// Mode is the side of the app a like was made in. Modes map 1:1 onto
// intents but use the historical wire spelling ("dating", not "date").
type Mode string

const (
	ModeDating  Mode = "dating"
	ModePartner Mode = "partner"
)

// Intent returns the declared intent a candidate must carry to be visible
// in this mode.
func (m Mode) Intent() Intent {
	if m == ModePartner {
		return IntentPartner
	}
	return IntentDate
}

// Style is a discipline a climber practices.
type Style string

const (
	StyleBouldering Style = "bouldering"
	StyleSport      Style = "sport"
	StyleTrad       Style = "trad"
	StyleGym        Style = "gym"
	StyleOutdoor    Style = "outdoor"
)

// Level is a coarse ability bucket. Specific grades (V-scale, Font, ...)
// always map onto one of these for filtering.
type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
	LevelExpert       Level = "expert"
	LevelElite        Level = "elite"
)

// Grade describes a climber's ability: an optional system-specific value
// ("V5", "7a+") plus the general level used for filtering.
type Grade struct {
	System string `json:"system,omitempty"`
	Value  string `json:"value,omitempty"`
	Level  Level  `json:"general_level,omitempty"`
}

// IsZero reports whether no grade information is present at all.
func (g Grade) IsZero() bool {
	return g.System == "" && g.Value == "" && g.Level == ""
}

// Display renders a grade for UI lists, e.g. "V5 (V-Scale)" or just
// "Intermediate" when only a general level is known.
func (g Grade) Display() string {
	if g.Level == "" {
		return "Beginner"
	}
	if g.System == "" || g.System == "unknown" || g.Value == "" {
		return titleCase(string(g.Level))
	}
	return fmt.Sprintf("%s (%s)", g.Value, systemName(g.System))
}

func systemName(system string) string {
	switch system {
	case "v-scale":
		return "V-Scale"
	case "font":
		return "Font"
	case "french":
		return "French"
	case "uiaa":
		return "UIAA"
	default:
		return "General Level"
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}

// Climber is a roster record as served by the record store. Fields that
// the store may deliver either as arrays or as JSON-encoded strings use
// tolerant wrapper types; see normalize.go.
type Climber struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Age       int        `json:"age"`
	Grade     Grade      `json:"grade"`
	Styles    StyleList  `json:"climbing_styles"`
	HomeGym   string     `json:"home_gym"`
	Bio       string     `json:"bio"`
	Email     string     `json:"email"`
	Avatar    string     `json:"avatar,omitempty"`
	Intents   IntentList `json:"intent"`
	ImageURL  string     `json:"image_url,omitempty"`

	LikedDating  IDList `json:"liked_dating,omitempty"`
	LikedPartner IDList `json:"liked_partner,omitempty"`

	// Deprecated: unified like list from before per-intent sets existed.
	// Merged into both sets on read, never written.
	LikedUsers IDList `json:"liked_users,omitempty"`
}

// HasIntent reports whether the climber declared the given intent.
func (c *Climber) HasIntent(intent Intent) bool {
	for _, i := range c.Intents {
		if i == intent {
			return true
		}
	}
	return false
}

// LikedIn returns the climber's like set for a mode, with the deprecated
// unified list folded in.
func (c *Climber) LikedIn(mode Mode) []string {
	var likes IDList
	if mode == ModePartner {
		likes = c.LikedPartner
	} else {
		likes = c.LikedDating
	}
	if len(c.LikedUsers) == 0 {
		return likes
	}
	merged := make([]string, 0, len(likes)+len(c.LikedUsers))
	seen := make(map[string]struct{}, len(likes)+len(c.LikedUsers))
	for _, id := range append(append([]string{}, likes...), c.LikedUsers...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		merged = append(merged, id)
	}
	return merged
}

// Likes reports whether the climber's like set for the mode contains id.
func (c *Climber) Likes(mode Mode, id string) bool {
	for _, liked := range c.LikedIn(mode) {
		if liked == id {
			return true
		}
	}
	return false
}

// Complete reports whether the profile has every field required before it
// may be shown to others (and before its owner may browse others).
func (c *Climber) Complete() bool {
	return c.Name != "" &&
		c.Age > 0 &&
		!c.Grade.IsZero() &&
		len(c.Styles) > 0 &&
		c.HomeGym != "" &&
		c.Bio != "" &&
		c.Email != "" &&
		c.Avatar != ""
}

// AvatarURL builds the file URL for the climber's avatar thumbnail, or ""
// when no avatar is set.
func (c *Climber) AvatarURL(baseURL string) string {
	if c.Avatar == "" || c.ID == "" {
		return ""
	}
	return fmt.Sprintf("%s/api/files/users/%s/%s?thumb=100x100", baseURL, c.ID, c.Avatar)
}

// Match is a confirmed mutual like, derived from the roster on every
// resolution pass and never stored.
type Match struct {
	ID             string    `json:"id"`
	Climber        Climber   `json:"climber"`
	MatchedAt      time.Time `json:"matched_at"`
	MessagePreview string    `json:"message_preview,omitempty"`
	UnreadCount    int       `json:"unread_count"`
	Mode           Mode      `json:"type"`
}

// MatchID builds the synthetic id for a match with the given climber in
// the given mode.
func MatchID(otherID string, mode Mode) string {
	return fmt.Sprintf("%s-%s-match", otherID, mode)
}
