package climber_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cragmatch/cragmatch/internal/climber"
)

func decode(t *testing.T, raw string) climber.Climber {
	t.Helper()
	var c climber.Climber
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	return c
}

func TestDecodeArrayFields(t *testing.T) {
	c := decode(t, `{
		"id": "abc",
		"climbing_styles": ["sport", "trad"],
		"intent": ["date", "partner"],
		"liked_dating": ["u1", "u2"]
	}`)

	assert.Equal(t, climber.StyleList{climber.StyleSport, climber.StyleTrad}, c.Styles)
	assert.True(t, c.HasIntent(climber.IntentDate))
	assert.True(t, c.HasIntent(climber.IntentPartner))
	assert.Equal(t, climber.IDList{"u1", "u2"}, c.LikedDating)
}

func TestDecodeStringEncodedFields(t *testing.T) {
	// Older clients wrote arrays as JSON-encoded strings.
	c := decode(t, `{
		"id": "abc",
		"climbing_styles": "[\"bouldering\"]",
		"liked_partner": "[\"u3\"]"
	}`)

	assert.Equal(t, climber.StyleList{climber.StyleBouldering}, c.Styles)
	assert.Equal(t, climber.IDList{"u3"}, c.LikedPartner)
}

func TestDecodeMalformedFieldsDegradeToEmpty(t *testing.T) {
	c := decode(t, `{
		"id": "abc",
		"climbing_styles": "not json",
		"liked_dating": 42,
		"liked_users": "{broken"
	}`)

	assert.Empty(t, c.Styles)
	assert.Empty(t, c.LikedDating)
	assert.Empty(t, c.LikedUsers)
}

func TestDecodeSingleIntentString(t *testing.T) {
	c := decode(t, `{"id": "abc", "intent": "partner"}`)

	assert.Equal(t, climber.IntentList{climber.IntentPartner}, c.Intents)
	assert.False(t, c.HasIntent(climber.IntentDate))
}

func TestDecodeGradeVariants(t *testing.T) {
	obj := decode(t, `{"grade": {"system": "v-scale", "value": "V5", "general_level": "advanced"}}`)
	assert.Equal(t, climber.LevelAdvanced, obj.Grade.Level)
	assert.Equal(t, "V5", obj.Grade.Value)

	level := decode(t, `{"grade": "intermediate"}`)
	assert.Equal(t, climber.LevelIntermediate, level.Grade.Level)

	encoded := decode(t, `{"grade": "{\"general_level\":\"elite\"}"}`)
	assert.Equal(t, climber.LevelElite, encoded.Grade.Level)

	junk := decode(t, `{"grade": 7}`)
	assert.True(t, junk.Grade.IsZero())
}

func TestGradeDisplay(t *testing.T) {
	assert.Equal(t, "V5 (V-Scale)", climber.Grade{System: "v-scale", Value: "V5", Level: climber.LevelAdvanced}.Display())
	assert.Equal(t, "Intermediate", climber.Grade{System: "unknown", Level: climber.LevelIntermediate}.Display())
	assert.Equal(t, "Beginner", climber.Grade{}.Display())
}

func TestLikedInMergesLegacy(t *testing.T) {
	c := decode(t, `{
		"id": "abc",
		"liked_dating": ["u1"],
		"liked_users": ["u2", "u1"]
	}`)

	// Legacy ids count for both modes; duplicates collapse.
	assert.ElementsMatch(t, []string{"u1", "u2"}, c.LikedIn(climber.ModeDating))
	assert.ElementsMatch(t, []string{"u1", "u2"}, c.LikedIn(climber.ModePartner))
	assert.True(t, c.Likes(climber.ModePartner, "u2"))
	assert.False(t, c.Likes(climber.ModeDating, "u9"))
}

func completeClimber() climber.Climber {
	return climber.Climber{
		ID:      "c1",
		Name:    "Alex",
		Age:     28,
		Grade:   climber.Grade{Level: climber.LevelAdvanced},
		Styles:  climber.StyleList{climber.StyleSport},
		HomeGym: "Red Rock",
		Bio:     "hi",
		Email:   "alex@example.com",
		Avatar:  "a.jpg",
		Intents: climber.IntentList{climber.IntentDate},
	}
}

func TestComplete(t *testing.T) {
	c := completeClimber()
	assert.True(t, c.Complete())

	missingBio := completeClimber()
	missingBio.Bio = ""
	assert.False(t, missingBio.Complete())

	missingStyles := completeClimber()
	missingStyles.Styles = nil
	assert.False(t, missingStyles.Complete())

	missingGrade := completeClimber()
	missingGrade.Grade = climber.Grade{}
	assert.False(t, missingGrade.Complete())
}

func TestAvatarURL(t *testing.T) {
	c := completeClimber()
	assert.Equal(t,
		"http://localhost:8090/api/files/users/c1/a.jpg?thumb=100x100",
		c.AvatarURL("http://localhost:8090"))

	c.Avatar = ""
	assert.Equal(t, "", c.AvatarURL("http://localhost:8090"))
}

func TestMatchID(t *testing.T) {
	assert.Equal(t, "u7-dating-match", climber.MatchID("u7", climber.ModeDating))
	assert.Equal(t, "u7-partner-match", climber.MatchID("u7", climber.ModePartner))
}

func TestModeIntent(t *testing.T) {
	assert.Equal(t, climber.IntentDate, climber.ModeDating.Intent())
	assert.Equal(t, climber.IntentPartner, climber.ModePartner.Intent())
}
