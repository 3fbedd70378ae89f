package match_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cragmatch/cragmatch/internal/climber"
	"github.com/cragmatch/cragmatch/internal/match"
)

const avatarBase = "http://localhost:8090"

func roster(cs ...climber.Climber) []climber.Climber { return cs }

func person(id string, intents []climber.Intent, likedDating, likedPartner []string) climber.Climber {
	return climber.Climber{
		ID:           id,
		Name:         "climber " + id,
		Age:          30,
		Avatar:       "a.jpg",
		Intents:      climber.IntentList(intents),
		LikedDating:  climber.IDList(likedDating),
		LikedPartner: climber.IDList(likedPartner),
	}
}

var (
	dateOnly = []climber.Intent{climber.IntentDate}
	partOnly = []climber.Intent{climber.IntentPartner}
	both     = []climber.Intent{climber.IntentDate, climber.IntentPartner}
)

func TestResolveBasicDatingMatch(t *testing.T) {
	rs := roster(
		person("X", dateOnly, []string{"Y"}, nil),
		person("Y", dateOnly, []string{"X"}, nil),
	)

	matches := match.Resolve(rs, "X", avatarBase)
	require.Len(t, matches, 1)
	assert.Equal(t, "Y-dating-match", matches[0].ID)
	assert.Equal(t, climber.ModeDating, matches[0].Mode)
	assert.Equal(t, "Y", matches[0].Climber.ID)
}

func TestResolveSymmetry(t *testing.T) {
	rs := roster(
		person("X", dateOnly, []string{"Y"}, nil),
		person("Y", dateOnly, []string{"X"}, nil),
	)

	fromX := match.Resolve(rs, "X", avatarBase)
	fromY := match.Resolve(rs, "Y", avatarBase)
	require.Len(t, fromX, 1)
	require.Len(t, fromY, 1)
	assert.Equal(t, "Y-dating-match", fromX[0].ID)
	assert.Equal(t, "X-dating-match", fromY[0].ID)
}

func TestResolveDualIntentIndependence(t *testing.T) {
	// Mutually liked under both modes: exactly two match records, never
	// merged into one.
	rs := roster(
		person("X", both, []string{"Y"}, []string{"Y"}),
		person("Y", both, []string{"X"}, []string{"X"}),
	)

	matches := match.Resolve(rs, "X", avatarBase)
	require.Len(t, matches, 2)
	ids := []string{matches[0].ID, matches[1].ID}
	assert.ElementsMatch(t, []string{"Y-dating-match", "Y-partner-match"}, ids)
}

func TestResolveRequiresDeclaredIntent(t *testing.T) {
	// Mutual likes without Y declaring the dating intent: no match.
	rs := roster(
		person("X", both, []string{"Y"}, nil),
		person("Y", partOnly, []string{"X"}, nil),
	)

	assert.Empty(t, match.Resolve(rs, "X", avatarBase))
}

func TestResolveOneWayLikeIsNotAMatch(t *testing.T) {
	rs := roster(
		person("X", dateOnly, []string{"Y"}, nil),
		person("Y", dateOnly, nil, nil),
	)

	assert.Empty(t, match.Resolve(rs, "X", avatarBase))
}

func TestResolveSelfMissingFromRoster(t *testing.T) {
	rs := roster(person("Y", dateOnly, []string{"X"}, nil))

	assert.Empty(t, match.Resolve(rs, "X", avatarBase))
}

func TestResolveLegacyLikesCountForBothModes(t *testing.T) {
	x := person("X", both, nil, nil)
	x.LikedUsers = climber.IDList{"Y"}
	y := person("Y", both, nil, nil)
	y.LikedUsers = climber.IDList{"X"}

	matches := match.Resolve(roster(x, y), "X", avatarBase)
	require.Len(t, matches, 2)
}

func TestResolveSnapshotHasImageURL(t *testing.T) {
	rs := roster(
		person("X", dateOnly, []string{"Y"}, nil),
		person("Y", dateOnly, []string{"X"}, nil),
	)

	matches := match.Resolve(rs, "X", avatarBase)
	require.Len(t, matches, 1)
	assert.Equal(t, avatarBase+"/api/files/users/Y/a.jpg?thumb=100x100", matches[0].Climber.ImageURL)
}

func TestIncomingPartnerRequests(t *testing.T) {
	rs := roster(
		person("me", partOnly, nil, []string{"mutual"}),
		person("requester", partOnly, nil, []string{"me"}),
		person("mutual", partOnly, nil, []string{"me"}),
		person("uninterested", partOnly, nil, nil),
		person("dater", dateOnly, []string{"me"}, nil),
	)

	requests := match.IncomingPartnerRequests(rs, "me", avatarBase)
	require.Len(t, requests, 1)
	assert.Equal(t, "requester", requests[0].ID)
}

func TestDatingLikedYouExcludesMatches(t *testing.T) {
	rs := roster(
		person("me", dateOnly, []string{"mutual"}, nil),
		person("admirer", dateOnly, []string{"me"}, nil),
		person("mutual", dateOnly, []string{"me"}, nil),
	)

	likers := match.DatingLikedYou(rs, "me", avatarBase)
	require.Len(t, likers, 1)
	assert.Equal(t, "admirer", likers[0].ID)
}
