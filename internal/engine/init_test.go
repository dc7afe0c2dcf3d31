package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/secrethitler/internal/randutil"
)

func TestAssignRolesDistribution(t *testing.T) {
	expected := map[int][3]int{
		5:  {3, 1, 1},
		6:  {4, 1, 1},
		7:  {4, 2, 1},
		8:  {5, 2, 1},
		9:  {5, 3, 1},
		10: {6, 3, 1},
	}

	for n, want := range expected {
		players, err := assignRoles(testRoster(n), randutil.New(42))
		require.NoError(t, err, "n=%d", n)
		require.Len(t, players, n)

		counts := map[Role]int{}
		for _, p := range players {
			counts[p.Role]++
			assert.True(t, p.Alive)
			assert.Equal(t, PartyOf(p.Role), p.Party)
		}
		assert.Equal(t, want[0], counts[RoleLiberal], "liberals for n=%d", n)
		assert.Equal(t, want[1], counts[RoleFascist], "fascists for n=%d", n)
		assert.Equal(t, want[2], counts[RoleHitler], "hitlers for n=%d", n)
	}
}

func TestAssignRolesInvalidCount(t *testing.T) {
	for _, n := range []int{0, 1, 4, 11} {
		_, err := assignRoles(testRoster(n), randutil.New(1))
		assert.ErrorIs(t, err, ErrInvalidPlayerCount, "n=%d", n)
	}
}

func TestAssignRolesVariesBySeed(t *testing.T) {
	a, err := assignRoles(testRoster(10), randutil.New(1))
	require.NoError(t, err)
	b, err := assignRoles(testRoster(10), randutil.New(2))
	require.NoError(t, err)

	same := true
	for i := range a {
		if a[i].Role != b[i].Role {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should shuffle roles differently")
}

func TestNewPolicyDeckComposition(t *testing.T) {
	deck := newPolicyDeck(randutil.New(7))
	require.Len(t, deck, 17)

	liberals := 0
	for _, p := range deck {
		if p == PolicyLiberal {
			liberals++
		}
	}
	assert.Equal(t, 6, liberals)
	assert.Equal(t, 11, len(deck)-liberals)
}

func TestNextPresidentIndexSkipsDead(t *testing.T) {
	players := fixedPlayers(5)
	players[1].Alive = false
	players[2].Alive = false

	assert.Equal(t, 3, nextPresidentIndex(players, 0))
	assert.Equal(t, 4, nextPresidentIndex(players, 3))
	// Wraps past the dead seats back to the start.
	assert.Equal(t, 0, nextPresidentIndex(players, 4))
}

func TestReshuffleIntoPreservesCards(t *testing.T) {
	deck := []Policy{PolicyLiberal, PolicyFascist}
	discard := []Policy{PolicyFascist, PolicyFascist, PolicyLiberal}

	merged := reshuffleInto(deck, discard, randutil.New(3))
	require.Len(t, merged, 5)

	liberals := 0
	for _, p := range merged {
		if p == PolicyLiberal {
			liberals++
		}
	}
	assert.Equal(t, 2, liberals)
}
