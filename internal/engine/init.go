package engine

import (
	"errors"
	rand "math/rand/v2"

	"github.com/lox/secrethitler/internal/randutil"
)

// ErrInvalidPlayerCount is returned when a game is started outside the 5-10
// player range the role table supports.
var ErrInvalidPlayerCount = errors.New("game requires 5-10 players")

type roleCounts struct {
	liberals int
	fascists int
	hitlers  int
}

// roleDistribution follows the official rules: Hitler is always exactly one,
// the remainder splits between liberals and ordinary fascists.
var roleDistribution = map[int]roleCounts{
	5:  {liberals: 3, fascists: 1, hitlers: 1},
	6:  {liberals: 4, fascists: 1, hitlers: 1},
	7:  {liberals: 4, fascists: 2, hitlers: 1},
	8:  {liberals: 5, fascists: 2, hitlers: 1},
	9:  {liberals: 5, fascists: 3, hitlers: 1},
	10: {liberals: 6, fascists: 3, hitlers: 1},
}

const (
	liberalPolicyCount = 6
	fascistPolicyCount = 11
)

// assignRoles builds the role multiset for the roster size, shuffles it and
// zips it onto players in roster order.
func assignRoles(roster []RosterEntry, rng *rand.Rand) ([]Player, error) {
	dist, ok := roleDistribution[len(roster)]
	if !ok {
		return nil, ErrInvalidPlayerCount
	}

	roles := make([]Role, 0, len(roster))
	for i := 0; i < dist.liberals; i++ {
		roles = append(roles, RoleLiberal)
	}
	for i := 0; i < dist.fascists; i++ {
		roles = append(roles, RoleFascist)
	}
	for i := 0; i < dist.hitlers; i++ {
		roles = append(roles, RoleHitler)
	}
	randutil.ShuffleRand(rng, roles)

	players := make([]Player, len(roster))
	for i, entry := range roster {
		players[i] = Player{
			ID:       entry.ID,
			Name:     entry.Name,
			AvatarID: entry.AvatarID,
			Role:     roles[i],
			Party:    PartyOf(roles[i]),
			Alive:    true,
		}
	}
	return players, nil
}

// newPolicyDeck builds and shuffles the 6 liberal / 11 fascist deck.
func newPolicyDeck(rng *rand.Rand) []Policy {
	deck := make([]Policy, 0, liberalPolicyCount+fascistPolicyCount)
	for i := 0; i < liberalPolicyCount; i++ {
		deck = append(deck, PolicyLiberal)
	}
	for i := 0; i < fascistPolicyCount; i++ {
		deck = append(deck, PolicyFascist)
	}
	randutil.ShuffleRand(rng, deck)
	return deck
}

// initializeGame assigns roles, creates the deck and picks a uniformly random
// first president.
func (e *Engine) initializeGame(roster []RosterEntry) ([]Player, []Policy, int, error) {
	players, err := assignRoles(roster, e.rng)
	if err != nil {
		return nil, nil, 0, err
	}
	deck := newPolicyDeck(e.rng)
	presidentIndex := e.rng.IntN(len(players))
	players[presidentIndex].IsPresident = true
	return players, deck, presidentIndex, nil
}

// nextPresidentIndex advances the rotation pointer, skipping dead players.
// Termination is guaranteed: the win conditions end the game before the
// roster can be fully dead, so at least one living player always exists.
func nextPresidentIndex(players []Player, current int) int {
	next := (current + 1) % len(players)
	for !players[next].Alive {
		next = (next + 1) % len(players)
	}
	return next
}

// reshuffleInto folds the discard pile back into the deck and shuffles the
// result. Called when the deck cannot serve the next draw.
func reshuffleInto(deck, discard []Policy, rng *rand.Rand) []Policy {
	merged := make([]Policy, 0, len(deck)+len(discard))
	merged = append(merged, deck...)
	merged = append(merged, discard...)
	randutil.ShuffleRand(rng, merged)
	return merged
}
