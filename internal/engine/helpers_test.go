package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// testRoster builds n roster entries p1..pn.
func testRoster(n int) []RosterEntry {
	roster := make([]RosterEntry, n)
	for i := range roster {
		roster[i] = RosterEntry{ID: fmt.Sprintf("p%d", i+1), Name: fmt.Sprintf("Player %d", i+1)}
	}
	return roster
}

// fixedDeck returns the full 17-card deck in a fixed order: liberals on top.
func fixedDeck() []Policy {
	deck := make([]Policy, 0, 17)
	for i := 0; i < 6; i++ {
		deck = append(deck, PolicyLiberal)
	}
	for i := 0; i < 11; i++ {
		deck = append(deck, PolicyFascist)
	}
	return deck
}

// deckOf builds a deck with the given counts, liberals first.
func deckOf(liberals, fascists int) []Policy {
	deck := make([]Policy, 0, liberals+fascists)
	for i := 0; i < liberals; i++ {
		deck = append(deck, PolicyLiberal)
	}
	for i := 0; i < fascists; i++ {
		deck = append(deck, PolicyFascist)
	}
	return deck
}

// fixedPlayers builds n players with deterministic roles: liberals first,
// then ordinary fascists, Hitler last. So for five players p5 is Hitler and
// p4 the lone fascist.
func fixedPlayers(n int) []Player {
	dist := roleDistribution[n]
	players := make([]Player, n)
	for i := range players {
		role := RoleLiberal
		switch {
		case i >= n-1:
			role = RoleHitler
		case i >= dist.liberals:
			role = RoleFascist
		}
		players[i] = Player{
			ID:          fmt.Sprintf("p%d", i+1),
			Name:        fmt.Sprintf("Player %d", i+1),
			Role:        role,
			Party:       PartyOf(role),
			Alive:       true,
			HasSeenRole: true,
		}
	}
	players[0].IsPresident = true
	return players
}

// nominationState builds a mid-game state at the top of a round: p1 is the
// presidential candidate and the full deck is untouched.
func nominationState(n int) *GameState {
	return &GameState{
		Phase:               PhaseNomination,
		Players:             fixedPlayers(n),
		PresidentIndex:      0,
		Votes:               map[string]Vote{},
		PolicyDeck:          fixedDeck(),
		DiscardPile:         []Policy{},
		PresidentHand:       []Policy{},
		ChancellorHand:      []Policy{},
		InvestigatedPlayers: []string{},
		OwnerID:             "p1",
	}
}

// votingState builds a state mid-election with chancellor nominated.
func votingState(n int, chancellorID string) *GameState {
	s := nominationState(n)
	s.Phase = PhaseVoting
	s.NominatedChancellor = chancellorID
	return s
}

// castAllVotes has every living player vote the same way and returns the
// final result.
func castAllVotes(t *testing.T, e *Engine, state *GameState, vote Vote) Result {
	t.Helper()
	var res Result
	for i := range state.Players {
		if !state.Players[i].Alive {
			continue
		}
		res = e.Reduce(state, Action{Type: ActionCastVote, PlayerID: state.Players[i].ID, Vote: vote})
		requireNoErrorEvent(t, res)
		state = res.State
	}
	return res
}

// requireNoErrorEvent fails the test if the result carries an ERROR event.
func requireNoErrorEvent(t *testing.T, res Result) {
	t.Helper()
	for _, ev := range res.Events {
		if ev.Type == EventError {
			t.Fatalf("unexpected error event: %+v", ev.Data)
		}
	}
}

// requireErrorEvent asserts the result is a rejection targeted at playerID.
func requireErrorEvent(t *testing.T, res Result, playerID string) {
	t.Helper()
	require.Len(t, res.Events, 1)
	require.Equal(t, EventError, res.Events[0].Type)
	require.Equal(t, playerID, res.Events[0].Target)
}

// requireConservation asserts the 17-card invariant: deck, discard, hands
// and enacted counters always account for 6 liberal and 11 fascist policies.
func requireConservation(t *testing.T, s *GameState) {
	t.Helper()
	liberals := s.LiberalPolicies
	fascists := s.FascistPolicies
	for _, zone := range [][]Policy{s.PolicyDeck, s.DiscardPile, s.PresidentHand, s.ChancellorHand} {
		for _, p := range zone {
			if p == PolicyLiberal {
				liberals++
			} else {
				fascists++
			}
		}
	}
	require.Equal(t, 6, liberals, "liberal policy conservation")
	require.Equal(t, 11, fascists, "fascist policy conservation")
}

// eventTypes extracts the event type sequence.
func eventTypes(events []Event) []EventType {
	types := make([]EventType, len(events))
	for i, ev := range events {
		types[i] = ev.Type
	}
	return types
}

// findEvent returns the first event of the given type.
func findEvent(t *testing.T, events []Event, et EventType) Event {
	t.Helper()
	for _, ev := range events {
		if ev.Type == et {
			return ev
		}
	}
	t.Fatalf("no %s event in %v", et, eventTypes(events))
	return Event{}
}
