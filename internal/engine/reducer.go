package engine

import (
	rand "math/rand/v2"
	"time"

	"github.com/lox/secrethitler/internal/randutil"
)

// Engine reduces game actions to new states. All randomness (role shuffle,
// deck shuffles, first president) flows through the injected source so tests
// can run deterministically.
type Engine struct {
	rng *rand.Rand
}

// New creates an engine with a time-seeded random source.
func New() *Engine {
	return NewWithRand(randutil.New(time.Now().UnixNano()))
}

// NewWithRand creates an engine using the provided random source.
func NewWithRand(rng *rand.Rand) *Engine {
	return &Engine{rng: rng}
}

// NewWithSeed creates an engine with a deterministic random source.
func NewWithSeed(seed int64) *Engine {
	return NewWithRand(randutil.New(seed))
}

// Reduce is the single authoritative entry point: validate, dispatch to a
// logic module, then re-check win conditions. A rejected action returns the
// input state untouched plus one ERROR event for the requester.
func (e *Engine) Reduce(state *GameState, action Action) Result {
	if state == nil {
		state = NewLobbyState("")
	}

	if err := Validate(state, action); err != nil {
		return Result{State: state, Events: []Event{newErrorEvent(action.PlayerID, err.Error())}}
	}

	// START_GAME performs initialization and never needs the win wrapper:
	// no policies can be enacted yet.
	if action.Type == ActionStartGame {
		return checkedTransition(state, action.PlayerID, e.startGame(state, action))
	}

	var res Result
	switch action.Type {
	case ActionAcknowledgeRole:
		res = e.acknowledgeRole(state, action)
	case ActionNominateChancellor:
		res = e.nominateChancellor(state, action)
	case ActionCastVote:
		res = e.castVote(state, action)
	case ActionDiscardPolicy:
		res = e.discardPolicy(state, action)
	case ActionEnactPolicy:
		res = e.enactPolicy(state, action)
	case ActionInvestigateLoyalty:
		res = e.investigateLoyalty(state, action)
	case ActionExecutePlayer:
		res = e.executePlayer(state, action)
	case ActionSpecialElection:
		res = e.specialElection(state, action)
	case ActionPolicyPeek:
		res = e.policyPeek(state, action)
	default:
		return Result{State: state, Events: []Event{newErrorEvent(action.PlayerID, "unknown action type")}}
	}

	return checkedTransition(state, action.PlayerID, withWinCheck(res))
}

// checkedTransition is the commit gate on phase changes: a reduction whose
// phase move is absent from the transition table is discarded and the prior
// state returned untouched with an error for the requester.
func checkedTransition(prev *GameState, playerID string, res Result) Result {
	if res.State == prev || res.State.Phase == prev.Phase {
		return res
	}
	if !ValidTransition(prev.Phase, res.State.Phase) {
		return Result{State: prev, Events: []Event{newErrorEvent(playerID, "illegal phase transition")}}
	}
	return res
}

// startGame initializes roles, deck and the first president, and moves the
// machine to role reveal. One private ROLE_ASSIGNED event per player.
func (e *Engine) startGame(state *GameState, action Action) Result {
	players, deck, presidentIndex, err := e.initializeGame(action.Roster)
	if err != nil {
		return Result{State: state, Events: []Event{newErrorEvent(action.PlayerID, err.Error())}}
	}

	next := state.Clone()
	next.Phase = PhaseRoleReveal
	next.Players = players
	next.PolicyDeck = deck
	next.PresidentIndex = presidentIndex
	next.RoleAcknowledgements = 0

	events := []Event{{Type: EventGameStarted, Data: GameStartedData{PlayerCount: len(players)}}}
	for _, p := range players {
		events = append(events, Event{
			Type:   EventRoleAssigned,
			Target: p.ID,
			Data:   RoleAssignedData{PlayerID: p.ID, Role: p.Role, Party: p.Party},
		})
	}
	events = append(events, newPhaseChanged(PhaseLobby, PhaseRoleReveal))

	return Result{State: next, Events: events}
}

// acknowledgeRole is idempotent per player. Once every player has seen their
// role the machine moves to nomination.
func (e *Engine) acknowledgeRole(state *GameState, action Action) Result {
	player := state.PlayerByID(action.PlayerID)
	if player.HasSeenRole {
		return Result{State: state}
	}

	next := state.Clone()
	next.PlayerByID(action.PlayerID).HasSeenRole = true
	next.RoleAcknowledgements++

	var events []Event
	if next.RoleAcknowledgements >= len(next.Players) {
		next.Phase = PhaseNomination
		events = append(events,
			newPhaseChanged(PhaseRoleReveal, PhaseNomination),
			newPresidentRotation(next.President().ID),
		)
	}
	return Result{State: next, Events: events}
}

// nominateChancellor records the nominee, clears prior votes and opens the
// election.
func (e *Engine) nominateChancellor(state *GameState, action Action) Result {
	next := state.Clone()
	next.NominatedChancellor = action.ChancellorID
	next.Votes = map[string]Vote{}
	next.Phase = PhaseVoting

	events := []Event{
		newPhaseChanged(state.Phase, PhaseVoting),
		{Type: EventChancellorNominated, Data: ChancellorNominatedData{
			PresidentID:  state.President().ID,
			ChancellorID: action.ChancellorID,
		}},
	}
	return Result{State: next, Events: events}
}

// advanceRound rotates the presidency to the next living player and returns
// the machine to nomination. Shared by legislation and executive actions.
func advanceRound(next *GameState, oldPhase Phase, events []Event) []Event {
	idx := nextPresidentIndex(next.Players, next.PresidentIndex)
	next.PresidentIndex = idx
	next.Phase = PhaseNomination
	next.NominatedChancellor = ""
	for i := range next.Players {
		next.Players[i].IsPresident = i == idx
		next.Players[i].IsChancellor = false
	}
	return append(events,
		newPresidentRotation(next.Players[idx].ID),
		newPhaseChanged(oldPhase, PhaseNomination),
	)
}

// withWinCheck re-evaluates the policy-count win conditions after every
// mutating branch, so no path can miss a finished game.
func withWinCheck(res Result) Result {
	if res.State.Phase == PhaseGameOver {
		return res
	}
	winner, reason, over := checkPolicyWin(res.State)
	if !over {
		return res
	}

	oldPhase := res.State.Phase
	res.State.Phase = PhaseGameOver
	res.State.Winner = winner
	res.State.WinReason = reason
	res.Events = append(res.Events,
		newPhaseChanged(oldPhase, PhaseGameOver),
		Event{Type: EventGameOver, Data: GameOverData{Winner: winner, Reason: reason}},
	)
	return res
}
