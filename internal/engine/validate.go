package engine

import (
	"errors"
	"fmt"
)

// Validation rejections. These are data, not failures: the reducer converts
// them into ERROR events for the requesting player and leaves state alone.
var (
	ErrGameOver              = errors.New("game is already over")
	ErrNotPresident          = errors.New("only the president may do that")
	ErrNotChancellor         = errors.New("only the chancellor may do that")
	ErrDeadPlayer            = errors.New("dead players cannot act")
	ErrUnknownPlayer         = errors.New("unknown player")
	ErrUnknownTarget         = errors.New("unknown target player")
	ErrDeadTarget            = errors.New("target player is dead")
	ErrSelfTarget            = errors.New("cannot target yourself")
	ErrTermLimited           = errors.New("target is term-limited")
	ErrAlreadyVoted          = errors.New("player has already voted")
	ErrAlreadyInvestigated   = errors.New("player has already been investigated")
	ErrPolicyIndexOutOfRange = errors.New("policy index out of range")
	ErrNoChancellorNominated = errors.New("no chancellor nominated")
	ErrDuplicateNames        = errors.New("player names must be unique")
	ErrNotOwner              = errors.New("only the room owner can start the game")
	ErrDeckTooSmall          = errors.New("not enough policies in play to peek")
)

// Validate checks an action against the current state without mutating it.
// A nil return means the action may be applied. Validation order: terminal
// phase, phase legality, then action-specific authorization, target and
// domain checks.
func Validate(state *GameState, action Action) error {
	if state.Phase == PhaseGameOver {
		return ErrGameOver
	}
	if !ActionAllowed(state.Phase, action.Type) {
		return fmt.Errorf("action %s is not valid in phase %s", action.Type, state.Phase)
	}

	switch action.Type {
	case ActionStartGame:
		return validateStartGame(state, action)
	case ActionAcknowledgeRole:
		return validateAcknowledgeRole(state, action)
	case ActionNominateChancellor:
		return validateNominateChancellor(state, action)
	case ActionCastVote:
		return validateCastVote(state, action)
	case ActionDiscardPolicy:
		return validateDiscardPolicy(state, action)
	case ActionEnactPolicy:
		return validateEnactPolicy(state, action)
	case ActionInvestigateLoyalty:
		return validateInvestigateLoyalty(state, action)
	case ActionExecutePlayer:
		return validateExecutePlayer(state, action)
	case ActionSpecialElection:
		return validateSpecialElection(state, action)
	case ActionPolicyPeek:
		return validatePolicyPeek(state, action)
	default:
		return fmt.Errorf("unknown action type %q", action.Type)
	}
}

func validateStartGame(state *GameState, action Action) error {
	if _, ok := roleDistribution[len(action.Roster)]; !ok {
		return ErrInvalidPlayerCount
	}
	names := make(map[string]struct{}, len(action.Roster))
	for _, entry := range action.Roster {
		if _, dup := names[entry.Name]; dup {
			return ErrDuplicateNames
		}
		names[entry.Name] = struct{}{}
	}
	if state.OwnerID != "" && action.PlayerID != state.OwnerID {
		return ErrNotOwner
	}
	return nil
}

func validateAcknowledgeRole(state *GameState, action Action) error {
	if state.PlayerByID(action.PlayerID) == nil {
		return ErrUnknownPlayer
	}
	return nil
}

func validateNominateChancellor(state *GameState, action Action) error {
	president := state.President()
	if action.PlayerID != president.ID {
		return ErrNotPresident
	}
	if !president.Alive {
		return ErrDeadPlayer
	}
	nominee := state.PlayerByID(action.ChancellorID)
	if nominee == nil {
		return ErrUnknownTarget
	}
	if !nominee.Alive {
		return ErrDeadTarget
	}
	if nominee.ID == president.ID {
		return ErrSelfTarget
	}
	// Term limit: the immediately previous president or chancellor is barred.
	if nominee.WasPresident || nominee.WasChancellor {
		return ErrTermLimited
	}
	return nil
}

func validateCastVote(state *GameState, action Action) error {
	voter := state.PlayerByID(action.PlayerID)
	if voter == nil {
		return ErrUnknownPlayer
	}
	if !voter.Alive {
		return ErrDeadPlayer
	}
	if _, voted := state.Votes[action.PlayerID]; voted {
		return ErrAlreadyVoted
	}
	if action.Vote != VoteJa && action.Vote != VoteNein {
		return fmt.Errorf("invalid vote %q", action.Vote)
	}
	return nil
}

func validateDiscardPolicy(state *GameState, action Action) error {
	president := state.President()
	if action.PlayerID != president.ID {
		return ErrNotPresident
	}
	if !president.Alive {
		return ErrDeadPlayer
	}
	if action.PolicyIndex < 0 || action.PolicyIndex >= len(state.PresidentHand) {
		return ErrPolicyIndexOutOfRange
	}
	return nil
}

func validateEnactPolicy(state *GameState, action Action) error {
	if state.NominatedChancellor == "" {
		return ErrNoChancellorNominated
	}
	if action.PlayerID != state.NominatedChancellor {
		return ErrNotChancellor
	}
	chancellor := state.PlayerByID(action.PlayerID)
	if chancellor == nil || !chancellor.Alive {
		return ErrDeadPlayer
	}
	if action.PolicyIndex < 0 || action.PolicyIndex >= len(state.ChancellorHand) {
		return ErrPolicyIndexOutOfRange
	}
	return nil
}

func validateInvestigateLoyalty(state *GameState, action Action) error {
	if err := validatePresidentTarget(state, action); err != nil {
		return err
	}
	if state.Investigated(action.TargetID) {
		return ErrAlreadyInvestigated
	}
	return nil
}

func validateExecutePlayer(state *GameState, action Action) error {
	return validatePresidentTarget(state, action)
}

func validateSpecialElection(state *GameState, action Action) error {
	return validatePresidentTarget(state, action)
}

func validatePolicyPeek(state *GameState, action Action) error {
	president := state.President()
	if action.PlayerID != president.ID {
		return ErrNotPresident
	}
	if !president.Alive {
		return ErrDeadPlayer
	}
	if len(state.PolicyDeck)+len(state.DiscardPile) < 3 {
		return ErrDeckTooSmall
	}
	return nil
}

// validatePresidentTarget covers the shared shape of presidential powers:
// the sender must be the living president and the target a living other
// player.
func validatePresidentTarget(state *GameState, action Action) error {
	president := state.President()
	if action.PlayerID != president.ID {
		return ErrNotPresident
	}
	if !president.Alive {
		return ErrDeadPlayer
	}
	target := state.PlayerByID(action.TargetID)
	if target == nil {
		return ErrUnknownTarget
	}
	if !target.Alive {
		return ErrDeadTarget
	}
	if target.ID == president.ID {
		return ErrSelfTarget
	}
	return nil
}
