package engine

// phaseTransitions maps each phase to the set of phases it may legally move
// to. PhaseGameOver has no successors; it is terminal.
var phaseTransitions = map[Phase][]Phase{
	PhaseLobby:                 {PhaseRoleReveal},
	PhaseRoleReveal:            {PhaseNomination},
	PhaseNomination:            {PhaseVoting, PhaseGameOver},
	PhaseVoting:                {PhaseNomination, PhaseLegislativePresident, PhaseGameOver},
	PhaseLegislativePresident:  {PhaseLegislativeChancellor},
	PhaseLegislativeChancellor: {PhaseExecutiveAction, PhaseNomination, PhaseGameOver},
	PhaseExecutiveAction:       {PhaseNomination, PhaseGameOver},
	PhaseGameOver:              {},
}

// phaseActions maps each phase to the action kinds acceptable while in it.
// START_GAME is the table's sole entry point, legal only from the lobby.
var phaseActions = map[Phase][]ActionType{
	PhaseLobby:                 {ActionStartGame},
	PhaseRoleReveal:            {ActionAcknowledgeRole},
	PhaseNomination:            {ActionNominateChancellor},
	PhaseVoting:                {ActionCastVote},
	PhaseLegislativePresident:  {ActionDiscardPolicy},
	PhaseLegislativeChancellor: {ActionEnactPolicy},
	PhaseExecutiveAction: {
		ActionInvestigateLoyalty,
		ActionExecutePlayer,
		ActionSpecialElection,
		ActionPolicyPeek,
	},
	PhaseGameOver: {},
}

// ValidTransition reports whether the FSM permits moving from one phase to
// another.
func ValidTransition(from, to Phase) bool {
	for _, p := range phaseTransitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// ActionAllowed reports whether an action kind is acceptable in the given
// phase.
func ActionAllowed(phase Phase, t ActionType) bool {
	for _, a := range phaseActions[phase] {
		if a == t {
			return true
		}
	}
	return false
}
