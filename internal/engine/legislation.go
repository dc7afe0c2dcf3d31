package engine

// drawPolicies deals the president's three-card hand when entering the
// legislative session, reshuffling the discard pile into the deck first if
// fewer than three cards remain.
func (e *Engine) drawPolicies(next *GameState, events []Event) Result {
	if len(next.PolicyDeck) < 3 {
		next.PolicyDeck = reshuffleInto(next.PolicyDeck, next.DiscardPile, e.rng)
		next.DiscardPile = []Policy{}
	}

	next.PresidentHand = append([]Policy(nil), next.PolicyDeck[:3]...)
	next.PolicyDeck = append([]Policy(nil), next.PolicyDeck[3:]...)

	events = append(events, Event{Type: EventPoliciesDrawn, Data: PoliciesDrawnData{
		PresidentID: next.President().ID,
		Count:       3,
	}})
	return Result{State: next, Events: events}
}

// discardPolicy removes one of the president's three cards to the discard
// pile and passes the remaining two to the chancellor.
func (e *Engine) discardPolicy(state *GameState, action Action) Result {
	next := state.Clone()

	hand := next.PresidentHand
	discarded := hand[action.PolicyIndex]
	remaining := make([]Policy, 0, len(hand)-1)
	remaining = append(remaining, hand[:action.PolicyIndex]...)
	remaining = append(remaining, hand[action.PolicyIndex+1:]...)

	next.PresidentHand = []Policy{}
	next.ChancellorHand = remaining
	next.DiscardPile = append(next.DiscardPile, discarded)
	next.Phase = PhaseLegislativeChancellor

	events := []Event{
		{Type: EventPolicyDiscarded, Data: PolicyDiscardedData{PresidentID: state.President().ID}},
		{Type: EventPoliciesPassed, Data: PoliciesPassedData{
			ChancellorID: state.NominatedChancellor,
			Count:        len(remaining),
		}},
		newPhaseChanged(state.Phase, PhaseLegislativeChancellor),
	}
	return Result{State: next, Events: events}
}

// enactPolicy plays one of the chancellor's two cards, discards the other
// and either unlocks an executive action or rotates the presidency.
func (e *Engine) enactPolicy(state *GameState, action Action) Result {
	next := state.Clone()

	hand := next.ChancellorHand
	enacted := hand[action.PolicyIndex]
	for i, p := range hand {
		if i != action.PolicyIndex {
			next.DiscardPile = append(next.DiscardPile, p)
		}
	}
	next.ChancellorHand = []Policy{}

	if enacted == PolicyLiberal {
		next.LiberalPolicies++
	} else {
		next.FascistPolicies++
	}

	events := []Event{{Type: EventPolicyEnacted, Data: PolicyEnactedData{
		PolicyType:   enacted,
		LiberalCount: next.LiberalPolicies,
		FascistCount: next.FascistPolicies,
	}}}

	if enacted == PolicyFascist {
		if power := executiveActionFor(next.FascistPolicies, len(next.Players)); power != "" {
			next.PendingExecutiveAction = power
			oldPhase := next.Phase
			next.Phase = PhaseExecutiveAction
			events = append(events,
				Event{Type: EventExecutiveActionUnlocked, Data: ExecutiveActionUnlockedData{ActionType: power}},
				newPhaseChanged(oldPhase, PhaseExecutiveAction),
			)
			return Result{State: next, Events: events}
		}
	}

	events = advanceRound(next, next.Phase, events)
	return Result{State: next, Events: events}
}

// executiveActionFor returns the presidential power unlocked at a fascist
// policy count for the table size, or "" when none applies. Thresholds
// follow the official board layouts.
func executiveActionFor(fascistPolicies, playerCount int) ExecutiveAction {
	switch fascistPolicies {
	case 1:
		if playerCount >= 9 {
			return ExecutiveInvestigate
		}
	case 2:
		if playerCount >= 7 {
			return ExecutiveInvestigate
		}
	case 3:
		if playerCount >= 7 {
			return ExecutiveSpecialElection
		}
		return ExecutivePolicyPeek
	case 4, 5:
		return ExecutiveExecution
	}
	return ""
}
