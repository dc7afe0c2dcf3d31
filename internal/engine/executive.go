package engine

// investigateLoyalty reveals a player's party to the president. The result
// event is targeted; the room only learns who was investigated.
func (e *Engine) investigateLoyalty(state *GameState, action Action) Result {
	next := state.Clone()
	target := next.PlayerByID(action.TargetID)

	next.InvestigatedPlayer = action.TargetID
	next.InvestigatedPlayers = append(next.InvestigatedPlayers, action.TargetID)
	next.PendingExecutiveAction = ""

	presidentID := state.President().ID
	events := []Event{{
		Type:   EventLoyaltyInvestigated,
		Target: presidentID,
		Data: LoyaltyInvestigatedData{
			PresidentID: presidentID,
			TargetID:    action.TargetID,
			Party:       target.Party,
		},
	}}

	events = advanceRound(next, next.Phase, events)
	return Result{State: next, Events: events}
}

// executePlayer kills the target. Executing Hitler ends the game with a
// liberal win; otherwise the presidency rotates as usual.
func (e *Engine) executePlayer(state *GameState, action Action) Result {
	next := state.Clone()
	target := next.PlayerByID(action.TargetID)
	wasHitler := target.Role == RoleHitler

	target.Alive = false
	next.PendingExecutiveAction = ""

	events := []Event{{Type: EventPlayerExecuted, Data: PlayerExecutedData{
		ExecutorID: state.President().ID,
		TargetID:   action.TargetID,
		WasHitler:  wasHitler,
	}}}

	if wasHitler {
		oldPhase := next.Phase
		next.Phase = PhaseGameOver
		next.Winner = PartyLiberal
		next.WinReason = WinHitlerKilled
		events = append(events,
			newPhaseChanged(oldPhase, PhaseGameOver),
			Event{Type: EventGameOver, Data: GameOverData{Winner: PartyLiberal, Reason: WinHitlerKilled}},
		)
		return Result{State: next, Events: events}
	}

	events = advanceRound(next, next.Phase, events)
	return Result{State: next, Events: events}
}

// specialElection re-points the presidency at the chosen player instead of
// rotating, then returns to nomination.
func (e *Engine) specialElection(state *GameState, action Action) Result {
	next := state.Clone()
	next.PendingExecutiveAction = ""

	idx := 0
	for i := range next.Players {
		if next.Players[i].ID == action.TargetID {
			idx = i
			break
		}
	}
	next.PresidentIndex = idx
	next.NominatedChancellor = ""
	for i := range next.Players {
		next.Players[i].IsPresident = i == idx
		next.Players[i].IsChancellor = false
	}

	oldPhase := next.Phase
	next.Phase = PhaseNomination
	events := []Event{
		{Type: EventSpecialElectionCalled, Data: SpecialElectionCalledData{TargetID: action.TargetID}},
		newPresidentRotation(action.TargetID),
		newPhaseChanged(oldPhase, PhaseNomination),
	}
	return Result{State: next, Events: events}
}

// policyPeek shows the president the top three deck cards without moving
// them, reshuffling the discard pile in first when the deck is short.
func (e *Engine) policyPeek(state *GameState, action Action) Result {
	next := state.Clone()
	next.PendingExecutiveAction = ""

	if len(next.PolicyDeck) < 3 {
		next.PolicyDeck = reshuffleInto(next.PolicyDeck, next.DiscardPile, e.rng)
		next.DiscardPile = []Policy{}
	}

	presidentID := state.President().ID
	events := []Event{{
		Type:   EventPoliciesPeeked,
		Target: presidentID,
		Data: PoliciesPeekedData{
			PresidentID: presidentID,
			Policies:    append([]Policy(nil), next.PolicyDeck[:3]...),
		},
	}}

	events = advanceRound(next, next.Phase, events)
	return Result{State: next, Events: events}
}
