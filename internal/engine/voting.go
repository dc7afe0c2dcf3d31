package engine

// castVote records one ballot. When the last living player has voted the
// election resolves immediately in the same reduction.
func (e *Engine) castVote(state *GameState, action Action) Result {
	next := state.Clone()
	next.Votes[action.PlayerID] = action.Vote

	events := []Event{{Type: EventVoteCast, Data: VoteCastData{PlayerID: action.PlayerID}}}

	for i := range next.Players {
		p := &next.Players[i]
		if !p.Alive {
			continue
		}
		if _, voted := next.Votes[p.ID]; !voted {
			return Result{State: next, Events: events}
		}
	}
	return e.completeVoting(next, events)
}

// completeVoting tallies the ballots. Ja must strictly exceed nein; ties
// fail the election.
func (e *Engine) completeVoting(next *GameState, events []Event) Result {
	ja := 0
	nein := 0
	for _, v := range next.Votes {
		if v == VoteJa {
			ja++
		} else {
			nein++
		}
	}
	passed := ja > nein

	votes := make(map[string]Vote, len(next.Votes))
	for id, v := range next.Votes {
		votes[id] = v
	}
	events = append(events, Event{Type: EventVotingComplete, Data: VotingCompleteData{Votes: votes, Passed: passed}})

	if passed {
		return e.electionPassed(next, events)
	}
	return e.electionFailed(next, events)
}

// electionPassed checks the Hitler-elected win condition, then seats the new
// government, resets the election tracker and draws the president's hand.
func (e *Engine) electionPassed(next *GameState, events []Event) Result {
	if next.FascistPolicies >= 3 {
		if chancellor := next.PlayerByID(next.NominatedChancellor); chancellor != nil && chancellor.Role == RoleHitler {
			oldPhase := next.Phase
			next.Phase = PhaseGameOver
			next.Winner = PartyFascist
			next.WinReason = WinHitlerElected
			events = append(events,
				newPhaseChanged(oldPhase, PhaseGameOver),
				Event{Type: EventGameOver, Data: GameOverData{Winner: PartyFascist, Reason: WinHitlerElected}},
			)
			return Result{State: next, Events: events}
		}
	}

	// The government seated now is the one term-limited at the next
	// nomination; the flags persist through rotations until the next
	// successful election replaces them.
	presidentID := next.President().ID
	for i := range next.Players {
		p := &next.Players[i]
		p.WasPresident = p.ID == presidentID
		p.WasChancellor = p.ID == next.NominatedChancellor
		p.IsPresident = p.ID == presidentID
		p.IsChancellor = p.ID == next.NominatedChancellor
	}

	oldPhase := next.Phase
	next.Phase = PhaseLegislativePresident
	next.ElectionTracker = 0
	next.Votes = map[string]Vote{}

	events = append(events, newPhaseChanged(oldPhase, PhaseLegislativePresident))
	return e.drawPolicies(next, events)
}

// electionFailed advances the election tracker; three consecutive failures
// trigger the chaos branch, otherwise the presidency simply rotates.
func (e *Engine) electionFailed(next *GameState, events []Event) Result {
	next.ElectionTracker++
	events = append(events, Event{Type: EventElectionFailed, Data: ElectionFailedData{ElectionTracker: next.ElectionTracker}})

	if next.ElectionTracker >= 3 {
		return e.chaos(next, events)
	}

	oldPhase := next.Phase
	next.Votes = map[string]Vote{}
	events = advanceRound(next, oldPhase, events)
	return Result{State: next, Events: events}
}

// chaos auto-enacts the top deck card after three failed elections,
// resets the tracker and advances the presidency. No government is formed,
// so no executive action can unlock here.
func (e *Engine) chaos(next *GameState, events []Event) Result {
	if len(next.PolicyDeck) == 0 {
		next.PolicyDeck = reshuffleInto(next.PolicyDeck, next.DiscardPile, e.rng)
		next.DiscardPile = []Policy{}
	}

	enacted := next.PolicyDeck[0]
	next.PolicyDeck = next.PolicyDeck[1:]
	if enacted == PolicyLiberal {
		next.LiberalPolicies++
	} else {
		next.FascistPolicies++
	}
	next.ElectionTracker = 0
	next.Votes = map[string]Vote{}

	events = append(events,
		Event{Type: EventChaos, Data: ChaosData{PolicyEnacted: enacted}},
		Event{Type: EventPolicyEnacted, Data: PolicyEnactedData{
			PolicyType:   enacted,
			LiberalCount: next.LiberalPolicies,
			FascistCount: next.FascistPolicies,
		}},
	)

	events = advanceRound(next, next.Phase, events)
	return Result{State: next, Events: events}
}
