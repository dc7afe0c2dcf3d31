package engine

// EventType identifies a game event.
type EventType string

// Event type constants for the game domain. These travel to clients verbatim
// inside EVENT frames.
const (
	EventGameStarted             EventType = "GAME_STARTED"
	EventRoleAssigned            EventType = "ROLE_ASSIGNED"
	EventPhaseChanged            EventType = "PHASE_CHANGED"
	EventPresidentRotation       EventType = "PRESIDENT_ROTATION"
	EventChancellorNominated     EventType = "CHANCELLOR_NOMINATED"
	EventVoteCast                EventType = "VOTE_CAST"
	EventVotingComplete          EventType = "VOTING_COMPLETE"
	EventElectionFailed          EventType = "ELECTION_FAILED"
	EventChaos                   EventType = "CHAOS"
	EventPoliciesDrawn           EventType = "POLICIES_DRAWN"
	EventPolicyDiscarded         EventType = "POLICY_DISCARDED_BY_PRESIDENT"
	EventPoliciesPassed          EventType = "POLICIES_PASSED_TO_CHANCELLOR"
	EventPolicyEnacted           EventType = "POLICY_ENACTED"
	EventExecutiveActionUnlocked EventType = "EXECUTIVE_ACTION_UNLOCKED"
	EventLoyaltyInvestigated     EventType = "LOYALTY_INVESTIGATED"
	EventPlayerExecuted          EventType = "PLAYER_EXECUTED"
	EventSpecialElectionCalled   EventType = "SPECIAL_ELECTION_CALLED"
	EventPoliciesPeeked          EventType = "POLICIES_PEEKED"
	EventGameOver                EventType = "GAME_OVER"
	EventError                   EventType = "ERROR"
)

// String returns the string representation of the event type.
func (t EventType) String() string {
	return string(t)
}

// Event is a single notification produced by the reducer. Target, when set,
// restricts delivery to that player; the broadcast gateway never fans a
// targeted event out to the room.
type Event struct {
	Type   EventType `json:"type"`
	Target string    `json:"-"`
	Data   any       `json:"data,omitempty"`
}

// GameStartedData announces a freshly initialized game.
type GameStartedData struct {
	PlayerCount int `json:"playerCount"`
}

// RoleAssignedData carries a player's secret role. Always targeted.
type RoleAssignedData struct {
	PlayerID string `json:"playerId"`
	Role     Role   `json:"role"`
	Party    Party  `json:"party"`
}

// PhaseChangedData records a single FSM transition.
type PhaseChangedData struct {
	OldPhase Phase `json:"oldPhase"`
	NewPhase Phase `json:"newPhase"`
}

// PresidentRotationData names the next presidential candidate.
type PresidentRotationData struct {
	PresidentID string `json:"presidentId"`
}

// ChancellorNominatedData announces a nomination.
type ChancellorNominatedData struct {
	PresidentID  string `json:"presidentId"`
	ChancellorID string `json:"chancellorId"`
}

// VoteCastData signals that a ballot arrived without revealing it.
type VoteCastData struct {
	PlayerID string `json:"playerId"`
}

// VotingCompleteData reveals all ballots once the election resolves.
type VotingCompleteData struct {
	Votes  map[string]Vote `json:"votes"`
	Passed bool            `json:"passed"`
}

// ElectionFailedData carries the advanced election tracker.
type ElectionFailedData struct {
	ElectionTracker int `json:"electionTracker"`
}

// ChaosData reports the automatic top-deck enactment after three failed
// elections.
type ChaosData struct {
	PolicyEnacted Policy `json:"policyEnacted"`
}

// PoliciesDrawnData signals a presidential draw without revealing cards.
type PoliciesDrawnData struct {
	PresidentID string `json:"presidentId"`
	Count       int    `json:"count"`
}

// PolicyDiscardedData signals the president's discard.
type PolicyDiscardedData struct {
	PresidentID string `json:"presidentId"`
}

// PoliciesPassedData signals the hand-off to the chancellor.
type PoliciesPassedData struct {
	ChancellorID string `json:"chancellorId"`
	Count        int    `json:"count"`
}

// PolicyEnactedData announces an enacted policy and the running counters.
type PolicyEnactedData struct {
	PolicyType   Policy `json:"policyType"`
	LiberalCount int    `json:"liberalCount"`
	FascistCount int    `json:"fascistCount"`
}

// ExecutiveActionUnlockedData announces a pending presidential power.
type ExecutiveActionUnlockedData struct {
	ActionType ExecutiveAction `json:"actionType"`
}

// LoyaltyInvestigatedData carries an investigation result. Targeted to the
// investigating president; the room only learns who was investigated via the
// public state.
type LoyaltyInvestigatedData struct {
	PresidentID string `json:"presidentId"`
	TargetID    string `json:"targetId"`
	Party       Party  `json:"party"`
}

// PlayerExecutedData announces an execution.
type PlayerExecutedData struct {
	ExecutorID string `json:"executorId"`
	TargetID   string `json:"targetId"`
	WasHitler  bool   `json:"wasHitler"`
}

// SpecialElectionCalledData names the president's chosen candidate.
type SpecialElectionCalledData struct {
	TargetID string `json:"targetId"`
}

// PoliciesPeekedData carries the top of the deck. Targeted to the president.
type PoliciesPeekedData struct {
	PresidentID string   `json:"presidentId"`
	Policies    []Policy `json:"policies"`
}

// GameOverData records the final outcome.
type GameOverData struct {
	Winner Party     `json:"winner"`
	Reason WinReason `json:"reason"`
}

// ErrorData is a structured rejection, delivered to the requester only.
type ErrorData struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func newPhaseChanged(old, next Phase) Event {
	return Event{Type: EventPhaseChanged, Data: PhaseChangedData{OldPhase: old, NewPhase: next}}
}

func newPresidentRotation(presidentID string) Event {
	return Event{Type: EventPresidentRotation, Data: PresidentRotationData{PresidentID: presidentID}}
}

func newErrorEvent(target, message string) Event {
	return Event{Type: EventError, Target: target, Data: ErrorData{Message: message}}
}
