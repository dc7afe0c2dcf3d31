package engine

// Role is a player's secret identity.
type Role string

const (
	RoleLiberal Role = "LIBERAL"
	RoleFascist Role = "FASCIST"
	RoleHitler  Role = "HITLER"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// PartyOf returns the party membership implied by a role. Hitler sits on the
// fascist side.
func PartyOf(r Role) Party {
	if r == RoleLiberal {
		return PartyLiberal
	}
	return PartyFascist
}

// Party is the public-facing affiliation revealed by an investigation.
type Party string

const (
	PartyLiberal Party = "liberal"
	PartyFascist Party = "fascist"
)

// Phase is a state of the game's finite state machine.
type Phase string

const (
	PhaseLobby                 Phase = "LOBBY"
	PhaseRoleReveal            Phase = "ROLE_REVEAL"
	PhaseNomination            Phase = "NOMINATION"
	PhaseVoting                Phase = "VOTING"
	PhaseLegislativePresident  Phase = "LEGISLATIVE_PRESIDENT"
	PhaseLegislativeChancellor Phase = "LEGISLATIVE_CHANCELLOR"
	PhaseExecutiveAction       Phase = "EXECUTIVE_ACTION"
	PhaseGameOver              Phase = "GAME_OVER"
)

// String returns the string representation of the phase.
func (p Phase) String() string {
	return string(p)
}

// Policy is a single card in the policy deck.
type Policy string

const (
	PolicyLiberal Policy = "LIBERAL"
	PolicyFascist Policy = "FASCIST"
)

// Vote is a single ballot in an election.
type Vote string

const (
	VoteJa   Vote = "ja"
	VoteNein Vote = "nein"
)

// ExecutiveAction is a presidential power unlocked by fascist policies.
type ExecutiveAction string

const (
	ExecutiveInvestigate     ExecutiveAction = "investigate"
	ExecutiveSpecialElection ExecutiveAction = "special-election"
	ExecutivePolicyPeek      ExecutiveAction = "policy-peek"
	ExecutiveExecution       ExecutiveAction = "execution"
)

// WinReason records how a finished game was decided.
type WinReason string

const (
	WinLiberalPolicies WinReason = "liberal-policies"
	WinFascistPolicies WinReason = "fascist-policies"
	WinHitlerElected   WinReason = "hitler-elected"
	WinHitlerKilled    WinReason = "hitler-killed"
)

// Player is one seat at the table. Role assignment is immutable for the
// game's lifetime and Alive never flips back to true.
type Player struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AvatarID      string `json:"avatarId,omitempty"`
	Role          Role   `json:"role"`
	Party         Party  `json:"party"`
	Alive         bool   `json:"alive"`
	IsPresident   bool   `json:"isPresident"`
	IsChancellor  bool   `json:"isChancellor"`
	WasPresident  bool   `json:"wasPresident"`
	WasChancellor bool   `json:"wasChancellor"`
	HasSeenRole   bool   `json:"hasSeenRole"`
}

// GameState is the authoritative state of a single game. The deck, discard
// pile and both hands together always hold 17 policies (6 liberal, 11
// fascist).
type GameState struct {
	Phase                  Phase           `json:"phase"`
	Players                []Player        `json:"players"`
	PresidentIndex         int             `json:"presidentIndex"`
	NominatedChancellor    string          `json:"nominatedChancellor,omitempty"`
	Votes                  map[string]Vote `json:"votes"`
	ElectionTracker        int             `json:"electionTracker"`
	LiberalPolicies        int             `json:"liberalPoliciesEnacted"`
	FascistPolicies        int             `json:"fascistPoliciesEnacted"`
	PolicyDeck             []Policy        `json:"policyDeck"`
	DiscardPile            []Policy        `json:"discardPile"`
	PresidentHand          []Policy        `json:"presidentHand"`
	ChancellorHand         []Policy        `json:"chancellorHand"`
	PendingExecutiveAction ExecutiveAction `json:"pendingExecutiveAction,omitempty"`
	InvestigatedPlayer     string          `json:"investigatedPlayer,omitempty"`
	InvestigatedPlayers    []string        `json:"investigatedPlayers"`
	RoleAcknowledgements   int             `json:"roleAcknowledgements"`
	Winner                 Party           `json:"winner,omitempty"`
	WinReason              WinReason       `json:"winReason,omitempty"`
	OwnerID                string          `json:"ownerId,omitempty"`
}

// NewLobbyState returns an empty pre-game state owned by ownerID.
func NewLobbyState(ownerID string) *GameState {
	return &GameState{
		Phase:               PhaseLobby,
		OwnerID:             ownerID,
		Players:             []Player{},
		Votes:               map[string]Vote{},
		PolicyDeck:          []Policy{},
		DiscardPile:         []Policy{},
		PresidentHand:       []Policy{},
		ChancellorHand:      []Policy{},
		InvestigatedPlayers: []string{},
	}
}

// Clone returns a deep copy of the state. The reducer mutates only clones so
// a failed action can always return the original snapshot untouched.
func (s *GameState) Clone() *GameState {
	c := *s
	c.Players = append([]Player(nil), s.Players...)
	c.Votes = make(map[string]Vote, len(s.Votes))
	for id, v := range s.Votes {
		c.Votes[id] = v
	}
	c.PolicyDeck = append([]Policy(nil), s.PolicyDeck...)
	c.DiscardPile = append([]Policy(nil), s.DiscardPile...)
	c.PresidentHand = append([]Policy(nil), s.PresidentHand...)
	c.ChancellorHand = append([]Policy(nil), s.ChancellorHand...)
	c.InvestigatedPlayers = append([]string(nil), s.InvestigatedPlayers...)
	return &c
}

// PlayerByID returns a pointer into Players, or nil when absent.
func (s *GameState) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// President returns the current presidential candidate, or nil before the
// game has started.
func (s *GameState) President() *Player {
	if s.PresidentIndex < 0 || s.PresidentIndex >= len(s.Players) {
		return nil
	}
	return &s.Players[s.PresidentIndex]
}

// AliveCount returns the number of living players.
func (s *GameState) AliveCount() int {
	n := 0
	for i := range s.Players {
		if s.Players[i].Alive {
			n++
		}
	}
	return n
}

// Investigated reports whether a player has already been investigated.
func (s *GameState) Investigated(id string) bool {
	for _, v := range s.InvestigatedPlayers {
		if v == id {
			return true
		}
	}
	return false
}

// ActionType identifies a game action.
type ActionType string

const (
	ActionStartGame          ActionType = "START_GAME"
	ActionAcknowledgeRole    ActionType = "ACKNOWLEDGE_ROLE"
	ActionNominateChancellor ActionType = "NOMINATE_CHANCELLOR"
	ActionCastVote           ActionType = "CAST_VOTE"
	ActionDiscardPolicy      ActionType = "DISCARD_POLICY"
	ActionEnactPolicy        ActionType = "ENACT_POLICY"
	ActionInvestigateLoyalty ActionType = "INVESTIGATE_LOYALTY"
	ActionExecutePlayer      ActionType = "EXECUTE_PLAYER"
	ActionSpecialElection    ActionType = "SPECIAL_ELECTION"
	ActionPolicyPeek         ActionType = "POLICY_PEEK"
)

// String returns the string representation of the action type.
func (t ActionType) String() string {
	return string(t)
}

// RosterEntry is one player in the trusted roster the server assembles for
// START_GAME. The list never comes from client payloads.
type RosterEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	AvatarID string `json:"avatarId,omitempty"`
}

// Action is a single request against the game state. Fields beyond Type and
// PlayerID are populated per action kind.
type Action struct {
	Type         ActionType    `json:"type"`
	PlayerID     string        `json:"playerId"`
	ChancellorID string        `json:"chancellorId,omitempty"`
	Vote         Vote          `json:"vote,omitempty"`
	PolicyIndex  int           `json:"policyIndex"`
	TargetID     string        `json:"targetId,omitempty"`
	Roster       []RosterEntry `json:"players,omitempty"`
}

// Result is what a reduction produces: the next state and the events the
// change emitted. On a rejected action State is the input state unchanged and
// Events carries a single ERROR event.
type Result struct {
	State  *GameState
	Events []Event
}
