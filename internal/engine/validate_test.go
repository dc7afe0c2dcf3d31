package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateRejectsAfterGameOver(t *testing.T) {
	s := nominationState(5)
	s.Phase = PhaseGameOver

	err := Validate(s, Action{Type: ActionNominateChancellor, PlayerID: "p1", ChancellorID: "p2"})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestValidateRejectsWrongPhase(t *testing.T) {
	s := nominationState(5)
	err := Validate(s, Action{Type: ActionCastVote, PlayerID: "p1", Vote: VoteJa})
	assert.Error(t, err)
}

func TestValidateStartGame(t *testing.T) {
	lobby := NewLobbyState("p1")

	t.Run("owner can start", func(t *testing.T) {
		err := Validate(lobby, Action{Type: ActionStartGame, PlayerID: "p1", Roster: testRoster(5)})
		assert.NoError(t, err)
	})

	t.Run("non-owner rejected", func(t *testing.T) {
		err := Validate(lobby, Action{Type: ActionStartGame, PlayerID: "p2", Roster: testRoster(5)})
		assert.ErrorIs(t, err, ErrNotOwner)
	})

	t.Run("bad player count", func(t *testing.T) {
		err := Validate(lobby, Action{Type: ActionStartGame, PlayerID: "p1", Roster: testRoster(4)})
		assert.ErrorIs(t, err, ErrInvalidPlayerCount)
	})

	t.Run("duplicate names", func(t *testing.T) {
		roster := testRoster(5)
		roster[1].Name = roster[0].Name
		err := Validate(lobby, Action{Type: ActionStartGame, PlayerID: "p1", Roster: roster})
		assert.ErrorIs(t, err, ErrDuplicateNames)
	})
}

func TestValidateNomination(t *testing.T) {
	t.Run("only president nominates", func(t *testing.T) {
		s := nominationState(5)
		err := Validate(s, Action{Type: ActionNominateChancellor, PlayerID: "p2", ChancellorID: "p3"})
		assert.ErrorIs(t, err, ErrNotPresident)
	})

	t.Run("no self nomination", func(t *testing.T) {
		s := nominationState(5)
		err := Validate(s, Action{Type: ActionNominateChancellor, PlayerID: "p1", ChancellorID: "p1"})
		assert.ErrorIs(t, err, ErrSelfTarget)
	})

	t.Run("no dead nominee", func(t *testing.T) {
		s := nominationState(5)
		s.PlayerByID("p3").Alive = false
		err := Validate(s, Action{Type: ActionNominateChancellor, PlayerID: "p1", ChancellorID: "p3"})
		assert.ErrorIs(t, err, ErrDeadTarget)
	})

	t.Run("unknown nominee", func(t *testing.T) {
		s := nominationState(5)
		err := Validate(s, Action{Type: ActionNominateChancellor, PlayerID: "p1", ChancellorID: "nobody"})
		assert.ErrorIs(t, err, ErrUnknownTarget)
	})

	t.Run("term limited nominee", func(t *testing.T) {
		s := nominationState(5)
		s.PlayerByID("p3").WasChancellor = true
		err := Validate(s, Action{Type: ActionNominateChancellor, PlayerID: "p1", ChancellorID: "p3"})
		assert.ErrorIs(t, err, ErrTermLimited)

		s.PlayerByID("p3").WasChancellor = false
		s.PlayerByID("p3").WasPresident = true
		err = Validate(s, Action{Type: ActionNominateChancellor, PlayerID: "p1", ChancellorID: "p3"})
		assert.ErrorIs(t, err, ErrTermLimited)
	})
}

func TestValidateVoting(t *testing.T) {
	t.Run("dead players cannot vote", func(t *testing.T) {
		s := votingState(5, "p2")
		s.PlayerByID("p4").Alive = false
		err := Validate(s, Action{Type: ActionCastVote, PlayerID: "p4", Vote: VoteJa})
		assert.ErrorIs(t, err, ErrDeadPlayer)
	})

	t.Run("no double voting", func(t *testing.T) {
		s := votingState(5, "p2")
		s.Votes["p3"] = VoteJa
		err := Validate(s, Action{Type: ActionCastVote, PlayerID: "p3", Vote: VoteNein})
		assert.ErrorIs(t, err, ErrAlreadyVoted)
	})

	t.Run("unknown voter", func(t *testing.T) {
		s := votingState(5, "p2")
		err := Validate(s, Action{Type: ActionCastVote, PlayerID: "ghost", Vote: VoteJa})
		assert.ErrorIs(t, err, ErrUnknownPlayer)
	})

	t.Run("malformed ballot", func(t *testing.T) {
		s := votingState(5, "p2")
		err := Validate(s, Action{Type: ActionCastVote, PlayerID: "p3", Vote: "maybe"})
		assert.Error(t, err)
	})
}

func TestValidateLegislation(t *testing.T) {
	t.Run("discard index out of range", func(t *testing.T) {
		s := nominationState(5)
		s.Phase = PhaseLegislativePresident
		s.PresidentHand = []Policy{PolicyLiberal, PolicyFascist, PolicyFascist}
		err := Validate(s, Action{Type: ActionDiscardPolicy, PlayerID: "p1", PolicyIndex: 3})
		assert.ErrorIs(t, err, ErrPolicyIndexOutOfRange)
	})

	t.Run("only chancellor enacts", func(t *testing.T) {
		s := nominationState(5)
		s.Phase = PhaseLegislativeChancellor
		s.NominatedChancellor = "p2"
		s.ChancellorHand = []Policy{PolicyLiberal, PolicyFascist}
		err := Validate(s, Action{Type: ActionEnactPolicy, PlayerID: "p3", PolicyIndex: 0})
		assert.ErrorIs(t, err, ErrNotChancellor)
	})
}

func TestValidateExecutivePowers(t *testing.T) {
	base := func() *GameState {
		s := nominationState(7)
		s.Phase = PhaseExecutiveAction
		return s
	}

	t.Run("only president", func(t *testing.T) {
		err := Validate(base(), Action{Type: ActionExecutePlayer, PlayerID: "p2", TargetID: "p3"})
		assert.ErrorIs(t, err, ErrNotPresident)
	})

	t.Run("no self target", func(t *testing.T) {
		err := Validate(base(), Action{Type: ActionExecutePlayer, PlayerID: "p1", TargetID: "p1"})
		assert.ErrorIs(t, err, ErrSelfTarget)
	})

	t.Run("no dead target", func(t *testing.T) {
		s := base()
		s.PlayerByID("p4").Alive = false
		err := Validate(s, Action{Type: ActionExecutePlayer, PlayerID: "p1", TargetID: "p4"})
		assert.ErrorIs(t, err, ErrDeadTarget)
	})

	t.Run("no repeat investigation", func(t *testing.T) {
		s := base()
		s.InvestigatedPlayers = []string{"p4"}
		err := Validate(s, Action{Type: ActionInvestigateLoyalty, PlayerID: "p1", TargetID: "p4"})
		assert.ErrorIs(t, err, ErrAlreadyInvestigated)
	})

	t.Run("peek needs three cards in play", func(t *testing.T) {
		s := base()
		s.PolicyDeck = []Policy{PolicyLiberal}
		s.DiscardPile = []Policy{PolicyFascist}
		err := Validate(s, Action{Type: ActionPolicyPeek, PlayerID: "p1"})
		assert.ErrorIs(t, err, ErrDeckTooSmall)
	})
}
