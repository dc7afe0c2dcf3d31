package engine

// SanitizeOptions controls the visibility matrix. HitlerVisibilityMax is the
// largest roster size at which Hitler still learns who the fascists are;
// official rules say 6, kept configurable in case the role table changes.
type SanitizeOptions struct {
	HitlerVisibilityMax int
}

// DefaultSanitizeOptions returns the official-rules visibility settings.
func DefaultSanitizeOptions() SanitizeOptions {
	return SanitizeOptions{HitlerVisibilityMax: 6}
}

// SanitizeForPlayer projects the state for one viewer, erasing everything
// the viewer is not entitled to see. The projection depends on the viewer's
// own role, so it must be recomputed per recipient on every state change and
// never cached.
func SanitizeForPlayer(state *GameState, playerID string, opts SanitizeOptions) *GameState {
	viewer := state.PlayerByID(playerID)
	if viewer == nil {
		return SanitizeForSpectator(state)
	}

	out := state.Clone()
	viewerRole := viewer.Role

	for i := range out.Players {
		p := &out.Players[i]
		if p.ID == playerID {
			continue
		}
		if roleVisible(viewerRole, p.Role, len(state.Players), opts) {
			continue
		}
		p.Role = RoleLiberal
		p.Party = PartyLiberal
	}

	hideSharedSecrets(out, state)

	presidentID := ""
	if p := state.President(); p != nil {
		presidentID = p.ID
	}

	// Hands are visible only to the office currently holding them.
	if presidentID != playerID {
		out.PresidentHand = []Policy{}
	}
	if state.NominatedChancellor != playerID {
		out.ChancellorHand = []Policy{}
	}

	// The latest investigation result belongs to the sitting president; the
	// append-only list of who has been investigated stays public.
	if presidentID != playerID {
		out.InvestigatedPlayer = ""
	}

	return out
}

// SanitizeForSpectator projects the state for a viewer with no seat: every
// secret is erased.
func SanitizeForSpectator(state *GameState) *GameState {
	out := state.Clone()
	for i := range out.Players {
		out.Players[i].Role = RoleLiberal
		out.Players[i].Party = PartyLiberal
	}
	hideSharedSecrets(out, state)
	out.PresidentHand = []Policy{}
	out.ChancellorHand = []Policy{}
	out.InvestigatedPlayer = ""
	out.InvestigatedPlayers = []string{}
	return out
}

// roleVisible implements the visibility matrix: fascists see every
// non-liberal, Hitler sees fascists only on small tables, everyone else sees
// nothing.
func roleVisible(viewer, other Role, playerCount int, opts SanitizeOptions) bool {
	switch viewer {
	case RoleFascist:
		return other != RoleLiberal
	case RoleHitler:
		return other == RoleFascist && playerCount <= opts.HitlerVisibilityMax
	default:
		return false
	}
}

// hideSharedSecrets applies the viewer-independent rules: ballots stay
// hidden until every living player has voted, and deck/discard contents are
// never revealed.
func hideSharedSecrets(out, state *GameState) {
	if len(state.Votes) < state.AliveCount() {
		out.Votes = map[string]Vote{}
	}
	out.PolicyDeck = []Policy{}
	out.DiscardPile = []Policy{}
}
