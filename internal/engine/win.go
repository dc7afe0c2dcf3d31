package engine

// Win thresholds: five liberal policies or six fascist policies end the
// game outright.
const (
	liberalWinThreshold = 5
	fascistWinThreshold = 6
)

// checkPolicyWin evaluates the two policy-count win conditions. The other
// two paths (Hitler elected, Hitler killed) are checked at their trigger
// points in voting.go and executive.go.
func checkPolicyWin(state *GameState) (Party, WinReason, bool) {
	if state.LiberalPolicies >= liberalWinThreshold {
		return PartyLiberal, WinLiberalPolicies, true
	}
	if state.FascistPolicies >= fascistWinThreshold {
		return PartyFascist, WinFascistPolicies, true
	}
	return "", "", false
}
