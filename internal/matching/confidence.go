package matching

// Confidence blending policy. Similarity dominates, trust is secondary,
// experience is minor; chain matches carry a flat discount for their higher
// coordination risk.
const (
	similarityWeight = 0.6
	trustWeight      = 0.25
	xpWeight         = 0.15

	chainDiscount = 0.85

	// xpCap is the experience level at which the XP factor saturates.
	xpCap = 1000
)

// Confidence blends two similarity scores with the candidate's reputation
// into a single [0,1] value.
//
// Trust score is assumed already bounded to [0,100] by its owning store; the
// final min is the only clamp applied here.
func Confidence(offerSim, needSim float64, candidate UserProfile, matchType MatchType) float64 {
	base := (offerSim + needSim) / 2
	trustFactor := float64(candidate.TrustScore) / 100
	expFactor := min(float64(candidate.XP)/xpCap, 1)

	typeFactor := 1.0
	if matchType == MatchChain {
		typeFactor = chainDiscount
	}

	confidence := (base*similarityWeight + trustFactor*trustWeight + expFactor*xpWeight) * typeFactor
	return min(confidence, 1)
}
