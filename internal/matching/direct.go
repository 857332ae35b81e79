package matching

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// findDirect walks the cross product of the requester's offer and need titles
// against the global pool looking for closed two-party cycles: someone whose
// need our offer satisfies, and who posts an offer satisfying our need.
//
// Post-processing: candidates are deduplicated by matched user (the
// highest-confidence occurrence wins), sorted descending by confidence with
// discovery order preserved on ties, and truncated to MaxResults.
//
// Absence of matches is a valid, silent outcome; this never fails.
func (e *Engine) findDirect(in Input) []DirectCandidate {
	var candidates []DirectCandidate

	for _, userOffer := range in.UserOffers {
		for _, userNeed := range in.UserNeeds {
			for _, need := range in.AllNeeds {
				// The caller excludes the requester's own postings when
				// assembling the pool; skip them here regardless.
				if need.UserID == in.UserID {
					continue
				}
				needSim := Similarity(userOffer, need.Title)
				if needSim < e.opts.Threshold {
					continue
				}

				// They need what we offer. Do they offer what we need?
				for _, offer := range in.AllOffers {
					if offer.UserID != need.UserID {
						continue
					}
					offerSim := Similarity(userNeed, offer.Title)
					if offerSim < e.opts.Threshold {
						continue
					}

					confidence := Confidence(needSim, offerSim, need.Owner, MatchDirect)
					if confidence < e.opts.MinConfidence {
						continue
					}

					candidates = append(candidates, DirectCandidate{
						UserOffer:    userOffer,
						UserNeed:     userNeed,
						MatchedUser:  need.Owner,
						MatchedOffer: offer,
						MatchedNeed:  need,
						Description: fmt.Sprintf("Your %q for their %q (%d%% confidence)",
							userOffer, offer.Title, int(math.Round(confidence*100))),
						Confidence:      confidence,
						OfferSimilarity: offerSim,
						NeedSimilarity:  needSim,
					})
				}
			}
		}
	}

	deduped := dedupeByUser(candidates)
	sort.SliceStable(deduped, func(i, j int) bool {
		return deduped[i].Confidence > deduped[j].Confidence
	})
	if len(deduped) > e.opts.MaxResults {
		deduped = deduped[:e.opts.MaxResults]
	}
	return deduped
}

// dedupeByUser keeps one candidate per matched user, retaining the highest
// confidence seen and that candidate's discovery position.
func dedupeByUser(candidates []DirectCandidate) []DirectCandidate {
	byUser := make(map[uuid.UUID]int, len(candidates))
	out := make([]DirectCandidate, 0, len(candidates))
	for _, c := range candidates {
		if i, seen := byUser[c.MatchedUser.ID]; seen {
			if c.Confidence > out[i].Confidence {
				out[i] = c
			}
			continue
		}
		byUser[c.MatchedUser.ID] = len(out)
		out = append(out, c)
	}
	return out
}
