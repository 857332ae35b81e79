package matching

// findChain is the declared extension point for multi-party cycles of length
// >= 3: each participant's need satisfied by the next participant's offer,
// closing back to the requester, scored with MatchChain's discount and capped
// at 3-4 hops to bound search cost.
//
// The cycle search is not implemented; this returns no candidates
// unconditionally. Callers and tests rely on that being the current
// behavior, so completing it must be a deliberate, tested change.
func (e *Engine) findChain(Input) []ChainCandidate {
	return nil
}
