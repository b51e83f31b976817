package clauses

// CanTransition reports whether a review status transition is permitted.
// A clause leaves unreviewed exactly once; reviewed and flagged may be
// toggled freely thereafter. No transition returns to unreviewed.
func CanTransition(from, to ReviewStatus) bool {
	return to == ReviewReviewed || to == ReviewFlagged
}
