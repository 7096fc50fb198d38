package project

// Status represents the review lifecycle state of a migration page.
//
// The chain moves forward only: pending → converted → in_review → approved
// → published. Skipped is an absorbing terminal reachable from any
// non-published state. Nothing moves out of published.
//
// Centralizing these here avoids scattering string literals like
// "in_review" across packages.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConverted Status = "converted"
	StatusInReview  Status = "in_review"
	StatusApproved  Status = "approved"
	StatusPublished Status = "published"
	StatusSkipped   Status = "skipped"
)

// forwardChain is the monotonic review order; skipped sits outside it.
var forwardChain = map[Status]int{
	StatusPending:   0,
	StatusConverted: 1,
	StatusInReview:  2,
	StatusApproved:  3,
	StatusPublished: 4,
}

// CanTransition reports whether an operator-driven move from one status to
// the next is legal.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	if from == StatusPublished {
		return false
	}
	if from == StatusSkipped {
		return false
	}
	fi, ok := forwardChain[from]
	if !ok {
		return false
	}
	if to == StatusSkipped {
		return true
	}
	ti, ok := forwardChain[to]
	if !ok {
		return false
	}
	return ti == fi+1
}
