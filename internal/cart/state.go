package cart

import "storefront-client/internal/domain"

// AddOutcome tells the caller what AddToCart did. AddDropped with a nil error
// means another add held the mutex and nothing was sent.
type AddOutcome int

const (
	AddDropped AddOutcome = iota
	AddMerged
	AddInserted
)

func (o AddOutcome) String() string {
	switch o {
	case AddMerged:
		return "merged"
	case AddInserted:
		return "inserted"
	default:
		return "dropped"
	}
}

// Phase tracks whether the local cart is server truth or a guess.
type Phase int

const (
	PhaseReconciled Phase = iota
	PhaseOptimistic
	PhaseRolledBack
)

func (p Phase) String() string {
	switch p {
	case PhaseOptimistic:
		return "optimistic"
	case PhaseRolledBack:
		return "rolled_back"
	default:
		return "reconciled"
	}
}

// Status separates "there is no cart" from "the last fetch failed".
type Status int

const (
	StatusNone Status = iota
	StatusReady
	StatusUnknown
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusUnknown:
		return "unknown"
	default:
		return "none"
	}
}

type Snapshot struct {
	Cart    *domain.Cart
	Status  Status
	Phase   Phase
	Loading bool
	Adding  bool
}
