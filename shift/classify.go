package shift

import "github.com/samber/lo"

// Transition is what a presence change means for an agent's shift.
type Transition int

const (
	NoChange Transition = iota
	EnteredService
	LeftService
)

func (t Transition) String() string {
	switch t {
	case EnteredService:
		return "entered-service"
	case LeftService:
		return "left-service"
	default:
		return "no-change"
	}
}

// Classify maps a move from previous to next channel onto a Transition.
// Moving between two service channels, or between two ordinary ones, changes nothing.
func Classify(previous, next string, serviceChannels []string) Transition {
	inPrev := previous != "" && lo.Contains(serviceChannels, previous)
	inNext := next != "" && lo.Contains(serviceChannels, next)
	switch {
	case inNext && !inPrev:
		return EnteredService
	case inPrev && !inNext:
		return LeftService
	default:
		return NoChange
	}
}
