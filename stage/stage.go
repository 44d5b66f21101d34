// Package stage defines the fixed wizard stage registry, the weighted
// overall-progress calculator, and the typed partial data record each stage
// carries through the event-creation flow.
package stage

// Stage identifies one step of the event-creation wizard.
type Stage string

// The six wizard stages, in flow order.
const (
	// OrganizerSetup collects the organizer's profile.
	OrganizerSetup Stage = "organizer_setup"
	// EventSetup collects the core event details.
	EventSetup Stage = "event_setup"
	// VenueSetup collects the venue or virtual-location details.
	VenueSetup Stage = "venue_setup"
	// TicketSetup collects ticket tiers and sales windows.
	TicketSetup Stage = "ticket_setup"
	// SponsorsMedia collects sponsors and media assets.
	SponsorsMedia Stage = "sponsors_media"
	// ReviewPublish is the final review before publishing.
	ReviewPublish Stage = "review_publish"
)

// order is the canonical stage sequence. It is fixed at compile time and
// never reordered at runtime.
var order = [...]Stage{
	OrganizerSetup,
	EventSetup,
	VenueSetup,
	TicketSetup,
	SponsorsMedia,
	ReviewPublish,
}

// weights assigns each stage its share of overall progress. The weights
// must sum to exactly 100; init enforces this.
var weights = map[Stage]int{
	OrganizerSetup: 15,
	EventSetup:     20,
	VenueSetup:     15,
	TicketSetup:    20,
	SponsorsMedia:  15,
	ReviewPublish:  15,
}

func init() {
	sum := 0
	for _, s := range order {
		sum += weights[s]
	}
	if sum != 100 {
		panic("stage: weights must sum to 100")
	}
}

// Order returns the canonical stage sequence as a fresh slice.
func Order() []Stage {
	out := make([]Stage, len(order))
	copy(out, order[:])
	return out
}

// Count returns the number of wizard stages.
func Count() int { return len(order) }

// IndexOf returns the position of s in the canonical order, or -1 if s is
// not a known stage.
func IndexOf(s Stage) int {
	for i, st := range order {
		if st == s {
			return i
		}
	}
	return -1
}

// WeightOf returns the progress weight of s, or 0 for an unknown stage.
func WeightOf(s Stage) int { return weights[s] }

// First returns the initial wizard stage.
func First() Stage { return order[0] }

// Last returns the terminal wizard stage.
func Last() Stage { return order[len(order)-1] }

// Valid reports whether s is a member of the stage registry.
func Valid(s Stage) bool { return IndexOf(s) >= 0 }

// Next returns the stage immediately after s, and false if s is the last
// stage or unknown.
func Next(s Stage) (Stage, bool) {
	i := IndexOf(s)
	if i < 0 || i >= len(order)-1 {
		return s, false
	}
	return order[i+1], true
}

// Previous returns the stage immediately before s, and false if s is the
// first stage or unknown.
func Previous(s Stage) (Stage, bool) {
	i := IndexOf(s)
	if i <= 0 {
		return s, false
	}
	return order[i-1], true
}
