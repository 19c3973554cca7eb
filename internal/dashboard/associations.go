package dashboard

import (
	"sort"

	"github.com/brentlens/brentlens/internal/models"
)

// AnnotatedEvent is an event plus its resolved association flag. The UI
// treats "has at least one association" as a boolean badge; the individual
// association records stay available separately for drill-down.
type AnnotatedEvent struct {
	models.Event
	HasAssociation bool `json:"has_association"`
}

// Annotate flags each event that at least one association references by
// exact date.
//
// This is deliberately an equality lookup and not a windowed match. The
// provider already resolved the ±window_days relationship when it produced
// the association records; re-deriving "close enough" matches here would
// apply the windowing policy twice and let the two sides drift apart. The
// client's only job is set membership on the resolved dates.
//
// Empty or nil inputs never fail: with no associations every event comes
// back unflagged.
func Annotate(events []models.Event, associations []models.Association) []AnnotatedEvent {
	linked := make(map[string]struct{}, len(associations))
	for _, a := range associations {
		linked[a.EventDate.String()] = struct{}{}
	}

	annotated := make([]AnnotatedEvent, 0, len(events))
	for _, e := range events {
		_, has := linked[e.Date.String()]
		annotated = append(annotated, AnnotatedEvent{Event: e, HasAssociation: has})
	}
	return annotated
}

// DecadeGroup is a display partition of events sharing a decade.
type DecadeGroup struct {
	Decade int              `json:"decade"`
	Events []AnnotatedEvent `json:"events"`
}

// GroupByDecade partitions events by decade (floor(year/10)*10) and returns
// the groups in descending decade order. Events within a group keep their
// input order, so the grouping is stable and exhaustive: every event lands
// in exactly one group.
func GroupByDecade(events []AnnotatedEvent) []DecadeGroup {
	byDecade := make(map[int][]AnnotatedEvent)
	var order []int
	for _, e := range events {
		dec := e.Date.Decade()
		if _, exists := byDecade[dec]; !exists {
			order = append(order, dec)
		}
		byDecade[dec] = append(byDecade[dec], e)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(order)))

	groups := make([]DecadeGroup, 0, len(order))
	for _, dec := range order {
		groups = append(groups, DecadeGroup{Decade: dec, Events: byDecade[dec]})
	}
	return groups
}
