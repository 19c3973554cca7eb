package adapters

import (
	"strconv"
	"unicode/utf8"

	"github.com/brentlens/brentlens/internal/dashboard"
	"github.com/brentlens/brentlens/internal/models"
)

// associationBadge is the label shown on events linked to a change point.
const associationBadge = "Linked to Change Point"

// listDateLayout is the human-readable date form used in the event list.
const listDateLayout = "Jan 2, 2006"

// descriptionLimit is the rune cap for event descriptions in the list.
const descriptionLimit = 100

// ListItem is one event entry in the grouped list.
type ListItem struct {
	Date           string `json:"date"`
	ISODate        string `json:"iso_date"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	HasAssociation bool   `json:"has_association"`
	Badge          string `json:"badge,omitempty"`
	Selected       bool   `json:"selected"`
}

// ListGroup is one decade section of the event list.
type ListGroup struct {
	Decade int        `json:"decade"`
	Label  string     `json:"label"` // e.g. "2020s"
	Items  []ListItem `json:"items"`
}

// EventList is the renderer-ready grouped event list.
type EventList struct {
	Groups []ListGroup `json:"groups"`
}

// BuildEventList projects the decade-partitioned, association-annotated
// events into list entries. Selection matching follows the same canonical
// date rule the view model uses, extended with the event name so that two
// events sharing a date do not both light up.
func BuildEventList(groups []dashboard.DecadeGroup, sel models.Selection) EventList {
	out := make([]ListGroup, 0, len(groups))
	for _, g := range groups {
		items := make([]ListItem, 0, len(g.Events))
		for _, e := range g.Events {
			item := ListItem{
				Date:           e.Date.Format(listDateLayout),
				ISODate:        e.Date.String(),
				Name:           e.Name,
				Description:    truncate(e.Description, descriptionLimit),
				HasAssociation: e.HasAssociation,
				Selected:       sel.MatchesEvent(e.Event),
			}
			if e.HasAssociation {
				item.Badge = associationBadge
			}
			items = append(items, item)
		}
		out = append(out, ListGroup{
			Decade: g.Decade,
			Label:  itoaDecade(g.Decade),
			Items:  items,
		})
	}
	return EventList{Groups: out}
}

func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

func itoaDecade(decade int) string {
	return strconv.Itoa(decade) + "s"
}
