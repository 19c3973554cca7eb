package models

import (
	"encoding/json"
	"testing"
)

func TestEventValidate(t *testing.T) {
	tests := []struct {
		name    string
		event   Event
		wantErr bool
	}{
		{
			name:  "valid event",
			event: Event{Date: MustParseDate("2020-03-15"), Name: "Oil Price War"},
		},
		{
			name:    "missing date",
			event:   Event{Name: "Oil Price War"},
			wantErr: true,
		},
		{
			name:    "missing name",
			event:   Event{Date: MustParseDate("2020-03-15")},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Event.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestChangePointValidate(t *testing.T) {
	tests := []struct {
		name    string
		cp      ChangePoint
		wantErr bool
	}{
		{
			name: "valid change point",
			cp:   ChangePoint{Date: MustParseDate("2008-09-15"), ImpactPct: -0.06, Confidence: 0.95},
		},
		{
			name:    "missing date",
			cp:      ChangePoint{ImpactPct: -0.06, Confidence: 0.95},
			wantErr: true,
		},
		{
			name:    "confidence out of range",
			cp:      ChangePoint{Date: MustParseDate("2008-09-15"), Confidence: 1.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cp.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ChangePoint.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAssociationValidate(t *testing.T) {
	valid := Association{
		ChangePointDate: MustParseDate("2020-03-08"),
		EventDate:       MustParseDate("2020-03-15"),
		EventName:       "Oil Price War",
		DaysFromChange:  7,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("valid association rejected: %v", err)
	}

	missing := Association{EventDate: MustParseDate("2020-03-15")}
	if err := missing.Validate(); err == nil {
		t.Error("association without change point date should be rejected")
	}
}

func TestPricePointDecode(t *testing.T) {
	tests := []struct {
		name      string
		payload   string
		wantPrice float64
		wantRet   bool // expect a non-nil log return
	}{
		{
			name:      "numeric price with return",
			payload:   `{"Date":"2020-03-15","Price":20.0,"log_return":-0.12}`,
			wantPrice: 20.0,
			wantRet:   true,
		},
		{
			name:      "string price",
			payload:   `{"Date":"2020-03-15","Price":"45.50"}`,
			wantPrice: 45.50,
		},
		{
			name:      "null price coerces to zero",
			payload:   `{"Date":"2020-03-15","Price":null}`,
			wantPrice: 0,
		},
		{
			name:      "missing price coerces to zero",
			payload:   `{"Date":"2020-03-15"}`,
			wantPrice: 0,
		},
		{
			name:      "garbage price coerces to zero",
			payload:   `{"Date":"2020-03-15","Price":"n/a"}`,
			wantPrice: 0,
		},
		{
			name:      "null log return stays nil",
			payload:   `{"Date":"1987-05-20","Price":18.63,"log_return":null}`,
			wantPrice: 18.63,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p PricePoint
			if err := json.Unmarshal([]byte(tt.payload), &p); err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if p.Price != tt.wantPrice {
				t.Errorf("Price = %v, want %v", p.Price, tt.wantPrice)
			}
			if (p.LogReturn != nil) != tt.wantRet {
				t.Errorf("LogReturn set = %v, want %v", p.LogReturn != nil, tt.wantRet)
			}
		})
	}
}

func TestSelectionMatches(t *testing.T) {
	sel := Selection{Date: MustParseDate("2020-03-15"), Name: "Oil Price War"}

	if !sel.Matches(MustParseDate("2020-03-15")) {
		t.Error("selection should match its own date")
	}
	if sel.Matches(MustParseDate("2020-03-16")) {
		t.Error("selection should not match other dates")
	}

	sameDay := Event{Date: MustParseDate("2020-03-15"), Name: "OPEC Meeting"}
	if sel.MatchesEvent(sameDay) {
		t.Error("selection should not match a different event on the same day")
	}

	var none Selection
	if none.IsSet() || none.Matches(MustParseDate("2020-03-15")) {
		t.Error("zero selection should match nothing")
	}
}
