package hooks

import "testing"

func TestMatchesFilter(t *testing.T) {
	tests := []struct {
		name      string
		filter    string
		eventType string
		expected  bool
	}{
		{name: "Empty Filter Matches Status", filter: "", eventType: "status", expected: true},
		{name: "Empty Filter Matches Archive", filter: "", eventType: "archive", expected: true},
		{name: "Single Match", filter: "status", eventType: "status", expected: true},
		{name: "List Match First", filter: "status,member", eventType: "status", expected: true},
		{name: "List Match Second", filter: "status,member", eventType: "member", expected: true},
		{name: "List Miss Archive", filter: "status,member", eventType: "archive", expected: false},
		{name: "List Miss Edit", filter: "status,member", eventType: "edit", expected: false},
		{name: "Whitespace Trimmed", filter: " status , member ", eventType: "member", expected: true},
		{name: "No Partial Match", filter: "status", eventType: "stat", expected: false},
		{name: "No Substring Match", filter: "status_extra", eventType: "status", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesFilter(tt.filter, tt.eventType); got != tt.expected {
				t.Errorf("MatchesFilter(%q, %q) = %v, expected %v", tt.filter, tt.eventType, got, tt.expected)
			}
		})
	}
}
