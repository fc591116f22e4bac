package hooks

import "strings"

// MatchesFilter reports whether a subscription's event filter admits the
// event type. The filter is a comma-separated list of event types; entries
// are trimmed and matched exactly. An empty filter matches everything.
func MatchesFilter(filter, eventType string) bool {
	if filter == "" {
		return true
	}
	for _, entry := range strings.Split(filter, ",") {
		if strings.TrimSpace(entry) == eventType {
			return true
		}
	}
	return false
}
