package plan

import "strings"

// Plan is a named tipster subscription tier with its archive listing
// page. Plans are static configuration, never persisted.
type Plan struct {
	Name string
	URL  string
}

var builtin = []Plan{
	{Name: "STANDARD", URL: "https://wintipster.com/standard-plan-archives/"},
	{Name: "PREMIUM", URL: "https://wintipster.com/premium-plan-archives/"},
	{Name: "ELITE", URL: "https://wintipster.com/elite-plan-archives/"},
}

// All returns the built-in plans in processing order.
func All() []Plan {
	out := make([]Plan, len(builtin))
	copy(out, builtin)
	return out
}

// Select resolves a --plan flag value. "ALL" (or an empty value) selects
// every plan; any other value selects the plan with that name, which may
// be none.
func Select(name string) []Plan {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" || name == "ALL" {
		return All()
	}
	for _, p := range builtin {
		if p.Name == name {
			return []Plan{p}
		}
	}
	return nil
}
