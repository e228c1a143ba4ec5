package llm

import "autofix-agent/packages/config"

// Route names the provider family and concrete model for one request
type Route struct {
	Provider string
	Model    string
}

// RoutingTable maps public model aliases to provider routes and carries the
// fixed fallback candidates per provider family.
type RoutingTable struct {
	Default   Route
	Aliases   map[string]Route
	Fallbacks map[string][]string
}

// NewRoutingTable builds the table from configuration
func NewRoutingTable(cfg config.AIConfig) RoutingTable {
	table := RoutingTable{
		Default:   Route{Provider: cfg.DefaultProvider, Model: cfg.DefaultModel},
		Aliases:   make(map[string]Route, len(cfg.Routing)),
		Fallbacks: cfg.Fallbacks,
	}
	for _, route := range cfg.Routing {
		table.Aliases[route.Alias] = Route{Provider: route.Provider, Model: route.Model}
	}
	return table
}

// Resolve returns the route for the preferred alias. Absent or unknown
// aliases fail closed to the default route.
func (t RoutingTable) Resolve(preferred string) Route {
	if preferred != "" {
		if route, ok := t.Aliases[preferred]; ok {
			return route
		}
	}
	return t.Default
}

// Candidates returns the deduplicated model list tried for a route: the
// routed model first, then the family's fallback candidates.
func (t RoutingTable) Candidates(route Route) []string {
	seen := make(map[string]bool)
	var candidates []string
	for _, model := range append([]string{route.Model}, t.Fallbacks[route.Provider]...) {
		if model == "" || seen[model] {
			continue
		}
		seen[model] = true
		candidates = append(candidates, model)
	}
	return candidates
}
