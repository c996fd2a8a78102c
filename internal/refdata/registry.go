// Package refdata provides the read-only lookup tables (pollsters, their
// groups and aliases, party display metadata and validity windows) that the
// pipeline consults. A Registry is built once and never modified.
package refdata

import (
	"sort"

	"github.com/chrissnell/polltrend/internal/types"
)

// PartyInfo is the display metadata for a party.
type PartyInfo struct {
	ID         types.Party
	Name       string
	Color      string
	LightColor string
	Windows    []types.Interval
}

// PollsterInfo describes a polling company.
type PollsterInfo struct {
	Name        types.Pollster
	DisplayName string
	Group       types.PollsterGroup
	Aliases     []string
}

// Registry answers reference-data queries by identifier.
type Registry struct {
	parties    map[types.Party]PartyInfo
	partyOrder []types.Party
	pollsters  map[types.Pollster]PollsterInfo
	aliases    map[string]types.Pollster
}

// New builds a Registry. Later entries win over earlier duplicates.
func New(parties []PartyInfo, pollsters []PollsterInfo) *Registry {
	r := &Registry{
		parties:   make(map[types.Party]PartyInfo, len(parties)),
		pollsters: make(map[types.Pollster]PollsterInfo, len(pollsters)),
		aliases:   make(map[string]types.Pollster),
	}

	for _, p := range parties {
		if _, seen := r.parties[p.ID]; !seen {
			r.partyOrder = append(r.partyOrder, p.ID)
		}
		p.Windows = append([]types.Interval(nil), p.Windows...)
		r.parties[p.ID] = p
	}

	for _, p := range pollsters {
		p.Aliases = append([]string(nil), p.Aliases...)
		r.pollsters[p.Name] = p
		r.aliases[string(p.Name)] = p.Name
		for _, a := range p.Aliases {
			r.aliases[a] = p.Name
		}
	}

	return r
}

// Canonical resolves a pollster name or alias to its registered name.
func (r *Registry) Canonical(name string) (types.Pollster, bool) {
	p, ok := r.aliases[name]
	return p, ok
}

// Group returns the group a pollster belongs to. Aliases are resolved.
func (r *Registry) Group(p types.Pollster) (types.PollsterGroup, bool) {
	canonical, ok := r.Canonical(string(p))
	if !ok {
		return "", false
	}
	return r.pollsters[canonical].Group, true
}

// Pollster returns the registered metadata for a pollster or alias.
func (r *Registry) Pollster(p types.Pollster) (PollsterInfo, bool) {
	canonical, ok := r.Canonical(string(p))
	if !ok {
		return PollsterInfo{}, false
	}
	return r.pollsters[canonical], true
}

// Pollsters returns every registered pollster sorted by name.
func (r *Registry) Pollsters() []PollsterInfo {
	out := make([]PollsterInfo, 0, len(r.pollsters))
	for _, p := range r.pollsters {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Party returns display metadata for a party.
func (r *Registry) Party(id types.Party) (PartyInfo, bool) {
	p, ok := r.parties[id]
	return p, ok
}

// Parties returns every registered party in registration order.
func (r *Registry) Parties() []types.Party {
	return append([]types.Party(nil), r.partyOrder...)
}

// PartyName returns the display name, falling back to the identifier.
func (r *Registry) PartyName(id types.Party) string {
	if p, ok := r.parties[id]; ok && p.Name != "" {
		return p.Name
	}
	return string(id)
}

// PartyColor returns the party color, or a neutral grey if unknown.
func (r *Registry) PartyColor(id types.Party) string {
	if p, ok := r.parties[id]; ok && p.Color != "" {
		return p.Color
	}
	return "#888888"
}

// Windows returns the configured validity windows for every party that
// has at least one. The result is a fresh map.
func (r *Registry) Windows() types.PartyValidityWindows {
	w := make(types.PartyValidityWindows)
	for id, p := range r.parties {
		if len(p.Windows) > 0 {
			w[id] = append([]types.Interval(nil), p.Windows...)
		}
	}
	return w
}
