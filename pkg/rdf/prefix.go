package rdf

import (
	"maps"
	"slices"
	"strings"
)

// PrefixMap maps prefix names to namespace IRIs. The empty name is the
// default prefix (":local"). A nil PrefixMap is valid for reads.
type PrefixMap map[string]string

// NewPrefixMap returns an empty prefix map.
func NewPrefixMap() PrefixMap { return PrefixMap{} }

// Set binds name to namespace. A later declaration for the same name wins.
func (p PrefixMap) Set(name, namespace string) { p[name] = namespace }

// Get returns the namespace bound to name.
func (p PrefixMap) Get(name string) (string, bool) {
	ns, ok := p[name]
	return ns, ok
}

// Names returns the prefix names in sorted order.
func (p PrefixMap) Names() []string {
	return slices.Sorted(maps.Keys(p))
}

// Clone returns an independent copy of the map.
func (p PrefixMap) Clone() PrefixMap {
	out := make(PrefixMap, len(p))
	maps.Copy(out, p)
	return out
}

// WithDefaults returns a copy of p extended with the rdf, rdfs, xsd and owl
// prefixes. Names and namespaces already bound in p are left untouched.
func (p PrefixMap) WithDefaults() PrefixMap {
	out := p.Clone()
	bound := make(map[string]bool, len(p))
	for _, ns := range p {
		bound[ns] = true
	}
	for name, ns := range wellKnownPrefixes {
		if _, taken := out[name]; taken || bound[ns] {
			continue
		}
		out[name] = ns
	}
	return out
}

// Compact returns the prefixed form of iri using the longest matching
// namespace. It reports false when no namespace matches or the remaining
// local part cannot be written as a prefixed name.
//
// When several names are bound to the same namespace the lexically smallest
// name is used, so the result does not depend on declaration order.
func (p PrefixMap) Compact(iri string) (string, bool) {
	bestName, bestNS := "", ""
	found := false
	for name, ns := range p {
		if ns == "" || !strings.HasPrefix(iri, ns) {
			continue
		}
		if !ValidLocal(iri[len(ns):]) {
			continue
		}
		switch {
		case !found, len(ns) > len(bestNS), len(ns) == len(bestNS) && name < bestName:
			bestName, bestNS, found = name, ns, true
		}
	}
	if !found {
		return "", false
	}
	return bestName + ":" + iri[len(bestNS):], true
}
