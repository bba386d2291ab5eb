package device

import (
	"sort"
	"strings"
)

// Capability table of chip families with a Bus Encryption Engine. Pure
// lookup; devices without BEE (e.g. rt117x, which carries IEE) are
// handled by different tooling.
var beeFamilies = map[string]struct{}{
	"rt1015": {},
	"rt1020": {},
	"rt1040": {},
	"rt1050": {},
	"rt1060": {},
	"rt1064": {},
}

// SupportedFamilies returns the families with BEE support, sorted.
func SupportedFamilies() []string {
	families := make([]string, 0, len(beeFamilies))
	for family := range beeFamilies {
		families = append(families, family)
	}
	sort.Strings(families)
	return families
}

// SupportsBee reports whether the given family has a BEE.
func SupportsBee(family string) bool {
	_, ok := beeFamilies[strings.ToLower(family)]
	return ok
}
