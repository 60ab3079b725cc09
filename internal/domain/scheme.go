package domain

import (
	"fmt"
	"strings"
)

// Scheme identifies a pension scheme. Whether a scheme uses salary exchange
// is a property of its rate table, not of its name.
type Scheme string

const (
	SchemeNone              Scheme = "NONE"
	SchemeUSS               Scheme = "USS"
	SchemeUSSExchange       Scheme = "USS_EXCHANGE"
	SchemeCPSHybrid         Scheme = "CPS_HYBRID"
	SchemeCPSHybridExchange Scheme = "CPS_HYBRID_EXCHANGE"
	SchemeNHS               Scheme = "NHS"
	SchemeMRC               Scheme = "MRC"
)

var allSchemes = []Scheme{
	SchemeNone, SchemeUSS, SchemeUSSExchange, SchemeCPSHybrid, SchemeCPSHybridExchange, SchemeNHS, SchemeMRC,
}

// AllSchemes returns every scheme name.
func AllSchemes() []Scheme {
	return append([]Scheme(nil), allSchemes...)
}

// ParseScheme accepts a scheme name in any case, with '-' standing in for '_'.
func ParseScheme(s string) (Scheme, error) {
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(s)), "-", "_")
	for _, scheme := range allSchemes {
		if string(scheme) == name {
			return scheme, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, s)
}

func (s Scheme) String() string { return string(s) }
