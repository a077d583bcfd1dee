package config

import (
	"sort"
	"strings"

	"github.com/arthur-debert/franklin/pkg/errors"
)

// ColorVariants holds the base color plus dark and light variants used for
// visual hierarchy in the banner.
type ColorVariants struct {
	Base  string
	Dark  string
	Light string
}

// CampfireColors is the signature palette users can pick their banner color
// from.
var CampfireColors = map[string]ColorVariants{
	"Cello":        {Base: "#607a97", Dark: "#4a5f77", Light: "#8fa9c3"},
	"Terracotta":   {Base: "#b87b6a", Dark: "#8f5d4d", Light: "#d9a393"},
	"Black Rock":   {Base: "#747b8a", Dark: "#5a606d", Light: "#9ca3b0"},
	"Sage":         {Base: "#8fb14b", Dark: "#6d8a38", Light: "#b3d375"},
	"Golden Amber": {Base: "#f9c574", Dark: "#d9a555", Light: "#ffd99d"},
	"Flamingo":     {Base: "#e75351", Dark: "#c73e3c", Light: "#ff7b79"},
	"Blue Calx":    {Base: "#b8c5d9", Dark: "#95a5bd", Light: "#d4dfe8"},
}

// DefaultColor is the palette entry used when nothing is configured.
const DefaultColor = "Cello"

// ColorNames returns the palette names in stable order.
func ColorNames() []string {
	names := make([]string, 0, len(CampfireColors))
	for name := range CampfireColors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveColor maps a palette name or #rrggbb value to (name, base hex).
// Unknown values are rejected.
func ResolveColor(value string) (string, string, error) {
	if variants, ok := CampfireColors[value]; ok {
		return value, variants.Base, nil
	}
	if isHexColor(value) {
		return "custom", value, nil
	}
	return "", "", errors.Newf(errors.ErrInvalidInput,
		"invalid color %q (use a palette name or #rrggbb)", value)
}

// BaseHex returns the base hex for a configured color value, falling back to
// the default palette entry for anything unrecognized.
func BaseHex(value string) string {
	if variants, ok := CampfireColors[value]; ok {
		return variants.Base
	}
	if isHexColor(value) {
		return value
	}
	return CampfireColors[DefaultColor].Base
}

func isHexColor(s string) bool {
	if len(s) != 7 || !strings.HasPrefix(s, "#") {
		return false
	}
	for _, r := range strings.ToLower(s[1:]) {
		if (r < '0' || r > '9') && (r < 'a' || r > 'f') {
			return false
		}
	}
	return true
}
