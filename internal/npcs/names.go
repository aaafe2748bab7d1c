package npcs

import (
	"sort"
	"strings"

	"github.com/nzvengeance/aces-companion/internal/models"
)

// NameStyle picks which vocabulary NPC names are shown in.
type NameStyle string

const (
	StyleVanilla NameStyle = "vanilla"
	StyleMod     NameStyle = "mod"
)

// ParseNameStyle returns StyleMod for "mod" (any case) and StyleVanilla
// otherwise.
func ParseNameStyle(s string) NameStyle {
	if strings.EqualFold(strings.TrimSpace(s), string(StyleMod)) {
		return StyleMod
	}
	return StyleVanilla
}

// modNames maps in-game names to the names used by the community mod.
var modNames = map[string]string{
	"Streuner":       "Streuner",
	"Boss Streuner":  "BossStreuner",
	"Uber Streuner":  "Uber Streuner",
	"Luminid":        "Lordakia",
	"Boss Luminid":   "Boss Lordakia",
	"Uber Luminid":   "Uber Lordakia",
	"Sylox":          "Saimon",
	"Boss Sylox":     "Boss Saimon",
	"Uber Sylox":     "Uber Saimon",
	"Morlok":         "Mordon",
	"Boss Morlok":    "Boss Mordon",
	"Uber Morlok":    "Uber Mordon",
	"Dreadnex":       "Devolarium",
	"Boss Dreadnex":  "Boss Devolarium",
	"Uber Dreadnex":  "Uber Devolarium",
	"Sirelon":        "Sibelon",
	"Boss Sirelon":   "Boss Sibelon",
	"Uber Sirelon":   "Uber Sibelon",
	"Sirelonit":      "Sibelonit",
	"Boss Sirelonit": "Boss Sirelonit",
	"Uber Sirelonit": "Uber Sirelonit",
	"Luminar":        "Lordakium",
	"Boss Luminar":   "Boss Lordakium",
	"Uber Luminar":   "Uber Lordakium",
	"Crylith":        "Kristallin",
	"Boss Crylith":   "Boss Kristallin",
	"Uber Crylith":   "Uber Kristallin",
	"Crylox":         "Kristallon",
	"Boss Crylox":    "Boss Kristallon",
	"Uber Crylox":    "Uber Kristallon",
	"Cuboran":        "Cubicon",
	"Proteron":       "Protegit",
	"Streun3r":       "Streun3r",
	"Boss Streun3r":  "Boss Streun3r",
	"Uber Streun3r":  "Uber Streun3r",
}

// DisplayName returns the NPC name in the requested style. Names without
// a mod equivalent are returned unchanged.
func DisplayName(npc models.NPC, style NameStyle) string {
	if style != StyleMod {
		return npc.Name
	}
	if mod, ok := modNames[npc.Name]; ok {
		return mod
	}
	return npc.Name
}

// FilterByMap keeps NPCs on mapName. An empty mapName keeps everything.
func FilterByMap(list []models.NPC, mapName string) []models.NPC {
	if mapName == "" {
		return list
	}
	var out []models.NPC
	for _, n := range list {
		if n.Map == mapName {
			out = append(out, n)
		}
	}
	return out
}

// Maps returns the distinct non-empty map names, sorted.
func Maps(list []models.NPC) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, n := range list {
		if n.Map == "" {
			continue
		}
		if _, ok := seen[n.Map]; ok {
			continue
		}
		seen[n.Map] = struct{}{}
		out = append(out, n.Map)
	}
	sort.Strings(out)
	return out
}

// Search matches term case-insensitively against the display name and the
// map name. A blank term matches everything.
func Search(list []models.NPC, term string, style NameStyle) []models.NPC {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return list
	}
	var out []models.NPC
	for _, n := range list {
		if strings.Contains(strings.ToLower(DisplayName(n, style)), term) ||
			strings.Contains(strings.ToLower(n.Map), term) {
			out = append(out, n)
		}
	}
	return out
}

// Find returns the NPC with the given id.
func Find(list []models.NPC, id string) (models.NPC, bool) {
	for _, n := range list {
		if n.ID == id {
			return n, true
		}
	}
	return models.NPC{}, false
}
