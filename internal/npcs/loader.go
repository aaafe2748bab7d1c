// Package npcs loads the read-only NPC catalog and provides the lookups the
// farming guide and the NPC wiki need: display names, map filters and
// search.
package npcs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nzvengeance/aces-companion/internal/models"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Diagnostic explains why a record was skipped.
type Diagnostic struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

func (d Diagnostic) String() string {
	if d.Index < 0 {
		return d.Reason
	}
	return fmt.Sprintf("record %d: %s", d.Index, d.Reason)
}

// Parse decodes a JSON array of NPC records. Records without an id or name
// are skipped and reported; optional fields default to zero. The result
// keeps input order and is never nil.
func Parse(data []byte) ([]models.NPC, []Diagnostic) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw []any
	if err := dec.Decode(&raw); err != nil {
		return []models.NPC{}, []Diagnostic{{Index: -1, Reason: "invalid catalog document: " + err.Error()}}
	}
	return fromRecords(raw)
}

// ParseYAML is Parse for a YAML sequence of records.
func ParseYAML(data []byte) ([]models.NPC, []Diagnostic) {
	var raw []any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return []models.NPC{}, []Diagnostic{{Index: -1, Reason: "invalid catalog document: " + err.Error()}}
	}
	return fromRecords(raw)
}

// ParseFile picks the decoder from the file extension.
func ParseFile(name string, data []byte) ([]models.NPC, []Diagnostic) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Parse(data)
	}
}

// LoadFile reads the catalog at path. A missing or unreadable file yields
// an empty catalog; the problem is logged, not returned.
func LoadFile(path string) []models.NPC {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info().Str("path", path).Msg("npc catalog not found, starting with empty catalog")
		} else {
			log.Error().Err(err).Str("path", path).Msg("failed to read npc catalog")
		}
		return []models.NPC{}
	}

	list, diags := ParseFile(path, data)
	for _, d := range diags {
		log.Warn().Str("path", path).Int("index", d.Index).Str("reason", d.Reason).Msg("skipping npc record")
	}
	log.Info().Str("path", path).Int("count", len(list)).Int("skipped", len(diags)).Msg("npc catalog loaded")
	return list
}

func fromRecords(raw []any) ([]models.NPC, []Diagnostic) {
	list := make([]models.NPC, 0, len(raw))
	var diags []Diagnostic

	for i, entry := range raw {
		rec, ok := entry.(map[string]any)
		if !ok {
			diags = append(diags, Diagnostic{Index: i, Reason: "record is not an object"})
			continue
		}
		id, ok := text(rec["id"])
		if !ok {
			diags = append(diags, Diagnostic{Index: i, Reason: "missing id"})
			continue
		}
		name, ok := text(rec["name"])
		if !ok {
			diags = append(diags, Diagnostic{Index: i, Reason: "missing name"})
			continue
		}
		mapName, _ := text(rec["map"])

		list = append(list, models.NPC{
			ID:            id,
			Name:          name,
			Map:           mapName,
			Health:        amount(rec["health"]),
			Shields:       amount(rec["shields"]),
			RewardURI:     amount(rec["reward_uri"]),
			RewardCredits: amount(rec["reward_credits"]),
		})
	}
	return list, diags
}

// text accepts strings and numbers.
func text(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	default:
		return "", false
	}
}

// amount coerces an integer-like value. Fractions are truncated; anything
// that is not a number or an integer string is 0.
func amount(v any) int64 {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return truncate(f)
		}
	case int:
		return int64(t)
	case int64:
		return t
	case uint64:
		if t <= math.MaxInt64 {
			return int64(t)
		}
	case float64:
		return truncate(t)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func truncate(f float64) int64 {
	if math.IsNaN(f) || f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int64(f)
}
