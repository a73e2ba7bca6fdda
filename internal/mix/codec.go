package mix

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Definition is the decoded wire form of a saved mix. Unknown members are
// kept so callers can inspect them, but only known keys are interpreted.
type Definition map[string]any

// ErrNotObject is returned when a stored body is valid JSON but not an object.
var ErrNotObject = errors.New("mix body is not a JSON object")

// Criteria is the in-memory filter set of a mix.
type Criteria struct {
	Ranges     []RangeFilter
	Attributes []Attribute
	Genres     []string
}

// NewCriteria returns the default, unfiltered criteria.
func NewCriteria(tr Translator) Criteria {
	return Criteria{
		Ranges:     DefaultRanges(tr),
		Attributes: DefaultAttributes(tr),
	}
}

// Build returns the definition for c and whether any filter is set.
func (c Criteria) Build() (Definition, bool) {
	def := Definition{"format": FormatText}
	valid := false
	for _, r := range c.Ranges {
		if r.Min > 0 {
			def["min"+r.Key] = r.Min
			valid = true
		}
		if r.Max > 0 {
			def["max"+r.Key] = r.Max
			valid = true
		}
	}
	for _, a := range c.Attributes {
		if v, ok := a.Val.wireValue(); ok {
			def[a.Key] = v
			valid = true
		}
	}
	if len(c.Genres) > 0 {
		genres := make([]string, len(c.Genres))
		copy(genres, c.Genres)
		def["genre"] = genres
		valid = true
	}
	return def, valid
}

// Encode serializes c as a MixDefinition. The boolean is false when no field
// beyond "format" would be written, in which case there is nothing to save.
func (c Criteria) Encode() (string, bool) {
	def, ok := c.Build()
	if !ok {
		return "", false
	}
	data, err := json.Marshal(def)
	if err != nil {
		// Definition only holds strings, ints and string slices.
		return "", false
	}
	return string(data), true
}

// Decode overwrites the ranges, attributes and genre selection of c from def.
// Bounds and attributes missing from def are reset to their defaults. Genres
// are kept only when present in vocabulary, in vocabulary order.
func (c *Criteria) Decode(def Definition, vocabulary []string) {
	for i := range c.Ranges {
		key := c.Ranges[i].Key
		c.Ranges[i].Min = intMember(def, "min"+key)
		c.Ranges[i].Max = intMember(def, "max"+key)
	}
	for i := range c.Attributes {
		c.Attributes[i].Val = triStateMember(def, c.Attributes[i].Key)
	}
	c.Genres = filterGenres(stringsMember(def, "genre"), vocabulary)
}

// ParseDefinition decodes a stored mix body.
func ParseDefinition(body string) (Definition, error) {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return nil, fmt.Errorf("parse mix body: empty")
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse mix body: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse mix body: trailing data after definition")
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return Definition(obj), nil
}

func intMember(def Definition, key string) int {
	value, ok := def[key]
	if !ok {
		return 0
	}
	n, ok := toInt(value)
	if !ok || n < 0 {
		return 0
	}
	return n
}

// triStateMember reads an attribute value. Strings "y"/"n" are the current
// encoding; integers 1..100 are from the older slider encoding where values
// above 50 required the attribute and values below 50 excluded it.
func triStateMember(def Definition, key string) TriState {
	value, ok := def[key]
	if !ok {
		return Unset
	}
	if s, ok := value.(string); ok {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "y":
			return Present
		case "n":
			return Absent
		}
	}
	n, ok := toInt(value)
	switch {
	case !ok || n <= 0 || n == 50:
		return Unset
	case n > 50:
		return Present
	default:
		return Absent
	}
}

func stringsMember(def Definition, key string) []string {
	switch v := def[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	default:
		return nil
	}
}

func filterGenres(names, vocabulary []string) []string {
	if len(names) == 0 || len(vocabulary) == 0 {
		return nil
	}
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}
	var out []string
	for _, g := range vocabulary {
		if _, ok := wanted[g]; ok {
			out = append(out, g)
			delete(wanted, g)
		}
	}
	return out
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n), true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return int(f), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}
