package mix

import (
	"fmt"
	"strconv"
	"strings"
)

// TriState is the filter state of a high-level attribute.
type TriState int

const (
	Unset   TriState = -1
	Absent  TriState = 0
	Present TriState = 1
)

// Next rotates Unset -> Present -> Absent -> Unset.
func (t TriState) Next() TriState {
	switch t {
	case Unset:
		return Present
	case Present:
		return Absent
	default:
		return Unset
	}
}

// String returns a short display label.
func (t TriState) String() string {
	switch t {
	case Present:
		return "yes"
	case Absent:
		return "no"
	case Unset:
		return "any"
	default:
		return fmt.Sprintf("TriState(%d)", int(t))
	}
}

// wireValue returns the MixDefinition value for t, or false when t is not filtered.
func (t TriState) wireValue() (string, bool) {
	switch t {
	case Present:
		return "y", true
	case Absent:
		return "n", true
	default:
		return "", false
	}
}

// RangeFilter bounds a numeric track property. Zero means unconstrained.
type RangeFilter struct {
	Key   string
	Label string
	Min   int
	Max   int
}

// Attribute is a high-level track attribute with a tri-state filter.
type Attribute struct {
	Key   string
	Label string
	Val   TriState
}

// Translator renders a user-visible string. Positional arguments are
// referenced as %1, %2, ...
type Translator func(text string, args ...any) string

// Untranslated substitutes positional arguments into text without
// translating it.
func Untranslated(text string, args ...any) string {
	if len(args) == 0 {
		return text
	}
	pairs := make([]string, 0, 2*len(args))
	for i := len(args); i >= 1; i-- {
		pairs = append(pairs, "%"+strconv.Itoa(i), fmt.Sprint(args[i-1]))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// FormatText is the value of the "format" member of every definition.
const FormatText = "text"

var rangeTemplate = []struct{ key, label string }{
	{"duration", "Duration (seconds)"},
	{"bpm", "BPM"},
}

var attributeTemplate = []struct{ key, label string }{
	{"danceable", "Danceable"},
	{"aggressive", "Aggressive"},
	{"electronic", "Electronic"},
	{"acoustic", "Acoustic"},
	{"happy", "Happy"},
	{"sad", "Sad"},
	{"party", "Party"},
	{"relaxed", "Relaxed"},
	{"dark", "Dark"},
	{"tonal", "Tonal"},
	{"voice", "Voice"},
}

// RangeKeys lists the recognised range filter keys in display order.
func RangeKeys() []string {
	keys := make([]string, len(rangeTemplate))
	for i, r := range rangeTemplate {
		keys[i] = r.key
	}
	return keys
}

// AttributeKeys lists the recognised attribute keys in display order.
func AttributeKeys() []string {
	keys := make([]string, len(attributeTemplate))
	for i, a := range attributeTemplate {
		keys[i] = a.key
	}
	return keys
}

// DefaultRanges returns the range filter template with zero bounds.
// A nil translator leaves labels untranslated.
func DefaultRanges(tr Translator) []RangeFilter {
	out := make([]RangeFilter, len(rangeTemplate))
	for i, r := range rangeTemplate {
		out[i] = RangeFilter{Key: r.key, Label: translate(tr, r.label)}
	}
	return out
}

// DefaultAttributes returns the attribute template with every value Unset.
func DefaultAttributes(tr Translator) []Attribute {
	out := make([]Attribute, len(attributeTemplate))
	for i, a := range attributeTemplate {
		out[i] = Attribute{Key: a.key, Label: translate(tr, a.label), Val: Unset}
	}
	return out
}

func translate(tr Translator, text string) string {
	if tr == nil {
		return text
	}
	return tr(text)
}
