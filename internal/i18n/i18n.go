// Package i18n translates user-visible strings.
//
// Source strings are English and reference arguments positionally as %1, %2.
// Unknown strings and unsupported languages fall back to English.
package i18n

import (
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Translator renders source strings in one language.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

var positional = regexp.MustCompile(`%([1-9])`)

var supported = []language.Tag{language.English, language.German, language.French}

// New returns a translator for the best supported match of lang (a BCP 47
// tag such as "de" or "fr-CA").
func New(lang string) *Translator {
	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(lang)); err == nil {
		matcher := language.NewMatcher(supported)
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No {
			tag = supported[idx]
		}
	}
	return &Translator{
		tag:     tag,
		printer: message.NewPrinter(tag, message.Catalog(builtin)),
	}
}

// Language returns the matched language tag.
func (t *Translator) Language() language.Tag {
	return t.tag
}

// T translates text and substitutes positional arguments.
func (t *Translator) T(text string, args ...any) string {
	key := toPrintf(text)
	if t == nil {
		return message.NewPrinter(language.English).Sprintf(key, args...)
	}
	return t.printer.Sprintf(key, args...)
}

// toPrintf rewrites %1 style references to explicit printf indexes.
func toPrintf(text string) string {
	return positional.ReplaceAllString(text, "%[$1]v")
}

var builtin = newCatalog()

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for src, tr := range translations {
		key := toPrintf(src)
		if v, ok := tr["de"]; ok {
			_ = b.SetString(language.German, key, toPrintf(v))
		}
		if v, ok := tr["fr"]; ok {
			_ = b.SetString(language.French, key, toPrintf(v))
		}
	}
	return b
}

var translations = map[string]map[string]string{
	"Add new Smart Mix":  {"de": "Neuen Smart Mix anlegen", "fr": "Nouveau Smart Mix"},
	"Edit Smart Mix":     {"de": "Smart Mix bearbeiten", "fr": "Modifier le Smart Mix"},
	"Create Mix":         {"de": "Mix erstellen", "fr": "Créer le mix"},
	"Save":               {"de": "Speichern", "fr": "Enregistrer"},
	"Cancel":             {"de": "Abbrechen", "fr": "Annuler"},
	"Delete":             {"de": "Löschen", "fr": "Supprimer"},
	"Deleted '%1'":       {"de": "'%1' gelöscht", "fr": "'%1' supprimé"},
	"Delete '%1'?":       {"de": "'%1' löschen?", "fr": "Supprimer '%1' ?"},
	"Smart Mix":          {"de": "Smart Mix", "fr": "Smart Mix"},
	"Smart Mix: %1":      {"de": "Smart Mix: %1", "fr": "Smart Mix : %1"},
	"Name":               {"de": "Name", "fr": "Nom"},
	"Genres":             {"de": "Genres", "fr": "Genres"},
	"Attributes":         {"de": "Attribute", "fr": "Attributs"},
	"Ranges":             {"de": "Bereiche", "fr": "Plages"},
	"Duration (seconds)": {"de": "Dauer (Sekunden)", "fr": "Durée (secondes)"},
	"BPM":                {"de": "BPM", "fr": "BPM"},
	"Danceable":          {"de": "Tanzbar", "fr": "Dansant"},
	"Aggressive":         {"de": "Aggressiv", "fr": "Agressif"},
	"Electronic":         {"de": "Elektronisch", "fr": "Électronique"},
	"Acoustic":           {"de": "Akustisch", "fr": "Acoustique"},
	"Happy":              {"de": "Fröhlich", "fr": "Joyeux"},
	"Sad":                {"de": "Traurig", "fr": "Triste"},
	"Party":              {"de": "Party", "fr": "Fête"},
	"Relaxed":            {"de": "Entspannt", "fr": "Détendu"},
	"Dark":               {"de": "Düster", "fr": "Sombre"},
	"Tonal":              {"de": "Tonal", "fr": "Tonal"},
	"Voice":              {"de": "Gesang", "fr": "Voix"},
	"Nothing to save":    {"de": "Nichts zu speichern", "fr": "Rien à enregistrer"},
	"All":                {"de": "Alle", "fr": "Tous"},
	"Min":                {"de": "Min", "fr": "Min"},
	"Max":                {"de": "Max", "fr": "Max"},
	"Saving...":          {"de": "Speichern...", "fr": "Enregistrement..."},
	"Loading...":         {"de": "Laden...", "fr": "Chargement..."},
	"Saved mixes":        {"de": "Gespeicherte Mixe", "fr": "Mix enregistrés"},
	"No saved mixes":     {"de": "Keine gespeicherten Mixe", "fr": "Aucun mix enregistré"},
	"Any":                {"de": "Egal", "fr": "Peu importe"},
	"Yes":                {"de": "Ja", "fr": "Oui"},
	"No":                 {"de": "Nein", "fr": "Non"},
}
