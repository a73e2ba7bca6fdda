// Package browse turns command results into listing payloads.
//
// Menu-formatted results (menu:1) carry an item_loop whose entries have a
// "text" of the form "title\nsubtitle". Plain track results carry a
// titles_loop instead. Both are reduced to the same Payload.
package browse

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Item is one row of a listing.
type Item struct {
	ID       string
	Title    string
	Subtitle string
	URL      string
	Icon     string
	Type     string
}

// Payload is a parsed listing.
type Payload struct {
	Title string
	Count int
	Items []Item
}

type menuResult struct {
	Count      json.Number `json:"count"`
	Title      string      `json:"title"`
	ItemLoop   []menuItem  `json:"item_loop"`
	TitlesLoop []trackItem `json:"titles_loop"`
}

type menuItem struct {
	ID     json.RawMessage `json:"id"`
	Text   string          `json:"text"`
	Type   string          `json:"type"`
	Icon   string          `json:"icon"`
	IconID json.RawMessage `json:"icon-id"`
	URL    string          `json:"url"`
	Params map[string]any  `json:"params"`
}

type trackItem struct {
	ID     json.RawMessage `json:"id"`
	Title  string          `json:"title"`
	Artist string          `json:"artist"`
	Album  string          `json:"album"`
	URL    string          `json:"url"`
}

// Parse decodes raw into a Payload. An empty or null result yields an empty
// payload.
func Parse(raw json.RawMessage) (Payload, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return Payload{}, nil
	}
	var res menuResult
	if err := json.Unmarshal([]byte(trimmed), &res); err != nil {
		return Payload{}, fmt.Errorf("parse listing: %w", err)
	}

	out := Payload{Title: res.Title}
	for _, it := range res.ItemLoop {
		out.Items = append(out.Items, fromMenu(it))
	}
	for _, tr := range res.TitlesLoop {
		out.Items = append(out.Items, fromTrack(tr))
	}

	out.Count = len(out.Items)
	if n, err := res.Count.Int64(); err == nil && int(n) > out.Count {
		out.Count = int(n)
	}
	return out, nil
}

func fromMenu(it menuItem) Item {
	title, subtitle, _ := strings.Cut(it.Text, "\n")
	item := Item{
		ID:       rawString(it.ID),
		Title:    strings.TrimSpace(title),
		Subtitle: strings.TrimSpace(subtitle),
		URL:      it.URL,
		Icon:     it.Icon,
		Type:     it.Type,
	}
	if item.ID == "" {
		for _, key := range []string{"track_id", "item_id", "id"} {
			if v, ok := it.Params[key]; ok {
				item.ID = anyString(v)
				break
			}
		}
	}
	if item.Icon == "" {
		if id := rawString(it.IconID); id != "" {
			item.Icon = "/music/" + id + "/cover"
		}
	}
	return item
}

func fromTrack(tr trackItem) Item {
	subtitle := tr.Artist
	if tr.Album != "" {
		if subtitle != "" {
			subtitle += " • "
		}
		subtitle += tr.Album
	}
	return Item{
		ID:       rawString(tr.ID),
		Title:    tr.Title,
		Subtitle: subtitle,
		URL:      tr.URL,
		Type:     "track",
	}
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	return anyString(v)
}

func anyString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}
