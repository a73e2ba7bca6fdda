package logtail

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Entry is one parsed log record.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	Fields  map[string]string
	Raw     string
}

// Parse decodes a zerolog JSON line. Lines that are not JSON objects are
// returned with only Raw and Message set.
func Parse(line string) Entry {
	e := Entry{Raw: line, Message: line}

	var rec map[string]json.RawMessage
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		return e
	}

	e.Message = ""
	for key, raw := range rec {
		switch key {
		case "time":
			e.Time = parseTime(raw)
		case "level":
			e.Level = strings.ToLower(rawText(raw))
		case "message":
			e.Message = rawText(raw)
		default:
			if e.Fields == nil {
				e.Fields = make(map[string]string)
			}
			e.Fields[key] = rawText(raw)
		}
	}
	return e
}

// FieldString renders the extra fields as sorted key=value pairs.
func (e Entry) FieldString() string {
	if len(e.Fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + e.Fields[k]
	}
	return strings.Join(parts, " ")
}

// String renders the entry on one line.
func (e Entry) String() string {
	var b strings.Builder
	if !e.Time.IsZero() {
		b.WriteString(e.Time.Local().Format("15:04:05"))
		b.WriteByte(' ')
	}
	if e.Level != "" {
		fmt.Fprintf(&b, "%-5s ", strings.ToUpper(e.Level))
	}
	b.WriteString(e.Message)
	if f := e.FieldString(); f != "" {
		b.WriteByte(' ')
		b.WriteString(f)
	}
	return b.String()
}

func rawText(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func parseTime(raw json.RawMessage) time.Time {
	var secs float64
	if err := json.Unmarshal(raw, &secs); err == nil {
		whole := int64(secs)
		return time.Unix(whole, int64((secs-float64(whole))*1e9))
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
