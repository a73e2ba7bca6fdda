package lms

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// rpcRequest is the slim.request envelope accepted by /jsonrpc.js.
type rpcRequest struct {
	ID     string `json:"id"`
	Method string `json:"method"`
	Params []any  `json:"params"`
}

// rpcResponse mirrors the server reply. Result is kept raw so each command
// can decode its own shape.
type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// GenresResponse mirrors the result of the genres list query.
type GenresResponse struct {
	Count      int         `json:"count"`
	GenresLoop []GenreItem `json:"genres_loop"`
}

// GenreItem is one entry of genres_loop.
type GenreItem struct {
	ID    FlexString `json:"id"`
	Genre string     `json:"genre"`
}

// ReadMixResponse mirrors the result of the readmix command.
type ReadMixResponse struct {
	Body string `json:"body"`
}

// MixesResponse mirrors the result of the mixes command.
type MixesResponse struct {
	Count    int        `json:"count"`
	ItemLoop []SavedMix `json:"item_loop"`
}

// SavedMix identifies a mix stored on the server.
type SavedMix struct {
	ID   FlexString `json:"id"`
	Text string     `json:"text"`
}

// Name returns the display name, falling back to the id.
func (m SavedMix) Name() string {
	if m.Text != "" {
		return m.Text
	}
	return string(m.ID)
}

// SaveResult carries the dispatched command and the raw server result so the
// caller can build a listing from it.
type SaveResult struct {
	Command []string
	Result  json.RawMessage
}

// FlexString accepts either a JSON string or a JSON number.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return err
	}
	if i, err := n.Int64(); err == nil {
		*f = FlexString(strconv.FormatInt(i, 10))
		return nil
	}
	*f = FlexString(n.String())
	return nil
}
