// Package cursor holds the mailbox history cursor and the credential metadata
// blob it is persisted in. Gmail history ids are decimal strings that can
// exceed uint64, so ordering is done with big.Int.
package cursor

import (
	"encoding/json"
	"math/big"
	"strconv"
)

// Value is one position in the mailbox change history. The zero value means
// "no cursor stored yet".
type Value string

func (v Value) IsZero() bool {
	return v == ""
}

func (v Value) String() string {
	return string(v)
}

// Uint64 converts the cursor for the Gmail API boundary, which takes a
// fixed-width start history id.
func (v Value) Uint64() (uint64, bool) {
	if v.IsZero() {
		return 0, false
	}
	parsed, err := strconv.ParseUint(string(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// Merge returns the later of the two cursors under arbitrary-precision
// ordering. An empty side loses; a side that does not parse as an integer
// loses to one that does.
func Merge(a, b Value) Value {
	if a.IsZero() {
		return b
	}
	if b.IsZero() {
		return a
	}

	ai, aok := new(big.Int).SetString(string(a), 10)
	bi, bok := new(big.Int).SetString(string(b), 10)
	switch {
	case aok && bok:
		if bi.Cmp(ai) > 0 {
			return b
		}
		return a
	case aok:
		return a
	default:
		return b
	}
}

// Metadata is the opaque JSON blob stored on a GmailCredential. Unknown keys
// written by earlier versions are carried through untouched.
type Metadata struct {
	HistoryID     Value
	LastHistoryID Value
	MessagesTotal int64
	ThreadsTotal  int64

	extra map[string]json.RawMessage
}

// ParseMetadata decodes a stored blob. Malformed input yields empty metadata
// rather than an error; the synchronizer treats that as a first run.
func ParseMetadata(raw string) Metadata {
	var meta Metadata
	if raw == "" {
		return meta
	}

	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return Metadata{}
	}

	meta.HistoryID = Value(stringField(fields, "historyId"))
	meta.LastHistoryID = Value(stringField(fields, "lastHistoryId"))
	meta.MessagesTotal = intField(fields, "messagesTotal")
	meta.ThreadsTotal = intField(fields, "threadsTotal")

	delete(fields, "historyId")
	delete(fields, "lastHistoryId")
	delete(fields, "messagesTotal")
	delete(fields, "threadsTotal")
	if len(fields) > 0 {
		meta.extra = fields
	}

	return meta
}

// ResumePoint is the authoritative cursor to resume sync from.
func (m Metadata) ResumePoint() Value {
	if !m.LastHistoryID.IsZero() {
		return m.LastHistoryID
	}
	return m.HistoryID
}

// Encode serializes the blob for storage.
func (m Metadata) Encode() (string, error) {
	fields := map[string]json.RawMessage{}
	for k, v := range m.extra {
		fields[k] = v
	}

	put := func(key string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return err
		}
		fields[key] = encoded
		return nil
	}

	if err := put("historyId", m.HistoryID.String()); err != nil {
		return "", err
	}
	if err := put("lastHistoryId", m.LastHistoryID.String()); err != nil {
		return "", err
	}
	if err := put("messagesTotal", m.MessagesTotal); err != nil {
		return "", err
	}
	if err := put("threadsTotal", m.ThreadsTotal); err != nil {
		return "", err
	}

	encoded, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return value
}

func intField(fields map[string]json.RawMessage, key string) int64 {
	raw, ok := fields[key]
	if !ok {
		return 0
	}
	var value int64
	if err := json.Unmarshal(raw, &value); err != nil {
		return 0
	}
	return value
}
