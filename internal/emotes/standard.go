package emotes

import (
	"strconv"
	"strings"

	"github.com/keshon/server-herald/internal/storage"
	"github.com/keshon/server-herald/internal/transport"
)

// noUnicode marks a table row whose emote has no standard Unicode form.
const noUnicode = "X"

// StandardTable maps platform emote names (e.g. "grinning") to Unicode emoji.
type StandardTable struct {
	byName map[string]string
}

// LoadStandard reads a name,codepoint table. A missing file yields an empty
// table together with the storage error so the caller can warn about it.
func LoadStandard(path string) (*StandardTable, error) {
	lines, err := storage.ReadLines(path, false)
	if err != nil {
		return ParseStandard(nil), err
	}
	return ParseStandard(lines), nil
}

// ParseStandard builds a table from "name,codepoint" rows. Codepoints are hex and
// may be a sequence joined by '-' or ' ' (e.g. "1F1FA-1F1F8"). Rows marked X,
// rows with fewer than two fields and rows with bad hex are skipped. The first
// row for a name wins.
func ParseStandard(lines []storage.Line) *StandardTable {
	t := &StandardTable{byName: make(map[string]string, len(lines))}
	for _, line := range lines {
		fields := strings.Split(line.Text, ",")
		if len(fields) < 2 {
			continue
		}
		name, code := strings.TrimSpace(fields[0]), strings.TrimSpace(fields[1])
		if name == "" || code == noUnicode {
			continue
		}
		emoji, ok := decodeCodepoints(code)
		if !ok {
			continue
		}
		if _, dup := t.byName[name]; !dup {
			t.byName[name] = emoji
		}
	}
	return t
}

// Lookup returns the Unicode emote for name.
func (t *StandardTable) Lookup(name string) (transport.Emote, bool) {
	if t == nil {
		return transport.Emote{}, false
	}
	emoji, ok := t.byName[name]
	if !ok {
		return transport.Emote{}, false
	}
	return transport.Emote{Name: emoji}, true
}

func (t *StandardTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.byName)
}

func decodeCodepoints(code string) (string, bool) {
	parts := strings.FieldsFunc(code, func(r rune) bool { return r == '-' || r == ' ' })
	if len(parts) == 0 {
		return "", false
	}
	var b strings.Builder
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 16, 32)
		if err != nil || n > 0x10FFFF {
			return "", false
		}
		b.WriteRune(rune(n))
	}
	return b.String(), true
}
