package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Fingerprint derives the deterministic identity string for an alert event.
// Two events with the same fingerprint represent the same underlying alert
// condition. Only stable identity fields contribute: source and source_id,
// or title, source and labels when source_id is absent. Severity, status,
// description and annotations never affect the fingerprint.
func Fingerprint(e *AlertEvent) string {
	var b strings.Builder
	b.WriteString(e.Source)
	b.WriteByte(0)

	if e.SourceID != "" {
		b.WriteString(e.SourceID)
	} else {
		b.WriteString(e.Title)
		b.WriteByte(0)
		for _, k := range sortedKeys(e.Labels) {
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(e.Labels[k])
			b.WriteByte(0)
		}
	}

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:16])
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
