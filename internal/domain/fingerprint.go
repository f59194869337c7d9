package domain

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Fingerprints are deterministic serializations used only for cheap
// change detection between sync ticks. They are never stored remotely and
// never parsed back.

// DraftFingerprint serializes the (createdAt, content) pairs of a list,
// newest first. Two lists with the same pairs produce the same string.
func DraftFingerprint(list DraftList) string {
	sorted := list.Sorted()
	var b strings.Builder
	for _, d := range sorted {
		b.WriteString(strconv.FormatInt(d.CreatedAt, 10))
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(len(d.Content)))
		b.WriteByte(':')
		b.WriteString(d.Content)
		b.WriteByte('\n')
	}
	return b.String()
}

// PositionFingerprint serializes a position set. Field order of a Go
// struct marshal is fixed, so equal sets produce equal strings.
func PositionFingerprint(set *UIPositionSet) string {
	if set == nil {
		return ""
	}
	data, err := json.Marshal(set)
	if err != nil {
		return ""
	}
	return string(data)
}
