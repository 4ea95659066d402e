package model

import (
	"crypto/rand"
	"encoding/base32"
	"strings"
)

const (
	PrefixRow   = "row"
	PrefixCell  = "cell"
	PrefixBlock = "blk"
)

// NewID returns prefix-<suffix> where suffix is 10 chars of base32 (lowercase, no padding).
// 10 chars base32 ~= 50 bits of space.
func NewID(prefix string) string {
	var b [7]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand does not fail on supported platforms.
		panic(err)
	}
	enc := base32.StdEncoding.WithPadding(base32.NoPadding)
	suffix := strings.ToLower(enc.EncodeToString(b[:]))
	return prefix + "-" + suffix[:10]
}

// FreshID returns a new id that is not in taken, and records it there.
func FreshID(prefix string, taken map[string]bool) string {
	for {
		id := NewID(prefix)
		if taken == nil {
			return id
		}
		if !taken[id] {
			taken[id] = true
			return id
		}
	}
}

// KindOfID guesses the node kind from an id prefix. Only used for display and CLI shortcuts.
func KindOfID(id string) string {
	id = strings.TrimSpace(id)
	switch {
	case strings.HasPrefix(id, PrefixRow+"-"):
		return "row"
	case strings.HasPrefix(id, PrefixCell+"-"):
		return "cell"
	case strings.HasPrefix(id, PrefixBlock+"-"):
		return "block"
	default:
		return ""
	}
}
