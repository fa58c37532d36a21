package present

import (
	"strings"
	"unicode/utf8"
)

const (
	// ProseLimit bounds free-text descriptions.
	ProseLimit = 50
	// CodeLimit bounds inline code-styled identifiers such as names.
	CodeLimit = 20
	// HashPrefix is how much of a hash is shown.
	HashPrefix = 10

	ellipsis = "..."
)

// Truncate cuts s to limit characters and appends an ellipsis when it cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + ellipsis
}

// Prose truncates a free-text description.
func Prose(s string) string { return Truncate(s, ProseLimit) }

// Code truncates an inline identifier.
func Code(s string) string { return Truncate(s, CodeLimit) }

// ShortAddress renders an address as its first 6 and last 4 characters.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + ellipsis + addr[len(addr)-4:]
}

// ShortHash renders a hash as its first 10 characters.
func ShortHash(hash string) string {
	if len(hash) <= HashPrefix {
		return hash
	}
	return hash[:HashPrefix] + ellipsis
}

// TxURL links a transaction on a block explorer.
func TxURL(explorerHost, txHash string) string {
	host := strings.TrimSuffix(strings.TrimPrefix(strings.TrimPrefix(explorerHost, "https://"), "http://"), "/")
	return "https://" + host + "/tx/" + txHash
}
