package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const maxFilenameLen = 100

// HashBytes returns the SHA-256 digest of content as a hex string.
// Used as a dedup fingerprint for uploaded files.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// SanitizeFilename makes a filename safe for object storage paths:
// unsafe characters become underscores, surrounding spaces and dots
// are stripped, empty results become "untitled", and the total length
// is capped at 100 while keeping the extension.
func SanitizeFilename(name string) string {
	sanitized := name
	for _, ch := range `<>:"/\|?*` {
		sanitized = strings.ReplaceAll(sanitized, string(ch), "_")
	}
	sanitized = strings.Trim(sanitized, " .")
	if sanitized == "" {
		return "untitled"
	}
	// Length is counted in runes so multibyte names are never cut
	// mid-character.
	if utf8.RuneCountInString(sanitized) > maxFilenameLen {
		ext := filepath.Ext(sanitized)
		extLen := utf8.RuneCountInString(ext)
		if extLen >= maxFilenameLen {
			ext = ""
			extLen = 0
		}
		base := []rune(strings.TrimSuffix(sanitized, ext))
		keep := maxFilenameLen - extLen
		if keep > len(base) {
			keep = len(base)
		}
		sanitized = string(base[:keep]) + ext
	}
	return sanitized
}

// FormatSize renders a byte count with the largest unit among
// B/KB/MB/GB keeping the value below 1024, one decimal place.
// Zero is special-cased as "0 B".
func FormatSize(sizeBytes int64) string {
	if sizeBytes == 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	size := float64(sizeBytes)
	i := 0
	for size >= 1024.0 && i < len(units)-1 {
		size /= 1024.0
		i++
	}
	return fmt.Sprintf("%.1f %s", size, units[i])
}
