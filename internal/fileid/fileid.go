// Package fileid provides a deterministic document ID for Telegram files.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const prefix = "tg:"

// DocID returns a stable document ID for a Telegram file_unique_id. The same file
// posted twice, even in different chats, yields the same ID, so re-indexing updates
// the existing record. IDs are 35 bytes, within Telegram's 64-byte inline result ID limit.
func DocID(fileUniqueID string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(fileUniqueID)))
	return prefix + hex.EncodeToString(hash[:16])
}
