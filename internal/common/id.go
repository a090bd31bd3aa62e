package common

import (
	"crypto/md5"
	"encoding/hex"

	"github.com/google/uuid"
)

// NewChatEntryID generates a unique chat entry ID with the "chat_" prefix
// Format: chat_<uuid>
func NewChatEntryID() string {
	return "chat_" + uuid.New().String()
}

// URLHash returns the MD5 hex digest of a URL. Used as the per-source index
// directory name, so the same URL always maps to the same on-disk path.
func URLHash(url string) string {
	sum := md5.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// ImageFilenameStem returns the cache filename stem for an image:
// the first 10 hex chars of the source URL hash joined with the first
// 8 hex chars of the image URL hash.
func ImageFilenameStem(sourceURL, imageURL string) string {
	return URLHash(sourceURL)[:10] + "_" + URLHash(imageURL)[:8]
}
