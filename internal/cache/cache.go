// Package cache stores evidence maps between runs. Extraction is the only
// expensive, non-deterministic step in the system (it calls the generation
// service), so its output is cached keyed by the canonical transcript hash
// and content mode. Validation reports are never cached: validation logic
// evolves, reports are recomputed every run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EvidenceKey generates the cache key for an evidence map. The transcript
// hash already pins the canonical text; the mode is mixed in because
// extraction prompts differ per content mode.
func EvidenceKey(transcriptHash string, mode string) string {
	sum := sha256.Sum256([]byte(transcriptHash + ":" + mode))
	return "veriscript:evidence:v1:" + hex.EncodeToString(sum[:])
}
