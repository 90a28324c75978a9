package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/veriscript/veriscript/internal/cache"
	"github.com/veriscript/veriscript/internal/extract"
	"github.com/veriscript/veriscript/internal/model"
)

// EvidenceService runs extraction with caching around it. The cache key is
// derived from the canonical transcript hash and the content mode, so a
// changed transcript or mode always re-extracts.
type EvidenceService struct {
	extractor *extract.Extractor
	store     cache.Cache
	ttl       time.Duration
	mode      model.ContentMode
}

// NewEvidenceService wraps an extractor; store may be nil to disable
// caching.
func NewEvidenceService(extractor *extract.Extractor, store cache.Cache, cfg *model.Config) *EvidenceService {
	return &EvidenceService{
		extractor: extractor,
		store:     store,
		ttl:       cfg.Cache.DiskTTL,
		mode:      cfg.Extraction.ContentMode,
	}
}

// Evidence returns the evidence map for a plan and transcript, served from
// cache when possible. The bool reports a cache hit. Degradation errors from
// partial extractions are returned alongside the map.
func (s *EvidenceService) Evidence(ctx context.Context, plan *extract.Plan, transcript model.CanonicalTranscript) (*model.EvidenceMap, []error, bool, error) {
	key := cache.EvidenceKey(transcript.Hash, string(s.mode))

	if s.store != nil {
		if data, ok := s.store.Get(key); ok {
			var em model.EvidenceMap
			if err := json.Unmarshal(data, &em); err == nil && em.TranscriptHash == transcript.Hash {
				return &em, nil, true, nil
			}
			// Corrupt or stale entry: drop it and re-extract.
			_ = s.store.Delete(key)
		}
	}

	em, degraded := s.extractor.Extract(ctx, plan, transcript, s.mode)
	if em == nil {
		return nil, degraded, false, fmt.Errorf("extraction produced no evidence map")
	}

	// Only fully successful extractions are cached; a degraded map would
	// otherwise pin its gaps until the TTL expires.
	if s.store != nil && len(degraded) == 0 {
		if data, err := json.Marshal(em); err == nil {
			_ = s.store.Set(key, data, s.ttl)
		}
	}

	return em, degraded, false, nil
}
