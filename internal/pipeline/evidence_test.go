package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/veriscript/veriscript/internal/cache"
	"github.com/veriscript/veriscript/internal/canon"
	"github.com/veriscript/veriscript/internal/extract"
	"github.com/veriscript/veriscript/internal/llm"
	"github.com/veriscript/veriscript/internal/model"
)

const evidenceResponse = `{"claims":[{"claim":"Problems are soluble","claim_type":"position","confidence":0.9,"quotes":[{"quote":"Problems are soluble.","speaker":"GUEST"}]}]}`

func evidenceFixture() (*extract.Plan, model.CanonicalTranscript) {
	plan := &extract.Plan{
		ProjectID: "test",
		Chapters:  []extract.ChapterPlan{{Index: 1, Title: "Soluble Problems"}},
	}
	ct := canon.Freeze("Problems are soluble. A good explanation is hard to vary.")
	return plan, ct
}

func newEvidenceService(provider llm.Provider, store cache.Cache) *EvidenceService {
	cfg := model.DefaultConfig()
	extractor := extract.NewExtractor(provider, nil, cfg.Extraction)
	return NewEvidenceService(extractor, store, cfg)
}

func TestEvidence_CacheRoundTrip(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{evidenceResponse, evidenceResponse}}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	svc := newEvidenceService(mock, store)
	plan, ct := evidenceFixture()

	first, degraded, cached, err := svc.Evidence(context.Background(), plan, ct)
	if err != nil || len(degraded) != 0 {
		t.Fatalf("first call: err=%v degraded=%v", err, degraded)
	}
	if cached {
		t.Fatal("first call must be a cache miss")
	}
	if len(first.Chapters) != 1 || len(first.Chapters[0].Claims) != 1 {
		t.Fatalf("unexpected evidence map: %+v", first)
	}

	second, _, cached, err := svc.Evidence(context.Background(), plan, ct)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !cached {
		t.Fatal("second call must hit the cache")
	}
	if second.TranscriptHash != first.TranscriptHash {
		t.Error("cached map must pin the same transcript hash")
	}
	if len(mock.Calls) != 1 {
		t.Errorf("provider called %d times, want 1", len(mock.Calls))
	}
}

func TestEvidence_DegradedExtractionNotCached(t *testing.T) {
	mock := &llm.MockProvider{Err: errors.New("provider down")}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	svc := newEvidenceService(mock, store)
	plan, ct := evidenceFixture()

	em, degraded, cached, err := svc.Evidence(context.Background(), plan, ct)
	if err != nil {
		t.Fatalf("degradation must not be a hard error: %v", err)
	}
	if cached || len(degraded) != 1 {
		t.Fatalf("cached=%v degraded=%v", cached, degraded)
	}
	if len(em.Chapters[0].Claims) != 0 {
		t.Error("failed chapter must degrade to empty evidence")
	}

	key := cache.EvidenceKey(ct.Hash, string(model.ModeInterview))
	if _, ok := store.Get(key); ok {
		t.Error("degraded map must not be cached")
	}
}

func TestEvidence_CorruptCacheEntryIsReplaced(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{evidenceResponse}}
	store := cache.NewMemoryCache(time.Minute, time.Minute)
	svc := newEvidenceService(mock, store)
	plan, ct := evidenceFixture()

	key := cache.EvidenceKey(ct.Hash, string(model.ModeInterview))
	_ = store.Set(key, []byte("not json"), time.Minute)

	em, _, cached, err := svc.Evidence(context.Background(), plan, ct)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatal("corrupt entry must not count as a hit")
	}
	if em.TranscriptHash != ct.Hash {
		t.Error("re-extracted map must carry the transcript hash")
	}
}

func TestEvidence_NilStoreDisablesCaching(t *testing.T) {
	mock := &llm.MockProvider{Responses: []string{evidenceResponse, evidenceResponse}}
	svc := newEvidenceService(mock, nil)
	plan, ct := evidenceFixture()

	for i := 0; i < 2; i++ {
		_, _, cached, err := svc.Evidence(context.Background(), plan, ct)
		if err != nil || cached {
			t.Fatalf("call %d: err=%v cached=%v", i, err, cached)
		}
	}
	if len(mock.Calls) != 2 {
		t.Errorf("provider called %d times, want 2", len(mock.Calls))
	}
}
