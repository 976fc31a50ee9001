package marketdata

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"
)

// Provider fetches quotes for a valuation date. Identifiers without a quote are left out of the
// returned snapshot; the caller decides whether that is a failure.
type Provider interface {
	Fetch(ctx context.Context, valuation time.Time, ids []ExternalID) (Snapshot, error)
}

// StaticProvider serves one fixed snapshot regardless of valuation date.
type StaticProvider struct {
	quotes Snapshot
}

// NewStaticProvider copies quotes into a provider.
func NewStaticProvider(quotes Snapshot) *StaticProvider {
	cp := make(Snapshot, len(quotes))
	for k, v := range quotes {
		cp[k] = v
	}
	return &StaticProvider{quotes: cp}
}

func (p *StaticProvider) Fetch(_ context.Context, _ time.Time, ids []ExternalID) (Snapshot, error) {
	return p.quotes.Subset(ids), nil
}

// snapshotFile is the YAML layout of a quote snapshot:
//
//	valuation_date: 2024-03-15
//	quotes:
//	  TICKER~USDSOFR1M: 0.0531
type snapshotFile struct {
	ValuationDate string             `yaml:"valuation_date"`
	Quotes        map[string]float64 `yaml:"quotes"`
}

// LoadSnapshot decodes a YAML quote snapshot. The valuation date is zero when absent.
func LoadSnapshot(r io.Reader) (time.Time, Snapshot, error) {
	var f snapshotFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return time.Time{}, nil, fmt.Errorf("LoadSnapshot: decode: %w", err)
	}
	var valuation time.Time
	if f.ValuationDate != "" {
		t, err := time.Parse(time.DateOnly, f.ValuationDate)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("LoadSnapshot: valuation_date: %w", err)
		}
		valuation = t
	}
	snap := make(Snapshot, len(f.Quotes))
	for k, v := range f.Quotes {
		id, err := ParseID(k)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("LoadSnapshot: %w", err)
		}
		snap[id] = v
	}
	return valuation, snap, nil
}

// LoadSnapshotFile is LoadSnapshot over a file path.
func LoadSnapshotFile(path string) (time.Time, Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("LoadSnapshotFile: %w", err)
	}
	defer f.Close()
	return LoadSnapshot(f)
}

// CachedProvider memoizes quotes per valuation date and identifier in front of another provider.
// Missing quotes are not cached so a later fetch can pick them up.
type CachedProvider struct {
	next  Provider
	cache *cache.Cache
}

// NewCachedProvider wraps next with a cache whose entries live for ttl.
func NewCachedProvider(next Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		next:  next,
		cache: cache.New(ttl, 2*ttl),
	}
}

func (p *CachedProvider) Fetch(ctx context.Context, valuation time.Time, ids []ExternalID) (Snapshot, error) {
	out := make(Snapshot, len(ids))
	var misses []ExternalID
	for _, id := range ids {
		if v, ok := p.cache.Get(cacheKey(valuation, id)); ok {
			out[id] = v.(float64)
			continue
		}
		misses = append(misses, id)
	}
	if len(misses) == 0 {
		return out, nil
	}

	fetched, err := p.next.Fetch(ctx, valuation, misses)
	if err != nil {
		return nil, err
	}
	for id, v := range fetched {
		p.cache.SetDefault(cacheKey(valuation, id), v)
		out[id] = v
	}
	return out, nil
}

func cacheKey(valuation time.Time, id ExternalID) string {
	return valuation.Format(time.DateOnly) + "|" + id.String()
}
