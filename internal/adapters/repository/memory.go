package repository

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/okian/mawsim/internal/domain/model"
	"github.com/okian/mawsim/pkg/metrics"
)

// snapshot is an immutable, indexed view of a dataset.
type snapshot struct {
	ds       Dataset
	byID     map[string]int // campaign id -> index
	loadedAt time.Time
}

func newSnapshot(ds Dataset) *snapshot {
	s := &snapshot{
		ds:       Dataset{Campaigns: slices.Clone(ds.Campaigns), SocialAccounts: slices.Clone(ds.SocialAccounts)},
		byID:     make(map[string]int, len(ds.Campaigns)),
		loadedAt: time.Now(),
	}
	for i, c := range s.ds.Campaigns {
		s.byID[c.ID] = i
	}
	// Resolve campaign names once, the way a populate would.
	s.ds.Contents = make([]model.Content, len(ds.Contents))
	for i, c := range ds.Contents {
		if c.CampaignName == "" {
			if j, ok := s.byID[c.CampaignID]; ok {
				c.CampaignName = s.ds.Campaigns[j].Name
			}
		}
		s.ds.Contents[i] = c
	}
	return s
}

// MemoryStore serves a dataset held in memory. The dataset is swapped
// atomically, so readers never block writers.
type MemoryStore struct {
	path           string
	reloadInterval time.Duration
	initial        *Dataset

	data   atomic.Pointer[snapshot]
	closed atomic.Bool

	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewMemoryStore builds a store from WithDataset or WithFixtureFile. With a
// fixture file and a reload interval the file is re-read periodically.
func NewMemoryStore(ctx context.Context, opts ...Option) (*MemoryStore, error) {
	s := &MemoryStore{stopChan: make(chan struct{})}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case s.path != "":
		if err := s.Reload(ctx); err != nil {
			return nil, err
		}
		if s.reloadInterval > 0 {
			s.startPeriodicReloads(ctx)
		}
	case s.initial != nil:
		s.Replace(*s.initial)
	default:
		s.Replace(Dataset{})
	}
	return s, nil
}

// startPeriodicReloads re-reads the fixture file until ctx ends or Close.
func (s *MemoryStore) startPeriodicReloads(ctx context.Context) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.reloadInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-s.stopChan:
				return
			case <-ticker.C:
				if err := s.Reload(ctx); err != nil {
					// keep serving the last good dataset
					metrics.RecordErrorByComponent("repository", "reload")
				}
			}
		}
	}()
}

// Replace publishes ds as the current dataset.
func (s *MemoryStore) Replace(ds Dataset) {
	start := time.Now()
	snap := newSnapshot(ds)
	s.data.Store(snap)

	metrics.UpdateStoreRecords(CollectionCampaigns, len(snap.ds.Campaigns))
	metrics.UpdateStoreRecords(CollectionContents, len(snap.ds.Contents))
	metrics.UpdateStoreRecords(CollectionSocial, len(snap.ds.SocialAccounts))
	metrics.RecordStoreReload(float64(time.Since(start).Microseconds()) / 1000)
}

// Reload re-reads the fixture file.
func (s *MemoryStore) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.path == "" {
		return fmt.Errorf("%w: no fixture file configured", ErrInvalidSource)
	}
	ds, err := ReadDatasetFile(s.path)
	if err != nil {
		return err
	}
	s.Replace(ds)
	return nil
}

// LoadedAt returns when the current dataset was published.
func (s *MemoryStore) LoadedAt() time.Time {
	return s.data.Load().loadedAt
}

// Close stops the reload goroutine. Reads after Close fail with ErrClosed.
func (s *MemoryStore) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.stopChan)
	s.wg.Wait()
	return nil
}

func (s *MemoryStore) read(ctx context.Context, collection string) (*snapshot, func(), error) {
	start := time.Now()
	done := func() {
		metrics.RecordStoreFetch(collection, float64(time.Since(start).Microseconds())/1000)
	}
	if s.closed.Load() {
		metrics.RecordStoreFetchError(collection)
		return nil, done, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordStoreFetchError(collection)
		return nil, done, err
	}
	return s.data.Load(), done, nil
}

// Campaigns implements Store.
func (s *MemoryStore) Campaigns(ctx context.Context) ([]model.Campaign, error) {
	snap, done, err := s.read(ctx, CollectionCampaigns)
	defer done()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.ds.Campaigns), nil
}

// Campaign implements Store.
func (s *MemoryStore) Campaign(ctx context.Context, id string) (model.Campaign, error) {
	snap, done, err := s.read(ctx, CollectionCampaigns)
	defer done()
	if err != nil {
		return model.Campaign{}, err
	}
	i, ok := snap.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return model.Campaign{}, fmt.Errorf("campaign %q: %w", id, ErrNotFound)
	}
	return snap.ds.Campaigns[i], nil
}

// Contents implements Store.
func (s *MemoryStore) Contents(ctx context.Context, f ContentFilter) ([]model.Content, error) {
	snap, done, err := s.read(ctx, CollectionContents)
	defer done()
	if err != nil {
		return nil, err
	}
	out := make([]model.Content, 0, len(snap.ds.Contents))
	for _, c := range snap.ds.Contents {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out, nil
}

// SocialAccounts implements Store.
func (s *MemoryStore) SocialAccounts(ctx context.Context) ([]model.SocialAccount, error) {
	snap, done, err := s.read(ctx, CollectionSocial)
	defer done()
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.ds.SocialAccounts), nil
}

// ReadDataset decodes a JSON dataset.
func ReadDataset(r io.Reader) (Dataset, error) {
	var ds Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("%w: decode dataset: %v", ErrInvalidSource, err)
	}
	return ds, nil
}

// ReadDatasetFile decodes the JSON dataset at path.
func ReadDatasetFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return Dataset{}, fmt.Errorf("%w: %v", ErrInvalidSource, err)
	}
	defer f.Close()
	return ReadDataset(f)
}

// WriteDataset encodes ds as indented JSON.
func WriteDataset(w io.Writer, ds Dataset) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(ds)
}
