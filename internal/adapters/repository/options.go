package repository

import "time"

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithDataset seeds the store with ds.
func WithDataset(ds Dataset) Option {
	return func(s *MemoryStore) {
		s.initial = &ds
	}
}

// WithFixtureFile makes the store load its dataset from a JSON file.
func WithFixtureFile(path string) Option {
	return func(s *MemoryStore) {
		s.path = path
	}
}

// WithReloadInterval sets how often the fixture file is re-read.
// Zero disables reloading.
func WithReloadInterval(interval time.Duration) Option {
	return func(s *MemoryStore) {
		if interval > 0 {
			s.reloadInterval = interval
		}
	}
}

// MongoOption applies a configuration option to the MongoStore.
type MongoOption func(*MongoStore)

// WithLocation sets the market time zone used to turn stored timestamps
// into calendar dates.
func WithLocation(loc *time.Location) MongoOption {
	return func(s *MongoStore) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithConnectTimeout bounds the initial connect and ping.
func WithConnectTimeout(d time.Duration) MongoOption {
	return func(s *MongoStore) {
		if d > 0 {
			s.connectTimeout = d
		}
	}
}
