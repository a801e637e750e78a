package config

import "github.com/accords-library/search-sync/internal/core/ports/driven"

var _ driven.ConfigStore = fakeConfigStore{}

// fakeConfigStore serves already-decoded TOML values by dotted key.
type fakeConfigStore map[string]any

func (s fakeConfigStore) Get(key string) (any, bool) {
	v, ok := s[key]
	return v, ok
}

func (s fakeConfigStore) GetString(key string) string {
	v, _ := s[key].(string)
	return v
}

func (s fakeConfigStore) GetInt(key string) int {
	v, _ := s[key].(int64)
	return int(v)
}

func (s fakeConfigStore) GetBool(key string) bool {
	v, _ := s[key].(bool)
	return v
}

func (fakeConfigStore) Load() error { return nil }

func (fakeConfigStore) Path() string { return "fake.toml" }
