package settings

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory Store for tests.
type fakeStore struct {
	values map[string]string
	err    error
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: make(map[string]string)}
}

func (f *fakeStore) Get(key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.values[key], nil
}

func (f *fakeStore) Set(key, value string) error {
	if f.err != nil {
		return f.err
	}
	f.values[key] = value
	return nil
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	s, err := Load(newFakeStore())
	require.NoError(t, err)

	assert.Empty(t, s.APIKey)
	assert.Equal(t, DefaultModel, s.Model)
	assert.Equal(t, DefaultTokenLimit, s.TokenLimit)
	assert.Equal(t, DefaultHistoryLimit, s.HistoryLimit)
}

func TestLoadConfiguredValues(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.values[KeyAPIKey] = "sk-test"
	store.values[KeyModel] = "claude-sonnet-4-5"
	store.values[KeyInstructions] = "Use imperative mood."
	store.values[KeyTokenLimit] = "2048"
	store.values[KeyHistoryLimit] = "10"

	s, err := Load(store)
	require.NoError(t, err)

	assert.Equal(t, "sk-test", s.APIKey)
	assert.Equal(t, "claude-sonnet-4-5", s.Model)
	assert.Equal(t, "Use imperative mood.", s.Instructions)
	assert.Equal(t, 2048, s.TokenLimit)
	assert.Equal(t, 10, s.HistoryLimit)
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		tokenLimit   string
		historyLimit string
	}{
		{name: "non_numeric", tokenLimit: "abc", historyLimit: "xyz"},
		{name: "negative", tokenLimit: "-5", historyLimit: "-1"},
		{name: "history_above_max", tokenLimit: "0", historyLimit: "21"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			store.values[KeyTokenLimit] = tt.tokenLimit
			store.values[KeyHistoryLimit] = tt.historyLimit

			s, err := Load(store)
			require.NoError(t, err)
			assert.Equal(t, DefaultTokenLimit, s.TokenLimit)
			assert.Equal(t, DefaultHistoryLimit, s.HistoryLimit)
		})
	}
}

func TestLoadPropagatesStoreError(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.err = errors.New("git not found")

	_, err := Load(store)
	assert.Error(t, err)
}

func TestSetHistoryLimitBounds(t *testing.T) {
	t.Parallel()

	store := newFakeStore()

	n, err := SetHistoryLimit(store, "0")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = SetHistoryLimit(store, "20")
	require.NoError(t, err)
	assert.Equal(t, 20, n)

	_, err = SetHistoryLimit(store, "21")
	assert.Error(t, err)

	_, err = SetHistoryLimit(store, "-1")
	assert.Error(t, err)

	_, err = SetHistoryLimit(store, "five")
	assert.Error(t, err)
}

func TestSetTokenLimitRejectsNonPositive(t *testing.T) {
	t.Parallel()

	store := newFakeStore()

	_, err := SetTokenLimit(store, "0")
	assert.Error(t, err)

	n, err := SetTokenLimit(store, "512")
	require.NoError(t, err)
	assert.Equal(t, 512, n)
	assert.Equal(t, "512", store.values[KeyTokenLimit])
}

func TestAppendInstruction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		existing string
		add      string
		want     string
	}{
		{name: "empty_existing", existing: "", add: "Be concise", want: "Be concise."},
		{name: "joins_with_period", existing: "Be concise.", add: "No emoji", want: "Be concise. No emoji."},
		{name: "existing_without_period", existing: "Be concise", add: "No emoji", want: "Be concise. No emoji."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeStore()
			if tt.existing != "" {
				store.values[KeyInstructions] = tt.existing
			}

			got, err := AppendInstruction(store, tt.add)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, store.values[KeyInstructions])
		})
	}
}

func TestSetInstructionsAddsPeriod(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	got, err := SetInstructions(store, "Keep subjects short")
	require.NoError(t, err)
	assert.Equal(t, "Keep subjects short.", got)
}
