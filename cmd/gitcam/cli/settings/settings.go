// Package settings provides the persisted gitcam configuration.
//
// Values live under cam.* keys in the user's global git config so that one
// setup covers every repository on the machine. The storage mechanism is
// isolated behind the Store interface; the rest of the CLI only sees typed
// Settings values.
package settings

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Git config keys for persisted values.
const (
	KeyAPIKey       = "cam.apikey"
	KeyModel        = "cam.model"
	KeyInstructions = "cam.instructions"
	KeyTokenLimit   = "cam.tokenlimit"
	KeyHistoryLimit = "cam.historylimit"
)

// Defaults applied when a key is unset or unparseable.
const (
	DefaultModel        = "claude-3-5-haiku-latest"
	DefaultTokenLimit   = 1024
	DefaultHistoryLimit = 5

	// MaxHistoryLimit bounds how many commits of context may be requested.
	MaxHistoryLimit = 20
)

// Store is the narrow key/value interface over persisted configuration.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
}

// GitConfigStore persists values via `git config --global`.
type GitConfigStore struct {
	// Runner allows injection of the command execution for testing.
	// If nil, uses exec.CommandContext directly.
	Runner func(ctx context.Context, name string, args ...string) *exec.Cmd
}

func (s *GitConfigStore) runner() func(ctx context.Context, name string, args ...string) *exec.Cmd {
	if s.Runner != nil {
		return s.Runner
	}
	return exec.CommandContext
}

// Get returns the value for key, or empty string when the key is unset.
func (s *GitConfigStore) Get(key string) (string, error) {
	cmd := s.runner()(context.Background(), "git", "config", "--global", "--get", key)
	out, err := cmd.Output()
	if err != nil {
		// git config exits 1 when the key is absent; treat as unset.
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("reading git config %s: %w", key, err)
	}
	return strings.TrimSpace(string(out)), nil
}

// Set writes the value for key.
func (s *GitConfigStore) Set(key, value string) error {
	cmd := s.runner()(context.Background(), "git", "config", "--global", key, value)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("writing git config %s: %s: %w", key, strings.TrimSpace(string(out)), err)
	}
	return nil
}

// Settings holds the typed configuration the commit and recheck pipelines read
// at session start.
type Settings struct {
	APIKey       string
	Model        string
	Instructions string

	// TokenLimit is the unit budget per payload and the generation cap.
	TokenLimit int

	// HistoryLimit is how many recent commits of context to include (0-20).
	// 0 disables history context entirely.
	HistoryLimit int
}

// Load reads all settings from the store, applying defaults for unset or
// invalid values. A missing API key is not an error here; callers decide
// whether it is required.
func Load(store Store) (*Settings, error) {
	s := &Settings{
		Model:        DefaultModel,
		TokenLimit:   DefaultTokenLimit,
		HistoryLimit: DefaultHistoryLimit,
	}

	var err error
	if s.APIKey, err = store.Get(KeyAPIKey); err != nil {
		return nil, err
	}

	model, err := store.Get(KeyModel)
	if err != nil {
		return nil, err
	}
	if model != "" {
		s.Model = model
	}

	if s.Instructions, err = store.Get(KeyInstructions); err != nil {
		return nil, err
	}

	if raw, err := store.Get(KeyTokenLimit); err != nil {
		return nil, err
	} else if n, convErr := strconv.Atoi(raw); convErr == nil && n > 0 {
		s.TokenLimit = n
	}

	if raw, err := store.Get(KeyHistoryLimit); err != nil {
		return nil, err
	} else if n, convErr := strconv.Atoi(raw); convErr == nil && n >= 0 && n <= MaxHistoryLimit {
		s.HistoryLimit = n
	}

	return s, nil
}

// SetTokenLimit validates and persists a new token limit.
func SetTokenLimit(store Store, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("token limit must be a positive number, got %q", raw)
	}
	return n, store.Set(KeyTokenLimit, strconv.Itoa(n))
}

// SetHistoryLimit validates and persists a new history limit.
func SetHistoryLimit(store Store, raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("history limit must be a number, got %q", raw)
	}
	if n < 0 || n > MaxHistoryLimit {
		return 0, fmt.Errorf("history limit must be between 0 and %d (0 disables history)", MaxHistoryLimit)
	}
	return n, store.Set(KeyHistoryLimit, strconv.Itoa(n))
}

// SetInstructions replaces the stored instructions, ensuring they end with a
// period so appended instructions join cleanly later.
func SetInstructions(store Store, instructions string) (string, error) {
	instructions = strings.TrimSpace(instructions)
	if instructions != "" && !strings.HasSuffix(instructions, ".") {
		instructions += "."
	}
	return instructions, store.Set(KeyInstructions, instructions)
}

// AppendInstruction joins a new instruction onto the existing ones with
// sentence punctuation and persists the result.
func AppendInstruction(store Store, instruction string) (string, error) {
	existing, err := store.Get(KeyInstructions)
	if err != nil {
		return "", err
	}

	combined := strings.TrimSpace(instruction)
	if existing != "" {
		combined = strings.TrimSuffix(existing, ".") + ". " + combined
	}
	if !strings.HasSuffix(combined, ".") {
		combined += "."
	}

	return combined, store.Set(KeyInstructions, combined)
}
