package category

import (
	"context"
	"sort"
	"sync"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"

	"github.com/trezcool/elimu/core"
)

const (
	storageKey = "course_categories"

	suggestCutoff = .6
)

var (
	// errors
	ErrNotFound    = errors.New("category not found")
	ErrExists      = errors.New("this category already exists")
	ErrInvalidName = errors.New("the category name cannot be empty")

	// Defaults are seeded on first use.
	Defaults = []string{"Programmation", "Design", "Langues", "Marketing"}
)

// Registry is the sorted set of category labels.
type Registry struct {
	mu     sync.RWMutex
	kv     core.KVStore
	logger core.Logger
	names  []string
}

func NewRegistry(ctx context.Context, kv core.KVStore, logger core.Logger) (*Registry, error) {
	if err := vala.BeginValidation().Validate(
		core.IsNotNil(kv, "kv"),
		core.IsNotNil(logger, "logger"),
	).Check(); err != nil {
		return nil, err
	}

	r := &Registry{kv: kv, logger: logger}
	if err := r.load(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) load(ctx context.Context) error {
	var names []string
	err := core.LoadJSON(ctx, r.kv, storageKey, &names)
	switch {
	case err == nil:
		r.names = dedup(names)
		return nil
	case errors.Cause(err) == core.ErrKeyNotFound: // first run
	case core.IsCorrupted(err):
		r.logger.Warn("stored categories are unreadable, restoring the default categories", err)
	default:
		return errors.Wrap(err, "loading categories")
	}

	names = dedup(Defaults)
	if err = r.save(ctx, names); err != nil {
		return errors.Wrap(err, "seeding categories")
	}
	r.names = names
	return nil
}

// dedup returns the trimmed, non-empty, unique names, sorted.
func dedup(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = core.CleanString(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) save(ctx context.Context, names []string) error {
	return core.SaveJSON(ctx, r.kv, storageKey, names)
}

func (r *Registry) index(name string) int {
	i := sort.SearchStrings(r.names, name)
	if i < len(r.names) && r.names[i] == name {
		return i
	}
	return -1
}

// List returns a sorted copy of the categories.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.names...)
}

// Exists does an exact (case-sensitive) lookup.
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.index(name) != -1
}

// Suggest returns the existing category closest to name, or "" when nothing is similar enough.
func (r *Registry) Suggest(name string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return core.ClosestMatch(name, r.names, suggestCutoff)
}

// Add inserts the trimmed name and returns it.
func (r *Registry) Add(ctx context.Context, name string) (string, error) {
	name = core.CleanString(name)
	if name == "" {
		return "", ErrInvalidName
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.index(name) != -1 {
		return "", ErrExists
	}
	names := append(append(make([]string, 0, len(r.names)+1), r.names...), name)
	sort.Strings(names)
	if err := r.save(ctx, names); err != nil {
		return "", errors.Wrap(err, "saving categories")
	}
	r.names = names
	return name, nil
}

// Delete removes the category with this exact name. Courses using it are left untouched.
func (r *Registry) Delete(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(name)
	if i == -1 {
		return ErrNotFound
	}
	names := make([]string, 0, len(r.names)-1)
	names = append(append(names, r.names[:i]...), r.names[i+1:]...)
	if err := r.save(ctx, names); err != nil {
		return errors.Wrap(err, "saving categories")
	}
	r.names = names
	return nil
}
