package operators

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
	"github.com/r9s-ai/hafas-rest-client/pkg/hafas/parse"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// LoadResult reports what a reload did.
type LoadResult struct {
	Loaded       []string
	Changed      []string
	SkippedFiles []string
}

// Registry holds the known operators. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	files map[string]File
}

// NewRegistry returns a registry holding the built-in operators.
func NewRegistry() *Registry {
	files, err := builtins()
	if err != nil {
		// Embedded files are validated by tests.
		panic(err)
	}
	return &Registry{files: files}
}

func builtins() (map[string]File, error) {
	entries, err := fs.ReadDir(builtinFS, "builtin")
	if err != nil {
		return nil, err
	}
	out := make(map[string]File, len(entries))
	for _, e := range entries {
		b, err := builtinFS.ReadFile(path.Join("builtin", e.Name()))
		if err != nil {
			return nil, err
		}
		f, err := ParseFile("builtin:"+e.Name(), b)
		if err != nil {
			return nil, err
		}
		out[f.Name] = f
	}
	return out, nil
}

// Get returns the operator with the given name.
func (r *Registry) Get(name string) (File, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[strings.ToLower(strings.TrimSpace(name))]
	return f, ok
}

// Names lists the operators in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.files))
	for name := range r.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// ReloadFromDir replaces the registry content with the built-in operators
// plus every valid *.yaml file in dir. Invalid files are skipped and
// reported; only an unreadable directory fails the reload. An empty dir
// resets to the built-ins.
func (r *Registry) ReloadFromDir(dir string) (LoadResult, error) {
	next, err := builtins()
	if err != nil {
		return LoadResult{}, err
	}
	var skipped []string
	if dir = strings.TrimSpace(dir); dir != "" {
		paths, err := operatorFiles(dir)
		if err != nil {
			return LoadResult{}, err
		}
		for _, p := range paths {
			f, err := LoadFile(p)
			if err != nil {
				skipped = append(skipped, fmt.Sprintf("%s (%v)", filepath.Base(p), err))
				continue
			}
			next[f.Name] = f
		}
	}

	r.mu.Lock()
	prev := r.files
	r.files = next
	r.mu.Unlock()

	loaded := make([]string, 0, len(next))
	for name := range next {
		loaded = append(loaded, name)
	}
	sort.Strings(loaded)
	return LoadResult{
		Loaded:       loaded,
		Changed:      diffChanged(prev, next),
		SkippedFiles: skipped,
	}, nil
}

// ValidateDir checks every *.yaml file in dir. Unlike ReloadFromDir any
// invalid file fails the validation.
func ValidateDir(dir string) ([]string, error) {
	paths, err := operatorFiles(dir)
	if err != nil {
		return nil, err
	}
	seen := map[string]string{}
	names := make([]string, 0, len(paths))
	for _, p := range paths {
		f, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[f.Name]; ok {
			return nil, fmt.Errorf("duplicate operator name %q in %q (already in %q)", f.Name, p, prev)
		}
		seen[f.Name] = p
		names = append(names, f.Name)
	}
	sort.Strings(names)
	return names, nil
}

func operatorFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read operators dir %q: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		switch filepath.Ext(e.Name()) {
		case ".yaml", ".yml":
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

func diffChanged(before, after map[string]File) []string {
	changed := make([]string, 0)
	for name, prev := range before {
		next, ok := after[name]
		if !ok || next.fingerprint() != prev.fingerprint() {
			changed = append(changed, name)
		}
	}
	for name := range after {
		if _, ok := before[name]; !ok {
			changed = append(changed, name)
		}
	}
	sort.Strings(changed)
	return changed
}

// ErrUnknownOperator is returned for names not in the registry.
var ErrUnknownOperator = errors.New("unknown operator")

// Profile composes the complete client profile of an operator: the operator
// layer, the default parsers and formatters, then overrides.
func (r *Registry) Profile(name string, overrides hafas.Profile) (hafas.Profile, error) {
	f, ok := r.Get(name)
	if !ok {
		return hafas.Profile{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownOperator, name, strings.Join(r.Names(), ", "))
	}
	layer, err := f.Profile()
	if err != nil {
		return hafas.Profile{}, err
	}
	return hafas.Compose(layer, parse.Functions(), overrides)
}
