package bot

import (
	"fmt"
	"sort"
)

// Registry is the ownership-explicit map from bot name to strategy,
// built once at startup and read-only afterwards.
type Registry struct {
	strategies map[string]Strategy
}

func NewRegistry() *Registry {
	return &Registry{
		strategies: make(map[string]Strategy),
	}
}

func (that *Registry) Register(name string, strategy Strategy) {
	that.strategies[name] = strategy
}

func (that *Registry) Get(name string) (Strategy, error) {
	strategy, ok := that.strategies[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot %q", name)
	}

	return strategy, nil
}

// Names returns the registered bot names in stable order.
func (that *Registry) Names() []string {
	names := make([]string, 0, len(that.strategies))
	for name := range that.strategies {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
