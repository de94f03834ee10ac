package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/freshmart/inventory-backend/pkg/enums"
	pkgerrors "github.com/freshmart/inventory-backend/pkg/errors"
	"github.com/freshmart/inventory-backend/pkg/logger"
)

// Registry maps strategy names to implementations. The table is built once
// at startup and never mutated afterwards, so lookups are safe from any
// goroutine without locking.
type Registry struct {
	strategies map[enums.Strategy]Strategy
}

// NewRegistry builds the registry from the provided implementations. Enum
// values without an implementation stay resolvable as invalid; each one is
// logged once so an operator can see which declared strategies are inert.
func NewRegistry(ctx context.Context, logg *logger.Logger, strategies ...Strategy) (*Registry, error) {
	table := make(map[enums.Strategy]Strategy, len(strategies))
	for _, strategy := range strategies {
		if strategy == nil {
			return nil, fmt.Errorf("nil strategy provided")
		}
		name := strategy.Type()
		if !name.IsValid() {
			return nil, fmt.Errorf("strategy %q is not a declared strategy type", name)
		}
		if _, exists := table[name]; exists {
			return nil, fmt.Errorf("duplicate strategy %q", name)
		}
		table[name] = strategy
	}
	if _, ok := table[enums.DefaultStrategy()]; !ok {
		return nil, fmt.Errorf("default strategy %q has no implementation", enums.DefaultStrategy())
	}

	if logg != nil {
		for _, name := range enums.Strategies() {
			if _, ok := table[name]; !ok {
				logCtx := logg.WithStrategy(ctx, string(name))
				logg.Warn(logCtx, "declared strategy has no registered implementation")
			}
		}
	}

	return &Registry{strategies: table}, nil
}

// Resolve returns the implementation for the requested strategy name.
// A blank name resolves to the default; unknown or unimplemented names
// return UNKNOWN_STRATEGY.
func (r *Registry) Resolve(name string) (Strategy, error) {
	parsed, err := enums.ParseStrategy(name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnknownStrategy, err, fmt.Sprintf("strategy %q", name))
	}
	strategy, ok := r.strategies[parsed]
	if !ok {
		return nil, pkgerrors.New(
			pkgerrors.CodeUnknownStrategy,
			fmt.Sprintf("strategy %q is declared but not implemented", parsed),
		)
	}
	return strategy, nil
}

// Default returns the default strategy implementation.
func (r *Registry) Default() Strategy {
	return r.strategies[enums.DefaultStrategy()]
}

// Available returns the registered strategy names in stable order.
func (r *Registry) Available() []enums.Strategy {
	names := make([]enums.Strategy, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}
