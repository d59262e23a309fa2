package emission

import (
	"fmt"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// ModuleConfig contains the type name and raw configuration for a strategy.
type ModuleConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// Factory constructs a Strategy from its raw configuration.
type Factory func(map[string]any) (Strategy, error)

// Registry stores strategy factories keyed by type name.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns an empty strategy registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory for the given type name.
func (r *Registry) Register(name string, f Factory) error {
	if f == nil {
		return fmt.Errorf("factory nil for %s", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("factory already registered for %s", name)
	}
	r.factories[name] = f
	return nil
}

// Create instantiates a strategy based on its configuration.
func (r *Registry) Create(cfg ModuleConfig) (Strategy, error) {
	r.mu.RLock()
	f, ok := r.factories[cfg.Type]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown strategy type %s", cfg.Type)
	}
	return f(cfg.Conf)
}

// Decode fills out the provided struct using json tags.
func Decode(data map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(data)
}

// GasConfig holds the tunable parameters of the gas strategy.
type GasConfig struct {
	Coefficient float64 `json:"coefficient"`
}

// DefaultRegistry returns a registry with the built-in gas and electric
// strategies registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Registration of builtins cannot collide on a fresh registry.
	_ = r.Register("gas", func(conf map[string]any) (Strategy, error) {
		var c GasConfig
		if conf != nil {
			if err := Decode(conf, &c); err != nil {
				return nil, fmt.Errorf("gas strategy config: %w", err)
			}
		}
		return NewGasStrategy(c.Coefficient), nil
	})
	_ = r.Register("electric", func(map[string]any) (Strategy, error) {
		return ElectricStrategy{}, nil
	})
	return r
}
