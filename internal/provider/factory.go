package provider

import (
	"fmt"
	"net/http"
	"sort"
	"sync"

	"github.com/srivatsj/interview-agent-sub000/internal/catalog"
)

// Config carries everything a factory may need to build a backend. Local
// backends use Catalog; remote backends use BaseURL and the optional
// HTTPClient.
type Config struct {
	Type       string
	Catalog    *catalog.Catalog
	BaseURL    string
	HTTPClient *http.Client
}

// Factory defines how to create a backend of a specific type. Backend
// packages expose an explicit registration function that calls
// RegisterFactory; cmd wires those registrations so there are no init()
// side effects.
type Factory struct {
	// Type is the backend type identifier ("local", "remote").
	Type string

	// Description provides a human-readable description of the backend.
	Description string

	// Create instantiates a backend from configuration.
	Create func(cfg Config) (InterviewProvider, error)

	// ValidateConfig performs backend-specific validation.
	// Optional: if nil, no additional validation is performed.
	ValidateConfig func(cfg Config) error
}

var (
	factoryMu   sync.RWMutex
	factoryMap  = make(map[string]Factory)
	factoryList []Factory
)

// RegisterFactory registers a backend factory. Panics on a duplicate or
// incomplete registration, mirroring how a bad wiring should fail at start.
func RegisterFactory(f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	if f.Type == "" {
		panic("provider factory type cannot be empty")
	}
	if f.Create == nil {
		panic(fmt.Sprintf("provider factory %q must have a Create function", f.Type))
	}
	if _, exists := factoryMap[f.Type]; exists {
		panic(fmt.Sprintf("provider factory %q already registered", f.Type))
	}

	factoryMap[f.Type] = f
	factoryList = append(factoryList, f)
}

// GetFactory returns the factory for a backend type, if registered.
func GetFactory(providerType string) (Factory, bool) {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	f, ok := factoryMap[providerType]
	return f, ok
}

// ListTypes returns all registered backend type names, sorted.
func ListTypes() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()

	types := make([]string, 0, len(factoryList))
	for _, f := range factoryList {
		types = append(types, f.Type)
	}
	sort.Strings(types)
	return types
}

// IsRegistered returns true if a backend type is registered.
func IsRegistered(providerType string) bool {
	_, ok := GetFactory(providerType)
	return ok
}

// CreateFromFactory creates a backend using the registered factory.
func CreateFromFactory(cfg Config) (InterviewProvider, error) {
	f, ok := GetFactory(cfg.Type)
	if !ok {
		return nil, fmt.Errorf("unknown provider type: %s (registered types: %v)", cfg.Type, ListTypes())
	}

	if f.ValidateConfig != nil {
		if err := f.ValidateConfig(cfg); err != nil {
			return nil, fmt.Errorf("invalid configuration for provider type %s: %w", cfg.Type, err)
		}
	}

	return f.Create(cfg)
}

// ClearFactories removes all registered factories (for testing only).
func ClearFactories() {
	factoryMu.Lock()
	defer factoryMu.Unlock()

	factoryMap = make(map[string]Factory)
	factoryList = nil
}
