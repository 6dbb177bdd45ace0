package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/gridedit/internal/config"
	"github.com/specialistvlad/gridedit/internal/graph"
)

// Module is the interface that all node type modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// Manifest is an in-memory manifest contributed by a module.
type Manifest struct {
	Filename string
	Source   []byte
}

// Registry holds the compute functions, manifests, definitions and metadata
// of a single application instance.
type Registry struct {
	computes    map[string]graph.ComputeFunc
	manifests   []Manifest
	definitions map[string]*config.NodeTypeDefinition
	types       map[string]*graph.Metadata
	built       map[string]struct{}
	logger      *slog.Logger
}

// New creates a registry that already knows the built-in network, input and
// output types.
func New() *Registry {
	r := &Registry{
		computes:    make(map[string]graph.ComputeFunc),
		definitions: make(map[string]*config.NodeTypeDefinition),
		types:       make(map[string]*graph.Metadata),
		built:       make(map[string]struct{}),
		logger:      slog.Default(),
	}
	r.RegisterType(graph.NetworkMetadata())
	r.RegisterType(graph.InputMetadata())
	r.RegisterType(graph.OutputMetadata())
	return r
}

// SetLogger sets the logger registrations are reported to. It defaults to
// slog.Default().
func (r *Registry) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// RegisterCompute registers the Go compute function a manifest refers to by
// name.
func (r *Registry) RegisterCompute(name string, fn graph.ComputeFunc) {
	if _, exists := r.computes[name]; exists {
		panic(fmt.Sprintf("compute function with name '%s' already registered", name))
	}
	r.logger.Debug("Registering compute function.", "name", name)
	r.computes[name] = fn
}

// RegisterManifest queues an embedded manifest for loading.
func (r *Registry) RegisterManifest(filename string, src []byte) {
	r.logger.Debug("Registering manifest.", "file", filename)
	r.manifests = append(r.manifests, Manifest{Filename: filename, Source: src})
}

// RegisterType registers a ready-made metadata handle under its type name.
func (r *Registry) RegisterType(meta *graph.Metadata) {
	if _, exists := r.types[meta.Type()]; exists {
		panic(fmt.Sprintf("node type '%s' already registered", meta.Type()))
	}
	r.logger.Debug("Registering node type.", "type", meta.Type(), "attributes", meta.Len())
	r.types[meta.Type()] = meta
}

// Manifests returns the manifests registered by modules, in registration
// order.
func (r *Registry) Manifests() []Manifest {
	cp := make([]Manifest, len(r.manifests))
	copy(cp, r.manifests)
	return cp
}

// PopulateDefinitionsFromModel copies the loaded definitions from the config
// model into the registry.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) error {
	for _, name := range model.TypeNames() {
		if prev, exists := r.definitions[name]; exists {
			return fmt.Errorf("node type '%s' from %s is already defined in %s", name, model.NodeTypes[name].Source, prev.Source)
		}
		r.definitions[name] = model.NodeTypes[name]
	}
	return nil
}

// Lookup returns the metadata of a registered type name.
func (r *Registry) Lookup(name string) (*graph.Metadata, bool) {
	m, ok := r.types[name]
	return m, ok
}

// Compute returns a registered compute function.
func (r *Registry) Compute(name string) (graph.ComputeFunc, bool) {
	fn, ok := r.computes[name]
	return fn, ok
}

// Types returns every registered type name, sorted.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
