package shapes

import (
	"reflect"
	"sync"

	"github.com/matzehuels/nodeshapes/pkg/errors"
	"github.com/matzehuels/nodeshapes/pkg/graph"
)

// Descriptor is one registered shape. Descriptors are immutable once
// registered.
type Descriptor struct {
	Name   string
	Fill   Painter // nil paints no body
	Border Painter // nil paints no border
	Tracer Tracer  // set for shapes registered from an outline

	// Params is the zero value of the parameter record the shape accepts,
	// or nil when it takes none.
	Params graph.ShapeParams
}

// DescriptorOption configures a descriptor at registration.
type DescriptorOption func(*Descriptor)

// WithParams declares the parameter record type the shape reads.
// The prototype must belong to the shape being registered.
func WithParams(proto graph.ShapeParams) DescriptorOption {
	return func(d *Descriptor) { d.Params = proto }
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStrictNames makes registering an existing name an error.
func WithStrictNames() RegistryOption {
	return func(r *Registry) { r.strict = true }
}

// Registry is an ordered collection of shape descriptors.
// It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	strict bool
	descs  []Descriptor
	latest map[string]int // name -> index of the last registration
}

// NewRegistry returns an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{latest: make(map[string]int)}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a shape. fill and border may be nil.
func (r *Registry) Register(name string, fill, border Painter, opts ...DescriptorOption) error {
	d := Descriptor{Name: name, Fill: fill, Border: border}
	for _, opt := range opts {
		opt(&d)
	}
	return r.add(d)
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, fill, border Painter, opts ...DescriptorOption) {
	if err := r.Register(name, fill, border, opts...); err != nil {
		panic(err)
	}
}

// RegisterOutline registers a shape whose fill and border painters are both
// derived from t.
func (r *Registry) RegisterOutline(name string, t Tracer, opts ...DescriptorOption) error {
	if t == nil {
		return errors.New(errors.ErrCodeInvalidShape, "shape %q: nil tracer", name)
	}
	d := Descriptor{Name: name, Fill: FillAdapter(t), Border: BorderAdapter(t), Tracer: t}
	for _, opt := range opts {
		opt(&d)
	}
	return r.add(d)
}

// MustRegisterOutline is like RegisterOutline but panics on error.
func (r *Registry) MustRegisterOutline(name string, t Tracer, opts ...DescriptorOption) {
	if err := r.RegisterOutline(name, t, opts...); err != nil {
		panic(err)
	}
}

func (r *Registry) add(d Descriptor) error {
	if err := errors.ValidateShapeName(d.Name); err != nil {
		return err
	}
	if d.Params != nil && d.Params.ShapeName() != d.Name {
		return errors.New(errors.ErrCodeInvalidParams,
			"shape %q: parameter record belongs to %q", d.Name, d.Params.ShapeName())
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.latest[d.Name]; exists && r.strict {
		return errors.New(errors.ErrCodeDuplicateShape, "shape %q is already registered", d.Name)
	}
	r.descs = append(r.descs, d)
	r.latest[d.Name] = len(r.descs) - 1
	return nil
}

// Enumerate returns every registration in order, duplicates included.
// The result is a copy; every call returns the full current set.
func (r *Registry) Enumerate() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Descriptor(nil), r.descs...)
}

// Names returns the distinct registered names in first-registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.latest))
	seen := make(map[string]bool, len(r.latest))
	for _, d := range r.descs {
		if !seen[d.Name] {
			seen[d.Name] = true
			names = append(names, d.Name)
		}
	}
	return names
}

// Lookup returns the last descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.latest[name]
	if !ok {
		return Descriptor{}, false
	}
	return r.descs[i], true
}

// Len returns the number of registrations, duplicates included.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.descs)
}

// ValidateNode checks a node's parameter record against its shape. Nodes
// without a shape or without parameters always pass; parameters on a shape
// that declares none, or of the wrong record type, are ErrCodeInvalidParams.
func (r *Registry) ValidateNode(n *graph.Node) error {
	if n.Shape == "" {
		return nil
	}
	d, ok := r.Lookup(n.Shape)
	if !ok {
		return errors.New(errors.ErrCodeUnknownShape, "node %q: no shape registered as %q", n.ID, n.Shape)
	}
	if n.Params == nil {
		return nil
	}
	if d.Params == nil {
		return errors.New(errors.ErrCodeInvalidParams, "node %q: shape %q takes no parameters", n.ID, n.Shape)
	}
	if reflect.TypeOf(n.Params) != reflect.TypeOf(d.Params) {
		return errors.New(errors.ErrCodeInvalidParams,
			"node %q: shape %q expects %T, got %T", n.ID, n.Shape, d.Params, n.Params)
	}
	if err := n.Params.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidParams, err, "node %q", n.ID)
	}
	return nil
}

// ValidateGraph runs ValidateNode over every node.
func (r *Registry) ValidateGraph(g *graph.Graph) error {
	for i := range g.Nodes {
		if err := r.ValidateNode(&g.Nodes[i]); err != nil {
			return err
		}
	}
	return nil
}

var (
	defaultOnce sync.Once
	defaultReg  *Registry
)

// Default returns the process-wide registry, populated with the built-in
// shapes on first use. Callers may register further shapes on it.
func Default() *Registry {
	defaultOnce.Do(func() { defaultReg = Builtin() })
	return defaultReg
}
