package s11n

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// Default is the process-wide registry. Built-in proxies are registered
// when the package is initialized.
var Default = NewRegistry()

// shapeFactory derives a proxy for a type that has no exact registration.
// It returns (nil, nil) when the type does not have its shape.
type shapeFactory func(r *Registry, t reflect.Type) (*proxy, error)

// Registry maps types to proxies. Exact registrations win; otherwise the
// shape factories are consulted in order and the derived proxy is cached.
type Registry struct {
	mu      sync.RWMutex
	proxies map[reflect.Type]*proxy
	classes map[string]reflect.Type
	shapes  []shapeFactory

	log *zap.Logger
}

type Option func(*Registry)

func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log == nil {
			return
		}
		r.log = log
	}
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		proxies: make(map[reflect.Type]*proxy),
		classes: make(map[string]reflect.Type),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.shapes = []shapeFactory{
		scalarShape,
		orderedMapShape,
		builtinMapShape,
		pairShape,
		pointerShape,
	}
	registerScalars(r)
	registerGeometry(r)
	registerValue(r)
	return r
}

// Logger returns the logger proxies should report diagnostics to.
func (r *Registry) Logger() *zap.Logger {
	return r.log
}

func (r *Registry) add(p *proxy) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.proxies[p.typ]; exists {
		return errorf(ErrAlreadyRegistered, "register", p.className, "type %s", p.typ)
	}
	if p.className != "" {
		if t, exists := r.classes[p.className]; exists {
			return errorf(ErrAlreadyRegistered, "register", p.className, "class name is used by %s", t)
		}
		r.classes[p.className] = p.typ
	}
	r.proxies[p.typ] = p
	return nil
}

// Registered reports whether values of t can be serialized by r.
func (r *Registry) Registered(t reflect.Type) bool {
	_, err := r.lookup(t)
	return err == nil
}

func (r *Registry) lookup(t reflect.Type) (*proxy, error) {
	if t == nil {
		return nil, errorf(ErrTypeRejected, "lookup", "", "nil type")
	}
	r.mu.RLock()
	p, exists := r.proxies[t]
	r.mu.RUnlock()
	if exists {
		return p, nil
	}

	for _, shape := range r.shapes {
		p, err := shape(r, t)
		if err != nil {
			return nil, err
		}
		if p == nil {
			continue
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if cached, exists := r.proxies[t]; exists {
			return cached, nil
		}
		r.proxies[t] = p
		return p, nil
	}
	return nil, errorf(ErrTypeRejected, "lookup", "", "no proxy for %s", t)
}

func (r *Registry) lookupClass(className string) (*proxy, error) {
	r.mu.RLock()
	t, exists := r.classes[className]
	r.mu.RUnlock()
	if !exists {
		return nil, errorf(ErrTypeRejected, "lookup", className, "unknown class %q", className)
	}
	return r.lookup(t)
}

// -------------------------------

// serializeValue writes v into dst, which must be empty. The proxy fills a
// scratch node that is moved into dst only on success, so a failure leaves
// nothing in dst but the class name.
func (r *Registry) serializeValue(dst *Node, v reflect.Value) error {
	if dst == nil {
		return errorf(ErrStructural, "serialize", "", "nil target node")
	}
	if !dst.IsEmpty() {
		return errorf(ErrStructural, "serialize", dst.name, "target node is not empty")
	}
	if v.IsValid() && v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() == reflect.Interface {
		return errorf(ErrTypeRejected, "serialize", dst.name, "nil value")
	}
	p, err := r.lookup(v.Type())
	if err != nil {
		return err
	}

	dst.SetClassName(p.className)
	scratch := NewNodeOfClass(dst.name, p.className)
	if err := p.serialize(r, scratch, v); err != nil {
		return err
	}
	if scratch.className != "" {
		dst.SetClassName(scratch.className)
	}
	scratch.moveInto(dst)
	return nil
}

func (r *Registry) serializeSubnode(dst *Node, name string, v reflect.Value) error {
	ch := NewNode(name)
	if err := r.serializeValue(ch, v); err != nil {
		return err
	}
	return dst.Push(ch)
}

// deserializeValue restores src into dst, which must be settable.
func (r *Registry) deserializeValue(src *Node, dst reflect.Value) error {
	if src == nil {
		return errorf(ErrMalformedNode, "deserialize", "", "nil source node")
	}
	if dst.Kind() == reflect.Interface {
		return r.deserializeDynamic(src, dst)
	}
	p, err := r.lookup(dst.Type())
	if err != nil {
		return err
	}
	return p.deserialize(r, src, dst)
}

// deserializeDynamic creates the value named by the node's class name and
// stores it in the interface-typed dst.
func (r *Registry) deserializeDynamic(src *Node, dst reflect.Value) error {
	p, err := r.lookupClass(src.className)
	if err != nil {
		return err
	}
	if !p.typ.AssignableTo(dst.Type()) {
		return errorf(ErrTypeRejected, "deserialize", src.name, "%s is not assignable to %s", p.typ, dst.Type())
	}
	tmp := p.create()
	if err := p.deserialize(r, src, tmp); err != nil {
		if p.cleanup != nil {
			p.cleanup(r, tmp)
		} else {
			destroyIfOwning(tmp)
		}
		return err
	}
	dst.Set(tmp)
	return nil
}

func (r *Registry) deserializeSubnode(src *Node, name string, dst reflect.Value) error {
	ch, exists := src.FindChild(name)
	if !exists {
		return errorf(ErrMalformedNode, "deserialize", src.name, "missing child %q", name)
	}
	return r.deserializeValue(ch, dst)
}

// cleanupValue runs the Cleanup Protocol on v.
func (r *Registry) cleanupValue(v reflect.Value) {
	if !v.IsValid() {
		return
	}
	if p, err := r.lookup(v.Type()); err == nil && p.cleanup != nil {
		p.cleanup(r, v)
		return
	}
	destroyIfOwning(v)
}
