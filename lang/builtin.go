package lang

import (
	"maps"
	"slices"
	"strings"
	"time"
)

// Machine is the view of a running session available to built-in functions.
type Machine interface {
	Rand() *Rand
	Now() time.Time
	// Screen returns the attached screen, or nil.
	Screen() Screen
	// Files returns the attached file manager, or nil.
	Files() Files
}

// Builtin describes a built-in function.
type Builtin struct {
	Name   string   // canonical upper-case name, including any '$' suffix
	Min    int      // minimum argument count
	Max    int      // maximum argument count
	Params []string // parameter names for signature help
	Fn     func(m Machine, args []Value) (Value, error)
}

// Signature returns the call form of b, with optional parameters bracketed.
func (b *Builtin) Signature() string {
	if len(b.Params) == 0 {
		return b.Name
	}

	var sb strings.Builder

	sb.WriteString(b.Name)
	sb.WriteByte('(')

	for i, p := range b.Params {
		if i > 0 {
			sb.WriteString(", ")
		}

		if i >= b.Min {
			sb.WriteString("[" + p + "]")
		} else {
			sb.WriteString(p)
		}
	}

	sb.WriteByte(')')

	return sb.String()
}

// Registry maps function names to built-ins. Lookups are case-insensitive,
// and NAME$ and NAME refer to the same function.
type Registry struct {
	fns map[string]*Builtin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{fns: make(map[string]*Builtin)}
}

// canonical strips the string suffix so NAME$ and NAME share a key.
func canonical(name string) string {
	return strings.TrimSuffix(strings.ToUpper(name), "$")
}

// Register adds or replaces b.
func (r *Registry) Register(b *Builtin) {
	r.fns[canonical(b.Name)] = b
}

// Lookup returns the built-in named name.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	if r == nil {
		return nil, false
	}

	b, ok := r.fns[canonical(name)]

	return b, ok
}

// Names returns the canonical names of every registered function, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.fns))
	for b := range maps.Values(r.fns) {
		names = append(names, b.Name)
	}

	slices.Sort(names)

	return names
}

// Call invokes the function named name after checking its arity.
func (r *Registry) Call(m Machine, name string, args []Value) (Value, error) {
	b, ok := r.Lookup(name)
	if !ok {
		return Nil, ErrUndefined.Errorf("Function %s not defined", strings.ToUpper(name))
	}

	if len(args) < b.Min || len(args) > b.Max {
		return Nil, arityError(b)
	}

	return b.Fn(m, args)
}

func arityError(b *Builtin) error {
	if b.Min == b.Max {
		return ErrRuntime.Errorf("%s requires %d argument(s)", b.Name, b.Min)
	}

	return ErrRuntime.Errorf("%s requires %d to %d arguments", b.Name, b.Min, b.Max)
}

// DefaultRegistry returns a registry holding the standard functions.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	for _, group := range [][]*Builtin{mathBuiltins(), stringBuiltins(), machineBuiltins()} {
		for _, b := range group {
			r.Register(b)
		}
	}

	return r
}

// unary adapts a one-argument function.
func unary(name, param string, fn func(Value) (Value, error)) *Builtin {
	return &Builtin{
		Name:   name,
		Min:    1,
		Max:    1,
		Params: []string{param},
		Fn: func(_ Machine, args []Value) (Value, error) {
			return fn(args[0])
		},
	}
}

// numeric adapts a one-argument function of a double.
func numeric(name string, fn func(float64) (Value, error)) *Builtin {
	return unary(name, "x", func(v Value) (Value, error) {
		x, err := v.AsDouble()
		if err != nil {
			return Nil, err
		}

		return fn(x)
	})
}
