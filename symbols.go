package expressio

// Symbols is a table of named constants and functions. Constants and functions
// share one namespace, so setting a name replaces whatever was bound to it
// before, whether a constant or a function. The zero value is an empty table
// ready to use.
//
// Symbols is not safe for concurrent use if any goroutine modifies it.
type Symbols struct {
	m map[string]binding
}

// binding is a constant if fn is nil and a function otherwise.
type binding struct {
	fn  Func
	val float64
}

// SetConst binds name to a constant.
func (s *Symbols) SetConst(name string, val float64) {
	s.set(name, binding{val: val})
}

// SetFunc binds name to a function. Panics if fn is nil.
func (s *Symbols) SetFunc(name string, fn Func) {
	if fn == nil {
		panic("expressio: nil Func for " + name)
	}
	s.set(name, binding{fn: fn})
}

func (s *Symbols) set(name string, b binding) {
	if s.m == nil {
		s.m = make(map[string]binding)
	}
	s.m[name] = b
}

// Remove deletes the binding for name. The result is whether there was one.
func (s *Symbols) Remove(name string) bool {
	_, ok := s.m[name]
	delete(s.m, name)
	return ok
}

// Const returns the value of a constant. If name is unbound or bound to a
// function, the result is 0, false.
func (s *Symbols) Const(name string) (float64, bool) {
	b, ok := s.m[name]
	if !ok || b.fn != nil {
		return 0, false
	}
	return b.val, true
}

// Function returns the function bound to name. If name is unbound or bound to
// a constant, the result is nil, false.
func (s *Symbols) Function(name string) (Func, bool) {
	b := s.m[name]
	return b.fn, b.fn != nil
}

func (s *Symbols) lookup(name string) (binding, bool) {
	b, ok := s.m[name]
	return b, ok
}

// Len returns the number of bound names.
func (s *Symbols) Len() int {
	return len(s.m)
}

// Names returns all bound names, sorted.
func (s *Symbols) Names() []string {
	r := make([]string, 0, len(s.m))
	for k := range s.m {
		r = append(r, k)
	}
	sortstrs(r)
	return r
}

// clone creates a copy of the table. Funcs are shared.
func (s *Symbols) clone() Symbols {
	if s.m == nil {
		return Symbols{}
	}
	m := make(map[string]binding, len(s.m))
	for k, v := range s.m {
		m[k] = v
	}
	return Symbols{m: m}
}
