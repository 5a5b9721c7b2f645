package resolve

// Stack is the chain of references currently being expanded by one
// depth-first descent. Sibling branches may expand the same reference; only a
// reference already on the stack is a cycle.
//
// A Stack is owned by a single top-level render call and is passed down
// explicitly. The zero value is an empty stack.
type Stack struct {
	refs []string
}

// Contains reports whether ref is being expanded on the current path.
func (s *Stack) Contains(ref string) bool {
	for _, r := range s.refs {
		if r == ref {
			return true
		}
	}
	return false
}

// Enter pushes ref and returns the function that pops it. Callers defer the
// returned function so the stack is restored on every exit path.
func (s *Stack) Enter(ref string) (leave func()) {
	s.refs = append(s.refs, ref)
	n := len(s.refs)
	return func() {
		s.refs = s.refs[:n-1]
	}
}

// Depth returns the number of references on the stack.
func (s *Stack) Depth() int { return len(s.refs) }

// Refs returns a copy of the stack, outermost first.
func (s *Stack) Refs() []string { return append([]string(nil), s.refs...) }
