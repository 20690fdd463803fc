package operator

import "github.com/busstoptaktik/geodesy/internal/gerr"

// Stack is the per-invocation operand stack used by push/pop/stack/swap.
// It lives for the duration of one apply call
// and is owned by the execution engine's call frame, not by the
// Context.
type Stack struct {
	vectors [][]float64
}

// NewStack returns an empty operand stack.
func NewStack() *Stack {
	return &Stack{}
}

// Push adds a new vector to the top of the stack.
func (s *Stack) Push(v []float64) {
	s.vectors = append(s.vectors, v)
}

// Pop removes and returns the top vector. Popping an empty stack is an
// Invariant violation.
func (s *Stack) Pop() ([]float64, error) {
	if len(s.vectors) == 0 {
		return nil, gerr.New(gerr.Invariant, "pop from empty operand stack")
	}
	top := s.vectors[len(s.vectors)-1]
	s.vectors = s.vectors[:len(s.vectors)-1]
	return top, nil
}

// Swap exchanges the top two vectors of the stack.
func (s *Stack) Swap() error {
	n := len(s.vectors)
	if n < 2 {
		return gerr.New(gerr.Invariant, "swap requires at least two stacked vectors")
	}
	s.vectors[n-1], s.vectors[n-2] = s.vectors[n-2], s.vectors[n-1]
	return nil
}

// Dup duplicates the top vector of the stack (the bare "stack"
// operator.
func (s *Stack) Dup() error {
	if len(s.vectors) == 0 {
		return gerr.New(gerr.Invariant, "stack (dup) on empty operand stack")
	}
	top := s.vectors[len(s.vectors)-1]
	cp := make([]float64, len(top))
	copy(cp, top)
	s.vectors = append(s.vectors, cp)
	return nil
}

// Len reports the number of vectors currently on the stack.
func (s *Stack) Len() int { return len(s.vectors) }
