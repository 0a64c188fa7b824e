package pipeline

import "iter"

// stepper is the accumulator of one stage. step handles a single input item,
// yields zero or more composites, and returns false once yield does.
type stepper[In any] interface {
	step(in In, yield func(Composite) bool) bool
}

// transform runs a stage over in. Each iteration of the returned sequence
// starts from a fresh accumulator.
func transform[In any, S stepper[In]](in iter.Seq[In], newState func() S) iter.Seq[Composite] {
	return func(yield func(Composite) bool) {
		state := newState()
		for item := range in {
			if !state.step(item, yield) {
				return
			}
		}
	}
}
