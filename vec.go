package main

// vec is a growable array shared by line content and the buffer's line list.
// Capacity grows by step when exhausted and is only given back once the unused
// tail is larger than two steps, so alternating insert/delete around a step
// boundary never reallocates.
type vec[T any] struct {
	data []T
	step int
}

func newVec[T any](step int) vec[T] {
	if step < 1 {
		step = 1
	}
	return vec[T]{data: make([]T, 0, step), step: step}
}

func (v *vec[T]) len() int {
	return len(v.data)
}

func (v *vec[T]) cap() int {
	return cap(v.data)
}

func (v *vec[T]) at(i int) T {
	return v.data[i]
}

// items returns the live elements. The slice aliases the backing storage and
// is only valid until the next mutation.
func (v *vec[T]) items() []T {
	return v.data
}

// reserve makes room for n more elements.
func (v *vec[T]) reserve(n int) {
	need := len(v.data) + n
	if need <= cap(v.data) {
		return
	}

	newcap := cap(v.data)
	for newcap < need {
		newcap += max(v.step, newcap/2)
	}

	grown := make([]T, len(v.data), newcap)
	copy(grown, v.data)
	v.data = grown
}

// shrink reallocates only when the slack exceeds twice the step.
func (v *vec[T]) shrink() {
	if cap(v.data)-len(v.data) <= 2*v.step {
		return
	}

	shrunk := make([]T, len(v.data), len(v.data)+v.step)
	copy(shrunk, v.data)
	v.data = shrunk
}

func (v *vec[T]) insert(at int, xs ...T) {
	v.reserve(len(xs))
	n := len(v.data)
	v.data = v.data[:n+len(xs)]
	copy(v.data[at+len(xs):], v.data[at:n])
	copy(v.data[at:], xs)
}

func (v *vec[T]) push(xs ...T) {
	v.insert(len(v.data), xs...)
}

func (v *vec[T]) remove(at int) {
	copy(v.data[at:], v.data[at+1:])
	var zero T
	v.data[len(v.data)-1] = zero
	v.data = v.data[:len(v.data)-1]
	v.shrink()
}

// truncate drops everything from n on.
func (v *vec[T]) truncate(n int) {
	var zero T
	for i := n; i < len(v.data); i++ {
		v.data[i] = zero
	}
	v.data = v.data[:n]
	v.shrink()
}
