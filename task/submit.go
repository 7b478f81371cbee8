// Package task is the declarative task-submission surface. Every worker
// calls the same sequence of Submit* functions, in the same order, for the
// same logical task sequence; each call asks the Runtime for the next
// (TaskID, Ownership) and then either runs the task body (owner) or merely
// advances local bookkeeping (non-owner).
//
// The original implementation expresses this as a single `task!` macro that
// expands differently depending on the shape of the read/write set and
// whether a custom mapping argument is given. Go has no macros, so each
// macro expansion becomes its own generic function here: one per (number of
// reads, number of writes) arity actually used by this repository, plus a
// Dependency-based escape hatch (SubmitDeps) for read/write sets whose size
// isn't known until runtime.
package task

import (
	"github.com/loomrt/loom/data"
	"github.com/loomrt/loom/rt"
)

// Submit0 runs fn with no read or write set: a pure compute task whose
// only synchronization is its position in the submission sequence.
func Submit0(r *rt.Runtime, fn func()) {
	_, ownership := r.NextTask()
	if ownership == rt.Owner {
		fn()
	}
}

// Submit0Args is Submit0 with a custom mapping argument.
func Submit0Args(r *rt.Runtime, args any, fn func()) {
	_, ownership := r.NextTaskArgs(args)
	if ownership == rt.Owner {
		fn()
	}
}

// SubmitR1 runs fn with shared read access to a.
func SubmitR1[A any](r *rt.Runtime, a *data.Data[A], fn func(A)) {
	_, ownership := r.NextTask()
	if ownership == rt.Owner {
		ha := a.GetRead()
		defer ha.Release()
		fn(ha.Value())
	} else {
		a.DeclareRead()
	}
}

// SubmitW1 runs fn with exclusive write access to a.
func SubmitW1[A any](r *rt.Runtime, a *data.Data[A], fn func(*A)) {
	id, ownership := r.NextTask()
	if ownership == rt.Owner {
		ha := a.GetWrite(id)
		defer ha.Release()
		fn(ha.Value())
	} else {
		a.DeclareWrite(id)
	}
}

// SubmitW1Args is SubmitW1 with a custom mapping argument, used e.g. by the
// blocked LU factorization example's block-cyclic tile mapping.
func SubmitW1Args[A any](r *rt.Runtime, args any, a *data.Data[A], fn func(*A)) {
	id, ownership := r.NextTaskArgs(args)
	if ownership == rt.Owner {
		ha := a.GetWrite(id)
		defer ha.Release()
		fn(ha.Value())
	} else {
		a.DeclareWrite(id)
	}
}

// SubmitR1W1 runs fn with shared read access to a and exclusive write
// access to b, the common "read one, update another" task shape.
func SubmitR1W1[A, B any](r *rt.Runtime, a *data.Data[A], b *data.Data[B], fn func(A, *B)) {
	id, ownership := r.NextTask()
	if ownership == rt.Owner {
		ha := a.GetRead()
		hb := b.GetWrite(id)
		defer hb.Release()
		defer ha.Release()
		fn(ha.Value(), hb.Value())
	} else {
		a.DeclareRead()
		b.DeclareWrite(id)
	}
}

// SubmitR1W1Args is SubmitR1W1 with a custom mapping argument.
func SubmitR1W1Args[A, B any](r *rt.Runtime, args any, a *data.Data[A], b *data.Data[B], fn func(A, *B)) {
	id, ownership := r.NextTaskArgs(args)
	if ownership == rt.Owner {
		ha := a.GetRead()
		hb := b.GetWrite(id)
		defer hb.Release()
		defer ha.Release()
		fn(ha.Value(), hb.Value())
	} else {
		a.DeclareRead()
		b.DeclareWrite(id)
	}
}

// SubmitR2W1 runs fn with shared read access to a and b, and exclusive
// write access to c, the two-reads-one-write GEMM shape used by the
// matrix-multiply and LU examples.
func SubmitR2W1[A, B, C any](r *rt.Runtime, a *data.Data[A], b *data.Data[B], c *data.Data[C], fn func(A, B, *C)) {
	id, ownership := r.NextTask()
	if ownership == rt.Owner {
		ha := a.GetRead()
		hb := b.GetRead()
		hc := c.GetWrite(id)
		defer hc.Release()
		defer hb.Release()
		defer ha.Release()
		fn(ha.Value(), hb.Value(), hc.Value())
	} else {
		a.DeclareRead()
		b.DeclareRead()
		c.DeclareWrite(id)
	}
}

// SubmitR2W1Args is SubmitR2W1 with a custom mapping argument.
func SubmitR2W1Args[A, B, C any](r *rt.Runtime, args any, a *data.Data[A], b *data.Data[B], c *data.Data[C], fn func(A, B, *C)) {
	id, ownership := r.NextTaskArgs(args)
	if ownership == rt.Owner {
		ha := a.GetRead()
		hb := b.GetRead()
		hc := c.GetWrite(id)
		defer hc.Release()
		defer hb.Release()
		defer ha.Release()
		fn(ha.Value(), hb.Value(), hc.Value())
	} else {
		a.DeclareRead()
		b.DeclareRead()
		c.DeclareWrite(id)
	}
}

// SubmitDeps is the fully general escape hatch: reads and writes whose size
// isn't fixed at compile time, built from data.Dependency (the type-erased
// view every *data.Data[T] satisfies). fn receives no typed values: the
// reads and writes are only ordered around it (e.g. semaphore-like
// Data[struct{}] tokens). With a nil args, the default mapping argument of
// NextTask is used.
func SubmitDeps(r *rt.Runtime, args any, reads, writes []data.Dependency, fn func()) {
	var id rt.Ownership
	var taskID data.TaskID
	if args == nil {
		taskID, id = r.NextTask()
	} else {
		taskID, id = r.NextTaskArgs(args)
	}

	if id == rt.Owner {
		releases := make([]func(), 0, len(reads)+len(writes))
		for _, dep := range reads {
			releases = append(releases, dep.AcquireRead())
		}
		for _, dep := range writes {
			releases = append(releases, dep.AcquireWrite(taskID))
		}
		defer func() {
			for i := len(releases) - 1; i >= 0; i-- {
				releases[i]()
			}
		}()
		fn()
		return
	}

	for _, dep := range reads {
		dep.DeclareRead()
	}
	for _, dep := range writes {
		dep.DeclareWrite(taskID)
	}
}
