// Package rt implements the per-worker Runtime: the piece that turns a
// sequence of identical task submissions, run in parallel on every worker,
// into an agreed-upon (TaskID, Ownership) pair without any communication
// between workers.
package rt

import "github.com/loomrt/loom/data"

// Ownership records whether the calling worker is responsible for actually
// executing a given task.
type Ownership int

const (
	// NotOwner means some other worker executes this task; the caller must
	// only update its local bookkeeping (see the task package).
	NotOwner Ownership = iota
	// Owner means the calling worker must execute the task body.
	Owner
)

func (o Ownership) String() string {
	if o == Owner {
		return "Owner"
	}
	return "NotOwner"
}

// Mapping deterministically assigns a worker id in [0, nbThreads) to a
// mapping argument. The same argument must produce the same result on
// every worker; if it doesn't, workers will disagree on task ownership,
// and the data races that follow from it are the caller's to avoid, not
// something this primitive can detect.
//
// The argument type is any rather than a type parameter: unlike
// Data[T], whose whole point is a type-safe payload, a Runtime's mapping
// argument varies per call site within the same program (a plain TaskID for
// round robin, a (row, col) pair for a 2D block-cyclic layout, ...), and Go
// generics don't support that kind of call-site polymorphism on a single
// method. This mirrors how the teacher's own Task.Data field is untyped.
type Mapping interface {
	Owner(args any) int
}

// MappingFunc adapts a plain function to the Mapping interface, the way the
// original Rust trait is automatically implemented for any matching
// closure.
type MappingFunc func(args any) int

// Owner implements Mapping.
func (f MappingFunc) Owner(args any) int { return f(args) }

// RoundRobin returns a Mapping that assigns worker id % nbThreads to a
// uint64 mapping argument, i.e. it cycles through workers in submission
// order when used with NextTask's default argument (the TaskID itself).
func RoundRobin(nbThreads int) Mapping {
	return MappingFunc(func(args any) int {
		id := args.(uint64)
		return int(id % uint64(nbThreads))
	})
}

// Fixed returns a Mapping that always assigns the given worker, regardless
// of argument. Useful for pinning a whole computation (or a single hot
// Data) to one worker.
func Fixed(worker int) Mapping {
	return MappingFunc(func(any) int { return worker })
}

// Runtime is the thread-local state each worker uses to decide which tasks
// it owns. Every worker in a Go call constructs its own Runtime, with its
// own copy of the mapping, but all Runtimes agree on every (TaskID,
// Ownership) pair because every worker bumps its counter at the same
// points in the same order.
type Runtime struct {
	workerID int
	counter  uint64
	mapping  Mapping
}

// New constructs a Runtime for the given worker id and mapping. Called once
// per worker by Go (see the root loom package); user code rarely calls this
// directly.
func New(workerID int, mapping Mapping) *Runtime {
	return &Runtime{workerID: workerID, mapping: mapping}
}

// WorkerID returns this Runtime's worker identifier.
func (r *Runtime) WorkerID() int { return r.workerID }

// NextTaskArgs increments the task counter, forms the new TaskID, and
// evaluates the mapping with the caller-supplied argument, returning
// whether this worker owns the resulting task. It must be called exactly
// once per submission, in the same order, on every worker — the task
// package is the only place this should normally be called from.
func (r *Runtime) NextTaskArgs(args any) (data.TaskID, Ownership) {
	r.counter++
	id := data.TaskID(r.counter)
	ownership := NotOwner
	if r.mapping.Owner(args) == r.workerID {
		ownership = Owner
	}
	return id, ownership
}

// NextTask is NextTaskArgs using the post-increment TaskID itself as the
// mapping argument. This replicates the original source's exact behavior:
// the argument passed to the mapping is computed as r.counter+1 before
// NextTaskArgs bumps the counter, so by the time the mapping actually runs,
// r.counter has become that same value — the mapping always sees the new
// TaskID, never the old one.
func (r *Runtime) NextTask() (data.TaskID, Ownership) {
	return r.NextTaskArgs(r.counter + 1)
}
