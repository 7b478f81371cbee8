// Package data implements Data[T], the point-to-point synchronization
// primitive at the core of the runtime.
//
// A Data[T] is cloned once per worker before the computation starts. Every
// clone shares the same underlying value and shared record, but keeps its
// own local view of what it has declared. Tasks that only declare a read or
// write (because some other worker owns them) never touch the shared lock;
// only the owning worker's Get/Release pair does. GetRead skips the lock
// when its local view shows no declared write since its last access;
// GetWrite and both Release methods always take it.
package data

import "sync"

// TaskID is a unique, monotonically increasing task identifier. Zero means
// "no task has touched this datum yet".
type TaskID uint64

// Data is the synchronization primitive wrapping a value of type T. It must
// never be copied by value; clone it with Clone instead, which shares the
// underlying value while giving the clone a fresh, zeroed local view.
type Data[T any] struct {
	local  localView
	shared *sharedView[T]
}

// localView is the per-holder record of what this holder has declared on
// the datum. It is never touched by any goroutine other than the one that
// owns this particular Data[T] value, so it needs no locking of its own.
type localView struct {
	lastRegisteredWrite uint64
	nbReadsSinceWrite   uint64
	dirty               bool
}

// sharedView is the refcounted, mutex-guarded record of what has actually
// executed on this datum, plus the value itself.
type sharedView[T any] struct {
	mu               sync.Mutex
	cond             *sync.Cond
	lastExecuted     uint64
	nbReadsExecuted  uint64
	nbThreadsWaiting int
	value            T
}

// New creates a Data holding value, with an all-zero local view.
func New[T any](value T) *Data[T] {
	s := &sharedView[T]{value: value}
	s.cond = sync.NewCond(&s.mu)
	return &Data[T]{shared: s}
}

// Clone produces an independent holder of the same underlying datum: it
// shares the refcounted shared view but starts with a freshly-zeroed local
// view, exactly as every worker starts equally uninformed about a datum's
// history.
func (d *Data[T]) Clone() *Data[T] {
	return &Data[T]{shared: d.shared}
}

// DeclareRead records, in the local view only, that a read task on this
// datum has been submitted. Workers that are not the owner of a
// given task call exactly this (never GetRead) to keep their local view in
// step with what the owner will do.
func (d *Data[T]) DeclareRead() {
	d.local.nbReadsSinceWrite++
}

// DeclareWrite records, in the local view only, that a write task with the
// given id has been submitted on this datum. Non-owners call it directly;
// the owner's WriteHandle.Release calls it once the write has executed.
func (d *Data[T]) DeclareWrite(id TaskID) {
	d.local.lastRegisteredWrite = uint64(id)
	d.local.nbReadsSinceWrite = 0
	d.local.dirty = true
}

// readIsReady reports whether a read may proceed without waiting. Must be
// called with d.shared.mu held.
func (d *Data[T]) readIsReady() bool {
	return d.shared.lastExecuted == d.local.lastRegisteredWrite
}

// writeIsReady reports whether a write may proceed without waiting. Must be
// called with d.shared.mu held.
func (d *Data[T]) writeIsReady() bool {
	return d.shared.lastExecuted == d.local.lastRegisteredWrite &&
		d.shared.nbReadsExecuted == d.local.nbReadsSinceWrite
}

// ReadHandle grants shared, read-only access to a Data's value. It must be
// released (via Release, or the defer pattern the task package wraps around
// every Submit call) on every exit path, including panics, or any later
// writer on the same Data blocks forever.
type ReadHandle[T any] struct {
	d *Data[T]
}

// Value returns the datum's current value.
func (h ReadHandle[T]) Value() T {
	return h.d.shared.value
}

// Release marks this read as completed, publishing it to the shared record
// and waking any worker parked on this Data's condition variable.
func (h ReadHandle[T]) Release() {
	d := h.d
	d.DeclareRead()
	d.local.dirty = false

	d.shared.mu.Lock()
	d.shared.nbReadsExecuted++
	woke := d.shared.nbThreadsWaiting > 0
	d.shared.mu.Unlock()
	if woke {
		d.shared.cond.Broadcast()
	}
}

// WriteHandle grants exclusive access to a Data's value. Like ReadHandle it
// must be released on every exit path.
type WriteHandle[T any] struct {
	d  *Data[T]
	id TaskID
}

// Value returns a pointer to the datum, valid for mutation until Release.
func (h WriteHandle[T]) Value() *T {
	return &h.d.shared.value
}

// Release marks this write as completed.
func (h WriteHandle[T]) Release() {
	d := h.d
	d.DeclareWrite(h.id)
	d.local.dirty = false

	d.shared.mu.Lock()
	d.shared.lastExecuted = uint64(h.id)
	d.shared.nbReadsExecuted = 0
	woke := d.shared.nbThreadsWaiting > 0
	d.shared.mu.Unlock()
	if woke {
		d.shared.cond.Broadcast()
	}
}

// GetRead returns a handle granting read access to the datum, blocking
// until every write this holder has declared (or observed declared by
// another worker through DeclareWrite) has actually executed.
//
// Only the owner of a task should ever call GetRead; non-owners call
// DeclareRead instead. Misuse is a precondition violation; the primitive
// does not defend against it. It is the caller's job, via the task
// package, to make sure ownership and declaration stay in sync across
// every worker.
func (d *Data[T]) GetRead() ReadHandle[T] {
	if !d.local.dirty {
		// Nothing has been declared-written since we last had access: our
		// view is already current, no need to touch the shared lock.
		return ReadHandle[T]{d: d}
	}

	d.shared.mu.Lock()
	if d.readIsReady() {
		d.shared.mu.Unlock()
		return ReadHandle[T]{d: d}
	}
	d.shared.nbThreadsWaiting++
	for !d.readIsReady() {
		d.shared.cond.Wait()
	}
	d.shared.nbThreadsWaiting--
	d.shared.mu.Unlock()
	return ReadHandle[T]{d: d}
}

// GetWrite returns a handle granting exclusive access to the datum for the
// task identified by id, blocking until every prior read and write this
// holder has declared has actually executed. The caller must not have
// called DeclareWrite(id) for this task: the readiness check compares the
// shared record against the writes and reads declared before it, and
// WriteHandle.Release declares id itself (the task package's owner path
// calls GetWrite directly for every Submit variant).
func (d *Data[T]) GetWrite(id TaskID) WriteHandle[T] {
	d.shared.mu.Lock()
	if d.writeIsReady() {
		d.shared.mu.Unlock()
		return WriteHandle[T]{d: d, id: id}
	}
	d.shared.nbThreadsWaiting++
	for !d.writeIsReady() {
		d.shared.cond.Wait()
	}
	d.shared.nbThreadsWaiting--
	d.shared.mu.Unlock()
	return WriteHandle[T]{d: d, id: id}
}

// AcquireRead is GetRead followed by discarding the typed value, returning
// only a release closure. It lets *Data[T] satisfy Dependency below for
// callers that need this datum ordered correctly but don't need its value
// inside the task body (see task.SubmitDeps).
func (d *Data[T]) AcquireRead() func() {
	h := d.GetRead()
	return h.Release
}

// AcquireWrite is the write counterpart of AcquireRead.
func (d *Data[T]) AcquireWrite(id TaskID) func() {
	h := d.GetWrite(id)
	return h.Release
}

// Dependency is the type-erased view of a Data[T] used by task.SubmitDeps
// to build read/write sets whose size isn't known until runtime, or whose
// members don't all need to be named in the Go type signature of the task
// body. Every *Data[T] satisfies it.
type Dependency interface {
	DeclareRead()
	DeclareWrite(TaskID)
	AcquireRead() func()
	AcquireWrite(TaskID) func()
}
