package rt

import "testing"

// TestMonotoneCounters checks that consecutive NextTask calls on one
// Runtime produce 1, 2, 3, ...
func TestMonotoneCounters(t *testing.T) {
	r := New(0, RoundRobin(2))
	for want := uint64(1); want <= 5; want++ {
		id, _ := r.NextTask()
		if uint64(id) != want {
			t.Fatalf("NextTask() = %d, want %d", id, want)
		}
	}
}

// TestWorkerAgreement checks that every worker's Runtime produces the same
// TaskID for a given submission index, and agrees on who owns it.
func TestWorkerAgreement(t *testing.T) {
	const nbThreads = 4
	runtimes := make([]*Runtime, nbThreads)
	for i := range runtimes {
		runtimes[i] = New(i, RoundRobin(nbThreads))
	}

	for step := 1; step <= 20; step++ {
		owners := 0
		var firstID uint64
		for i, r := range runtimes {
			id, ownership := r.NextTask()
			if i == 0 {
				firstID = uint64(id)
			} else if uint64(id) != firstID {
				t.Fatalf("step %d: worker %d got TaskID %d, want %d", step, i, id, firstID)
			}
			if ownership == Owner {
				owners++
			}
		}
		if owners != 1 {
			t.Fatalf("step %d: %d workers claimed ownership, want exactly 1", step, owners)
		}
	}
}

// TestDefaultMappingArgumentIsPostIncrement checks that NextTask's default
// mapping argument equals the freshly incremented TaskID, not the counter
// value from before the call.
func TestDefaultMappingArgumentIsPostIncrement(t *testing.T) {
	var seenArgs []uint64
	mapping := MappingFunc(func(args any) int {
		seenArgs = append(seenArgs, args.(uint64))
		return 0
	})
	r := New(0, mapping)
	for i := 0; i < 3; i++ {
		r.NextTask()
	}
	want := []uint64{1, 2, 3}
	for i, w := range want {
		if seenArgs[i] != w {
			t.Errorf("seenArgs[%d] = %d, want %d", i, seenArgs[i], w)
		}
	}
}

func TestFixedMapping(t *testing.T) {
	m := Fixed(2)
	for _, args := range []any{uint64(1), uint64(900), "anything"} {
		if got := m.Owner(args); got != 2 {
			t.Errorf("Fixed(2).Owner(%v) = %d, want 2", args, got)
		}
	}
}

func TestBlockCyclic2D(t *testing.T) {
	m := BlockCyclic2D(4, 6) // 24 workers total, matching the LU example
	got := m.Owner(Coord2D{Row: 5, Col: 7})
	want := (5%4)*6 + 7%6
	if got != want {
		t.Errorf("BlockCyclic2D.Owner = %d, want %d", got, want)
	}
}
