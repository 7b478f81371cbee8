package rt

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// HashMapping returns a Mapping that assigns a worker by hashing the
// mapping argument with xxhash (uint64 and int arguments as their 8-byte
// little-endian encoding, anything else as its fmt.Sprint string form),
// rather than assuming it is
// already a small dense integer. This is useful when tasks are keyed by
// something other than the task counter — an account address, a shard
// name — where RoundRobin's modulo would cluster badly or simply doesn't
// type-check against a non-numeric argument.
func HashMapping(nbThreads int) Mapping {
	return MappingFunc(func(args any) int {
		var buf [8]byte
		var h uint64
		switch v := args.(type) {
		case uint64:
			binary.LittleEndian.PutUint64(buf[:], v)
			h = xxhash.Sum64(buf[:])
		case int:
			binary.LittleEndian.PutUint64(buf[:], uint64(v))
			h = xxhash.Sum64(buf[:])
		default:
			h = xxhash.Sum64String(fmt.Sprint(v))
		}
		return int(h % uint64(nbThreads))
	})
}

// Coord2D is the mapping argument type for BlockCyclic2D and
// BlockCyclic1D: a (row, col) tile coordinate, as used by the blocked LU
// factorization example.
type Coord2D struct {
	Row, Col int
}

// BlockCyclic1D returns a Mapping over Coord2D arguments that assigns
// worker (row + col*nbCols) % nbThreads, a 1D block-cyclic layout across a
// tile grid nbCols tiles wide.
func BlockCyclic1D(nbThreads, nbCols int) Mapping {
	return MappingFunc(func(args any) int {
		c := args.(Coord2D)
		return (c.Row + c.Col*nbCols) % nbThreads
	})
}

// BlockCyclic2D returns a Mapping over Coord2D arguments that assigns
// worker (row % rowBlocks)*colBlocks + (col % colBlocks), a 2D block-cyclic
// layout requiring exactly rowBlocks*colBlocks workers.
func BlockCyclic2D(rowBlocks, colBlocks int) Mapping {
	return MappingFunc(func(args any) int {
		c := args.(Coord2D)
		return (c.Row%rowBlocks)*colBlocks + c.Col%colBlocks
	})
}
