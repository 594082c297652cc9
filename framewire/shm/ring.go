// Package shm implements the shared-memory event channel between the
// presentation and compute contexts: a wait-free, fixed-capacity ring
// buffer of raw bytes with exactly one producer and one consumer.
//
// Correctness relies on the single-producer/single-consumer invariant:
// the producer is the only writer of the tail index and of unclaimed
// buffer space, the consumer is the only writer of the head index. Data
// writes are published before the index store, so the other side never
// observes an index covering bytes it cannot yet read.
package shm

import (
	"errors"
	"fmt"
	"sync/atomic"
)

// DefaultCapacity is the default backing store size in bytes.
const DefaultCapacity = 1024

var (
	ErrCapacityNotPowerOfTwo = errors.New("shm: capacity must be a power of two")
	ErrRecordSize            = errors.New("shm: record size must be positive and divide capacity")
)

// Ring is a fixed-capacity SPSC byte channel carrying fixed-width records.
// Capacity is set at construction and never changes. A full ring rejects
// the newest push rather than overwriting unread data; an empty ring
// reports no record rather than blocking.
type Ring struct {
	region []byte
	mask   uint32
	record int

	// Free-running byte counters, wrapped via mask on access. tail is
	// advanced only by the producer, head only by the consumer.
	head atomic.Uint32
	tail atomic.Uint32

	dropped atomic.Uint64
}

// New creates a ring over a freshly allocated region of the given capacity,
// carrying records of recordSize bytes. Capacity must be a power of two and
// a multiple of the record size.
func New(capacity, recordSize int) (*Ring, error) {
	if capacity <= 0 || capacity&(capacity-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrCapacityNotPowerOfTwo, capacity)
	}
	if recordSize <= 0 || capacity%recordSize != 0 {
		return nil, fmt.Errorf("%w: record %d, capacity %d", ErrRecordSize, recordSize, capacity)
	}
	return &Ring{
		region: make([]byte, capacity),
		mask:   uint32(capacity - 1),
		record: recordSize,
	}, nil
}

// TryPush appends one record without blocking. It returns false and drops
// the record if the ring is full. Must be called from a single producer.
func (r *Ring) TryPush(rec []byte) bool {
	if len(rec) != r.record {
		return false
	}
	tail := r.tail.Load()
	head := r.head.Load()
	if int(tail-head) > len(r.region)-r.record {
		r.dropped.Add(1)
		return false
	}
	for i, b := range rec {
		r.region[(tail+uint32(i))&r.mask] = b
	}
	// Publish the data before the index becomes visible to the consumer.
	r.tail.Store(tail + uint32(r.record))
	return true
}

// TryPop removes one record into dst without blocking, returning false if
// no record is pending. dst must hold at least one record. Must be called
// from a single consumer.
func (r *Ring) TryPop(dst []byte) bool {
	head := r.head.Load()
	tail := r.tail.Load()
	if int(tail-head) < r.record {
		return false
	}
	for i := 0; i < r.record; i++ {
		dst[i] = r.region[(head+uint32(i))&r.mask]
	}
	r.head.Store(head + uint32(r.record))
	return true
}

// Len returns the number of records currently queued.
func (r *Ring) Len() int {
	return int(r.tail.Load()-r.head.Load()) / r.record
}

// Capacity returns the maximum number of records the ring can hold.
func (r *Ring) Capacity() int {
	return len(r.region) / r.record
}

// Dropped returns the number of records rejected because the ring was
// full. Drops are expected degradation under burst load, never an error.
func (r *Ring) Dropped() uint64 {
	return r.dropped.Load()
}
