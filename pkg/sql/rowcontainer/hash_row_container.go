// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package rowcontainer

import (
	"context"
	"math"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/execstats"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc/keyside"
	"github.com/cockroachdb/execcore/pkg/util/log"
	"github.com/cockroachdb/swiss"
	"github.com/dustin/go-humanize"
)

// chain links the rows sharing a key. Rows are numbered in insertion order
// and next[i] is the row following row i in its chain, or -1.
type chain struct {
	head, tail int32
}

const (
	sizeOfDatums = int64(unsafe.Sizeof(rowenc.Datums{}))
	sizeOfChain  = int64(unsafe.Sizeof(chain{}))
	sizeOfInt32  = int64(unsafe.Sizeof(int32(0)))
)

// HashRowContainer is an in-memory multimap from the canonical encoding of
// a set of key columns to the rows stored with that key. It is the build
// side of a hash join.
//
// Rows with the same key are returned in the order they were added. Rows
// whose key contains a NULL are not stored since they can never match.
// The container is not safe for concurrent use.
type HashRowContainer struct {
	keyCols []int
	buckets *swiss.Map[string, chain]
	rows    []rowenc.Datums
	next    []int32
	alloc   rowenc.DatumAlloc

	keyBuf   []byte
	memUsage int64
	nullKeys int
	metrics  *execstats.Metrics
}

// NewHashRowContainer returns a container keyed by the given columns of the
// stored rows. metrics may be nil.
func NewHashRowContainer(
	keyCols []int, initialCapacity int, metrics *execstats.Metrics,
) *HashRowContainer {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &HashRowContainer{
		keyCols: keyCols,
		buckets: swiss.New[string, chain](initialCapacity),
		metrics: metrics,
	}
}

// AddRow copies row into the container. It returns false if the row was
// skipped because its key contains a NULL. An error retained by a lazily
// decoded row is returned as is.
func (c *HashRowContainer) AddRow(ctx context.Context, row rowenc.Tuple) (bool, error) {
	key, hasNull := c.encodeKey(row, c.keyCols)
	if err := rowenc.Err(row); err != nil {
		return false, err
	}
	if hasNull {
		c.nullKeys++
		return false, nil
	}
	copied := c.alloc.CopyRow(row)
	if err := rowenc.Err(row); err != nil {
		return false, err
	}
	if len(c.rows) >= math.MaxInt32 {
		return false, errors.AssertionFailedf("hash row container overflow")
	}
	idx := int32(len(c.rows))
	c.rows = append(c.rows, copied)
	c.next = append(c.next, -1)

	delta := sizeOfDatums + sizeOfInt32
	for _, d := range copied {
		if d != nil {
			delta += int64(d.Size())
		}
	}
	k := string(key)
	if ch, ok := c.buckets.Get(k); ok {
		c.next[ch.tail] = idx
		ch.tail = idx
		c.buckets.Put(k, ch)
	} else {
		c.buckets.Put(k, chain{head: idx, tail: idx})
		delta += int64(len(k)) + sizeOfChain
	}
	c.memUsage += delta
	c.metrics.BuildRowAdded()
	c.metrics.HashTableGrown(delta)
	if log.V(3) {
		log.Infof(ctx, "stored row %s", copied)
	}
	return true, nil
}

func (c *HashRowContainer) encodeKey(row rowenc.Tuple, keyCols []int) ([]byte, bool) {
	buf := c.keyBuf[:0]
	hasNull := false
	for _, col := range keyCols {
		var null bool
		buf, null = keyside.EncodeDatum(buf, row.Get(col))
		hasNull = hasNull || null
	}
	c.keyBuf = buf
	return buf, hasNull
}

// Find returns an iterator over the stored rows whose key equals the key
// formed by probeCols of probe. A probe key containing a NULL matches
// nothing. The iterator is invalidated by AddRow and Reset.
func (c *HashRowContainer) Find(probe rowenc.Tuple, probeCols []int) (HashIterator, error) {
	if len(probeCols) != len(c.keyCols) {
		return HashIterator{}, errors.AssertionFailedf(
			"probing with %d key columns, container has %d", len(probeCols), len(c.keyCols))
	}
	key, hasNull := c.encodeKey(probe, probeCols)
	if err := rowenc.Err(probe); err != nil {
		return HashIterator{}, err
	}
	if hasNull {
		return HashIterator{idx: -1}, nil
	}
	ch, ok := c.buckets.Get(string(key))
	if !ok {
		return HashIterator{idx: -1}, nil
	}
	return HashIterator{c: c, idx: ch.head}, nil
}

// Len returns the number of stored rows.
func (c *HashRowContainer) Len() int { return len(c.rows) }

// NumKeys returns the number of distinct stored keys.
func (c *HashRowContainer) NumKeys() int { return c.buckets.Len() }

// NullKeys returns the number of rows skipped because of a NULL key.
func (c *HashRowContainer) NullKeys() int { return c.nullKeys }

// MemUsage returns an estimate of the memory held by the container.
func (c *HashRowContainer) MemUsage() int64 { return c.memUsage }

// Reset removes all rows, keeping the container usable.
func (c *HashRowContainer) Reset(ctx context.Context) {
	if c.memUsage > 0 {
		log.VEventf(ctx, 2, "releasing %d rows (%s)", len(c.rows), humanize.IBytes(uint64(c.memUsage)))
	}
	c.metrics.HashTableGrown(-c.memUsage)
	c.buckets.Clear()
	c.rows = nil
	c.next = nil
	c.alloc.Reset()
	c.memUsage = 0
	c.nullKeys = 0
}

// Close releases all memory. The container must not be used afterwards.
func (c *HashRowContainer) Close(ctx context.Context) {
	if c.buckets == nil {
		return
	}
	c.Reset(ctx)
	c.buckets = nil
}

// HashIterator iterates over the rows of one key.
type HashIterator struct {
	c   *HashRowContainer
	idx int32
}

// Valid returns whether the iterator points at a row.
func (it *HashIterator) Valid() bool { return it.idx >= 0 && it.c != nil }

// Row returns the current row. It must only be called when Valid is true.
func (it *HashIterator) Row() rowenc.Datums { return it.c.rows[it.idx] }

// Next advances to the next row with the same key.
func (it *HashIterator) Next() { it.idx = it.c.next[it.idx] }
