// Package journal is an append-only pebble-backed log of trade prints and
// ticks. It exists for audit and offline analytics (replay into the
// marketdata statistics); it is not a recovery mechanism and the matching
// engine never reads it back to rebuild a book.
package journal

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/cockroachdb/pebble"

	"github.com/uhyunpark/limitbook/pkg/book"
	"github.com/uhyunpark/limitbook/pkg/marketdata"
)

// keys: t:<8-byte-seq> for trades, k:<8-byte-seq> for ticks; big-endian so
// iteration order is append order.
var (
	tradePrefix = []byte("t:")
	tickPrefix  = []byte("k:")
)

type Journal struct {
	db *pebble.DB

	mu       sync.Mutex
	tradeSeq uint64
	tickSeq  uint64
}

// Open opens (or creates) a journal at path and resumes sequence numbering
// from whatever is already on disk.
func Open(path string) (*Journal, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	j := &Journal{db: db}
	if j.tradeSeq, err = lastSeq(db, tradePrefix); err != nil {
		db.Close()
		return nil, err
	}
	if j.tickSeq, err = lastSeq(db, tickPrefix); err != nil {
		db.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) Close() error { return j.db.Close() }

// AppendTrade records one trade print.
func (j *Journal) AppendTrade(t book.Trade) error {
	j.mu.Lock()
	j.tradeSeq++
	key := seqKey(tradePrefix, j.tradeSeq)
	j.mu.Unlock()
	return j.append(key, t)
}

// AppendTick records one tick.
func (j *Journal) AppendTick(t marketdata.Tick) error {
	j.mu.Lock()
	j.tickSeq++
	key := seqKey(tickPrefix, j.tickSeq)
	j.mu.Unlock()
	return j.append(key, t)
}

func (j *Journal) append(key []byte, v any) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode journal entry: %w", err)
	}
	if err := j.db.Set(key, val, pebble.Sync); err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

// ReplayTrades calls fn for every recorded trade in append order. fn
// returning an error stops the replay.
func (j *Journal) ReplayTrades(fn func(book.Trade) error) error {
	return replay(j.db, tradePrefix, fn)
}

// ReplayTicks calls fn for every recorded tick in append order.
func (j *Journal) ReplayTicks(fn func(marketdata.Tick) error) error {
	return replay(j.db, tickPrefix, fn)
}

func replay[T any](db *pebble.DB, prefix []byte, fn func(T) error) error {
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return fmt.Errorf("journal iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var v T
		if err := json.Unmarshal(iter.Value(), &v); err != nil {
			return fmt.Errorf("decode journal entry: %w", err)
		}
		if err := fn(v); err != nil {
			return err
		}
	}
	return iter.Error()
}

func seqKey(prefix []byte, seq uint64) []byte {
	key := make([]byte, len(prefix)+8)
	copy(key, prefix)
	binary.BigEndian.PutUint64(key[len(prefix):], seq)
	return key
}

// lastSeq finds the highest sequence already recorded under prefix.
func lastSeq(db *pebble.DB, prefix []byte) (uint64, error) {
	iter, err := db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: keyUpperBound(prefix),
	})
	if err != nil {
		return 0, fmt.Errorf("journal iterator: %w", err)
	}
	defer iter.Close()

	if !iter.Last() {
		return 0, iter.Error()
	}
	key := iter.Key()
	if len(key) != len(prefix)+8 {
		return 0, fmt.Errorf("malformed journal key %q", key)
	}
	return binary.BigEndian.Uint64(key[len(prefix):]), nil
}

// keyUpperBound returns the exclusive upper bound for a prefix scan.
func keyUpperBound(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil // entire keyspace
}
