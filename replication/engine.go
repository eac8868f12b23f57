/*
Copyright (C) 2023  Carl-Philip Hänsch

    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU General Public License as published by
    the Free Software Foundation, either version 3 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU General Public License
    along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

// Package replication implements the client-side optimistic
// replication protocol: it keeps a locally-predicted grid in sync with
// a totally-ordered server sequence while unsaved local transactions
// may be echoed back out of order, reordered by the server, or
// preceded by transactions from other peers.
//
// Every state-mutating call runs single-threaded against the engine's
// Grid, so the rollback/drain/reapply cycle below never races a
// concurrent mutation.
package replication

import (
	"time"

	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/op"
	"github.com/BlacksmithSoftware/quadratic/summary"
	"github.com/BlacksmithSoftware/quadratic/txn"
)

// unsavedEntry pairs a locally-applied user transaction with the
// inverse it produced at the time of application. Rollback replays
// Inverse; reapply replays Forward.Operations and recomputes a fresh
// Inverse for any future rollback — the engine never snapshots grid
// state outside the forward/inverse operation pair.
type unsavedEntry struct {
	Forward *txn.Transaction
	Inverse *txn.Transaction
}

// outOfOrderEntry is a server transaction received before its
// predecessor's sequence number has arrived.
type outOfOrderEntry struct {
	ID  grid.TransactionId
	Seq uint64
	Ops []op.Operation
}

// Engine is the per-file replication state machine. One Engine always
// pairs with exactly one txn.Executor over the same Grid.
type Engine struct {
	Executor *txn.Executor

	unsaved    []unsavedEntry
	outOfOrder []outOfOrderEntry
	maxUnsaved uint64 // 0 = unlimited

	lastSequenceNum uint64

	throttle      time.Duration
	lastRequestAt time.Time
	everRequested bool
}

// NewEngine builds a replication engine with the given gap-request
// throttle (the default is 5s, carried from config.Config) and unsaved
// backlog cap (0 = unlimited, the documented default).
func NewEngine(executor *txn.Executor, throttle time.Duration, maxUnsaved uint64) *Engine {
	return &Engine{Executor: executor, throttle: throttle, maxUnsaved: maxUnsaved}
}

func (e *Engine) LastSequenceNum() uint64 { return e.lastSequenceNum }
func (e *Engine) UnsavedCount() int       { return len(e.unsaved) }
func (e *Engine) OutOfOrderCount() int    { return len(e.outOfOrder) }

// UnsavedFull reports whether the unsaved backlog has reached its
// configured cap, i.e. whether a new local user transaction should be
// refused until more echoes arrive from the server.
func (e *Engine) UnsavedFull() bool {
	return e.maxUnsaved > 0 && uint64(len(e.unsaved)) >= e.maxUnsaved
}

// TrackUnsaved registers a just-applied user transaction as unsaved,
// awaiting server acknowledgement. Called by the GridController right
// after Executor.ApplyUser.
func (e *Engine) TrackUnsaved(forward, inverse *txn.Transaction) {
	e.unsaved = append(e.unsaved, unsavedEntry{Forward: forward, Inverse: inverse})
}

// MarkUndone drops an unsaved transaction the user undid locally before
// its server echo arrived. The transaction moves straight to a
// terminal undone state; its echo, if it ever arrives, is consumed and
// discarded as seq<=last once this entry is gone and last_sequence_num
// later passes its slot, or matched and ignored as a no-op remote
// transaction if it slots in as >last.
func (e *Engine) MarkUndone(id grid.TransactionId) {
	for i, u := range e.unsaved {
		if u.Forward.ID == id {
			e.unsaved = append(e.unsaved[:i], e.unsaved[i+1:]...)
			return
		}
	}
}

// ReceiveSequenceNum handles the server's periodic "here is my current
// highest sequence" broadcast, throttling recovery requests to at most
// one per e.throttle.
func (e *Engine) ReceiveSequenceNum(n uint64, now time.Time) *summary.Summary {
	if n == e.lastSequenceNum {
		return nil
	}
	if e.everRequested && now.Sub(e.lastRequestAt) < e.throttle {
		return nil
	}
	e.everRequested = true
	e.lastRequestAt = now
	sum := summary.New()
	want := e.lastSequenceNum + 1
	sum.RequestTransactions = &want
	return sum
}

// Delivery is one server-ordered transaction as handed to the engine by
// the transport's Transactions message.
type Delivery struct {
	ID  grid.TransactionId
	Seq uint64
	Ops []op.Operation
}

// ReceivedTransactions applies a batch of server-ordered transactions
// in order, merging all of their summaries into one.
func (e *Engine) ReceivedTransactions(deliveries []Delivery) *summary.Summary {
	acc := summary.New()
	for _, d := range deliveries {
		s := e.ReceivedTransaction(d.ID, d.Seq, d.Ops)
		acc = summary.Merge(acc, s)
	}
	acc.Save = false
	acc.Operations = nil
	return acc
}

// ReceivedTransaction is the single-delivery dispatcher.
func (e *Engine) ReceivedTransaction(id grid.TransactionId, seq uint64, ops []op.Operation) *summary.Summary {
	switch {
	case seq <= e.lastSequenceNum:
		// Already applied: drop silently.
		return summary.New()

	case seq > e.lastSequenceNum+1:
		e.insertOutOfOrder(outOfOrderEntry{ID: id, Seq: seq, Ops: ops})
		return summary.New()

	default: // seq == lastSequenceNum + 1
		return e.receiveNext(id, ops)
	}
}

func (e *Engine) insertOutOfOrder(entry outOfOrderEntry) {
	i := 0
	for i < len(e.outOfOrder) && e.outOfOrder[i].Seq < entry.Seq {
		i++
	}
	e.outOfOrder = append(e.outOfOrder, outOfOrderEntry{})
	copy(e.outOfOrder[i+1:], e.outOfOrder[i:])
	e.outOfOrder[i] = entry
}

func (e *Engine) indexOfUnsaved(id grid.TransactionId) int {
	for i, u := range e.unsaved {
		if u.Forward.ID == id {
			return i
		}
	}
	return -1
}

func (e *Engine) receiveNext(id grid.TransactionId, ops []op.Operation) *summary.Summary {
	idx := e.indexOfUnsaved(id)

	if idx == 0 {
		// Our own transaction, still at the head of the queue: the
		// server accepted it in the order we sent it. Nothing to
		// replay, just acknowledge and advance.
		e.unsaved = e.unsaved[1:]
		e.lastSequenceNum++
		if e.nextOutOfOrderReady() {
			sum := summary.New()
			e.rollback(sum)
			e.drainOutOfOrder(sum)
			e.reapplyUnsaved(sum)
			sum.Save = false
			sum.Operations = nil
			return sum
		}
		return summary.New()
	}

	if idx > 0 {
		// The server reordered our own transactions relative to each
		// other: roll everything back, splice this one in at its
		// rightful place, drain, and replay the remaining tail.
		sum := summary.New()
		e.rollback(sum)
		e.unsaved = append(e.unsaved[:idx], e.unsaved[idx+1:]...)
		e.applyBatchKeepSummary(ops, sum)
		e.lastSequenceNum++
		e.drainOutOfOrder(sum)
		e.reapplyUnsaved(sum)
		sum.Save = false
		sum.Operations = nil
		return sum
	}

	// Remote transaction, not one of ours.
	if len(e.unsaved) == 0 {
		sum := summary.New()
		e.applyBatchKeepSummary(ops, sum) // Multiplayer and MultiplayerKeepSummary are equivalent with a fresh summary
		e.lastSequenceNum++
		e.drainOutOfOrder(sum)
		sum.GenerateThumbnail = false // the change is not ours
		sum.Save = false
		sum.Operations = nil
		return sum
	}

	sum := summary.New()
	e.rollback(sum)
	e.applyBatchKeepSummary(ops, sum)
	e.lastSequenceNum++
	e.drainOutOfOrder(sum)
	e.reapplyUnsaved(sum)
	sum.Save = false
	sum.Operations = nil
	return sum
}

func (e *Engine) nextOutOfOrderReady() bool {
	return len(e.outOfOrder) > 0 && e.outOfOrder[0].Seq == e.lastSequenceNum+1
}

// rollback undoes every unsaved transaction, newest first, returning
// the grid to the last server-confirmed state.
func (e *Engine) rollback(sum *summary.Summary) {
	for i := len(e.unsaved) - 1; i >= 0; i-- {
		e.applyBatchKeepSummary(e.unsaved[i].Inverse.Operations, sum)
	}
}

// reapplyUnsaved replays each unsaved transaction's original forward
// operations in order, recording a fresh inverse for any subsequent
// rollback. Last-writer-wins falls out naturally: each transaction
// reapplies in the same relative order it was originally drafted in.
func (e *Engine) reapplyUnsaved(sum *summary.Summary) {
	for i := range e.unsaved {
		tx := e.unsaved[i].Forward
		inverse, err := e.Executor.ApplyMultiplayerKeepSummary(tx, sum)
		if err != nil {
			// The original operations applied cleanly once already;
			// a second failure means the engine's own invariant
			// (inverse/forward symmetry) broke.
			panic(err)
		}
		e.unsaved[i].Inverse = inverse
	}
}

// drainOutOfOrder repeatedly consumes the out-of-order head while it is
// exactly the next expected sequence, batching all such entries into a
// single MultiplayerKeepSummary apply.
func (e *Engine) drainOutOfOrder(sum *summary.Summary) {
	var batch []op.Operation
	drained := 0
	for len(e.outOfOrder) > 0 && e.outOfOrder[0].Seq == e.lastSequenceNum+1+uint64(drained) {
		batch = append(batch, e.outOfOrder[0].Ops...)
		e.outOfOrder = e.outOfOrder[1:]
		drained++
	}
	if drained == 0 {
		return
	}
	e.applyBatchKeepSummary(batch, sum)
	e.lastSequenceNum += uint64(drained)
}

func (e *Engine) applyBatchKeepSummary(ops []op.Operation, sum *summary.Summary) {
	if len(ops) == 0 {
		return
	}
	tx := &txn.Transaction{Operations: ops}
	if _, err := e.Executor.ApplyMultiplayerKeepSummary(tx, sum); err != nil {
		panic(err)
	}
}
