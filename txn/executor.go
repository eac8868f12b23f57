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

package txn

import (
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/op"
	"github.com/BlacksmithSoftware/quadratic/summary"
)

// Executor applies Transactions against one Grid, in any of five
// modes, producing a TransactionSummary and — for every mode except
// the multiplayer ones — maintaining the undo/redo stacks.
//
// Executor assumes exclusive, single-threaded ownership of its Grid
// for the duration of each call: there are no suspension points
// inside any of its methods.
type Executor struct {
	Grid     *grid.Grid
	UndoRedo *UndoRedoManager
}

func NewExecutor(g *grid.Grid) *Executor {
	return &Executor{Grid: g, UndoRedo: NewUndoRedoManager()}
}

// ApplyUser applies a freshly user-authored transaction: pushes its
// inverse to the undo stack, clears redo, and marks the summary
// save-worthy with the forward operations attached so an outer layer
// can forward them to peers.
// ApplyUser also returns the inverse transaction it pushed onto the
// undo stack, so a caller layering replication on top (GridController)
// can track the same transaction as unsaved without recomputing it.
func (e *Executor) ApplyUser(tx *Transaction) (*summary.Summary, *Transaction, error) {
	sum := summary.New()
	inverse, forwardOps, err := e.apply(tx, op.ModeUser, sum)
	if err != nil {
		return nil, nil, err
	}
	tx.Operations = forwardOps
	if len(inverse.Operations) > 0 {
		e.UndoRedo.PushUndo(inverse)
		e.UndoRedo.ClearRedo()
	}
	sum.Save = true
	tid := tx.ID
	sum.TransactionID = &tid
	if encoded, encErr := EncodeOperations(forwardOps); encErr == nil {
		sum.Operations = encoded
	}
	sum.Cursor = tx.Cursor
	return sum, inverse, nil
}

// ApplyMultiplayer applies a remote transaction in isolation: it does
// not touch the undo/redo stacks and never marks Save.
func (e *Executor) ApplyMultiplayer(tx *Transaction) (*summary.Summary, error) {
	sum := summary.New()
	_, forwardOps, err := e.apply(tx, op.ModeMultiplayer, sum)
	if err != nil {
		return nil, err
	}
	tx.Operations = forwardOps
	return sum, nil
}

// ApplyMultiplayerKeepSummary is the replication engine's workhorse: it
// merges this transaction's effects into an already-accumulating
// summary rather than starting a fresh one, so rollback + apply + drain
// + reapply all collapse into one rendering update. It also returns the
// inverse transaction, which the replication engine keeps alongside an
// unsaved entry so a later rollback never needs to recompute it.
func (e *Executor) ApplyMultiplayerKeepSummary(tx *Transaction, acc *summary.Summary) (*Transaction, error) {
	step := summary.New()
	inverse, forwardOps, err := e.apply(tx, op.ModeMultiplayerKeepSummary, step)
	if err != nil {
		return nil, err
	}
	tx.Operations = forwardOps
	merged := summary.Merge(acc, step)
	*acc = *merged
	return inverse, nil
}

// Undo pops the undo stack and applies its inverse, pushing the
// resulting inverse onto redo. ok is false if there was nothing to
// undo. id is the identity of the transaction that was undone, so a
// caller tracking unsaved transactions can drop it from that queue.
func (e *Executor) Undo(cursor *string) (sum *summary.Summary, id grid.TransactionId, ok bool) {
	top, has := e.UndoRedo.PopUndo()
	if !has {
		return nil, grid.TransactionId{}, false
	}
	s := summary.New()
	inverse, _, err := e.apply(top, op.ModeUndo, s)
	if err != nil {
		// Undo stack entries are the engine's own previously-produced
		// inverses; a failure here means a genuine invariant
		// violation, not a user-recoverable condition.
		panic(err)
	}
	inverse.Cursor = cursor
	e.UndoRedo.PushRedo(inverse)
	s.Cursor = top.Cursor
	return s, top.ID, true
}

// Redo is the mirror of Undo.
func (e *Executor) Redo(cursor *string) (sum *summary.Summary, id grid.TransactionId, ok bool) {
	top, has := e.UndoRedo.PopRedo()
	if !has {
		return nil, grid.TransactionId{}, false
	}
	s := summary.New()
	inverse, _, err := e.apply(top, op.ModeRedo, s)
	if err != nil {
		panic(err)
	}
	inverse.Cursor = cursor
	e.UndoRedo.PushUndo(inverse)
	s.Cursor = top.Cursor
	return s, top.ID, true
}

// apply runs every operation in tx in order, accumulating sum,
// recomputing bounds for every touched sheet exactly once at the end,
// and returning the inverse transaction plus the (possibly
// operation-extended) forward op list.
//
// On error partway through, everything already applied is unwound
// using the inverse operations collected so far, in reverse order —
// the same "assemble then reverse" rule the full inverse transaction
// follows.
func (e *Executor) apply(tx *Transaction, mode op.Mode, sum *summary.Summary) (*Transaction, []op.Operation, error) {
	var invOps []op.Operation
	forwardOps := make([]op.Operation, 0, len(tx.Operations))

	for _, o := range tx.Operations {
		inv, extra, err := o.Apply(e.Grid, mode, sum)
		if err != nil {
			e.unwind(invOps)
			return nil, nil, err
		}
		// inv is already in unwind order; store it back to front so the
		// final reversal (and unwind) run it in that order.
		for j := len(inv) - 1; j >= 0; j-- {
			invOps = append(invOps, inv[j])
		}
		forwardOps = append(forwardOps, o)
		forwardOps = append(forwardOps, extra...)
	}

	// Each operation flags its own sheet's bounds dirty as it mutates
	// cells (grid.Sheet.MarkBoundsDirty); RecomputeBounds is a no-op
	// when the sheet is already clean, so one sweep per transaction
	// is both correct and cheap.
	for _, s := range e.Grid.Sheets() {
		s.RecomputeBounds()
	}

	inverseTx := &Transaction{ID: tx.ID, SequenceNum: tx.SequenceNum, Cursor: tx.Cursor}
	inverseTx.Operations = reverseOps(invOps)
	return inverseTx, forwardOps, nil
}

// unwind applies the collected inverses (in reverse, i.e. last-applied
// first) to restore the pre-transaction grid state after an abort.
func (e *Executor) unwind(invOps []op.Operation) {
	scratch := summary.New()
	for i := len(invOps) - 1; i >= 0; i-- {
		// The unwind step's own inverse (i.e. the redo of what we just
		// undid) is discarded: an aborted transaction never reaches
		// the undo stack.
		_, _, _ = invOps[i].Apply(e.Grid, op.ModeMultiplayer, scratch)
	}
}

func reverseOps(ops []op.Operation) []op.Operation {
	out := make([]op.Operation, len(ops))
	for i, o := range ops {
		out[len(ops)-1-i] = o
	}
	return out
}
