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

// Package op implements the tagged union of grid mutations and their
// invertibility contract: every variant's Apply produces both the
// mutated grid (in place) and the inverse operation that undoes
// exactly that mutation.
package op

import (
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/summary"
)

// Mode selects how an operation's side effects on the undo/redo stacks
// and TransactionSummary are handled.
type Mode uint8

const (
	// User: push inverse to undo stack, clear redo, mark summary.Save.
	ModeUser Mode = iota
	// Undo: apply from the undo stack top, push inverse onto redo.
	ModeUndo
	// Redo: apply from the redo stack top, push inverse onto undo.
	ModeRedo
	// Multiplayer: apply only, untouched undo/redo, no Save.
	ModeMultiplayer
	// MultiplayerKeepSummary: like Multiplayer but merges into an
	// already-accumulating summary instead of replacing it.
	ModeMultiplayerKeepSummary
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "user"
	case ModeUndo:
		return "undo"
	case ModeRedo:
		return "redo"
	case ModeMultiplayer:
		return "multiplayer"
	case ModeMultiplayerKeepSummary:
		return "multiplayer_keep_summary"
	default:
		return "unknown"
	}
}

// Operation is one atomic, invertible mutation in the tagged union of
// grid mutations. Apply mutates g in place, records dirty state into
// sum, and returns:
//
//   - inverses: the operation(s) that undo exactly what Apply did, in
//     the order they must be applied to unwind (normally a single
//     element; DeleteSheet-on-last-sheet is the one case with two).
//   - forwardExtra: any additional forward operations Apply
//     synthesized (again, only DeleteSheet-on-last-sheet produces
//     one: the replacement AddSheet). The executor appends these to
//     the transaction's own forward operation list so a later
//     replication reapply sees the same synthesized operation instead
//     of re-deriving it.
//   - err: non-nil means Apply made no mutation and produced no
//     inverse; the transaction aborts and unwinds using whatever
//     inverses were already collected from earlier operations.
type Operation interface {
	Kind() string
	Apply(g *grid.Grid, mode Mode, sum *summary.Summary) (inverses []Operation, forwardExtra []Operation, err error)
}
