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

// Package quadratic wires the grid model, the transaction executor and
// the replication engine into the single per-file object a host
// embeds: GridController. Global state is limited to exactly this
// struct; multiple controllers coexist without sharing memory (spec
// §9, "Global state").
package quadratic

import (
	"time"

	"github.com/BlacksmithSoftware/quadratic/cellvalue"
	"github.com/BlacksmithSoftware/quadratic/config"
	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/op"
	"github.com/BlacksmithSoftware/quadratic/pos"
	"github.com/BlacksmithSoftware/quadratic/replication"
	"github.com/BlacksmithSoftware/quadratic/summary"
	"github.com/BlacksmithSoftware/quadratic/txn"
)

// GridController is the public entry point for one file: every
// mutating call below translates intent into a txn.Transaction, runs
// it through the executor, and returns the resulting summary.
type GridController struct {
	Grid        *grid.Grid
	Executor    *txn.Executor
	Replication *replication.Engine
}

// New creates a controller around a grid with exactly one sheet, named
// "Sheet 1": a sheet exists from AddSheet until DeleteSheet, so a file
// must never start empty.
func New(cfg config.Config) *GridController {
	g := grid.NewGrid()
	g.MustAddSheet(grid.NewSheet("Sheet 1", grid.NextOrderKey("")))
	exec := txn.NewExecutor(g)
	return &GridController{
		Grid:        g,
		Executor:    exec,
		Replication: replication.NewEngine(exec, cfg.GapRequestThrottle(), cfg.MaxUnsavedTransactions),
	}
}

func (c *GridController) runUser(ops []op.Operation, cursor *string) *summary.Summary {
	if c.Replication.UnsavedFull() {
		// The backlog cap is reached: refuse the edit outright rather
		// than applying it locally and having nowhere to put the
		// resulting unsaved entry.
		return summary.New()
	}
	tx := txn.New(ops, cursor)
	sum, inverse, err := c.Executor.ApplyUser(tx)
	if err != nil {
		// AddSheetOp/SetSheetNameOp's duplicate-name refusal and the
		// sheet operations' unknown-sheet-id refusal are the
		// recoverable failures a User-mode transaction can hit;
		// callers inspect before calling when they care (e.g. a UI
		// pre-validates names). The error is dropped and an empty
		// summary returned.
		return summary.New()
	}
	c.Replication.TrackUnsaved(tx, inverse)
	return sum
}

// SetCells overwrites a rectangular region with new values in one
// transaction.
func (c *GridController) SetCells(sheet grid.SheetId, rect pos.Rect, values cellvalue.Array, cursor *string) *summary.Summary {
	s, ok := c.Grid.SheetByID(sheet)
	if !ok {
		return summary.New()
	}
	region := grid.RegionFromRect(s, rect, true)
	return c.runUser([]op.Operation{op.SetCellsOp{Region: region, Values: values}}, cursor)
}

// AddSheet appends a new, empty sheet ordered after every existing one.
func (c *GridController) AddSheet(name string) *summary.Summary {
	s := grid.NewSheet(name, c.Grid.EndOrder())
	return c.runUser([]op.Operation{op.AddSheetOp{Sheet: s}}, nil)
}

func (c *GridController) DeleteSheet(id grid.SheetId, cursor *string) *summary.Summary {
	return c.runUser([]op.Operation{op.DeleteSheetOp{SheetID: id}}, cursor)
}

func (c *GridController) ReorderSheet(target grid.SheetId, order string, cursor *string) *summary.Summary {
	return c.runUser([]op.Operation{op.ReorderSheetOp{Target: target, Order: order}}, cursor)
}

// MoveSheetBefore reorders target to sort immediately before the sheet
// named by before, computing the fractional order key automatically.
// before == nil moves target to the end of the sheet list. Returns an
// empty summary (no-op) if before names an unknown sheet.
func (c *GridController) MoveSheetBefore(target grid.SheetId, before *grid.SheetId, cursor *string) *summary.Summary {
	order, ok := c.Grid.OrderBeforeSheet(target, before)
	if !ok {
		return summary.New()
	}
	return c.ReorderSheet(target, order, cursor)
}

func (c *GridController) SetSheetName(id grid.SheetId, name string, cursor *string) *summary.Summary {
	return c.runUser([]op.Operation{op.SetSheetNameOp{SheetID: id, Name: name}}, cursor)
}

func (c *GridController) SetSheetColor(id grid.SheetId, color *string, cursor *string) *summary.Summary {
	return c.runUser([]op.Operation{op.SetSheetColorOp{SheetID: id, Color: color}}, cursor)
}

// Undo and Redo drive the undo/redo manager directly; when the popped
// transaction is still unsaved (its server echo never arrived), the
// replication engine drops it from the unsaved queue — it has reached
// a terminal undone state and any later echo is consumed and
// discarded as a no-op.
func (c *GridController) Undo(cursor *string) *summary.Summary {
	sum, id, ok := c.Executor.Undo(cursor)
	if !ok {
		return summary.New()
	}
	c.Replication.MarkUndone(id)
	return sum
}

func (c *GridController) Redo(cursor *string) *summary.Summary {
	sum, _, ok := c.Executor.Redo(cursor)
	if !ok {
		return summary.New()
	}
	return sum
}

// ReceiveSequenceNum and ReceivedTransaction(s) forward directly to the
// replication engine; see package replication for the protocol.
func (c *GridController) ReceiveSequenceNum(n uint64) *summary.Summary {
	return c.Replication.ReceiveSequenceNum(n, time.Now())
}

func (c *GridController) ReceivedTransaction(id grid.TransactionId, seq uint64, ops []op.Operation) *summary.Summary {
	return c.Replication.ReceivedTransaction(id, seq, ops)
}

func (c *GridController) ReceivedTransactions(deliveries []replication.Delivery) *summary.Summary {
	return c.Replication.ReceivedTransactions(deliveries)
}
