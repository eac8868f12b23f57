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

// UndoRedoManager holds the two stacks of inverse Transactions that
// back Undo/Redo. A transaction whose forward operations
// all turned out to be no-ops (e.g. ReorderSheet onto an unknown
// target) produces an inverse with zero operations and is never
// pushed — undoing it would have nothing to do anyway.
type UndoRedoManager struct {
	undo []*Transaction
	redo []*Transaction
}

func NewUndoRedoManager() *UndoRedoManager {
	return &UndoRedoManager{}
}

func (m *UndoRedoManager) PushUndo(tx *Transaction) {
	if len(tx.Operations) == 0 {
		return
	}
	m.undo = append(m.undo, tx)
}

func (m *UndoRedoManager) PushRedo(tx *Transaction) {
	if len(tx.Operations) == 0 {
		return
	}
	m.redo = append(m.redo, tx)
}

func (m *UndoRedoManager) PopUndo() (*Transaction, bool) {
	return pop(&m.undo)
}

func (m *UndoRedoManager) PopRedo() (*Transaction, bool) {
	return pop(&m.redo)
}

// ClearRedo is called whenever a fresh user transaction is applied: a
// new edit invalidates whatever branch of history redo was pointing at.
func (m *UndoRedoManager) ClearRedo() {
	m.redo = nil
}

func (m *UndoRedoManager) UndoCount() int { return len(m.undo) }
func (m *UndoRedoManager) RedoCount() int { return len(m.redo) }

func pop(stack *[]*Transaction) (*Transaction, bool) {
	s := *stack
	if len(s) == 0 {
		return nil, false
	}
	top := s[len(s)-1]
	*stack = s[:len(s)-1]
	return top, true
}
