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

package grid

import "github.com/google/btree"

// coordEntry is one (coordinate -> id) pairing stored in the forward
// B-tree: a generic B-tree for ordered lookups, keyed here by the
// logical x or y coordinate itself.
type coordEntry[ID comparable] struct {
	coord int64
	id    ID
}

func lessCoordEntry[ID comparable](a, b coordEntry[ID]) bool {
	return a.coord < b.coord
}

// coordIndex resolves logical coordinate <-> durable id in both
// directions: forward lookup (coord -> id) is O(log n) via the B-tree;
// reverse lookup (id -> coord) is O(1) via a plain map.
type coordIndex[ID comparable] struct {
	forward *btree.BTreeG[coordEntry[ID]]
	reverse map[ID]int64
}

func newCoordIndex[ID comparable]() *coordIndex[ID] {
	return &coordIndex[ID]{
		forward: btree.NewG(32, lessCoordEntry[ID]),
		reverse: make(map[ID]int64),
	}
}

// At returns the id materialized for coord, if any.
func (c *coordIndex[ID]) At(coord int64) (ID, bool) {
	item, ok := c.forward.Get(coordEntry[ID]{coord: coord})
	if !ok {
		var zero ID
		return zero, false
	}
	return item.id, true
}

// Coord returns the coordinate an id currently lives at.
func (c *coordIndex[ID]) Coord(id ID) (int64, bool) {
	coord, ok := c.reverse[id]
	return coord, ok
}

// Ensure returns the id materialized for coord, creating and recording
// one with newID() if none exists yet. SetCells uses this to create ids
// for any unreferenced x/y in its target rectangle.
func (c *coordIndex[ID]) Ensure(coord int64, newID func() ID) ID {
	if id, ok := c.At(coord); ok {
		return id
	}
	id := newID()
	c.forward.ReplaceOrInsert(coordEntry[ID]{coord: coord, id: id})
	c.reverse[id] = coord
	return id
}

// Remove drops the coordinate<->id mapping entirely, used by tests that
// exercise the "stale CellRef" recoverable-error path: no Operation in
// this module's tagged union deletes rows or columns, so this is
// otherwise unreachable from normal traffic.
func (c *coordIndex[ID]) Remove(coord int64) {
	if id, ok := c.At(coord); ok {
		c.forward.Delete(coordEntry[ID]{coord: coord})
		delete(c.reverse, id)
	}
}

func (c *coordIndex[ID]) Len() int { return c.forward.Len() }
