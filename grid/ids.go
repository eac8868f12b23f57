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

// Package grid implements the sheet model: stable-id columns and rows,
// the ordered set of sheets that makes up a file, and the durable
// RegionRef/CellRef address types that survive row and column inserts.
package grid

import (
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// SheetId, ColumnId and RowId are durable identities: once allocated
// they are never reused within a process, even if the row/column they
// name is later removed (design note: remote transactions may still
// reference cells a local undo has "deleted").
type SheetId uuid.UUID
type ColumnId uuid.UUID
type RowId uuid.UUID
type TransactionId uuid.UUID

func (s SheetId) String() string { return uuid.UUID(s).String() }
func (c ColumnId) String() string { return uuid.UUID(c).String() }
func (r RowId) String() string { return uuid.UUID(r).String() }
func (t TransactionId) String() string { return uuid.UUID(t).String() }

func (s SheetId) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
func (c ColumnId) MarshalText() ([]byte, error) { return []byte(c.String()), nil }
func (r RowId) MarshalText() ([]byte, error) { return []byte(r.String()), nil }
func (t TransactionId) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (s *SheetId) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*s = SheetId(u)
	return nil
}

func (c *ColumnId) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*c = ColumnId(u)
	return nil
}

func (r *RowId) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*r = RowId(u)
	return nil
}

func (t *TransactionId) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return err
	}
	*t = TransactionId(u)
	return nil
}

// idCounter backs newID: a monotonic counter XORed with wall-clock time,
// avoiding the startup entropy stalls crypto/rand can have on freshly
// booted low-entropy systems. Not suitable for cryptographic use, which
// durable grid ids never need to be.
var idCounter uint64 = uint64(time.Now().UnixNano())

func newID() uuid.UUID {
	ctr := atomic.AddUint64(&idCounter, 1)
	now := uint64(time.Now().UnixNano())
	var b [16]byte
	binary.LittleEndian.PutUint64(b[0:8], ctr)
	binary.LittleEndian.PutUint64(b[8:16], ctr^now^(now<<17))
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80
	return uuid.UUID(b)
}

func NewSheetId() SheetId       { return SheetId(newID()) }
func NewColumnId() ColumnId     { return ColumnId(newID()) }
func NewRowId() RowId           { return RowId(newID()) }
func NewTransactionId() TransactionId { return TransactionId(newID()) }

// CellRef is the durable address of a cell: it survives row/column
// insertions because it names the column and row by stable id rather
// than by their current logical coordinate.
type CellRef struct {
	Sheet  SheetId
	Column ColumnId
	Row    RowId
}
