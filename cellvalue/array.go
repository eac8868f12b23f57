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

package cellvalue

import (
	"fmt"

	"github.com/BlacksmithSoftware/quadratic/pos"
)

// Array is a dense, row-major 2-D buffer of CellValue with a known size.
type Array struct {
	size   pos.ArraySize
	values []CellValue
}

// FromRowMajor builds an Array from a flat row-major slice. Mismatched
// lengths panic: the caller constructed an inconsistent array, which
// can only mean a programming bug upstream.
func FromRowMajor(size pos.ArraySize, values []CellValue) Array {
	want := size.Len()
	if int64(len(values)) != want {
		panic(fmt.Sprintf("cellvalue: array size %dx%d expects %d values, got %d",
			size.W, size.H, want, len(values)))
	}
	cp := make([]CellValue, len(values))
	copy(cp, values)
	return Array{size: size, values: cp}
}

// NewEmpty builds an Array of the given size filled with Blank values.
func NewEmpty(size pos.ArraySize) Array {
	values := make([]CellValue, size.Len())
	for i := range values {
		values[i] = NewBlank()
	}
	return Array{size: size, values: values}
}

func (a Array) Size() pos.ArraySize { return a.size }

// Get returns the value at the given row-major-local (x, y), where both
// are zero-based offsets within the array (not absolute sheet coords).
func (a Array) Get(x, y int64) CellValue {
	if x < 0 || x >= a.size.W || y < 0 || y >= a.size.H {
		panic(fmt.Sprintf("cellvalue: array index (%d,%d) out of bounds for size %dx%d", x, y, a.size.W, a.size.H))
	}
	return a.values[y*a.size.W+x]
}

// Set overwrites the value at local (x, y).
func (a Array) Set(x, y int64, v CellValue) {
	if x < 0 || x >= a.size.W || y < 0 || y >= a.size.H {
		panic(fmt.Sprintf("cellvalue: array index (%d,%d) out of bounds for size %dx%d", x, y, a.size.W, a.size.H))
	}
	a.values[y*a.size.W+x] = v
}

// RowMajor returns the flat row-major backing slice. Callers must treat
// it as read-only; it aliases the Array's storage.
func (a Array) RowMajor() []CellValue { return a.values }
