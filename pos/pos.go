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

// Package pos implements the coordinate algebra the rest of the grid
// engine is built on: logical cell positions, inclusive rectangles and
// fixed array sizes.
package pos

import "fmt"

// Pos is a logical cell coordinate as seen by a user.
type Pos struct {
	X int64
	Y int64
}

func (p Pos) String() string {
	return fmt.Sprintf("(%d, %d)", p.X, p.Y)
}

// Rect is an inclusive rectangle: both Min and Max are contained.
type Rect struct {
	Min Pos
	Max Pos
}

// NewRect builds the inclusive rectangle spanning two corners, regardless
// of which corner is passed first.
func NewRect(a, b Pos) Rect {
	r := Rect{Min: a, Max: b}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// SinglePos returns the 1x1 rectangle covering exactly one cell.
func SinglePos(p Pos) Rect {
	return Rect{Min: p, Max: p}
}

func (r Rect) Width() int64  { return r.Max.X - r.Min.X + 1 }
func (r Rect) Height() int64 { return r.Max.Y - r.Min.Y + 1 }

// Contains reports whether p lies within the inclusive rectangle.
func (r Rect) Contains(p Pos) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Intersects reports whether the two rectangles share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return r.Min.X <= o.Max.X && r.Max.X >= o.Min.X && r.Min.Y <= o.Max.Y && r.Max.Y >= o.Min.Y
}

// Union returns the smallest rectangle covering both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Min: Pos{X: min64(r.Min.X, o.Min.X), Y: min64(r.Min.Y, o.Min.Y)},
		Max: Pos{X: max64(r.Max.X, o.Max.X), Y: max64(r.Max.Y, o.Max.Y)},
	}
}

// XRange iterates all x coordinates covered by the rectangle, in order.
func (r Rect) XRange() []int64 {
	out := make([]int64, 0, r.Width())
	for x := r.Min.X; x <= r.Max.X; x++ {
		out = append(out, x)
	}
	return out
}

// YRange iterates all y coordinates covered by the rectangle, in order.
func (r Rect) YRange() []int64 {
	out := make([]int64, 0, r.Height())
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		out = append(out, y)
	}
	return out
}

// ForEach visits every Pos in the rectangle in row-major order.
func (r Rect) ForEach(f func(Pos)) {
	for y := r.Min.Y; y <= r.Max.Y; y++ {
		for x := r.Min.X; x <= r.Max.X; x++ {
			f(Pos{X: x, Y: y})
		}
	}
}

func (r Rect) String() string {
	return fmt.Sprintf("[%s..%s]", r.Min, r.Max)
}

// ArraySize is a non-zero (width, height) used to describe dense value
// arrays. A zero ArraySize is invalid and constructors panic on it, the
// same invariant-violation policy the rest of the engine uses.
type ArraySize struct {
	W int64
	H int64
}

func NewArraySize(w, h int64) ArraySize {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("invalid array size %dx%d: both dimensions must be positive", w, h))
	}
	return ArraySize{W: w, H: h}
}

// Len returns the total number of cells the array holds.
func (a ArraySize) Len() int64 { return a.W * a.H }

// RectFromOrigin returns the rectangle of this size anchored at origin.
func (a ArraySize) RectFromOrigin(origin Pos) Rect {
	return Rect{
		Min: origin,
		Max: Pos{X: origin.X + a.W - 1, Y: origin.Y + a.H - 1},
	}
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
