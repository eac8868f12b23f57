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

// Package cellvalue implements the tagged CellValue sum type cells are
// made of, plus the dense Array buffer used to ship rectangular blocks
// of values in and out of the grid.
package cellvalue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Kind tags the active variant of a CellValue.
type Kind uint8

const (
	Blank Kind = iota
	Text
	Number
	Logical
	Instant
	Duration
	ErrorValue
	Code
)

func (k Kind) String() string {
	switch k {
	case Blank:
		return "blank"
	case Text:
		return "text"
	case Number:
		return "number"
	case Logical:
		return "logical"
	case Instant:
		return "instant"
	case Duration:
		return "duration"
	case ErrorValue:
		return "error"
	case Code:
		return "code"
	default:
		return "unknown"
	}
}

// CellError carries a formula error surfaced into a cell. Formula
// evaluation errors are never raised by this engine, only stored.
type CellError struct {
	Kind    string `json:"kind"` // e.g. "circular_reference"
	Message string `json:"message"`
}

// CodeCellValue is the content of a code cell: source text in some
// external language this module never evaluates.
type CodeCellValue struct {
	Language     string                `json:"language"`
	Code         string                `json:"code"`
	LastModified time.Time             `json:"last_modified"`
	Output       *CodeCellRunOutput    `json:"output,omitempty"`
}

// CodeCellRunOutput is the last recorded execution of a code cell.
type CodeCellRunOutput struct {
	Stdout *string          `json:"stdout,omitempty"`
	Stderr *string          `json:"stderr,omitempty"`
	Result CodeCellRunResult `json:"result"`
}

// CodeCellRunResult is either a produced value (with the flat adjacency
// list of cells the code read, per the design note on cyclic
// references) or an error.
type CodeCellRunResult struct {
	OK            bool        `json:"ok"`
	Value         CellValue   `json:"value,omitempty"`
	CellsAccessed []CellAddr  `json:"cells_accessed,omitempty"`
	Error         *CellError  `json:"error,omitempty"`
}

// CellAddr is a minimal (sheet, x, y) triple used only to record which
// cells a code run touched; it is not a durable reference.
type CellAddr struct {
	SheetID string `json:"sheet_id"`
	X       int64  `json:"x"`
	Y       int64  `json:"y"`
}

// CellValue is the tagged sum type every cell holds.
type CellValue struct {
	kind     Kind
	text     string
	number   decimal.Decimal
	logical  bool
	instant  time.Time
	duration time.Duration
	err      CellError
	code     CodeCellValue
}

// NewBlank returns the canonical empty cell value.
func NewBlank() CellValue { return CellValue{kind: Blank} }

// IsBlank reports whether the value is the empty cell.
func (v CellValue) IsBlank() bool { return v.kind == Blank }

func NewText(s string) CellValue { return CellValue{kind: Text, text: s} }

func NewNumber(d decimal.Decimal) CellValue { return CellValue{kind: Number, number: d} }

func NewLogical(b bool) CellValue { return CellValue{kind: Logical, logical: b} }

func NewInstant(t time.Time) CellValue { return CellValue{kind: Instant, instant: t} }

func NewDuration(d time.Duration) CellValue { return CellValue{kind: Duration, duration: d} }

func NewError(e CellError) CellValue { return CellValue{kind: ErrorValue, err: e} }

func NewCode(c CodeCellValue) CellValue { return CellValue{kind: Code, code: c} }

func (v CellValue) Kind() Kind { return v.kind }

func (v CellValue) Text() (string, bool) {
	if v.kind != Text {
		return "", false
	}
	return v.text, true
}

func (v CellValue) Number() (decimal.Decimal, bool) {
	if v.kind != Number {
		return decimal.Decimal{}, false
	}
	return v.number, true
}

func (v CellValue) Logical() (bool, bool) {
	if v.kind != Logical {
		return false, false
	}
	return v.logical, true
}

func (v CellValue) Instant() (time.Time, bool) {
	if v.kind != Instant {
		return time.Time{}, false
	}
	return v.instant, true
}

func (v CellValue) Duration() (time.Duration, bool) {
	if v.kind != Duration {
		return 0, false
	}
	return v.duration, true
}

func (v CellValue) Error() (CellError, bool) {
	if v.kind != ErrorValue {
		return CellError{}, false
	}
	return v.err, true
}

func (v CellValue) Code() (CodeCellValue, bool) {
	if v.kind != Code {
		return CodeCellValue{}, false
	}
	return v.code, true
}

// Equal compares two CellValues of the same kind by their payload.
// Code values compare by language and source text only; their
// LastModified and Output are not compared.
func (v CellValue) Equal(o CellValue) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case Blank:
		return true
	case Text:
		return v.text == o.text
	case Number:
		return v.number.Equal(o.number)
	case Logical:
		return v.logical == o.logical
	case Instant:
		return v.instant.Equal(o.instant)
	case Duration:
		return v.duration == o.duration
	case ErrorValue:
		return v.err == o.err
	case Code:
		return v.code.Language == o.code.Language && v.code.Code == o.code.Code
	default:
		return false
	}
}

func (v CellValue) String() string {
	switch v.kind {
	case Blank:
		return ""
	case Text:
		return v.text
	case Number:
		return v.number.String()
	case Logical:
		if v.logical {
			return "TRUE"
		}
		return "FALSE"
	case Instant:
		return v.instant.Format(time.RFC3339)
	case Duration:
		return v.duration.String()
	case ErrorValue:
		return fmt.Sprintf("#ERROR(%s)", v.err.Kind)
	case Code:
		return v.code.Code
	default:
		return ""
	}
}

// wireCellValue is the tagged-JSON wire shape: a string discriminator
// plus a flat payload rather than an envelope-per-variant struct.
type wireCellValue struct {
	Type     string         `json:"type"`
	Text     string         `json:"text,omitempty"`
	Number   *decimal.Decimal `json:"number,omitempty"`
	Logical  *bool          `json:"logical,omitempty"`
	Instant  *time.Time     `json:"instant,omitempty"`
	Duration *int64         `json:"duration_ns,omitempty"`
	Error    *CellError     `json:"error,omitempty"`
	Code     *CodeCellValue `json:"code,omitempty"`
}

func (v CellValue) MarshalJSON() ([]byte, error) {
	w := wireCellValue{Type: v.kind.String()}
	switch v.kind {
	case Text:
		w.Text = v.text
	case Number:
		n := v.number
		w.Number = &n
	case Logical:
		b := v.logical
		w.Logical = &b
	case Instant:
		t := v.instant
		w.Instant = &t
	case Duration:
		d := int64(v.duration)
		w.Duration = &d
	case ErrorValue:
		e := v.err
		w.Error = &e
	case Code:
		c := v.code
		w.Code = &c
	}
	return json.Marshal(w)
}

func (v *CellValue) UnmarshalJSON(data []byte) error {
	var w wireCellValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Type {
	case "", "blank":
		*v = NewBlank()
	case "text":
		*v = NewText(w.Text)
	case "number":
		if w.Number == nil {
			return fmt.Errorf("cellvalue: number variant missing number field")
		}
		*v = NewNumber(*w.Number)
	case "logical":
		if w.Logical == nil {
			return fmt.Errorf("cellvalue: logical variant missing logical field")
		}
		*v = NewLogical(*w.Logical)
	case "instant":
		if w.Instant == nil {
			return fmt.Errorf("cellvalue: instant variant missing instant field")
		}
		*v = NewInstant(*w.Instant)
	case "duration":
		if w.Duration == nil {
			return fmt.Errorf("cellvalue: duration variant missing duration_ns field")
		}
		*v = NewDuration(time.Duration(*w.Duration))
	case "error":
		if w.Error == nil {
			return fmt.Errorf("cellvalue: error variant missing error field")
		}
		*v = NewError(*w.Error)
	case "code":
		if w.Code == nil {
			return fmt.Errorf("cellvalue: code variant missing code field")
		}
		*v = NewCode(*w.Code)
	default:
		return fmt.Errorf("cellvalue: unknown variant tag %q", w.Type)
	}
	return nil
}
