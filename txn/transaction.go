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

// Package txn implements the transaction executor, the undo/redo
// manager and the Transaction/TransactionSummary types that glue the
// grid model and the operation model together.
package txn

import (
	"encoding/json"

	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/op"
)

// Transaction is an ordered batch of operations with a uuid and an
// optional server-assigned sequence number (nil until the server
// acknowledges a locally-generated transaction).
type Transaction struct {
	ID           grid.TransactionId
	SequenceNum  *uint64
	Operations   []op.Operation
	Cursor       *string
}

// New builds a fresh, locally-originated transaction (SequenceNum nil).
func New(ops []op.Operation, cursor *string) *Transaction {
	return &Transaction{ID: grid.NewTransactionId(), Operations: ops, Cursor: cursor}
}

// Clone returns a copy whose Operations slice is independent (the
// executor replaces a transaction's Operations with its possibly
// extended forward-op list; callers that want to keep their own
// transaction untouched should clone first).
func (t *Transaction) Clone() *Transaction {
	out := &Transaction{ID: t.ID, SequenceNum: t.SequenceNum, Cursor: t.Cursor}
	out.Operations = append(out.Operations, t.Operations...)
	return out
}

type wireTransaction struct {
	ID          grid.TransactionId `json:"id"`
	SequenceNum *uint64            `json:"sequence_num,omitempty"`
	Operations  []json.RawMessage  `json:"operations"`
	Cursor      *string            `json:"cursor,omitempty"`
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	w := wireTransaction{ID: t.ID, SequenceNum: t.SequenceNum, Cursor: t.Cursor}
	w.Operations = make([]json.RawMessage, 0, len(t.Operations))
	for _, o := range t.Operations {
		enc, err := op.Encode(o)
		if err != nil {
			return nil, err
		}
		w.Operations = append(w.Operations, enc)
	}
	return json.Marshal(w)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	var w wireTransaction
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	t.ID = w.ID
	t.SequenceNum = w.SequenceNum
	t.Cursor = w.Cursor
	t.Operations = make([]op.Operation, 0, len(w.Operations))
	for _, raw := range w.Operations {
		decoded, err := op.Decode(raw)
		if err != nil {
			return err
		}
		t.Operations = append(t.Operations, decoded)
	}
	return nil
}

// EncodeOperations renders ops as a single JSON array, used for
// TransactionSummary.Operations: the serialized forward ops sent out
// whenever a transaction is saved.
func EncodeOperations(ops []op.Operation) (json.RawMessage, error) {
	raws := make([]json.RawMessage, 0, len(ops))
	for _, o := range ops {
		enc, err := op.Encode(o)
		if err != nil {
			return nil, err
		}
		raws = append(raws, enc)
	}
	return json.Marshal(raws)
}
