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

// Package collabserver is a thin collaborator the core grid engine
// knows nothing about: a websocket room registry that hosts one
// GridController per file and speaks a small JSON message envelope.
// It never contains grid logic beyond calling the core's public
// GridController methods.
package collabserver

import (
	"encoding/json"
	"fmt"

	"github.com/BlacksmithSoftware/quadratic/grid"
	"github.com/BlacksmithSoftware/quadratic/op"
)

// Envelope is the tagged-JSON wire shape for every message exchanged
// with a room, in both directions.
type Envelope struct {
	Type string `json:"type"`

	// client -> server
	FileID   string            `json:"file_id,omitempty"`
	User     string            `json:"user,omitempty"`
	TxID     grid.TransactionId `json:"tx_id,omitempty"`
	Ops      []json.RawMessage `json:"ops,omitempty"`
	FromSeq  uint64            `json:"from_seq,omitempty"`

	// server -> client
	Users       []string           `json:"users,omitempty"`
	Seq         uint64             `json:"seq,omitempty"`
	SequenceNum uint64             `json:"sequence_num,omitempty"`
	Transactions []WireTransaction `json:"transactions,omitempty"`
}

// WireTransaction is one entry of a Transactions{[...]} broadcast.
type WireTransaction struct {
	ID  grid.TransactionId `json:"id"`
	Seq uint64             `json:"seq"`
	Ops []json.RawMessage  `json:"ops"`
}

const (
	TypeEnterRoom      = "EnterRoom"
	TypeLeaveRoom      = "LeaveRoom"
	TypeHeartbeat      = "Heartbeat"
	TypeTransaction    = "Transaction"
	TypeGetTransactions = "GetTransactions"

	TypeUsersInRoom  = "UsersInRoom"
	TypeTransactAck  = "TransactionAck"
	TypeTransactions = "Transactions"
	TypeSequenceNum  = "SequenceNum"
)

func decodeOps(raws []json.RawMessage) ([]op.Operation, error) {
	ops := make([]op.Operation, 0, len(raws))
	for _, raw := range raws {
		o, err := op.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("collabserver: decode operation: %w", err)
		}
		ops = append(ops, o)
	}
	return ops, nil
}

func encodeOps(ops []op.Operation) ([]json.RawMessage, error) {
	raws := make([]json.RawMessage, 0, len(ops))
	for _, o := range ops {
		raw, err := op.Encode(o)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	return raws, nil
}
