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

package collabserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dc0d/onexit"
	"github.com/gorilla/websocket"

	"github.com/BlacksmithSoftware/quadratic/config"
	"github.com/BlacksmithSoftware/quadratic/txn"
)

// Server is the websocket upgrade-and-pump entry point: a raw
// net/http.Server with a gorilla/websocket upgrader underneath, no
// framework.
type Server struct {
	cfg *config.Live

	upgrader websocket.Upgrader

	mu    sync.RWMutex
	rooms map[string]*Room

	sweepStop chan struct{}
}

func NewServer(cfg *config.Live) *Server {
	s := &Server{
		cfg:       cfg,
		upgrader:  websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
		rooms:     make(map[string]*Room),
		sweepStop: make(chan struct{}),
	}
	go s.heartbeatSweeper()
	onexit.Register(func() { close(s.sweepStop) })
	return s
}

func (s *Server) heartbeatSweeper() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-s.sweepStop:
			return
		case <-ticker.C:
			ttl := s.cfg.Get().HeartbeatTTL()
			s.mu.RLock()
			rooms := make([]*Room, 0, len(s.rooms))
			for _, r := range s.rooms {
				rooms = append(rooms, r)
			}
			s.mu.RUnlock()
			for _, r := range rooms {
				evicted := r.EvictStale(ttl)
				if len(evicted) > 0 {
					r.Broadcast("", Envelope{Type: TypeUsersInRoom, Users: r.UserNames()})
				}
			}
		}
	}
}

func (s *Server) roomFor(fileID string) *Room {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[fileID]
	if !ok {
		r = NewRoom(fileID, s.cfg.Get())
		s.rooms[fileID] = r
	}
	return r
}

// ServeHTTP upgrades the connection and pumps messages until the
// client disconnects. One goroutine reads and submits closures to the
// room's Inbox; the room's own actor goroutine applies them.
func (s *Server) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		fmt.Println("collabserver: upgrade failed:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(int64(s.cfg.Get().MaxMessageBytes))

	var room *Room
	var sessionID SessionId

	writeLoop := make(chan Envelope, 256)
	stopWrite := make(chan struct{})
	go func() {
		for {
			select {
			case env := <-writeLoop:
				if err := conn.WriteJSON(env); err != nil {
					return
				}
			case <-stopWrite:
				return
			}
		}
	}()
	defer close(stopWrite)

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		var env Envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			continue
		}
		s.handle(&room, &sessionID, env, writeLoop)
	}

	if room != nil && sessionID != "" {
		done := make(chan struct{})
		room.Inbox <- func() {
			room.Leave(sessionID)
			room.Broadcast(sessionID, Envelope{Type: TypeUsersInRoom, Users: room.UserNames()})
			close(done)
		}
		<-done
	}
}

func (s *Server) handle(roomPtr **Room, sessionPtr *SessionId, env Envelope, out chan<- Envelope) {
	switch env.Type {
	case TypeEnterRoom:
		room := s.roomFor(env.FileID)
		sid := SessionId(fmt.Sprintf("%s-%d", env.User, time.Now().UnixNano()))
		done := make(chan struct{})
		room.Inbox <- func() {
			u := room.Join(sid, env.User)
			go relay(u, out)
			room.Broadcast("", Envelope{Type: TypeUsersInRoom, Users: room.UserNames()})
			close(done)
		}
		<-done
		*roomPtr = room
		*sessionPtr = sid

	case TypeLeaveRoom:
		if *roomPtr == nil {
			return
		}
		room, sid := *roomPtr, *sessionPtr
		room.Inbox <- func() {
			room.Leave(sid)
			room.Broadcast(sid, Envelope{Type: TypeUsersInRoom, Users: room.UserNames()})
		}

	case TypeHeartbeat:
		if *roomPtr == nil {
			return
		}
		room, sid := *roomPtr, *sessionPtr
		room.Inbox <- func() { room.Heartbeat(sid) }

	case TypeTransaction:
		if *roomPtr == nil {
			return
		}
		room, sid := *roomPtr, *sessionPtr
		room.Inbox <- func() { s.applyTransaction(room, sid, env) }

	case TypeGetTransactions:
		if *roomPtr == nil {
			return
		}
		room, sid := *roomPtr, *sessionPtr
		room.Inbox <- func() {
			room.Send(sid, Envelope{Type: TypeTransactions, Transactions: room.LogFrom(env.FromSeq)})
		}
	}
}

func relay(u *User, out chan<- Envelope) {
	for env := range u.Outbound {
		out <- env
	}
}

// applyTransaction runs inside the room's actor goroutine. The server
// holds the authoritative grid for the room, so a client's submitted
// ops are applied directly (Multiplayer mode: no undo stack, no local
// reconciliation — that machinery belongs to the replication.Engine on
// the client side, not here), assigned the next sequence number, then
// fanned out to the room's connected users.
func (s *Server) applyTransaction(room *Room, sid SessionId, env Envelope) {
	ops, err := decodeOps(env.Ops)
	if err != nil {
		fmt.Println("collabserver: bad transaction from", sid, ":", err)
		return
	}
	tx := &txn.Transaction{ID: env.TxID, Operations: ops}
	if _, err := room.Controller.Executor.ApplyMultiplayer(tx); err != nil {
		fmt.Println("collabserver: rejected transaction from", sid, ":", err)
		return
	}

	seq := uint64(len(room.log)) + 1
	raws, err := encodeOps(tx.Operations)
	if err != nil {
		return
	}
	room.AppendLog(env.TxID, seq, raws)

	room.Send(sid, Envelope{Type: TypeTransactAck, TxID: env.TxID, Seq: seq})
	room.Broadcast(sid, Envelope{
		Type:         TypeTransactions,
		Transactions: []WireTransaction{{ID: env.TxID, Seq: seq, Ops: raws}},
	})
	room.Broadcast("", Envelope{Type: TypeSequenceNum, SequenceNum: seq})
}
