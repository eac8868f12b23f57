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
	"sync"
	"time"

	quadratic "github.com/BlacksmithSoftware/quadratic"
	"github.com/BlacksmithSoftware/quadratic/config"
	"github.com/BlacksmithSoftware/quadratic/grid"
)

// SessionId identifies one connected websocket session inside a room.
type SessionId string

// User is a connected session: a display identity plus a buffered
// outbound channel. The channel is buffered so the receive loop and
// the heartbeat sweeper, which both write to it, never block on a
// slow peer — this room holds two independent writers per connection.
type User struct {
	Name     string
	Outbound chan Envelope
	lastSeen time.Time
}

// Room owns one GridController and its connected users. Message
// handling for a room is serialized through Inbox so the embedded
// GridController is never touched by two goroutines at once.
type Room struct {
	FileID     string
	Controller *quadratic.GridController

	mu    sync.RWMutex
	users map[SessionId]*User

	log []WireTransaction // append-only, in-memory transaction log; no disk persistence

	Inbox chan func()
}

func NewRoom(fileID string, cfg config.Config) *Room {
	r := &Room{
		FileID:     fileID,
		Controller: quadratic.New(cfg),
		users:      make(map[SessionId]*User),
		Inbox:      make(chan func(), 64),
	}
	go r.run()
	return r
}

// run is the room's single actor goroutine: every state-mutating
// operation is a closure submitted to Inbox, so writes are always
// single-threaded per room regardless of how many connections feed it.
func (r *Room) run() {
	for fn := range r.Inbox {
		fn()
	}
}

func (r *Room) Close() { close(r.Inbox) }

func (r *Room) Join(id SessionId, name string) *User {
	u := &User{Name: name, Outbound: make(chan Envelope, 32), lastSeen: time.Now()}
	r.mu.Lock()
	r.users[id] = u
	r.mu.Unlock()
	return u
}

func (r *Room) Leave(id SessionId) {
	r.mu.Lock()
	delete(r.users, id)
	r.mu.Unlock()
}

func (r *Room) Heartbeat(id SessionId) {
	r.mu.RLock()
	u, ok := r.users[id]
	r.mu.RUnlock()
	if ok {
		u.lastSeen = time.Now()
	}
}

// EvictStale drops users whose last heartbeat exceeds ttl, returning
// their ids so the caller can notify the remaining room members.
func (r *Room) EvictStale(ttl time.Duration) []SessionId {
	now := time.Now()
	var evicted []SessionId
	r.mu.Lock()
	for id, u := range r.users {
		if now.Sub(u.lastSeen) > ttl {
			evicted = append(evicted, id)
			close(u.Outbound)
			delete(r.users, id)
		}
	}
	r.mu.Unlock()
	return evicted
}

func (r *Room) UserNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.users))
	for _, u := range r.users {
		names = append(names, u.Name)
	}
	return names
}

func (r *Room) Broadcast(except SessionId, env Envelope) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, u := range r.users {
		if id == except {
			continue
		}
		select {
		case u.Outbound <- env:
		default:
			// slow consumer: drop rather than stall the room's actor
			// goroutine. The collaboration boundary is at-most-once
			// for presence/ack traffic; GetTransactions is how a
			// client recovers missed history.
		}
	}
}

func (r *Room) Send(id SessionId, env Envelope) {
	r.mu.RLock()
	u, ok := r.users[id]
	r.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case u.Outbound <- env:
	default:
	}
}

func (r *Room) AppendLog(id grid.TransactionId, seq uint64, ops []json.RawMessage) {
	r.mu.Lock()
	r.log = append(r.log, WireTransaction{ID: id, Seq: seq, Ops: ops})
	r.mu.Unlock()
}

func (r *Room) LogFrom(fromSeq uint64) []WireTransaction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]WireTransaction, 0)
	for _, t := range r.log {
		if t.Seq >= fromSeq {
			out = append(out, t)
		}
	}
	return out
}
