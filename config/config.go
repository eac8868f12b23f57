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

// Package config holds the small set of options the collaboration
// boundary needs: the gap-request throttle, session heartbeat TTL and
// the unsaved-transaction backlog cap. It is hot-reloadable from a
// file rather than a fixed process-global struct, since this module
// runs as a long-lived server process that operators expect to
// reconfigure without a restart.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
	"github.com/fsnotify/fsnotify"
)

// Config is the recognized option set.
type Config struct {
	GapRequestThrottleSeconds uint32 `json:"gap_request_throttle_seconds"`
	HeartbeatTTLSeconds       uint32 `json:"heartbeat_ttl_seconds"`
	// MaxUnsavedTransactions caps replication.Engine's unsaved backlog;
	// GridController.runUser refuses further local edits once reached.
	// 0 = unlimited.
	MaxUnsavedTransactions uint64 `json:"max_unsaved_transactions,omitempty"`
	// MaxMessageBytes is applied as collabserver's per-connection
	// websocket read limit. 0 = unlimited.
	MaxMessageBytes uint64 `json:"max_message_bytes,omitempty"`
}

func defaults() Config {
	return Config{
		GapRequestThrottleSeconds: 5,
		HeartbeatTTLSeconds:       30,
		MaxUnsavedTransactions:    0,
		MaxMessageBytes:           4 << 20,
	}
}

func (c Config) GapRequestThrottle() time.Duration {
	return time.Duration(c.GapRequestThrottleSeconds) * time.Second
}

func (c Config) HeartbeatTTL() time.Duration {
	return time.Duration(c.HeartbeatTTLSeconds) * time.Second
}

func (c Config) String() string {
	return fmt.Sprintf(
		"gap_request_throttle=%s heartbeat_ttl=%s max_unsaved=%d max_message=%s",
		c.GapRequestThrottle(), c.HeartbeatTTL(), c.MaxUnsavedTransactions,
		units.HumanSize(float64(c.MaxMessageBytes)),
	)
}

// Load reads a JSON config file, filling any field the file omits with
// its documented default.
func Load(path string) (Config, error) {
	c := defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// Live wraps an atomically-swappable Config: the collaboration server
// reads it on every heartbeat sweep, new connection and room creation,
// so a running process picks up a config edit without a restart. A
// room's replication engine keeps the throttle and backlog cap it was
// created with.
type Live struct {
	ptr atomic.Pointer[Config]
}

func NewLive(initial Config) *Live {
	l := &Live{}
	l.ptr.Store(&initial)
	return l
}

func (l *Live) Get() Config { return *l.ptr.Load() }

// Watch reloads the file on every fsnotify write/create event and
// swaps it in. It runs until stop is closed; reload errors are logged
// and otherwise ignored, since a malformed edit mid-save is common and
// should not take down the server.
func (l *Live) Watch(path string, stop <-chan struct{}, logf func(format string, args ...any)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: start watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		return fmt.Errorf("config: watch %s: %w", path, err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				c, err := Load(path)
				if err != nil {
					logf("config: reload %s failed: %v", path, err)
					continue
				}
				l.ptr.Store(&c)
				logf("config: reloaded %s: %s", path, c)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logf("config: watcher error: %v", err)
			}
		}
	}()
	return nil
}
