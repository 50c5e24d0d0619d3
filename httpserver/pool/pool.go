/*
 * MIT License
 *
 * Copyright (c) 2022 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package pool is the Server Instance Table of spec §4.5: a
// fixed-capacity collection of httpserver.Conn state machines, each
// owning its listening socket, root directory, and index file, and each
// registered with an external scheduler for periodic ticking.
package pool

import (
	"github.com/imjustmatthew/fnet-lpc/atomic"
	"github.com/imjustmatthew/fnet-lpc/clock"
	liberr "github.com/imjustmatthew/fnet-lpc/errors"
	"github.com/imjustmatthew/fnet-lpc/fsroot"
	"github.com/imjustmatthew/fnet-lpc/httpserver"
	"github.com/imjustmatthew/fnet-lpc/httpserver/auth"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
	"github.com/imjustmatthew/fnet-lpc/logger"
	"github.com/imjustmatthew/fnet-lpc/netsock"
	"github.com/imjustmatthew/fnet-lpc/sched"
)

// Params is one Init call's worth of instance configuration (spec §4.5:
// "bind address, root path, index path, tables").
type Params struct {
	Bind      string
	RootPath  string
	IndexPath string
	Registry  *httpserver.Registry
	AuthTable auth.Table
}

type slot struct {
	conn     *httpserver.Conn
	listener netsock.Listener
	root     fsroot.Root
	index    fsroot.File
	handle   sched.Handle
	used     atomic.Value[bool]
}

// Table is the fixed-capacity Server Instance Table.
type Table struct {
	slots []slot
	clk   clock.Source
	log   logger.Logger
	sch   sched.Scheduler
	max   srvtps.Version
}

// New builds a Table with room for capacity concurrently running
// instances; max is the server's supported HTTP version ceiling (spec
// §4.4: "response.version ... server's maximum supported {major,
// minor}").
func New(capacity int, sch sched.Scheduler, clk clock.Source, log logger.Logger, max srvtps.Version) *Table {
	slots := make([]slot, capacity)
	for i := range slots {
		slots[i].used = atomic.NewValue[bool]()
	}
	return &Table{
		slots: slots,
		clk:   clk,
		log:   log,
		sch:   sch,
		max:   max,
	}
}

// Init finds a free slot, acquires the socket/filesystem resources
// named in p, pre-resolves the index handler and content type, and
// starts the instance LISTENING. Any failure unwinds everything
// acquired so far in reverse order (spec §4.5).
func (t *Table) Init(p Params) (int, error) {
	idx := -1
	for i := range t.slots {
		if !t.slots[i].used.Load() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return -1, liberr.New(CodeTablesFull, "no free server instance slot")
	}

	bind := p.Bind
	if bind == "" {
		bind = ":80"
	}

	l, err := netsock.Listen(bind)
	if err != nil {
		return -1, liberr.New(CodeSocket, "listen failed", err)
	}

	root, err := fsroot.Open(p.RootPath)
	if err != nil {
		_ = l.Close()
		return -1, liberr.New(CodeFilesystem, "root open failed", err)
	}

	index, err := root.Open(p.IndexPath)
	if err != nil {
		_ = root.Close()
		_ = l.Close()
		return -1, liberr.New(CodeFilesystem, "index open failed", err)
	}

	reg := p.Registry
	fh, ct := reg.FileHandlerForExtension(extensionOf(p.IndexPath))
	reg.Index, reg.IndexType = *fh, ct

	conn := httpserver.NewConn(httpserver.ConnConfig{
		Listener:   l,
		Root:       root,
		Index:      index,
		Registry:   reg,
		AuthTable:  p.AuthTable,
		Clock:      t.clk,
		Log:        t.log,
		MaxVersion: t.max,
	})
	conn.Start()

	handle := t.sch.Register(func() { conn.Tick() })

	used := t.slots[idx].used
	t.slots[idx] = slot{conn: conn, listener: l, root: root, index: index, handle: handle, used: used}
	used.Store(true)
	return idx, nil
}

// extensionOf returns the dot-suffix of path's last component, so the
// index file is pre-resolved through the same by-extension table lookup
// a request would use. Unlike ParseURI, which takes the last dot
// anywhere in the path, it ignores a dot inside a directory component
// ("/dir.withdot/noext" yields "").
func extensionOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
		if path[i] == '/' {
			break
		}
	}
	return ""
}

// Release tears the slot down idempotently: unregisters from the
// scheduler, closes the index file, root directory and listening
// socket, then marks the slot free (spec §4.5). A connection the
// instance has accepted and not yet finished is not closed by Release.
func (t *Table) Release(idx int) {
	if idx < 0 || idx >= len(t.slots) {
		return
	}

	s := &t.slots[idx]
	if !s.used.Load() {
		return
	}
	// Flip first: a concurrent Init scanning for a free slot, or a
	// State() call from the metrics sampler, must see this slot as
	// gone before its resources are torn down underneath it.
	s.used.Store(false)

	if s.handle != nil {
		s.handle.Unregister()
	}
	if s.index != nil {
		_ = s.index.Close()
	}
	if s.root != nil {
		_ = s.root.Close()
	}
	if s.listener != nil {
		_ = s.listener.Close()
	}

	used := s.used
	*s = slot{used: used}
}

// Len reports the table's fixed capacity.
func (t *Table) Len() int { return len(t.slots) }

// State reports the state of the instance in slot idx, or
// httpserver.StateDisabled if the slot is free or out of range.
func (t *Table) State(idx int) httpserver.State {
	if idx < 0 || idx >= len(t.slots) || !t.slots[idx].used.Load() {
		return httpserver.StateDisabled
	}
	return t.slots[idx].conn.State()
}
