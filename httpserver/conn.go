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

package httpserver

import (
	stderrors "errors"
	"strconv"
	"strings"

	"github.com/imjustmatthew/fnet-lpc/clock"
	"github.com/imjustmatthew/fnet-lpc/fsroot"
	"github.com/imjustmatthew/fnet-lpc/httpserver/auth"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
	"github.com/imjustmatthew/fnet-lpc/logger"
	"github.com/imjustmatthew/fnet-lpc/netsock"
)

// State is one of the six connection states of spec §4.4.
type State int

const (
	StateDisabled State = iota
	StateListening
	StateRXRequest
	StateRX
	StateTX
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateDisabled:
		return "DISABLED"
	case StateListening:
		return "LISTENING"
	case StateRXRequest:
		return "RX_REQUEST"
	case StateRX:
		return "RX"
	case StateTX:
		return "TX"
	case StateClosing:
		return "CLOSING"
	default:
		return "UNKNOWN"
	}
}

const (
	// RXTimeoutMS and TXTimeoutMS are the spec §4.4/§6 idle deadlines.
	RXTimeoutMS = 15000
	TXTimeoutMS = 10000

	// maxIterationsPerTick bounds how many internal state steps one
	// Tick performs before yielding back to the scheduler (spec §5).
	maxIterationsPerTick = 2
)

func rxTimeoutTicks() int64 { return RXTimeoutMS / clock.TickMS }
func txTimeoutTicks() int64 { return TXTimeoutMS / clock.TickMS }

// ConnConfig supplies a Conn with its collaborators and static
// configuration; NewConn never opens or closes any of them — that is
// httpserver/pool's job (spec §4.5).
type ConnConfig struct {
	Listener   netsock.Listener
	Root       fsroot.Root
	Index      fsroot.File
	Registry   *Registry
	AuthTable  auth.Table
	Clock      clock.Source
	Log        logger.Logger
	MaxVersion srvtps.Version
}

// Conn is one Server Instance of spec §3/§4.4: the per-connection
// request/response state machine, its fixed line buffer, and
// non-owning references to the tables and collaborators it was
// configured with.
type Conn struct {
	reg        *Registry
	authTable  auth.Table
	root       fsroot.Root
	index      fsroot.File
	clk        clock.Source
	log        logger.Logger
	maxVersion srvtps.Version

	listener netsock.Listener
	sock     netsock.Socket

	state     State
	stateTime int64

	buf       [BufSize]byte
	bufActual int
	bufSent   int
	sendMax   int

	request   srvtps.Request
	response  srvtps.Response
	sendParam srvtps.SendParam
}

// NewConn builds a Conn in the DISABLED state; Start transitions it to
// LISTENING once the caller is ready to begin accepting.
func NewConn(cfg ConnConfig) *Conn {
	return &Conn{
		reg:        cfg.Registry,
		authTable:  cfg.AuthTable,
		root:       cfg.Root,
		index:      cfg.Index,
		clk:        cfg.Clock,
		log:        cfg.Log,
		maxVersion: cfg.MaxVersion,
		listener:   cfg.Listener,
		state:      StateDisabled,
	}
}

// Start flips a freshly built Conn into LISTENING; called once by the
// instance table after resource acquisition succeeds (spec §4.5).
func (c *Conn) Start() {
	c.state = StateListening
}

// State reports the current state, mainly for monitoring/tests.
func (c *Conn) State() State { return c.state }

// --- types.Conn ---

func (c *Conn) Buffer() []byte                { return c.buf[:] }
func (c *Conn) Request() *srvtps.Request      { return &c.request }
func (c *Conn) Response() *srvtps.Response    { return &c.response }
func (c *Conn) SendParam() *srvtps.SendParam  { return &c.sendParam }
func (c *Conn) Root() fsroot.Root             { return c.root }
func (c *Conn) Index() fsroot.File            { return c.index }

// Tick performs up to maxIterationsPerTick internal state steps (spec
// §5: "each invocation ... performs at most two internal state
// iterations before yielding").
func (c *Conn) Tick() {
	for i := 0; i < maxIterationsPerTick; i++ {
		c.step()
	}
}

func (c *Conn) step() {
	switch c.state {
	case StateListening:
		c.doListening()
	case StateRXRequest:
		c.doRXRequest()
	case StateRX:
		c.doRX()
	case StateTX:
		c.doTX()
	case StateClosing:
		c.doClosing()
	}
}

func (c *Conn) doListening() {
	sock, err := c.listener.Accept()
	if err != nil {
		return
	}

	c.sock = sock
	c.request = srvtps.Request{}
	c.response = srvtps.Response{}
	c.response.ContentLength = -1
	c.response.Version = c.maxVersion
	c.response.TxData = StatusLine
	c.sendParam = srvtps.SendParam{}
	c.stateTime = c.clk.Ticks()
	c.bufActual = 0
	c.bufSent = 0
	c.sendMax = sock.SendMax()
	c.state = StateRXRequest
}

// doRXRequest mirrors the reference implementation's one-byte-at-a-time
// recv loop (spec §4.4): it keeps consuming bytes for as long as the
// socket has any ready and the connection stays in RX_REQUEST, so a
// single Tick can fully drain a request line plus headers that arrive
// together without waiting for the next scheduler pass.
func (c *Conn) doRXRequest() {
	var one [1]byte

	for {
		n, err := c.sock.Recv(one[:])
		if err != nil {
			c.log.Warnf("rx_request: socket error: %v", err)
			c.state = StateClosing
			return
		}

		if n == 0 {
			if c.clk.Ticks()-c.stateTime > rxTimeoutTicks() {
				c.state = StateClosing
			}
			return
		}

		c.stateTime = c.clk.Ticks()
		b := one[0]

		switch b {
		case '\r':
			if c.bufActual < BufSize {
				c.buf[c.bufActual] = 0
				c.bufActual++
			}
		case '\n':
			if c.handleLine() {
				return
			}
		default:
			if c.bufActual < BufSize {
				c.buf[c.bufActual] = b
				c.bufActual++
			}
		}

		if c.state != StateRXRequest {
			return
		}

		if c.bufActual >= BufSize {
			c.handleBufferFull()
			if c.state != StateRXRequest {
				return
			}
		}
	}
}

// handleLine processes one logical line (the bytes accumulated before
// the LF that triggered this call) and reports whether the connection
// left RX_REQUEST as a result.
func (c *Conn) handleLine() bool {
	line := c.buf[:c.bufActual]

	// '\r' writes a NUL terminator ahead of every line (including a
	// blank one), so a trailing NUL here is that artifact, not content;
	// strip it so the blank-line-ends-headers check below and the
	// parsers downstream see only real bytes.
	if n := len(line); n > 0 && line[n-1] == 0 {
		line = line[:n-1]
	}

	if c.request.Method == nil {
		return c.handleRequestLine(line)
	}
	return c.handleHeaderLine(line)
}

func (c *Conn) handleRequestLine(line []byte) bool {
	m, adv := c.reg.MatchMethod(line)
	if m == nil || m.Handle == nil {
		c.response.StatusCode = 501
		c.bufActual = 0
		c.state = StateTX
		return true
	}

	rest := line[adv:]
	uri, cursor := ParseURI(rest)
	version := ParseVersion(rest[cursor:])
	if version.Less16() > c.maxVersion.Less16() {
		version = c.maxVersion
	}

	c.request.Method = m
	c.request.URI = uri

	if version.Major == 0 {
		// HTTP/0.9: no headers, no auth, no status line — either the
		// body streams straight through or the connection is dropped.
		c.response.Version = version
		status := m.Handle(c, uri)
		c.bufActual = 0
		if isSuccess(status) {
			c.response.TxData = methodSend
			c.state = StateTX
		} else {
			c.state = StateClosing
		}
		return true
	}

	c.response.Version = version
	if c.authTable != nil {
		c.response.AuthEntry = auth.Required(c.authTable, uri, "")
	}

	status := m.Handle(c, uri)
	c.bufActual = 0

	if !isSuccess(status) {
		c.response.StatusCode = statusFromHandle(status)
		c.state = StateTX
		return true
	}

	// Success: keep reading header lines in the same state.
	return false
}

func (c *Conn) handleHeaderLine(line []byte) bool {
	if c.request.SkipLine {
		c.request.SkipLine = false
		c.bufActual = 0
		return false
	}

	if len(line) == 0 {
		if c.response.AuthEntry != nil {
			c.response.StatusCode = 401
		} else {
			c.response.StatusCode = 200
		}
		c.bufActual = 0

		if c.request.Method.Receive != nil && c.request.ContentLength > 0 {
			c.state = StateRX
		} else {
			c.state = StateTX
		}
		return true
	}

	switch {
	case bytesHasPrefix(line, "Authorization:"):
		val := strings.TrimSpace(string(line[len("Authorization:"):]))
		if c.response.AuthEntry != nil {
			if e := c.authTable.Match(string(c.request.URI.Path)); e != nil && e.Validate(val) {
				c.response.AuthEntry = nil
			}
		}
	case c.request.Method.Receive != nil && bytesHasPrefix(line, "Content-Length:"):
		val := strings.TrimSpace(string(line[len("Content-Length:"):]))
		if n, err := strconv.ParseInt(val, 10, 64); err == nil {
			c.request.ContentLength = n
		}
	}

	c.bufActual = 0
	return false
}

func bytesHasPrefix(line []byte, prefix string) bool {
	return len(line) >= len(prefix) && string(line[:len(prefix)]) == prefix
}

func isSuccess(status int) bool {
	return status == srvtps.OK || (status >= 200 && status < 300)
}

func statusFromHandle(status int) int {
	if status == srvtps.StatusErr {
		return 500
	}
	return status
}

// handleBufferFull implements spec §4.4's "buffer full, no LF seen"
// branch: before the request line is known, the request is unparseable
// and the connection is abandoned with a 500; afterward, the over-long
// header line is silently dropped.
func (c *Conn) handleBufferFull() {
	if c.request.Method == nil {
		c.response.StatusCode = 500
		c.bufActual = 0
		c.state = StateTX
		return
	}
	c.request.SkipLine = true
	c.bufActual = 0
}

func (c *Conn) doRX() {
	room := BufSize - c.bufActual
	if room <= 0 {
		c.bufActual = 0
		room = BufSize
	}

	n, err := c.sock.Recv(c.buf[c.bufActual : c.bufActual+room])
	if err != nil {
		c.state = StateClosing
		return
	}

	if n == 0 {
		if c.clk.Ticks()-c.stateTime > rxTimeoutTicks() {
			c.state = StateClosing
		}
		return
	}

	c.stateTime = c.clk.Ticks()

	chunk := c.buf[c.bufActual : c.bufActual+n]
	status := c.request.Method.Receive(c, chunk)
	c.request.ContentLength -= int64(n)
	c.bufActual = 0

	if !isSuccess(status) {
		c.response.StatusCode = statusFromHandle(status)
		c.request.ContentLength = 0
		c.state = StateTX
		return
	}

	if c.request.ContentLength <= 0 {
		c.state = StateTX
	}
}

func (c *Conn) doTX() {
	if c.bufActual == c.bufSent {
		c.bufActual = 0
		c.bufSent = 0

		if c.response.SendEOF {
			c.state = StateClosing
			return
		}

		n := c.response.TxData(c)
		if n < 0 {
			c.state = StateClosing
			return
		}
		c.bufActual = n
		return
	}

	remaining := c.bufActual - c.bufSent
	chunk := remaining
	if chunk > c.sendMax {
		chunk = c.sendMax
	}

	n, err := c.sock.Send(c.buf[c.bufSent : c.bufSent+chunk])
	if n > 0 {
		c.bufSent += n
		c.stateTime = c.clk.Ticks()
	}

	if err != nil && !stderrors.Is(err, netsock.ErrWouldBlock) {
		c.state = StateClosing
		return
	}

	if c.clk.Ticks()-c.stateTime > txTimeoutTicks() {
		c.state = StateClosing
	}
}

func (c *Conn) doClosing() {
	if c.request.Method != nil && c.request.Method.Close != nil {
		c.request.Method.Close(c)
	}
	if c.sock != nil {
		_ = c.sock.Close()
		c.sock = nil
	}
	c.state = StateListening
}
