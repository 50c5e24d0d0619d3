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

// Package cgi is the optional CGI-style file handler for the .cgi
// extension: it resolves URI.path to a configured command line, starts
// it with the query string exposed as QUERY_STRING, and streams its
// stdout as the response body.
package cgi

import (
	"os/exec"

	shellwords "github.com/mattn/go-shellwords"

	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
)

// Command maps a URI path to the shell-style command line that serves
// it (spec.md treats CGI as an application-level payload outside the
// core; this table is the minimal binding the handler needs).
type Command struct {
	Path    string
	Command string
}

// Table is an ordered list of Command, matched by exact URI.path.
type Table []Command

func (t Table) lookup(path string) (string, bool) {
	for _, c := range t {
		if c.Path == path {
			return c.Command, true
		}
	}
	return "", false
}

// Handler builds the .cgi file-handler-table entry bound to table.
func Handler(table Table) srvtps.FileHandler {
	return srvtps.FileHandler{
		Extension: "cgi",
		Handle:    handlerFor(table),
		Send:      send,
		Close:     closeProc,
	}
}

// process wraps a running command's stdout pipe so that closing it
// also reaps the process, matching the default handler's File contract
// of "one Close, one resource released".
type process struct {
	cmd    *exec.Cmd
	stdout interface {
		Read([]byte) (int, error)
		Close() error
	}
}

func (p *process) Read(b []byte) (int, error) { return p.stdout.Read(b) }
func (p *process) Close() error {
	_ = p.stdout.Close()
	return p.cmd.Wait()
}

func handlerFor(table Table) func(c srvtps.Conn, uri srvtps.URI) int {
	return func(c srvtps.Conn, uri srvtps.URI) int {
		line, ok := table.lookup(string(uri.Path))
		if !ok {
			return 404
		}

		args, err := shellwords.Parse(line)
		if err != nil || len(args) == 0 {
			return 500
		}

		cmd := exec.Command(args[0], args[1:]...)
		cmd.Env = append(cmd.Environ(), "QUERY_STRING="+string(uri.Query))

		stdout, err := cmd.StdoutPipe()
		if err != nil {
			return 500
		}

		if err := cmd.Start(); err != nil {
			return 502
		}

		sp := c.SendParam()
		sp.Proc = &process{cmd: cmd, stdout: stdout}
		c.Response().ContentLength = -1
		return srvtps.OK
	}
}

func send(c srvtps.Conn, buf []byte) int {
	sp := c.SendParam()
	if sp.Proc == nil {
		return 0
	}

	n, _ := sp.Proc.Read(buf)
	return n
}

func closeProc(c srvtps.Conn) {
	sp := c.SendParam()
	if sp.Proc == nil {
		return
	}
	_ = sp.Proc.Close()
	sp.Proc = nil
}
