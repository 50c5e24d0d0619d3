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

// Package monitor is the read-only monitoring surface over a
// httpserver/pool.Table: per-slot state plus Prometheus counters
// for accepted connections and bytes transferred, modeled on
// nabbar-golib's httpserver monitor+info split. It never touches the
// core state machine directly — spec.md requires the core not depend
// on monitoring, so this package only watches pool.Table.State(idx) and
// exposes dedicated hooks callers invoke alongside their own socket
// accounting.
package monitor

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/imjustmatthew/fnet-lpc/httpserver"
	"github.com/imjustmatthew/fnet-lpc/httpserver/pool"
)

// Metrics bundles the Prometheus collectors a host registers once and
// this package's hooks update per event.
type Metrics struct {
	Accepted  *prometheus.CounterVec
	BytesRecv *prometheus.CounterVec
	BytesSent *prometheus.CounterVec
	State     *prometheus.GaugeVec
}

// NewMetrics builds unregistered collectors labeled by instance slot
// name; the caller registers them with whatever prometheus.Registerer
// it uses (the default registry, or a dedicated one for tests).
func NewMetrics(namespace string) *Metrics {
	lbl := []string{"instance"}
	return &Metrics{
		Accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "accepted_total",
			Help: "Total connections accepted per server instance.",
		}, lbl),
		BytesRecv: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bytes_received_total",
			Help: "Total bytes received per server instance.",
		}, lbl),
		BytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "bytes_sent_total",
			Help: "Total bytes sent per server instance.",
		}, lbl),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace, Name: "instance_state",
			Help: "Current connection-state-machine state (httpserver.State) per instance.",
		}, lbl),
	}
}

// Register adds every collector in m to reg.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Accepted, m.BytesRecv, m.BytesSent, m.State} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Info is the read-only per-instance snapshot a host (an HTTP admin
// endpoint, a CLI status command) queries; it never blocks or touches
// the connection hot path.
type Info struct {
	Name    string
	State   httpserver.State
	Started time.Time
}

// Snapshot samples Table for every slot named in names (index-aligned);
// an out-of-range or disabled slot yields StateDisabled. Only Name and
// State are filled in; Started is left at its zero value.
func Snapshot(t *pool.Table, names []string) []Info {
	out := make([]Info, 0, len(names))
	for i, name := range names {
		out = append(out, Info{Name: name, State: t.State(i)})
	}
	return out
}

// Sample updates the State gauge for instance from t; call this on a
// timer or from an admin endpoint's handler, never from the poller.
func (m *Metrics) Sample(instance string, t *pool.Table, idx int) {
	m.State.WithLabelValues(instance).Set(float64(t.State(idx)))
}

// ObserveAccept/ObserveRecv/ObserveSent are the counters' update hooks;
// a host wires these into its netsock.Socket adapter or the scheduler
// loop around Tick(), keeping the core itself metrics-free.
func (m *Metrics) ObserveAccept(instance string) {
	m.Accepted.WithLabelValues(instance).Inc()
}

func (m *Metrics) ObserveRecv(instance string, n int) {
	m.BytesRecv.WithLabelValues(instance).Add(float64(n))
}

func (m *Metrics) ObserveSent(instance string, n int) {
	m.BytesSent.WithLabelValues(instance).Add(float64(n))
}
