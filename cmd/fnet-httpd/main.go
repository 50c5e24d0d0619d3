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

// Command fnet-httpd is the demo host binary: it loads a config file,
// wires the handler registry, starts one server instance in the pool,
// and drives it from the cooperative scheduler until interrupted.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/imjustmatthew/fnet-lpc/clock"
	"github.com/imjustmatthew/fnet-lpc/config"
	"github.com/imjustmatthew/fnet-lpc/httpserver"
	"github.com/imjustmatthew/fnet-lpc/httpserver/auth"
	"github.com/imjustmatthew/fnet-lpc/httpserver/handler/cgi"
	"github.com/imjustmatthew/fnet-lpc/httpserver/handler/post"
	"github.com/imjustmatthew/fnet-lpc/httpserver/handler/ssi"
	"github.com/imjustmatthew/fnet-lpc/httpserver/handler/static"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
	"github.com/imjustmatthew/fnet-lpc/logger"
	"github.com/imjustmatthew/fnet-lpc/monitor"
	"github.com/imjustmatthew/fnet-lpc/httpserver/pool"
	"github.com/imjustmatthew/fnet-lpc/sched"
)

var (
	flagConfig    string
	flagAdminBind string
	flagTickMS    int
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("fnet-httpd: %v", err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fnet-httpd",
		Short: "Embedded HTTP server instance host",
		Long:  "fnet-httpd hosts one cooperative, single-threaded HTTP server instance driven by the core state machine, as a standalone process for development and demos.",
		RunE:  runServe,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "fnet-httpd.yaml", "path to the instance config file")
	cmd.Flags().StringVar(&flagAdminBind, "admin-bind", "", "optional address to serve /metrics on (empty disables it)")
	cmd.Flags().IntVar(&flagTickMS, "tick-ms", 5, "scheduler poll period in milliseconds")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(color.CyanString("fnet-httpd (development build)"))
			return nil
		},
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.New()

	cfg, _, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	reloaded := cfg.Build()

	reg := buildRegistry(reloaded.ContentTypes, reloaded.AuthTable)

	sch := sched.New()
	clk := clock.Real()

	tbl := pool.New(1, sch, clk, log, srvtps.Version{Major: 1, Minor: 1})
	idx, err := tbl.Init(pool.Params{
		Bind:      cfg.Bind,
		RootPath:  cfg.RootPath,
		IndexPath: cfg.IndexPath,
		Registry:  reg,
		AuthTable: reloaded.AuthTable,
	})
	if err != nil {
		return fmt.Errorf("init server instance: %w", err)
	}

	watcher, err := config.WatchReload(flagConfig, log, func(r config.Reloadable) {
		reg.ContentTypes = r.ContentTypes
	})
	if err != nil {
		log.Warnf("config hot-reload disabled: %v", err)
	} else {
		defer func() { _ = watcher.Close() }()
	}

	metrics := monitor.NewMetrics("fnet_httpd")
	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		log.Warnf("metrics registration failed: %v", err)
	}

	if flagAdminBind != "" {
		go serveAdmin(flagAdminBind, log)
	}

	go sampleLoop(metrics, tbl, idx, clk)

	fmt.Println(color.GreenString("fnet-httpd listening on %s (instance %d)", cfg.Bind, idx))

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sch.Run(time.Duration(flagTickMS) * time.Millisecond)
		close(done)
	}()

	<-stop
	log.Infof("shutting down")
	sch.Stop()
	<-done
	tbl.Release(idx)
	return nil
}

// buildRegistry assembles the method/file/content-type tables SPEC_FULL.md
// names: GET and POST methods, the static/SSI/CGI file handlers, and the
// content-type table built from config.
func buildRegistry(cts []srvtps.ContentType, at auth.Table) *httpserver.Registry {
	reg := &httpserver.Registry{
		ContentTypes: cts,
		Default:      static.Handler(),
	}

	files := []srvtps.FileHandler{static.Handler()}
	files = append(files, ssi.Handlers()...)
	files = append(files, cgi.Handler(nil))
	reg.Files = files

	var sink nopSink
	reg.Methods = []srvtps.Method{reg.GETMethod(), post.Method(reg, sink)}

	return reg
}

// nopSink is the demo binary's POST body sink: it discards the body and
// reports success, standing in for an application-specific Sink.
type nopSink struct{}

func (nopSink) Receive(chunk []byte) (int, error) { return srvtps.OK, nil }

func serveAdmin(bind string, log logger.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(bind, mux); err != nil {
		log.Warnf("admin endpoint stopped: %v", err)
	}
}

func sampleLoop(m *monitor.Metrics, tbl *pool.Table, idx int, clk clock.Source) {
	_ = clk
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for range t.C {
		m.Sample("default", tbl, idx)
	}
}
