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

// Package config is the ambient configuration surface: a mapstructure
// bound to a viper.Viper, with an fsnotify watch that reloads the
// content-type and auth tables (and only those) on write, mirroring
// nabbar-golib's config-component convention of a viper-backed struct
// plus a narrow hot-reload contract.
package config

import (
	"fmt"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"github.com/imjustmatthew/fnet-lpc/httpserver/auth"
	"github.com/imjustmatthew/fnet-lpc/httpserver/content"
	srvtps "github.com/imjustmatthew/fnet-lpc/httpserver/types"
	"github.com/imjustmatthew/fnet-lpc/logger"
)

// ContentTypeEntry and AuthEntry are the mapstructure-tagged shapes a
// config file carries; Config.Build converts them into the runtime
// table types the rest of the module consumes.
type ContentTypeEntry struct {
	Extension string `mapstructure:"extension"`
	MIME      string `mapstructure:"mime"`
}

type AuthEntry struct {
	URIPrefix   string            `mapstructure:"uri_prefix"`
	Realm       string            `mapstructure:"realm"`
	Credentials map[string]string `mapstructure:"credentials"`
}

// Config mirrors spec.md §6's init parameters plus the ADDED subsystem
// tables, bound from a config file via viper/mapstructure.
type Config struct {
	Bind      string `mapstructure:"bind"`
	RootPath  string `mapstructure:"root_path"`
	IndexPath string `mapstructure:"index_path"`

	BufSize     int `mapstructure:"buf_size"`
	RXTimeoutMS int `mapstructure:"rx_timeout_ms"`
	TXTimeoutMS int `mapstructure:"tx_timeout_ms"`

	ContentTypes []ContentTypeEntry `mapstructure:"content_types"`
	Auth         []AuthEntry        `mapstructure:"auth"`
}

// Reloadable is what the hot-reload watch updates in place: only the
// content-type and auth tables, per SPEC_FULL.md's explicit scoping
// ("reloading the listen address or buffer size requires a restart").
type Reloadable struct {
	ContentTypes []srvtps.ContentType
	AuthTable    auth.Table
}

// Load reads path into a Config via viper, defaulting BufSize/timeouts
// when the file omits them.
func Load(path string) (*Config, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetDefault("buf_size", 512)
	v.SetDefault("rx_timeout_ms", 15000)
	v.SetDefault("tx_timeout_ms", 10000)
	v.SetDefault("bind", ":8080")

	if err := v.ReadInConfig(); err != nil {
		return nil, nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, nil, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}

	return &c, v, nil
}

// Build converts the raw config entries into the runtime table types.
func (c *Config) Build() Reloadable {
	cts := content.Defaults()
	for _, e := range c.ContentTypes {
		cts = content.Register(cts, e.Extension, e.MIME)
	}

	var at auth.Table
	for _, e := range c.Auth {
		at = append(at, auth.Entry{
			URIPrefix:   e.URIPrefix,
			Realm:       e.Realm,
			Credentials: e.Credentials,
		})
	}

	return Reloadable{ContentTypes: cts, AuthTable: at}
}

// WatchReload re-reads path on every fsnotify write event and invokes
// onReload with the freshly built Reloadable; it runs until watcher is
// closed by the caller (typically on process shutdown).
func WatchReload(path string, log logger.Logger, onReload func(Reloadable)) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watcher: %w", err)
	}

	if err := w.Add(path); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				c, _, err := Load(path)
				if err != nil {
					log.Warnf("config: reload %s failed: %v", path, err)
					continue
				}
				log.Infof("config: reloaded content-type/auth tables from %s", path)
				onReload(c.Build())
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnf("config: watch error: %v", err)
			}
		}
	}()

	return w, nil
}
