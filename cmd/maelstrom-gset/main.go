/*
 * Copyright (c) 2026 Maelstrom Toolkit Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

/*
maelstrom-gset is the launcher for the grow-only-set CRDT workload
(spec §4.4): every node periodically replicates its full set to every
other node, unlike broadcast's topology-restricted delta gossip.

Usage:

	maelstrom-gset [--log-level debug|info|warn|error] [--log-json] [--config path]
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/flydb-labs/maelstrom/internal/config"
	"github.com/flydb-labs/maelstrom/internal/logging"
	"github.com/flydb-labs/maelstrom/internal/node"
	"github.com/flydb-labs/maelstrom/internal/tracesink"
	"github.com/flydb-labs/maelstrom/internal/workload/gset"
)

const version = "1.0.0"

func main() {
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	logJSON := flag.Bool("log-json", false, "emit newline-delimited JSON log records instead of text")
	configFile := flag.String("config", "", "path to a config file (see internal/config)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("maelstrom-gset " + version)
		return
	}

	mgr := config.Global()
	mgr.LoadFromEnv()
	if *configFile != "" {
		if err := mgr.LoadFromFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "maelstrom-gset: %v\n", err)
			os.Exit(1)
		}
	}
	cfg := mgr.Get()
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *logJSON {
		cfg.LogJSON = true
	}
	logging.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))
	logging.SetJSONMode(cfg.LogJSON)

	log := logging.NewLogger("maelstrom-gset")

	var sink *tracesink.Sink
	if cfg.TraceFile != "" {
		algo, err := tracesink.ParseAlgorithm(cfg.TraceCompression)
		if err != nil {
			fmt.Fprintf(os.Stderr, "maelstrom-gset: %v\n", err)
			os.Exit(1)
		}
		sink, err = tracesink.Open(cfg.TraceFile, algo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "maelstrom-gset: %v\n", err)
			os.Exit(1)
		}
		defer sink.Close()
	}

	rt := node.New(gset.NewWithInterval(cfg.GossipIntervalMs), os.Stdin, os.Stdout, log).WithSink(sink)
	if err := rt.Run(context.Background()); err != nil {
		log.Error("node exited with error", "err", err)
		os.Exit(1)
	}
}
