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
maelstrom-linkv is the launcher for the linearizable KV workload (spec
§4.7): reads are served from local state directly, while writes and cas
go through an internal/raft consensus engine so every node's committed
history agrees. Set --raft-dir (or Config.RaftDir) to persist Raft
state to disk across restarts; otherwise state lives in memory only,
which is fine under the Maelstrom harness (nodes are never expected to
survive a process restart mid-run).

Usage:

	maelstrom-linkv [--log-level debug|info|warn|error] [--log-json] [--config path] [--raft-dir path]
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
	"github.com/flydb-labs/maelstrom/internal/workload/linkv"
)

const version = "1.0.0"

func main() {
	logLevel := flag.String("log-level", "", "override the configured log level (debug, info, warn, error)")
	logJSON := flag.Bool("log-json", false, "emit newline-delimited JSON log records instead of text")
	configFile := flag.String("config", "", "path to a config file (see internal/config)")
	raftDir := flag.String("raft-dir", "", "directory to persist Raft state in (default: in-memory only)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("maelstrom-linkv " + version)
		return
	}

	mgr := config.Global()
	mgr.LoadFromEnv()
	if *configFile != "" {
		if err := mgr.LoadFromFile(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "maelstrom-linkv: %v\n", err)
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
	if *raftDir != "" {
		cfg.RaftDir = *raftDir
	}
	logging.SetGlobalLevel(logging.ParseLevel(cfg.LogLevel))
	logging.SetJSONMode(cfg.LogJSON)

	log := logging.NewLogger("maelstrom-linkv")

	var sink *tracesink.Sink
	if cfg.TraceFile != "" {
		algo, err := tracesink.ParseAlgorithm(cfg.TraceCompression)
		if err != nil {
			fmt.Fprintf(os.Stderr, "maelstrom-linkv: %v\n", err)
			os.Exit(1)
		}
		sink, err = tracesink.Open(cfg.TraceFile, algo)
		if err != nil {
			fmt.Fprintf(os.Stderr, "maelstrom-linkv: %v\n", err)
			os.Exit(1)
		}
		defer sink.Close()
	}

	workloadNode := linkv.NewWithRaftDir(cfg.RaftDir, cfg.ElectionTimeoutBaseMs, cfg.ElectionTimeoutJitterMs)
	rt := node.New(workloadNode, os.Stdin, os.Stdout, log).WithSink(sink)
	if err := rt.Run(context.Background()); err != nil {
		log.Error("node exited with error", "err", err)
		os.Exit(1)
	}
}
