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
maelstrom-discover finds other maelstrom node processes advertising
themselves on the local network via mDNS (internal/discovery). This has
nothing to do with the Maelstrom harness protocol itself — the harness
always hands a node its full peer list at init — it's for an operator
running workload binaries by hand who wants to find what else is up
before wiring together a cluster.

Usage:

	maelstrom-discover                  # Discover nodes (5 second timeout)
	maelstrom-discover --timeout 10      # Custom timeout in seconds
	maelstrom-discover --json            # Output as JSON
	maelstrom-discover --quiet           # Only output addresses (for scripting)
*/
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/flydb-labs/maelstrom/internal/discovery"
	"github.com/flydb-labs/maelstrom/pkg/cli"
)

const (
	version   = "1.0.0"
	copyright = "Copyright (c) 2026 Maelstrom Toolkit Authors"
)

func main() {
	timeout := flag.Int("timeout", 5, "Discovery timeout in seconds")
	jsonOutput := flag.Bool("json", false, "Output as JSON")
	quiet := flag.Bool("quiet", false, "Only output node addresses (for scripting)")
	help := flag.Bool("help", false, "Show help")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(help, "h", false, "Show help")
	flag.BoolVar(showVersion, "v", false, "Show version information")
	flag.BoolVar(quiet, "q", false, "Only output node addresses (for scripting)")

	flag.Parse()

	if *help {
		printUsage()
		os.Exit(0)
	}
	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// mdns logs IPv6 errors that aren't actionable here.
	log.SetOutput(io.Discard)

	if !*quiet && !*jsonOutput {
		printBanner()
	}

	svc, err := discovery.NewService(discovery.Config{Advertise: false})
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "%s Discovery failed: %v\n", cli.ErrorIcon(), err)
		}
		os.Exit(1)
	}
	defer svc.Close()

	if !*quiet && !*jsonOutput {
		cli.PrintInfo("Scanning for maelstrom nodes on the network (timeout: %ds)...", *timeout)
		fmt.Println()
	}

	nodes, err := svc.Discover(time.Duration(*timeout) * time.Second)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "%s Discovery failed: %v\n", cli.ErrorIcon(), err)
		}
		os.Exit(1)
	}

	if len(nodes) == 0 {
		if !*quiet && !*jsonOutput {
			cli.PrintWarning("No maelstrom nodes found on the network.")
			fmt.Println()
			fmt.Printf("%s\n\n", cli.Highlight("TROUBLESHOOTING"))
			fmt.Printf("  %s\n", cli.Dimmed("Common issues:"))
			fmt.Println("    - no node binary is running with discovery enabled")
			fmt.Println("    - mDNS is blocked by a firewall (UDP port 5353)")
			fmt.Println("    - nodes are on a different network segment")
			fmt.Println()
			fmt.Printf("  %s\n", cli.Dimmed("Try:"))
			fmt.Println("    maelstrom-discover --timeout 10")
			fmt.Println()
		}
		os.Exit(0)
	}

	switch {
	case *jsonOutput:
		outputJSON(nodes)
	case *quiet:
		outputQuiet(nodes)
	default:
		outputHuman(nodes)
	}
}

func printBanner() {
	fmt.Println()
	fmt.Println(cli.Highlight("  Maelstrom Toolkit Discover"))
	fmt.Printf("  %s\n\n", cli.Dimmed("Network Node Discovery Tool v"+version))
}

func printVersion() {
	fmt.Println()
	fmt.Println(cli.Highlight("  Maelstrom Toolkit Discover v" + version))
	fmt.Printf("  %s\n\n", cli.Dimmed(copyright))
}

func printUsage() {
	printBanner()
	fmt.Printf("%s\n", cli.Dimmed("  Discovers maelstrom node processes on the local network using mDNS."))
	fmt.Printf("%s\n\n", cli.Dimmed("  Useful for finding existing cluster nodes before wiring up a cluster by hand."))

	fmt.Printf("%s maelstrom-discover [options]\n\n", cli.Highlight("Usage:"))

	fmt.Printf("%s\n\n", cli.Highlight("OPTIONS"))
	fmt.Println("    --timeout <seconds>   Discovery timeout (default: 5)")
	fmt.Println("    --json               Output results as JSON")
	fmt.Println("    --quiet, -q          Only output addresses (for scripting)")
	fmt.Println("    --version, -v        Show version information")
	fmt.Println("    --help, -h           Show this help message")
	fmt.Println()
}

func outputJSON(nodes []discovery.DiscoveredNode) {
	type nodeOutput struct {
		NodeID  string `json:"node_id"`
		Addr    string `json:"addr"`
		Port    int    `json:"port"`
		Version string `json:"version,omitempty"`
	}
	out := make([]nodeOutput, len(nodes))
	for i, n := range nodes {
		out[i] = nodeOutput{NodeID: n.NodeID, Addr: n.Addr, Port: n.Port, Version: n.Version}
	}
	data, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(data))
}

func outputQuiet(nodes []discovery.DiscoveredNode) {
	addrs := make([]string, len(nodes))
	for i, n := range nodes {
		addrs[i] = n.Addr + ":" + strconv.Itoa(n.Port)
	}
	fmt.Println(strings.Join(addrs, ","))
}

func outputHuman(nodes []discovery.DiscoveredNode) {
	cli.PrintSuccess("Found %d maelstrom node(s)", len(nodes))
	fmt.Println()

	for i, n := range nodes {
		fmt.Printf("  %s %s\n", cli.Dimmed(fmt.Sprintf("[%d]", i+1)), cli.Highlight(n.NodeID))
		fmt.Printf("      %s %s:%d\n", cli.Dimmed("Address:"), n.Addr, n.Port)
		if n.Version != "" {
			fmt.Printf("      %s %s\n", cli.Dimmed("Version:"), n.Version)
		}
		fmt.Println()
	}

	fmt.Printf("%s\n\n", cli.Dimmed("  Tip: use --json for machine-readable output"))
}
