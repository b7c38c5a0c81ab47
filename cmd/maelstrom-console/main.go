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
maelstrom-console is an interactive REPL for driving a single node
binary directly, without a full Maelstrom harness run: it spawns the
binary named by --bin as a subprocess, performs the init handshake on
its behalf, then lets an operator type envelope bodies as raw JSON and
watch the replies come back. Useful for poking at a workload by hand
while developing it.

Usage:

	maelstrom-console --bin ./maelstrom-echo --node-id n0
	maelstrom-console --bin ./maelstrom-broadcast --node-id n0 --peer n1 --peer n2
*/
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/chzyer/readline"

	"github.com/flydb-labs/maelstrom/internal/envelope"
	"github.com/flydb-labs/maelstrom/pkg/cli"
)

const version = "1.0.0"

// peerList collects repeated --peer flags.
type peerList []string

func (p *peerList) String() string     { return strings.Join(*p, ",") }
func (p *peerList) Set(v string) error { *p = append(*p, v); return nil }

func main() {
	binPath := flag.String("bin", "", "path to the node binary to drive (required)")
	nodeID := flag.String("node-id", "n0", "node id to hand the subprocess at init")
	clientID := flag.String("client-id", "c0", "src id this console uses for outbound messages")
	showVersion := flag.Bool("version", false, "print version and exit")
	var peers peerList
	flag.Var(&peers, "peer", "additional node id the subprocess should believe exists (repeatable)")
	flag.Parse()

	if *showVersion {
		fmt.Println("maelstrom-console " + version)
		return
	}
	if *binPath == "" {
		cli.ErrMissingArgument("--bin", "maelstrom-console --bin <path> [--node-id n0] [--peer n1]...").Exit()
	}

	nodeIDs := append([]string{*nodeID}, peers...)

	cmd := exec.Command(*binPath)
	cmd.Stderr = os.Stderr
	stdin, err := cmd.StdinPipe()
	if err != nil {
		cli.NewCLIError("Failed to open subprocess stdin").WithDetail(err.Error()).Exit()
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cli.NewCLIError("Failed to open subprocess stdout").WithDetail(err.Error()).Exit()
	}
	if err := cmd.Start(); err != nil {
		cli.ErrConnectionFailed(*binPath, "stdio", err).Exit()
	}

	var msgID int64
	nextMsgID := func() int {
		return int(atomic.AddInt64(&msgID, 1))
	}

	var writeMu sync.Mutex
	send := func(dest string, body any) error {
		writeMu.Lock()
		defer writeMu.Unlock()
		env := envelope.Envelope{Src: *clientID, Dest: dest}
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		env.Body = raw
		line, err := json.Marshal(env)
		if err != nil {
			return err
		}
		_, err = stdin.Write(append(line, '\n'))
		return err
	}

	initBody := envelope.InitBody{
		Type:    "init",
		MsgID:   nextMsgID(),
		NodeID:  *nodeID,
		NodeIDs: nodeIDs,
	}
	if err := send(*nodeID, initBody); err != nil {
		cli.NewCLIError("Failed to send init to subprocess").WithDetail(err.Error()).Exit()
	}

	go pumpReplies(stdout)

	cli.PrintInfo("Driving %s as node %q (peers: %v)", *binPath, *nodeID, nodeIDs)
	fmt.Printf("%s\n", cli.Dimmed("Type a JSON envelope body (e.g. {\"type\":\"echo\",\"echo\":\"hi\"}), \\h for help, \\q to quit."))

	rl, err := readline.New(cli.Highlight(*clientID + "> "))
	if err != nil {
		cli.NewCLIError("Failed to start the line editor").WithDetail(err.Error()).Exit()
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			break
		}
		if err != nil {
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "\\") {
			if handleCommand(line) {
				break
			}
			continue
		}

		dest := *nodeID
		body := line
		if i := strings.IndexByte(line, ' '); i > 0 && !strings.HasPrefix(line, "{") {
			dest = line[:i]
			body = strings.TrimSpace(line[i+1:])
		}

		var raw json.RawMessage
		if err := json.Unmarshal([]byte(body), &raw); err != nil {
			cli.ErrInvalidValue("body", body, "not valid JSON").Print()
			continue
		}
		decorated := map[string]any{}
		if err := json.Unmarshal(raw, &decorated); err != nil {
			cli.ErrInvalidValue("body", body, "must be a JSON object").Print()
			continue
		}
		decorated["msg_id"] = nextMsgID()
		if err := send(dest, decorated); err != nil {
			cli.NewCLIError("Failed to write to subprocess").WithDetail(err.Error()).Print()
		}
	}

	_ = stdin.Close()
	_ = cmd.Wait()
}

// pumpReplies prints every line the subprocess writes to stdout,
// pretty-printed, until the pipe closes.
func pumpReplies(r io.Reader) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		var env envelope.Envelope
		if err := json.Unmarshal(sc.Bytes(), &env); err != nil {
			cli.ErrMalformedResponse(string(sc.Bytes())).Print()
			continue
		}
		pretty, _ := json.MarshalIndent(env, "", "  ")
		fmt.Printf("\n%s %s\n%s\n", cli.InfoIcon(), cli.Dimmed("<- "+env.Src), string(pretty))
	}
}

func handleCommand(line string) (quit bool) {
	switch line {
	case "\\q", "\\quit", "\\exit":
		return true
	case "\\h", "\\help":
		fmt.Println(cli.Highlight("Commands:"))
		fmt.Println("  \\h, \\help       show this help")
		fmt.Println("  \\q, \\quit       exit the console")
		fmt.Println("Anything else is sent as an envelope body, optionally prefixed")
		fmt.Println("with a destination node id: \"n1 {\\\"type\\\":\\\"read\\\"}\".")
		return false
	default:
		cli.ErrInvalidCommand(line).Print()
		return false
	}
}
