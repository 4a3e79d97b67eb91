// Command sheets is the CLI front end for the workbook engine: an
// interactive REPL, load/save against the JSON persistence format, and
// an HTTP+websocket (plus zmq PUB) server for live editing.
package main

import (
	"fmt"
	"os"
	"strings"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	switch sub {
	case "-h", "--help", "help":
		usage()
	case "repl":
		os.Exit(replCommand(os.Args[2:]))
	case "serve":
		os.Exit(serveCommand(os.Args[2:]))
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand: %s\n", sub)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  sheets <command> [arguments]\n")
	fmt.Fprintf(os.Stderr, "\nCommands:\n")
	fmt.Fprintf(os.Stderr, "  repl [file.json]          start the interactive REPL, optionally loading a workbook\n")
	fmt.Fprintf(os.Stderr, "  serve [addr]              start the HTTP+websocket server (default :8080)\n")
	fmt.Fprintf(os.Stderr, "  help                      show this help message\n")
}

func parseAddr(raw, fallback string) string {
	if raw == "" {
		return fallback
	}
	addr := strings.Replace(raw, "localhost", "", 1)
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	return addr
}
