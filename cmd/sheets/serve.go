package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/broyeztony/sheets/sheets"
	"github.com/broyeztony/sheets/storage"
	"github.com/broyeztony/sheets/transport"
)

func serveCommand(args []string) int {
	addr := ""
	loadPath := ""
	zmqAddr := ""
	help := false

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help":
			help = true
		case strings.HasPrefix(arg, "--load="):
			loadPath = strings.TrimPrefix(arg, "--load=")
		case strings.HasPrefix(arg, "--zmq="):
			zmqAddr = strings.TrimPrefix(arg, "--zmq=")
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "unknown flag: %s\n", arg)
			serveUsage()
			return 2
		default:
			if addr != "" {
				fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", arg)
				serveUsage()
				return 2
			}
			addr = arg
		}
	}
	if help {
		serveUsage()
		return 0
	}
	addr = parseAddr(addr, ":8080")

	wb := sheets.NewWorkbook()
	if loadPath != "" {
		f, err := os.Open(loadPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open %s: %v\n", loadPath, err)
			return 1
		}
		loaded, err := storage.Load(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "load %s: %v\n", loadPath, err)
			return 1
		}
		wb = loaded
	} else {
		wb.NewSheet("Sheet1")
	}

	hub, cancelHub := transport.NewHub(wb)
	defer cancelHub()

	if zmqAddr != "" {
		pub, cancelPub, err := transport.NewPublisher(context.Background(), wb, zmqAddr, "sheets")
		if err != nil {
			fmt.Fprintf(os.Stderr, "zmq publisher: %v\n", err)
			return 1
		}
		defer pub.Close()
		defer cancelPub()
		log.Printf("publishing changes on %s", zmqAddr)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", hub.HandleWebSocket)

	log.Printf("serving workbook at http://%s/ws", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		return 1
	}
	return 0
}

func serveUsage() {
	fmt.Fprintf(os.Stderr, "Usage:\n")
	fmt.Fprintf(os.Stderr, "  sheets serve [addr] [--load=file.json] [--zmq=tcp://host:port]\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	fmt.Fprintf(os.Stderr, "  --load string   load a workbook from this JSON file before serving\n")
	fmt.Fprintf(os.Stderr, "  --zmq string    also publish changes on this zmq PUB address\n")
}
