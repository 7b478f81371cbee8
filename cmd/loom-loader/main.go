// Command loom-loader loads a workload from a Go plugin (built with
// `go build -buildmode=plugin`) and runs it against the runtime, so a
// workload can be iterated on and re-run without rebuilding this binary.
//
// The plugin must export a function with the signature
//
//	func Run(nbThreads int) error
//
// This is a peripheral tool, not a core runtime component, so it reaches
// for the standard library's plugin package rather than
// github.com/hashicorp/go-plugin: go-plugin's RPC/gRPC client-server
// harness is built for isolating a long-lived subprocess plugin, which is
// disproportionate for loading a single in-process Run function.
package main

import (
	"flag"
	"log"
	"plugin"
)

func main() {
	path := flag.String("plugin", "", "path to a .so built with -buildmode=plugin")
	nbThreads := flag.Int("nb-threads", 2, "number of worker threads to pass to the plugin")
	flag.Parse()

	if *path == "" {
		log.Fatal("loom-loader: -plugin is required")
	}

	p, err := plugin.Open(*path)
	if err != nil {
		log.Fatalf("loom-loader: opening plugin: %v", err)
	}

	sym, err := p.Lookup("Run")
	if err != nil {
		log.Fatalf("loom-loader: plugin has no Run symbol: %v", err)
	}

	run, ok := sym.(func(int) error)
	if !ok {
		log.Fatalf("loom-loader: Run has the wrong signature, want func(int) error")
	}

	if err := run(*nbThreads); err != nil {
		log.Fatalf("loom-loader: %v", err)
	}
}
