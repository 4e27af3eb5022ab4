// Command wprsc is the wprs client: it dials wprsd's stream socket and
// applies the Request stream it receives (spec.md §4.D/§4.E). Without a
// Wayland client toolkit binding in scope (spec.md Non-goals), it runs
// with client.ToolkitApplier wrapping client.LoggingToolkit, which logs
// both the commit stream and the restack/damage/viewport calls a real
// toolkit binding would issue instead of making them.
package main

import (
	"flag"
	"log"

	"github.com/wprsproj/wprs/client"
	"github.com/wprsproj/wprs/internal/procctx"
	"github.com/wprsproj/wprs/transport"
)

const decompressWorkers = 4

var endpoint = flag.String("endpoint", "unix:/tmp/wprsd.sock",
	"endpoint to dial (unix:PATH or tcp:HOST:PORT)")

func run(endpointStr string) error {
	ep, err := transport.ParseEndpoint(endpointStr)
	if err != nil {
		return err
	}
	cl, err := transport.Dial(ep)
	if err != nil {
		return err
	}
	defer cl.Close()

	decompressor := client.NewDecompressor(decompressWorkers)
	defer decompressor.Close()

	core := client.NewCore(client.NewToolkitApplier(client.LoggingToolkit{}), decompressor)

	ctx, cancel := procctx.Interruptible()
	defer cancel()

	log.Printf("wprsc: connected to %s", ep)
	return client.Run(ctx, cl, core)
}

func main() {
	flag.Parse()
	if err := run(*endpoint); err != nil {
		log.Fatal(err)
	}
}
