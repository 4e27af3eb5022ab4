// Command wprsd is the wprs server: it runs on the machine with the real
// GPU/compositor and proxies surface updates to a wprsc client over one
// stream socket (spec.md §4.D).
package main

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/wprsproj/wprs/backend"
	"github.com/wprsproj/wprs/internal/procctx"
	"github.com/wprsproj/wprs/server"
	"github.com/wprsproj/wprs/transport"
)

const shardWorkers = 4
const shardCount = 4

var (
	endpoint = flag.String("endpoint", "unix:/tmp/wprsd.sock",
		"endpoint to listen on (unix:PATH or tcp:HOST:PORT)")
	tick = flag.Duration("tick", 0,
		"run loop poll interval; 0 uses the backend's own default")
	xwayland = flag.Bool("xwayland", false,
		"advertise Xwayland surface support, narrowed further by whatever the backend itself reports")
)

// fixedTickBackend overrides TickInterval so -tick can force the run loop's
// poll period regardless of what the wrapped backend itself reports.
type fixedTickBackend struct {
	backend.PollingBackend
	interval time.Duration
}

func (f fixedTickBackend) TickInterval() time.Duration { return f.interval }

func run(endpointStr string, tickOverride time.Duration, xwaylandEnabled bool, opts backend.MockOptions) error {
	ep, err := transport.ParseEndpoint(endpointStr)
	if err != nil {
		return err
	}
	srv, err := transport.Listen(ep)
	if err != nil {
		return err
	}
	defer srv.Close()

	var pb backend.PollingBackend = backend.NewMockBackend(opts)
	if tickOverride > 0 {
		pb = fixedTickBackend{PollingBackend: pb, interval: tickOverride}
	}

	pipeline := server.NewPipeline(shardWorkers, zstd.SpeedDefault)
	defer pipeline.Close()

	core := server.Core{XwaylandEnabled: xwaylandEnabled}

	ctx, cancel := procctx.Interruptible()
	defer cancel()

	log.Printf("wprsd: listening on %s", ep)
	return server.Serve(ctx, core, srv, pb, pipeline, shardCount)
}

func main() {
	opts, err := backend.ParseMockFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}
	if err := run(*endpoint, *tick, *xwayland, opts); err != nil {
		log.Fatal(err)
	}
}
