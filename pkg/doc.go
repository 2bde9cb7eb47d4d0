// Package pkg holds the libraries behind the watermark command.
//
// # Overview
//
// A watermark is a number hidden in the shape of a graph. Every node sits on
// one Hamiltonian path 0 → 1 → … → n-1, and each node may add one extra edge
// back to an earlier node. Whether the backedge spans an odd or even distance
// is the bit the node carries. The graph can be grafted into a program's
// control flow and read back later.
//
// The packages fall into three groups:
//
//  1. Codec: [graph], [parity], [watermark], [rs]
//  2. Plumbing: [pipeline], [cache], [io], [observability]
//  3. Surfaces: [render/nodelink], [errors], [buildinfo]
//
// # Data Flow
//
//	payload bytes
//	     ↓
//	[rs] Reed-Solomon block (optional)
//	     ↓
//	[watermark] Encode (scheme A or B)
//	     ↓
//	[graph] path + backedges
//	     ↓
//	[io] JSON, binary or DOT   /   [render/nodelink] SVG, PNG
//
// Decoding runs the same steps backwards. [pipeline.Runner] strings them
// together with caching, metrics and tracing; the CLI only talks to the
// runner.
//
// # Quick Start
//
//	g, _ := watermark.Encode([]byte{29}, watermark.SchemeA)
//	payload, _ := watermark.Decode(g, watermark.SchemeA) // [29]
//
// With error correction and a cache:
//
//	c, _ := cache.NewFileCache(dir)
//	r := pipeline.NewRunner(c, nil, logger)
//	g, _ := r.Encode(ctx, payload, pipeline.Options{ParitySymbols: 4})
//
// # Testing
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/watermark/...  # Codec only
//	go test -run Example ./pkg/... # Examples only
//
// [graph]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/graph
// [parity]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/parity
// [watermark]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/watermark
// [rs]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/rs
// [pipeline]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/pipeline
// [pipeline.Runner]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/pipeline#Runner
// [cache]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/cache
// [io]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/io
// [observability]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/observability
// [render/nodelink]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/render/nodelink
// [errors]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/asimos-bot/software-watermark/pkg/buildinfo
package pkg
