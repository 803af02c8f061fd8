// Package pkg provides the core libraries for Ghoshna declaration exports.
//
// # Overview
//
// Ghoshna fills a self-declaration form (स्वप्रमाणित घोषणा-पत्र) with a
// person's details, lays it out on an A4 page and exports it as a JPEG whose
// size lands between 20 KB and 50 KB, the window most upload portals accept.
//
// # Architecture
//
// The data flow of one export:
//
//	declaration.Record
//	         ↓
//	    [document] (build the page markup, placeholders for blanks)
//	         ↓
//	    [render] (rasterize at device scale: native or chrome engine)
//	         ↓
//	    [compose] (flatten onto the white page background)
//	         ↓
//	    [compress] (binary search over JPEG quality for the size window)
//	         ↓
//	    [io] (name, package and save the artifact)
//
// [pipeline] runs these steps, guards against concurrent exports, and
// consults [cache] and [history] on the way.
//
// # Quick Start
//
//	set, _ := fonts.Load()
//	runner := pipeline.NewRunner(native.New(native.WithFonts(set)), nil, nil, nil)
//	defer runner.Close()
//
//	res, err := runner.Export(ctx, declaration.Record{ApplicantName: "Ram Kumar"}, nil)
//	if err != nil {
//	    return err
//	}
//	path, err := io.Save(".", res.Artifact, io.SaveOptions{})
//
// # Main Packages
//
// [declaration] - The record of field values, labels, placeholders and the
// completeness check run before an export.
//
// [document] - Page geometry and the declaration's markup, shared by both
// render engines.
//
// [render] - The [render.Engine] and [render.Target] contracts. The native
// engine draws with gogpu/gg; the chrome engine screenshots headless Chrome
// through chromedp.
//
// [compose] and [compress] - Background flattening and the quality search.
//
// [io] - Artifact naming, collision-safe saving, and record import from TOML
// or JSON.
//
// # Infrastructure
//
// [cache] - Artifact cache keyed by record hash: file, Redis, or none.
//
// [history] - Privacy-preserving export log: JSON lines file or MongoDB.
//
// [session] - Once-per-session flags behind the share and feedback nudges.
//
// [config] - TOML configuration for all of the above.
//
// [observability] - Hooks for pipeline and cache events.
//
// [retry] - Backoff for backend connections.
//
// [errors] - Coded errors shared across packages.
//
// [declaration]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/declaration
// [document]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/document
// [render]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/render
// [compose]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/compose
// [compress]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/compress
// [io]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/io
// [pipeline]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/cache
// [history]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/history
// [session]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/session
// [config]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/config
// [observability]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/observability
// [retry]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/retry
// [errors]: https://pkg.go.dev/github.com/ghoshnapatra/ghoshna/pkg/errors
package pkg
