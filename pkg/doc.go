// Package pkg provides the core libraries for shapviz SHAP visualization.
//
// # Overview
//
// Shapviz turns SHAP explanations (per-observation feature attributions
// produced by a model explainer) into plots. The pkg directory is organized
// around a single data flow:
//
//	explanation file (JSON / CSV)
//	         ↓
//	    [adapter] package (parse into a container)
//	         ↓
//	    [explain] package (attribution grid + feature table + interactions)
//	         ↓
//	    [render] packages (waterfall, force, importance, dependence, network)
//	         ↓
//	    SVG/PNG/HTML/DOT output
//
// # Quick Start
//
// Load an explanation and render a waterfall plot for the first observation:
//
//	import (
//	    "github.com/jmaspons/shapviz/pkg/shapio"
//	    "github.com/jmaspons/shapviz/pkg/render/waterfall"
//	)
//
//	exp, _ := shapio.Import("explanation.json")
//	svg, _ := waterfall.Render(exp, 0)
//
// # Main Packages
//
// [explain] - The explanation container: an observations × features
// attribution grid aligned with a display feature table, a baseline, and
// optional pairwise interaction grids. Supports row/column subsetting and
// one-hot collapse.
//
// [table] - Immutable column-oriented feature table (numeric and string
// columns with missing values).
//
// [adapter] - Input format adapters: the native shapviz JSON document,
// raw SHAP JSON with a sidecar feature CSV, and plain CSV matrices.
//
// [shapio] - The canonical JSON document: import/export and conversion
// between documents and containers.
//
// [render] - Plot families. [render/waterfall] and [render/force] draw
// per-observation SVGs, [render/importance] draws bar and beeswarm
// summaries, [render/dependence] emits interactive HTML scatter charts,
// and [render/network] draws the interaction network via Graphviz.
//
// [pipeline] - Load → collapse → render orchestration with caching, shared
// by the CLI and the HTTP API.
//
// [httpapi] - REST server for uploading explanations and rendering plots
// on demand, backed by [store].
//
// [store] - Explanation persistence: file and MongoDB backends.
//
// [cache] - Parsed-explanation and artifact caches: file, Redis, and null
// backends keyed by content hash.
//
// [config] - TOML configuration file handling.
//
// [errors] - Structured errors with stable codes, shared across the CLI
// and the HTTP API.
//
// [observability] - Hook points for pipeline, cache, and HTTP events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/explain/...   # Specific package
//	go test -run Example        # Examples only
//
// [explain]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/explain
// [table]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/table
// [adapter]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/adapter
// [shapio]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/shapio
// [render]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/render
// [render/waterfall]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/render/waterfall
// [render/force]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/render/force
// [render/importance]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/render/importance
// [render/dependence]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/render/dependence
// [render/network]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/render/network
// [pipeline]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/pipeline
// [httpapi]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/httpapi
// [store]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/store
// [cache]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/cache
// [config]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/config
// [errors]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/errors
// [observability]: https://pkg.go.dev/github.com/jmaspons/shapviz/pkg/observability
package pkg
