package manifest

import (
	"bufio"
	"fmt"
)

// Fixed boilerplate surrounding the generated scripts. The generated
// records land inside the [scripts] table, so the [vars] and [env]
// sections have to come after them.
const axesHeader = `# axes.toml manifest for parser stress testing.
# Generated by runnerbench; do not edit by hand.

version = "0.2.3"
description = "Synthetic workload manifest for task-runner benchmarking."

[scripts]
build = "cargo build"
test = "cargo test"
lint = "cargo clippy -- -D warnings"
fmt = "cargo fmt --all -- --check"

`

const axesTrailer = `
[vars]
greeting = "benchmark run"

[env]
RUST_LOG = "debug"
RUST_BACKTRACE = "1"
`

func writeAxes(w *bufio.Writer, stem string, count int) {
	w.WriteString(axesHeader)
	for i := 1; i <= count; i++ {
		name := FormatAxes.RecordName(stem, i)
		fmt.Fprintf(w, "%s = \"echo Executing %s (%d/%d)\"\n", name, name, i, count)
	}
	w.WriteString(axesTrailer)
}
