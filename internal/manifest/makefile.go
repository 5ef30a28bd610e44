package manifest

import (
	"bufio"
	"fmt"
)

func writeMakefile(w *bufio.Writer, stem string, count int) {
	// The default target always points at the first record, even for an
	// empty manifest. make only resolves targets when asked to build
	// them, so the file stays parseable either way.
	w.WriteString(".PHONY: default\n")
	fmt.Fprintf(w, "default: %s\n\n", FormatMakefile.RecordName(stem, 1))

	for i := 1; i <= count; i++ {
		name := FormatMakefile.RecordName(stem, i)
		fmt.Fprintf(w, ".PHONY: %s\n", name)
		fmt.Fprintf(w, "%s:\n", name)
		fmt.Fprintf(w, "\t@echo \"Executing %s (%d/%d)\"\n\n", name, i, count)
	}
}
