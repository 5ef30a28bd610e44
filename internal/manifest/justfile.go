package manifest

import (
	"bufio"
	"fmt"
)

const justfileHeader = "# justfile generated by runnerbench for parser stress testing.\nset shell := [\"sh\", \"-c\"]\n\n"

func writeJustfile(w *bufio.Writer, stem string, count int) {
	w.WriteString(justfileHeader)
	for i := 1; i <= count; i++ {
		name := FormatJustfile.RecordName(stem, i)
		fmt.Fprintf(w, "%s:\n", name)
		fmt.Fprintf(w, "    echo \"Executing %s (%d/%d)\"\n\n", name, i, count)
	}
}
