package manifest

import (
	"bufio"
	"fmt"
)

func writeTaskfile(w *bufio.Writer, stem string, count int) {
	w.WriteString("version: '3'\n")
	w.WriteString("tasks:\n")

	w.WriteString("  default:\n")
	fmt.Fprintf(w, "    deps: [%s]\n\n", FormatTaskfile.RecordName(stem, 1))

	for i := 1; i <= count; i++ {
		name := FormatTaskfile.RecordName(stem, i)
		fmt.Fprintf(w, "  %s:\n", name)
		w.WriteString("    cmds:\n")
		fmt.Fprintf(w, "      - echo \"Executing %s (%d/%d)\"\n\n", name, i, count)
	}
}
