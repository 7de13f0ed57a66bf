// Writing documents back out.
// Pairs are lined up so values start in one column. Loops get one row
// per line. Each category is followed by a "#" line, as the PDB does it.
package mmcif

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// reserved words which cannot start a bare value
var reserved = []string{"data_", "loop_", "save_", "global_", "stop_"}

// needsQuote returns true if a value cannot be written bare.
func needsQuote(v string) bool {
	if v == "" {
		return true
	}
	switch v[0] {
	case '_', '#', '$', '\'', '"', '[', ']', ';':
		return true
	}
	if strings.ContainsAny(v, " \t") {
		return true
	}
	for _, r := range reserved {
		if len(v) >= len(r) && strings.EqualFold(v[:len(r)], r) {
			return true
		}
	}
	return false
}

// needsTextField is true for values that cannot go on a line, even quoted.
func needsTextField(v string) bool {
	if strings.ContainsAny(v, "\n\r") {
		return true
	}
	return needsQuote(v) && strings.Contains(v, "'") && strings.Contains(v, `"`)
}

// quote returns v ready to go on a line. The null markers ? and . come
// out bare. Caller must have checked needsTextField first.
func quote(v string) string {
	if !needsQuote(v) {
		return v
	}
	if !strings.Contains(v, "'") {
		return "'" + v + "'"
	}
	return `"` + v + `"`
}

// writeTextField puts v between lines holding a semicolon.
func writeTextField(w *bufio.Writer, v string) {
	w.WriteString(";")
	w.WriteString(v)
	w.WriteString("\n;\n")
}

func writePairs(w *bufio.Writer, c *Category) {
	width := 0
	for i := range c.Columns {
		if n := len(c.Tag(i)); n > width {
			width = n
		}
	}
	for i, v := range c.Rows[0] {
		if needsTextField(v) {
			w.WriteString(c.Tag(i) + "\n")
			writeTextField(w, v)
			continue
		}
		fmt.Fprintf(w, "%-*s %s\n", width, c.Tag(i), quote(v))
	}
}

func writeLoop(w *bufio.Writer, c *Category) {
	w.WriteString("loop_\n")
	for i := range c.Columns {
		w.WriteString(c.Tag(i) + "\n")
	}
	var line strings.Builder
	for _, row := range c.Rows {
		line.Reset()
		for _, v := range row {
			if needsTextField(v) {
				if line.Len() > 0 {
					w.WriteString(line.String() + "\n")
					line.Reset()
				}
				writeTextField(w, v)
				continue
			}
			if line.Len() > 0 {
				line.WriteByte(' ')
			}
			line.WriteString(quote(v))
		}
		if line.Len() > 0 {
			w.WriteString(line.String() + "\n")
		}
	}
}

// writeCategory writes one category. A category with no rows has
// nothing to say and is not written.
func writeCategory(w *bufio.Writer, c *Category) {
	switch {
	case len(c.Rows) == 0:
		return
	case !c.Loop && len(c.Rows) == 1:
		writePairs(w, c)
	default:
		writeLoop(w, c)
	}
	w.WriteString("#\n")
}

// Write puts the whole document on w.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	for _, b := range doc.Blocks {
		bw.WriteString("data_" + b.Name + "\n#\n")
		for _, c := range b.cats {
			writeCategory(bw, c)
		}
	}
	return bw.Flush() // bufio keeps the first error
}
