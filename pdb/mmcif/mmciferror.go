// An error implementation that saves the line number and the
// line we were trying to read.
// The key is to call xxxx.fill() where xxxx is the name of the comment
// scanner/mmcif reader.
package mmcif

import (
	"strconv"
)

const maxMsgLen = 70

// ReadError is what the reader returns for a file it cannot parse.
type ReadError struct {
	Line   int    // line number, 0 if the error is not tied to a line
	Inline string // The line that provoked the error
	Desc   string // Description of error
	Err    error  // from the underlying reader, if that is what broke
}

// fill stores the problem we have seen for printing
// out when it is convenient. It is in the scanner, but
// can be seen (by inclusion) in the mmcif reader.
// If we are already not Ok, it means we neglected an error.
// Add this to the message.
func (m *cmmtScanner) fill(desc string, saveLine bool) {
	const multErrStr string = "\nNew error, but there was already an error from line "
	if !m.Ok {
		ln := strconv.Itoa(m.l_err.Line)
		desc = m.l_err.Desc + multErrStr + ln + ":\n" + desc
	}
	m.Ok = false
	if saveLine {
		m.l_err.Line = m.n
	}
	m.l_err.Inline = string(m.cbytes()) // Saves current line in scanner m
	m.l_err.Desc = desc
}

func firstPart(s string) string {
	l := len(s)
	if l > maxMsgLen {
		l = maxMsgLen
	}
	return s[:l]
}

// Unwrap gives back an error from the underlying reader.
func (e *ReadError) Unwrap() error { return e.Err }

// Error takes what is known about the state and causes and returns a
// single string. This includes the number of the last line read
// and the description from fill().
func (e *ReadError) Error() string {
	var errmsg string
	if e.Line != 0 {
		errmsg = "line " + strconv.Itoa(e.Line) + ": "
	}
	errmsg += e.Desc
	if e.Line != 0 && e.Inline != "" {
		errmsg += "\nline starting with\n" + firstPart(e.Inline)
	}
	return errmsg
}
