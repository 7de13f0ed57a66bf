package mmcif

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
)

const (
	squote byte = '\''
	dquote byte = '"'
)

// Lines in _struct_conn and friends can be long and text fields are a
// line each, so we give the scanner more room than the default.
const maxLine = 1024 * 1024

// Reader reads a complete mmcif document.
// It is given a reader, so the caller must have decided if it is
// a file, compressed file, http source, whatever.
type Reader struct {
	cmmtScanner
	block   *Block   // the data block being filled
	headers []string // column tags from the current loop_
	scrtch  [][]byte
}

// NewReader returns an object to read mmcif files.
func NewReader(r io.Reader) *Reader {
	if r == nil {
		return nil
	}
	return &Reader{
		cmmtScanner: newCmmtScanner(r, '#'),
		scrtch:      make([][]byte, 0, 32),
	}
}

// Read parses everything from r. It is the same as NewReader(r).Read().
func Read(r io.Reader) (*Document, error) {
	return NewReader(r).Read()
}

// cmmtScanner is a wrapper around bufio.Scanner that will ignore
// comment lines and remove trailing white space.
// It also counts newlines in scanner.n, so we can print out the line
// number in error messages.
type cmmtScanner struct {
	*bufio.Scanner           // standard library scanner
	l_err          ReadError // fill this out as soon as an error happens
	ctoken         []byte    // Store the bytes that will be returned by cbytes()
	n              int       // line number in the mmcif file
	cmmt           byte      // Comment character
	eof            bool      // Scanner has run out of input
	Ok             bool      // Are we OK or have we had an error ?
}

// newCmmtScanner is a wrapper around scanner, but
//  - jumps over blank lines
//  - removes trailing space
//  - jumps over lines starting with a comment character
// A Reader contains a cmmtScanner.
func newCmmtScanner(r io.Reader, cmmt byte) cmmtScanner {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), maxLine)
	return cmmtScanner{
		Scanner: s,
		cmmt:    cmmt,
		Ok:      true,
	}
}

// next reads one raw line. It returns false on error or EOF.
func (s *cmmtScanner) next() bool {
	if s.Scan() {
		s.n++ //                  Counter for error messages
		s.ctoken = bytes.TrimRight(s.Bytes(), " \t\r")
		return true
	}
	s.ctoken = nil //             If scan returned false,
	s.eof = true //               but Err() is nil, it is just EOF
	if err := s.Err(); err != nil {
		s.l_err.Err = err
		s.fill(err.Error(), true) // This is a real error
	}
	return false
}

// cscan is a wrapper around the library Scan(). It adds a newline counter
// for error messages. It jumps over blank lines and lines whose first
// non-blank character is the comment character. Comments after values
// are cut off by tokens.
// When finished, it sets "ctoken" to point to the slice. On EOF, ok is
// true and cbytes() returns nil.
func (s *cmmtScanner) cscan() (ok bool) {
	if !s.Ok { // We have already had an error, but nobody has noticed.
		s.ctoken = nil
		s.fill("pre-existing error missed. Small bug ?", false)
		return false // Just get out of here
	}
	for s.next() {
		b := s.ctoken
		if t := bytes.TrimLeft(b, " \t"); len(t) == 0 || t[0] == s.cmmt {
			continue
		}
		return true
	}
	return s.Ok
}

// rawscan reads the next line with no skipping, for text fields where
// blank lines and "#" are part of the value. On EOF, cbytes() is nil.
func (s *cmmtScanner) rawscan() bool {
	if !s.next() {
		return s.Ok
	}
	if s.ctoken == nil {
		s.ctoken = []byte{}
	}
	return true
}

// cbytes is like Bytes from the library, but returns the processed characters.
func (s *cmmtScanner) cbytes() []byte {
	if s.eof {
		return nil
	}
	return s.ctoken
}

// stateFn is the type of state function. It returns the next
// state function that should act on its input.
type stateFn func(*Reader, *Document) stateFn

// hasPrefixFold is bytes.HasPrefix, but ignoring case. Reserved words
// like data_ and loop_ are case-insensitive.
func hasPrefixFold(b []byte, prefix string) bool {
	return len(b) >= len(prefix) && strings.EqualFold(string(b[:len(prefix)]), prefix)
}

// stateTop is the general state that looks at the current line and
// decides what state to jump to next.
func stateTop(rd *Reader, _ *Document) stateFn {
	b := rd.cbytes() // Does not advance scanner
	if !rd.Ok || b == nil {
		return nil
	}
	b = bytes.TrimLeft(b, " \t")
	switch {
	case hasPrefixFold(b, "data_"):
		return stateData
	case hasPrefixFold(b, "loop_"):
		return stateLoop
	case b[0] == '_':
		return stateDItem
	default:
		return stateUnknown
	}
}

// stateData starts a new block from a data_ line.
func stateData(rd *Reader, doc *Document) stateFn {
	b := bytes.TrimLeft(rd.cbytes(), " \t")
	rd.block = NewBlock(string(b[len("data_"):]))
	doc.Blocks = append(doc.Blocks, rd.block)
	if !rd.cscan() {
		return nil
	}
	return stateTop
}

// stateUnknown should be reached if we are confused and do not know
// what to do. It is an error and we should stop
func stateUnknown(rd *Reader, _ *Document) stateFn {
	rd.fill("do not know what to do with this line", true)
	return nil
}

// splitTag breaks "_entity.id" into "_entity" and "id".
func splitTag(tag string) (cat, col string, ok bool) {
	i := strings.IndexByte(tag, '.')
	if i < 2 || i == len(tag)-1 || tag[0] != '_' {
		return "", "", false
	}
	return tag[:i], tag[i+1:], true
}

// needBlock complains if there is a data item before any data_ line.
func (rd *Reader) needBlock() bool {
	if rd.block == nil {
		rd.fill("data before the first data_ line", true)
		return false
	}
	return true
}

// textField reads a ;-delimited value. We are sitting on the opening
// line. Lines are joined with newlines. On return, the scanner has
// moved past the closing semicolon.
func (rd *Reader) textField() (string, bool) {
	var lines []string
	if first := rd.cbytes()[1:]; len(first) > 0 {
		lines = append(lines, string(first))
	}
	start := rd.n
	for {
		if !rd.rawscan() {
			return "", false
		}
		b := rd.cbytes()
		if b == nil {
			rd.l_err.Line = start
			rd.fill("text field starting here has no closing semicolon", false)
			return "", false
		}
		if len(b) > 0 && b[0] == ';' {
			break
		}
		lines = append(lines, string(b))
	}
	rd.cscan() // If an error occurs, the next function will pick it up
	return strings.Join(lines, "\n"), true
}

// stateDItem gets a data item. This is often on one line, but
// if there is only the name, the value is on subsequent lines
func stateDItem(rd *Reader, _ *Document) stateFn {
	if !rd.needBlock() {
		return nil
	}
	line := rd.n
	t, err := tokens(rd.cbytes(), rd.scrtch)
	if err != nil {
		rd.fill(err.Error(), true)
		return nil
	}
	cat, col, ok := splitTag(t[0])
	if !ok {
		rd.fill("could not split data name at dot: "+t[0], true)
		return nil
	}
	var value string
	switch len(t) {
	case 2: // Simplest. We just have a value on the line
		value = t[1]
		rd.cscan()
	case 1:
		const msg string = "data name with no value"
		if !rd.cscan() {
			return nil
		}
		b := rd.cbytes()
		switch {
		case b == nil:
			rd.fill(msg, true)
			return nil
		case b[0] == ';':
			if value, ok = rd.textField(); !ok {
				return nil
			}
		case isSpecial(b):
			rd.fill(msg, true)
			return nil
		default:
			v, err := tokens(b, rd.scrtch)
			if err != nil {
				rd.fill(err.Error(), true)
				return nil
			}
			if len(v) != 1 {
				rd.fill(msg, true)
				return nil
			}
			value = v[0]
			rd.cscan()
		}
	default:
		rd.fill("more than one value for "+t[0], true)
		return nil
	}
	if err := rd.block.addItem(cat, col, value); err != nil {
		rd.l_err.Line = line
		rd.fill(err.Error(), false)
		return nil
	}
	return stateTop
}

// stateLoop is where you are if you have a loop directive.
// You just have to jump over the line and go to reading the
// headers.
func stateLoop(rd *Reader, _ *Document) stateFn {
	if !rd.needBlock() {
		return nil
	}
	if !rd.cscan() {
		return nil
	}
	return stateLoopHdr
}

// stateLoopHdr gets the headers from a loop directive. All of them
// have to belong to one category.
func stateLoopHdr(rd *Reader, _ *Document) stateFn {
	rd.headers = rd.headers[:0]
	for b := rd.cbytes(); b != nil; b = rd.cbytes() {
		b = bytes.TrimLeft(b, " \t")
		if b[0] != '_' {
			break
		}
		f := bytes.Fields(cutComment(b))
		if len(f) != 1 {
			rd.fill("expected one data name per line in loop header", true)
			return nil
		}
		rd.headers = append(rd.headers, string(f[0]))
		if !rd.cscan() {
			return nil
		}
	}
	if len(rd.headers) < 1 {
		rd.fill("no contents found while reading loop headers", true)
		return nil
	}
	return stateLoopTable
}

// isSpecial returns true if the input in inline is not simply
// more of a table. Usually this means there is a new directive
// coming.
// If we have end of file, we also return true, so a caller knows
// it has to do something special.
func isSpecial(inline []byte) bool {
	if inline == nil {
		return true
	}
	inline = bytes.TrimLeft(inline, " \t")
	switch {
	case bytes.HasPrefix(inline, []byte("_")):
		return true
	case hasPrefixFold(inline, "loop_"):
		return true
	case hasPrefixFold(inline, "data_"):
		return true
	default:
		return false
	}
}

// stateLoopTable reads values until the next directive and cuts them
// into rows.
func stateLoopTable(rd *Reader, _ *Document) stateFn {
	ncol := len(rd.headers)
	cat := &Category{Loop: true, Columns: make([]string, ncol)}
	for i, h := range rd.headers {
		name, col, ok := splitTag(h)
		if !ok {
			rd.fill("could not split data name at dot: "+h, true)
			return nil
		}
		if i == 0 {
			cat.Name = name
		} else if !strings.EqualFold(name, cat.Name) {
			rd.fill("loop mixes categories "+cat.Name+" and "+name, true)
			return nil
		}
		cat.Columns[i] = col
	}

	start := rd.n
	var vals []string
	for b := rd.cbytes(); !isSpecial(b); b = rd.cbytes() {
		if b[0] == ';' {
			v, ok := rd.textField()
			if !ok {
				return nil
			}
			vals = append(vals, v)
			continue
		}
		t, err := tokens(b, rd.scrtch)
		if err != nil {
			rd.fill(err.Error(), true)
			return nil
		}
		vals = append(vals, t...)
		if !rd.cscan() {
			return nil
		}
	}
	if !rd.Ok {
		return nil
	}
	if len(vals) == 0 {
		rd.l_err.Line = start
		rd.fill("empty table "+cat.Name, false)
		return nil
	}
	if len(vals)%ncol != 0 {
		rd.l_err.Line = start
		rd.fill("loop "+cat.Name+": number of values is not a multiple of the number of columns", false)
		return nil
	}
	cat.Rows = make([][]string, 0, len(vals)/ncol)
	for i := 0; i < len(vals); i += ncol {
		cat.Rows = append(cat.Rows, vals[i:i+ncol:i+ncol])
	}
	if err := rd.block.addLoop(cat); err != nil {
		rd.l_err.Line = start
		rd.fill(err.Error(), false)
		return nil
	}
	return stateTop
}

// Read takes a Reader and actually parses the file.
func (rd *Reader) Read() (*Document, error) {
	if rd == nil {
		return nil, errors.New("start of file, nil mmcif reader")
	}
	doc := new(Document)
	if rd.cscan() {
		for state := stateTop; (state != nil) && rd.Ok; {
			state = state(rd, doc)
		}
	}
	if !rd.Ok {
		err := rd.l_err
		return nil, &err
	}
	return doc, nil
}
