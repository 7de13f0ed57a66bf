package brokenio_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/cifrestore/brokenio"
)

var longstring = "0123456789012345678901234567890123456789"

// TestTrashing reads through a reader which always fails and checks
// how much of each buffer survives.
func TestTrashing(t *testing.T) {
	tests := []struct {
		in    string
		frac  float32
		nkeep int
	}{
		{"", 0.3, 0},
		{"a", 0, 1},
		{"a", 1, 0},
		{"abcdefghij", 0, 10},
		{"abcdefghij", 0.25, 7},
		{"abcdefghij", 1, 0},
		{"abcdefghijklmn", 0.5, 7},
	}
	for _, tt := range tests {
		rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(tt.in)))
		rdr.SetProbFail(1)
		rdr.SetFracFail(tt.frac)
		b := make([]byte, len(tt.in))
		n, err := rdr.Read(b)
		if len(tt.in) > 0 && n != tt.nkeep {
			t.Errorf("%q frac %v kept %d, want %d", tt.in, tt.frac, n, tt.nkeep)
		}
		if !bytes.Equal(b[:n], []byte(tt.in)[:n]) {
			t.Errorf("%q frac %v changed what was kept: %q", tt.in, tt.frac, b[:n])
		}
		if nul := bytes.Count(b[n:], []byte{0}); nul != len(b)-n {
			t.Errorf("%q frac %v: %d of %d wiped bytes are zero", tt.in, tt.frac, nul, len(b)-n)
		}
		if wiped := n < len(tt.in); wiped != (err != nil) {
			t.Errorf("%q frac %v: wiped %v but err %v", tt.in, tt.frac, wiped, err)
		}
	}
}

func forZeroFile(prob float32) (n int, err error) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetProbZeroFile(prob)
	tmp := make([]byte, len(longstring))
	n, err = rdr.Read(tmp)
	rdr.Close()
	return n, err
}

func TestZeroFile(t *testing.T) {
	n, err := forZeroFile(1)
	if n > 0 {
		t.Error("should have received zero bytes")
	}
	if err != io.EOF {
		t.Errorf("Should have recieved EOF")
	}
	n, err = forZeroFile(0)
	if n < len(longstring) {
		t.Error("Wanted", len(longstring), "got", n)
	}
	if err != nil {
		t.Errorf("err reading from string")
	}
}

func TestReaderSimple(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetProbFail(0)
	s := make([]byte, len(longstring))
	if rdr.Read(s); string(s) != longstring {
		t.Errorf("simple read fail got %q wanted %q", s, longstring)
	}
}

func Example_setVerbose() {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetVerbose(true, os.Stdout)
	tmp := make([]byte, len(longstring))
	rdr.Read(tmp)
	rdr.Close()
	// Output: Closing 1 calls and 40 bytes
}

// TestClose - check if the reader really is calling the correct close method.
// It is.
func TestClose(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "testclose_test")
	if err := os.WriteFile(fname, []byte(longstring), 0o644); err != nil {
		t.Fatal("Writing temp file failed", err)
	}
	fp, err := os.Open(fname)
	if fp == nil || err != nil {
		t.Fatal("reading from tempfile, err = ", err)
	}
	rdr := brokenio.NewReader(fp)
	s := make([]byte, len(longstring))
	if n, err := rdr.Read(s); n != len(longstring) || err != nil {
		t.Error("Failed reading from tempfile, n, err = ", n, err)
	}
	rdr.SetVerbose(false, nil)
	if err = rdr.Close(); err != nil {
		t.Error("failed on close of reader")
	}
	if err = fp.Close(); err == nil {
		t.Error("file should already have been closed")
	}
}

func TestFailAfter(t *testing.T) {
	rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
	rdr.SetFailAfter(15)
	b, err := io.ReadAll(rdr)
	if !errors.Is(err, brokenio.ErrCut) {
		t.Error("wanted ErrCut, got", err)
	}
	if string(b) != longstring[:15] {
		t.Errorf("got %q before the cut", b)
	}
}

// Same seed, same damage.
func TestSeed(t *testing.T) {
	read := func() []byte {
		rdr := brokenio.NewReader(io.NopCloser(strings.NewReader(longstring)))
		rdr.SetSeed(42)
		rdr.SetProbFail(0.5)
		rdr.SetFracFail(0.5)
		var out []byte
		tmp := make([]byte, 4)
		for {
			n, err := rdr.Read(tmp)
			out = append(out, tmp[:n]...)
			if err == io.EOF {
				return out
			}
		}
	}
	if a, b := read(), read(); !bytes.Equal(a, b) {
		t.Errorf("seeded readers differ\n%q\n%q", a, b)
	}
}
