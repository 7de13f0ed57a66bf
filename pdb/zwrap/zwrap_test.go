// Test Zwrap
package zwrap_test

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andrew-torda/cifrestore/pdb/zwrap"
)

// both of these are "andrewsays", but the first is compressed. Write them to a file
// and check that the file opener does the right thing.
type gztest struct {
	data    []byte
	gzipped bool
}

var gztests = []gztest{
	{[]byte{
		0x1f, 0x8b, 0x08, 0x00, 0xb6, 0xf1, 0xa0, 0x5b, 0x00, 0x03,
		0x4b, 0xcc, 0x4b, 0x29, 0x4a, 0x2d, 0x2f, 0x4e, 0xac, 0x2c,
		0xce, 0x48, 0xcd, 0xc9, 0xc9, 0x07, 0x00, 0x44, 0xa8, 0x66,
		0x89, 0x0f, 0x00, 0x00, 0x00},
		true,
	},
	{[]byte{
		0x61, 0x6e, 0x64, 0x72, 0x65, 0x77, 0x73, 0x61,
		0x79, 0x73, 0x68, 0x65, 0x6c, 0x6c, 0x6f, 0x0a},
		false,
	},
}

// writeToTmp writes a bitslice to a file in a temporary directory and
// returns the name.
func writeToTmp(t *testing.T, data []byte) string {
	fname := filepath.Join(t.TempDir(), "del_me_testing")
	if err := os.WriteFile(fname, data, 0o644); err != nil {
		t.Fatal("fail writing to tempfile", err)
	}
	return fname
}

func TestWrap(t *testing.T) {
	b := make([]byte, 256)
	for _, x := range gztests {
		tmpfp, err := os.Open(writeToTmp(t, x.data))
		if err != nil {
			t.Fatal(err)
		}
		tmpr, err := zwrap.Wrap(tmpfp)
		if err != nil {
			if x.gzipped {
				t.Error("Fail on correctly gzipped file")
			}
			tmpfp.Close()
			continue // It is not gzipped, so move on to next
		} else if !x.gzipped { // No error, but we should get one
			t.Error("Fail on not compressed file")
		}
		if n, err := tmpr.Read(b); n < 5 {
			t.Errorf("Short read of %d bytes, %s", n, err)
		}
		if string(b[:10]) != "andrewsays"[:10] {
			t.Errorf("wrong string: %s", b[:10])
		}
		if err := tmpr.Close(); err != nil {
			t.Errorf("Error closing: %s", err)
		}
	}
}

// Calling Open or WrapMaybe should not fail since they look to see if
// the file is compressed or not.
func TestOpen(t *testing.T) {
	for _, x := range gztests {
		fname := writeToTmp(t, x.data)
		for _, how := range []string{"open", "wrapmaybe"} {
			var rdr io.ReadCloser
			var err error
			if how == "open" {
				rdr, err = zwrap.Open(fname)
			} else {
				fp, e2 := os.Open(fname)
				if e2 != nil {
					t.Fatal(e2)
				}
				rdr, err = zwrap.WrapMaybe(fp)
			}
			if err != nil {
				t.Errorf("%s: fail on file where compressed was %v", how, x.gzipped)
				continue
			}
			b, err := io.ReadAll(rdr)
			if err != nil {
				t.Error(how, err)
			}
			if !strings.HasPrefix(string(b), "andrewsays") {
				t.Errorf("%s: wrong string: %s", how, b)
			}
			if err := rdr.Close(); err != nil {
				t.Errorf("Error closing: %s", err)
			}
		}
	}
}

func TestOpenOdd(t *testing.T) {
	empty := writeToTmp(t, nil)
	rdr, err := zwrap.Open(empty)
	if err != nil {
		t.Fatal("empty file should open", err)
	}
	if b, _ := io.ReadAll(rdr); len(b) != 0 {
		t.Error("empty file gave bytes")
	}
	rdr.Close()
	if _, err := zwrap.Open(t.TempDir()); err == nil {
		t.Error("opening a directory should fail")
	}
	if _, err := zwrap.Open("/does/not/exist"); err == nil {
		t.Error("opening a missing file should fail")
	}
	broken := writeToTmp(t, []byte{0x1f, 0x8b, 0x00})
	if _, err := zwrap.Open(broken); err == nil {
		t.Error("should fail on a broken gzip header")
	}
}

func TestCreate(t *testing.T) {
	const s = "data_x\n_a.b 1\n"
	dir := t.TempDir()
	for _, name := range []string{"out.cif", "out.cif.gz"} {
		fname := filepath.Join(dir, name)
		w, err := zwrap.Create(fname)
		if err != nil {
			t.Fatal(err)
		}
		io.WriteString(w, s)
		if err := w.Close(); err != nil {
			t.Error("closing", name, err)
		}
		raw, _ := os.ReadFile(fname)
		if gz := strings.HasSuffix(name, ".gz"); gz == (string(raw) == s) {
			t.Error(name, "compressed or not compressed when it should not be")
		}
		r, err := zwrap.Open(fname)
		if err != nil {
			t.Fatal(err)
		}
		if b, _ := io.ReadAll(r); string(b) != s {
			t.Errorf("%s: read back %q", name, b)
		}
		r.Close()
	}
}
