// This is the upper level for reading and writing PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Then call the mmcif reader.

package pdb

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andrew-torda/cifrestore/pdb/mmcif"
	"github.com/andrew-torda/cifrestore/pdb/zwrap"
)

// Format says what kind of coordinate file we have.
type Format byte

const (
	OldFmt Format = iota
	MmcifFmt
	UnkFmt
)

func (f Format) String() string {
	switch f {
	case OldFmt:
		return "pdb"
	case MmcifFmt:
		return "mmcif"
	}
	return "unknown"
}

// ErrOldFormat is returned for files in the old PDB format, which we
// do not read.
var ErrOldFormat = errors.New("old PDB format, not mmcif")

// comparefirst says if a line starts with a word, ignoring case.
func comparefirst(s, w string) bool {
	return len(s) >= len(w) && strings.EqualFold(s[:len(w)], w)
}

// lookInFile opens a file and guesses if it is in old PDB format or
// in mmcif.
func lookInFile(fname string) (Format, error) {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM"}
	mmcifWords := []string{"data_", "_entry.id", "loop_"}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return UnkFmt, err
	}
	defer rdr.Close()

	const maxTestLines = 5000
	scnnr := bufio.NewScanner(bufio.NewReader(rdr))
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return MmcifFmt, nil
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return OldFmt, nil
			}
		}
	}
	return UnkFmt, errors.New(fname + ": cannot recognise format")
}

// FileFormat decides what format we will use.
// Maybe it uses the file name or maybe it peeks inside.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz.
func FileFormat(fname string) (Format, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "cif") {
			return MmcifFmt, nil
		} else if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return OldFmt, nil
		}
	}
	return lookInFile(fname)
}

// ReadFrom parses an mmcif document from r. name is only for messages.
func ReadFrom(r io.Reader, name string) (*mmcif.Document, error) {
	doc, err := mmcif.Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return doc, nil
}

// ReadDocument reads a whole mmcif file, compressed or not.
func ReadDocument(fname string) (*mmcif.Document, error) {
	typ, err := FileFormat(fname)
	if err != nil {
		return nil, err
	}
	if typ == OldFmt {
		return nil, fmt.Errorf("%s: %w", fname, ErrOldFormat)
	}
	rdr, err := zwrap.Open(fname)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return ReadFrom(rdr, fname)
}

// WriteDocument writes doc to fname, compressing it if the name ends
// in .gz.
func WriteDocument(fname string, doc *mmcif.Document) error {
	w, err := zwrap.Create(fname)
	if err != nil {
		return err
	}
	if err := errors.Join(mmcif.Write(w, doc), w.Close()); err != nil {
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return nil
}
