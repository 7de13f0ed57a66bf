// Package pdb covers reading and writing PDB mmcif files.
// Go to a pdb website and download coordinates.
// pdb europe files are at http://www.ebi.ac.uk/pdbe/entry-files/download/5pti.cif
// The main point is to visit the web page and return a reader that
// can be used like the file readers.
package pdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andrew-torda/cifrestore/pdb/mmcif"
	"github.com/andrew-torda/cifrestore/pdb/zwrap"
)

// Site is somewhere to download from. The URL is Base + code + Suffix.
type Site struct {
	Base   string
	Suffix string
}

// Sites are the places we know. Entries can be replaced, for example
// by a local mirror.
var Sites = []Site{
	{"https://files.rcsb.org/download/", ".cif.gz"},
	{"https://www.ebi.ac.uk/pdbe/entry-files/download/", ".cif"},
	{"https://ftp.pdbj.org/mmcif/", ".cif.gz"},
}

// checkCode wants a four character pdb code and returns it in lower case.
func checkCode(acqCode string) (string, error) {
	if len(acqCode) != 4 {
		return "", fmt.Errorf("acq code should be four char, not %q", acqCode)
	}
	for _, c := range acqCode {
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return "", fmt.Errorf("acq code %q has a funny character", acqCode)
		}
	}
	return strings.ToLower(acqCode), nil
}

// Fetch is given a four letter pdb code. It goes to the protein data
// bank and returns a reader.
// You can pick which site you want with siteNum. If you give a value
// that is too big, we use a modulo to wrap it around, rather than
// generate an error. This makes it easier to cycle through them.
// Sites return normal or gzipped data. We look at the first bytes and
// decompress if needed.
func Fetch(ctx context.Context, acqCode string, siteNum int) (io.ReadCloser, error) {
	code, err := checkCode(acqCode)
	if err != nil {
		return nil, err
	}
	if siteNum < 0 {
		siteNum = -siteNum
	}
	site := Sites[siteNum%len(Sites)]
	url := site.Base + code + site.Suffix

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("wanted %s using %s, got %s", acqCode, url, resp.Status)
	}
	rdr, err := zwrap.WrapMaybe(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("%s: %w", url, err)
	}
	return rdr, nil
}

// FetchDocument downloads and parses an entry.
func FetchDocument(ctx context.Context, acqCode string, siteNum int) (*mmcif.Document, error) {
	rdr, err := Fetch(ctx, acqCode, siteNum)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	return ReadFrom(rdr, acqCode)
}
