package pdb

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const fakeEntry = "data_5ZCK\n#\n_entry.id 5ZCK\n#\n"

// fakeSites starts a server which knows 5zck, plain and compressed, and
// points Sites at it for the length of the test.
func fakeSites(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/plain/5zck.cif", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, fakeEntry)
	})
	mux.HandleFunc("/gz/5zck.cif.gz", func(w http.ResponseWriter, r *http.Request) {
		zw := gzip.NewWriter(w)
		io.WriteString(zw, fakeEntry)
		zw.Close()
	})
	srv := httptest.NewServer(mux)
	old := Sites
	Sites = []Site{
		{srv.URL + "/gz/", ".cif.gz"},
		{srv.URL + "/plain/", ".cif"},
	}
	t.Cleanup(func() {
		Sites = old
		srv.Close()
	})
}

func TestFetch(t *testing.T) {
	fakeSites(t)
	for i := 0; i < 2*len(Sites); i++ {
		rdr, err := Fetch(context.Background(), "5ZCK", i)
		if err != nil {
			t.Fatal(err)
		}
		c, err := io.ReadAll(rdr)
		rdr.Close()
		if string(c) != fakeEntry || err != nil {
			t.Errorf("site %d got %q, err = %v", i, c, err)
		}
	}
	doc, err := FetchDocument(context.Background(), "5zck", 0)
	if err != nil {
		t.Fatal(err)
	}
	if doc.First().Name != "5ZCK" {
		t.Error("wrong block name", doc.First().Name)
	}
}

func TestFetchErrors(t *testing.T) {
	fakeSites(t)
	for _, code := range []string{"", "5zc", "5zckk", "5z/k"} {
		if _, err := Fetch(context.Background(), code, 0); err == nil {
			t.Errorf("code %q should be refused", code)
		}
	}
	_, err := Fetch(context.Background(), "1abc", 1)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Error("wanted a 404, got", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Fetch(ctx, "5zck", 1); err == nil {
		t.Error("cancelled context should stop the fetch")
	}
}
