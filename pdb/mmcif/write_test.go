package mmcif_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	. "github.com/andrew-torda/cifrestore/pdb/mmcif"
)

func TestQuote(t *testing.T) {
	tests := []struct{ in, out string }{
		{"A", "A"},
		{"?", "?"},
		{".", "."},
		{"", "''"},
		{"two words", "'two words'"},
		{"_under", "'_under'"},
		{"#hash", "'#hash'"},
		{"data_x", "'data_x'"},
		{"LOOP_", "'LOOP_'"},
		{"5' end", `"5' end"`},
		{`say "hi"`, `'say "hi"'`},
		{"O5'", "O5'"},
	}
	for _, tt := range tests {
		if got := Quote(tt.in); got != tt.out {
			t.Errorf("quote %q wanted %s got %s", tt.in, tt.out, got)
		}
	}
	for _, s := range []string{"a\nb", `it's "both"`} {
		if !NeedsTextField(s) {
			t.Errorf("%q needs a text field", s)
		}
	}
}

func TestWriteLayout(t *testing.T) {
	blk := NewBlock("1ABC")
	blk.Replace(&Category{Name: "_entry", Columns: []string{"id"}, Rows: [][]string{{"1ABC"}}})
	blk.Replace(&Category{Name: "_struct", Columns: []string{"entry_id", "title"},
		Rows: [][]string{{"1ABC", "A title"}}})
	blk.Replace(&Category{Name: "_entity", Columns: []string{"id", "type"}, Loop: true,
		Rows: [][]string{{"1", "polymer"}, {"2", "non-polymer"}}})
	blk.Replace(&Category{Name: "_empty", Columns: []string{"x"}, Loop: true})
	var buf bytes.Buffer
	if err := Write(&buf, &Document{Blocks: []*Block{blk}}); err != nil {
		t.Fatal(err)
	}
	want := `data_1ABC
#
_entry.id 1ABC
#
_struct.entry_id 1ABC
_struct.title    'A title'
#
loop_
_entity.id
_entity.type
1 polymer
2 non-polymer
#
`
	if buf.String() != want {
		t.Errorf("wanted\n%s\ngot\n%s", want, buf.String())
	}
}

func TestRoundTrip(t *testing.T) {
	in := small + `loop_
_chem_comp.id
_chem_comp.name
_chem_comp.formula
GA9 '3,3-BIS(3-BR-4-HYD)-7-CH-1H,3H-BEO[DE]ISO-1-ONE' 'C24 H13 Br2 Cl O4'
DNA "5' end" ?
TXT
;one "and" 'two'
;
.
`
	doc1 := readString(t, in)
	var buf bytes.Buffer
	if err := Write(&buf, doc1); err != nil {
		t.Fatal(err)
	}
	doc2 := readString(t, buf.String())
	c1, c2 := doc1.First().Categories(), doc2.First().Categories()
	if len(c1) != len(c2) {
		t.Fatal("lost categories going out and back in")
	}
	for i := range c1 {
		if !reflect.DeepEqual(c1[i], c2[i]) {
			t.Errorf("category %s changed\n%v\n%v", c1[i].Name, c1[i], c2[i])
		}
	}
	var buf2 bytes.Buffer
	Write(&buf2, doc2)
	if buf.String() != buf2.String() {
		t.Error("writing twice should give the same text")
	}
	if !strings.Contains(buf.String(), "\n;one \"and\" 'two'\n;\n") {
		t.Error("value with both quotes should be a text field")
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteError(t *testing.T) {
	if err := Write(failWriter{}, readString(t, small)); err == nil {
		t.Error("write error not passed back")
	}
}
