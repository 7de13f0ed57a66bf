package cmmn_test

import (
	"testing"

	. "github.com/andrew-torda/cifrestore/pdb/cmmn"
)

func TestIsNull(t *testing.T) {
	for _, s := range []string{"?", "."} {
		if !IsNull(s) {
			t.Error("should be null:", s)
		}
	}
	for _, s := range []string{"", "A", "..", "'?'", "1"} {
		if IsNull(s) {
			t.Error("should not be null:", s)
		}
	}
}

func TestNAtoms(t *testing.T) {
	var nilst *Structure
	if nilst.NAtoms() != 0 {
		t.Error("nil structure should have no atoms")
	}
	st := &Structure{Models: []Model{
		{Num: "1", Chains: []Chain{
			{Name: "A", Subchain: "A", Residues: []Residue{
				{SeqNum: "1", Atoms: []Atom{{Name: "N"}, {Name: "CA"}}},
				{SeqNum: "2", Atoms: []Atom{{Name: "N"}}},
			}},
			{Name: "A", Subchain: "B", Residues: []Residue{
				{SeqNum: "101", Atoms: []Atom{{Name: "ZN"}}},
			}},
		}},
		{Num: "2", Chains: []Chain{
			{Name: "C", Subchain: "C", Residues: []Residue{
				{SeqNum: "1", Atoms: []Atom{{Name: "O"}}},
			}},
		}},
	}}
	if n := st.NAtoms(); n != 5 {
		t.Error("expected 5 atoms, got", n)
	}
}
