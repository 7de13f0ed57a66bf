// Package pdb/cmmn has common definitions for structures read from
// mmcif files. The mmcif reader fills these in and the restore code
// walks over them.
package cmmn

// What mmcif uses for missing values.
// A question mark, ?, means a missing value.
// A dot, ., means not appropriate or deliberately left out.
const (
	Unknown      = "?"
	Inapplicable = "."
)

// IsNull returns true if a cell is one of the two mmcif null markers.
func IsNull(s string) bool {
	return s == Unknown || s == Inapplicable
}

// Atom is one line from _atom_site. We do not keep coordinates, only
// what is needed to recognise the atom again.
type Atom struct {
	Name   string // label_atom_id, or auth_atom_id if there is no label
	AltID  string // label_alt_id, "." if there are no alternates
	CompID string // residue name on this line. Microheterogeneity means
} //               it can differ between alternates of one residue.

// Residue collects the atoms of one residue. Alternate conformers live
// in the same residue.
type Residue struct {
	Name     string // comp_id of the first atom seen
	SeqNum   string // auth_seq_id, kept as text. Can be anything.
	InsCode  string // pdbx_PDB_ins_code
	LabelSeq string // label_seq_id, "." for non-polymers
	Atoms    []Atom
}

// Chain is a run of residues with the same author chain name and the
// same label asym id (subchain). A PDB chain "A" with a protein and two
// ligands comes out as three of these.
type Chain struct {
	Name     string // auth_asym_id
	Subchain string // label_asym_id
	EntityID string // label_entity_id, may be null in minimal files
	Residues []Residue
}

// Model is one model from the file. Most files have exactly one.
type Model struct {
	Num    string // pdbx_PDB_model_num
	Chains []Chain
}

// Structure is everything we know after reading _atom_site
type Structure struct {
	Models []Model
}

// NAtoms returns the number of atom lines summed over all models.
func (st *Structure) NAtoms() (n int) {
	if st == nil {
		return 0
	}
	for _, m := range st.Models {
		for _, c := range m.Chains {
			for _, r := range c.Residues {
				n += len(r.Atoms)
			}
		}
	}
	return n
}
