// This file is for going from the _atom_site table to a structure.
// We only need names and numbers for recognising chains, residues and
// atoms, so coordinates are not converted.
package mmcif

import (
	"errors"
	"strings"

	. "github.com/andrew-torda/cifrestore/pdb/cmmn"
)

// ErrNoAtomSite means a block has no _atom_site table.
var ErrNoAtomSite = errors.New("no _atom_site category")

type cifCol struct {
	cifName string // name in mmcif file, like label_asym_id
	altName string // an alternative, label_asym_id is the alt for auth_asym_id
	n       int    // column in the table, -1 if it is not there
}

// acn is the set of _atom_site columns we look at
type acn struct {
	labelAtomId,
	labelAltId,
	authCompId,
	labelAsymId,
	labelEntityId,
	labelSeqId,
	pdbxPDBInsCode,
	authSeqId,
	authAsymId,
	pdbxPDBModelNum cifCol
}

func newAcn() acn {
	return acn{
		labelAtomId:     cifCol{cifName: "label_atom_id", altName: "auth_atom_id"},
		labelAltId:      cifCol{cifName: "label_alt_id"},
		authCompId:      cifCol{cifName: "auth_comp_id", altName: "label_comp_id"},
		labelAsymId:     cifCol{cifName: "label_asym_id"},
		labelEntityId:   cifCol{cifName: "label_entity_id"},
		labelSeqId:      cifCol{cifName: "label_seq_id"},
		pdbxPDBInsCode:  cifCol{cifName: "pdbx_PDB_ins_code"},
		authSeqId:       cifCol{cifName: "auth_seq_id", altName: "label_seq_id"},
		authAsymId:      cifCol{cifName: "auth_asym_id", altName: "label_asym_id"},
		pdbxPDBModelNum: cifCol{cifName: "pdbx_PDB_model_num"},
	}
}

// getColPos finds a column, or its alternative. If neither is found, we
// set the error that was given to us, unless it is already set.
func (cf *cifCol) getColPos(c *Category, err *error) {
	cf.optColPos(c)
	if cf.n == -1 && *err == nil {
		*err = errors.New("Could not find atomsite column: " + cf.cifName)
	}
}

// optColPos is getColPos for columns we can live without.
func (cf *cifCol) optColPos(c *Category) {
	if cf.n = c.ColumnIndex(cf.cifName); cf.n == -1 && cf.altName != "" {
		cf.n = c.ColumnIndex(cf.altName)
	}
}

// get returns the value in the column or dflt if the column is missing.
func (cf *cifCol) get(row []string, dflt string) string {
	if cf.n == -1 {
		return dflt
	}
	return row[cf.n]
}

// stBuilder remembers where each model, chain and residue went, since
// alternates and waters do not always come in one tidy run.
type stBuilder struct {
	st     Structure
	models map[string]int
	chains map[string]int // model, auth asym, label asym
	res    map[string]int // chain key plus auth seq, ins code, label seq
}

func join(s ...string) string { return strings.Join(s, "\x00") }

func (b *stBuilder) model(num string) *Model {
	i, ok := b.models[num]
	if !ok {
		i = len(b.st.Models)
		b.models[num] = i
		b.st.Models = append(b.st.Models, Model{Num: num})
	}
	return &b.st.Models[i]
}

// ReadStructure walks over _atom_site in a block and collects models,
// chains, residues and atoms in the order they first appear.
func ReadStructure(blk *Block) (*Structure, error) {
	cat := blk.Category("_atom_site")
	if cat == nil {
		return nil, ErrNoAtomSite
	}
	acn := newAcn()
	var err error
	acn.labelAtomId.getColPos(cat, &err)
	acn.authCompId.getColPos(cat, &err)
	acn.authAsymId.getColPos(cat, &err)
	acn.authSeqId.getColPos(cat, &err)
	if err != nil {
		return nil, err
	}
	for _, cf := range []*cifCol{&acn.labelAltId, &acn.labelAsymId, &acn.labelEntityId,
		&acn.labelSeqId, &acn.pdbxPDBInsCode, &acn.pdbxPDBModelNum} {
		cf.optColPos(cat)
	}

	b := stBuilder{
		models: make(map[string]int),
		chains: make(map[string]int),
		res:    make(map[string]int),
	}
	for _, row := range cat.Rows {
		mnum := acn.pdbxPDBModelNum.get(row, "1")
		authAsym := acn.authAsymId.get(row, Inapplicable)
		labelAsym := acn.labelAsymId.get(row, authAsym)
		entity := acn.labelEntityId.get(row, Unknown)
		mdl := b.model(mnum)

		ckey := join(mnum, authAsym, labelAsym)
		ci, ok := b.chains[ckey]
		if !ok {
			ci = len(mdl.Chains)
			b.chains[ckey] = ci
			mdl.Chains = append(mdl.Chains, Chain{Name: authAsym, Subchain: labelAsym, EntityID: entity})
		}
		chn := &mdl.Chains[ci]
		if IsNull(chn.EntityID) && !IsNull(entity) {
			chn.EntityID = entity
		}

		seq := acn.authSeqId.get(row, Unknown)
		ins := acn.pdbxPDBInsCode.get(row, Unknown)
		lseq := acn.labelSeqId.get(row, Inapplicable)
		comp := acn.authCompId.get(row, Unknown)
		rkey := join(ckey, seq, ins, lseq)
		ri, ok := b.res[rkey]
		if !ok {
			ri = len(chn.Residues)
			b.res[rkey] = ri
			chn.Residues = append(chn.Residues, Residue{Name: comp, SeqNum: seq, InsCode: ins, LabelSeq: lseq})
		}
		r := &chn.Residues[ri]
		r.Atoms = append(r.Atoms, Atom{
			Name:   acn.labelAtomId.get(row, Unknown),
			AltID:  acn.labelAltId.get(row, Inapplicable),
			CompID: comp,
		})
	}
	return &b.st, nil
}
