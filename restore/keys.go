package restore

import (
	"maps"
	"slices"

	"github.com/andrew-torda/cifrestore/pdb/cmmn"
	"github.com/andrew-torda/cifrestore/pdb/mmcif"
)

// Absent stands in a key for a null cell, "?" or ".", from either side.
const Absent = cmmn.Inapplicable

// anyValue stands for a column the reference category does not have.
// It matches whatever the structure has.
const anyValue = "\x00"

// keyPart maps a cell to what goes in a key.
func keyPart(s string) string {
	if cmmn.IsNull(s) {
		return Absent
	}
	return s
}

// concrete is true for a real value, not a null and not a wildcard.
func concrete(s string) bool { return s != Absent && s != anyValue }

type resKey struct{ Chain, Seq, Ins string }

type atomKey struct {
	resKey
	Name, Alt string
}

type set map[string]bool

// KeySet is what is left in the edited structure. It is built once by
// ExtractKeys and only read after that.
// Residues and atoms are stored twice, under author numbering (auth asym,
// auth seq, insertion code) and label numbering (label asym, label seq).
// Each is also stored with the insertion code and the alt id replaced by
// anyValue, so a lookup with a wildcard is a plain map lookup.
type KeySet struct {
	entities   set
	chains     set // label asym ids
	authChains set
	authRes    map[resKey]set // residue to residue names
	labelRes   map[resKey]set
	authAtoms  map[atomKey]bool
	labelAtoms map[atomKey]bool
}

// EntityMap reads label asym id to entity id from the _struct_asym of
// each block. The first block to mention an asym id wins.
func EntityMap(blocks ...*mmcif.Block) map[string]string {
	ret := make(map[string]string)
	for _, b := range blocks {
		c := b.Category("_struct_asym")
		if c == nil {
			continue
		}
		id, ent := c.ColumnIndex("id"), c.ColumnIndex("entity_id")
		if id == -1 || ent == -1 {
			continue
		}
		for _, row := range c.Rows {
			if _, ok := ret[row[id]]; !ok && !cmmn.IsNull(row[ent]) {
				ret[row[id]] = row[ent]
			}
		}
	}
	return ret
}

func addRes(m map[resKey]set, r resKey, comp string) {
	for _, ins := range [2]string{r.Ins, anyValue} {
		k := resKey{r.Chain, r.Seq, ins}
		if m[k] == nil {
			m[k] = make(set)
		}
		m[k][comp] = true
	}
}

func addAtom(m map[atomKey]bool, r resKey, name, alt string) {
	for _, ins := range [2]string{r.Ins, anyValue} {
		for _, a := range [2]string{alt, anyValue} {
			m[atomKey{resKey{r.Chain, r.Seq, ins}, name, a}] = true
		}
	}
}

// ExtractKeys collects identifiers from every model of st. entityOf maps
// label asym ids to entity ids for chains whose atoms do not say.
func ExtractKeys(st *cmmn.Structure, entityOf map[string]string) (*KeySet, error) {
	if st.NAtoms() == 0 {
		return nil, &MalformedStructureError{Source: "edited", Reason: "contains no atoms"}
	}
	ks := &KeySet{
		entities:   make(set),
		chains:     make(set),
		authChains: make(set),
		authRes:    make(map[resKey]set),
		labelRes:   make(map[resKey]set),
		authAtoms:  make(map[atomKey]bool),
		labelAtoms: make(map[atomKey]bool),
	}
	for _, m := range st.Models {
		for _, c := range m.Chains {
			if len(c.Residues) == 0 {
				continue
			}
			ent := c.EntityID
			if cmmn.IsNull(ent) {
				ent = entityOf[c.Subchain]
			}
			if ent != "" && !cmmn.IsNull(ent) {
				ks.entities[ent] = true
			}
			if !cmmn.IsNull(c.Subchain) {
				ks.chains[c.Subchain] = true
			}
			if !cmmn.IsNull(c.Name) {
				ks.authChains[c.Name] = true
			}
			for _, r := range c.Residues {
				auth := resKey{keyPart(c.Name), keyPart(r.SeqNum), keyPart(r.InsCode)}
				label := resKey{keyPart(c.Subchain), keyPart(r.LabelSeq), Absent}
				for _, a := range r.Atoms {
					addRes(ks.authRes, auth, a.CompID)
					addRes(ks.labelRes, label, a.CompID)
					addAtom(ks.authAtoms, auth, a.Name, keyPart(a.AltID))
					addAtom(ks.labelAtoms, label, a.Name, keyPart(a.AltID))
				}
			}
		}
	}
	return ks, nil
}

// HasEntity says if an entity still has atoms.
func (ks *KeySet) HasEntity(id string) bool { return ks.entities[id] }

// HasChain says if a label asym id still has atoms.
func (ks *KeySet) HasChain(id string) bool { return ks.chains[id] }

// HasAuthChain says if an author chain name still has atoms.
func (ks *KeySet) HasAuthChain(id string) bool { return ks.authChains[id] }

// Entities returns the entity ids, for reports and tests.
func (ks *KeySet) Entities() []string { return sorted(ks.entities) }

// Chains returns the label asym ids.
func (ks *KeySet) Chains() []string { return sorted(ks.chains) }

// hasRes looks up a residue. ins may be anyValue. comp, if concrete,
// has to be one of the names seen for that residue.
func hasRes(m map[resKey]set, r resKey, comp string) bool {
	names, ok := m[r]
	if !ok {
		return false
	}
	return !concrete(comp) || names[comp]
}

// hasAtom looks up an atom. An atom without an alt id in the structure
// matches any alt id the reference gives, and a reference row without
// an alt id matches any atom of that name.
func hasAtom(m map[atomKey]bool, r resKey, name, alt string) bool {
	if alt == Absent {
		alt = anyValue
	}
	if m[atomKey{r, name, alt}] {
		return true
	}
	return m[atomKey{r, name, Absent}]
}

func sorted(s set) []string { return slices.Sorted(maps.Keys(s)) }
