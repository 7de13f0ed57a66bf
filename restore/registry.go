package restore

import (
	"fmt"
	"strings"
)

// Kind says what sort of identifier decides if a row stays.
type Kind int

const (
	KindEntity  Kind = iota // entity id
	KindChain               // label asym id, maybe with residue sites
	KindResidue             // residue sites only
	KindAtom                // atom sites, checked at residue level if no atom name is given
)

func (k Kind) String() string {
	switch k {
	case KindEntity:
		return "entity"
	case KindChain:
		return "chain"
	case KindResidue:
		return "residue"
	case KindAtom:
		return "atom"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// SiteColumns names the columns which locate one residue or atom in a
// reference row. Each entry lists alternative column names, first
// found wins. A nil entry means the category has no such column.
type SiteColumns struct {
	LabelAsym []string
	LabelSeq  []string
	AuthAsym  []string
	AuthSeq   []string
	InsCode   []string
	Atom      []string
	AltID     []string
	CompID    []string // if found and not null, must be the residue name
}

// CategoryRule is how one category gets filtered.
type CategoryRule struct {
	Name          string // "_entity.", with the dot
	Kind          Kind
	KeyColumns    []string // alternatives for the entity or chain id column
	Sites         []SiteColumns
	DependsOn     string   // parent category or ""
	ParentColumns []string // values here must be among the parent's surviving keys
}

func cols(s ...string) []string { return s }

func connSite(n string) SiteColumns {
	p := "ptnr" + n + "_"
	return SiteColumns{
		LabelAsym: cols(p + "label_asym_id"),
		LabelSeq:  cols(p + "label_seq_id"),
		AuthAsym:  cols(p + "auth_asym_id"),
		AuthSeq:   cols(p + "auth_seq_id"),
		InsCode:   cols("pdbx_" + p + "PDB_ins_code"),
		Atom:      cols(p + "label_atom_id"),
		AltID:     cols("pdbx_" + p + "label_alt_id"),
	}
}

// Rules is the registry, in the order the categories appear in PDB files.
// Parents come before their dependents.
var Rules = []CategoryRule{
	{Name: "_entity.", Kind: KindEntity, KeyColumns: cols("id")},
	{Name: "_entity_poly.", Kind: KindEntity, KeyColumns: cols("entity_id"),
		DependsOn: "_entity.", ParentColumns: cols("entity_id")},
	{Name: "_entity_poly_seq.", Kind: KindEntity, KeyColumns: cols("entity_id"),
		DependsOn: "_entity.", ParentColumns: cols("entity_id")},
	{Name: "_pdbx_entity_nonpoly.", Kind: KindEntity, KeyColumns: cols("entity_id"),
		DependsOn: "_entity.", ParentColumns: cols("entity_id")},
	{Name: "_struct_asym.", Kind: KindChain, KeyColumns: cols("id")},
	{Name: "_struct_conn.", Kind: KindAtom,
		Sites:     []SiteColumns{connSite("1"), connSite("2")},
		DependsOn: "_struct_asym.", ParentColumns: cols("ptnr1_label_asym_id", "ptnr2_label_asym_id")},
	{Name: "_pdbx_struct_mod_residue.", Kind: KindResidue,
		Sites: []SiteColumns{{
			LabelAsym: cols("label_asym_id"),
			LabelSeq:  cols("label_seq_id"),
			AuthAsym:  cols("auth_asym_id"),
			AuthSeq:   cols("auth_seq_id"),
			InsCode:   cols("PDB_ins_code"),
			CompID:    cols("auth_comp_id", "label_comp_id"),
		}}},
	{Name: "_pdbx_poly_seq_scheme.", Kind: KindChain, KeyColumns: cols("asym_id"),
		DependsOn: "_struct_asym.", ParentColumns: cols("asym_id")},
	{Name: "_pdbx_nonpoly_scheme.", Kind: KindChain, KeyColumns: cols("asym_id"),
		Sites: []SiteColumns{{
			LabelAsym: cols("asym_id"),
			AuthAsym:  cols("pdb_strand_id"),
			AuthSeq:   cols("pdb_seq_num", "auth_seq_num"),
			InsCode:   cols("pdb_ins_code"),
		}},
		DependsOn: "_struct_asym.", ParentColumns: cols("asym_id")},
	{Name: "_pdbx_branch_scheme.", Kind: KindChain, KeyColumns: cols("asym_id"),
		Sites: []SiteColumns{{
			LabelAsym: cols("asym_id"),
			AuthAsym:  cols("pdb_asym_id", "auth_asym_id"),
			AuthSeq:   cols("pdb_seq_num", "auth_seq_num"),
			InsCode:   cols("pdb_ins_code"),
		}},
		DependsOn: "_struct_asym.", ParentColumns: cols("asym_id")},
}

// Normalise turns "_Entity" or " _entity. " into "_entity.".
func Normalise(prefix string) string {
	s := strings.ToLower(strings.TrimSpace(prefix))
	if s != "" && !strings.HasSuffix(s, ".") {
		s += "."
	}
	return s
}

// Lookup finds the rule for a prefix. The prefix is normalised first.
func Lookup(prefix string) (*CategoryRule, bool) {
	name := Normalise(prefix)
	for i := range Rules {
		if Rules[i].Name == name {
			return &Rules[i], true
		}
	}
	return nil, false
}

// Supported lists the category prefixes we know, in registry order.
func Supported() []string {
	ret := make([]string, len(Rules))
	for i, r := range Rules {
		ret[i] = r.Name
	}
	return ret
}
