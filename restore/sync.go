package restore

import (
	"github.com/andrew-torda/cifrestore/pdb/mmcif"
)

// findCol returns the position of the first of the names present, or -1.
func findCol(c *mmcif.Category, names []string) int {
	for _, n := range names {
		if i := c.ColumnIndex(n); i != -1 {
			return i
		}
	}
	return -1
}

// cell is a key part from a row. A missing column gives anyValue.
func cell(row []string, i int) string {
	if i == -1 {
		return anyValue
	}
	return keyPart(row[i])
}

// siteIdx is SiteColumns resolved against one reference category.
type siteIdx struct {
	labelAsym, labelSeq, authAsym, authSeq, ins, atom, alt, comp int
}

func resolveSite(c *mmcif.Category, s SiteColumns) siteIdx {
	return siteIdx{
		labelAsym: findCol(c, s.LabelAsym),
		labelSeq:  findCol(c, s.LabelSeq),
		authAsym:  findCol(c, s.AuthAsym),
		authSeq:   findCol(c, s.AuthSeq),
		ins:       findCol(c, s.InsCode),
		atom:      findCol(c, s.Atom),
		alt:       findCol(c, s.AltID),
		comp:      findCol(c, s.CompID),
	}
}

// present says if the residue or atom a row points at is still there.
// The label asym id, if given, has to exist. Then author numbering is
// tried, then label numbering. A label asym id with a null label seq is
// a chain level reference. A row with nothing to go on is not kept.
func (si siteIdx) present(row []string, ks *KeySet) bool {
	la, aa, as := cell(row, si.labelAsym), cell(row, si.authAsym), cell(row, si.authSeq)
	if concrete(la) && !ks.HasChain(la) {
		return false
	}
	atom, alt, comp := cell(row, si.atom), cell(row, si.alt), cell(row, si.comp)
	if concrete(aa) && concrete(as) {
		r := resKey{aa, as, cell(row, si.ins)}
		if concrete(atom) {
			return hasAtom(ks.authAtoms, r, atom, alt)
		}
		return hasRes(ks.authRes, r, comp)
	}
	if ls := cell(row, si.labelSeq); concrete(la) && concrete(ls) {
		r := resKey{la, ls, Absent}
		if concrete(atom) {
			return hasAtom(ks.labelAtoms, r, atom, alt)
		}
		return hasRes(ks.labelRes, r, comp)
	}
	if concrete(la) {
		return true
	}
	return concrete(aa) && ks.HasAuthChain(aa)
}

// filter is a rule resolved against one reference category.
type filter struct {
	rule   *CategoryRule
	key    int // entity or chain id column, -1 for site only rules
	sites  []siteIdx
	parent []int // columns gated by parent keys
}

func newFilter(c *mmcif.Category, rule *CategoryRule) (*filter, error) {
	f := &filter{rule: rule, key: -1}
	if len(rule.KeyColumns) > 0 {
		if f.key = findCol(c, rule.KeyColumns); f.key == -1 {
			return nil, &KeyColumnError{Category: rule.Name, Columns: rule.KeyColumns}
		}
	}
	for _, s := range rule.Sites {
		si := resolveSite(c, s)
		if si.labelAsym == -1 && si.authAsym == -1 {
			return nil, &KeyColumnError{Category: rule.Name, Columns: append(append([]string{}, s.LabelAsym...), s.AuthAsym...)}
		}
		f.sites = append(f.sites, si)
	}
	for _, p := range rule.ParentColumns {
		if i := c.ColumnIndex(p); i != -1 {
			f.parent = append(f.parent, i)
		}
	}
	return f, nil
}

// keep decides one row. parent is nil if there is no parent to check.
func (f *filter) keep(row []string, ks *KeySet, parent set) bool {
	switch f.rule.Kind {
	case KindEntity:
		if !ks.HasEntity(cell(row, f.key)) {
			return false
		}
	case KindChain:
		if !ks.HasChain(cell(row, f.key)) {
			return false
		}
	}
	for _, si := range f.sites {
		if !si.present(row, ks) {
			return false
		}
	}
	if parent != nil {
		for _, i := range f.parent {
			if v := keyPart(row[i]); concrete(v) && !parent[v] {
				return false
			}
		}
	}
	return true
}

// synchronize returns the rows of ref which still belong, in their
// original order. Rows are shared with ref, not copied.
func synchronize(ref *mmcif.Category, rule *CategoryRule, ks *KeySet, parent set) ([][]string, error) {
	f, err := newFilter(ref, rule)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	for _, row := range ref.Rows {
		if f.keep(row, ks, parent) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// survivors collects the key column values of kept rows, which become
// the parent keys of dependent categories.
func survivors(ref *mmcif.Category, rule *CategoryRule, rows [][]string) set {
	ret := make(set)
	i := findCol(ref, rule.KeyColumns)
	if i == -1 {
		return ret
	}
	for _, row := range rows {
		ret[keyPart(row[i])] = true
	}
	return ret
}
