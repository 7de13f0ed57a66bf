package restore

import (
	"errors"
	"fmt"

	"github.com/andrew-torda/cifrestore/pdb"
	"github.com/andrew-torda/cifrestore/pdb/mmcif"
)

// Status is what happened to one requested category.
type Status string

const (
	StatusRestored    Status = "restored"
	StatusAbsent      Status = "absent-in-reference"
	StatusUnsupported Status = "unsupported"
	StatusNoRows      Status = "no-surviving-rows" // edited block left alone
	StatusFailed      Status = "failed"
)

// Result is the report for one requested category.
type Result struct {
	Category string
	Status   Status
	Kept     int
	Dropped  int
	Err      error // set when Status is StatusFailed
}

// Outcome is the output document plus one Result per requested
// category, in the order they were asked for.
type Outcome struct {
	Doc     *mmcif.Document
	Keys    *KeySet // what is left in the edited structure
	Results []Result
}

// UnsupportedResults turns an UnsupportedCategoryError into results, so
// a caller can report a refused request the same way as a finished one.
func UnsupportedResults(err error) []Result {
	var uerr *UnsupportedCategoryError
	if !errors.As(err, &uerr) {
		return nil
	}
	ret := make([]Result, len(uerr.Categories))
	for i, c := range uerr.Categories {
		ret[i] = Result{Category: c, Status: StatusUnsupported}
	}
	return ret
}

// firstBlock wants a document with at least one data block.
func firstBlock(doc *mmcif.Document, source string) (*mmcif.Block, error) {
	if b := doc.First(); b != nil {
		return b, nil
	}
	return nil, &MalformedStructureError{Source: source, Reason: "contains no data blocks"}
}

// parentKeys finds the keys a dependent category is gated by. If the
// parent was not in the reference, or could not be filtered, the keys
// come straight from the edited structure.
func parentKeys(rule *CategoryRule, ks *KeySet, kept map[string]set) (set, error) {
	if rule.DependsOn == "" {
		return nil, nil
	}
	if keys, ok := kept[rule.DependsOn]; ok {
		return keys, nil
	}
	p, ok := Lookup(rule.DependsOn)
	if !ok {
		return nil, &CategoryDependencyError{Category: rule.Name, Parent: rule.DependsOn,
			Err: errors.New("parent is not a known category")}
	}
	switch p.Kind {
	case KindEntity:
		return ks.entities, nil
	case KindChain:
		return ks.chains, nil
	}
	return nil, &CategoryDependencyError{Category: rule.Name, Parent: rule.DependsOn,
		Err: fmt.Errorf("no fallback for a %s parent", p.Kind)}
}

// Restore copies the requested categories from reference into a copy of
// edited, keeping only rows which refer to what is left in the edited
// _atom_site. Neither document is changed.
// An error comes back only if nothing can be done: an unknown category
// or a structure we cannot read. Trouble with a single category goes in
// its Result.
func Restore(edited, reference *mmcif.Document, prefixes []string) (*Outcome, error) {
	plan, err := Plan(prefixes)
	if err != nil {
		return nil, err
	}
	eb, err := firstBlock(edited, "edited")
	if err != nil {
		return nil, err
	}
	rb, err := firstBlock(reference, "reference")
	if err != nil {
		return nil, err
	}
	st, err := mmcif.ReadStructure(eb)
	if err != nil {
		reason := "has an unusable _atom_site: " + err.Error()
		if errors.Is(err, mmcif.ErrNoAtomSite) {
			reason = "contains no atoms"
		}
		return nil, &MalformedStructureError{Source: "edited", Reason: reason, Err: err}
	}
	ks, err := ExtractKeys(st, EntityMap(eb, rb))
	if err != nil {
		return nil, err
	}

	kept := make(map[string]set)
	byName := make(map[string]Result)
	var restored []*mmcif.Category
	for _, step := range plan {
		rule := step.Rule
		res := Result{Category: rule.Name}
		ref := rb.Category(rule.Name)
		parent, err := parentKeys(rule, ks, kept)
		switch {
		case ref == nil:
			res.Status = StatusAbsent
		case err != nil:
			res.Status, res.Err = StatusFailed, err
		default:
			rows, err := synchronize(ref, rule, ks, parent)
			if err != nil {
				res.Status, res.Err = StatusFailed, err
				break
			}
			kept[rule.Name] = survivors(ref, rule, rows)
			res.Kept, res.Dropped = len(rows), ref.Len()-len(rows)
			if len(rows) == 0 {
				res.Status = StatusNoRows
				break
			}
			res.Status = StatusRestored
			if step.Emit {
				restored = append(restored, ref.WithRows(rows))
			}
		}
		if step.Emit {
			byName[rule.Name] = res
		}
	}

	out := &Outcome{Doc: assemble(edited, restored), Keys: ks}
	for _, n := range normaliseAll(prefixes) {
		out.Results = append(out.Results, byName[n])
	}
	return out, nil
}

// RestoreFiles reads both files and calls Restore. The request is
// checked before any file is opened.
func RestoreFiles(editedPath, referencePath string, prefixes []string) (*Outcome, error) {
	if _, err := Plan(prefixes); err != nil {
		return nil, err
	}
	edited, err := pdb.ReadDocument(editedPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read edited CIF: %w", err)
	}
	reference, err := pdb.ReadDocument(referencePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read reference CIF: %w", err)
	}
	return Restore(edited, reference, prefixes)
}
