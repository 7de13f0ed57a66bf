package restore

import (
	"github.com/andrew-torda/cifrestore/pdb/mmcif"
)

// assemble returns a copy of edited with each category in cats put in
// the first block, replacing any category of the same name. edited is
// not changed. Categories not in cats stay as they were.
func assemble(edited *mmcif.Document, cats []*mmcif.Category) *mmcif.Document {
	out := edited.Clone()
	blk := out.First()
	for _, c := range cats {
		blk.Replace(c)
	}
	return out
}
