// Package mmcif reads and writes files in mmcif/cif format.
//
// Unlike a reader that only picks out coordinates, we keep everything,
// since the point is to write the file back out with some categories
// changed. A file becomes a Document with one or more data blocks. A
// block is an ordered list of categories. A category is a table: a list
// of column names in file order and rows of untyped strings.
//
// Overall structure
// The reader is a small set of state functions sitting on a scanner that
// jumps over comment lines.
// 1. The first character on the line is decisive. If it is a data item
// it has to be a "_". A loop starts with loop_, a block with data_.
// 2. A single data item like
//   _entry.id 5I55
// goes into a category with one row and Loop set to false. The next
// item of the same category adds a column to that row.
// 3. A loop becomes a category with Loop set to true.
// We treat multi-line fields as we should. According to
// https://www.iucr.org/resources/cif/spec/version1.1/cifsyntax,
// these lines
// ;a
//   b
// ;
// give the value "a\n  b". We keep the newline.
//
// Notes about the mmcif format...
// A question mark, ?, means a missing value.
// A dot, ., means not appropriate or deliberately left out.
// Both come back as the bare strings "?" and ".". If the file had them
// quoted, that information is lost.
// What is what..
// There are entities and chains.
// Entities can be anything - protein, ligands, water. Chains are
// _atom_site.label_asym_id (subchain) and, the old pdb chain,
// _atom_site.auth_asym_id. See
// http://mmcif.wwpdb.org/docs/pdb_to_pdbx_correspondences.html
package mmcif
