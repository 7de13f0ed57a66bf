// Package restore puts metadata categories back into an edited mmcif file.
//
// Tools that delete atoms tend to drop or leave stale the bookkeeping
// categories: entities, asym ids, connections, sequence schemes. Given
// the edited file and the original, restore copies the requested
// categories from the original, keeping only the rows which still refer
// to entities, chains, residues and atoms present in the edited
// _atom_site.
//
// The pieces, leaf first:
//   ExtractKeys   what is left in the edited structure (KeySet)
//   Rules         the fixed table of supported categories
//   synchronize   filter one reference category against a KeySet
//   Plan          order categories so parents come before dependents
//   assemble      put the filtered categories into a copy of the edited document
//
// Nothing here logs and nothing here changes the documents it is given.
package restore
