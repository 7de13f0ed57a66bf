package mmcif

import (
	"fmt"
	"strings"
)

// Document is the whole of an mmcif file.
type Document struct {
	Blocks []*Block
}

// First returns the first data block or nil if there is none.
// PDB files have exactly one block.
func (d *Document) First() *Block {
	if d == nil || len(d.Blocks) == 0 {
		return nil
	}
	return d.Blocks[0]
}

// Clone returns a document whose blocks can have categories replaced
// without touching the original. Categories themselves are shared.
func (d *Document) Clone() *Document {
	ret := &Document{Blocks: make([]*Block, len(d.Blocks))}
	for i, b := range d.Blocks {
		ret.Blocks[i] = b.Clone()
	}
	return ret
}

// Block is one data_ block. Categories are kept in file order.
type Block struct {
	Name  string
	cats  []*Category
	index map[string]int // lower case category name to position in cats
}

// NewBlock returns an empty block called name (without the data_).
func NewBlock(name string) *Block {
	return &Block{Name: name, index: make(map[string]int)}
}

// CategoryName turns a prefix like "_entity." into the name "_entity".
func CategoryName(prefix string) string {
	return strings.TrimSuffix(prefix, ".")
}

// Category returns the category called name or nil. The name may have
// the trailing dot or not. Comparison ignores case.
func (b *Block) Category(name string) *Category {
	if b == nil {
		return nil
	}
	if i, ok := b.index[strings.ToLower(CategoryName(name))]; ok {
		return b.cats[i]
	}
	return nil
}

// Categories returns the categories in file order. The slice is a copy.
func (b *Block) Categories() []*Category {
	ret := make([]*Category, len(b.cats))
	copy(ret, b.cats)
	return ret
}

// Len is the number of categories in the block
func (b *Block) Len() int { return len(b.cats) }

// Clone copies the list of categories, so Replace on the clone does
// not change b.
func (b *Block) Clone() *Block {
	ret := NewBlock(b.Name)
	ret.cats = make([]*Category, len(b.cats))
	copy(ret.cats, b.cats)
	for k, v := range b.index {
		ret.index[k] = v
	}
	return ret
}

// Replace puts c in the place of the category with the same name.
// If there is none, c goes in front of _atom_site, so metadata stays
// ahead of coordinates, or at the end if there are no coordinates.
func (b *Block) Replace(c *Category) {
	key := strings.ToLower(c.Name)
	if i, ok := b.index[key]; ok {
		b.cats[i] = c
		return
	}
	if i, ok := b.index["_atom_site"]; ok {
		b.cats = append(b.cats, nil)
		copy(b.cats[i+1:], b.cats[i:])
		b.cats[i] = c
		b.reindex()
		return
	}
	b.add(c)
}

// add appends a category which must not be there already.
func (b *Block) add(c *Category) {
	b.index[strings.ToLower(c.Name)] = len(b.cats)
	b.cats = append(b.cats, c)
}

func (b *Block) reindex() {
	b.index = make(map[string]int, len(b.cats))
	for i, c := range b.cats {
		b.index[strings.ToLower(c.Name)] = i
	}
}

// addItem stores a single "_cat.col value" line.
func (b *Block) addItem(name, col, value string) error {
	c := b.Category(name)
	if c == nil {
		b.add(&Category{Name: name, Columns: []string{col}, Rows: [][]string{{value}}})
		return nil
	}
	if c.Loop {
		return fmt.Errorf("%s.%s: item for a category already read as a loop", name, col)
	}
	if c.ColumnIndex(col) != -1 {
		return fmt.Errorf("%s.%s: item given twice", name, col)
	}
	c.Columns = append(c.Columns, col)
	c.Rows[0] = append(c.Rows[0], value)
	return nil
}

// addLoop stores a table read from a loop_.
func (b *Block) addLoop(c *Category) error {
	if b.Category(c.Name) != nil {
		return fmt.Errorf("category %s appears twice in block %s", c.Name, b.Name)
	}
	b.add(c)
	return nil
}

// Category is one table from a block. Every row has one entry per column.
// Rows are not changed once read. Code that filters a category makes a
// new one.
type Category struct {
	Name    string     // "_entity", without the dot
	Columns []string   // "id", "type", ... in file order
	Rows    [][]string // each row has len(Columns) values
	Loop    bool       // false means it was written as key value pairs
}

// ColumnIndex returns the position of col or -1. Case is ignored.
func (c *Category) ColumnIndex(col string) int {
	for i, s := range c.Columns {
		if strings.EqualFold(s, col) {
			return i
		}
	}
	return -1
}

// Value returns the cell at row, col. ok is false if there is no such column.
func (c *Category) Value(row int, col string) (string, bool) {
	i := c.ColumnIndex(col)
	if i == -1 {
		return "", false
	}
	return c.Rows[row][i], true
}

// Len is the number of rows
func (c *Category) Len() int { return len(c.Rows) }

// Tag gives the full name of column i, like "_entity.id".
func (c *Category) Tag(i int) string { return c.Name + "." + c.Columns[i] }

// WithRows returns a category with the same name, columns and style,
// but the given rows.
func (c *Category) WithRows(rows [][]string) *Category {
	cols := make([]string, len(c.Columns))
	copy(cols, c.Columns)
	return &Category{Name: c.Name, Columns: cols, Rows: rows, Loop: c.Loop}
}
