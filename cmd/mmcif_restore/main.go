// mmcif_restore puts back mmCIF categories which were lost when a
// structure was edited, using the original entry as the reference.
// Only rows which still refer to something in the edited structure
// are kept.
//
//	mmcif_restore edited.cif reference.cif -o out.cif -c _entity.,_struct_conn.
//	mmcif_restore categories
package main

import (
	"os"

	"github.com/andrew-torda/cifrestore/pkg/restorecmd"
)

func main() {
	os.Exit(restorecmd.MyMain(os.Args[1:], os.Stdout, os.Stderr))
}
