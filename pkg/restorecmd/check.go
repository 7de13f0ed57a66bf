package restorecmd

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/cifrestore/pdb"
	"github.com/andrew-torda/cifrestore/pdb/mmcif"
)

const nReaderDflt = 3

// checkResult is what we found out about one file.
type checkResult struct {
	Path       string `json:"path"`
	Blocks     int    `json:"blocks"`
	Categories int    `json:"categories"`
	Atoms      int    `json:"atoms"`
	Error      string `json:"error,omitempty"`
}

func newCheckCommand(opts *Options) *cobra.Command {
	var nReader int
	cmd := &cobra.Command{
		Use:   "check FILE|DIR...",
		Short: "Read mmCIF files and check they survive being written and read back",
		Long: `Read each file, write it out in memory, read that back and write it
again. The two written copies must be the same. Directories are read one
level down. A file which fails here would not come out of a restore
intact.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts, args, nReader)
		},
	}
	cmd.Flags().IntVarP(&nReader, "readers", "r", nReaderDflt, "number of files read at once")
	return cmd
}

// expand replaces directories by the files in them.
func expand(args []string) ([]string, error) {
	var ret []string
	for _, a := range args {
		fi, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !fi.IsDir() {
			ret = append(ret, a)
			continue
		}
		entries, err := os.ReadDir(a)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if !e.IsDir() {
				ret = append(ret, filepath.Join(a, e.Name()))
			}
		}
	}
	return ret, nil
}

// checkFile reads a file, writes it, reads it back and writes it again.
func checkFile(path string) checkResult {
	res := checkResult{Path: path}
	fail := func(err error) checkResult {
		res.Error = err.Error()
		return res
	}
	doc, err := pdb.ReadDocument(path)
	if err != nil {
		return fail(err)
	}
	res.Blocks = len(doc.Blocks)
	for _, b := range doc.Blocks {
		res.Categories += b.Len()
	}
	if st, err := mmcif.ReadStructure(doc.First()); err == nil {
		res.Atoms = st.NAtoms()
	}
	var first, second bytes.Buffer
	if err := mmcif.Write(&first, doc); err != nil {
		return fail(err)
	}
	again, err := mmcif.Read(bytes.NewReader(first.Bytes()))
	if err != nil {
		return fail(fmt.Errorf("written copy does not read: %w", err))
	}
	if err := mmcif.Write(&second, again); err != nil {
		return fail(err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		return fail(errors.New("written copy changes when read back"))
	}
	return res
}

// checkAll runs checkFile over paths with nReader goroutines. Results
// come back in the order of paths.
func checkAll(paths []string, nReader int) []checkResult {
	nReader = max(nReader, 1)
	ret := make([]checkResult, len(paths))
	jobs := make(chan int)
	var wg sync.WaitGroup
	for i := 0; i < nReader; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				ret[j] = checkFile(paths[j])
			}
		}()
	}
	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return ret
}

func writeChecks(w io.Writer, format string, results []checkResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		var err error
		if r.Error != "" {
			_, err = fmt.Fprintf(w, "%s FAILED %s\n", r.Path, r.Error)
		} else {
			_, err = fmt.Fprintf(w, "%s ok blocks %d categories %d atoms %d\n",
				r.Path, r.Blocks, r.Categories, r.Atoms)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func runCheck(cmd *cobra.Command, opts *Options, args []string, nReader int) error {
	cfg, err := settings(cmd, opts)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg.Log, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "bad log level", err)
	}
	defer closer.Close()

	paths, err := expand(args)
	if err != nil {
		return WrapExitError(ExitCommandError, "cannot check", err)
	}
	log.Info("checking", "files", len(paths), "readers", nReader)
	results := checkAll(paths, nReader)
	nbad := 0
	for _, r := range results {
		if r.Error != "" {
			nbad++
			log.Warn("check failed", "path", r.Path, "error", r.Error)
		} else {
			log.Debug("checked", "path", r.Path, "categories", r.Categories, "atoms", r.Atoms)
		}
	}
	if err := writeChecks(cmd.OutOrStdout(), opts.Format, results); err != nil {
		return WrapExitError(ExitFailure, "failed to write report", err)
	}
	if nbad > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d files failed", nbad, len(results)))
	}
	return nil
}
