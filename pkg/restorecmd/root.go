// Package restorecmd is the command line of mmcif_restore. It reads the
// config, sets up logging, runs the restore and reports on it.
package restorecmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrew-torda/cifrestore/config"
	"github.com/andrew-torda/cifrestore/pdb"
	"github.com/andrew-torda/cifrestore/pdb/mmcif"
	"github.com/andrew-torda/cifrestore/restore"
)

// Options holds the flags.
type Options struct {
	ConfigPath string
	Verbose    bool
	LogFile    string
	Format     string // "text" | "json"
	Output     string
	Categories []string
	Fetch      bool // REFERENCE is a PDB code
	Site       int
}

// ValidFormats for the report.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the mmcif_restore command.
func NewRootCommand() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "mmcif_restore EDITED REFERENCE",
		Short: "Restore mmCIF categories lost when a structure was edited",
		Long: `Copy categories from a reference mmCIF file into an edited one.

Rows of the reference are kept only if the entities, chains, residues
and atoms they mention are still in the edited _atom_site. Categories
which depend on others, like _entity_poly on _entity, are narrowed
to what survives in their parent.

Example:
  mmcif_restore edited.cif 1abc.cif.gz -o fixed.cif -c _entity.,_struct_conn.
  mmcif_restore edited.cif 1abc --fetch -o fixed.cif.gz -c _struct_asym`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRestore(cmd, opts, args[0], args[1])
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.ConfigPath, "config", "", "config file (default: .mmcif_restore.toml or ~/.config/mmcif_restore/config.toml)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&opts.LogFile, "log-file", "", `where logs go: a file, "stdout" or empty for stderr`)
	pf.StringVar(&opts.Format, "format", "text", "report format (json|text)")

	f := cmd.Flags()
	f.StringVarP(&opts.Output, "output", "o", "", "output mmCIF file, gzipped if it ends in .gz (required)")
	f.StringSliceVarP(&opts.Categories, "categories", "c", nil, "categories to restore, comma separated")
	f.BoolVar(&opts.Fetch, "fetch", false, "REFERENCE is a PDB code, download it")
	f.IntVar(&opts.Site, "site", 0, "mirror to download from with --fetch")

	cmd.AddCommand(newCategoriesCommand(opts))
	cmd.AddCommand(newCheckCommand(opts))
	return cmd
}

// settings merges the config file, environment and flags. Flags win.
func settings(cmd *cobra.Command, opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Log.File = opts.LogFile
	}
	if len(opts.Categories) > 0 {
		cfg.Restore.Categories = opts.Categories
	}
	if cmd.Flags().Changed("site") {
		cfg.Fetch.Site = opts.Site
	}
	if warnings := config.Validate(cfg); len(warnings) > 0 {
		return nil, WrapExitError(ExitCommandError, "bad config", errors.New(warnings[0]))
	}
	return cfg, nil
}

// checkArgs does the checks that need no file to be read.
func checkArgs(opts *Options, cats []string) error {
	if len(cats) == 0 {
		return NewExitError(ExitCommandError, "no categories given, use -c or set [restore] categories")
	}
	if opts.Output == "" {
		return NewExitError(ExitCommandError, "no output file given, use -o")
	}
	dir := filepath.Dir(opts.Output)
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		return NewExitError(ExitCommandError, fmt.Sprintf("output directory %s does not exist", dir))
	}
	return nil
}

// readReference reads the reference from a file or, with --fetch, from
// a PDB mirror.
func readReference(ctx context.Context, cfg *config.Config, opts *Options, ref string, log *slog.Logger) (*mmcif.Document, error) {
	if !opts.Fetch {
		return pdb.ReadDocument(ref)
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Fetch.TimeoutSecs)*time.Second)
	defer cancel()
	log.Info("fetching reference", "code", ref, "site", cfg.Fetch.Site)
	return pdb.FetchDocument(ctx, ref, cfg.Fetch.Site)
}

func runRestore(cmd *cobra.Command, opts *Options, edited, ref string) error {
	cfg, err := settings(cmd, opts)
	if err != nil {
		return err
	}
	log, closer, err := newLogger(cfg.Log, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return WrapExitError(ExitCommandError, "bad log level", err)
	}
	defer closer.Close()

	cats := cfg.Restore.Categories
	if err := checkArgs(opts, cats); err != nil {
		return err
	}
	steps, err := restore.Plan(cats)
	if err != nil {
		newReport(edited, ref, restore.UnsupportedResults(err)).write(cmd.OutOrStdout(), opts.Format)
		return WrapExitError(ExitCommandError, "refusing request", err)
	}
	for _, s := range steps {
		log.Debug("planned", "category", s.Rule.Name, "kind", s.Rule.Kind, "emit", s.Emit)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	log.Info("reading edited", "path", edited)
	eDoc, err := pdb.ReadDocument(edited)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read edited CIF", err)
	}
	log.Info("reading reference", "source", ref)
	rDoc, err := readReference(parentCtx, cfg, opts, ref, log)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read reference CIF", err)
	}

	out, err := restore.Restore(eDoc, rDoc, cats)
	if err != nil {
		return WrapExitError(ExitFailure, "restore failed", err)
	}
	log.Debug("edited structure", "entities", out.Keys.Entities(), "chains", out.Keys.Chains())
	for _, r := range out.Results {
		attrs := []any{"category", r.Category, "status", r.Status, "kept", r.Kept, "dropped", r.Dropped}
		if r.Err != nil {
			log.Warn("category failed", append(attrs, "error", r.Err)...)
			continue
		}
		log.Info("category", attrs...)
	}

	if err := pdb.WriteDocument(opts.Output, out.Doc); err != nil {
		return WrapExitError(ExitFailure, "failed to write output", err)
	}
	log.Info("wrote output", "path", opts.Output)

	rep := newReport(edited, ref, out.Results)
	rep.Output = opts.Output
	if err := rep.write(cmd.OutOrStdout(), opts.Format); err != nil {
		return WrapExitError(ExitFailure, "failed to write report", err)
	}
	if n := rep.failed(); n > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d categories could not be restored", n))
	}
	return nil
}

// MyMain runs the command with args and returns the exit code.
func MyMain(args []string, stdout, stderr io.Writer) int {
	if args == nil {
		args = []string{} // nil makes cobra read os.Args
	}
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "mmcif_restore:", err)
	}
	return GetExitCode(err)
}
