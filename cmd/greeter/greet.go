package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/skufinskiy/itnelep-tools/pkg/archive"
	"github.com/skufinskiy/itnelep-tools/pkg/export"
	"github.com/skufinskiy/itnelep-tools/pkg/ingest"
	"github.com/skufinskiy/itnelep-tools/pkg/morph"
	"github.com/skufinskiy/itnelep-tools/pkg/pipeline"
	"github.com/skufinskiy/itnelep-tools/pkg/textnorm"
)

// inputFlags select where notes and leaders come from.
type inputFlags struct {
	source   string
	from     string
	encoding string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "dir", "input source: html or dir")
	cmd.Flags().StringVar(&f.from, "from", ".", "page file, URL or directory to read")
	cmd.Flags().StringVar(&f.encoding, "encoding", "", "input encoding (default ingest.encoding)")
}

func (f *inputFlags) fetch(ctx context.Context, a *app) (*ingest.Snapshot, error) {
	enc := f.encoding
	if enc == "" {
		enc = a.cfg.Ingest.Encoding
	}
	snap, err := ingest.Fetch(ctx, f.source, f.from, ingest.Options{
		Encoding: enc,
		Retries:  a.cfg.Ingest.Retries,
		Timeout:  a.cfg.Ingest.Timeout,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Debug("input read",
		zap.String("source", snap.Source),
		zap.String("origin", snap.Origin),
		zap.Int("leaders", len(snap.Leaders)))
	return snap, nil
}

var greetFlags struct {
	input     inputFlags
	org       string
	gcase     string
	format    string
	picks     []string
	positions []string
	only      []int
	xlsx      string
	text      bool
	asJSON    bool
	archive   bool
}

var greetCmd = &cobra.Command{
	Use:   "greet",
	Short: "Compose greetings for every leader",
	Long: `Read notes and leader labels, resolve each leader to a person from the
notes and print five greetings per resolved leader.

Leaders are numbered from 1. --pick and --position take N=VALUE and can be
repeated; --pick N=@label uses the name on the leader's own label for people
missing from the notes. Positions are remembered in the history file once
the greetings are composed.

Examples:
  greeter greet --from ./acme --org "ООО Ромашка"
  greeter greet --source html --from https://crm.local/company/42 --case dative --format short
  greeter greet --from ./acme --pick 3="Иванов Олег Ильич" --position 3="Начальник отдела снабжения"`,
	Args: cobra.NoArgs,
	RunE: runGreet,
}

func init() {
	f := greetCmd.Flags()
	greetFlags.input.register(greetCmd)
	f.StringVar(&greetFlags.org, "org", "", "organization name (default defaults.organization)")
	f.StringVar(&greetFlags.gcase, "case", "", "name case: nominative, dative, genitive")
	f.StringVar(&greetFlags.format, "format", "", "name format: full, last-first, short")
	f.StringArrayVar(&greetFlags.picks, "pick", nil, "N=NAME assigns a person from the notes to leader N (N=@label uses the label's name)")
	f.StringArrayVar(&greetFlags.positions, "position", nil, "N=POSITION sets leader N's position")
	f.IntSliceVar(&greetFlags.only, "only", nil, "compose only these leaders")
	f.StringVar(&greetFlags.xlsx, "xlsx", "", "also write an XLSX workbook")
	f.BoolVar(&greetFlags.text, "text", false, "print plain copyable text")
	f.BoolVar(&greetFlags.asJSON, "json", false, "print JSON")
	f.BoolVar(&greetFlags.archive, "archive", false, "record the run in the archive")
}

func runGreet(cmd *cobra.Command, _ []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	snap, err := greetFlags.input.fetch(ctx, a)
	if err != nil {
		return err
	}
	opts, err := composeOptions(a, greetFlags.org, greetFlags.gcase, greetFlags.format)
	if err != nil {
		return err
	}
	for _, n := range greetFlags.only {
		opts.Only = append(opts.Only, n-1)
	}
	positions, err := parseIndexed(greetFlags.positions)
	if err != nil {
		return fmt.Errorf("--position: %w", err)
	}

	sess := a.engine.LoadCards(snap.Notes, snap.Leaders, snap.Backups)
	if err := applyPicks(sess, greetFlags.picks); err != nil {
		return err
	}
	for _, i := range sortedKeys(positions) {
		if err := sess.SetPosition(i, positions[i]); err != nil {
			return fmt.Errorf("--position %d: %w", i+1, err)
		}
	}
	results, err := sess.Compose(opts)
	if err != nil {
		return err
	}

	if greetFlags.xlsx != "" {
		if err := export.SaveXLSX(greetFlags.xlsx, results); err != nil {
			return err
		}
		a.logger.Info("workbook written", zap.String("path", greetFlags.xlsx))
	}
	if greetFlags.archive || a.cfg.Archive.Enabled {
		if err := archiveRun(a, snap, opts, results); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	switch {
	case greetFlags.asJSON:
		enc := json.NewEncoder(out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"leaders": sess.Leaders(), "results": results})
	case greetFlags.text:
		return export.WriteText(out, results)
	default:
		writeCards(out, sess, results)
	}
	return nil
}

func archiveRun(a *app, snap *ingest.Snapshot, opts pipeline.Options, results []pipeline.Result) error {
	store, err := a.openArchive(true)
	if err != nil {
		return err
	}
	defer store.Close()
	run, err := store.Record(archive.Meta{
		Source:       snap.Source + ":" + snap.Origin,
		Organization: opts.Organization,
		Case:         opts.Case.String(),
		Format:       opts.Format.String(),
	}, results)
	if err != nil {
		return err
	}
	a.logger.Info("run archived", zap.String("run", run.ID), zap.Int("composed", run.Composed))
	return nil
}

func composeOptions(a *app, org, gcase, format string) (pipeline.Options, error) {
	opts := pipeline.Options{Organization: org}
	if opts.Organization == "" {
		opts.Organization = a.cfg.Defaults.Organization
	}
	if gcase == "" {
		gcase = a.cfg.Defaults.Case
	}
	c, err := morph.ParseCase(gcase)
	if err != nil {
		return opts, err
	}
	opts.Case = c
	if format == "" {
		format = a.cfg.Defaults.Format
	}
	f, err := textnorm.ParseNameFormat(format)
	if err != nil {
		return opts, err
	}
	opts.Format = f
	return opts, nil
}

// applyPicks assigns people by exact name, falling back to the closest
// fuzzy match; N=@label uses the name on the leader's own label.
func applyPicks(sess *pipeline.Session, raw []string) error {
	picks, err := parseIndexed(raw)
	if err != nil {
		return fmt.Errorf("--pick: %w", err)
	}
	for _, i := range sortedKeys(picks) {
		if err := sess.Assign(i, picks[i]); err != nil {
			return fmt.Errorf("--pick %d: %w", i+1, err)
		}
	}
	return nil
}

func sortedKeys(m map[int]string) []int {
	out := make([]int, 0, len(m))
	for i := range m {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// parseIndexed parses N=VALUE pairs with 1-based N into a 0-based map.
func parseIndexed(raw []string) (map[int]string, error) {
	out := make(map[int]string, len(raw))
	for _, kv := range raw {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("%q is not N=VALUE", kv)
		}
		n, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("%q: leader number must be a positive integer", kv)
		}
		out[n-1] = strings.TrimSpace(v)
	}
	return out, nil
}
