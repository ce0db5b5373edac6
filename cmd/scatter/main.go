// scatter is a CLI for placing props around a pointer on scene geometry.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"go.uber.org/zap"

	"github.com/Faultbox/propscatter/internal/batch"
	"github.com/Faultbox/propscatter/internal/commit"
	"github.com/Faultbox/propscatter/internal/config"
	"github.com/Faultbox/propscatter/internal/logger"
	"github.com/Faultbox/propscatter/internal/prefab"
	"github.com/Faultbox/propscatter/internal/scatter"
	"github.com/Faultbox/propscatter/internal/scene"
	"github.com/Faultbox/propscatter/internal/surface"
)

// env is everything a command needs, built once from the config.
type env struct {
	cfg      *config.Config
	world    *surface.World
	catalog  *prefab.Catalog
	settings scatter.Settings
}

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	switch command {
	case "place":
		run(cfg, cmdPlace)
	case "commit":
		run(cfg, cmdCommit)
	case "outline":
		run(cfg, cmdOutline)
	case "batch":
		run(cfg, cmdBatch)
	case "save":
		if err := cmdSave(args[1:], cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	case "history":
		if err := cmdHistory(args[1:], cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`scatter - surface prop placement

Usage:
  scatter [flags] <command> [args]

Commands:
  place              Run one pass at the pointer and list placements
  commit             Run one pass and append valid placements to the journal
  outline            Print the region outline at the pointer
  batch              Run and append every configured anchor to the journal
  history [journal]  List committed groups
  save [path]        Write the effective config (default user config file)

Commits append to the journal. Each pass is seeded with seed plus the number
of groups already in the journal, so repeated commits place new props.

Flags:
  -config <path>   Config file (default ./propscatter.yaml or user config dir)
  -scene <path>    Scene file (default flat ground plane)
  -radius <r>      Placement radius
  -count <n>       Number of samples
  -seed <n>        Random seed
  -out <path>      Journal output path
  -debug           Enable debug logging

Examples:
  scatter -scene courtyard.yaml -radius 4 place
  scatter -count 32 -out props.yaml commit
  scatter -config batch.yaml batch`)
}

// run builds the environment and runs cmd, exiting on error.
func run(cfg *config.Config, cmd func(*env) error) {
	e, err := newEnv(cfg)
	if err == nil {
		err = cmd(e)
	}
	if err != nil {
		logger.Error("command failed", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Sync()
		os.Exit(1)
	}
}

func newEnv(cfg *config.Config) (*env, error) {
	sc := scene.Default()
	if cfg.Scene.Path != "" {
		var err error
		if sc, err = scene.Load(cfg.Scene.Path); err != nil {
			return nil, err
		}
	}

	world, err := sc.World()
	if err != nil {
		return nil, err
	}
	catalog, err := sc.Catalog()
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings()
	if settings.PrefabPool, err = catalog.Pool(cfg.Placement.PrefabPool); err != nil {
		return nil, err
	}

	logger.Info("scene ready",
		zap.String("scene", cfg.Scene.Path),
		zap.Int("colliders", world.Len()),
		zap.Int("prefabs", catalog.Len()),
		zap.Float32("radius", settings.Radius),
		zap.Int("samples", settings.SampleCount))

	return &env{cfg: cfg, world: world, catalog: catalog, settings: settings}, nil
}

func (e *env) tool(seed uint64) *scatter.Tool {
	return scatter.NewTool(e.world, e.catalog, scatter.NewSampler(seed), e.settings)
}

// nextSeed offsets the configured seed by the groups already in journal, so
// each commit samples a fresh batch.
func (e *env) nextSeed(journal *commit.Journal) uint64 {
	return e.cfg.Placement.Seed + uint64(journal.Len())
}

func cmdPlace(e *env) error {
	res := e.tool(e.cfg.Placement.Seed).Pass(e.cfg.PointerRay())
	if !res.OK {
		fmt.Println("Pointer is not over a usable surface")
		return nil
	}

	printFrame(res)
	fmt.Printf("\n%-4s %-16s %-30s %s\n", "#", "PREFAB", "POSITION", "STATUS")
	for i, p := range res.Placements {
		status := "ok"
		if !p.Valid {
			status = "blocked"
		}
		fmt.Printf("%-4d %-16s (%8.3f %8.3f %8.3f)   %s\n",
			i, displayID(p.Sample.PrefabID), p.Position.X, p.Position.Y, p.Position.Z, status)
	}
	fmt.Printf("\n%d placements, %d valid\n", len(res.Placements), len(scatter.ValidOnly(res.Placements)))
	return nil
}

func cmdCommit(e *env) error {
	journal, err := commit.LoadJournal(e.cfg.Output.Journal)
	if err != nil {
		return err
	}

	tool := e.tool(e.nextSeed(journal))
	res := tool.Pass(e.cfg.PointerRay())
	if !res.OK {
		fmt.Println("Pointer is not over a usable surface, nothing committed")
		return nil
	}

	n, err := tool.Commit(journal.Labeled(e.cfg.Output.Label), res.Placements)
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Println("No valid placements, nothing committed")
		return nil
	}
	if err := journal.SaveTo(e.cfg.Output.Journal); err != nil {
		return err
	}

	g, _ := journal.Last()
	fmt.Printf("Committed %d instances as %q (%s) to %s, %d groups total\n",
		n, g.Label, g.ID, e.cfg.Output.Journal, journal.Len())
	return nil
}

func cmdOutline(e *env) error {
	res := e.tool(e.cfg.Placement.Seed).Pass(e.cfg.PointerRay())
	if !res.OK {
		fmt.Println("Pointer is not over a usable surface")
		return nil
	}
	if len(res.Outline) == 0 {
		fmt.Println("Outline disabled (outline_segments is 0)")
		return nil
	}
	for _, p := range res.Outline {
		fmt.Printf("%.4f %.4f %.4f\n", p.X, p.Y, p.Z)
	}
	return nil
}

func cmdBatch(e *env) error {
	jobs := e.cfg.Jobs()
	if len(jobs) == 0 {
		return errors.New("no batch anchors configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	journal, err := commit.LoadJournal(e.cfg.Output.Journal)
	if err != nil {
		return err
	}
	before := journal.Len()

	runner := &batch.Runner{
		Query:      e.world,
		Clearances: e.catalog,
		Settings:   e.settings,
		Seed:       e.nextSeed(journal),
		Workers:    e.cfg.Batch.Workers,
		Committer: func(job batch.Job) scatter.Committer {
			return journal.Labeled(e.cfg.Output.Label + ": " + job.Name)
		},
	}

	results, err := runner.Run(ctx, jobs)
	if err != nil {
		return err
	}

	total := 0
	fmt.Printf("%-20s %-8s %-12s %s\n", "ANCHOR", "HIT", "PLACEMENTS", "COMMITTED")
	for _, r := range results {
		fmt.Printf("%-20s %-8t %-12d %d\n", r.Job.Name, r.Pass.OK, len(r.Pass.Placements), r.Committed)
		total += r.Committed
	}

	added := journal.Len() - before
	if added == 0 {
		fmt.Println("\nNothing committed")
		return nil
	}
	if err := journal.SaveTo(e.cfg.Output.Journal); err != nil {
		return err
	}
	fmt.Printf("\n%d instances in %d groups appended to %s\n", total, added, e.cfg.Output.Journal)
	return nil
}

func cmdSave(args []string, cfg *config.Config) error {
	if len(args) > 0 {
		if err := cfg.SaveTo(args[0]); err != nil {
			return err
		}
		fmt.Printf("Config written to %s\n", args[0])
		return nil
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Printf("Config written to %s\n", config.UserFile())
	return nil
}

func cmdHistory(args []string, cfg *config.Config) error {
	path := cfg.Output.Journal
	if len(args) > 0 {
		path = args[0]
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	groups, err := commit.ReadGroups(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	fmt.Printf("%-36s %-24s %-20s %s\n", "GROUP", "LABEL", "TIME", "INSTANCES")
	for _, g := range groups {
		fmt.Printf("%-36s %-24s %-20s %d\n", g.ID, g.Label, g.Time.Format("2006-01-02 15:04:05"), len(g.Instances))
	}
	return nil
}

func printFrame(res scatter.PassResult) {
	f := res.Frame
	fmt.Printf("Anchor:  (%.3f %.3f %.3f) at distance %.3f\n",
		res.Anchor.Point.X, res.Anchor.Point.Y, res.Anchor.Point.Z, res.Anchor.Distance)
	fmt.Printf("Normal:  (%.3f %.3f %.3f)\n", f.Normal.X, f.Normal.Y, f.Normal.Z)
	fmt.Printf("Tangent: (%.3f %.3f %.3f)\n", f.Tangent.X, f.Tangent.Y, f.Tangent.Z)
	if f.Fallback {
		fmt.Println("Reference up is parallel to the normal; using a fallback axis")
	}
}

func displayID(id string) string {
	if id == "" {
		return "-"
	}
	return id
}
