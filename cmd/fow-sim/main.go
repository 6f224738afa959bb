// Command fow-sim runs a random skirmish through the visibility engine. It
// can render the final state, persist it to a scene database and serve the
// monitor API while the simulation keeps running.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"gonum.org/v1/plot/vg"

	"github.com/banshee-data/fogofwar/internal/config"
	"github.com/banshee-data/fogofwar/internal/fow"
	"github.com/banshee-data/fogofwar/internal/fow/monitor"
	"github.com/banshee-data/fogofwar/internal/fow/storage/sqlite"
	"github.com/banshee-data/fogofwar/internal/fsutil"
	"github.com/banshee-data/fogofwar/internal/security"
	"github.com/banshee-data/fogofwar/internal/timeutil"
	"github.com/banshee-data/fogofwar/internal/version"
)

func main() {
	sc := defaultScenario()

	configPath := flag.String("config", "", "Tuning config file (.json or .yaml); defaults to "+config.DefaultConfigPath)
	frames := flag.Int("frames", 100, "Number of frames to simulate")
	dt := flag.Float64("dt", 0.1, "Seconds per frame")
	flag.Float64Var(&sc.WorldSize, "world", sc.WorldSize, "World edge length")
	flag.IntVar(&sc.Teams, "teams", sc.Teams, "Number of teams")
	flag.IntVar(&sc.Viewers, "viewers", sc.Viewers, "Viewers per team")
	flag.IntVar(&sc.Occluders, "occluders", sc.Occluders, "Radius occluders")
	flag.IntVar(&sc.Walls, "walls", sc.Walls, "Tri-soup walls")
	flag.Float64Var(&sc.ViewRadius, "radius", sc.ViewRadius, "Viewer vision radius")
	flag.Uint64Var(&sc.Seed, "seed", sc.Seed, "Random seed")
	pngOut := flag.String("png", "", "Write the final debug overlay to this PNG file")
	heatmapOut := flag.String("heatmap", "", "Write the final visibility heatmap to this HTML file")
	heatmapTeam := flag.Int("heatmap-team", 0, "Team drawn in the heatmap and grid overlay")
	dbPath := flag.String("db", "", "Scene database; the final state is saved when set")
	sceneName := flag.String("scene-name", "fow-sim", "Name of the saved scene")
	restoreID := flag.String("restore", "", "Load this scene id from -db instead of generating one")
	listen := flag.String("listen", "", "Serve the monitor API on this address and keep simulating until interrupted")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("fow-sim", version.String())
		return
	}
	for _, out := range []string{*pngOut, *heatmapOut} {
		if out == "" {
			continue
		}
		if err := security.ValidateOutputPath(out); err != nil {
			log.Fatalf("invalid output path: %v", err)
		}
	}

	tuning, err := loadTuning(*configPath)
	if err != nil {
		log.Fatalf("failed to load tuning config: %v", err)
	}
	f, err := fow.New(fow.ConfigFromTuning(tuning))
	if err != nil {
		log.Fatalf("invalid engine config: %v", err)
	}

	var store *sqlite.SceneStore
	if *dbPath != "" {
		db, err := sqlite.Open(*dbPath)
		if err != nil {
			log.Fatalf("failed to open scene database: %v", err)
		}
		defer db.Close()
		store = sqlite.NewSceneStore(db.DB)
	}

	sim := &simulation{}
	if *restoreID != "" {
		if store == nil {
			log.Fatal("-restore requires -db")
		}
		stored, err := store.GetScene(*restoreID)
		if err != nil {
			log.Fatalf("failed to load scene: %v", err)
		}
		if err := sqlite.Restore(f, stored); err != nil {
			log.Fatalf("failed to restore scene: %v", err)
		}
		log.Printf("restored scene %s (%s)", stored.SceneID, stored.Name)
	} else if sim, err = populate(f, sc); err != nil {
		log.Fatalf("failed to build scenario: %v", err)
	}

	f.SetDebugVisibility(fow.DebugAll)
	if err := f.SetDebugTeam(*heatmapTeam); err != nil {
		log.Fatalf("invalid -heatmap-team: %v", err)
	}
	src := monitor.NewEngineSource(f)
	fsys := fsutil.OSFileSystem{}

	if err := run(src, sim, *frames, *dt); err != nil {
		log.Fatalf("simulation failed: %v", err)
	}
	src.Do(func(f *fow.FoW) { f.PrintStats() })

	if *pngOut != "" {
		if err := writeOutput(fsys, *pngOut, func(w io.Writer) error {
			return monitor.RenderDebugFrame(w, src.DebugFrame(), 10*vg.Inch, 10*vg.Inch)
		}); err != nil {
			log.Fatalf("failed to write png: %v", err)
		}
		log.Printf("wrote %s", *pngOut)
	}
	if *heatmapOut != "" {
		snap, err := src.TeamGrid(*heatmapTeam)
		if err != nil {
			log.Fatalf("failed to read team grid: %v", err)
		}
		if err := writeOutput(fsys, *heatmapOut, func(w io.Writer) error {
			return monitor.RenderDegreeHeatmap(w, snap)
		}); err != nil {
			log.Fatalf("failed to write heatmap: %v", err)
		}
		log.Printf("wrote %s", *heatmapOut)
	}
	if store != nil {
		var saved *sqlite.Scene
		src.Do(func(f *fow.FoW) { saved, err = sqlite.Snapshot(f, *sceneName, "") })
		if err != nil {
			log.Fatalf("failed to snapshot scene: %v", err)
		}
		if err := store.InsertScene(saved); err != nil {
			log.Fatalf("failed to save scene: %v", err)
		}
		log.Printf("saved scene %s", saved.SceneID)
	}

	if *listen != "" {
		serve(src, sim, *listen, *dt, timeutil.RealClock{})
	}
}

func loadTuning(path string) (*config.TuningConfig, error) {
	if path == "" {
		return config.MustLoadDefaultConfig(), nil
	}
	return config.LoadTuningConfig(path)
}

// run advances the simulation frames times.
func run(src *monitor.EngineSource, sim *simulation, frames int, dt float64) error {
	var err error
	for i := 0; i < frames && err == nil; i++ {
		src.Do(func(f *fow.FoW) {
			if err = sim.step(f, dt); err != nil {
				return
			}
			st := f.SolveVisibility(dt)
			if sim.frame%25 == 0 {
				log.Printf("frame %d: %d dirty viewers solved in %s", sim.frame, st.DirtyViewers, st.Duration)
			}
			sim.frame++
		})
	}
	return err
}

// serve runs the monitor API and keeps simulating in real time until
// SIGINT or SIGTERM.
func serve(src *monitor.EngineSource, sim *simulation, addr string, dt float64, clock timeutil.Clock) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:         addr,
		Handler:      monitor.NewRouter(src),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	go func() {
		log.Printf("monitor listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("monitor server error: %v", err)
			stop()
		}
	}()

	ticker := clock.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()
	if err := simulateLoop(ctx, ticker, src, sim, dt); err != nil {
		log.Printf("simulation step failed: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("monitor shutdown error: %v", err)
	}
	log.Printf("monitor stopped")
}

// simulateLoop steps one frame per tick until ctx is done or a step fails.
func simulateLoop(ctx context.Context, ticker timeutil.Ticker, src *monitor.EngineSource, sim *simulation, dt float64) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C():
			if err := run(src, sim, 1, dt); err != nil {
				return err
			}
		}
	}
}

// writeOutput creates path, including missing parent directories, and
// hands the file to fn.
func writeOutput(fsys fsutil.FileSystem, path string, fn func(w io.Writer) error) error {
	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", path, err)
	}
	w, err := fsys.Create(path)
	if err != nil {
		return err
	}
	if err := fn(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
