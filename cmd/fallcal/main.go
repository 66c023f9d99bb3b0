// fallcal runs the offline calibration pipeline: a labeled IMU recording
// in, a fuzzy parameter artifact (plus optional features CSV, report, and
// charts) out. Runs recorded with -db can be read back with -list and
// -show.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/calib"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/config"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/db"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/imu"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/report"
)

var (
	input       = flag.String("input", "", "Labeled IMU recording (CSV)")
	out         = flag.String("out", "fuzzy_params.json", "Parameter artifact output path")
	featuresCSV = flag.String("features", "", "Optional window-features CSV output path")
	reportPath  = flag.String("report", "", "Optional text report output path")
	htmlPath    = flag.String("html", "", "Optional HTML membership chart output path")
	plotDir     = flag.String("plots", "", "Optional directory for PNG membership plots")
	configPath  = flag.String("config", "", "Tuning config JSON (defaults apply when omitted)")
	policy      = flag.String("policy", "", "Partition policy override: quartile or threshold")
	dbPath      = flag.String("db", "", "Optional sqlite database to record the run in")
	listRuns    = flag.Bool("list", false, "List recorded calibration runs and exit (requires -db)")
	showRun     = flag.String("show", "", "Print one recorded run and its windows, then exit (requires -db)")
)

// listRunLimit caps -list output; older runs stay queryable by id.
const listRunLimit = 50

func main() {
	flag.Parse()

	if *listRuns || *showRun != "" {
		inspectStore()
		return
	}

	if *input == "" {
		log.Fatal("-input is required")
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	opts := calib.OptionsFromConfig(cfg)
	if *policy != "" {
		opts.Policy = fuzzy.Policy(*policy)
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open recording: %v", err)
	}
	samples, err := imu.ReadLog(f)
	f.Close()
	if err != nil {
		log.Fatalf("failed to read recording: %v", err)
	}

	res, err := calib.Run(samples, opts)
	if err != nil {
		log.Fatalf("calibration failed: %v", err)
	}

	if err := res.Params.Save(*out); err != nil {
		log.Fatalf("failed to save parameters: %v", err)
	}
	log.Printf("wrote %s (%d windows, policy %s)", *out, res.Params.Windows, res.Params.Policy)

	if *featuresCSV != "" {
		writeFile(*featuresCSV, func(w *os.File) error {
			return calib.WriteFeaturesCSV(w, res.Features)
		})
	}
	if *reportPath != "" {
		writeFile(*reportPath, func(w *os.File) error {
			return report.WriteText(w, res)
		})
	}
	if *htmlPath != "" {
		writeFile(*htmlPath, func(w *os.File) error {
			return report.RenderMembershipHTML(w, res.Params)
		})
	}
	if *plotDir != "" {
		if err := report.SaveMembershipPlots(*plotDir, res.Params); err != nil {
			log.Fatalf("failed to save plots: %v", err)
		}
		log.Printf("wrote membership plots to %s", *plotDir)
	}

	if *dbPath != "" {
		store, err := db.NewDB(*dbPath)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}
		defer store.Close()
		if err := store.MigrateUp(); err != nil {
			log.Fatalf("failed to migrate database: %v", err)
		}
		id, err := store.SaveResult(*input, res)
		if err != nil {
			log.Fatalf("failed to record run: %v", err)
		}
		log.Printf("recorded calibration run %s", id)
	}
}

// inspectStore serves -list and -show against the recorded runs.
func inspectStore() {
	if *dbPath == "" {
		log.Fatal("-db is required with -list or -show")
	}
	store, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer store.Close()
	if err := store.MigrateUp(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	if *listRuns {
		runs, err := store.ListRuns(listRunLimit)
		if err != nil {
			log.Fatalf("failed to list runs: %v", err)
		}
		if err := report.WriteRunList(os.Stdout, runs); err != nil {
			log.Fatalf("failed to write run list: %v", err)
		}
	}
	if *showRun != "" {
		run, err := store.GetRun(*showRun)
		if err != nil {
			log.Fatalf("failed to fetch run: %v", err)
		}
		windows, err := store.GetWindows(run.ID)
		if err != nil {
			log.Fatalf("failed to fetch windows: %v", err)
		}
		if err := report.WriteRunDetail(os.Stdout, run, windows); err != nil {
			log.Fatalf("failed to write run detail: %v", err)
		}
	}
}

func writeFile(path string, fn func(*os.File) error) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("failed to create %s: %v", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		log.Fatalf("failed to write %s: %v", path, err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("failed to close %s: %v", path, err)
	}
	log.Printf("wrote %s", path)
}
