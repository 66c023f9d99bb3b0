// fallscore evaluates the online detector against a calibration artifact:
// one-shot scoring from the command line, or an HTTP scoring service.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"

	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/api"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/config"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/detect"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/fuzzy"
	"github.com/rprecigapuentes/fall-detector-imu-fuzzy-logic/internal/units"
)

var (
	paramsPath = flag.String("params", "fuzzy_params.json", "Calibration artifact to load")
	configPath = flag.String("config", "", "Tuning config JSON (defaults apply when omitted)")
	listen     = flag.String("listen", "", "Listen address for HTTP mode (e.g. :8080); empty for one-shot")
	accel      = flag.Float64("accel", 0, "Acceleration magnitude for one-shot scoring")
	gyro       = flag.Float64("gyro", 0, "Rotation-rate magnitude for one-shot scoring")
	accelUnits = flag.String("accel-units", units.G, "Acceleration units: g or mps2")
	gyroUnits  = flag.String("gyro-units", units.DPS, "Rotation-rate units: dps or radps")
)

func main() {
	flag.Parse()

	if !units.IsValidAccel(*accelUnits) {
		log.Fatalf("invalid -accel-units %q (want g or mps2)", *accelUnits)
	}
	if !units.IsValidGyro(*gyroUnits) {
		log.Fatalf("invalid -gyro-units %q (want dps or radps)", *gyroUnits)
	}

	cfg := config.EmptyTuningConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	ps, err := fuzzy.Load(*paramsPath)
	if err != nil {
		log.Fatalf("failed to load parameters: %v", err)
	}
	eng, err := fuzzy.NewEngine(ps, fuzzy.DefaultRules(), fuzzy.WithResolution(cfg.GetResolution()))
	if err != nil {
		log.Fatalf("failed to build engine: %v", err)
	}
	latch := detect.NewHysteresis(cfg.GetScoreHigh(), cfg.GetScoreLow())

	if *listen != "" {
		srv := api.NewServer(eng, latch, ps)
		log.Printf("scoring service on %s (policy %s, %d windows)", *listen, ps.Policy, ps.Windows)
		log.Fatal(http.ListenAndServe(*listen, api.LoggingMiddleware(srv.ServeMux())))
	}

	a := units.ToG(*accel, *accelUnits)
	g := units.ToDPS(*gyro, *gyroUnits)
	score := eng.Evaluate(a, g)
	fall := latch.Update(score)
	fmt.Printf("accel=%.3fg gyro=%.1fdps score=%.3f fall=%v\n", a, g, score, fall)
}
