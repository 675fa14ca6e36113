package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/term"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/dashboard"
	"github.com/yourusername/geosched/internal/driver"
	"github.com/yourusername/geosched/internal/environment"
	"github.com/yourusername/geosched/internal/evaluator"
	"github.com/yourusername/geosched/internal/inputs"
	"github.com/yourusername/geosched/internal/metrics"
	"github.com/yourusername/geosched/internal/scheduler"
	"github.com/yourusername/geosched/internal/simulator"
	"github.com/yourusername/geosched/internal/store"
)

var (
	scenario         = flag.Int("scenario", 2, "placement/migration policy, 1-6 (§4.F.6)")
	startFlag        = flag.String("start", "", "simulation start, RFC3339 (required)")
	endFlag          = flag.String("end", "", "simulation end, RFC3339 (required)")
	period           = flag.Duration("period", 5*time.Minute, "scheduler tick length")
	forecastPeriods  = flag.Int("forecast-periods", 12, "number of periods the environment can look ahead")
	wSLA             = flag.Float64("w-sla", 0.2, "utility weight: SLA risk")
	wEnergy          = flag.Float64("w-energy", 0.2, "utility weight: migration energy")
	wVMRem           = flag.Float64("w-vm-rem", 0.2, "utility weight: VM remaining lifetime")
	wDCLoad          = flag.Float64("w-dcload", 0.2, "utility weight: current datacenter load")
	wCost            = flag.Float64("w-cost", 0.2, "utility weight: cost-key spread")
	utilityThreshold = flag.Float64("utility-threshold", 0.5, "minimum utility for a migration to fire")
	maxFCHorizon     = flag.Int("max-fc-horizon", 4, "forecast look-ahead cap, in periods")
	weighted         = flag.Bool("weighted", false, "linearly weight the forecast cost key toward nearer periods")
	fixedBandwidth   = flag.Float64("fixed-bandwidth", 1000, "migration bandwidth, Mb/s, absent a per-location override")
	dirtyPageRate    = flag.Float64("dirty-page-rate", 10, "precopy dirty-page rate, MB/s (§4.F.5)")
	alternateCost    = flag.Bool("alternate-cost-model", false, "use the cheapest-forecast migration fallback instead of the utility function")
	pricesInMWh      = flag.Bool("prices-in-mwh", false, "price/forecast series are priced in $/MWh rather than $/kWh")
	seed             = flag.Int64("seed", 1, "PRNG seed for the random-fit scenario and power-noise draw")

	pricesFile      = flag.String("prices", "", "CSV: location,time,value spot price series (required)")
	forecastFile    = flag.String("forecast", "", "CSV: location,time,value forecast price series (required)")
	temperatureFile = flag.String("temperature", "", "CSV: location,time,value ambient temperature series (required)")
	workloadFile    = flag.String("workload", "", "CSV: time,kind,vm_id,ram,cpu,ends_at workload trace (required)")
	infraFile       = flag.String("infra", "", "CSV: id,location,ram,cpu infrastructure definition (required)")

	savePower = flag.String("save-power", "", "write the energy/cost breakdown to this JSON file")
	saveUtil  = flag.String("save-util", "", "write the evaluated penalty scores to this JSON file")
	liveplot  = flag.Bool("liveplot", false, "show a live Bubble Tea progress view when stdout is a terminal")

	metricsAddr = flag.String("metrics-addr", "", "if set, serve Prometheus metrics at this address (e.g. :9090)")
	dbPath      = flag.String("db", "", "if set, cache evaluations and record run results in this SQLite file")
	tempVersion = flag.String("temperature-version", "", "cache-invalidation tag for the temperature series (§9)")

	debug   = flag.Bool("debug", false, "enable debug logging to geosched.log")
	version = flag.Bool("version", false, "print version information and exit")
)

var appVersion = "dev"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("geosched version %s\n", appVersion)
		os.Exit(0)
	}

	if *debug {
		logFile, err := os.OpenFile("geosched.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			log.Fatal("failed to open log file: ", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	cfg, err := buildSchedulerConfig()
	if err != nil {
		fmt.Println("configuration error:", err)
		os.Exit(1)
	}

	start, end, err := parseWindow(*startFlag, *endFlag)
	if err != nil {
		fmt.Println("configuration error:", err)
		os.Exit(1)
	}

	cloud, env, err := loadRun(start, end, *period, *forecastPeriods)
	if err != nil {
		fmt.Println("input error:", err)
		os.Exit(1)
	}

	sch, err := scheduler.New(cfg, *seed)
	if err != nil {
		fmt.Println("configuration error:", err)
		os.Exit(1)
	}

	var m *metrics.Metrics
	if *metricsAddr != "" {
		m = metrics.New()
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", m.Handler())
			log.Printf("metrics: serving on %s", *metricsAddr)
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Printf("metrics: server stopped: %v", err)
			}
		}()
	}

	var db *store.Store
	if *dbPath != "" {
		db, err = store.Open(*dbPath)
		if err != nil {
			fmt.Println("store error:", err)
			os.Exit(1)
		}
		defer db.Close()
	}

	sim := simulator.New(sch)
	if m != nil {
		sim.WithMetrics(m)
	}

	evalCfg := evaluator.DefaultConfig()
	evalCfg.Bandwidth = cfg.Bandwidth
	evalCfg.DirtyPageRate = cfg.DirtyPageRate
	evalCfg.PricesInMWh = *pricesInMWh

	var result evaluator.Result
	if *liveplot && term.IsTerminal(int(os.Stdout.Fd())) {
		res, err := dashboard.Run(sim, cloud, env, scheduler.Scenario(*scenario), evalCfg, *seed)
		if err != nil {
			fmt.Println("dashboard error:", err)
			os.Exit(1)
		}
		if res.Err != nil {
			fmt.Println("evaluation error:", res.Err)
			os.Exit(1)
		}
		result = res.Score
	} else {
		sched := sim.Run(cloud, env)

		if *debug {
			d := driver.NewSimulatedDriver()
			if err := driver.Replay(d, sched); err != nil {
				log.Printf("driver: replay failed: %v", err)
			} else {
				log.Printf("driver: replayed %d events from the committed schedule", len(d.Events()))
			}
		}

		cacheKey := ""
		cacheHit := false
		if db != nil {
			cacheKey = store.CacheKey(*scenario, start, end, *tempVersion)
			if cached, ok, err := db.GetEvaluation(cacheKey); err == nil && ok {
				result, cacheHit = cached, true
			}
		}
		if !cacheHit {
			result, err = evaluator.Evaluate(cloud, env, sched, nil, evalCfg, *seed)
			if err != nil {
				fmt.Println("evaluation error:", err)
				os.Exit(1)
			}
			if db != nil {
				if err := db.PutEvaluation(cacheKey, result); err != nil {
					log.Printf("store: failed to cache evaluation: %v", err)
				}
			}
		}

		if db != nil {
			if _, err := db.RecordRun(*scenario, start, end, result); err != nil {
				log.Printf("store: failed to record run: %v", err)
			}
		}
	}

	printResult(result)

	if *savePower != "" {
		if err := writeJSON(*savePower, result.Energy); err != nil {
			fmt.Println("failed to write -save-power:", err)
			os.Exit(1)
		}
	}
	if *saveUtil != "" {
		if err := writeJSON(*saveUtil, result); err != nil {
			fmt.Println("failed to write -save-util:", err)
			os.Exit(1)
		}
	}
}

func buildSchedulerConfig() (scheduler.Config, error) {
	cfg := scheduler.Config{
		Scenario: scheduler.Scenario(*scenario),
		Weights: scheduler.Weights{
			SLA:    *wSLA,
			Energy: *wEnergy,
			VMRem:  *wVMRem,
			DCLoad: *wDCLoad,
			Cost:   *wCost,
		},
		UtilityThreshold:   *utilityThreshold,
		MaxFCHorizon:       *maxFCHorizon,
		Weighted:           *weighted,
		Bandwidth:          scheduler.Bandwidth{Fixed: *fixedBandwidth},
		DirtyPageRate:      *dirtyPageRate,
		AlternateCostModel: *alternateCost,
	}
	return cfg, cfg.Validate()
}

func parseWindow(startStr, endStr string) (time.Time, time.Time, error) {
	if startStr == "" || endStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("-start and -end are required")
	}
	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("-start: %w", err)
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("-end: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("-end must be after -start")
	}
	return start, end, nil
}

// loadRun reads every required CSV input and assembles the Cloud and
// Environment a Simulator needs to run (§6 Inputs).
func loadRun(start, end time.Time, period time.Duration, forecastPeriods int) (*cloudmodel.Cloud, *environment.Environment, error) {
	for name, path := range map[string]string{
		"-prices": *pricesFile, "-forecast": *forecastFile, "-temperature": *temperatureFile,
		"-workload": *workloadFile, "-infra": *infraFile,
	} {
		if path == "" {
			return nil, nil, fmt.Errorf("%s is required", name)
		}
	}

	servers, err := inputs.ReadInfrastructureFile(*infraFile)
	if err != nil {
		return nil, nil, err
	}
	cloud := cloudmodel.NewCloud(servers)

	env := environment.New(start, end, period, forecastPeriods)

	prices, order, err := inputs.ReadSeriesFileOrdered(*pricesFile)
	if err != nil {
		return nil, nil, err
	}
	for _, loc := range order {
		env.SetPriceSeries(loc, prices[loc])
	}

	forecast, err := inputs.ReadSeriesFile(*forecastFile)
	if err != nil {
		return nil, nil, err
	}
	for loc, s := range forecast {
		env.SetForecastSeries(loc, s)
	}

	temperature, err := inputs.ReadSeriesFile(*temperatureFile)
	if err != nil {
		return nil, nil, err
	}
	for loc, s := range temperature {
		env.SetTemperatureSeries(loc, s)
	}

	requests, endTimes, err := inputs.ReadWorkloadFile(*workloadFile)
	if err != nil {
		return nil, nil, err
	}
	env.SetRequests(requests)
	for vmID, endAt := range endTimes {
		env.SetEndTime(vmID, endAt)
	}

	return cloud, env, nil
}

func printResult(r evaluator.Result) {
	fmt.Printf("IT energy:    %.2f kWh\n", r.Energy.ITEnergyKWh)
	fmt.Printf("IT cost:      $%.2f\n", r.Energy.ITCostUSD)
	fmt.Printf("Total energy: %.2f kWh\n", r.Energy.TotalEnergyKWh)
	fmt.Printf("Total cost:   $%.2f\n", r.Energy.TotalCostUSD)
	fmt.Printf("util penalty:       %.3f\n", r.UtilPenalty)
	fmt.Printf("util-price penalty: %.3f\n", r.UtilPricePenalty)
	fmt.Printf("constraint penalty: %.3f\n", r.ConstraintPenalty)
	fmt.Printf("SLA penalty:        %.3f\n", r.SLAPenalty)
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
