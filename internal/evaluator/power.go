package evaluator

import (
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/geosched/internal/cloudmodel"
	"github.com/yourusername/geosched/internal/environment"
	"gonum.org/v1/gonum/stat/distuv"
)

// EnergyReport is the energy/cost breakdown §6 wants in the results
// record: IT load alone, and IT load after the cooling overhead (pPUE) is
// applied, each in both energy and cost terms.
type EnergyReport struct {
	ITEnergyKWh    float64
	ITCostUSD      float64
	TotalEnergyKWh float64
	TotalCostUSD   float64

	MigrationEnergyKWh float64
	MigrationCostUSD   float64
}

func (r EnergyReport) add(o EnergyReport) EnergyReport {
	return EnergyReport{
		ITEnergyKWh:         r.ITEnergyKWh + o.ITEnergyKWh,
		ITCostUSD:           r.ITCostUSD + o.ITCostUSD,
		TotalEnergyKWh:      r.TotalEnergyKWh + o.TotalEnergyKWh,
		TotalCostUSD:        r.TotalCostUSD + o.TotalCostUSD,
		MigrationEnergyKWh:  r.MigrationEnergyKWh + o.MigrationEnergyKWh,
		MigrationCostUSD:    r.MigrationCostUSD + o.MigrationCostUSD,
	}
}

// priceAtKWh converts env's raw price observation to $/kWh.
func priceAtKWh(env *environment.Environment, loc string, t time.Time, inMWh bool) (float64, error) {
	p, err := env.Price(loc, t)
	if err != nil {
		return 0, err
	}
	if inMWh {
		return p / 1000, nil
	}
	return p, nil
}

// powerAndCost produces the IT/total energy+cost report by sampling every
// server's synthetic power signal (§4.G) at cfg.SampleInterval across
// [from, to]. Each server's signal depends only on its own utilisation
// sample trace, so servers are evaluated concurrently (§5: "may
// parallelize independent replays... within the evaluator").
func powerAndCost(servers []cloudmodel.Server, samples []utilSample, env *environment.Environment, from, to time.Time, cfg Config, seed int64) EnergyReport {
	type partial struct {
		report EnergyReport
	}
	results := make([]partial, len(servers))
	var wg sync.WaitGroup

	for i, srv := range servers {
		wg.Add(1)
		go func(i int, srv cloudmodel.Server) {
			defer wg.Done()
			noise := distuv.Normal{Mu: 0, Sigma: cfg.NoiseSigmaW, Src: rand.NewSource(seed + int64(i) + 1)}
			var report EnergyReport

			intervalHours := cfg.SampleInterval.Hours()
			for t := from; !t.After(to); t = t.Add(cfg.SampleInterval) {
				u := utilAt(samples, srv.ID, t)
				var power float64
				if u > 0 {
					power = cfg.PIdle + (cfg.PPeak-cfg.PIdle)*u + noise.Rand()
					if power < 0 {
						power = 0
					}
				}

				price, err := priceAtKWh(env, srv.Location, t, cfg.PricesInMWh)
				if err != nil {
					continue
				}
				temp, err := env.TemperatureAt(srv.Location, t)
				if err != nil {
					temp = 20 // fallback ambient, only reached if the temperature series doesn't cover this sample
				}
				pPUE := 1.0
				if cfg.PPUE != nil {
					pPUE = cfg.PPUE(srv.Location, temp)
				}

				coolingPower := power * pPUE
				report.ITEnergyKWh += (power / 1000) * intervalHours
				report.TotalEnergyKWh += (coolingPower / 1000) * intervalHours
				report.ITCostUSD += (power / 1000) * intervalHours * price
				report.TotalCostUSD += (coolingPower / 1000) * intervalHours * price
			}
			results[i] = partial{report: report}
		}(i, srv)
	}
	wg.Wait()

	var total EnergyReport
	for _, r := range results {
		total = total.add(r.report)
	}
	return total
}
