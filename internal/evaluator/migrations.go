package evaluator

import (
	"github.com/yourusername/geosched/internal/environment"
	"github.com/yourusername/geosched/internal/resource"
	"github.com/yourusername/geosched/internal/scheduler"
)

// migrationOverhead charges every committed migration's E_mig (§4.F.5),
// converted to kWh, at the mean of the source and destination electricity
// prices at the action's timestamp (§4.G).
func migrationOverhead(migrations []committedMigration, env *environment.Environment, cfg Config) EnergyReport {
	var report EnergyReport
	for _, m := range migrations {
		phys := scheduler.ComputeMigrationPhysics(m.VM.Demand.Get(resource.RAM), cfg.Bandwidth.For(m.ToLoc), cfg.DirtyPageRate)
		energyKWh := scheduler.EnergyKWh(phys.EnergyJ)

		srcPrice, srcErr := priceAtKWh(env, m.FromLoc, m.Time, cfg.PricesInMWh)
		dstPrice, dstErr := priceAtKWh(env, m.ToLoc, m.Time, cfg.PricesInMWh)
		var meanPrice float64
		switch {
		case srcErr == nil && dstErr == nil:
			meanPrice = (srcPrice + dstPrice) / 2
		case srcErr == nil:
			meanPrice = srcPrice
		case dstErr == nil:
			meanPrice = dstPrice
		default:
			continue
		}

		report.MigrationEnergyKWh += energyKWh
		report.MigrationCostUSD += energyKWh * meanPrice
	}
	return report
}
