package simulation

import (
	"math"
	"plantsim/pkg/domain"
)

// ComputeRequirements sums the BOM expansion of every pending or in-progress
// order into raw product id -> quantity. Totals saturate at math.MaxInt.
// It does not modify its inputs.
func ComputeRequirements(orders []domain.ManufacturingOrder, bom []domain.BOMEntry) map[int]int {
	out := map[int]int{}
	for _, mo := range orders {
		if mo.Status != domain.ManufacturingPending && mo.Status != domain.ManufacturingInProgress {
			continue
		}
		required, ok := domain.RequirementsFor(bom, mo.ProductID, mo.Quantity)
		if !ok {
			for _, e := range bom {
				if e.FinishedID == mo.ProductID {
					out[e.RawID] = math.MaxInt
				}
			}
			continue
		}
		for raw, qty := range required {
			out[raw] = domain.SaturatingAdd(out[raw], qty)
		}
	}
	return out
}
