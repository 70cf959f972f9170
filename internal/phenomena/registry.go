package phenomena

// All returns every phenomenon module in the fixed daily processing order.
// Order matters: later modules may queue impulses on top of earlier ones
// and the price step consumes them all at the end of the tick.
func All(deps Deps) []Phenomenon {
	return []Phenomenon{
		NewManipulation(deps),
		NewShortSqueeze(deps),
		NewShortReport(deps),
		NewDeadCat(deps),
		NewSweep(deps),
		NewShakeout(deps),
		NewFOMO(deps),
		NewInsiderBuying(deps),
		NewInsiderSelling(deps),
		NewSplit(deps),
		NewRebalance(deps),
	}
}

// Types lists the feature-flag vocabulary: one identifier per module, in
// processing order.
func Types() []string {
	return []string{
		manipulationSpec.Type,
		shortSqueezeSpec.Type,
		shortReportSpec.Type,
		deadCatSpec.Type,
		sweepSpec.Type,
		shakeoutSpec.Type,
		fomoSpec.Type,
		insiderBuySpec.Type,
		insiderSellSpec.Type,
		splitSpec.Type,
		rebalanceSpec.Type,
	}
}
