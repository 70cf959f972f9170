package usecase

import (
	"fmt"

	"MarketLab/internal/domain/models"
)

// TutorialHint derives a structured teaching aid from a news record. It is
// pure and total: unrelated or unknown record types return nil, and the
// hint never claims a stronger signal than the criteria actually met.
func TutorialHint(rec models.NewsRecord) *models.TutorialHint {
	var h *models.TutorialHint
	switch rec.Type {
	case models.NewsDeadCat:
		h = deadCatHint(rec)
	case models.NewsShortSqueeze:
		h = squeezeHint(rec)
	case models.NewsShortReport:
		h = shortReportHint(rec)
	case models.NewsFOMO:
		h = fomoHint(rec)
	case models.NewsSweep:
		h = sweepHint(rec)
	case models.NewsShakeout:
		h = shakeoutHint(rec)
	case models.NewsSplit:
		h = splitHint(rec)
	case models.NewsRebalance:
		h = rebalanceHint(rec)
	case models.NewsManipulation:
		h = manipulationHint(rec)
	case models.NewsInsiderBuy:
		h = insiderBuyHint(rec)
	case models.NewsInsiderSell:
		h = insiderSellHint(rec)
	default:
		return nil
	}
	if h != nil {
		h.GoldStandardSummary = goldSummary(rec)
	}
	return h
}

// goldSummary renders the criteria scoreboard; the "Gold Standard" label
// appears only at full criteria.
func goldSummary(rec models.NewsRecord) string {
	if rec.CriteriaTotal == 0 {
		return ""
	}
	if rec.GoldStandard && rec.CriteriaMet == rec.CriteriaTotal {
		return fmt.Sprintf("Gold Standard setup: all %d criteria met (%.0f%% probability).",
			rec.CriteriaTotal, rec.Probability*100)
	}
	return fmt.Sprintf("%d/%d criteria met (%.0f%% probability); not a Gold Standard setup.",
		rec.CriteriaMet, rec.CriteriaTotal, rec.Probability*100)
}

func deadCatHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "sharp no-news decline"}
	switch rec.Phase {
	case "crash":
		h.Description = "A sharp decline without a fundamental catalyst."
		h.Implication = "The drop may overshoot fair value, setting up a bounce."
		h.Action = "Do nothing yet. Identify the nearest support level."
		h.Timing = "Wait for the selling to exhaust, usually 2-3 days."
	case "bounce":
		h.Description = "A relief bounce after the crash."
		h.Implication = "Bounces are ambiguous: real reversal or dead cat."
		h.Action = "Check the criteria scoreboard before trusting the bounce."
		h.Timing = "The resolution window opens within days."
	default:
		h.Description = "The post-crash pattern is resolving."
		h.Implication = "Either the low holds or the bounce fades to new lows."
		h.Action = "Respect the resolved direction; do not average down into a fade."
		h.Timing = "Resolution completes within a week."
	}
	return h
}

func squeezeHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "extreme short interest"}
	switch rec.Phase {
	case "ignition", "squeeze":
		h.Description = "Forced short covering is accelerating the rally."
		h.Implication = "The buying is mechanical, not a judgment of value."
		h.Action = "If holding, plan the exit; if not, do not chase."
		h.Timing = "Squeezes burn out in days, not weeks."
	case "exhaustion":
		h.Description = "Short interest has collapsed; the fuel is spent."
		h.Implication = "Without forced buyers, price tends to give back the spike."
		h.Action = "Exit longs opened into the squeeze."
		h.Timing = "The give-back usually starts immediately."
	default:
		h.Description = "A heavily shorted stock is coiling."
		h.Implication = "High short interest is fuel; it still needs a trigger."
		h.Action = "Watch for an ignition day on volume."
		h.Timing = "Setups can idle for days before triggering."
	}
	return h
}

func shortReportHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "activist short report"}
	switch rec.Phase {
	case "publish", "panic":
		h.Description = "An activist short report has hit the stock."
		h.Implication = "The author profits from the decline: a disclosed conflict."
		h.Action = "Neither buy nor sell on the report alone; wait for the rebuttal."
		h.Timing = "Companies with answers respond within days."
	case "rebuttal":
		h.Description = "The company is answering the allegations."
		h.Implication = "A fast, specific rebuttal is the strongest recovery signal."
		h.Action = "Re-check fundamentals against each allegation."
		h.Timing = "Resolution follows within a week."
	default:
		h.Description = "The short-report episode is resolving."
		h.Implication = "Unanswered reports usually prove right; rebutted ones fade."
		h.Action = "Follow the resolved direction."
		h.Timing = "Post-resolution drift lasts several days."
	}
	return h
}

func fomoHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "crowd attention"}
	switch rec.Phase {
	case "blowoff":
		h.Description = "The rally has gone vertical."
		h.Implication = "Vertical final legs mark exhaustion, not strength."
		h.Action = "Selling into the vertical move beats waiting for the top."
		h.Timing = "Blowoffs last one or two sessions."
	case "hangover":
		h.Description = "The frenzy broke; late buyers are trapped."
		h.Implication = "Parabolic moves retrace most of their final leg."
		h.Action = "Do not buy the first dip of a broken parabola."
		h.Timing = "Hangovers run about a week."
	default:
		h.Description = "A fear-of-missing-out rally is building."
		h.Implication = "Crowd flows move price short-term regardless of value."
		h.Action = "If you must participate, size small and predefine the exit."
		h.Timing = "Surges run days; entries late in the move carry the most risk."
	}
	return h
}

func sweepHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "stop-loss cluster below support"}
	switch rec.Phase {
	case "sweep":
		h.Description = "Price knifed through an obvious support level."
		h.Implication = "Breaks of obvious levels often hunt stops, then reverse."
		h.Action = "Do not panic-sell the break; watch the reclaim window."
		h.Timing = "Genuine sweeps reclaim the level within 2-3 days."
	case "reclaim":
		h.Description = "The level break is being tested from below."
		h.Implication = "A swift reclaim marks the break as a liquidity sweep."
		h.Action = "A held reclaim is a long signal; a failed one confirms breakdown."
		h.Timing = "The verdict arrives within days."
	default:
		h.Description = "Price is drifting toward a widely watched level."
		h.Implication = "Obvious levels attract both stops and the players who hunt them."
		h.Action = "Place stops away from the obvious price."
		h.Timing = "Sweeps strike when the level is most crowded."
	}
	return h
}

func shakeoutHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "scary headline"}
	switch rec.Phase {
	case "overreaction":
		h.Description = "A frightening headline triggered heavy selling."
		h.Implication = "First reactions overshoot when the earnings impact is small."
		h.Action = "Estimate the actual earnings impact before acting."
		h.Timing = "Overreactions exhaust within a couple of days."
	case "stabilize":
		h.Description = "Selling has slowed; the market is re-reading the news."
		h.Implication = "No follow-on reports plus intact fundamentals favor recovery."
		h.Action = "Watch the criteria scoreboard, not the headline."
		h.Timing = "Recovery or confirmation follows within a week."
	default:
		h.Description = "The news scare is resolving."
		h.Implication = "Noise round-trips; real damage does not."
		h.Action = "Respect a confirmed-damage resolution; the first drop was the cheap exit."
		h.Timing = "Drift continues a few days after resolution."
	}
	return h
}

func splitHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "stock split"}
	switch rec.Phase {
	case "effective":
		h.Description = "The split took effect; the price divided mechanically."
		h.Implication = "Position value is unchanged; only the share count moved."
		h.Action = "Ignore the apparent crash on the chart."
		h.Timing = "Nothing to time; the event is purely mechanical."
	default:
		h.Description = "A stock split is pending."
		h.Implication = "Splits change nothing fundamental but often attract buying."
		h.Action = "Treat any split run-up as sentiment, not value."
		h.Timing = "The run-up, when it happens, spans the one-to-two weeks before the effective day."
	}
	return h
}

func rebalanceHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "forced index-fund flows"}
	switch rec.Phase {
	case "announcement", "runUp":
		h.Description = "An index addition is being front-run."
		h.Implication = "Index funds must buy at the close; traders buy ahead of them."
		h.Action = "If trading it, the edge is selling into the inclusion close, not buying after."
		h.Timing = "The forced buy lands on the rebalance close."
	case "moc":
		h.Description = "Inclusion day: the forced market-on-close buy is in."
		h.Implication = "The mechanical demand is now exhausted."
		h.Action = "Ask who is left to buy tomorrow."
		h.Timing = "Watch for a lower high by T+2."
	default:
		h.Description = "Post-inclusion price discovery."
		h.Implication = "With index buying done, run-ups tend to unwind."
		h.Action = "A confirmed T+2 lower high completes the fade setup."
		h.Timing = "Fades play out over about a week."
	}
	return h
}

func manipulationHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "engineered price action"}
	switch rec.Phase {
	case "pump":
		h.Description = "Sustained gains with no news or coverage."
		h.Implication = "Someone accumulated quietly and now wants attention."
		h.Action = "Strength without information is a warning, not an invitation."
		h.Timing = "Pumps run days; the exit door shrinks daily."
	case "dump":
		h.Description = "Large sellers are hitting every bounce."
		h.Implication = "The accumulator is distributing into retail demand."
		h.Action = "Do not buy the dip of a suspected manipulation."
		h.Timing = "Dumps finish fast; bounces within them fail."
	default:
		h.Description = "An engineered accumulation/distribution cycle."
		h.Implication = "The pattern profits whoever moved first, at everyone else's expense."
		h.Action = "Refusing to chase the middle leg is the only winning move."
		h.Timing = "Full cycles span several weeks."
	}
	return h
}

func insiderBuyHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "open-market insider purchase"}
	if rec.GoldStandard {
		h.Description = "A cluster of insider buys inside one month."
		h.Implication = "Clustered buying is the strongest insider signal: multiple independent insiders committing cash."
		h.Action = "Treat as a strong bullish datapoint worth research."
		h.Timing = "Insider signals play out over months, not days."
		return h
	}
	h.Description = "A single insider purchase."
	h.Implication = "One buy is a whisper; it needs company to become a signal."
	h.Action = "Note it and watch for further filings."
	h.Timing = "Clusters form within a 30-day window or not at all."
	return h
}

func insiderSellHint(rec models.NewsRecord) *models.TutorialHint {
	h := &models.TutorialHint{Type: rec.Type, Catalyst: "insider sale filing"}
	if rec.CriteriaMet > 0 {
		h.Description = "Multiple insiders selling within a month."
		h.Implication = "Clustered selling near highs deserves attention; it is the one exception to the noise rule."
		h.Action = "Check valuation and recent run-up before dismissing it."
		h.Timing = "If meaningful, weakness shows within weeks."
		return h
	}
	h.Description = "A routine insider sale."
	h.Implication = "Selling is noise by design: diversification, taxes, houses."
	h.Action = "No action; zero probability adjustment."
	h.Timing = "Not applicable."
	return h
}
