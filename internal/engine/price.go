package engine

import (
	"math"

	"MarketLab/internal/domain/models"
)

// Price convergence constants. The numeric values are hand-tuned balance
// constants; changing them changes game balance, not correctness.
const (
	SentimentMin   = -0.8
	SentimentMax   = 3.0
	sentimentDecay = 0.98 // 2%/day toward zero

	manipulationWeight = 0.15

	convergenceSpeed      = 0.15
	convergenceSpeedCrash = 0.05 // slower correction lets scripted phases read clearly

	trendWeight          = 0.05
	trendCrashMultiplier = 0.3
	noiseCrashMultiplier = 0.3

	volatilityBoostDecay = 0.85

	// HistoryWindow bounds per-security price history.
	HistoryWindow = 256
)

// PriceEngine folds sentiment, trend, manipulation pressure, queued
// impulses, and bounded noise into a new price once per simulated day,
// after every phenomenon has run.
type PriceEngine struct {
	ctx       *Context
	noiseMult float64
}

// NewPriceEngine builds the price engine. noiseMult scales the random
// component globally; zero means the default of 1.
func NewPriceEngine(ctx *Context, noiseMult float64) *PriceEngine {
	if noiseMult <= 0 {
		noiseMult = 1
	}
	if ctx == nil {
		ctx = NewContext()
	}
	return &PriceEngine{ctx: ctx, noiseMult: noiseMult}
}

// Step advances one security by one day. Phenomena have already written
// sentiment deltas and queued impulses for today.
func (e *PriceEngine) Step(sec *models.Security, day int) {
	fair := sec.FairValue()

	// Markets normalize: clamp sentiment to its band, then decay toward zero.
	sec.SentimentOffset = Clamp(sec.SentimentOffset, SentimentMin, SentimentMax)
	sec.SentimentOffset *= sentimentDecay

	crash := sec.CrashActive()

	pressure := sec.InstitutionalAccumulation * manipulationWeight
	target := fair * (1 + sec.SentimentOffset + pressure)
	if target <= 0 {
		target = sec.PriceFloor()
	}

	noiseMult := e.noiseMult
	speed := convergenceSpeed
	trendMult := 1.0
	if crash {
		noiseMult *= noiseCrashMultiplier
		speed = convergenceSpeedCrash
		trendMult = trendCrashMultiplier
	}

	noise := (e.ctx.Float64()*2 - 1) * sec.Volatility * (1 + sec.VolatilityBoost) * noiseMult
	correction := -((sec.Price - target) / target) * speed
	trendEffect := sec.Trend * trendWeight * trendMult
	impulse := sec.DrainImpulses()

	price := sec.Price * (1 + trendEffect + correction + noise + impulse)
	price = Clamp(price, sec.PriceFloor(), sec.PriceCeiling())
	sec.Price = math.Round(price)
	if sec.Price < 1 {
		sec.Price = 1
	}

	sec.History = append(sec.History, models.PricePoint{Day: day, Price: sec.Price})
	if len(sec.History) > HistoryWindow {
		sec.History = sec.History[len(sec.History)-HistoryWindow:]
	}

	sec.VolatilityBoost *= volatilityBoostDecay
	if sec.VolatilityBoost < 0.01 {
		sec.VolatilityBoost = 0
	}

	if sec.YTDOpen > 0 {
		sec.YTDReturn = (sec.Price - sec.YTDOpen) / sec.YTDOpen
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
