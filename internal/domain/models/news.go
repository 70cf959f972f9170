package models

// News type discriminators. The presentation layer must tolerate values
// outside this list, so the type stays a plain string.
const (
	NewsManipulation = "institutional_manipulation"
	NewsShortSqueeze = "short_squeeze"
	NewsShortReport  = "short_seller_report"
	NewsDeadCat      = "dead_cat_bounce"
	NewsFOMO         = "fomo_rally"
	NewsSweep        = "liquidity_sweep"
	NewsShakeout     = "news_shakeout"
	NewsSplit        = "stock_split"
	NewsRebalance    = "index_rebalancing"
	NewsInsiderBuy   = "insider_buying"
	NewsInsiderSell  = "insider_selling"
)

// Sentiment bands for the numeric sentiment field.
const (
	SentimentPositive = 1.0
	SentimentNeutral  = 0.0
	SentimentNegative = -1.0
)

// NewsRecord is the immutable record phenomena push into the news sink.
// Consumers read it verbatim; nothing mutates a record after Push.
type NewsRecord struct {
	ID        string
	Day       int
	Symbol    string
	Type      string
	Headline  string
	Body      string
	Sentiment float64

	Phase         string
	Probability   float64
	CriteriaMet   int
	CriteriaTotal int
	GoldStandard  bool

	// Telltale is the educational note rendered verbatim by the UI.
	Telltale string

	Payload map[string]float64
}

// SentimentLabel maps the numeric sentiment to the coarse band names the
// presentation layer understands.
func (r NewsRecord) SentimentLabel() string {
	switch {
	case r.Sentiment > 0.2:
		return "positive"
	case r.Sentiment < -0.2:
		return "negative"
	default:
		return "neutral"
	}
}

// Clone returns a deep copy so feed consumers can never mutate the stored
// record through the returned value.
func (r NewsRecord) Clone() NewsRecord {
	out := r
	if r.Payload != nil {
		out.Payload = make(map[string]float64, len(r.Payload))
		for k, v := range r.Payload {
			out.Payload[k] = v
		}
	}
	return out
}

// TutorialHint is the structured teaching aid derived from a news record.
type TutorialHint struct {
	Type                string
	Description         string
	Implication         string
	Action              string
	Timing              string
	Catalyst            string
	GoldStandardSummary string
}
