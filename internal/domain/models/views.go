package models

// Egress views for the API layer. The presentation contract: price,
// history, and phenomenon state slots are readable; nothing else should
// be interpreted.

type PhenomenonView struct {
	Type          string  `json:"type"`
	Phase         string  `json:"phase"`
	Day           int     `json:"day"`
	DaysLeft      int     `json:"daysLeft"`
	CriteriaMet   int     `json:"criteriaMet"`
	CriteriaTotal int     `json:"criteriaTotal"`
	GoldStandard  bool    `json:"goldStandard"`
	Probability   float64 `json:"probability"`
}

type SecurityView struct {
	Symbol          string           `json:"symbol"`
	Name            string           `json:"name"`
	Sector          string           `json:"sector"`
	Price           float64          `json:"price"`
	BasePrice       float64          `json:"basePrice"`
	FairValue       float64          `json:"fairValue"`
	SentimentOffset float64          `json:"sentimentOffset"`
	Volatility      float64          `json:"volatility"`
	ShortInterest   float64          `json:"shortInterest"`
	YTDReturn       float64          `json:"ytdReturn"`
	History         []PricePoint     `json:"history,omitempty"`
	Phenomena       []PhenomenonView `json:"phenomena,omitempty"`
	InsiderBuys     int              `json:"insiderBuys"`
	InsiderSells    int              `json:"insiderSells"`
}

type NewsView struct {
	ID            string             `json:"id"`
	Day           int                `json:"day"`
	Symbol        string             `json:"symbol"`
	Type          string             `json:"type"`
	Headline      string             `json:"headline"`
	Body          string             `json:"body"`
	Sentiment     string             `json:"sentiment"`
	Phase         string             `json:"phase,omitempty"`
	Probability   float64            `json:"probability,omitempty"`
	CriteriaMet   int                `json:"criteriaMet"`
	CriteriaTotal int                `json:"criteriaTotal"`
	GoldStandard  bool               `json:"goldStandard"`
	Telltale      string             `json:"educationalNote"`
	Payload       map[string]float64 `json:"payload,omitempty"`
}

// View renders the phenomenon state for the API.
func (p *PhenomenonState) View() PhenomenonView {
	return PhenomenonView{
		Type:          p.Type,
		Phase:         p.Phase,
		Day:           p.Day,
		DaysLeft:      p.DaysLeft,
		CriteriaMet:   p.CriteriaMet(),
		CriteriaTotal: len(p.Criteria),
		GoldStandard:  p.IsGoldStandard(),
		Probability:   p.Probability,
	}
}

// View renders the security for the API; includeHistory controls whether
// the full price window rides along.
func (s *Security) View(includeHistory bool) SecurityView {
	v := SecurityView{
		Symbol:          s.Symbol,
		Name:            s.Name,
		Sector:          s.Sector,
		Price:           s.Price,
		BasePrice:       s.BasePrice,
		FairValue:       s.FairValue(),
		SentimentOffset: s.SentimentOffset,
		Volatility:      s.Volatility,
		ShortInterest:   s.ShortInterest,
		YTDReturn:       s.YTDReturn,
		InsiderBuys:     len(s.InsiderBuys),
		InsiderSells:    len(s.InsiderSells),
	}
	if includeHistory {
		v.History = append(v.History, s.History...)
	}
	for _, st := range []*PhenomenonState{
		s.Manipulation, s.ShortSqueeze, s.ShortReport, s.DeadCat,
		s.FOMO, s.Sweep, s.Shakeout, s.Split, s.Rebalance,
	} {
		if st != nil {
			v.Phenomena = append(v.Phenomena, st.View())
		}
	}
	return v
}

// View renders a news record for the API.
func (r NewsRecord) View() NewsView {
	return NewsView{
		ID:            r.ID,
		Day:           r.Day,
		Symbol:        r.Symbol,
		Type:          r.Type,
		Headline:      r.Headline,
		Body:          r.Body,
		Sentiment:     r.SentimentLabel(),
		Phase:         r.Phase,
		Probability:   r.Probability,
		CriteriaMet:   r.CriteriaMet,
		CriteriaTotal: r.CriteriaTotal,
		GoldStandard:  r.GoldStandard,
		Telltale:      r.Telltale,
		Payload:       r.Payload,
	}
}
