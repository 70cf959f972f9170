package engine

import "MarketLab/internal/domain/models"

// Book holds the security population in a stable processing order.
// The slice order is the per-tick processing order.
type Book struct {
	securities []*models.Security
	bySymbol   map[string]*models.Security
}

// NewBook seeds a Book from the ingress contract.
func NewBook(seeds []models.SecuritySeed) *Book {
	b := &Book{bySymbol: make(map[string]*models.Security, len(seeds))}
	for _, seed := range seeds {
		if seed.Symbol == "" || seed.Price <= 0 {
			continue
		}
		if _, dup := b.bySymbol[seed.Symbol]; dup {
			continue
		}
		sec := models.NewSecurity(seed)
		b.securities = append(b.securities, sec)
		b.bySymbol[seed.Symbol] = sec
	}
	return b
}

// Securities returns the population in processing order. Callers mutate the
// entries; the slice itself is owned by the book.
func (b *Book) Securities() []*models.Security { return b.securities }

// Get looks up one security by symbol.
func (b *Book) Get(symbol string) (*models.Security, bool) {
	sec, ok := b.bySymbol[symbol]
	return sec, ok
}

// Len returns the population size.
func (b *Book) Len() int { return len(b.securities) }

// SupportLevel derives a support price from recent history: the lowest
// close of the last window days. ok is false when history is too thin for
// a level to be detectable.
func SupportLevel(sec *models.Security, window int) (float64, bool) {
	if len(sec.History) < 10 {
		return 0, false
	}
	h := sec.History
	if len(h) > window {
		h = h[len(h)-window:]
	}
	low := h[0].Price
	for _, p := range h[1:] {
		if p.Price < low {
			low = p.Price
		}
	}
	return low, true
}

// ReturnOver computes the fractional price change over the last n history
// days; zero when history is too thin.
func ReturnOver(sec *models.Security, n int) float64 {
	if len(sec.History) <= n {
		return 0
	}
	then := sec.History[len(sec.History)-1-n].Price
	if then <= 0 {
		return 0
	}
	return (sec.Price - then) / then
}
