package usecase

import (
	"strings"
	"testing"

	"MarketLab/internal/domain/models"
	"MarketLab/internal/phenomena"
)

func TestTutorialHintCoversEveryType(t *testing.T) {
	for _, typ := range phenomena.Types() {
		rec := models.NewsRecord{Type: typ, Phase: "anything", CriteriaMet: 1, CriteriaTotal: 4}
		h := TutorialHint(rec)
		if h == nil {
			t.Fatalf("%s: no hint", typ)
		}
		if h.Type != typ {
			t.Fatalf("%s: hint type %q", typ, h.Type)
		}
		if h.Description == "" || h.Action == "" {
			t.Fatalf("%s: hint missing copy: %+v", typ, h)
		}
	}
}

func TestTutorialHintUnknownType(t *testing.T) {
	if h := TutorialHint(models.NewsRecord{Type: "earnings_call"}); h != nil {
		t.Fatalf("unknown type must yield nil, got %+v", h)
	}
}

func TestGoldSummaryNeverOverstates(t *testing.T) {
	// a record flagged gold but short of full criteria must not be
	// presented as a Gold Standard setup
	rec := models.NewsRecord{
		Type: models.NewsDeadCat, GoldStandard: true,
		CriteriaMet: 2, CriteriaTotal: 4, Probability: 0.65,
	}
	h := TutorialHint(rec)
	if h == nil {
		t.Fatal("hint expected")
	}
	if strings.Contains(h.GoldStandardSummary, "Gold Standard setup") {
		t.Fatalf("partial criteria presented as gold: %q", h.GoldStandardSummary)
	}
	if !strings.Contains(h.GoldStandardSummary, "2/4") {
		t.Fatalf("scoreboard missing: %q", h.GoldStandardSummary)
	}

	rec.CriteriaMet = 4
	h = TutorialHint(rec)
	if !strings.Contains(h.GoldStandardSummary, "Gold Standard setup: all 4 criteria met") {
		t.Fatalf("full criteria must read as gold: %q", h.GoldStandardSummary)
	}
}

func TestGoldSummaryEmptyWithoutCriteria(t *testing.T) {
	h := TutorialHint(models.NewsRecord{Type: models.NewsInsiderSell})
	if h == nil {
		t.Fatal("hint expected")
	}
	if h.GoldStandardSummary != "" {
		t.Fatalf("no criteria, no scoreboard: %q", h.GoldStandardSummary)
	}
}

func TestDeadCatHintTracksPhase(t *testing.T) {
	crash := TutorialHint(models.NewsRecord{Type: models.NewsDeadCat, Phase: "crash"})
	resolution := TutorialHint(models.NewsRecord{Type: models.NewsDeadCat, Phase: "resolution"})
	if crash == nil || resolution == nil {
		t.Fatal("hints expected for both phases")
	}
	if crash.Action == resolution.Action {
		t.Fatal("phases must carry distinct guidance")
	}
}
