package usecase

import (
	"context"
	"encoding/json"

	"MarketLab/internal/domain/models"
	domrepo "MarketLab/internal/domain/repository"
	pkgkafka "MarketLab/pkg/kafka"
)

// NewsArchiveHandler consumes the news topic and writes each record to the
// tick recorder, so an archive can be rebuilt from Kafka alone.
type NewsArchiveHandler struct {
	topic    string
	recorder domrepo.TickRecorder
	metrics  domrepo.Metrics
}

func NewNewsArchiveHandler(topic string, recorder domrepo.TickRecorder, metrics domrepo.Metrics) *NewsArchiveHandler {
	return &NewsArchiveHandler{topic: topic, recorder: recorder, metrics: metrics}
}

func (h *NewsArchiveHandler) Topic() string { return h.topic }

// incoming message schema matches KafkaNewsPublisher's payload
func (h *NewsArchiveHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		ID        string  `json:"id"`
		Day       int     `json:"day"`
		Symbol    string  `json:"symbol"`
		Type      string  `json:"type"`
		Headline  string  `json:"headline"`
		Body      string  `json:"body"`
		Sentiment float64 `json:"sentiment"`
		Phase     string  `json:"phase"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	err := h.recorder.RecordNews(ctx, []models.NewsRecord{{
		ID:        m.ID,
		Day:       m.Day,
		Symbol:    m.Symbol,
		Type:      m.Type,
		Headline:  m.Headline,
		Body:      m.Body,
		Sentiment: m.Sentiment,
		Phase:     m.Phase,
	}})
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*NewsArchiveHandler)(nil)
