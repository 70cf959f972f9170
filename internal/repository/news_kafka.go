package repository

import (
	"context"
	"time"

	"MarketLab/internal/domain/models"
	domainrepo "MarketLab/internal/domain/repository"
	"MarketLab/pkg/kafka"
	"MarketLab/pkg/logger"
)

// KafkaNewsPublisher mirrors every news record onto a Kafka topic so
// external consumers (and the archive consumer) see the same feed the API
// serves. Push never blocks the simulation: records go through a buffered
// channel and a single writer goroutine, and overflow is dropped with a
// warning rather than stalling the day loop.
type KafkaNewsPublisher struct {
	producer *kafka.Producer
	topic    string
	log      *logger.Logger
	metrics  domainrepo.Metrics
	buf      chan models.NewsRecord
	done     chan struct{}
}

func NewKafkaNewsPublisher(producer *kafka.Producer, topic string, log *logger.Logger, m domainrepo.Metrics) *KafkaNewsPublisher {
	p := &KafkaNewsPublisher{
		producer: producer,
		topic:    topic,
		log:      log,
		metrics:  m,
		buf:      make(chan models.NewsRecord, 256),
		done:     make(chan struct{}),
	}
	go p.run()
	return p
}

var _ domainrepo.NewsSink = (*KafkaNewsPublisher)(nil)

func (p *KafkaNewsPublisher) Push(rec models.NewsRecord) {
	select {
	case p.buf <- rec:
	default:
		p.log.Warn("kafka news buffer full, dropping record",
			logger.String("id", rec.ID),
			logger.String("type", rec.Type))
		p.metrics.RecordError("kafka_news_overflow")
	}
}

func (p *KafkaNewsPublisher) run() {
	defer close(p.done)
	for rec := range p.buf {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := p.producer.Publish(ctx, p.topic, []byte(rec.Symbol), map[string]interface{}{
			"id":        rec.ID,
			"day":       rec.Day,
			"symbol":    rec.Symbol,
			"type":      rec.Type,
			"headline":  rec.Headline,
			"body":      rec.Body,
			"sentiment": rec.Sentiment,
			"phase":     rec.Phase,
		})
		cancel()
		if err != nil {
			p.log.Error("failed to publish news record",
				logger.Error(err),
				logger.String("id", rec.ID),
				logger.String("topic", p.topic))
			p.metrics.RecordError("kafka_news_publish")
		}
	}
}

// Close drains the buffer, waits for the writer to finish, then closes the
// producer.
func (p *KafkaNewsPublisher) Close() error {
	close(p.buf)
	<-p.done
	return p.producer.Close()
}
