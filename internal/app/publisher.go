package app

import (
	"fmt"
	"log/slog"

	"github.com/rl1809/shirt-inventory/internal/adapter/messaging"
	"github.com/rl1809/shirt-inventory/internal/config"
	"github.com/rl1809/shirt-inventory/internal/port"
)

func OpenPublisher(cfg *config.Config, logger *slog.Logger) (port.EventPublisher, error) {
	switch cfg.EventSink {
	case config.SinkLog:
		return messaging.NewLogPublisher(logger), nil
	case config.SinkNone:
		return messaging.NopPublisher{}, nil
	case config.SinkKafka:
		logger.Info("publishing stock events to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		return messaging.NewKafkaPublisher(messaging.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)), nil
	case config.SinkRabbitMQ:
		p, err := messaging.DialRabbitMQ(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			return nil, err
		}
		logger.Info("publishing stock events to rabbitmq", "exchange", cfg.RabbitMQExchange)
		return p, nil
	}
	return nil, fmt.Errorf("unknown event sink %q", cfg.EventSink)
}
