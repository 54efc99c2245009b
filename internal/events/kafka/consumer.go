package kafka

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/models"
	"github.com/sheikh-saqib/arcade-highscore-ledger/internal/scoreupdate"
)

// ScoreUpdateHandler is satisfied by *scoreupdate.Handler.
type ScoreUpdateHandler interface {
	Handle(ctx context.Context, msg models.ScoreUpdate) (scoreupdate.Outcome, error)
}

// messageReader is the part of *kafka.Reader the consumer uses
type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer feeds score updates from a topic to a handler, one message at a
// time in partition order.
type Consumer struct {
	reader  messageReader
	handler ScoreUpdateHandler
	logger  *zap.Logger
}

func NewConsumer(brokers []string, topic, groupID string, handler ScoreUpdateHandler, logger *zap.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: brokers,
		Topic:   topic,
		GroupID: groupID,
	})
	return newConsumer(reader, handler, logger)
}

func newConsumer(reader messageReader, handler ScoreUpdateHandler, logger *zap.Logger) *Consumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{reader: reader, handler: handler, logger: logger}
}

// Run consumes until ctx is cancelled. Messages that can't be decoded or
// handled are logged and committed so they don't block the partition.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		c.process(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

func (c *Consumer) process(ctx context.Context, msg kafka.Message) {
	var update models.ScoreUpdate

	// numbers stay json.Number so large integer scores keep every digit
	decoder := json.NewDecoder(bytes.NewReader(msg.Value))
	decoder.UseNumber()
	if err := decoder.Decode(&update); err != nil {
		c.logger.Warn("Skipping malformed score update",
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return
	}

	outcome, err := c.handler.Handle(ctx, update)
	if err != nil {
		c.logger.Warn("Score update rejected",
			zap.String("game", update.Game),
			zap.Int64("offset", msg.Offset),
			zap.Error(err))
		return
	}
	c.logger.Debug("Score update handled",
		zap.String("game", outcome.Game),
		zap.Int64("score", outcome.Score),
		zap.Bool("recorded", outcome.Recorded))
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
