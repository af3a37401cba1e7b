package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/greenpc/marketplace/config"
	"github.com/greenpc/marketplace/internal/application"
	"github.com/greenpc/marketplace/pkg/helpers"
)

// Settlement audit worker: consumes settlement events published by the API
// after a successful finalize and indexes them into Elasticsearch so ops can
// query settlement history without touching the primary database.
func main() {
	cfg := config.Load()
	if cfg.RabbitMQURL == "" || cfg.RabbitMQSettlementQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		log.Fatalf("elasticsearch: %v", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQSettlementQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQSettlementQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	ctx := context.Background()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev application.SettlementEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				log.Printf("bad message: %v", err)
				_ = msg.Nack(false, false)
				continue
			}
			if ev.OrderID == "" || ev.ProductID == "" {
				log.Printf("incomplete event, dropping: %s", string(msg.Body))
				_ = msg.Nack(false, false)
				continue
			}

			doc := map[string]any{
				"order_id":    ev.OrderID,
				"product_id":  ev.ProductID,
				"buyer_email": ev.BuyerEmail,
				"settled_at":  ev.SettledAt.Format(time.RFC3339Nano),
			}
			b, _ := json.Marshal(doc)
			req := esapi.IndexRequest{
				Index:      cfg.ESSettlementsIndex,
				DocumentID: ev.OrderID,
				Body:       strings.NewReader(string(b)),
				Refresh:    "false",
			}

			c, cancel := context.WithTimeout(ctx, 10*time.Second)
			res, err := req.Do(c, es)
			cancel()
			if err != nil {
				log.Printf("index failed: %v", err)
				_ = msg.Nack(false, true)
				continue
			}
			if res.IsError() {
				log.Printf("index error: %s", res.String())
				_ = res.Body.Close()
				_ = msg.Nack(false, true)
				continue
			}
			_ = res.Body.Close()
			_ = msg.Ack(false)
		}
		close(done)
	}()

	log.Printf("settlement worker listening on queue=%s", cfg.RabbitMQSettlementQueue)
	<-stop
	log.Printf("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
