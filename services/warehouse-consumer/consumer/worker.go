package consumer

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"storefront/services/warehouse-consumer/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

type Worker struct {
	workerID     int
	channel      *amqp.Channel
	queueName    string
	orderTracker *OrderTracker
}

func NewWorker(workerID int, conn *amqp.Connection, queueName string, tracker *OrderTracker) (*Worker, error) {
	// Each worker gets its own channel
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for worker %d: %w", workerID, err)
	}

	// One unacknowledged message per worker at a time
	err = ch.Qos(
		1,     // prefetch count
		0,     // prefetch size
		false, // global
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS for worker %d: %w", workerID, err)
	}

	return &Worker{
		workerID:     workerID,
		channel:      ch,
		queueName:    queueName,
		orderTracker: tracker,
	}, nil
}

// Run registers the worker as a consumer and processes deliveries until the
// channel or connection is closed.
func (w *Worker) Run(wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.channel.Close()

	msgs, err := w.channel.Consume(
		w.queueName,                          // queue
		fmt.Sprintf("worker-%d", w.workerID), // consumer tag
		false,                                // auto-ack
		false,                                // exclusive
		false,                                // no-local
		false,                                // no-wait
		nil,                                  // args
	)
	if err != nil {
		log.Printf("Worker %d failed to register consumer: %v", w.workerID, err)
		return
	}

	log.Printf("Worker %d started and waiting for messages", w.workerID)
	n := w.consume(msgs)
	log.Printf("Worker %d stopped after %d messages", w.workerID, n)
}

// consume handles deliveries until msgs is closed and returns how many it saw.
func (w *Worker) consume(msgs <-chan amqp.Delivery) int {
	n := 0
	for msg := range msgs {
		w.processMessage(msg)
		n++
	}
	return n
}

func (w *Worker) processMessage(msg amqp.Delivery) {
	var event models.OrderCreatedEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.Order.ID <= 0 {
		log.Printf("Worker %d: Rejecting malformed order event %q: %v", w.workerID, msg.MessageId, err)
		// Malformed messages are dropped rather than requeued.
		if nackErr := msg.Nack(false, false); nackErr != nil {
			log.Printf("Worker %d: Failed to nack message: %v", w.workerID, nackErr)
		}
		return
	}

	items := make([]OrderItem, len(event.Items))
	for i, item := range event.Items {
		items[i] = OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	w.orderTracker.RecordOrder(event.Order.ID, items)

	if err := msg.Ack(false); err != nil {
		log.Printf("Worker %d: Failed to acknowledge message: %v", w.workerID, err)
	} else {
		log.Printf("Worker %d: Processed and acknowledged order %d", w.workerID, event.Order.ID)
	}
}
