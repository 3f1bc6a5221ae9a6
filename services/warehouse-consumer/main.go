package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"storefront/services/warehouse-consumer/config"
	"storefront/services/warehouse-consumer/consumer"

	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	cfg := config.LoadConfig()

	log.Printf("Starting Warehouse Consumer with %d workers", cfg.NumWorkers)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	// Declare the queue (ensure it exists)
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %v", err)
	}
	_, err = ch.QueueDeclare(
		cfg.RabbitMQQueue, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}
	ch.Close()

	log.Printf("Connected to queue: %s", cfg.RabbitMQQueue)

	tracker := consumer.NewOrderTracker()

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumWorkers; i++ {
		worker, err := consumer.NewWorker(i+1, conn, cfg.RabbitMQQueue, tracker)
		if err != nil {
			log.Fatalf("Failed to create worker %d: %v", i+1, err)
		}
		wg.Add(1)
		go worker.Run(&wg)
	}

	log.Printf("All %d workers started", cfg.NumWorkers)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("Received shutdown signal, stopping workers...")

	// Closing the connection closes every worker channel and ends their loops.
	conn.Close()
	wg.Wait()

	tracker.WriteSummary(os.Stdout)
	log.Println("Warehouse Consumer shut down gracefully")
}
