package main

import (
	"log"
	"os"

	"storefront/services/storefront-api/config"
	"storefront/services/storefront-api/handlers"
	"storefront/services/storefront-api/orders"
	"storefront/services/storefront-api/rabbitmq"
	"storefront/services/storefront-api/store"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	// Prices and totals travel as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg := config.LoadConfig()

	log.Printf("Starting Storefront API on port %s", cfg.Port)

	// Set Gin mode
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Seed the catalog
	catalog := store.DefaultCatalog
	if cfg.CatalogFile != "" {
		data, err := os.ReadFile(cfg.CatalogFile)
		if err != nil {
			log.Fatalf("Failed to read catalog file: %v", err)
		}
		catalog = data
	}
	st := store.New(store.NewAllocator())
	if err := st.Seed(catalog); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	log.Printf("Loaded catalog: %d categories, %d products, %d locations",
		len(st.Categories()), len(st.Products()), len(st.Locations()))

	var opts []orders.Option
	if cfg.PublishOrderEvents {
		channelPool, err := rabbitmq.NewChannelPool(cfg.RabbitMQURL, cfg.RabbitMQQueue, cfg.ChannelPoolSize)
		if err != nil {
			log.Fatalf("Failed to create RabbitMQ channel pool: %v", err)
		}
		defer channelPool.Close()

		opts = append(opts, orders.WithPublisher(rabbitmq.NewPublisher(channelPool, cfg.RabbitMQQueue)))
	}

	orderService := orders.NewService(st, opts...)

	router := handlers.NewRouter(gin.Default(),
		handlers.NewCatalogHandler(st),
		handlers.NewOrderHandler(orderService),
	)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
