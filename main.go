package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
	"gorm.io/gorm"

	"pizzaria/internal/app"
	"pizzaria/internal/config"
	"pizzaria/internal/database"
	"pizzaria/internal/events"
	"pizzaria/internal/models"
	"pizzaria/internal/receipt"
	"pizzaria/pkg/rabbitmq"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pizzaria",
		Short:        "Pizzeria storefront and back-office API",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(
		serveCommand(),
		migrateCommand(),
		seedCommand(),
		kitchenCommand(),
	)
	return rootCmd
}

// openDatabase loads the configuration and connects with the schema applied.
func openDatabase() (config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := database.Migrate(db); err != nil {
		return config.Config{}, nil, err
	}
	return cfg, db, nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}

			a, err := app.New(cfg, db, app.Options{})
			if err != nil {
				return err
			}
			defer a.Close()

			if cfg.AdminPassword == "" {
				log.Println("ADMIN_PASSWORD not set, skipping admin bootstrap")
			} else if err := a.EnsureAdmin(); err != nil {
				return err
			}
			a.Start()

			// Graceful shutdown handling
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			serverErr := make(chan error, 1)
			go func() {
				log.Printf("Starting server on port %s", cfg.AppPort)
				serverErr <- a.Fiber.Listen(cfg.AppPort)
			}()

			select {
			case err := <-serverErr:
				return fmt.Errorf("server failed to start: %w", err)
			case <-quit:
			}
			log.Println("Shutting down server...")

			if err := a.Fiber.Shutdown(); err != nil {
				log.Printf("Error during Fiber shutdown: %v", err)
			}
			log.Println("Server gracefully stopped")
			return nil
		},
	}
}

func migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := openDatabase()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Schema is up to date (%s)\n", cfg.DatabaseDriver)
			return nil
		},
	}
}

func seedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "load a demo menu into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			a, err := app.New(cfg, db, app.Options{DisableRelays: true, DisableRequestLog: true})
			if err != nil {
				return err
			}
			defer a.Close()

			seeded, err := a.Seed(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Catalog already has data, nothing to seed")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo menu loaded")
			return nil
		},
	}
}

func kitchenCommand() *cobra.Command {
	var queue string
	cmd := &cobra.Command{
		Use:   "kitchen",
		Short: "print a receipt for every new order relayed over RabbitMQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if cfg.RabbitMQURL == "" {
				return fmt.Errorf("RABBITMQ_URL must be set for the kitchen printer")
			}
			mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
			if err != nil {
				return err
			}
			defer mqClient.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return mqClient.ConsumeOrderEvents(ctx, queue, kitchenHandler(cmd.OutOrStdout()))
		},
	}
	cmd.Flags().StringVar(&queue, "queue", "pizzaria.kitchen", "queue bound to the order events")
	return cmd
}

// orderChange is an events.Change whose payload is an order.
type orderChange struct {
	Entity events.Entity `json:"entity"`
	Action events.Action `json:"action"`
	ID     string        `json:"id"`
	Data   *models.Order `json:"data"`
}

// kitchenHandler prints the full receipt of inserted orders and the short
// summary of status updates. Other deliveries are acknowledged and skipped.
func kitchenHandler(out io.Writer) func(amqp.Delivery) error {
	return func(msg amqp.Delivery) error {
		var change orderChange
		if err := json.Unmarshal(msg.Body, &change); err != nil {
			log.Printf("Dropping undecodable message %d: %v", msg.DeliveryTag, err)
			return nil
		}
		if change.Entity != events.EntityOrders || change.Data == nil {
			return nil
		}
		switch change.Action {
		case events.ActionInsert:
			_, err := fmt.Fprintln(out, receipt.Format(change.Data, nil))
			return err
		case events.ActionUpdate:
			_, err := fmt.Fprintf(out, "[%s] %s\n", change.Data.Status, receipt.Summary(change.Data))
			return err
		}
		return nil
	}
}
