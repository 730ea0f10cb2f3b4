package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/client"
	"github.com/storefront/backend/internal/client/engine"
	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// tokenEnvVar holds the session bearer token for the remote cart channel.
// An empty or unset value keeps the session anonymous.
const tokenEnvVar = "STOREFRONT_SESSION_TOKEN"

func main() {
	var logLevel string
	flag.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{
		Level:  logLevel,
		Format: "console",
		Output: "stderr",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	token := os.Getenv(tokenEnvVar)
	e, err := engine.New(cfg.Cart, func() string { return token }, log)
	if err != nil {
		log.Fatal("Failed to assemble cart engine", zap.Error(err))
	}
	defer func() {
		// Waits for in-flight remote pushes before the process exits.
		_ = e.Close()
	}()

	ctx := context.Background()
	e.Reconciler.SetAuthenticated(ctx, token != "")

	switch command {
	case "show":
		printCart(e.Store)

	case "add":
		if len(args) < 4 {
			log.Fatal("Usage: storefront add <item-id> <name> <unit-price>")
		}
		price, err := decimal.NewFromString(args[3])
		if err != nil {
			log.Fatal("Invalid unit price", zap.String("value", args[3]))
		}
		e.Store.AddItem(cart.ProductSnapshot{
			ItemID:    args[1],
			Name:      args[2],
			UnitPrice: price,
		})
		printCart(e.Store)

	case "update":
		if len(args) < 3 {
			log.Fatal("Usage: storefront update <item-id> <quantity>")
		}
		quantity, err := strconv.Atoi(args[2])
		if err != nil {
			log.Fatal("Invalid quantity", zap.String("value", args[2]))
		}
		e.Store.UpdateQuantity(args[1], quantity)
		printCart(e.Store)

	case "remove":
		if len(args) < 2 {
			log.Fatal("Usage: storefront remove <item-id>")
		}
		e.Store.RemoveItem(args[1])
		printCart(e.Store)

	case "clear":
		e.Store.Clear(client.ClearOptions{SyncRemote: token != ""})
		printCart(e.Store)

	case "logout":
		e.Reconciler.SetAuthenticated(ctx, false)
		printCart(e.Store)

	default:
		printUsage()
		os.Exit(1)
	}
}

func printCart(store *client.Store) {
	items := store.Items()
	if len(items) == 0 {
		fmt.Println("Cart is empty")
		return
	}
	for _, item := range items {
		line := item.Amount()
		fmt.Printf("%-20s %-24s x%-4d %s\n", item.ItemID, item.Name, item.Quantity, line.String())
	}
	s := store.Summary()
	fmt.Printf("\n%d line(s)\n", s.ItemCount)
	fmt.Printf("Subtotal: %s\n", s.Subtotal.String())
	fmt.Printf("Tax:      %s\n", s.Tax.String())
	fmt.Printf("Total:    %s\n", s.Total.String())
}

func printUsage() {
	fmt.Println(`Usage: storefront [flags] <command>

Commands:
  show                           Print the cart lines and totals
  add <item-id> <name> <price>   Add one unit of a product
  update <item-id> <quantity>    Set a line's quantity (floors at 1)
  remove <item-id>               Remove a line
  clear                          Empty the cart
  logout                         Drop the session and clear the local cart

Flags:
  -log-level  Log level (default: warn)

The session token is read from ` + tokenEnvVar + `; when set, mutations are
pushed to the account cart in the background.`)
}
