package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"pitara/internal/cartsync"
)

var (
	apiURL     string
	currency   string
	redisAddr  string
	sessionKey string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:   "storefront",
		Short: "Command line cart for the Pitara storefront API",
		Long:  "storefront keeps a cart on the Pitara API, resuming the same cart between invocations via an id file in the user config directory.",
	}

	root.PersistentFlags().StringVar(&apiURL, "api", envOrDefault("PITARA_API_URL", "http://localhost:8080"), "Base URL of the Pitara API")
	root.PersistentFlags().StringVar(&currency, "currency", envOrDefault("PITARA_CURRENCY", "INR"), "Currency for newly created carts")
	root.PersistentFlags().StringVar(&redisAddr, "redis", os.Getenv("PITARA_REDIS_ADDR"), "Redis address for the cart id store (default: a file under the user config dir)")
	root.PersistentFlags().StringVar(&sessionKey, "session", envOrDefault("PITARA_SESSION", "default"), "Session key scoping the cart id when --redis is set")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log API traffic to stderr")

	root.AddCommand(showCmd(), addCmd(), updateCmd(), removeCmd(), clearCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newSyncer() (*cartsync.Syncer, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}

	ids, err := newIDStore()
	if err != nil {
		return nil, err
	}

	client := cartsync.NewClient(apiURL, cartsync.WithLogger(logger))
	return cartsync.NewSyncer(client, ids, currency, logger), nil
}

func newIDStore() (cartsync.IDStore, error) {
	if redisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
		return cartsync.NewRedisStore(rdb, sessionKey, 30*24*time.Hour), nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve config dir: %w", err)
	}
	return cartsync.NewFileStore(filepath.Join(dir, "pitara", "cart-id")), nil
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current cart",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSyncer()
			if err != nil {
				return err
			}
			if err := s.Initialize(cmd.Context()); err != nil {
				return err
			}
			printCart(s.Snapshot())
			return nil
		},
	}
}

func addCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <variant-id> [quantity]",
		Short: "Add a variant to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := 1
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("quantity %q: %w", args[1], err)
				}
				qty = n
			}
			s, err := newSyncer()
			if err != nil {
				return err
			}
			if err := s.AddItem(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			printCart(s.Snapshot())
			return nil
		},
	}
}

func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <line-id> <quantity>",
		Short: "Change a line's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("quantity %q: %w", args[1], err)
			}
			s, err := newSyncer()
			if err != nil {
				return err
			}
			if err := s.Initialize(cmd.Context()); err != nil {
				return err
			}
			if err := s.UpdateItem(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			printCart(s.Snapshot())
			return nil
		},
	}
}

func removeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a line from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSyncer()
			if err != nil {
				return err
			}
			if err := s.Initialize(cmd.Context()); err != nil {
				return err
			}
			if err := s.RemoveItem(cmd.Context(), args[0]); err != nil {
				return err
			}
			printCart(s.Snapshot())
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Abandon the cart and forget its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSyncer()
			if err != nil {
				return err
			}
			if err := s.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("Cart cleared.")
			return nil
		},
	}
}

func printCart(cart cartsync.Cart) {
	if len(cart.Lines) == 0 {
		fmt.Println("Cart is empty.")
		return
	}
	for _, l := range cart.Lines {
		fmt.Printf("%-38s %-28s x%-3d %s %s\n", l.ID, l.Title, l.Quantity, l.Cost.Amount, l.Cost.CurrencyCode)
	}
	fmt.Printf("Total: %s %s (%d items)\n", cart.Cost.TotalAmount.Amount, cart.Cost.TotalAmount.CurrencyCode, cart.TotalQuantity)
	if cart.CheckoutURL != "" {
		fmt.Println("Checkout:", cart.CheckoutURL)
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
