// Command cart-inspect is a maintenance tool for the persisted cart
// snapshot: dump its contents, verify every line against the catalog, or
// wipe the slot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"

	"github.com/go-faster/errors"
	"golang.org/x/sync/errgroup"

	"github.com/bondx/storefront/internal/api"
	"github.com/bondx/storefront/internal/domain/cart"
	"github.com/bondx/storefront/internal/domain/product"
	"github.com/bondx/storefront/internal/storage/cartfile"
	"github.com/bondx/storefront/pkg/money"
)

const verifyConcurrency = 4

func main() {
	var (
		cartPath string
		apiURL   string
		apiKey   string
		dump     bool
		verify   bool
		reset    bool
	)

	flag.StringVar(&cartPath, "cart-path", "", "cart snapshot file (or BONDX_CART_PATH env)")
	flag.StringVar(&apiURL, "api-url", "http://localhost:5000", "storefront backend base URL")
	flag.StringVar(&apiKey, "api-key", "", "optional API key (or BONDX_API_KEY env)")
	flag.BoolVar(&dump, "dump", false, "print the snapshot contents")
	flag.BoolVar(&verify, "verify", false, "check every line against the catalog")
	flag.BoolVar(&reset, "reset", false, "wipe the snapshot slot")
	flag.Parse()

	if cartPath == "" {
		cartPath = os.Getenv("BONDX_CART_PATH")
	}
	if cartPath == "" {
		slog.Error("cart path is required: set --cart-path or BONDX_CART_PATH")
		os.Exit(1)
	}
	if apiKey == "" {
		apiKey = os.Getenv("BONDX_API_KEY")
	}
	if !dump && !verify && !reset {
		slog.Error("nothing to do: pass --dump, --verify, or --reset")
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := run(ctx, cartPath, apiURL, apiKey, dump, verify, reset); err != nil {
		slog.Error("cart-inspect failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cartPath, apiURL, apiKey string, dump, verify, reset bool) error {
	storage := cartfile.New(cartPath)

	if reset {
		if err := storage.Reset(); err != nil {
			return err
		}
		slog.Info("snapshot slot wiped", slog.String("path", cartPath))
		return nil
	}

	state, found, err := storage.Load()
	if err != nil {
		return errors.Wrap(err, "load snapshot")
	}
	if !found {
		slog.Info("no snapshot written yet", slog.String("path", cartPath))
		return nil
	}

	if dump {
		printState(state)
	}
	if verify {
		return verifyLines(ctx, state, apiURL, apiKey)
	}
	return nil
}

func printState(state cart.State) {
	fmt.Printf("drawer open: %v, lines: %d\n", state.IsOpen, len(state.Lines))
	var total int64
	for _, line := range state.Lines {
		fmt.Printf("%4d  %-30s x%-3d %10s\n",
			line.Product.ID, line.Product.Name, line.Quantity, money.Format(line.Subtotal()))
		total += line.Subtotal()
	}
	fmt.Printf("total: %s\n", money.Format(total))
}

// verifyLines checks that every persisted line still resolves in the catalog.
// Lookups run concurrently; stale lines are reported, not repaired.
func verifyLines(ctx context.Context, state cart.State, apiURL, apiKey string) error {
	client, err := api.NewClient(api.ClientConfig{BaseURL: apiURL, APIKey: apiKey}, http.DefaultClient)
	if err != nil {
		return errors.Wrap(err, "create backend client")
	}

	var stale atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyConcurrency)

	for _, line := range state.Lines {
		line := line
		g.Go(func() error {
			_, err := client.GetByID(ctx, line.Product.ID)
			if errors.Is(err, product.ErrNotFound) {
				slog.Warn("stale cart line: product no longer in catalog",
					slog.Int64("product_id", line.Product.ID),
					slog.String("name", line.Product.Name),
				)
				stale.Add(1)
				return nil
			}
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, "verify lines")
	}

	slog.Info("verify complete",
		slog.Int("lines", len(state.Lines)),
		slog.Int64("stale", stale.Load()),
	)
	return nil
}
