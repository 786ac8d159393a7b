package app

import (
	"context"
	"net/http"
	"os"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/bondx/storefront/internal/api"
	"github.com/bondx/storefront/internal/domain/cart"
	"github.com/bondx/storefront/internal/domain/checkout"
	"github.com/bondx/storefront/internal/shell"
	"github.com/bondx/storefront/internal/storage/cartfile"
	"github.com/bondx/storefront/pkg/httpclient"
)

// Run creates all dependencies and starts the interactive storefront session.
// It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Metrics, cfg *Config) error {
	lg.Info("Starting storefront",
		zap.String("api", cfg.APIBaseURL),
		zap.String("cart_path", cfg.CartPath),
	)

	// Durable cart slot + store hydration. A corrupt snapshot degrades to an
	// empty cart inside Open.
	storage := cartfile.New(cfg.CartPath)
	cartStore := cart.Open(storage, lg.Named("cart"))

	// Backend client: instrumented transport, request IDs, request logging.
	transport := httpclient.Wrap(
		otelhttp.NewTransport(http.DefaultTransport,
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
		httpclient.RequestID(),
		httpclient.LogRequests(),
	)
	client, err := api.NewClient(
		api.ClientConfig{BaseURL: cfg.APIBaseURL, APIKey: cfg.APIKey},
		&http.Client{Transport: transport, Timeout: cfg.RequestTimeout},
	)
	if err != nil {
		return errors.Wrap(err, "create backend client")
	}

	orchestrator := checkout.New(cartStore, client, lg.Named("checkout"))

	sh := shell.New(client, cartStore, orchestrator, os.Stdin, os.Stdout, lg.Named("shell"))
	return sh.Run(zctx.Base(ctx, lg))
}
