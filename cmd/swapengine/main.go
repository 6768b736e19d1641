// Package main is the entry point for the cross-chain swap engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	catalogapp "github.com/Travisswop/swap-engine/business/catalog/app"
	cataloglifi "github.com/Travisswop/swap-engine/business/catalog/infra/lifi"
	pricefeedapp "github.com/Travisswop/swap-engine/business/pricefeed/app"
	"github.com/Travisswop/swap-engine/business/pricefeed/infra/binance"
	quoteapp "github.com/Travisswop/swap-engine/business/quote/app"
	quotedomain "github.com/Travisswop/swap-engine/business/quote/domain"
	quotelifi "github.com/Travisswop/swap-engine/business/quote/infra/lifi"
	swapapp "github.com/Travisswop/swap-engine/business/swap/app"
	swapdomain "github.com/Travisswop/swap-engine/business/swap/domain"
	walletapp "github.com/Travisswop/swap-engine/business/wallet/app"
	walletdomain "github.com/Travisswop/swap-engine/business/wallet/domain"
	"github.com/Travisswop/swap-engine/business/wallet/infra/evm"
	"github.com/Travisswop/swap-engine/internal/apm"
	"github.com/Travisswop/swap-engine/internal/asset"
	"github.com/Travisswop/swap-engine/internal/config"
	"github.com/Travisswop/swap-engine/internal/health"
	"github.com/Travisswop/swap-engine/internal/httpclient"
	"github.com/Travisswop/swap-engine/internal/logger"
	"github.com/Travisswop/swap-engine/internal/metrics"
	"github.com/Travisswop/swap-engine/internal/ratelimit"
	"github.com/Travisswop/swap-engine/internal/wsconn"
	"github.com/Travisswop/swap-engine/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// quoteFlags drive the one-shot CLI quote mode.
type quoteFlags struct {
	fromChain string
	toChain   string
	fromToken string
	toToken   string
	amount    string
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")

	var qf quoteFlags
	flag.StringVar(&qf.fromChain, "from-chain", "", "One-shot quote: source chain name")
	flag.StringVar(&qf.toChain, "to-chain", "", "One-shot quote: destination chain name")
	flag.StringVar(&qf.fromToken, "from-token", "", "One-shot quote: source token address")
	flag.StringVar(&qf.toToken, "to-token", "", "One-shot quote: destination token address")
	flag.StringVar(&qf.amount, "amount", "", "One-shot quote: amount in base units")
	flag.Parse()

	if *showVersion {
		fmt.Printf("swap-engine %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default; CLI is for debugging and scripted quotes.
	tuiMode := !*cliMode && qf.amount == ""

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode, qf); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool, qf quoteFlags) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	level := logger.ParseLevel(cfg.App.LogLevel)
	var log *logger.Logger
	if tuiMode {
		// The TUI owns the terminal; logs would corrupt it.
		log = logger.New(io.Discard, level, cfg.App.Name)
	} else {
		log = logger.NewConsole(os.Stderr, level, cfg.App.Name)
		log.Info(ctx, "starting swap engine",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.New(apm.OTLPProvider, log)

		mp, err := metrics.New(metrics.Config{
			ServiceName:  cfg.Telemetry.ServiceName,
			Prometheus:   true,
			OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
			OTLPInsecure: true,
		})
		if err != nil {
			log.Warn(ctx, "failed to initialize metrics", "error", err)
		} else {
			defer mp.Shutdown(context.Background())
		}

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go func() {
			if err := metrics.ServePrometheus(port); err != nil {
				log.Warn(ctx, "prometheus server stopped", "error", err)
			}
		}()
		log.Info(ctx, "telemetry initialized", "prometheus_port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(8081, version, log)
	healthServer.Register("aggregator", health.HTTPCheck(
		&http.Client{Timeout: 5 * time.Second}, cfg.Aggregator.BaseURL+"/v1/chains"))
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	}
	defer healthServer.Stop(context.Background())

	// Aggregator API clients. The quote and catalog endpoints get
	// separate rate budgets.
	headers := map[string]string{}
	if cfg.Aggregator.APIKey != "" {
		headers["x-lifi-api-key"] = cfg.Aggregator.APIKey
	}
	quoteHTTP, err := httpclient.New(httpclient.Options{
		ProviderName:   "lifi-quote",
		BaseURL:        cfg.Aggregator.BaseURL,
		RequestTimeout: cfg.Aggregator.RequestTimeout,
		Headers:        headers,
	})
	if err != nil {
		return fmt.Errorf("failed to create quote http client: %w", err)
	}
	catalogHTTP, err := httpclient.New(httpclient.Options{
		ProviderName:   "lifi-catalog",
		BaseURL:        cfg.Catalog.BaseURL,
		RequestTimeout: cfg.Catalog.RequestTimeout,
		Headers:        headers,
	})
	if err != nil {
		return fmt.Errorf("failed to create catalog http client: %w", err)
	}

	quoteClient := quotelifi.NewClient(quoteHTTP,
		ratelimit.New(cfg.Aggregator.RequestsPerMinute), log)
	quotes := quoteapp.NewService(quoteClient, cfg.Engine.QuoteTimeout, log)

	catalogClient := cataloglifi.NewClient(catalogHTTP,
		ratelimit.New(cfg.Catalog.RequestsPerMinute), log)
	catalog := catalogapp.NewService(catalogClient, cfg.Catalog.MaxResults, log)

	resolver := walletapp.NewResolver(walletdomain.AddressSet{
		EVM:    cfg.Wallet.EVMAddress,
		Solana: cfg.Wallet.SolanaAddress,
	})

	var submitter walletapp.Submitter
	if cfg.Wallet.EVMPrivateKey != "" {
		sub, err := evm.NewSubmitter(cfg.Wallet.RPCURLs, cfg.Wallet.EVMPrivateKey, log)
		if err != nil {
			return fmt.Errorf("failed to create submitter: %w", err)
		}
		defer sub.Close()
		submitter = sub
	}

	var prices swapapp.PriceSource
	var feed *pricefeedapp.Service
	if cfg.PriceFeed.Enabled {
		wscfg := wsconn.DefaultConfig(cfg.PriceFeed.WebSocketURL, "binance")
		if cfg.PriceFeed.InitialBackoff > 0 {
			wscfg.InitialBackoff = cfg.PriceFeed.InitialBackoff
		}
		if cfg.PriceFeed.MaxBackoff > 0 {
			wscfg.MaxBackoff = cfg.PriceFeed.MaxBackoff
		}
		stream, err := binance.NewClient(wscfg, log)
		if err != nil {
			log.Warn(ctx, "failed to create price stream, using catalog prices", "error", err)
		} else {
			feed = pricefeedapp.NewService(stream, cfg.PriceFeed.StaleTimeout, log)
			if err := feed.Start(ctx); err != nil {
				log.Warn(ctx, "price stream unavailable, using catalog prices", "error", err)
			} else {
				if err := feed.Watch(ctx, "ETHUSDT", "SOLUSDT", "BNBUSDT", "MATICUSDT"); err != nil {
					log.Warn(ctx, "price subscription failed", "error", err)
				}
				prices = feed
			}
			defer stream.Close()
		}
	}

	session := swapapp.NewSession(quotes, catalog, resolver, submitter, prices,
		swapapp.Config{
			Debounce: cfg.Engine.DebounceInterval,
			Slippage: cfg.Aggregator.Slippage,
		}, log)
	defer session.Close()

	if qf.amount != "" {
		return runQuote(ctx, quotes, resolver, qf, log)
	}
	if tuiMode {
		return runTUI(ctx, session, feed, prices != nil)
	}
	return runCLI(ctx, log)
}

// runQuote fetches routes once and prints them. Used for scripting and
// smoke-testing the aggregator connection.
func runQuote(ctx context.Context, quotes *quoteapp.Service, resolver *walletapp.Resolver, qf quoteFlags, log *logger.Logger) error {
	fromChain, err := asset.ChainID(qf.fromChain)
	if err != nil {
		return err
	}
	toChain, err := asset.ChainID(qf.toChain)
	if err != nil {
		return err
	}
	fromFamily, err := asset.ChainFamily(qf.fromChain)
	if err != nil {
		return err
	}
	toFamily, err := asset.ChainFamily(qf.toChain)
	if err != nil {
		return err
	}

	addresses := resolver.Addresses()
	req := quotedomain.Request{
		FromChain:   fromChain,
		ToChain:     toChain,
		FromToken:   qf.fromToken,
		ToToken:     qf.toToken,
		FromAmount:  qf.amount,
		FromAddress: addresses.For(fromFamily),
		ToAddress:   addresses.For(toFamily),
	}

	routes, err := quotes.FetchRoutes(ctx, req)
	if err != nil {
		return err
	}
	for i, route := range routes {
		fmt.Printf("%d. %s: %s -> %s (gas $%s, ~%ds)\n",
			i+1, route.Tool, route.FromAmount, route.ToAmount,
			route.GasCostUSD, route.ExecutionDuration)
	}
	log.Info(ctx, "quote complete", "routes", len(routes))
	return nil
}

// runCLI keeps the process alive for the health and metrics endpoints.
func runCLI(ctx context.Context, log *logger.Logger) error {
	log.Info(ctx, "running headless; use the TUI for interactive swaps")
	<-ctx.Done()
	log.Info(context.Background(), "shutting down")
	return nil
}

func runTUI(ctx context.Context, session *swapapp.Session, feed *pricefeedapp.Service, streaming bool) error {
	session.OnChange(func(snap swapdomain.SwapIntent) {
		ui.Send(ui.IntentMsg{Intent: snap})
	})

	// Forward live ticker prices to the status bar.
	if feed != nil && streaming {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					for _, symbol := range []string{"ETHUSDT", "SOLUSDT"} {
						if price, ok := feed.Price(symbol); ok {
							ui.Send(ui.PriceMsg{Symbol: symbol, Price: price.StringFixed(2)})
						}
					}
				}
			}
		}()
	}

	if err := ui.Run(session); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
