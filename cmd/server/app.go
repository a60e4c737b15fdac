package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/unifiedui/docchat-service/internal/api/handlers"
	"github.com/unifiedui/docchat-service/internal/api/middleware"
	"github.com/unifiedui/docchat-service/internal/api/routes"
	"github.com/unifiedui/docchat-service/internal/config"
	coreanalytics "github.com/unifiedui/docchat-service/internal/core/analytics"
	"github.com/unifiedui/docchat-service/internal/core/cache"
	"github.com/unifiedui/docchat-service/internal/core/convert"
	"github.com/unifiedui/docchat-service/internal/core/docdb"
	"github.com/unifiedui/docchat-service/internal/core/tokens"
	"github.com/unifiedui/docchat-service/internal/core/vault"
	"github.com/unifiedui/docchat-service/internal/infrastructure/analytics"
	rediscache "github.com/unifiedui/docchat-service/internal/infrastructure/cache/redis"
	"github.com/unifiedui/docchat-service/internal/infrastructure/convert/cached"
	"github.com/unifiedui/docchat-service/internal/infrastructure/convert/docling"
	"github.com/unifiedui/docchat-service/internal/infrastructure/convert/html"
	"github.com/unifiedui/docchat-service/internal/infrastructure/docdb/mongodb"
	dotenvvault "github.com/unifiedui/docchat-service/internal/infrastructure/vault/dotenv"
	"github.com/unifiedui/docchat-service/internal/services/ingest"
	"github.com/unifiedui/docchat-service/internal/services/llm"
	"github.com/unifiedui/docchat-service/internal/services/session"
	"github.com/unifiedui/docchat-service/internal/services/streamer"
)

// app holds the wired router and the clients that must be closed on shutdown.
type app struct {
	router  *gin.Engine
	closers []func()
}

// Close releases clients in reverse creation order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// newApp builds every client and service from cfg and returns the router.
// On error the clients created so far are closed.
func newApp(ctx context.Context, cfg *config.Config) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	vaultClient, err := createVaultClient(cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = vaultClient.Close() })

	// Optional cache client, used by the converter cache and the redis analytics sink
	cacheClient, err := createCacheClient(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache client: %w", err)
	}
	if cacheClient != nil {
		a.closers = append(a.closers, func() { _ = cacheClient.Close() })
	}

	// Optional document database, used by the docdb analytics sink
	docDBClient, err := createDocDBClient(ctx, cfg.DocDB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document db client: %w", err)
	}
	if docDBClient != nil {
		a.closers = append(a.closers, func() { _ = docDBClient.Close(context.Background()) })
	}

	converter, err := createConverter(cfg.Converter, cacheClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize converter: %w", err)
	}

	sink, err := createSink(cfg.Analytics, cacheClient, docDBClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize analytics sink: %w", err)
	}

	llmClient, err := createLLMClient(ctx, cfg.LLM, vaultClient)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize llm client: %w", err)
	}
	a.closers = append(a.closers, func() { _ = llmClient.Close() })

	if err := os.MkdirAll(cfg.Uploads.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", cfg.Uploads.Dir, err)
	}

	counter := tokens.NewCounter(&tokens.Config{Encoding: cfg.Tokens.Encoding})

	orchestrator, err := createOrchestrator(cfg, converter, counter, llmClient, sink)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orchestrator: %w", err)
	}

	a.router = setupRouter(cfg, cacheClient, docDBClient, orchestrator)
	return a, nil
}

// createVaultClient creates a vault client based on the configuration.
func createVaultClient(cfg config.VaultConfig) (vault.Client, error) {
	switch vault.Type(cfg.Type) {
	case vault.TypeDotEnv, "":
		return dotenvvault.NewClient()
	default:
		return nil, errors.New("unsupported vault type: " + cfg.Type)
	}
}

// createCacheClient creates a cache client based on the configuration.
// It returns nil when caching is disabled.
func createCacheClient(cfg config.CacheConfig) (cache.Client, error) {
	switch cache.Type(cfg.Type) {
	case cache.TypeRedis:
		client, err := rediscache.NewClient(rediscache.Config{
			Host:       cfg.Host,
			Port:       cfg.Port,
			Password:   cfg.Password,
			DB:         cfg.DB,
			DefaultTTL: cfg.TTL,
		})
		if err != nil {
			return nil, err
		}
		return client, nil
	case cache.TypeNone, "":
		return nil, nil
	default:
		return nil, errors.New("unsupported cache type: " + cfg.Type)
	}
}

// createDocDBClient creates a document database client based on the
// configuration. It returns nil when the document database is disabled.
func createDocDBClient(ctx context.Context, cfg config.DocDBConfig) (docdb.Client, error) {
	switch docdb.Type(cfg.Type) {
	case docdb.TypeMongoDB, docdb.TypeCosmosDB:
		// CosmosDB uses MongoDB protocol, so we can use the same client
		client, err := mongodb.NewClient(ctx, &mongodb.ClientConfig{
			URI:          cfg.URI,
			DatabaseName: cfg.Database,
		})
		if err != nil {
			return nil, err
		}
		if err := client.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to ensure indexes")
		}
		return client, nil
	case docdb.TypeNone, "":
		return nil, nil
	default:
		return nil, errors.New("unsupported docdb type: " + cfg.Type)
	}
}

// createConverter builds the document converter. HTML is always
// converted locally; the configured backend handles everything else.
// Results are cached by content hash when a cache client exists.
func createConverter(cfg config.ConverterConfig, cacheClient cache.Client) (convert.Converter, error) {
	var fallback convert.Converter

	switch convert.Type(cfg.Type) {
	case convert.TypeDocling:
		client, err := docling.NewClient(&docling.ClientConfig{
			BaseURL: cfg.DoclingURL,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, err
		}
		fallback = client
	case convert.TypeHTML:
	default:
		return nil, errors.New("unsupported converter type: " + cfg.Type)
	}

	var converter convert.Converter = convert.NewDispatch(fallback).Register(html.NewConverter(), html.Extensions...)

	if cfg.CacheEnabled && cacheClient != nil {
		cachedConverter, err := cached.NewConverter(&cached.Config{
			Inner: converter,
			Cache: cacheClient.GetCache(),
			TTL:   cfg.CacheTTL,
		})
		if err != nil {
			return nil, err
		}
		return cachedConverter, nil
	}
	return converter, nil
}

// createSink builds the configured analytics sinks.
func createSink(cfg config.AnalyticsConfig, cacheClient cache.Client, docDBClient docdb.Client) (coreanalytics.Sink, error) {
	factoryCfg := &analytics.FactoryConfig{
		Types:  cfg.Sinks,
		Stream: cfg.Stream,
	}
	if cacheClient != nil {
		factoryCfg.Appender = cacheClient
	}
	if docDBClient != nil {
		factoryCfg.Events = docDBClient.Analytics()
	}
	return analytics.NewSink(factoryCfg)
}

// createLLMClient resolves the API key through the vault and builds the
// model backend client. A missing key is logged and requests go out
// without one, which local backends accept.
func createLLMClient(ctx context.Context, cfg config.LLMConfig, vaultClient vault.Client) (llm.Client, error) {
	apiKey, err := llm.ResolveAPIKey(ctx, vaultClient, cfg.APIKeyRef)
	if err != nil {
		log.Warn().Err(err).Str("ref", cfg.APIKeyRef).Msg("model backend API key not found, sending requests without one")
	}

	return llm.NewClient(&llm.Config{
		Type:    llm.Type(cfg.Type),
		BaseURL: cfg.BaseURL,
		APIKey:  apiKey,
		Timeout: cfg.Timeout,
	})
}

// createOrchestrator wires the ingestor and streamer into a session orchestrator.
func createOrchestrator(cfg *config.Config, converter convert.Converter, counter tokens.Counter, client llm.Client, sink coreanalytics.Sink) (*session.Orchestrator, error) {
	ingestor, err := ingest.NewIngestor(&ingest.Config{
		SandboxDir: cfg.Uploads.Dir,
		Whitelist:  cfg.Chat.FileFormatWhitelist,
		Converter:  converter,
		Counter:    counter,
	})
	if err != nil {
		return nil, err
	}

	s, err := streamer.NewStreamer(&streamer.Config{Client: client})
	if err != nil {
		return nil, err
	}

	return session.NewOrchestrator(&session.Config{
		Catalog:  cfg.Chat.Catalog(),
		Texts:    cfg.Chat.Chat,
		Ingestor: ingestor,
		Streamer: s,
		Counter:  counter,
		Sink:     sink,
	})
}

// setupRouter creates and configures the Gin router.
func setupRouter(cfg *config.Config, cacheClient cache.Client, docDBClient docdb.Client, orchestrator *session.Orchestrator) *gin.Engine {
	router := gin.New()

	// Create middleware
	loggingMw := middleware.NewLoggingMiddleware(nil, routes.LivePath, routes.ReadyPath)
	errorMw := middleware.NewErrorMiddleware()
	corsCfg := middleware.NewCORSConfig(cfg.CORS.AllowOrigins)

	// Create handlers
	routesCfg := &routes.Config{
		HealthHandler:  handlers.NewHealthHandler(cacheClient, docDBClient),
		ModelsHandler:  handlers.NewModelsHandler(cfg.Chat.Catalog()),
		UploadsHandler: handlers.NewUploadsHandler(cfg.Uploads.Dir, cfg.Uploads.MaxBytes),
		ChatHandler: handlers.NewChatHandler(orchestrator, session.NewRegistry(), &handlers.ChatHandlerConfig{
			UploadDir:     cfg.Uploads.Dir,
			AllowOrigins:  cfg.CORS.AllowOrigins,
			MaxFrameBytes: cfg.Server.MaxFrameBytes,
		}),
	}

	routes.SetupWithMiddleware(router, routesCfg, loggingMw, errorMw, corsCfg)

	return router
}
