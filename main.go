package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"vidTube/auth"
	"vidTube/crud"
	"vidTube/domain"
	"vidTube/http"
	"vidTube/logger"
	"vidTube/storage"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	resetBool := flag.Bool("reset", false, "Drop and recreate all tables before starting. Refused in production.")
	flag.Parse()

	// Load configuration from a .config.json file and the environment, on top of the default dev setup.
	// In production the .config.json file is required and the app will panic if no file is found.
	config, err := LoadConfig(*productionBool)
	must(err)

	// Set up the logger.
	must(logger.Init(config.IsProd()))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	must(Open(db, config.IsProd()))
	defer Close(db)
	if *resetBool && !config.IsProd() {
		logger.Warn("resetting database")
		must(DestructiveReset(db))
	} else {
		must(AutoMigrate(db))
	}

	// Set up the asset storage.
	assets, assetsDir, err := newAssetStore(ctx, config.Storage)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(),
		crud.WithVideo(assets),
		crud.WithComment(),
		crud.WithTweet(),
		crud.WithLike(),
		crud.WithSubscription(),
		crud.WithPlaylist(),
	)
	must(err)

	// Set up a webserver.
	verifier := auth.NewVerifier(config.Auth.Secret, config.Auth.Issuer)
	server := http.NewServer(services, verifier, assetsDir)

	// Serve the app.
	if err := server.Run(ctx, config.Port); err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}

// newAssetStore returns the configured asset storage. For local storage it
// also returns the directory that has to be served.
func newAssetStore(ctx context.Context, cfg StorageConfig) (domain.AssetStore, string, error) {
	if cfg.Driver == "minio" {
		store, err := storage.NewMinioStore(ctx, cfg.Minio)
		if err != nil {
			return nil, "", err
		}
		logger.Info("storing assets in object storage", zap.String("bucket", cfg.Minio.Bucket))
		return store, "", nil
	}
	if err := os.MkdirAll(cfg.Local.Dir, 0o755); err != nil {
		return nil, "", err
	}
	store := storage.NewLocalStore(cfg.Local.Dir, cfg.Local.BaseURL)
	logger.Info("storing assets on disk", zap.String("dir", store.Root()))
	return store, store.Root(), nil
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
