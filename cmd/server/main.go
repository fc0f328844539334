package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/postapp/internal/buildinfo"
	"github.com/dmitrijs2005/postapp/internal/flagx"
	"github.com/dmitrijs2005/postapp/internal/logging"
	"github.com/dmitrijs2005/postapp/internal/server"
	"github.com/dmitrijs2005/postapp/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if flagx.IsHelp(err) {
		os.Exit(0)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := logging.New(os.Stdout, logging.FormatJSON, cfg.Debug)

	if err := run(context.Background(), cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}

}

// run builds the app and serves until it stops. Wiring errors are returned.
func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	app.Run(ctx)
	return nil
}
