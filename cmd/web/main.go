package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/postapp/internal/buildinfo"
	"github.com/dmitrijs2005/postapp/internal/flagx"
	"github.com/dmitrijs2005/postapp/internal/logging"
	"github.com/dmitrijs2005/postapp/internal/web"
	"github.com/dmitrijs2005/postapp/internal/web/config"
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

	logger := logging.New(os.Stdout, logging.FormatJSON, cfg.Debug)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv, err := web.NewServer(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}

}
