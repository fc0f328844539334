package main

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/dmitrijs2005/postapp/internal/buildinfo"
	"github.com/dmitrijs2005/postapp/internal/client/cli"
	"github.com/dmitrijs2005/postapp/internal/client/config"
	"github.com/dmitrijs2005/postapp/internal/flagx"
	"github.com/dmitrijs2005/postapp/internal/logging"
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

	var w io.Writer = io.Discard
	if cfg.Debug {
		w = os.Stderr
	}
	logger := logging.New(w, logging.FormatText, cfg.Debug)

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)

}
