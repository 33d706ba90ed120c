package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/blogkeeper/internal/app"
	"github.com/dmitrijs2005/blogkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/blogkeeper/internal/cli"
	"github.com/dmitrijs2005/blogkeeper/internal/config"
)

func main() {

	interactive := cli.Interactive()
	if interactive {
		buildinfo.PrintBuildData(os.Stdout)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := app.SignalContext(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	a.Cleanup(ctx)

	shell, err := cli.NewApp(a.Blog, a.Store, os.Stdout, cli.Options{
		MinReadingTime: cfg.MinReadingTime,
		Logger:         a.Logger,
		Cache:          a.Cache,
		Styled:         interactive,
	})
	if err != nil {
		log.Fatalf("%v", err)
	}

	shell.Run(ctx, os.Stdin)
}
