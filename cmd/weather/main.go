package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"weather-lookup/internal/cli"
	"weather-lookup/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	app := cli.App{
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		EnvFile: config.DefaultEnvFile,
	}
	code := app.Run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
