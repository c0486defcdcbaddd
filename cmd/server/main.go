package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"wordmeter/internal"

	"github.com/gofiber/fiber/v3"
)

func main() {
	deployment := flag.String("deployment", "", "deployment profile (dev|test|prod)")
	portFlag := flag.String("port", "", "port to listen on")
	envRoot := flag.String("env-root", "", "directory containing environment files")
	appVersion := flag.String("app-version", "", "application version override")

	flag.Parse()

	deploy := strings.TrimSpace(*deployment)
	if deploy == "" {
		args := flag.Args()
		if len(args) == 0 {
			fmt.Println("Usage: server --deployment <type> --port <port> [--env-root <dir>] [--app-version <version>]")
			os.Exit(1)
		}
		deploy = strings.TrimSpace(args[0])
	}

	port := strings.TrimSpace(*portFlag)
	if port == "" {
		log.Fatal("port is required")
	}

	srv, err := internal.SetupApp(deploy, *envRoot, *appVersion)
	if err != nil {
		log.Fatalf("failed to start: %v", err)
	}

	srv.Log.Info().Str("version", srv.Config.Version).Str("port", port).Msg("starting wordmeter")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.App.ShutdownWithContext(shutdownCtx); err != nil {
			srv.Log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := srv.App.Listen(fmt.Sprintf(":%s", port), fiber.ListenConfig{
		EnablePrefork: srv.Config.Prefork,
	}); err != nil {
		srv.Log.Fatal().Err(err).Str("port", port).Msg("error listening")
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Close(closeCtx); err != nil {
		srv.Log.Error().Err(err).Msg("failed to close stores")
	}
}
