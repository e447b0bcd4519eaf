package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"yashubustudio/sentiment/internal/server"
)

func serveCmd() *cli.Command {
	var (
		addr     string
		maxBatch int
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the classification REST API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (default from config)",
				Destination: &addr,
			},
			&cli.IntFlag{
				Name:        "max-batch",
				Usage:       "maximum texts per request (default from config)",
				Destination: &maxBatch,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			c, err := openClassifier(cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			if cmd.IsSet("addr") {
				cfg.Server.Addr = addr
			}
			if cmd.IsSet("max-batch") {
				cfg.Server.MaxBatch = maxBatch
			}
			readTimeout := time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second

			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.New(c, cfg.Server.MaxBatch).Register(e)

			logger := log.New(os.Stderr, "", log.LstdFlags)
			logger.Printf("Listening on %s", cfg.Server.Addr)
			sc := echo.StartConfig{
				Address: cfg.Server.Addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
