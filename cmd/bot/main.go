package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/neshkola/leadbot/core/bootstrap"
	"github.com/neshkola/leadbot/core/cmd"
	coreconfig "github.com/neshkola/leadbot/core/config"
	coretelegram "github.com/neshkola/leadbot/core/telegram"
	"github.com/neshkola/leadbot/internal/bot"
	"github.com/neshkola/leadbot/internal/dialog"
	"github.com/neshkola/leadbot/internal/lead"
	"github.com/neshkola/leadbot/internal/storage/postgres"
	"github.com/neshkola/leadbot/internal/storage/sheets"
)

func main() {
	_ = godotenv.Load()

	err := cmd.Run(cmd.Options{
		DefaultConfigPath: "config.yaml",
		Bootstrap:         buildApp,
	})
	if err != nil {
		log.Fatal(err)
	}
}

func buildApp(cfg *coreconfig.Config) (coretelegram.RunOptions, error) {
	res, err := bootstrap.Run(bootstrap.Options{Config: cfg})
	if err != nil {
		return coretelegram.RunOptions{}, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	sheetsClient, err := sheets.New(ctx, sheets.Config{
		CredentialsFile: cfg.Sheets.CredentialsFile,
		Spreadsheet:     cfg.Sheets.Spreadsheet,
		Worksheet:       cfg.Sheets.Worksheet,
	})
	if err != nil {
		if res.DB != nil {
			_ = res.DB.Close()
		}
		return coretelegram.RunOptions{}, err
	}

	sinks := []lead.Sink{sheetsClient}
	if res.DB != nil {
		sinks = append(sinks, postgres.NewLeadRepo(res.DB))
	}

	store := dialog.NewStore(idleTTL(cfg.Dialog))
	flow := dialog.NewFlow(store, lead.NewService(sinks...))
	app := bot.New(flow)

	return coretelegram.RunOptions{
		Config:      cfg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      app.Routes(),
		OnStop: func(ctx context.Context, rt coretelegram.Runtime) error {
			store.Close()
			if res.DB != nil {
				return res.DB.Close()
			}
			return nil
		},
	}, nil
}

func idleTTL(cfg coreconfig.DialogConfig) time.Duration {
	if cfg.IdleTTLMinutes < 0 {
		return -1
	}
	return time.Duration(cfg.IdleTTLMinutes) * time.Minute
}
