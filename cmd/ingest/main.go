package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/longboxlabs/longbox/pkg/config"
	"github.com/longboxlabs/longbox/pkg/database"
	"github.com/longboxlabs/longbox/pkg/ingest"
	"github.com/longboxlabs/longbox/pkg/migrations"
	"github.com/robinjoseph08/golib/logger"
	"github.com/urfave/cli/v2"
)

func main() {
	log := logger.New()

	app := &cli.App{
		Name:        "ingest",
		Usage:       "run one ingestion pass over the data directory",
		Description: "Scans the configured data directory and registers every comic archive found.",
		Action: func(c *cli.Context) error {
			cfg, err := config.New()
			if err != nil {
				return err
			}

			db, err := database.New(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if _, err := migrations.BringUpToDate(c.Context, db); err != nil {
				return err
			}

			ctx := log.WithContext(c.Context)
			summary, err := ingest.NewService(db, cfg).Run(ctx)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}
