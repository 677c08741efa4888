package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/RMahshie/srfresample/internal/api"
	"github.com/RMahshie/srfresample/internal/processing"
	"github.com/RMahshie/srfresample/internal/repository"
	"github.com/RMahshie/srfresample/internal/repository/memory"
	"github.com/RMahshie/srfresample/internal/repository/postgres"
	"github.com/RMahshie/srfresample/internal/storage"
)

func serveCmd(o *options) *cobra.Command {
	var port string

	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve the resampling HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg := o.cfg
			if port == "" {
				port = cfg.Server.Port
			}

			var s3Service storage.S3Service
			if cfg.AWS.S3Bucket != "" {
				var err error
				s3Service, err = storage.NewS3Service(ctx, s3Config(cfg, ""))
				if err != nil {
					return err
				}
			} else {
				log.Warn().Msg("S3_BUCKET not set, run endpoints are disabled")
			}

			runs, cleanup, err := openRuns(ctx, cfg.Database.URL)
			if err != nil {
				return err
			}
			defer cleanup()

			router := api.NewRouter(api.Deps{
				S3:             s3Service,
				Runs:           runs,
				Processing:     processing.NewProcessingService(s3Service, runs, cfg.Resample.Workers),
				AllowedOrigins: cfg.Server.AllowedOrigins,
				Workers:        cfg.Resample.Workers,
			})

			return api.Serve(ctx, ":"+port, router)
		},
	}

	c.Flags().StringVarP(&port, "port", "p", "", "listen port (defaults to PORT)")
	return c
}

func openRuns(ctx context.Context, url string) (repository.RunRepository, func(), error) {
	if url == "" {
		log.Info().Msg("DATABASE_URL not set, keeping runs in memory")
		return memory.NewRunRepository(), func() {}, nil
	}

	db, err := postgres.Open(ctx, url)
	if err != nil {
		return nil, nil, err
	}
	if err := postgres.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return postgres.NewPostgresRunRepository(db), func() { db.Close() }, nil
}
