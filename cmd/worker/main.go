package main

import (
	"context"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/hashcrack/config"
	"github.com/ykhdr/hashcrack/internal/amqp"
	"github.com/ykhdr/hashcrack/internal/consul"
	"github.com/ykhdr/hashcrack/internal/hashcrack"
	"github.com/ykhdr/hashcrack/internal/potfile"
	"github.com/ykhdr/hashcrack/internal/store/mongo"
	"github.com/ykhdr/hashcrack/internal/worker"
	"golang.org/x/sync/errgroup"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	cfg, err := config.InitializeWorkerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize config")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []hashcrack.Option{hashcrack.WithWorkers(cfg.Workers)}
	switch {
	case cfg.MongoConfig != nil:
		client, db, err := mongo.Connect(ctx, cfg.MongoConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		opts = append(opts, hashcrack.WithPotfile(potfile.NewMongoStore(db)))
	case cfg.Potfile != "":
		store, err := potfile.OpenFileStore(cfg.Potfile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to open potfile")
		}
		opts = append(opts, hashcrack.WithPotfile(store))
	}

	conn, err := amqp.Dial(ctx, cfg.AmqpConfig)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}
	defer func() { _ = conn.Close() }()

	if cfg.ConsulConfig != nil {
		registrar, err := consul.NewRegistrar(cfg.ConsulConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create consul client")
		}
		id, err := registrar.Register(cfg.Address, cfg.ServerPort)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register in consul")
		}
		defer func() { _ = registrar.Deregister(id) }()
	}

	svc := worker.NewService(hashcrack.NewService(opts...), cfg.Workers)
	srv := worker.NewServer(cfg.ServerPort)
	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return svc.Start(gCtx, conn, cfg.AmqpConfig)
	})
	group.Go(func() error {
		return srv.Start(gCtx)
	})
	if err := group.Wait(); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("worker failed")
	}
	log.Info().Msg("worker stopped")
}
