package main

import (
	"context"
	"github.com/rs/zerolog/log"
	"github.com/ykhdr/hashcrack/config"
	hcamqp "github.com/ykhdr/hashcrack/internal/amqp"
	"github.com/ykhdr/hashcrack/internal/consul"
	"github.com/ykhdr/hashcrack/internal/dispatcher"
	"github.com/ykhdr/hashcrack/internal/hashcrack"
	"github.com/ykhdr/hashcrack/internal/jobstore"
	hcnet "github.com/ykhdr/hashcrack/internal/net"
	"github.com/ykhdr/hashcrack/internal/potfile"
	"github.com/ykhdr/hashcrack/internal/server/api"
	"github.com/ykhdr/hashcrack/internal/store/mongo"
	"golang.org/x/sync/errgroup"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
)

func main() {
	cfg, err := config.InitializeManagerConfig(os.Args[1:])
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize config")
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := jobstore.NewMemoryStore()
	pot := potfile.NewMemoryStore()
	if cfg.Potfile != "" {
		if pot, err = potfile.OpenFileStore(cfg.Potfile); err != nil {
			log.Fatal().Err(err).Msg("failed to open potfile")
		}
	}
	if cfg.MongoConfig != nil {
		client, db, err := mongo.Connect(ctx, cfg.MongoConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to mongodb")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()
		store = jobstore.NewMongoStore(db)
		pot = potfile.NewMongoStore(db)
	}

	svc := hashcrack.NewService(
		hashcrack.WithWorkers(cfg.DispatcherConfig.Workers),
		hashcrack.WithPotfile(pot),
	)
	var cracker dispatcher.Cracker = svc
	var queue *dispatcher.QueueCracker
	if cfg.AmqpConfig != nil {
		conn, err := hcamqp.Dial(ctx, cfg.AmqpConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to rabbitmq")
		}
		defer func() { _ = conn.Close() }()
		if queue, err = dispatcher.NewQueueCracker(ctx, conn, cfg.AmqpConfig, svc); err != nil {
			log.Fatal().Err(err).Msg("failed to set up task queues")
		}
		cracker = queue
	}
	d := dispatcher.New(cfg.DispatcherConfig, cracker, store)

	var apiOpts []api.Option
	if cfg.ConsulConfig != nil {
		registrar, err := consul.NewRegistrar(cfg.ConsulConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create consul client")
		}
		id, err := register(registrar, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to register in consul")
		}
		defer func() { _ = registrar.Deregister(id) }()
		apiOpts = append(apiOpts, api.WithWorkers(registrar, config.WorkerServiceName))
	}
	srv := api.NewServer(cfg.ApiServerAddr, d, store, apiOpts...)

	group, gCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return d.Start(gCtx)
	})
	group.Go(func() error {
		return srv.Start(gCtx)
	})
	if queue != nil {
		group.Go(func() error {
			return queue.Start(gCtx)
		})
	}
	if err := group.Wait(); err != nil && ctx.Err() == nil {
		log.Error().Err(err).Msg("manager failed")
	}
	log.Info().Msg("manager stopped")
}

func register(registrar consul.Registrar, cfg *config.ManagerConfig) (string, error) {
	host, portStr, err := net.SplitHostPort(cfg.ApiServerAddr)
	if err != nil {
		return "", err
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return "", err
	}
	switch {
	case cfg.Address != "":
		host = cfg.Address
	case host == "" || host == "0.0.0.0":
		if host, err = hcnet.FindAvailableIPv4Addr(); err != nil {
			return "", err
		}
	}
	return registrar.Register(host, port)
}
