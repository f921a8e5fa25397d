package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ardanlabs/conf"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qubic/go-transfers-trigger/api"
	"github.com/qubic/go-transfers-trigger/business/domain/change"
	"github.com/qubic/go-transfers-trigger/business/domain/ticks"
	"github.com/qubic/go-transfers-trigger/business/domain/trigger"
	"github.com/qubic/go-transfers-trigger/entities"
	"github.com/qubic/go-transfers-trigger/external/archiver"
	"github.com/qubic/go-transfers-trigger/external/elastic"
	"github.com/qubic/go-transfers-trigger/external/kafka"
	"github.com/qubic/go-transfers-trigger/external/rpc"
	"github.com/qubic/go-transfers-trigger/infrastructure/store/memory"
	"github.com/qubic/go-transfers-trigger/infrastructure/store/pebbledb"
	"github.com/qubic/go-transfers-trigger/metrics"
	"github.com/twmb/franz-go/pkg/kgo"
	"github.com/twmb/franz-go/plugin/kprom"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const envPrefix = "QUBIC_TRANSFERS_TRIGGER"

func main() {
	log.SetOutput(os.Stdout)
	log.Println("Starting transfers-trigger")
	if err := run(); err != nil {
		log.Fatalf("main: exited with error: %s", err.Error())
	}
}

func run() error {
	config := zap.NewProductionConfig()
	// this is just for sugar, to display a readable date instead of an epoch time
	config.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.DateTime)

	logger, err := config.Build()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()
	sLogger := logger.Sugar()

	var cfg struct {
		Client struct {
			RpcUrl           string        `conf:"default:https://rpc.qubic.org"`
			ArchiverGrpcHost string        `conf:"optional"` // if set, the tick intervals are read from the archiver
			RequestTimeout   time.Duration `conf:"default:10s"`
			RateLimit        float64       `conf:"default:5"` // requests per second, 0 disables
			StatusCacheTTL   time.Duration `conf:"default:0s"` // 0 disables the cache
		}
		Trigger struct {
			Identities   []string      `conf:"required"`
			PollInterval time.Duration `conf:"default:1m"`
		}
		Store struct {
			Persistent bool   `conf:"default:false"`
			Folder     string `conf:"default:store"`
		}
		Publish struct {
			Sink string `conf:"default:log"` // log, kafka or elastic
		}
		Broker struct {
			BootstrapServers []string `conf:"default:localhost:9092"`
			ProduceTopic     string   `conf:"default:qubic-transfers-trigger"`
		}
		Elastic struct {
			Addresses   []string `conf:"default:https://localhost:9200"`
			Username    string   `conf:"default:qubic-ingestion"`
			Password    string   `conf:"optional"`
			IndexName   string   `conf:"default:qubic-transfers-trigger-alias"`
			Certificate string   `conf:"default:http_ca.crt"`
			MaxRetries  int      `conf:"default:10"`
		}
		Server struct {
			HttpHost         string `conf:"default:0.0.0.0:8000"`
			MetricsNamespace string `conf:"default:qubic_transfers_trigger"`
		}
	}

	if err := conf.Parse(os.Args[1:], envPrefix, &cfg); err != nil {
		switch {
		case errors.Is(err, conf.ErrHelpWanted):
			usage, err := conf.Usage(envPrefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config usage: %w", err)
			}
			fmt.Println(usage)
			return nil
		case errors.Is(err, conf.ErrVersionWanted):
			version, err := conf.VersionString(envPrefix, &cfg)
			if err != nil {
				return fmt.Errorf("generating config version: %w", err)
			}
			fmt.Println(version)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Printf("main: Config :\n%v\n", out)

	for _, identity := range cfg.Trigger.Identities {
		if err := entities.ValidateIdentity(identity); err != nil {
			return fmt.Errorf("validating config: %w", err)
		}
	}

	triggerMetrics := metrics.NewTriggerMetrics(cfg.Server.MetricsNamespace)

	rpcClient := rpc.NewClient(cfg.Client.RpcUrl, rpc.NewHTTPRequester(cfg.Client.RequestTimeout, cfg.Client.RateLimit))

	var statusFetcher ticks.StatusFetcher = rpcClient
	if cfg.Client.ArchiverGrpcHost != "" {
		archiverClient, err := archiver.NewClient(cfg.Client.ArchiverGrpcHost)
		if err != nil {
			return fmt.Errorf("creating archiver client: %w", err)
		}
		statusFetcher = archiverClient
	}
	if cfg.Client.StatusCacheTTL > 0 {
		ttlCache := rpc.NewStatusTtlCache(cfg.Client.StatusCacheTTL)
		go ttlCache.Start()
		defer ttlCache.Stop()
		statusFetcher = rpc.NewStatusCache(statusFetcher, ttlCache)
	}

	var store trigger.SnapshotStore
	if cfg.Store.Persistent {
		pebbleStore, err := pebbledb.NewSnapshotStore(cfg.Store.Folder)
		if err != nil {
			return fmt.Errorf("creating snapshot store: %w", err)
		}
		defer pebbleStore.Close()
		store = pebbleStore
	} else {
		store = memory.NewStore()
	}

	publisher, closePublisher, err := createPublisher(cfg.Publish.Sink, sinkConfig{
		bootstrapServers: cfg.Broker.BootstrapServers,
		produceTopic:     cfg.Broker.ProduceTopic,
		esConfig: elasticsearch.Config{
			Addresses:     cfg.Elastic.Addresses,
			Username:      cfg.Elastic.Username,
			Password:      cfg.Elastic.Password,
			RetryOnStatus: []int{502, 503, 504, 429},
			MaxRetries:    cfg.Elastic.MaxRetries,
			RetryBackoff:  calculateBackoff(),
		},
		esCertificate:    cfg.Elastic.Certificate,
		esIndexName:      cfg.Elastic.IndexName,
		metricsNamespace: cfg.Server.MetricsNamespace,
	}, sLogger)
	if err != nil {
		return err
	}
	defer closePublisher()

	resolver := ticks.NewResolver(statusFetcher)
	detector := change.NewDetector(triggerMetrics, sLogger)
	var triggers []*trigger.Trigger
	for _, identity := range cfg.Trigger.Identities {
		triggers = append(triggers, trigger.NewTrigger(identity, resolver, rpcClient, detector, store, triggerMetrics, sLogger))
	}
	runner, err := trigger.NewRunner(triggers, cfg.Trigger.PollInterval, publisher, sLogger)
	if err != nil {
		return fmt.Errorf("creating runner: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	runError := make(chan error, 1)
	go func() {
		runError <- runner.Run(ctx)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// health, manual poll and metrics endpoint
	mux := http.NewServeMux()
	api.NewHandler(runner, sLogger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())
	serverError := make(chan error, 1)
	go func() {
		log.Printf("main: Starting http server on [%s].", cfg.Server.HttpHost)
		serverError <- http.ListenAndServe(cfg.Server.HttpHost, mux)
	}()

	log.Println("main: Service started.")

	for {
		select {
		case <-shutdown:
			log.Println("main: Received shutdown signal, shutting down...")
			return nil
		case err := <-runError:
			return fmt.Errorf("[ERROR] running triggers: %v", err)
		case err := <-serverError:
			return fmt.Errorf("[ERROR] starting http server: %v", err)
		}
	}
}

type sinkConfig struct {
	bootstrapServers []string
	produceTopic     string
	esConfig         elasticsearch.Config
	esCertificate    string
	esIndexName      string
	metricsNamespace string
}

func createPublisher(sink string, sc sinkConfig, logger *zap.SugaredLogger) (trigger.Publisher, func(), error) {
	switch sink {
	case "log":
		return trigger.NewLogPublisher(logger), func() {}, nil
	case "kafka":
		m := kprom.NewMetrics(sc.metricsNamespace,
			kprom.Registerer(prometheus.DefaultRegisterer),
			kprom.Gatherer(prometheus.DefaultGatherer))
		kcl, err := kgo.NewClient(
			kgo.WithHooks(m),
			kgo.SeedBrokers(sc.bootstrapServers...),
			kgo.DefaultProduceTopic(sc.produceTopic),
			kgo.ProducerBatchCompression(kgo.ZstdCompression()),
			kgo.WithLogger(kgo.BasicLogger(os.Stdout, kgo.LogLevelInfo, nil)),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("creating kafka client: %w", err)
		}
		return kafka.NewClient(kcl, logger), kcl.Close, nil
	case "elastic":
		esConfig := sc.esConfig
		esConfig.CACert = readCertificate(sc.esCertificate)
		esClient, err := elasticsearch.NewClient(esConfig)
		if err != nil {
			return nil, nil, fmt.Errorf("creating elastic client: %w", err)
		}
		return elastic.NewClient(esClient, sc.esIndexName, logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported publish sink [%s]", sink)
	}
}

func readCertificate(path string) []byte {
	cert, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[WARN] main: could not read elastic certificate: %v", err)
	}
	return cert
}

func calculateBackoff() func(i int) time.Duration {
	return func(i int) time.Duration {
		var d time.Duration
		if i < 10 {
			d = time.Second*time.Duration(i) + randomMillis()
		} else {
			d = time.Second*30 + randomMillis()
		}
		log.Printf("[WARN] elasticsearch client retry [%d] in %v.", i, d)
		return d
	}
}

func randomMillis() time.Duration {
	return time.Duration(rand.Intn(1000)) * time.Millisecond
}
