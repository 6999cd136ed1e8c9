package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/redis/go-redis/v9"

	"github.com/ignite/payment-assist/internal/api"
	"github.com/ignite/payment-assist/internal/config"
	"github.com/ignite/payment-assist/internal/delivery"
	"github.com/ignite/payment-assist/internal/email"
	"github.com/ignite/payment-assist/internal/pipeline"
	"github.com/ignite/payment-assist/internal/records"
	"github.com/ignite/payment-assist/internal/segment"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// checkPortAvailable verifies that the target port is not already in use.
func checkPortAvailable(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("port %d is already in use (addr %s): %v", port, addr, err)
	}
	ln.Close()
	return nil
}

// loadStore initializes the customer table from the configured source. A
// load failure is not fatal: the service starts with an empty store so
// health endpoints stay inspectable, and every lookup answers NotFound.
func loadStore(ctx context.Context, cfg config.DataConfig) *records.Store {
	var store *records.Store
	var err error

	switch cfg.Source {
	case "postgres":
		var db *sql.DB
		db, err = sql.Open("postgres", cfg.PostgresURL)
		if err == nil {
			defer db.Close()
			store, err = records.LoadPostgres(ctx, db, cfg.Table)
		}
	case "s3":
		awsCfg, cfgErr := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
		if cfgErr != nil {
			err = cfgErr
		} else {
			store, err = records.LoadS3(ctx, s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Key)
		}
	default:
		store, err = records.LoadCSV(cfg.CSVPath)
	}

	if err != nil {
		log.Printf("WARNING: customer table failed to load (%s): %v", cfg.Source, err)
		log.Printf("WARNING: starting with an empty record store; all lookups will return not-found")
		return records.EmptyStore(cfg.Source)
	}
	return store
}

func main() {
	log.Println("Payment Assist server starting (segmentation + collections email)")

	cfg, err := config.LoadFromEnv("config/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	host := cfg.Server.GetHost()
	if err := checkPortAvailable(host, cfg.Server.Port); err != nil {
		log.Fatalf("Pre-flight check FAILED: %v", err)
	}

	// Blocking initialization barrier: records and artifacts load before any
	// request is served. Failures degrade rather than crash.
	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*time.Minute)
	store := loadStore(loadCtx, cfg.Data)
	cancelLoad()

	model, err := segment.LoadModel(cfg.Model.Path)
	if err != nil {
		log.Printf("WARNING: model artifact failed to load: %v", err)
		model = nil
	}

	codec, err := segment.LoadLabelCodec(cfg.Model.LabelsPath)
	if err != nil {
		log.Printf("WARNING: label artifact failed to load: %v", err)
		codec = nil
	}

	// Optional classification cache
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			log.Printf("WARNING: redis unreachable at %s, caching disabled: %v", cfg.Redis.Addr, err)
			redisClient = nil
		}
		cancel()
	}

	var cache *pipeline.PredictionCache
	var classifier pipeline.Classifier
	if model != nil {
		classifier = model
		cache = pipeline.NewPredictionCache(redisClient, cfg.Redis.TTL(), model.Version())
	}

	pipe := pipeline.New(store, classifier, codec, email.NewGenerator(), cache)

	// Startup self-check: the model's output space must be a subset of the
	// codec's key space. Skew keeps the process alive (liveness stays
	// inspectable) but is surfaced on /health and fails affected requests.
	var skewErr error
	if pipe.Ready() {
		if skewErr = pipe.ValidateArtifacts(); skewErr != nil {
			log.Printf("WARNING: model/codec artifact skew detected: %v", skewErr)
		}
	}

	// Optional SES delivery
	var sender *delivery.SESSender
	if cfg.Delivery.Enabled && cfg.Delivery.FromAddress != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(cfg.Delivery.Region),
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.Delivery.AccessKey, cfg.Delivery.SecretKey, "")),
		)
		if err != nil {
			log.Printf("WARNING: SES delivery disabled, AWS config failed: %v", err)
		} else {
			sender = delivery.NewSESSender(sesv2.NewFromConfig(awsCfg), cfg.Delivery.FromAddress)
			log.Printf("Delivery: SES enabled, from %s (region %s)", cfg.Delivery.FromAddress, cfg.Delivery.Region)
		}
	}

	handlers := api.NewHandlers(pipe, sender)
	healthChecker := api.NewHealthChecker(pipe, redisClient, skewErr)
	server := api.NewServer(handlers, healthChecker, cfg.CORS.AllowedOrigins)

	addr := fmt.Sprintf("%s:%d", host, cfg.Server.Port)
	go func() {
		log.Printf("Listening on %s (%d records, ready=%v)", addr, store.Len(), pipe.Ready())
		if err := server.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	if redisClient != nil {
		redisClient.Close()
	}
	log.Println("Server stopped")
}
