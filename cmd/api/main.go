package main

import (
	"context"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"buildseason/internal/config"
	"buildseason/internal/domain/lifecycle"
	"buildseason/internal/handler"
	"buildseason/internal/infra/db"
	"buildseason/internal/infra/events"
	infraRepo "buildseason/internal/infra/repository"
	"buildseason/internal/metrics"
	"buildseason/internal/server"
	"buildseason/internal/usecase"
	"buildseason/internal/validator"

	"github.com/google/uuid"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

type eventPublisher interface {
	usecase.EventPublisher
	Close() error
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	if err := run(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	//DB接続
	gormDB, err := db.Connect(cfg)
	if err != nil {
		return err
	}
	if cfg.AutoMigrate {
		if err := db.AutoMigrate(gormDB); err != nil {
			return err
		}
	}

	//イベント送信（ブローカー未設定なら送らない）
	var publisher eventPublisher = events.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Warn("event publisher close failed", slog.String("error", err.Error()))
		}
	}()

	serverMetrics := metrics.NewServerMetrics("api", nil)

	//Repository（GORM実装）生成
	txManager := infraRepo.NewTxManagerGorm(gormDB)
	memberRepo := infraRepo.NewMemberGormRepository(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}
	inputValidator := validator.NewOrderValidator()
	policy := lifecycle.Policy{
		RequireRejectionReason: cfg.RequireRejectionReason,
		RestockOnReceive:       cfg.RestockOnReceive,
	}

	//Usecase生成
	orderUC := usecase.NewOrderUsecase(
		txManager,
		inputValidator,
		serverMetrics.InstrumentPublisher(publisher),
		idGen,
		clock,
		policy,
		slog.Default(),
	)
	partUC := usecase.NewPartUsecase(txManager, inputValidator, idGen, clock)
	vendorUC := usecase.NewVendorUsecase(txManager)

	//Handler生成
	e := server.New(cfg, server.Handlers{
		Orders:  handler.NewOrderHandler(orderUC),
		Parts:   handler.NewPartHandler(partUC),
		Vendors: handler.NewVendorHandler(vendorUC),
		Members: memberRepo,
	}, serverMetrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	//Server起動
	return server.Start(ctx, e, net.JoinHostPort("", cfg.Port))
}
