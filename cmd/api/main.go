package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "chequemate-backend/internal/adapter/http"
	"chequemate-backend/internal/adapter/middleware"
	"chequemate-backend/internal/adapter/repository/mysql"
	"chequemate-backend/internal/config"
	"chequemate-backend/internal/domain/account"
	"chequemate-backend/internal/domain/bank"
	"chequemate-backend/internal/domain/cheque"
	"chequemate-backend/internal/domain/clearing"
	domainevents "chequemate-backend/internal/domain/events"
	verifdomain "chequemate-backend/internal/domain/verification"
	"chequemate-backend/internal/external"
	"chequemate-backend/internal/infrastructure/cache"
	"chequemate-backend/internal/infrastructure/db"
	eventsinfra "chequemate-backend/internal/infrastructure/events"
	"chequemate-backend/internal/infrastructure/jobs"
	"chequemate-backend/internal/usecase/chequeuc"
	"chequemate-backend/internal/usecase/registry"
	"chequemate-backend/internal/usecase/review"
	"chequemate-backend/internal/usecase/screening"
	"chequemate-backend/internal/usecase/validation"
	verificationuc "chequemate-backend/internal/usecase/verification"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gormDB, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&bank.Bank{},
		&account.Account{},
		&account.CustomerBehaviorProfile{},
		&account.Transaction{},
		&account.BlacklistEntry{},
		&cheque.ChequeBook{},
		&cheque.ChequeLeaf{},
		&cheque.Cheque{},
		&clearing.InitialValidationResult{},
		&clearing.ClearingRecord{},
		&verifdomain.DeepVerification{},
		&verifdomain.FraudFlag{},
		&verifdomain.Settlement{},
		&verifdomain.BounceRecord{},
	); err != nil {
		log.Fatal(err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatal(err)
	}

	uow := mysql.NewGormUoW(gormDB)
	pub := eventsinfra.NewRedisPublisher(rdb)

	verifCfg := verificationuc.DefaultConfig()
	signature := external.NewSignatureClient(cfg.SignatureSvcURL, cfg.ExternalTimeout, verifCfg.DegradedSignatureScore)
	model := external.NewFraudClient(cfg.FraudSvcURL, cfg.ExternalTimeout)
	var vision httpadp.Extractor
	if cfg.VisionSvcURL != "" {
		vision = external.NewVisionClient(cfg.VisionSvcURL, cfg.ExternalTimeout)
	}

	verifier := verificationuc.NewUsecase(uow, signature, model, pub, verifCfg)
	cheques := chequeuc.NewUsecase(uow, pub, validation.DefaultConfig())
	screener := screening.NewUsecase(uow, verifier, pub)
	reviews := review.NewUsecase(uow, pub)
	reg := registry.NewUsecase(uow)

	detector := jobs.NewStalenessDetector(
		mysql.NewClearingRepository(gormDB),
		cfg.ClearingStaleAfter,
		cfg.StaleScanInterval,
	)
	if err := detector.Start(); err != nil {
		log.Fatal(err)
	}
	defer detector.Stop()

	subscribe := func(ctx context.Context) (<-chan domainevents.TransitionEvent, func()) {
		return eventsinfra.Subscribe(ctx, rdb)
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())
	e.Use(middleware.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second))

	httpadp.RegisterRoutes(e,
		httpadp.NewHandler(),
		httpadp.NewChequeHandler(cheques, screener, verifier, vision),
		httpadp.NewReviewHandler(reviews),
		httpadp.NewRegistryHandler(reg),
		httpadp.NewEventsHandler(subscribe),
	)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
