// Package main co-working membership & booking API.
//
// @title           dynamicweb API
// @version         1.0
// @description     Memberships, day bookings and card payments for a co-working space.
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/macs03/dynamicweb/app/echoServer"
	authctrl "github.com/macs03/dynamicweb/app/echoServer/controller/auth"
	bookingctrl "github.com/macs03/dynamicweb/app/echoServer/controller/booking"
	membershipctrl "github.com/macs03/dynamicweb/app/echoServer/controller/membership"
	"github.com/macs03/dynamicweb/app/echoServer/validation"
	"github.com/macs03/dynamicweb/config"
	authrepo "github.com/macs03/dynamicweb/repository/auth"
	catalogrepo "github.com/macs03/dynamicweb/repository/catalog"
	customerrepo "github.com/macs03/dynamicweb/repository/customer"
	omiserepo "github.com/macs03/dynamicweb/repository/omise"
	orderrepo "github.com/macs03/dynamicweb/repository/order"
	authsvc "github.com/macs03/dynamicweb/service/auth"
	ordersvc "github.com/macs03/dynamicweb/service/order"
	paymentsvc "github.com/macs03/dynamicweb/service/payment"
	"github.com/macs03/dynamicweb/util/database"
	"github.com/macs03/dynamicweb/util/mq"
)

func main() {

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}
	ctx := context.Background()

	// DB: pgxpool
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx); err != nil {
			log.Error("db migrate failed", "err", err)
			os.Exit(1)
		}
	}

	// repos
	ar := authrepo.New(db)
	cr := catalogrepo.New(db)
	custr := customerrepo.New(db)
	or := orderrepo.New(db)
	gw, err := omiserepo.NewClient(cfg.OmisePublicKey, cfg.OmiseSecretKey)
	if err != nil {
		log.Error("payment gateway client failed", "err", err)
		os.Exit(1)
	}

	// events are optional
	var pub ordersvc.Publisher
	if cfg.RabbitURL != "" {
		p, err := mq.NewPublisher(cfg.RabbitURL, cfg.OrderExchange)
		if err != nil {
			log.Warn("order events disabled", "err", err)
		} else {
			defer p.Close()
			pub = p
		}
	}

	// services
	as := authsvc.New(ar, cfg.JWTSecret)
	ords := ordersvc.New(ordersvc.Deps{
		Prices:    cr,
		Policy:    ordersvc.PolicyFor(cfg.FreeDaysPerMonth, or),
		Customers: paymentsvc.NewDirectory(custr, gw, log),
		Charges:   paymentsvc.NewCharger(gw, cfg.PaymentCurrency, log),
		Ledger:    or,
		Publisher: pub,
		Log:       log,

		MaxBookingDays: cfg.MaxBookingDays,
	})

	// controllers
	v := validation.NewValidate()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookingC := &bookingctrl.Controller{Svc: ords, V: v, Log: log}
	membershipC := &membershipctrl.Controller{Svc: ords, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e, log)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		if err := db.Pool.Ping(c.Request().Context()); err != nil {
			return c.JSON(503, map[string]any{"status": "degraded", "message": "database unreachable"})
		}
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:       authC,
		Booking:    bookingC,
		Membership: membershipC,
		Members:    ords,
		JWTSecret:  cfg.JWTSecret,
		Log:        log,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "PORT_env", os.Getenv("PORT"), "chosen_port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
