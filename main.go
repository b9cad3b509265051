package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"mkt-settlement-api/internal/config"
	"mkt-settlement-api/internal/dal"
	"mkt-settlement-api/internal/handler"
	"mkt-settlement-api/internal/idgen"
	"mkt-settlement-api/internal/logger"
	"mkt-settlement-api/internal/middleware"
	"mkt-settlement-api/internal/mq"
	"mkt-settlement-api/internal/scheduler"
	"mkt-settlement-api/internal/service"
)

func main() {
	// load config env
	_ = godotenv.Load()
	config.Init()
	logger.Init()

	// init infra
	dal.InitMainDB()
	dal.InitRedis()
	dal.InitRabbitMQ()

	// idgen
	idgen.Init(1)

	// start consumers + payout calendar
	mq.StartConsumers(service.NewPaymentService(), service.NewSettlementService())
	scheduler.Start()

	// http server
	if config.C.Server.Mode != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.Recover())

	v1 := r.Group("/api/v1")
	{
		oh := handler.NewOrderHandler()
		v1.POST("/orders", middleware.AuthHMAC(), oh.Create)
		v1.GET("/orders/:id", oh.Get)
		v1.POST("/orders/:id/delivered", middleware.InternalAuth(), oh.Delivered)

		ph := handler.NewPaymentHandler()
		v1.POST("/payments/webhook", middleware.AuthHMAC(), ph.Webhook)

		rh := handler.NewRefundHandler()
		v1.POST("/refunds", middleware.InternalAuth(), rh.Create)
		v1.GET("/refunds/:id", rh.Get)
		v1.POST("/refunds/:id/status", middleware.InternalAuth(), rh.UpdateStatus)

		sh := handler.NewSettlementHandler()
		v1.POST("/settlements/run", middleware.InternalAuth(), sh.Run)
		v1.GET("/settlements", middleware.InternalAuth(), sh.List)
		v1.GET("/settlements/:id", sh.Get)
		v1.POST("/settlements/:id/paid", middleware.InternalAuth(), sh.MarkPaid)

		ch := handler.NewReconcileHandler()
		v1.GET("/reconciliation", middleware.InternalAuth(), ch.Report)

		admin := v1.Group("/admin", middleware.InternalAuth())
		{
			ruleH := handler.NewRuleHandler()
			admin.POST("/commission-rules", ruleH.Create)
			admin.GET("/commission-rules", ruleH.List)
			admin.POST("/commission-rules/:id/deactivate", ruleH.Deactivate)
		}
	}

	addr := ":" + config.C.Server.Port
	log.Printf("listening %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
