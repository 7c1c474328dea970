package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/centimehq/centime"
	"github.com/centimehq/centime/api/middleware"
	"github.com/centimehq/centime/config"
)

type Api struct {
	centime *centime.Centime
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/holders", a.CreateHolder)
	router.GET("/holders/:id", a.GetHolder)
	router.GET("/holders", a.GetAllHolders)

	router.POST("/institutions", a.CreateInstitution)
	router.GET("/institutions/:id", a.GetInstitution)
	router.GET("/institutions", a.GetAllInstitutions)

	router.POST("/transactions", a.RecordManualTransaction)
	router.GET("/transactions/:id", a.GetTransaction)
	router.POST("/transactions/:id/confirm", a.ConfirmTransaction)
	router.POST("/transactions/:id/discard", a.DiscardTransaction)
	router.GET("/holders/:id/transactions/pending", a.GetPendingTransactions)
	router.GET("/holders/:id/transactions/history", a.GetTransactionHistory)

	router.POST("/ingest", a.IngestMessages)
	router.POST("/holders/:id/sync", a.SyncMailbox)
	router.POST("/webhook/mail", a.MailWebhook)

	return a.router
}

func NewAPI(b *centime.Centime) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{centime: b, router: r}
}
