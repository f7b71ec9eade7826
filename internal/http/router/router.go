package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/buildhub/homeowner-gateway/internal/config"
	"github.com/buildhub/homeowner-gateway/internal/http/handlers"
	"github.com/buildhub/homeowner-gateway/internal/http/middleware"
	"github.com/buildhub/homeowner-gateway/internal/service"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Session   *handlers.SessionHandler
	Dashboard *handlers.DashboardHandler
	Estimate  *handlers.EstimateHandler
	Payment   *handlers.PaymentHandler
	Wizard    *handlers.WizardHandler
	Progress  *handlers.ProgressHandler
	Support   *handlers.SupportHandler
	Tour      *handlers.TourHandler
	WS        *handlers.WSHandler
	Health    *handlers.HealthHandler
}

// New assembles the gin engine with the full route table.
func New(cfg *config.Config, tokens *service.TokenManager, h Handlers) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.LoggingMiddleware())
	engine.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	engine.GET("/health", h.Health.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.POST("/session", h.Session.Create)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(tokens))
	{
		authed.DELETE("/session", h.Session.Delete)
		authed.GET("/ws", h.WS.Connect)

		authed.GET("/requests", h.Dashboard.Requests)
		authed.GET("/requests/contractor", h.Dashboard.ContractorRequests)
		authed.DELETE("/requests/:id", h.Dashboard.DeleteRequest)

		authed.GET("/designs", h.Dashboard.Designs)
		authed.GET("/designs/:id/plan", h.Dashboard.DesignPlan)
		authed.DELETE("/designs/:id", h.Dashboard.DeleteDesign)
		authed.POST("/designs/:id/selection", h.Dashboard.SelectDesign)
		authed.POST("/designs/:id/send-to-contractor", h.Dashboard.SendToContractor)

		authed.DELETE("/house-plans/:id", h.Dashboard.DeleteHousePlan)
		authed.POST("/house-plans/:id/send-to-contractor", h.Dashboard.SendHousePlanToContractor)

		authed.GET("/layouts", h.Dashboard.LayoutLibrary)
		authed.GET("/architects", h.Dashboard.Architects)
		authed.GET("/contractors", h.Dashboard.Contractors)
		authed.GET("/projects", h.Dashboard.Projects)

		authed.GET("/estimates", h.Dashboard.Estimates)
		authed.DELETE("/estimates/:id", h.Estimate.Delete)
		authed.POST("/estimates/:id/respond", h.Estimate.Respond)
		authed.POST("/estimates/:id/start-construction", h.Estimate.StartConstruction)
		authed.POST("/estimates/:id/message", h.Estimate.SendMessage)
		authed.GET("/estimates/:id/report", h.Estimate.Report)
		authed.GET("/estimates/:id/breakdown", h.Estimate.Breakdown)

		authed.GET("/payment-requests", h.Dashboard.PaymentRequests)
		authed.POST("/payment-requests/:id/respond", h.Estimate.RespondPaymentRequest)
		authed.POST("/payment-requests/:id/receipt", h.Estimate.UploadReceipt)

		payments := authed.Group("/payments")
		payments.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
		{
			payments.POST("/:kind/initiate", h.Payment.Initiate)
			payments.POST("/:kind/verify", h.Payment.Verify)
			payments.POST("/:kind/abandon", h.Payment.Abandon)
			payments.GET("/:kind/state/:id", h.Payment.State)
		}

		wizardGroup := authed.Group("/wizard")
		{
			wizardGroup.GET("", h.Wizard.Get)
			wizardGroup.PUT("/data", h.Wizard.Update)
			wizardGroup.POST("/next", h.Wizard.Next)
			wizardGroup.POST("/prev", h.Wizard.Prev)
			wizardGroup.POST("/reset", h.Wizard.Reset)
			wizardGroup.POST("/submit", h.Wizard.Submit)
		}

		authed.GET("/projects/:id/timeline", h.Progress.Timeline)
		authed.GET("/projects/:id/progress", h.Progress.Updates)

		support := authed.Group("/support")
		{
			support.POST("/issues", h.Support.CreateIssue)
			support.GET("/issues", h.Support.Issues)
		}
		authed.GET("/reviews", h.Support.Reviews)
		authed.POST("/reviews", h.Support.PostReview)
		authed.GET("/comments", h.Support.Comments)
		authed.POST("/comments", h.Support.PostComment)

		authed.GET("/tours", h.Tour.Status)
		authed.POST("/tours/complete", h.Tour.Complete)
	}

	return engine
}
