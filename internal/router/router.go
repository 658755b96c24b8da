package router

import (
	"github.com/gin-gonic/gin"
	"github.com/ikkim/storefront/internal/fakestore"
	"github.com/ikkim/storefront/internal/middleware"
)

type Router struct {
	handler        *fakestore.Handler
	csrfMiddleware *middleware.CSRFMiddleware
	ginMode        string
	pushPath       string
}

func NewRouter(
	handler *fakestore.Handler,
	csrfMiddleware *middleware.CSRFMiddleware,
	ginMode string,
	pushPath string,
) *Router {
	if pushPath == "" {
		pushPath = "/ws/notifications"
	}
	return &Router{
		handler:        handler,
		csrfMiddleware: csrfMiddleware,
		ginMode:        ginMode,
		pushPath:       pushPath,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.ginMode != "" {
		gin.SetMode(r.ginMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(r.handler.Faults())

	router.GET("/health", r.handler.Health)
	router.GET(r.pushPath, r.handler.PushNotifications)

	csrf := r.csrfMiddleware.RequireToken()

	api := router.Group("/api")
	{
		cart := api.Group("/cart")
		{
			cart.GET("", r.handler.GetCart)
			cart.POST("/add/:id", csrf, r.handler.AddItem)
			cart.POST("/remove/:id", csrf, r.handler.RemoveItem)
		}

		products := api.Group("/products")
		{
			products.GET("", r.handler.ListProducts)
			products.GET("/:id/stock", r.handler.VariantStock)
			products.POST("/:id/reviews", csrf, r.handler.SubmitReview)
		}

		api.GET("/categories", r.handler.Categories)
		api.GET("/search/suggestions", r.handler.SearchSuggestions)
		api.POST("/orders/:id/rate", csrf, r.handler.RateOrder)

		notifications := api.Group("/notifications")
		{
			notifications.GET("", r.handler.ListNotifications)
			notifications.GET("/unread", r.handler.UnreadNotifications)
			notifications.POST("/:id/read", csrf, r.handler.MarkNotificationRead)
		}

		api.GET("/admin/products", r.handler.AdminProducts)
		api.POST("/payments/validate-card", csrf, r.handler.ValidateCard)
	}

	// Page routes that answer JSON to script callers
	router.POST("/cart/update/:id", csrf, r.handler.UpdateItem)
	router.POST("/cart/checkout", csrf, r.handler.Checkout)
	router.POST("/orders/:id/request-cancel", csrf, r.handler.RequestCancel)
	router.POST("/admin/products/:id/delete", csrf, r.handler.DeleteProduct)
	router.POST("/create-payment", csrf, r.handler.CreateWalletPayment)
	router.POST("/add_payment_method", csrf, r.handler.AddPaymentMethod)

	return router
}
