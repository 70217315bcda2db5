// routes/routes.go
package routes

import (
	"net/http"
	"time"

	"campus-connect/controllers"
	"campus-connect/middleware"
	"campus-connect/services"
	"campus-connect/utils"

	"github.com/gorilla/mux"
)

const objectID = "{id:[0-9a-fA-F]{24}}"

// Controllers groups the handlers mounted under /api
type Controllers struct {
	Users        *controllers.UserController
	Products     *controllers.ProductController
	Transactions *controllers.TransactionController
	Messages     *controllers.MessageController
	Reports      *controllers.ReportController
	Wishlist     *controllers.WishlistController
	Analytics    *controllers.AnalyticsController
}

// Options configures the router
type Options struct {
	UploadDir          string
	RateLimitPerMinute int
	RequestTimeout     time.Duration
}

// NewRouter builds the controllers and the full HTTP surface
func NewRouter(svc *services.Services, files utils.FileStore, opts Options) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.LoggingMiddleware)
	if opts.RateLimitPerMinute > 0 {
		router.Use(middleware.NewRateLimiter(opts.RateLimitPerMinute).Middleware)
	}
	if opts.RequestTimeout > 0 {
		router.Use(middleware.TimeoutMiddleware(opts.RequestTimeout))
	}

	RegisterRoutes(router, Controllers{
		Users:        controllers.NewUserController(svc.Identity),
		Products:     controllers.NewProductController(svc.Catalog, files),
		Transactions: controllers.NewTransactionController(svc.Transactions),
		Messages:     controllers.NewMessageController(svc.Conversations),
		Reports:      controllers.NewReportController(svc.Moderation),
		Wishlist:     controllers.NewWishlistController(svc.Wishlist),
		Analytics:    controllers.NewAnalyticsController(svc.Analytics),
	}, middleware.AuthMiddleware(svc.Identity))

	if opts.UploadDir != "" {
		router.PathPrefix("/uploads/").Handler(http.StripPrefix("/uploads/", http.FileServer(http.Dir(opts.UploadDir))))
	}
	return router
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers, auth func(http.Handler) http.Handler) {
	protected := func(h http.HandlerFunc) http.Handler { return auth(h) }
	admin := func(h http.HandlerFunc) http.Handler { return auth(middleware.AdminMiddleware(h)) }

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Auth routes
	api.HandleFunc("/auth/signup", c.Users.Register).Methods("POST")
	api.HandleFunc("/auth/login", c.Users.Login).Methods("POST")
	api.HandleFunc("/auth/verify", c.Users.VerifyEmail).Methods("GET")
	api.Handle("/auth/profile", protected(c.Users.GetProfile)).Methods("GET")
	api.Handle("/auth/profile", protected(c.Users.UpdateProfile)).Methods("PUT")
	api.HandleFunc("/auth/user/{userId}", c.Users.GetUser).Methods("GET")

	// Product routes
	api.HandleFunc("/products", c.Products.GetProducts).Methods("GET")
	api.Handle("/products", protected(c.Products.CreateProduct)).Methods("POST")
	api.HandleFunc("/products/categories/list", c.Products.GetCategories).Methods("GET")
	api.Handle("/products/my-products", protected(c.Products.GetMyProducts)).Methods("GET")
	api.HandleFunc("/products/"+objectID, c.Products.GetProductByID).Methods("GET")
	api.Handle("/products/"+objectID, protected(c.Products.UpdateProduct)).Methods("PUT")
	api.Handle("/products/"+objectID, protected(c.Products.DeleteProduct)).Methods("DELETE")
	api.Handle("/products/"+objectID+"/sold", protected(c.Products.MarkSold)).Methods("PATCH")

	// Message routes
	api.Handle("/messages", protected(c.Messages.SendMessage)).Methods("POST")
	api.Handle("/messages/conversations", protected(c.Messages.GetConversations)).Methods("GET")
	api.Handle("/messages/{productId}/{userId}", protected(c.Messages.GetThread)).Methods("GET")
	api.Handle("/messages/{messageId}/read", protected(c.Messages.MarkRead)).Methods("PATCH")

	// Transaction routes
	api.Handle("/transactions", protected(c.Transactions.CreateTransaction)).Methods("POST")
	api.Handle("/transactions/my-transactions", protected(c.Transactions.GetMyTransactions)).Methods("GET")
	api.Handle("/transactions/{id}", protected(c.Transactions.GetTransaction)).Methods("GET")
	api.Handle("/transactions/{id}/status", protected(c.Transactions.UpdateStatus)).Methods("PATCH")
	api.Handle("/transactions/{id}/review", protected(c.Transactions.SubmitReview)).Methods("POST")

	// Wishlist routes
	api.Handle("/wishlist", protected(c.Wishlist.GetWishlist)).Methods("GET")
	api.Handle("/wishlist", protected(c.Wishlist.AddToWishlist)).Methods("POST")
	api.Handle("/wishlist/check/{productId}", protected(c.Wishlist.CheckWishlist)).Methods("GET")
	api.Handle("/wishlist/{productId}", protected(c.Wishlist.RemoveFromWishlist)).Methods("DELETE")

	// Report routes
	api.Handle("/reports", protected(c.Reports.CreateReport)).Methods("POST")
	api.Handle("/reports", admin(c.Reports.GetReports)).Methods("GET")
	api.Handle("/reports/{id}", admin(c.Reports.UpdateReport)).Methods("PATCH")

	// Admin analytics
	api.Handle("/analytics/summary", admin(c.Analytics.GetSummary)).Methods("GET")
	api.Handle("/analytics/popular-categories", admin(c.Analytics.GetPopularCategories)).Methods("GET")
}
