package routes

import (
	"net/http"

	"github.com/Madhav-Gupta-28/storefront-go/handlers"
	"github.com/Madhav-Gupta-28/storefront-go/metrics"
	customMiddleware "github.com/Madhav-Gupta-28/storefront-go/middleware"
	"github.com/Madhav-Gupta-28/storefront-go/session"
	"github.com/labstack/echo/v4"
)

func SetupRoutes(e *echo.Echo, h *handlers.Handler, m *metrics.Metrics) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(m.Handler()))

	// Public routes
	e.POST("/api/session", h.CreateSession)
	e.POST("/api/admin/session", h.CreateAdminSession)

	// Storefront routes, one session per browser
	api := e.Group("/api")
	api.Use(customMiddleware.SessionMiddleware(h.Tokens, h.Sessions, session.KindCustomer))

	api.DELETE("/session", h.EndSession)

	// Auth routes
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/send-otp", h.SendOTP)
	api.POST("/auth/verify-otp", h.VerifyOTP)
	api.POST("/auth/send-otp-login", h.SendLoginOTP)
	api.POST("/auth/verify-otp-login", h.VerifyLoginOTP)
	api.GET("/auth/me", h.Me)
	api.POST("/auth/logout", h.Logout)

	// Product routes
	api.GET("/products", h.GetProducts)
	api.GET("/products/:id", h.GetProduct)
	api.GET("/sections/:section", h.GetSection)

	// Cart routes
	api.GET("/cart", h.GetCart)
	api.POST("/cart", h.AddToCart)
	api.PUT("/cart/quantity", h.UpdateCartItemQuantity)
	api.DELETE("/cart/:productId", h.RemoveFromCart)
	api.POST("/cart/remove", h.RemoveCartLine)
	api.DELETE("/cart", h.ClearCart)

	// Wishlist routes
	api.GET("/wishlist", h.GetWishlist)
	api.POST("/wishlist/:productId", h.ToggleWishlist)
	api.DELETE("/wishlist/:productId", h.RemoveFromWishlist)
	api.POST("/wishlist/:productId/move-to-cart", h.MoveToCart)

	// Signed-in routes
	user := api.Group("", customMiddleware.RequireSignIn)
	user.GET("/users/me", h.GetUserProfile)
	user.GET("/users/me/addresses", h.GetUserAddresses)
	user.POST("/users/me/addresses", h.AddUserAddress)
	user.PUT("/users/me/addresses/:id", h.UpdateUserAddress)
	user.DELETE("/users/me/addresses/:id", h.DeleteUserAddress)

	user.GET("/checkout", h.GetCheckout)
	user.POST("/checkout/coupon", h.ApplyCoupon)
	user.DELETE("/checkout/coupon", h.RemoveCoupon)
	user.GET("/checkout/coupons", h.AvailableCoupons)
	user.PUT("/checkout/address", h.SelectAddress)
	user.PUT("/checkout/payment-method", h.SetPaymentMethod)

	user.POST("/orders", h.PlaceOrder)
	user.POST("/orders/verify-payment", h.VerifyPayment)
	user.GET("/orders", h.GetOrders)
	user.GET("/orders/:id", h.GetOrder)

	// Admin dashboard routes
	adminAPI := e.Group("/api/admin")
	adminAPI.Use(customMiddleware.SessionMiddleware(h.Tokens, h.Sessions, session.KindAdmin))
	adminAPI.POST("/login", h.AdminLogin)
	adminAPI.POST("/logout", h.Logout)
	adminAPI.DELETE("/session", h.EndSession)

	staff := adminAPI.Group("", customMiddleware.RequireAdmin)
	staff.GET("/dashboard", h.AdminDashboard)
	staff.GET("/products", h.AdminProducts)
	staff.POST("/products", h.AdminCreateProduct)
	staff.PUT("/products/:id", h.AdminUpdateProduct)
	staff.DELETE("/products/:id", h.AdminDeleteProduct)
	staff.POST("/products/bulk-delete", h.AdminBulkDeleteProducts)
	staff.POST("/upload/image", h.AdminUploadImage)
	staff.GET("/orders", h.AdminOrders)
	staff.GET("/orders/:id", h.AdminOrder)
	staff.PUT("/orders/:id/status", h.AdminUpdateOrderStatus)
	staff.GET("/promotions", h.AdminPromotions)
	staff.POST("/promotions", h.AdminCreatePromotion)
	staff.PUT("/promotions/:id", h.AdminUpdatePromotion)
	staff.DELETE("/promotions/:id", h.AdminDeletePromotion)
}
