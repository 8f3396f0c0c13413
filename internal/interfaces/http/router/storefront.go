package router

import (
	"github.com/gin-gonic/gin"
	"github.com/styleco/storefront/internal/interfaces/http/handler"
)

// Handlers holds every HTTP handler the storefront API serves
type Handlers struct {
	Auth         *handler.AuthHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Image        *handler.ImageHandler
	Delivery     *handler.DeliveryHandler
	Content      *handler.ContentHandler
	User         *handler.UserHandler
	Order        *handler.OrderHandler
	Notification *handler.NotificationHandler
}

// Guards are the middleware placed in front of route groups. Nil guards are
// skipped.
type Guards struct {
	// RequireAuth rejects requests without a valid bearer token
	RequireAuth gin.HandlerFunc
	// OptionalAuth resolves a bearer token when one is sent
	OptionalAuth gin.HandlerFunc
	// RequireAdmin runs after RequireAuth on /admin
	RequireAdmin gin.HandlerFunc
	// AdminNetwork limits /admin to the shop's networks
	AdminNetwork gin.HandlerFunc
	// CartOwner resolves the cart key from the principal or the guest cookie
	CartOwner gin.HandlerFunc
	CSRF      gin.HandlerFunc
	// Idempotency reads the Idempotency-Key header on checkout
	Idempotency gin.HandlerFunc
	// AuthRateLimit throttles register and login
	AuthRateLimit gin.HandlerFunc
}

func chain(fns ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(fns))
	for _, fn := range fns {
		if fn != nil {
			out = append(out, fn)
		}
	}
	return out
}

// Storefront builds the /api/v1 route groups
func Storefront(h Handlers, g Guards) []*DomainGroup {
	catalog := NewDomainGroup("catalog", "")
	catalog.GET("/products", h.Product.List)
	catalog.GET("/products/featured", h.Product.Featured)
	catalog.GET("/products/:slug", h.Product.GetBySlug)
	catalog.GET("/categories", h.Category.List)
	catalog.GET("/categories/:slug", h.Category.Page)
	catalog.GET("/delivery-prices", h.Delivery.ListActive)
	catalog.GET("/hero", h.Content.Hero)

	shop := NewDomainGroup("shop", "").Use(chain(g.OptionalAuth, g.CartOwner, g.CSRF)...)
	shop.GET("/cart", h.Cart.Get)
	shop.POST("/cart/items", h.Cart.AddItem)
	shop.PATCH("/cart/items", h.Cart.UpdateItem)
	shop.DELETE("/cart/items", h.Cart.RemoveItem)
	shop.DELETE("/cart", h.Cart.Clear)
	shop.GET("/checkout/quote", h.Checkout.Quote)
	shop.POST("/checkout", append(chain(g.Idempotency), h.Checkout.Submit)...)

	// register and login merge the guest cart, so they read the cart cookie
	auth := NewDomainGroup("auth", "/auth").Use(chain(g.CSRF)...)
	auth.POST("/register", append(chain(g.AuthRateLimit), h.Auth.Register)...)
	auth.POST("/login", append(chain(g.AuthRateLimit), h.Auth.Login)...)
	auth.POST("/logout", append(chain(g.RequireAuth), h.Auth.Logout)...)

	account := NewDomainGroup("account", "").Use(chain(g.RequireAuth)...)
	account.GET("/me", h.Auth.Me)
	account.PATCH("/me", h.Auth.UpdateMe)
	account.GET("/orders", h.Order.ListMine)
	account.GET("/orders/:id", h.Order.GetMine)

	return []*DomainGroup{catalog, shop, auth, account, adminRoutes(h, g)}
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin").Use(chain(g.AdminNetwork, g.RequireAuth, g.RequireAdmin)...)

	admin.GET("/products", h.Product.ListAll)
	admin.POST("/products", h.Product.Create)
	admin.GET("/products/:id", h.Product.GetByID)
	admin.PUT("/products/:id", h.Product.Update)
	admin.PATCH("/products/:id/active", h.Product.SetActive)
	admin.DELETE("/products/:id", h.Product.Delete)

	admin.POST("/categories", h.Category.Create)
	admin.GET("/categories/:id", h.Category.GetByID)
	admin.PUT("/categories/:id", h.Category.Update)
	admin.DELETE("/categories/:id", h.Category.Delete)

	admin.POST("/images", h.Image.Upload)
	admin.POST("/images/presign", h.Image.Presign)
	admin.DELETE("/images", h.Image.Delete)

	admin.GET("/delivery-prices", h.Delivery.ListAll)
	admin.POST("/delivery-prices", h.Delivery.Create)
	admin.PATCH("/delivery-prices/:id", h.Delivery.Update)

	admin.PUT("/hero", h.Content.SaveHero)

	admin.GET("/users", h.User.List)
	admin.GET("/users/:id", h.User.GetByID)
	admin.PATCH("/users/:id", h.User.Update)
	admin.PATCH("/users/:id/admin", h.User.SetAdmin)
	admin.DELETE("/users/:id", h.User.Delete)

	admin.GET("/orders", h.Order.List)
	admin.GET("/orders/export", h.Order.Export)
	admin.GET("/orders/live", h.Order.Live)
	admin.GET("/orders/:id", h.Order.Get)
	admin.GET("/orders/:id/print", h.Order.Print)
	admin.PATCH("/orders/:id/status", h.Order.UpdateStatus)
	admin.GET("/stats", h.Order.Stats)

	admin.POST("/notifications/test-email", h.Notification.TestEmail)
	return admin
}

// RegisterProbes mounts /health and /ready outside the versioned API
func RegisterProbes(engine *gin.Engine, health *handler.HealthHandler) {
	engine.GET("/health", health.Health)
	engine.GET("/ready", health.Ready)
}
