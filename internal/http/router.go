// Package httpapi assembles the Gin engine: the transport middleware chain,
// the operational endpoints (/health, /metrics, /swagger) and the
// authenticated course-swap API mounted under the configured base path.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	_ "github.com/tbourn/course-swap-backend/docs"
	"github.com/tbourn/course-swap-backend/internal/catalog"
	"github.com/tbourn/course-swap-backend/internal/config"
	"github.com/tbourn/course-swap-backend/internal/domain"
	"github.com/tbourn/course-swap-backend/internal/http/handlers"
	"github.com/tbourn/course-swap-backend/internal/http/middleware"
	"github.com/tbourn/course-swap-backend/internal/repo"
	"github.com/tbourn/course-swap-backend/internal/services"
)

const maxBodyBytes = 1 << 20

// Catalog bundles the course catalog dependencies built at startup.
type Catalog struct {
	Lookup services.CourseLookup
	Index  catalog.Index
}

// swapStore satisfies services.SwapRepo with the repo package functions.
type swapStore struct{}

func (swapStore) CreateSwap(ctx context.Context, db *gorm.DB, s *domain.SwapRequest) error {
	return repo.CreateSwap(ctx, db, s)
}

func (swapStore) GetSwap(ctx context.Context, db *gorm.DB, id string) (*domain.SwapRequest, error) {
	return repo.GetSwap(ctx, db, id)
}

func (swapStore) CountSwaps(ctx context.Context, db *gorm.DB, f repo.SwapFilter) (int64, error) {
	return repo.CountSwaps(ctx, db, f)
}

func (swapStore) ListSwapsPage(ctx context.Context, db *gorm.DB, f repo.SwapFilter, offset, limit int) ([]domain.SwapRequest, error) {
	return repo.ListSwapsPage(ctx, db, f, offset, limit)
}

// RegisterRoutes installs the middleware chain and every route on r.
//
// Engine-wide, in order: tracing, request id, access log, recovery, body
// cap, metrics, gzip, CORS, security headers. The API group then adds
// Auth, the caller-scoped logger, the Idempotency-Key check and the rate
// limiter; the key check runs first so a replayed offer is never throttled.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, cat Catalog, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	r.Use(
		otelgin.Middleware(cfg.OTEL.ServiceName),
		middleware.RequestID(),
		middleware.RedactingLogger(middleware.RedactOptions{MaskHeaders: []string{"X-API-Key"}}),
		middleware.Recovery(),
		limitBody(maxBodyBytes),
		middleware.Metrics(),
		gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/metrics"})),
	)
	useCORS(r, cfg.CORS.AllowedOrigins)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		EnablePolicy: true,
	}))

	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	mountAPI(groupWithPrefix(r, cfg.APIBasePath), db, cat, cfg)
}

func mountAPI(api *gin.RouterGroup, db *gorm.DB, cat Catalog, cfg config.Config) {
	users := &services.UserService{DB: db}
	h := handlers.New(handlers.Deps{
		Swaps:     services.NewSwapService(db, swapStore{}),
		Offers:    &services.OfferService{DB: db, IdempotencyTTL: cfg.IdempotencyTTL},
		Match:     services.NewMatchService(db, cfg.MatchMaxRetries),
		Messages:  &services.MessageService{DB: db},
		Courses:   &services.CourseService{Catalog: cat.Lookup, Index: cat.Index},
		Dashboard: &services.DashboardService{DB: db},
	})
	limiter := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())

	api.Use(
		middleware.Auth(middleware.AuthOptions{
			Secret:     cfg.Auth.JWTSecret,
			Issuer:     cfg.Auth.JWTIssuer,
			OnIdentity: profileHook(users),
		}),
		middleware.ContextLogger(),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, offerReplayLookup(db)),
		limiter.Handler(),
	)

	api.POST("/swaps", h.CreateSwap)
	api.GET("/swaps", h.ListSwaps)
	api.GET("/swaps/:id", h.GetSwap)
	api.POST("/swaps/:id/close", h.CloseSwap)
	api.GET("/swaps/:id/disclosure", middleware.NoStore(), h.Disclosure)
	api.GET("/swaps/:id/offers", h.ListOffers)
	api.POST("/swaps/:id/offers", h.CreateOffer)

	api.POST("/offers/:id/agree", h.Agree)
	api.POST("/offers/:id/unagree", h.Unagree)
	api.POST("/offers/:id/withdraw", h.Withdraw)
	api.GET("/offers/:id/messages", h.ListMessages)
	api.POST("/offers/:id/messages", h.PostMessage)

	api.GET("/courses/search", h.SearchCourses)
	api.GET("/me/dashboard", middleware.NoStore(), h.Dashboard)
}

// offerReplayLookup reports whether (user, swap, key) already produced an
// offer. Store errors are returned so the validator can log them; the
// request still proceeds.
func offerReplayLookup(db *gorm.DB) middleware.IdempotencyLookup {
	return func(ctx context.Context, userID, swapID, key string, now time.Time) (bool, error) {
		_, err := repo.GetIdempotency(ctx, db, userID, swapID, key, now)
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, repo.ErrNotFound):
			return false, nil
		default:
			return false, err
		}
	}
}

// profileHook upserts the caller's profile from the token claims; disclosure
// and the dashboard read names and emails from it.
func profileHook(users *services.UserService) middleware.IdentityHook {
	return func(ctx context.Context, id middleware.Identity) error {
		return users.Ensure(ctx, &domain.User{
			ID:    id.ID,
			Email: id.Email,
			Name:  id.Name,
			Major: id.Major,
			Year:  id.Year,
		})
	}
}

func useCORS(r *gin.Engine, origins []string) {
	conf := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{
			"Origin", "Content-Type", "Accept", "Authorization", "If-None-Match",
			middleware.HeaderUserID, middleware.HeaderUserEmail, middleware.HeaderUserName,
			middleware.HeaderIdempotencyKey,
		},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag", "Location", "Retry-After", "Idempotency-Replayed"},
		MaxAge:        12 * time.Hour,
	}

	if len(origins) == 0 {
		conf.AllowAllOrigins = true
		// cors only answers requests carrying Origin; health checks and
		// curl get the wildcard too.
		r.Use(func(c *gin.Context) {
			c.Header("Access-Control-Allow-Origin", "*")
			c.Next()
		}, cors.New(conf))
		return
	}

	conf.AllowOrigins = origins
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	// cors treats an Origin equal to the request host as same-origin and
	// writes nothing; allowlisted origins are echoed regardless.
	r.Use(func(c *gin.Context) {
		if o := c.GetHeader("Origin"); allowed[o] {
			c.Header("Access-Control-Allow-Origin", o)
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Next()
	}, cors.New(conf))
}

// limitBody caps request bodies at n bytes; reads past the cap fail.
func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix; "" and "/" mean the root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "/" {
		prefix = ""
	}
	return r.Group(prefix)
}
