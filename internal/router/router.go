// Package router assembles repositories, services and handlers into the
// HTTP engine.
package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yukikurage/bizops-api/internal/cache"
	"github.com/yukikurage/bizops-api/internal/constants"
	"github.com/yukikurage/bizops-api/internal/forms"
	"github.com/yukikurage/bizops-api/internal/handlers"
	"github.com/yukikurage/bizops-api/internal/logging"
	"github.com/yukikurage/bizops-api/internal/middleware"
	"github.com/yukikurage/bizops-api/internal/models"
	"github.com/yukikurage/bizops-api/internal/repository"
	"github.com/yukikurage/bizops-api/internal/services"
	"github.com/yukikurage/bizops-api/internal/storage"
	"gorm.io/gorm"
)

// Options carries the infrastructure the router is built on. Cache, Store
// and Drafter are optional.
type Options struct {
	DB             *gorm.DB
	Sessions       sessions.Store
	Cache          cache.Cache
	Store          storage.ObjectStore
	Drafter        services.IntroductionDrafter
	Logger         *logrus.Entry
	AllowedOrigins []string
	CacheTTL       time.Duration
	RateLimit      int
	RateWindow     time.Duration
}

// New returns the configured gin engine.
func New(opts Options) *gin.Engine {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = constants.DefaultCacheTTL
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}

	// Repositories
	userRepo := repository.NewUserRepository(opts.DB)
	orgRepo := repository.NewOrganizationRepository(opts.DB)
	contactRepo := repository.NewContactRepository(opts.DB)
	projectRepo := repository.NewProjectRepository(opts.DB)
	serviceRepo := repository.NewServiceRepository(opts.DB)
	offerRepo := repository.NewOfferRepository(opts.DB)
	entityRepo := repository.NewLookupRepository[models.CorporateEntity](opts.DB)
	termRepo := repository.NewLookupRepository[models.PaymentTerm](opts.DB)
	conditionRepo := repository.NewLookupRepository[models.DeliveryCondition](opts.DB)
	presetRepo := repository.NewLookupRepository[models.OfferLinkPreset](opts.DB)

	// Services
	authService := services.NewAuthService(userRepo)
	memberService := services.NewMemberService(userRepo)
	orgService := services.NewOrganizationService(orgRepo)
	contactService := services.NewContactService(contactRepo)
	projectService := services.NewProjectService(projectRepo)
	catalog := services.NewCatalogService(serviceRepo, opts.Cache, opts.CacheTTL)
	entities := services.NewLookupService(entityRepo, opts.Cache, "corporate_entities", opts.CacheTTL)
	terms := services.NewLookupService(termRepo, opts.Cache, "payment_terms", opts.CacheTTL)
	conditions := services.NewLookupService(conditionRepo, opts.Cache, "delivery_conditions", opts.CacheTTL)
	presets := services.NewLookupService(presetRepo, opts.Cache, "link_presets", opts.CacheTTL)
	offerService := services.NewOfferService(offerRepo, serviceRepo, presetRepo, opts.Drafter)
	publicService := services.NewPublicService(offerRepo, projectRepo, opts.Store)
	logoService := services.NewLogoService(opts.Store, entities)
	resolver := services.NewOptionResolver(orgService, contactService, catalog, entities, terms, conditions, presets)

	// Handlers
	registry := forms.Default()
	authHandler := handlers.NewAuthHandler(authService)
	memberHandler := handlers.NewMemberHandler(memberService)
	orgHandler := handlers.NewOrganizationHandler(orgService, registry)
	contactHandler := handlers.NewContactHandler(contactService, registry)
	projectHandler := handlers.NewProjectHandler(projectService, registry)
	serviceHandler := handlers.NewServiceHandler(catalog, registry)
	offerHandler := handlers.NewOfferHandler(offerService, registry)
	publicHandler := handlers.NewPublicHandler(publicService)
	logoHandler := handlers.NewLogoHandler(logoService)
	formHandler := handlers.NewFormHandler(registry, resolver)
	entityHandler := handlers.NewCorporateEntityHandler(entities, registry)
	termHandler := handlers.NewPaymentTermHandler(terms, registry)
	conditionHandler := handlers.NewDeliveryConditionHandler(conditions, registry)
	presetHandler := handlers.NewLinkPresetHandler(presets, registry)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(opts.Logger))
	// cors.New panics on an empty origin list
	if len(opts.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", logging.RequestIDHeader},
			ExposeHeaders:    []string{"Content-Disposition", logging.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, opts.Sessions))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Business Operations API is running",
		})
	})

	requireAuth := middleware.RequireAuth()
	requireAdmin := middleware.RequireRole(userRepo, models.RoleAdmin)

	// API routes
	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.GetCurrentUser)
		}

		// Everything below requires a session
		protected := api.Group("")
		protected.Use(requireAuth)

		members := protected.Group("/members")
		{
			members.GET("", memberHandler.ListMembers)
			members.PUT("/:id/role", requireAdmin, memberHandler.UpdateRole)
		}

		orgs := protected.Group("/organizations")
		{
			orgs.GET("", orgHandler.ListOrganizations)
			orgs.GET("/export", orgHandler.ExportOrganizations)
			orgs.GET("/:id", orgHandler.GetOrganization)
			orgs.POST("", orgHandler.CreateOrganization)
			orgs.PUT("/:id", orgHandler.UpdateOrganization)
			orgs.DELETE("/:id", requireAdmin, orgHandler.DeleteOrganization)
		}

		contacts := protected.Group("/contacts")
		{
			contacts.GET("", contactHandler.ListContacts)
			contacts.GET("/export", contactHandler.ExportContacts)
			contacts.GET("/:id", contactHandler.GetContact)
			contacts.POST("", contactHandler.CreateContact)
			contacts.PUT("/:id", contactHandler.UpdateContact)
			contacts.DELETE("/:id", requireAdmin, contactHandler.DeleteContact)
		}

		projects := protected.Group("/projects")
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/export", projectHandler.ExportProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", projectHandler.CreateProject)
			projects.PUT("/:id", projectHandler.UpdateProject)
			projects.DELETE("/:id", requireAdmin, projectHandler.DeleteProject)
			projects.POST("/:id/rotate-token", projectHandler.RotateToken)
		}

		svcs := protected.Group("/services")
		{
			svcs.GET("", serviceHandler.ListServices)
			svcs.GET("/export", serviceHandler.ExportServices)
			svcs.GET("/:id", serviceHandler.GetService)
			svcs.POST("", serviceHandler.CreateService)
			svcs.PUT("/:id", serviceHandler.UpdateService)
			svcs.DELETE("/:id", requireAdmin, serviceHandler.DeleteService)
		}

		offers := protected.Group("/offers")
		{
			offers.GET("", offerHandler.ListOffers)
			offers.GET("/export", offerHandler.ExportOffers)
			offers.POST("/calculate", offerHandler.CalculateOffer)
			offers.GET("/:id", offerHandler.GetOffer)
			offers.POST("", offerHandler.CreateOffer)
			offers.PUT("/:id", offerHandler.UpdateOffer)
			offers.DELETE("/:id", requireAdmin, offerHandler.DeleteOffer)
			offers.POST("/:id/duplicate", offerHandler.DuplicateOffer)
			offers.GET("/:id/access-logs", offerHandler.ListAccessLogs)
			offers.POST("/:id/draft-introduction", offerHandler.DraftIntroduction)
		}

		corporateEntities := protected.Group("/corporate-entities")
		entityHandler.Register(corporateEntities, requireAdmin)
		corporateEntities.POST("/:id/logo", logoHandler.UploadLogo)
		corporateEntities.GET("/:id/logo", logoHandler.GetLogoURL)

		termHandler.Register(protected.Group("/payment-terms"), requireAdmin)
		conditionHandler.Register(protected.Group("/delivery-conditions"), requireAdmin)
		presetHandler.Register(protected.Group("/link-presets"), requireAdmin)

		formRoutes := protected.Group("/forms")
		{
			formRoutes.GET("", formHandler.ListForms)
			formRoutes.GET("/:entity", formHandler.GetForm)
			formRoutes.POST("/:entity/validate", formHandler.ValidateForm)
		}
	}

	// Client facing pages, no session
	public := r.Group("/public")
	public.Use(middleware.RateLimit(opts.RateLimit, opts.RateWindow))
	{
		public.GET("/offers/:token", publicHandler.GetOffer)
		public.POST("/offers/:token/accept", publicHandler.AcceptOffer)
		public.GET("/projects/:token", publicHandler.GetProject)
	}

	return r
}
