// Package router assembles the HTTP API.
package router

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamboard-api/internal/auth"
	"github.com/yukikurage/teamboard-api/internal/config"
	"github.com/yukikurage/teamboard-api/internal/handlers"
	"github.com/yukikurage/teamboard-api/internal/middleware"
	"github.com/yukikurage/teamboard-api/internal/repository"
	"github.com/yukikurage/teamboard-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the collaborators the API is built from. AI may be nil,
// in which case task drafting answers 503.
type Dependencies struct {
	DB     *gorm.DB
	Config *config.Config
	Logger *slog.Logger
	AI     *services.AIService
}

// New builds the gin engine with every route mounted under /api.
func New(deps Dependencies) *gin.Engine {
	cfg := deps.Config

	// Repositories
	userRepo := repository.NewUserRepository(deps.DB)
	teamRepo := repository.NewTeamRepository(deps.DB)
	projectRepo := repository.NewProjectRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	commentRepo := repository.NewCommentRepository(deps.DB)

	// Services
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	authService := services.NewAuthService(userRepo, teamRepo, tokens)
	teamService := services.NewTeamService(teamRepo, userRepo)
	projectService := services.NewProjectService(projectRepo, teamRepo)
	taskService := services.NewTaskService(taskRepo, projectRepo, teamRepo, userRepo, deps.AI)
	commentService := services.NewCommentService(commentRepo)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, tokens.TTL(), cfg.IsProduction())
	teamHandler := handlers.NewTeamHandler(teamService)
	projectHandler := handlers.NewProjectHandler(projectService)
	taskHandler := handlers.NewTaskHandler(taskService)
	commentHandler := handlers.NewCommentHandler(commentService)

	requireAuth := middleware.RequireAuth(tokens, userRepo)
	requireAdmin := middleware.RequireAdmin()
	readAuth := requireAuth
	if cfg.PublicReads {
		readAuth = middleware.OptionalAuth(tokens, userRepo)
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger), middleware.Recovery(deps.Logger))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Teamboard API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes
		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/signup", authHandler.Signup)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/logout", authHandler.Logout)
			authRoutes.GET("/me", requireAuth, authHandler.GetCurrentUser)
			authRoutes.GET("/users", requireAuth, requireAdmin, authHandler.ListUsers)
			authRoutes.GET("/users/:id", requireAuth, requireAdmin, authHandler.GetUser)
			authRoutes.PUT("/users/:id/roles", requireAuth, requireAdmin, authHandler.UpdateUserRoles)
		}

		// Team routes (admin for mutations)
		teams := api.Group("/teams")
		teams.Use(requireAuth)
		{
			teams.GET("", teamHandler.ListTeams)
			teams.GET("/:id", teamHandler.GetTeam)
			teams.POST("", requireAdmin, teamHandler.CreateTeam)
			teams.PUT("/:id", requireAdmin, teamHandler.UpdateTeam)
			teams.DELETE("/:id", requireAdmin, teamHandler.DeleteTeam)
		}

		// Project routes (admin for mutations)
		projects := api.Group("/projects")
		projects.Use(requireAuth)
		{
			projects.GET("", projectHandler.ListProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.POST("", requireAdmin, projectHandler.CreateProject)
			projects.PUT("/:id", requireAdmin, projectHandler.UpdateProject)
			projects.DELETE("/:id", requireAdmin, projectHandler.DeleteProject)
		}

		// Task routes (team lead checks happen in the service)
		tasks := api.Group("/tasks")
		{
			tasks.GET("", readAuth, taskHandler.ListTasks)
			tasks.GET("/:id", readAuth, middleware.LoadTask(taskService), taskHandler.GetTask)
			tasks.POST("", requireAuth, taskHandler.CreateTask)
			tasks.POST("/draft", requireAuth, taskHandler.DraftTasks)
			tasks.PUT("/:id", requireAuth, taskHandler.UpdateTask)
			tasks.PATCH("/:id/status", requireAuth, taskHandler.UpdateTaskStatus)
			tasks.DELETE("/:id", requireAuth, taskHandler.DeleteTask)
		}

		// Comment routes
		comments := api.Group("/comments")
		{
			comments.POST("", requireAuth, commentHandler.CreateComment)
			comments.GET("/:taskId", readAuth, commentHandler.ListComments)
		}
	}

	return r
}
