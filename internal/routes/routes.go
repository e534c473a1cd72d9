package routes

import (
	"net/http"
	"time"

	"task-tracker-api/internal/auth"
	"task-tracker-api/internal/config"
	"task-tracker-api/internal/handlers"
	"task-tracker-api/internal/manager"
	"task-tracker-api/internal/middleware"
	"task-tracker-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// Deps are the collaborators the router hands to its handlers.
type Deps struct {
	Store    *manager.Manager
	Hub      *realtime.Hub
	Auth     config.AuthConfig
	Location *time.Location // wire time zone, time.Local when nil
}

func SetupRoutes(d Deps) *gin.Engine {
	ginRouter := gin.Default()
	ginRouter.Use(middleware.CORS())

	ginRouter.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	issuer := auth.NewIssuer(d.Auth)
	authHandler := handlers.NewAuthHandler(issuer, d.Auth)
	tasks := handlers.NewTaskHandler(d.Store, d.Location)

	api := ginRouter.Group("/api")
	api.POST("/login", authHandler.Login)

	protected := api.Group("")
	if d.Auth.Enabled {
		protected.Use(middleware.JWTAuthMiddleware(issuer))
	}
	{
		protected.GET("/tasks", tasks.GetTasks)
		protected.POST("/tasks", tasks.CreateTask)
		protected.DELETE("/tasks", tasks.ClearTasks)
		protected.GET("/tasks/:id", tasks.GetTaskByID)
		protected.POST("/tasks/:id", tasks.UpdateTask)
		protected.PUT("/tasks/:id", tasks.UpdateTask)
		protected.DELETE("/tasks/:id", tasks.DeleteTask)

		protected.GET("/subtasks", tasks.GetSubtasks)
		protected.POST("/subtasks", tasks.CreateSubtask)
		protected.DELETE("/subtasks", tasks.ClearSubtasks)
		protected.GET("/subtasks/:id", tasks.GetSubtaskByID)
		protected.POST("/subtasks/:id", tasks.UpdateSubtask)
		protected.PUT("/subtasks/:id", tasks.UpdateSubtask)
		protected.DELETE("/subtasks/:id", tasks.DeleteSubtask)

		protected.GET("/epics", tasks.GetEpics)
		protected.POST("/epics", tasks.CreateEpic)
		protected.DELETE("/epics", tasks.ClearEpics)
		protected.GET("/epics/:id", tasks.GetEpicByID)
		protected.GET("/epics/:id/subtasks", tasks.GetEpicSubtasks)
		protected.POST("/epics/:id", tasks.UpdateEpic)
		protected.PUT("/epics/:id", tasks.UpdateEpic)
		protected.DELETE("/epics/:id", tasks.DeleteEpic)

		protected.GET("/history", tasks.GetHistory)
		protected.GET("/prioritized", tasks.GetPrioritized)

		if d.Hub != nil {
			protected.GET("/ws", handlers.NewWSHandler(d.Hub).Serve)
		}
	}

	return ginRouter
}
