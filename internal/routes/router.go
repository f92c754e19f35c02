package routes

import (
	"taskboard/internal/channel"
	"taskboard/internal/controller"
	"taskboard/internal/middleware"

	"github.com/gin-gonic/gin"
)

func Router(ctrl *controller.Controller, ch *channel.Manager) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID())

	// Health for load balancers and K8s probes
	router.GET("/health", controller.Health)
	router.GET("/ready", controller.Ready)

	// Public reads
	router.GET("/tasks", ctrl.GetTasks)
	router.GET("/tasks/:token", ctrl.GetTask)
	router.GET("/tasks/:token/comments", ctrl.GetComments)
	router.GET("/users", ctrl.GetUsers)
	router.GET("/users/:id", ctrl.GetUser)

	// Live comment subscription (websocket)
	router.GET("/ws/tasks/:token", ch.Subscribe)

	// Writes: identity required
	api := router.Group("")
	api.Use(middleware.Identity())
	{
		api.POST("/tasks", ctrl.CreateTask)
		api.PUT("/tasks/:token", ctrl.UpdateTask)
		api.DELETE("/tasks/:token", ctrl.DeleteTask)
		api.POST("/tasks/:token/followers", ctrl.AddFollower)
		api.DELETE("/tasks/:token/followers/:user_id", ctrl.RemoveFollower)
		api.POST("/tasks/:token/comments", ctrl.CreateComment)
		api.DELETE("/tasks/:token/comments/:comment_token", ctrl.DeleteComment)
	}

	return router
}
