package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tokutei/learning-api/handler"
	"github.com/tokutei/learning-api/middleware"
	ginmetrics "github.com/tokutei/learning-api/pkg/metrics/gin"
)

func Setup(auth *middleware.Authenticator, materials *handler.MaterialHandler, questions *handler.QuestionHandler) *gin.Engine {
	r := gin.Default()
	r.Use(ginmetrics.PrometheusMiddleware("learning-api"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.Use(auth.RequireAuth())
	{
		m := api.Group("/materials")
		{
			m.POST("/upload", middleware.RequireTeacher(), materials.Upload)
			m.GET("/", materials.List)
			m.GET("/:id", materials.Get)
			m.GET("/:id/status", materials.GetStatus)
			m.GET("/:id/download", materials.Download)
			m.GET("/:id/questions", questions.ListByMaterial)
			m.PUT("/:id", materials.Update)
			m.DELETE("/:id", materials.Delete)
		}

		api.POST("/questions", middleware.RequireTeacher(), questions.Create)
		api.POST("/learning-records", questions.RecordAnswer)
		api.GET("/learning-records", questions.ListRecords)
	}

	return r
}
