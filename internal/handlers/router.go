package handlers

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRouter wires all routes, middleware and static artifact serving.
func (h *Handler) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(h.log))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// generated artifacts and raw uploads are served as static files
	r.Static("/outputs", h.cfg.OutputDir)
	r.Static("/uploads", h.cfg.UploadDir)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/token", h.Login)
	}

	protected := r.Group("/")
	protected.Use(h.RequireAuth())
	{
		protected.POST("/patients", h.CreatePatient)
		protected.GET("/patients", h.ListPatients)
		protected.GET("/patients/:patient_id/predictions", h.ListPredictions)
		protected.GET("/cephalogram/:id", h.GetCephalogram)
		protected.POST("/predict/:patient_id", h.Predict)
		protected.GET("/predictions/:id", h.GetPrediction)
	}

	return r
}
