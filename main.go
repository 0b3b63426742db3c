package main

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/tokutei/learning-api/config"
	"github.com/tokutei/learning-api/database"
	"github.com/tokutei/learning-api/handler"
	"github.com/tokutei/learning-api/middleware"
	"github.com/tokutei/learning-api/models"
	"github.com/tokutei/learning-api/pkg/metrics"
	"github.com/tokutei/learning-api/repository"
	"github.com/tokutei/learning-api/router"
	"github.com/tokutei/learning-api/service"
	"github.com/tokutei/learning-api/storage"
)

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.Profile{},
		&models.TeacherStudent{},
		&models.LearningMaterial{},
		&models.Question{},
		&models.LearningRecord{},
	)
	if err != nil {
		logrus.Fatalf("auto migrate failed: %v", err)
	}
}

func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig()

	db := database.InitDB(cfg)
	autoMigrate(db)

	store, err := storage.NewMinIOStorage(cfg)
	if err != nil {
		logrus.Fatalf("failed to initialize object storage: %v", err)
	}

	materialRepo := repository.NewMaterialRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	relationshipRepo := repository.NewRelationshipRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	recordRepo := repository.NewLearningRecordRepository(db)

	publisher := service.NewKafkaPublisher(cfg)
	defer publisher.Close()

	access := service.NewAccessDecider(relationshipRepo)
	processor := service.NewExtractionProcessor(materialRepo, publisher, cfg.Upload.ChunkSize, cfg.Upload.ChunkOverlap)
	materialService := service.NewMaterialService(materialRepo, store, access, processor, cfg)
	questionService := service.NewQuestionService(questionRepo, recordRepo, materialRepo, access)

	auth := middleware.NewAuthenticator(service.NewJWTVerifier(cfg.Server.JWTSecret), profileRepo)
	materialHandler := handler.NewMaterialHandler(materialService)
	questionHandler := handler.NewQuestionHandler(questionService)

	metrics.StartMetricsServer(cfg.Server.MetricsPort)

	r := router.Setup(auth, materialHandler, questionHandler)
	logrus.WithField("port", cfg.Server.Port).Info("learning api listening")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logrus.Fatalf("server error: %v", err)
	}
}
