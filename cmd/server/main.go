package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/convert"
	"fileconvert-backend/internal/database"
	"fileconvert-backend/internal/handlers"
	"fileconvert-backend/internal/middleware"
	"fileconvert-backend/internal/pipeline"
	"fileconvert-backend/internal/storage"
)

func main() {
	// Load .env if present; real env vars win.
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.LogFile != "" {
		log.SetOutput(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
		})
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	dbClient, err := database.NewClient(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database client: %v", err)
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		log.Fatalf("Migration failed: %v", err)
	}
	migrator.Close()
	log.Println("Migrations completed successfully")

	// Wire the pipeline with its real collaborators.
	office := convert.NewOffice(cfg)
	raster := convert.NewRasterizer(cfg)
	stager := storage.NewStager(cfg)
	resolver := storage.NewResolver(cfg)
	pl := pipeline.New(cfg, dbClient, office, raster)

	serveHandler := handlers.NewServeHandler(dbClient)
	uploadHandler := handlers.NewUploadHandler(cfg, stager, resolver, pl)
	convertHandler := handlers.NewConvertHandler(cfg, stager, resolver, pl)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", handlers.HealthHandler)
	router.GET("/file/serve/:filename", serveHandler.Serve)

	authorized := router.Group("/file")
	authorized.Use(middleware.ProjectAuth(dbClient))

	authorized.POST("/upload-single", uploadHandler.UploadSingle)
	authorized.POST("/upload-mutiple", uploadHandler.UploadMultiple)
	authorized.POST("/upload-voice", uploadHandler.UploadVoice)

	authorized.POST("/office-to-pdf", convertHandler.OfficeToPDF)
	authorized.POST("/offices-to-pdf", convertHandler.OfficesToPDF)
	authorized.POST("/pdf-to-image", convertHandler.PDFToImage)
	authorized.POST("/pdfs-to-image", convertHandler.PDFsToImage)
	authorized.POST("/office-to-pdf-image", convertHandler.OfficeToPDFImage)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
