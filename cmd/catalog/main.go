package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/assets"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/bootstrap"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/handler"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/repository"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/catalog/service"
	"github.com/toyfactory/toyfactory/backend/go-services/internal/database"
	"github.com/toyfactory/toyfactory/backend/go-services/pkg/middleware"
)

// Standalone catalog service: in-memory store (or Mongo when MONGODB_URI is
// set) with uploads on local disk. No config file, metrics or rate limiting.
func main() {
	port := getenv("CATALOG_SERVICE_PORT", "5000")
	uploadDir := getenv("UPLOAD_DIR", "uploads")

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	sink, err := assets.NewFileSink(uploadDir, "/uploads")
	if err != nil {
		log.Fatal(err)
	}

	var repo repository.Repository = repository.NewMemoryRepo()
	if uri := os.Getenv("MONGODB_URI"); uri != "" {
		ctx := context.Background()
		client, err := database.ConnectMongo(ctx, uri, 10*time.Second)
		if err != nil {
			log.Printf("warning: cannot connect to MongoDB (%v), using memory-backed repo", err)
		} else if mrepo, err := repository.NewMongoRepo(ctx, client.Database(getenv("MONGODB_DATABASE", "toyfactory"))); err != nil {
			log.Printf("warning: cannot prepare MongoDB collections (%v), using memory-backed repo", err)
		} else {
			repo = mrepo
		}
	}
	if os.Getenv("CATALOG_SEED") != "false" {
		if err := bootstrap.SeedDemo(context.Background(), repo); err != nil {
			log.Printf("warning: %v", err)
		}
	}

	handler.RegisterProjectRoutes(r, service.New(repo, sink), assets.DefaultMaxUploadBytes)
	handler.RegisterAssetRoutes(r, sink, "/uploads")

	log.Printf("catalog service listening on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
