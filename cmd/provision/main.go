// Command provision seeds a tenant project into the catalog. Projects are
// provisioned out-of-band; the server only ever reads them.
//
//	provision -key myapp [-ip 203.0.113.7]
//	provision -delete -key myapp
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"fileconvert-backend/internal/config"
	"fileconvert-backend/internal/database"
	"fileconvert-backend/internal/models"
)

func main() {
	key := flag.String("key", "", "public project key (required)")
	ip := flag.String("ip", "0.0.0.0", "authorized caller IP (informational)")
	del := flag.Bool("delete", false, "delete the project and every artifact it owns")
	flag.Parse()

	if *key == "" {
		log.Fatal("-key is required")
	}

	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
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

	if *del {
		if err := dbClient.DeleteProject(*key); err != nil {
			log.Fatalf("Failed to delete project: %v", err)
		}
		fmt.Printf("deleted project %q and its artifacts\n", *key)
		return
	}

	if existing, err := dbClient.GetProjectByKey(*key); err != nil {
		log.Fatalf("Failed to check project: %v", err)
	} else if existing != nil {
		log.Fatalf("Project %q already exists", *key)
	}

	project := &models.Project{
		Key:    *key,
		Secret: uuid.New().String(),
		AuthIP: *ip,
	}
	if _, err := dbClient.CreateProject(project); err != nil {
		log.Fatalf("Failed to create project: %v", err)
	}

	fmt.Printf("key:    %s\nsecret: %s\n", project.Key, project.Secret)
}
