// backend-go/cmd/exporter/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/vendorpulse/backend-go/internal/config"
	"github.com/vendorpulse/backend-go/internal/export"
	"github.com/vendorpulse/backend-go/internal/repository/postgres"
	"github.com/vendorpulse/backend-go/internal/storage"
)

// exporter is a small ops server: POST /exports renders the full performance
// history as CSV and uploads it to object storage.
func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	store, err := storage.NewMinioClient(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	vendorRepo := postgres.NewVendorRepository(db)
	historyRepo := postgres.NewPerformanceHistoryRepository(db)
	exporter := export.NewExporter(vendorRepo, historyRepo, store)

	r := mux.NewRouter()

	r.HandleFunc("/exports", func(w http.ResponseWriter, req *http.Request) {
		key, err := exporter.Run(req.Context())
		if err != nil {
			log.Printf("export failed: %v", err)
			http.Error(w, "export failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"object_key": key})
	}).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	port := os.Getenv("EXPORTER_PORT")
	if port == "" {
		port = "8081"
	}

	addr := fmt.Sprintf(":%s", port)
	log.Printf("Exporter starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}
