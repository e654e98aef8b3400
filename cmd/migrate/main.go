package main

import (
	"log"
	"os"

	"kb-platform-be/internal/model"
	"kb-platform-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting Authoritative GORM Migration...")

	// 3. Pre-Migration: Extensions (Things GORM AutoMigrate doesn't do)
	log.Println("Step 1: Setting up Extensions...")

	setupSQL := []string{
		`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
		`CREATE EXTENSION IF NOT EXISTS vector;`,
		`CREATE EXTENSION IF NOT EXISTS pg_trgm;`,
	}

	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Println("Step 2: Running AutoMigrate...")

	models := []interface{}{
		&model.File{},
		&model.KnowledgeBase{},
		&model.KnowledgeBaseFile{},
		&model.Document{},
		&model.DocumentChunk{},
		&model.Chunk{},
		&model.Embedding{},
		&model.AsyncTask{},
	}

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: search indexes AutoMigrate cannot express
	log.Println("Step 3: Creating search indexes...")

	postMigrationSQL := []string{
		// ANN index for the vector search leg
		`CREATE INDEX IF NOT EXISTS idx_embeddings_embeddings_hnsw
		 ON embeddings USING hnsw (embeddings vector_cosine_ops);`,

		// Trigram index for word_similarity on the keyword leg
		`CREATE INDEX IF NOT EXISTS idx_chunks_text_trgm
		 ON chunks USING gin (text gin_trgm_ops);`,

		// Join-chain indexes for tenant-scoped search
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_chunk_id ON document_chunks (chunk_id);`,
		`CREATE INDEX IF NOT EXISTS idx_document_chunks_document_id ON document_chunks (document_id);`,
		`CREATE INDEX IF NOT EXISTS idx_documents_file_id ON documents (file_id);`,
		`CREATE INDEX IF NOT EXISTS idx_knowledge_base_files_file_id ON knowledge_base_files (file_id);`,
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
