package main

import (
	"log"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/pkg/database"
	"ai-assistant-be/pkg/embedding"
	"ai-assistant-be/pkg/store"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type seedDoc struct {
	partition string
	userId    string
	content   string
	topic     string
}

// Seeds a demo company collection with a handful of documents so the chat
// flow has something to retrieve. Embeddings are generated inline, no embed
// pipeline involved.
func main() {
	cfg := config.Load()

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	var provider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "gemini" {
		provider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	} else {
		provider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	}

	companyId := "demo-company"
	docs := []seedDoc{
		{store.PartitionLive, "", "Our support team is available Monday through Friday, 9am to 5pm CET.", "hours"},
		{store.PartitionLive, "", "Password resets are self-service: use the 'Forgot password' link on the login page.", "account"},
		{store.PartitionLive, "", "Standard shipping takes 3-5 business days within the EU.", "shipping"},
		{store.PartitionCorrections, "", "Correction: express shipping is 1-2 business days, not same-day.", "shipping"},
		{store.PartitionFeedback, "demo-user", "User prefers short answers without greetings.", "style"},
	}

	color.Cyan("Seeding %d documents for company '%s'...", len(docs), companyId)

	for i, d := range docs {
		res, err := provider.Generate(d.content, embedding.TaskRetrievalDocument)
		if err != nil {
			color.Red("  [%d] embedding failed: %v", i, err)
			continue
		}

		row := &entity.CompanyDocument{
			Id:         uuid.New(),
			CompanyId:  companyId,
			Partition:  d.partition,
			UserId:     d.userId,
			ExternalId: uuid.NewString(),
			Content:    d.content,
			Metadata:   datatypes.JSONMap{"topic": d.topic},
			Embedding:  pgvector.NewVector(res.Embedding.Values),
			Embedded:   true,
		}
		if err := db.Create(row).Error; err != nil {
			color.Red("  [%d] insert failed: %v", i, err)
			continue
		}
		color.Green("  [%d] %s/%s: %.60s", i, d.partition, d.topic, d.content)
	}

	color.Cyan("Seed complete.")
}
