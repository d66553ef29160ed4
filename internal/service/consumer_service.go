package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/repository"
	"ai-assistant-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed topic: each message names one stored
// document whose embedding is still missing. Embedding failures Nack so the
// message is retried; permanently broken messages are Acked away.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	documents         repository.IDocumentRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	documents repository.IDocumentRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		documents:         documents,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	doc, err := cs.documents.FindById(ctx, payload.DocumentId)
	if err != nil {
		log.Printf("[ERROR] Failed to load document %s: %v", payload.DocumentId, err)
		msg.Nack()
		return
	}
	if doc == nil {
		log.Printf("[WARN] Document %s vanished before embedding", payload.DocumentId)
		msg.Ack()
		return
	}

	res, err := cs.embeddingProvider.Generate(doc.Content, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for document %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	if err := cs.documents.UpdateEmbedding(ctx, doc.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for document %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Document embedded: %s (company=%s partition=%s)", doc.Id, doc.CompanyId, doc.Partition)
	msg.Ack()
}
