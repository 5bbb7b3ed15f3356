package gmail

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/internal/domain/repository"
	"travelscan-service/pkg/logger"

	"golang.org/x/oauth2"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

// InboxService polls a Gmail inbox for travel-document scans sent in as
// attachments and stores each one as a pending scan document
type InboxService struct {
	gmailService *gmail.Service
	documentRepo repository.DocumentRepository
	logger       logger.Logger
	pollInterval time.Duration
}

// NewInboxService creates a new Gmail inbox service
func NewInboxService(ctx context.Context, tokenSource oauth2.TokenSource, documentRepo repository.DocumentRepository, logger logger.Logger, pollInterval time.Duration) (*InboxService, error) {
	service, err := gmail.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, err
	}

	return &InboxService{
		gmailService: service,
		documentRepo: documentRepo,
		logger:       logger,
		pollInterval: pollInterval,
	}, nil
}

// FetchDocuments fetches new scan attachments from the inbox
func (s *InboxService) FetchDocuments(ctx context.Context) error {
	lastDoc, _ := s.documentRepo.GetLastDocument(ctx)
	var fetchFrom time.Time
	var hasLastDoc bool

	if lastDoc != nil && !lastDoc.ReceivedAt.IsZero() {
		fetchFrom = lastDoc.ReceivedAt
		hasLastDoc = true
		s.logger.Info("Using last received document time",
			"lastReceivedTime", fetchFrom.Format("2006-01-02 15:04:05 UTC"))
	} else {
		// Default starting point
		fetchFrom = time.Now().AddDate(0, 0, -30)
		s.logger.Info("No previous documents, using default start date",
			"startDate", fetchFrom.Format("2006-01-02 15:04:05 UTC"))
	}

	queryDate := fetchFrom
	if hasLastDoc {
		// Go back 3 days to catch any messages we might have missed
		queryDate = fetchFrom.AddDate(0, 0, -3)
	}

	query := fmt.Sprintf("has:attachment after:%s", queryDate.Format("2006/01/02"))
	s.logger.Info("Querying Gmail", "query", query)

	resp, err := s.gmailService.Users.Messages.List("me").Q(query).Do()
	if err != nil {
		s.logger.Error("Failed to list messages", "error", err)
		return err
	}

	if len(resp.Messages) == 0 {
		s.logger.Info("No new messages found")
		return nil
	}

	newDocsCount := 0
	skippedExistingCount := 0

	for _, msg := range resp.Messages {
		fullMsg, err := s.gmailService.Users.Messages.Get("me", msg.Id).Do()
		if err != nil {
			s.logger.Error("Failed to get message", "messageId", msg.Id, "error", err)
			continue
		}

		messageTime := time.Unix(0, fullMsg.InternalDate*int64(time.Millisecond))
		if hasLastDoc && !messageTime.After(fetchFrom) {
			continue
		}

		docs, err := s.convertToDocuments(fullMsg, messageTime)
		if err != nil {
			s.logger.Error("Failed to convert message", "messageId", msg.Id, "error", err)
			continue
		}

		if len(docs) == 0 {
			s.logger.Debug("Message carries no scan attachments", "messageId", msg.Id)
			continue
		}

		// Batch existence check keeps re-polled messages out of the store
		docIDs := make([]string, len(docs))
		for i, doc := range docs {
			docIDs[i] = doc.DocumentID
		}
		existing, err := s.documentRepo.FindByDocumentIDs(ctx, docIDs)
		if err != nil {
			s.logger.Error("Failed to batch check existing documents", "error", err)
			existing = make(map[string]*entity.ScanDocument)
		}

		for _, doc := range docs {
			if _, exists := existing[doc.DocumentID]; exists {
				skippedExistingCount++
				continue
			}

			s.logger.Info("Storing new scan attachment",
				"documentId", doc.DocumentID,
				"batchId", doc.BatchID,
				"filename", doc.Filename)

			if err := s.documentRepo.Save(ctx, doc); err != nil {
				s.logger.Error("Failed to save document", "documentId", doc.DocumentID, "error", err)
				continue
			}
			newDocsCount++
		}
	}

	s.logger.Info("Inbox fetch completed",
		"totalFromGmail", len(resp.Messages),
		"alreadyInDB", skippedExistingCount,
		"newDocuments", newDocsCount)

	return nil
}

// StartPolling starts polling Gmail for new scan attachments
func (s *InboxService) StartPolling(ctx context.Context) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Gmail polling stopped")
			return
		case <-ticker.C:
			s.logger.Info("Polling Gmail for new documents")
			if err := s.FetchDocuments(ctx); err != nil {
				s.logger.Error("Error polling Gmail", "error", err)
			}
		}
	}
}

// isScanAttachment reports whether an attachment looks like a document scan
func isScanAttachment(mimeType string) bool {
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		return true
	case mimeType == "application/pdf":
		return true
	}
	return false
}

// batchIDFromSubject derives the batch a mailed-in scan belongs to. A
// "[batch:xyz]" tag in the subject wins; otherwise each message is its own
// batch.
func batchIDFromSubject(subject, messageID string) string {
	lower := strings.ToLower(subject)
	if idx := strings.Index(lower, "[batch:"); idx >= 0 {
		rest := lower[idx+len("[batch:"):]
		if end := strings.Index(rest, "]"); end > 0 {
			return strings.TrimSpace(rest[:end])
		}
	}
	return "mail-" + messageID
}

// convertToDocuments extracts scan attachments from a Gmail message
func (s *InboxService) convertToDocuments(msg *gmail.Message, receivedAt time.Time) ([]*entity.ScanDocument, error) {
	subject := ""
	for _, header := range msg.Payload.Headers {
		if header.Name == "Subject" {
			subject = header.Value
			break
		}
	}

	batchID := batchIDFromSubject(subject, msg.Id)

	var docs []*entity.ScanDocument
	for i, part := range msg.Payload.Parts {
		if part.Filename == "" || part.Body == nil || !isScanAttachment(part.MimeType) {
			continue
		}

		var data []byte
		var err error
		if part.Body.Data != "" {
			data, err = base64.URLEncoding.DecodeString(part.Body.Data)
			if err != nil {
				s.logger.Error("Failed to decode attachment", "filename", part.Filename, "error", err)
				continue
			}
		} else if part.Body.AttachmentId != "" {
			body, err := s.gmailService.Users.Messages.Attachments.Get("me", msg.Id, part.Body.AttachmentId).Do()
			if err != nil {
				s.logger.Error("Failed to fetch attachment body", "filename", part.Filename, "error", err)
				continue
			}
			data, err = base64.URLEncoding.DecodeString(body.Data)
			if err != nil {
				s.logger.Error("Failed to decode attachment body", "filename", part.Filename, "error", err)
				continue
			}
		}

		if len(data) == 0 {
			continue
		}

		docs = append(docs, &entity.ScanDocument{
			DocumentID:    fmt.Sprintf("%s-%d", msg.Id, i),
			BatchID:       batchID,
			Filename:      part.Filename,
			ContentType:   part.MimeType,
			Source:        entity.SourceMailbox,
			Image:         data,
			ReceivedAt:    receivedAt,
			ProcessStatus: entity.StatusPending,
		})
	}

	return docs, nil
}
