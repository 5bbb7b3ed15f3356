package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"travelscan-service/internal/domain/entity"
	"travelscan-service/internal/domain/repository"
	"travelscan-service/pkg/logger"
	"travelscan-service/templates"
)

// HTTPVisionRepository sends document images to the external vision service
type HTTPVisionRepository struct {
	logger  logger.Logger
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// NewHTTPVisionRepository creates a new vision service client
func NewHTTPVisionRepository(baseURL, apiKey, model string, logger logger.Logger) repository.VisionRepository {
	return &HTTPVisionRepository{
		logger:  logger,
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type visionRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	Image       string `json:"image"`
	ContentType string `json:"contentType"`
	Filename    string `json:"filename,omitempty"`
}

// ExtractRecord sends one image to the vision service and decodes the
// structured fields from its response
func (r *HTTPVisionRepository) ExtractRecord(ctx context.Context, image []byte, contentType, filename string) (*entity.ExtractedRecord, error) {
	reqBody := visionRequest{
		Model:       r.model,
		Prompt:      templates.BuildExtractionPrompt(filename),
		Image:       base64.StdEncoding.EncodeToString(image),
		ContentType: contentType,
		Filename:    filename,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal vision request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/vision/extract", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	r.logger.Info("Sending document to vision service",
		"filename", filename,
		"contentType", contentType,
		"imageBytes", len(image))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return nil, fmt.Errorf("vision service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool                   `json:"success"`
		Data    entity.ExtractedRecord `json:"data"`
		Error   struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if !response.Success {
		return nil, fmt.Errorf("vision extraction failed: %s (code: %s)", response.Error.Message, response.Error.Code)
	}

	record := response.Data

	r.logger.Info("Extraction received",
		"filename", filename,
		"documentType", record.DocumentType,
		"hasPassportNumber", entity.Present(record.PassportNumber),
		"hasName", entity.Present(record.Name))

	return &record, nil
}
