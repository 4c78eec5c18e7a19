package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/eventsnap/eventsnap/internal/config"
	log "github.com/sirupsen/logrus"
)

var ErrNotConfigured = fmt.Errorf("vision model API key is not configured")

// systemPrompt instructs the model to answer with a bare JSON object. Models
// still wrap the object in prose often enough that the extraction normalizer
// downstream must not rely on it.
const systemPrompt = `You are an expert at extracting event information from flyers, posters, and images.
Extract the following details and respond ONLY with a valid JSON object:
{
  "title": "Event name/title",
  "date": "Date in YYYY-MM-DD format if possible, otherwise as shown",
  "time": "Start time in HH:MM format (24h) if possible, otherwise as shown",
  "end_time": "End time in HH:MM format if mentioned, empty string if not",
  "location": "Venue/location/address",
  "description": "Brief description or additional details"
}

Rules:
- If a field is not visible or unclear, use an empty string ""
- Try to standardize date to YYYY-MM-DD format when possible
- Try to standardize time to HH:MM 24-hour format when possible
- For description, include any notable details like dress code, RSVP info, contact, etc.
- Respond ONLY with the JSON object, no additional text`

const userPrompt = "Please extract all event details from this flyer/poster image."

type Client interface {
	// ExtractEvent sends the image to the vision model and returns its raw text
	// reply. The reply is not guaranteed to be valid JSON.
	ExtractEvent(ctx context.Context, image []byte, contentType string) (string, error)
}

type ClientImpl struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewClient(cfg config.LLM) *ClientImpl {
	return &ClientImpl{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		model:   cfg.Model,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// ExtractEvent calls the chat-completions endpoint with the flyer image
// embedded as a base64 data URI.
func (c *ClientImpl) ExtractEvent(ctx context.Context, image []byte, contentType string) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	encoded := base64.StdEncoding.EncodeToString(image)
	payload := struct {
		Model    string        `json:"model"`
		Messages []chatMessage `json:"messages"`
	}{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: []contentPart{
				{Type: "text", Text: userPrompt},
				{Type: "image_url", ImageURL: &imageURL{
					URL: fmt.Sprintf("data:%s;base64,%s", contentType, encoded),
				}},
			}},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("Failed to marshal vision request: %v", err)
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		log.Errorf("Failed to create request: %v", err)
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Errorf("Failed to execute request: %v", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("vision API returned non-OK status: %d", resp.StatusCode)
		log.Error(err)
		return "", err
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		log.Errorf("Failed to decode response: %v", err)
		return "", err
	}

	if len(response.Choices) == 0 {
		err := fmt.Errorf("vision API returned no choices")
		log.Error(err)
		return "", err
	}

	return response.Choices[0].Message.Content, nil
}
