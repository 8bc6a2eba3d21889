package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/tidwall/gjson"

	apierrors "github.com/diogo/gemchat/internal/errors"
	"github.com/diogo/gemchat/internal/models"
)

// Scanner sizing for the SSE body; a single chunk can carry large parts.
const (
	scanBufferSize = 64 * 1024
	maxChunkSize   = 1024 * 1024
)

// maxErrorBodySize caps how much of a rejected response is kept for
// diagnostics.
const maxErrorBodySize = 8 * 1024

// Request payload shapes, the subset of the generateContent schema this
// client sends.
type genContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []genPart `json:"parts"`
}

type genPart struct {
	Text string `json:"text"`
}

type genConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type genRequest struct {
	Contents          []genContent `json:"contents"`
	SystemInstruction *genContent  `json:"systemInstruction,omitempty"`
	GenerationConfig  *genConfig   `json:"generationConfig,omitempty"`
}

// blockedFinishReasons are finish reasons that mean the service refused to
// complete the reply.
var blockedFinishReasons = map[string]bool{
	"SAFETY":             true,
	"RECITATION":         true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
}

// Stream opens one streaming completion call and returns the fragment and
// error channels. Fragments are delivered in arrival order; at most one
// terminal error is sent; both channels are closed when the stream ends.
// The prior turns travel as context and the prompt as the final user
// content, with the client's system instruction alongside.
func (c *Client) Stream(ctx context.Context, prompt string, history []models.Message) (<-chan string, <-chan error) {
	contentChan := make(chan string, 100)
	errChan := make(chan error, 1)

	go func() {
		defer close(contentChan)
		defer close(errChan)

		body, err := c.buildPayload(prompt, history)
		if err != nil {
			errChan <- fmt.Errorf("failed to build request: %w", err)
			return
		}

		url := fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", c.baseURL, c.Model().Name)
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			errChan <- fmt.Errorf("failed to create request: %w", err)
			return
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "text/event-stream")
		// The key travels in a header so transport errors never echo it
		// back as part of the URL.
		req.Header.Set("x-goog-api-key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			errChan <- fmt.Errorf("request failed: %w", err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			errChan <- readAPIError(resp)
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, scanBufferSize), maxChunkSize)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}
			if data == "[DONE]" {
				return
			}

			fragment, err := parseChunk(data)
			if err != nil {
				errChan <- err
				return
			}
			if fragment == "" {
				continue
			}

			select {
			case contentChan <- fragment:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			errChan <- fmt.Errorf("reading stream: %w", err)
		}
	}()

	return contentChan, errChan
}

// buildPayload assembles the request body from the history and the new
// prompt.
func (c *Client) buildPayload(prompt string, history []models.Message) ([]byte, error) {
	contents := make([]genContent, 0, len(history)+1)
	for _, message := range history {
		contents = append(contents, genContent{
			Role:  string(message.Role),
			Parts: []genPart{{Text: message.Text}},
		})
	}
	contents = append(contents, genContent{
		Role:  string(models.RoleUser),
		Parts: []genPart{{Text: prompt}},
	})

	request := genRequest{
		Contents: contents,
		GenerationConfig: &genConfig{
			Temperature:     c.Temperature(),
			MaxOutputTokens: models.DefaultMaxOutputTokens,
		},
	}
	if instruction := c.SystemInstruction(); instruction != "" {
		request.SystemInstruction = &genContent{
			Parts: []genPart{{Text: instruction}},
		}
	}

	return json.Marshal(request)
}

// parseChunk extracts the text delta from one SSE payload. A chunk that is
// not valid JSON fails the whole exchange; a valid chunk without candidate
// text (usage metadata, role-only frames) yields an empty fragment.
func parseChunk(data string) (string, error) {
	if !gjson.Valid(data) {
		return "", fmt.Errorf("%w: %.80s", apierrors.ErrMalformedChunk, data)
	}
	root := gjson.Parse(data)

	if errObj := root.Get("error"); errObj.Exists() {
		return "", apierrors.NewAPIError(int(errObj.Get("code").Int()), errObj.Get("message").String(), data)
	}
	if reason := root.Get("promptFeedback.blockReason"); reason.Exists() {
		return "", apierrors.NewBlockedError(reason.String())
	}
	if reason := root.Get("candidates.0.finishReason").String(); blockedFinishReasons[reason] {
		return "", apierrors.NewBlockedError(reason)
	}

	var fragment strings.Builder
	root.Get("candidates.0.content.parts").ForEach(func(_, part gjson.Result) bool {
		fragment.WriteString(part.Get("text").String())
		return true
	})
	return fragment.String(), nil
}

// readAPIError turns a non-200 response into the matching error type.
func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
	message := gjson.GetBytes(body, "error.message").String()
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return apierrors.NewUsageLimitError(message)
	}
	return apierrors.NewAPIError(resp.StatusCode, message, string(body))
}
