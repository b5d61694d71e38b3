package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
	"github.com/escuelasabatica/lesson-assistant/internal/infrastructure/resilience"
)

// Client calls the Gemini generative language REST API. Model names are
// rotated per call so that per-model quota limits spread across the
// configured list.
type Client struct {
	baseURL     string
	apiKey      string
	embedModels []string
	genModels   []string
	httpClient  *http.Client
	executor    *resilience.Executor

	mu          sync.Mutex
	embedCursor int
	genCursor   int
}

func New(baseURL, apiKey string, embedModels, genModels []string, executor *resilience.Executor) *Client {
	if len(embedModels) == 0 {
		embedModels = []string{"models/text-embedding-004"}
	}
	if len(genModels) == 0 {
		genModels = []string{"models/gemini-2.0-flash-exp"}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		embedModels: embedModels,
		genModels:   genModels,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		executor:    executor,
	}
}

func (c *Client) nextEmbedModel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	model := c.embedModels[c.embedCursor%len(c.embedModels)]
	c.embedCursor++
	return model
}

func (c *Client) nextGenModel() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	model := c.genModels[c.genCursor%len(c.genModels)]
	c.genCursor++
	return model
}

type Embedder struct {
	client *Client
}

func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	model := e.client.nextEmbedModel()

	type embedRequest struct {
		Model   string  `json:"model"`
		Content content `json:"content"`
	}
	request := struct {
		Requests []embedRequest `json:"requests"`
	}{}
	for _, text := range texts {
		request.Requests = append(request.Requests, embedRequest{
			Model:   model,
			Content: content{Parts: []part{{Text: text}}},
		})
	}

	var response struct {
		Embeddings []struct {
			Values []float32 `json:"values"`
		} `json:"embeddings"`
	}
	path := fmt.Sprintf("/v1beta/%s:batchEmbedContents", model)
	if err := e.client.postJSON(ctx, path, request, &response, "embed"); err != nil {
		return nil, err
	}

	out := make([][]float32, 0, len(response.Embeddings))
	for _, emb := range response.Embeddings {
		out = append(out, emb.Values)
	}
	return out, nil
}

func (e *Embedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	model := e.client.nextEmbedModel()

	request := struct {
		Model   string  `json:"model"`
		Content content `json:"content"`
	}{
		Model:   model,
		Content: content{Parts: []part{{Text: text}}},
	}

	var response struct {
		Embedding struct {
			Values []float32 `json:"values"`
		} `json:"embedding"`
	}
	path := fmt.Sprintf("/v1beta/%s:embedContent", model)
	if err := e.client.postJSON(ctx, path, request, &response, "embed"); err != nil {
		return nil, err
	}
	if len(response.Embedding.Values) == 0 {
		return nil, fmt.Errorf("empty embedding result")
	}
	return response.Embedding.Values, nil
}

type Generator struct {
	client *Client
}

func NewGenerator(client *Client) *Generator {
	return &Generator{client: client}
}

func (g *Generator) GenerateAnswer(ctx context.Context, question string, passages []domain.Passage) (string, error) {
	return g.client.generateText(ctx, buildAnswerPrompt(question, passages))
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	model := c.nextGenModel()

	request := struct {
		Contents []content `json:"contents"`
	}{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	var response struct {
		Candidates []struct {
			Content content `json:"content"`
		} `json:"candidates"`
	}
	path := fmt.Sprintf("/v1beta/%s:generateContent", model)
	if err := c.postJSON(ctx, path, request, &response, "generate"); err != nil {
		return "", err
	}
	if len(response.Candidates) == 0 || len(response.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty generation result")
	}
	return strings.TrimSpace(response.Candidates[0].Content.Parts[0].Text), nil
}
