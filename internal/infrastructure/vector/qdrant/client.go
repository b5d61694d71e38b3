package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/escuelasabatica/lesson-assistant/internal/core/domain"
)

// Client talks to Qdrant over its REST API. One collection holds one page
// of lesson material per point.
type Client struct {
	baseURL    string
	collection string
	apiKey     string
	httpClient *http.Client

	ensureMu          sync.Mutex
	ensuredCollection bool
	ensuredVectorSize int
}

func New(baseURL, collection, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		collection: collection,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) Collection() string {
	return c.collection
}

func (c *Client) UpsertPassages(ctx context.Context, doc *domain.LessonDocument, passages []domain.Passage, vectors [][]float32) error {
	if len(passages) == 0 || len(vectors) == 0 {
		return nil
	}
	if len(passages) != len(vectors) {
		return fmt.Errorf("passages/vectors mismatch")
	}

	if err := c.ensureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	type point struct {
		ID      string         `json:"id"`
		Vector  []float32      `json:"vector"`
		Payload map[string]any `json:"payload"`
	}

	points := make([]point, 0, len(passages))
	for i, passage := range passages {
		metadata := make(map[string]any, len(passage.Metadata)+1)
		for k, v := range passage.Metadata {
			metadata[k] = v
		}
		metadata["doc_id"] = doc.ID
		points = append(points, point{
			ID:     uuid.NewString(),
			Vector: vectors[i],
			Payload: map[string]any{
				"content":  passage.Content,
				"metadata": metadata,
			},
		})
	}

	body, err := json.Marshal(map[string]any{"points": points})
	if err != nil {
		return fmt.Errorf("marshal upsert body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points?wait=true", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("qdrant upsert request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("qdrant upsert status: %s", resp.Status)
	}
	return nil
}

func (c *Client) Search(ctx context.Context, queryVector []float32, limit int) ([]domain.Candidate, error) {
	body, err := json.Marshal(map[string]any{
		"vector":       queryVector,
		"limit":        limit,
		"with_payload": true,
		"with_vector":  false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("qdrant search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant search status: %s", resp.Status)
	}

	var searchResp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&searchResp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	out := make([]domain.Candidate, 0, len(searchResp.Result))
	for _, r := range searchResp.Result {
		out = append(out, domain.Candidate{
			Passage: decodePassage(r.ID, r.Payload),
			Score:   r.Score,
			Source:  domain.SourceVector,
		})
	}
	return out, nil
}

// ScrollAll lists stored passages without similarity ranking, up to cap
// points. It backs the exhaustive date lookup, so order follows storage
// order rather than relevance.
func (c *Client) ScrollAll(ctx context.Context, cap int) ([]domain.Passage, error) {
	body, err := json.Marshal(map[string]any{
		"limit":        cap,
		"with_payload": true,
		"with_vector":  false,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal scroll body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/scroll", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("qdrant scroll request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("qdrant scroll status: %s", resp.Status)
	}

	var scrollResp struct {
		Result struct {
			Points []struct {
				ID      any            `json:"id"`
				Payload map[string]any `json:"payload"`
			} `json:"points"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&scrollResp); err != nil {
		return nil, fmt.Errorf("decode scroll response: %w", err)
	}

	out := make([]domain.Passage, 0, len(scrollResp.Result.Points))
	for _, p := range scrollResp.Result.Points {
		out = append(out, decodePassage(p.ID, p.Payload))
	}
	return out, nil
}

func (c *Client) Healthy(ctx context.Context) error {
	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("create health request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant health request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("qdrant health status: %s", resp.Status)
	}
	return nil
}

func (c *Client) ensureCollection(ctx context.Context, vectorSize int) error {
	c.ensureMu.Lock()
	if c.ensuredCollection && c.ensuredVectorSize == vectorSize {
		c.ensureMu.Unlock()
		return nil
	}
	c.ensureMu.Unlock()

	body, err := json.Marshal(map[string]any{
		"vectors": map[string]any{
			"size":     vectorSize,
			"distance": "Cosine",
		},
	})
	if err != nil {
		return fmt.Errorf("marshal create collection body: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s", c.baseURL, c.collection)
	resp, err := c.do(ctx, http.MethodPut, url, body)
	if err != nil {
		return fmt.Errorf("qdrant ensure collection request: %w", err)
	}
	defer resp.Body.Close()

	// 200/201 for create, 409 if already exists (depends on version/config).
	if resp.StatusCode == http.StatusConflict {
		c.markCollectionEnsured(vectorSize)
		return nil
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if msg := strings.TrimSpace(string(body)); msg != "" {
			return fmt.Errorf("qdrant ensure collection status: %s: %s", resp.Status, msg)
		}
		return fmt.Errorf("qdrant ensure collection status: %s", resp.Status)
	}
	c.markCollectionEnsured(vectorSize)
	return nil
}

func (c *Client) markCollectionEnsured(vectorSize int) {
	c.ensureMu.Lock()
	defer c.ensureMu.Unlock()
	c.ensuredCollection = true
	c.ensuredVectorSize = vectorSize
}

func (c *Client) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setHeaders(req)
	return c.httpClient.Do(req)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}
}

// decodePassage reads the stored payload shape. Older collections stored
// the page text under "text"; newer ones use "content" plus a nested
// metadata object.
func decodePassage(id any, payload map[string]any) domain.Passage {
	content := getStringPayload(payload, "content")
	if content == "" {
		content = getStringPayload(payload, "text")
	}

	metadata := map[string]string{}
	if raw, ok := payload["metadata"].(map[string]any); ok {
		for k, v := range raw {
			metadata[k] = stringifyPayloadValue(v)
		}
	}

	return domain.Passage{
		ID:       stringifyPayloadValue(id),
		Content:  content,
		Metadata: metadata,
	}
}

func getStringPayload(payload map[string]any, key string) string {
	v, ok := payload[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if ok {
		return s
	}
	return stringifyPayloadValue(v)
}

func stringifyPayloadValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}
