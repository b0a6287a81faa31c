// internal/tools/docsearch/docsearch.go
package docsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"agri-intelligence/internal/common/errors"
	"agri-intelligence/internal/common/logger"
	"agri-intelligence/internal/tools"

	"github.com/elastic/go-elasticsearch/v8"
)

// Document is one retrieved knowledge-base passage. DocumentText is capped at
// 500 characters so fused context stays bounded.
type Document struct {
	DocumentText   string  `json:"document_text"`
	SourceFile     string  `json:"source_file"`
	RelevanceScore float64 `json:"relevance_score"`
}

// Output is the doc search tool's result payload.
type Output struct {
	Query     string     `json:"query"`
	Documents []Document `json:"documents"`
}

const (
	defaultK        = 3
	snippetMaxChars = 500
)

// Tool retrieves agricultural advisory passages from the Elasticsearch
// knowledge index.
type Tool struct {
	es     *elasticsearch.Client
	index  string
	logger logger.Logger
}

func New(es *elasticsearch.Client, index string, log logger.Logger) *Tool {
	if index == "" {
		index = "agri_documents"
	}
	return &Tool{es: es, index: index, logger: log}
}

func (t *Tool) Name() string { return tools.ToolDocSearch }

func (t *Tool) Run(ctx context.Context, req *tools.Request) (interface{}, error) {
	category := strings.ReplaceAll(string(req.Classification.PrimaryCategory), "_", " ")
	query := category + " farming advice"
	if req.Commodity != "" {
		query += " " + req.Commodity
	}

	documents, err := t.Search(ctx, query, defaultK)
	if err != nil {
		return nil, err
	}
	return &Output{Query: query, Documents: documents}, nil
}

// Search runs a full-text match against the document index and returns the
// top k passages.
func (t *Tool) Search(ctx context.Context, query string, k int) ([]Document, error) {
	if k <= 0 {
		k = defaultK
	}

	body := map[string]interface{}{
		"size": k,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"document_text": query,
			},
		},
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, errors.NewSearchQueryFailedError("document_search", err)
	}

	res, err := t.es.Search(
		t.es.Search.WithContext(ctx),
		t.es.Search.WithIndex(t.index),
		t.es.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError("document_search", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return nil, errors.NewIndexNotFoundError(t.index)
		}
		return nil, errors.NewSearchQueryFailedError("document_search",
			fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Score  float64 `json:"_score"`
				Source struct {
					DocumentText string `json:"document_text"`
					SourceFile   string `json:"source_file"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError("document_search", err)
	}

	documents := make([]Document, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		text := hit.Source.DocumentText
		if len(text) > snippetMaxChars {
			text = text[:snippetMaxChars]
		}
		documents = append(documents, Document{
			DocumentText:   text,
			SourceFile:     hit.Source.SourceFile,
			RelevanceScore: hit.Score,
		})
	}

	t.logger.Debug("document search completed", map[string]interface{}{
		"query": query, "hits": len(documents),
	})
	return documents, nil
}
