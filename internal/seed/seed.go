// Package seed loads sample document graphs from YAML or JSON files and
// applies them through the graph engine.
package seed

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/TheCaptain1810/neo4j-ogm/internal/graph"
	"github.com/TheCaptain1810/neo4j-ogm/internal/models"
)

//go:embed sample.yaml
var sampleYAML []byte

// Bundle is a set of entities to load. Independent entities are applied
// before the documents that reference them.
type Bundle struct {
	Users       []models.User             `json:"users,omitempty"`
	Folders     []models.Folder           `json:"folders,omitempty"`
	Sessions    []models.Session          `json:"sessions,omitempty"`
	Classifiers []models.ClassifierBundle `json:"classifiers,omitempty"`
	Enrichers   []models.Enricher         `json:"enrichers,omitempty"`
	Documents   []models.DocumentGraph    `json:"documents,omitempty"`
}

// Format is the encoding of a bundle file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Default returns the embedded sample bundle.
func Default() (*Bundle, error) {
	return Parse(sampleYAML, FormatYAML)
}

// Load reads a bundle from a .yaml, .yml or .json file.
func Load(path string) (*Bundle, error) {
	var format Format
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("unsupported seed file %q (want .yaml, .yml or .json)", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data, format)
}

// Parse decodes a bundle. YAML is converted to JSON first so both formats
// share the json field names of the models.
func Parse(data []byte, format Format) (*Bundle, error) {
	switch format {
	case FormatJSON:
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parse seed yaml: %w", err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("convert seed yaml: %w", err)
		}
		data = converted
	default:
		return nil, fmt.Errorf("unknown seed format %q", format)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var b Bundle
	if err := dec.Decode(&b); err != nil {
		return nil, fmt.Errorf("decode seed bundle: %w", err)
	}
	return &b, nil
}

// Report collects the outcome of applying a bundle.
type Report struct {
	Upserts   []models.UpsertResult `json:"upserts"`
	Documents []models.CreateResult `json:"documents"`
}

// Created counts nodes written for the first time.
func (r *Report) Created() int {
	n := 0
	for _, u := range r.Upserts {
		if u.Created() {
			n++
		}
	}
	for _, d := range r.Documents {
		for _, u := range d.Nodes {
			if u.Created() {
				n++
			}
		}
	}
	return n
}

// Apply writes b through e. Each step is atomic on its own; a failing step
// stops the run and earlier steps stay applied. Applying the same bundle
// again creates nothing new.
func Apply(ctx context.Context, e *graph.Engine, b *Bundle) (*Report, error) {
	report := &Report{Upserts: []models.UpsertResult{}, Documents: []models.CreateResult{}}

	steps := []struct {
		name string
		run  func() ([]models.UpsertResult, error)
	}{
		{"users", func() ([]models.UpsertResult, error) { return e.UpsertUsers(ctx, b.Users) }},
		{"folders", func() ([]models.UpsertResult, error) { return e.UpsertFolders(ctx, b.Folders) }},
		{"sessions", func() ([]models.UpsertResult, error) { return e.UpsertSessions(ctx, b.Sessions) }},
		{"classifiers", func() ([]models.UpsertResult, error) { return e.UpsertClassifiers(ctx, b.Classifiers) }},
		{"enrichers", func() ([]models.UpsertResult, error) { return e.UpsertEnrichers(ctx, b.Enrichers) }},
	}
	for _, step := range steps {
		res, err := step.run()
		if err != nil {
			return report, fmt.Errorf("seed %s: %w", step.name, err)
		}
		report.Upserts = append(report.Upserts, res...)
	}

	for _, g := range b.Documents {
		res, err := e.CreateDocumentGraph(ctx, g)
		if err != nil {
			return report, fmt.Errorf("seed document %q: %w", g.Document.ID, err)
		}
		report.Documents = append(report.Documents, *res)
	}
	return report, nil
}
