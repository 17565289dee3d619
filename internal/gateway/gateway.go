// Package gateway wires configuration into a running backend: the model
// adapter, the tool registry, the vector index and the per-session chat
// services.
package gateway

import (
	"fmt"

	"medichat/internal/agent"
	"medichat/internal/chat"
	"medichat/internal/config"
	"medichat/internal/embed"
	"medichat/internal/index"
	"medichat/internal/ingest"
	"medichat/internal/llm"
	"medichat/internal/predict"
	"medichat/internal/tools"

	"github.com/tmc/langchaingo/embeddings"
)

// Gateway holds the process-wide, immutable-after-init handles shared by
// every session.
type Gateway struct {
	cfg      *config.Config
	adapter  chat.Adapter
	registry *tools.Registry
	ingestor *ingest.Ingestor
}

// New builds the full dependency graph from configuration. Everything
// that can fail, fails here at startup.
func New(cfg *config.Config) (*Gateway, error) {
	adapter, err := llm.NewAdapter(llm.Provider(cfg.Provider), cfg.Model, cfg.OllamaURL, cfg.OpenAIKey)
	if err != nil {
		return nil, fmt.Errorf("initialize model adapter: %w", err)
	}

	model, err := predict.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}

	embedder, err := embed.NewEmbedder(embed.NewJinaClient(cfg.JinaKey))
	if err != nil {
		return nil, fmt.Errorf("initialize embedder: %w", err)
	}

	idx := index.NewPinecone(cfg.PineconeHost, cfg.PineconeKey)

	return assemble(cfg, adapter, model, embedder, idx)
}

// NewWithDeps builds a gateway over injected collaborators. Tests use it
// to swap in a scripted adapter, a fixed classifier and the in-memory
// index.
func NewWithDeps(cfg *config.Config, adapter chat.Adapter, model predict.Classifier, embedder embeddings.Embedder, idx index.Index) (*Gateway, error) {
	return assemble(cfg, adapter, model, embedder, idx)
}

func assemble(cfg *config.Config, adapter chat.Adapter, model predict.Classifier, embedder embeddings.Embedder, idx index.Index) (*Gateway, error) {
	registry := tools.NewRegistry()
	if err := registry.Register(predict.NewTool(model)); err != nil {
		return nil, err
	}
	if err := registry.Register(ingest.NewRetrieveTool(embedder, idx)); err != nil {
		return nil, err
	}

	splitter := ingest.NewWordSplitter(cfg.ChunkSize, cfg.ChunkOverlap)

	return &Gateway{
		cfg:      cfg,
		adapter:  adapter,
		registry: registry,
		ingestor: ingest.NewIngestor(embedder, idx, splitter),
	}, nil
}

// Ingestor returns the shared document ingestor.
func (g *Gateway) Ingestor() *ingest.Ingestor { return g.ingestor }

// Config returns the loaded configuration.
func (g *Gateway) Config() *config.Config { return g.cfg }

// NewSession creates the chat service for one client connection: a fresh
// seeded transcript, the configured routing policy, and the connection's
// frame emitter. Sessions share the registry and adapter but never
// transcript state.
func (g *Gateway) NewSession(emitter chat.Emitter) *chat.Service {
	var router chat.Router
	switch g.cfg.Router {
	case config.RouterSelector:
		router = agent.NewSelectorRouter(g.adapter, agent.MedicalAssistant(), agent.SummaryAgent())
	default:
		router = agent.NewInstructionRouter(agent.Manager())
	}

	transcript := chat.NewTranscript(agent.SessionRules)
	return chat.NewService(g.adapter, g.registry, router, transcript, emitter,
		chat.WithMaxRounds(g.cfg.MaxToolRounds))
}
