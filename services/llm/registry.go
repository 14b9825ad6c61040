package llm

import (
	"errors"
	"fmt"
)

// ProviderID identifies a supported LLM vendor.
type ProviderID string

const (
	ProviderAnthropic ProviderID = "anthropic"
	ProviderGroq      ProviderID = "groq"
	ProviderOpenAI    ProviderID = "openai"
	ProviderGrok      ProviderID = "grok"
)

// Provider describes one vendor entry in the static registry.
//
// Models is ordered; the first entry is the default model. EnvKey names the
// credential variable that gates availability. The registry itself never
// reads the environment, it is handed a credentials map at construction.
type Provider struct {
	ID     ProviderID `json:"id"`
	Name   string     `json:"name"`
	Models []string   `json:"models"`
	EnvKey string     `json:"-"`
}

// ResolveModel returns requested if it is one of the provider's models,
// otherwise the provider default. Unknown models fall back silently; the
// pipeline echoes the resolved model so callers can see what actually ran.
func (p Provider) ResolveModel(requested string) string {
	for _, m := range p.Models {
		if m == requested {
			return m
		}
	}
	return p.Models[0]
}

// providerTable is the process-wide provider catalog, constant for the
// process lifetime.
var providerTable = []Provider{
	{
		ID:     ProviderAnthropic,
		Name:   "Anthropic (Claude)",
		Models: []string{"claude-opus-4-20250514", "claude-sonnet-4-20250514", "claude-haiku-4-20250414", "claude-3.5-sonnet-20241022"},
		EnvKey: "ANTHROPIC_API_KEY",
	},
	{
		ID:     ProviderGroq,
		Name:   "Groq (Llama / Mixtral)",
		Models: []string{"llama-3.3-70b-versatile", "llama-3.1-8b-instant", "mixtral-8x7b-32768"},
		EnvKey: "GROQ_API_KEY",
	},
	{
		ID:     ProviderOpenAI,
		Name:   "OpenAI (GPT)",
		Models: []string{"gpt-4.1", "gpt-4.1-mini", "gpt-4.1-nano", "gpt-4o", "gpt-4o-mini", "o3-mini"},
		EnvKey: "OPENAI_API_KEY",
	},
	{
		ID:     ProviderGrok,
		Name:   "Grok (xAI)",
		Models: []string{"grok-3", "grok-3-mini"},
		EnvKey: "XAI_API_KEY",
	},
}

// Registry resolution failures. ErrNoProviderConfigured means zero
// credentials were supplied; ErrProviderUnavailable means a specific
// requested provider has no credential.
var (
	ErrNoProviderConfigured = errors.New("no LLM provider configured: set at least one of ANTHROPIC_API_KEY, GROQ_API_KEY, OPENAI_API_KEY, XAI_API_KEY")
	ErrProviderUnavailable  = errors.New("provider is not configured")
)

// Registry is the credential-gated view over the provider catalog.
// Immutable after construction and safe for concurrent use.
type Registry struct {
	providers []Provider
	creds     map[ProviderID]string
}

// NewRegistry builds a Registry from injected credentials, keyed by
// provider id. Empty values are treated as absent.
func NewRegistry(creds map[ProviderID]string) *Registry {
	clean := make(map[ProviderID]string, len(creds))
	for id, key := range creds {
		if key != "" {
			clean[id] = key
		}
	}
	return &Registry{providers: providerTable, creds: clean}
}

// Available returns the providers whose credential is present, in catalog
// order.
func (r *Registry) Available() []Provider {
	var out []Provider
	for _, p := range r.providers {
		if r.creds[p.ID] != "" {
			out = append(out, p)
		}
	}
	return out
}

// Resolve picks the provider for a request: the requested one if available,
// the first available one if no preference was given.
func (r *Registry) Resolve(requested string) (Provider, error) {
	available := r.Available()
	if len(available) == 0 {
		return Provider{}, ErrNoProviderConfigured
	}
	if requested == "" {
		return available[0], nil
	}
	for _, p := range available {
		if string(p.ID) == requested {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("provider %q: %w", requested, ErrProviderUnavailable)
}

// ClientFor constructs the completion client for a resolved provider and
// model.
func (r *Registry) ClientFor(p Provider, model string) (Client, error) {
	key := r.creds[p.ID]
	if key == "" {
		return nil, fmt.Errorf("provider %q: %w", p.ID, ErrProviderUnavailable)
	}
	switch p.ID {
	case ProviderAnthropic:
		return NewAnthropicClient(key, model), nil
	case ProviderGroq:
		return NewGroqClient(key, model), nil
	case ProviderOpenAI:
		return NewOpenAIClient(key, model), nil
	case ProviderGrok:
		return NewGrokClient(key, model), nil
	default:
		return nil, fmt.Errorf("unknown provider: %s", p.ID)
	}
}

// Credential exposes the raw credential for a provider. The moderation
// guard uses this to share the Groq key without re-reading configuration.
func (r *Registry) Credential(id ProviderID) string {
	return r.creds[id]
}
