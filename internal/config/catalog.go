package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultSystemPrompt is used when the chat config has no system prompt.
	DefaultSystemPrompt = "You are a helpful assistant."

	// DefaultWelcome is used when the chat config has no welcome text.
	DefaultWelcome = "Welcome to the AI chat! Ask me questions or give me instructions and I will do my best to help. " +
		"You can also attach documents that I should take into account when answering."

	// DefaultAPIKeyRef is the vault reference of the model backend API key.
	DefaultAPIKeyRef = "dotenv://OPENAI_API_KEY"
)

// ChatConfig is the chat catalog loaded from YAML.
type ChatConfig struct {
	Model                  ModelSection   `yaml:"model"`
	FileFormatWhitelist    []string       `yaml:"file_format_whitelist"`
	ContextTokenBuffer     int            `yaml:"context_token_buffer"`
	DefaultMaxTokens       int            `yaml:"default_max_tokens"`
	DefaultMaxTokensOutput int            `yaml:"default_max_tokens_output"`
	DefaultTemperature     float64        `yaml:"default_temperature"`
	Chat                   ChatSection    `yaml:"chat"`
	OpenAI                 OpenAISection  `yaml:"openai"`
	Logging                LoggingSection `yaml:"logging"`
}

// ModelSection lists the selectable models.
type ModelSection struct {
	DefaultSelection string      `yaml:"default_selection"`
	Models           []ModelYAML `yaml:"models"`
}

// ModelYAML is a single catalog entry as written in the file.
type ModelYAML struct {
	Name             string   `yaml:"name"`
	MaxTokensContext int      `yaml:"max_tokens_context"`
	MaxTokensOutput  int      `yaml:"max_tokens_output"`
	Temperature      *float64 `yaml:"temperature"`
}

// ChatSection holds user-facing texts.
type ChatSection struct {
	AppName      string `yaml:"app_name"`
	Welcome      string `yaml:"welcome"`
	SystemPrompt string `yaml:"system_prompt"`
}

// OpenAISection holds the model backend endpoint.
type OpenAISection struct {
	BaseURL   string `yaml:"base_url"`
	APIKeyRef string `yaml:"api_key_ref"`
}

// LoggingSection holds log output settings.
type LoggingSection struct {
	LogFile string `yaml:"log_file"`
}

// LoadChatConfig reads and validates the chat catalog at path.
func LoadChatConfig(path string) (*ChatConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ParseChatConfig(data)
}

// ParseChatConfig decodes a chat catalog, applies defaults and validates it.
func ParseChatConfig(data []byte) (*ChatConfig, error) {
	var cfg ChatConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse chat config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ChatConfig) applyDefaults() {
	if c.Chat.AppName == "" {
		c.Chat.AppName = "DocChat"
	}
	if c.Chat.Welcome == "" {
		c.Chat.Welcome = DefaultWelcome
	}
	if c.Chat.SystemPrompt == "" {
		c.Chat.SystemPrompt = DefaultSystemPrompt
	}
	if c.OpenAI.APIKeyRef == "" {
		c.OpenAI.APIKeyRef = DefaultAPIKeyRef
	}
	if c.DefaultMaxTokens <= 0 {
		c.DefaultMaxTokens = 4096
	}
	if c.DefaultMaxTokensOutput <= 0 {
		c.DefaultMaxTokensOutput = 1024
	}
}

// Validate checks that the catalog is internally consistent.
func (c *ChatConfig) Validate() error {
	if len(c.Model.Models) == 0 {
		return fmt.Errorf("at least one model is required")
	}
	if c.ContextTokenBuffer < 0 {
		return fmt.Errorf("context_token_buffer must not be negative")
	}

	seen := make(map[string]bool, len(c.Model.Models))
	for _, m := range c.Model.Models {
		if m.Name == "" {
			return fmt.Errorf("model name is required")
		}
		if seen[m.Name] {
			return fmt.Errorf("duplicate model: %s", m.Name)
		}
		if m.MaxTokensContext <= 0 {
			return fmt.Errorf("model %s: max_tokens_context must be positive", m.Name)
		}
		seen[m.Name] = true
	}

	if c.Model.DefaultSelection == "" {
		return fmt.Errorf("model.default_selection is required")
	}
	if !seen[c.Model.DefaultSelection] {
		return fmt.Errorf("default model %s is not in the catalog", c.Model.DefaultSelection)
	}
	return nil
}

// Catalog builds the read-only model catalog.
func (c *ChatConfig) Catalog() *ModelCatalog {
	catalog := &ModelCatalog{
		byName:      make(map[string]ModelSpec, len(c.Model.Models)),
		defaultName: c.Model.DefaultSelection,
		buffer:      c.ContextTokenBuffer,
		fallbackMax: c.DefaultMaxTokens,
	}

	for _, m := range c.Model.Models {
		spec := ModelSpec{
			Name:             m.Name,
			MaxTokensContext: m.MaxTokensContext,
			MaxTokensOutput:  m.MaxTokensOutput,
			Temperature:      c.DefaultTemperature,
		}
		if spec.MaxTokensOutput <= 0 {
			spec.MaxTokensOutput = c.DefaultMaxTokensOutput
		}
		if m.Temperature != nil {
			spec.Temperature = *m.Temperature
		}
		catalog.names = append(catalog.names, m.Name)
		catalog.byName[m.Name] = spec
	}

	return catalog
}

// ModelSpec is a resolved catalog entry.
type ModelSpec struct {
	Name             string  `json:"name"`
	MaxTokensContext int     `json:"maxTokensContext"`
	MaxTokensOutput  int     `json:"maxTokensOutput"`
	Temperature      float64 `json:"temperature"`
}

// ModelSettings are the per-session parameters derived from a ModelSpec.
type ModelSettings struct {
	Model           string  `json:"model"`
	MaxInputTokens  int     `json:"maxInputTokens"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
	Temperature     float64 `json:"temperature"`
}

// ModelCatalog maps model names to their limits. It is not mutated after construction.
type ModelCatalog struct {
	names       []string
	byName      map[string]ModelSpec
	defaultName string
	buffer      int
	fallbackMax int
}

// Names returns the model names in catalog order.
func (c *ModelCatalog) Names() []string {
	names := make([]string, len(c.names))
	copy(names, c.names)
	return names
}

// Default returns the default model name.
func (c *ModelCatalog) Default() string {
	return c.defaultName
}

// Lookup returns the entry for name.
func (c *ModelCatalog) Lookup(name string) (ModelSpec, bool) {
	spec, ok := c.byName[name]
	return spec, ok
}

// Resolve returns the entry for name, or the default entry if name is unknown.
func (c *ModelCatalog) Resolve(name string) ModelSpec {
	if spec, ok := c.byName[name]; ok {
		return spec
	}
	return c.byName[c.defaultName]
}

// Settings derives session parameters for name. The context buffer is
// subtracted from the context window to leave room for the reply.
func (c *ModelCatalog) Settings(name string) ModelSettings {
	spec := c.Resolve(name)

	maxInput := spec.MaxTokensContext - c.buffer
	if maxInput <= 0 {
		maxInput = c.fallbackMax
	}

	return ModelSettings{
		Model:           spec.Name,
		MaxInputTokens:  maxInput,
		MaxOutputTokens: spec.MaxTokensOutput,
		Temperature:     spec.Temperature,
	}
}
