package config

import (
	"fmt"
	"os"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "BURSAR_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "BURSAR_AGENT_BASE_URL"
	EnvAgentToken        = "BURSAR_AGENT_TOKEN"
	EnvAgentDeployment   = "BURSAR_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "BURSAR_AGENT_API_VERSION"
	EnvAgentAuthType     = "BURSAR_AGENT_AUTH_TYPE"
	EnvAgentModelName    = "BURSAR_AGENT_MODEL_NAME"
)

// AgentConfig mirrors the agent section of the config file. go-agents declares
// its config types with json tags, so the YAML shape lives here and resolves
// into a gaconfig.AgentConfig during finalize.
type AgentConfig struct {
	Name     string         `yaml:"name"`
	Provider ProviderConfig `yaml:"provider"`
	Model    ModelConfig    `yaml:"model"`
}

// ProviderConfig holds the LLM provider settings for the agent section.
type ProviderConfig struct {
	Name    string         `yaml:"name"`
	BaseURL string         `yaml:"base_url"`
	Options map[string]any `yaml:"options"`
}

// ModelConfig holds the model settings for the agent section.
type ModelConfig struct {
	Name string `yaml:"name"`
}

// Merge overwrites non-zero fields from overlay.
func (a *AgentConfig) Merge(overlay *AgentConfig) {
	if overlay.Name != "" {
		a.Name = overlay.Name
	}
	if overlay.Provider.Name != "" {
		a.Provider.Name = overlay.Provider.Name
	}
	if overlay.Provider.BaseURL != "" {
		a.Provider.BaseURL = overlay.Provider.BaseURL
	}
	for k, v := range overlay.Provider.Options {
		if a.Provider.Options == nil {
			a.Provider.Options = make(map[string]any)
		}
		a.Provider.Options[k] = v
	}
	if overlay.Model.Name != "" {
		a.Model.Name = overlay.Model.Name
	}
}

// Finalize resolves the section into a go-agents AgentConfig using the
// three-phase pattern: defaults from go-agents DefaultAgentConfig,
// environment variable overrides, and validation. An unconfigured agent
// resolves to the library default, a local Ollama runtime, which is enough
// to review a report end to end.
func (a *AgentConfig) Finalize() (gaconfig.AgentConfig, error) {
	cfg := a.resolve()
	loadAgentDefaults(&cfg)
	loadAgentEnv(&cfg)
	return cfg, validateAgent(&cfg)
}

func (a *AgentConfig) resolve() gaconfig.AgentConfig {
	cfg := gaconfig.AgentConfig{Name: a.Name}

	if a.Provider.Name != "" || a.Provider.BaseURL != "" || len(a.Provider.Options) > 0 {
		cfg.Provider = &gaconfig.ProviderConfig{
			Name:    a.Provider.Name,
			BaseURL: a.Provider.BaseURL,
			Options: a.Provider.Options,
		}
	}
	if a.Model.Name != "" {
		cfg.Model = &gaconfig.ModelConfig{Name: a.Model.Name}
	}

	return cfg
}

func loadAgentDefaults(c *gaconfig.AgentConfig) {
	defaults := gaconfig.DefaultAgentConfig()
	defaults.Merge(c)
	*c = defaults
}

func loadAgentEnv(c *gaconfig.AgentConfig) {
	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = make(map[string]any)
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if v := os.Getenv(EnvAgentProviderName); v != "" {
		c.Provider.Name = v
	}
	if v := os.Getenv(EnvAgentBaseURL); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv(EnvAgentModelName); v != "" {
		c.Model.Name = v
	}

	setOption := func(envVar, key string) {
		if v := os.Getenv(envVar); v != "" {
			c.Provider.Options[key] = v
		}
	}

	setOption(EnvAgentToken, "token")
	setOption(EnvAgentDeployment, "deployment")
	setOption(EnvAgentAPIVersion, "api_version")
	setOption(EnvAgentAuthType, "auth_type")
}

func validateAgent(c *gaconfig.AgentConfig) error {
	if c.Name == "" {
		return fmt.Errorf("name required")
	}
	if c.Provider == nil {
		return fmt.Errorf("provider required")
	}
	if c.Provider.Name == "" {
		return fmt.Errorf("provider name required")
	}
	if c.Model == nil {
		return fmt.Errorf("model required")
	}
	return nil
}
