package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/lyrebird-labs/concierge/agent/contract"
	openrouterx "github.com/lyrebird-labs/concierge/pkg/openrouter"
)

// Config carries the provider defaults plus optional per-agent model and
// temperature overrides. A negative override temperature means "use the
// default".
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.5"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	VerifierModel         string  `envconfig:"VERIFIER_MODEL" split_words:"true"`
	SupervisorModel       string  `envconfig:"SUPERVISOR_MODEL" split_words:"true"`
	MusicModel            string  `envconfig:"MUSIC_MODEL" split_words:"true"`
	InvoiceModel          string  `envconfig:"INVOICE_MODEL" split_words:"true"`
	MemoryModel           string  `envconfig:"MEMORY_MODEL" split_words:"true"`
	VerifierTemperature   float32 `envconfig:"VERIFIER_TEMPERATURE" split_words:"true" default:"-1"`
	SupervisorTemperature float32 `envconfig:"SUPERVISOR_TEMPERATURE" split_words:"true" default:"-1"`
	MusicTemperature      float32 `envconfig:"MUSIC_TEMPERATURE" split_words:"true" default:"-1"`
	InvoiceTemperature    float32 `envconfig:"INVOICE_TEMPERATURE" split_words:"true" default:"-1"`
	MemoryTemperature     float32 `envconfig:"MEMORY_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the effective provider config for one agent,
// applying per-agent overrides over the defaults.
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	override := func(model string, temperature float32) {
		if v := strings.TrimSpace(model); v != "" {
			modelName = v
		}
		if temperature >= 0 {
			temp = temperature
		}
	}

	switch agentType {
	case contractx.AgentTypeVerifier:
		override(c.VerifierModel, c.VerifierTemperature)
	case contractx.AgentTypeSupervisor:
		override(c.SupervisorModel, c.SupervisorTemperature)
	case contractx.AgentTypeMusic:
		override(c.MusicModel, c.MusicTemperature)
	case contractx.AgentTypeInvoice:
		override(c.InvoiceModel, c.InvoiceTemperature)
	case contractx.AgentTypeMemory:
		override(c.MemoryModel, c.MemoryTemperature)
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
