package schema

// Default session values.
const (
	DefaultModel             = "llama2"
	DefaultHost              = "http://localhost:11434"
	DefaultBackend           = "ollama"
	DefaultMode              = "default"
	DefaultTemperature       = 0.7
	DefaultTopP              = 0.9
	DefaultMaxToolIterations = 3
)

// Settings is the per-session configuration of the conversation loop.
type Settings struct {
	SessionID         string
	Model             string
	Host              string
	Backend           string
	Mode              string
	Temperature       float64
	TopP              float64
	MaxToolIterations int
}

// NewSettings returns Settings populated with the defaults.
func NewSettings() Settings {
	return Settings{
		Model:             DefaultModel,
		Host:              DefaultHost,
		Backend:           DefaultBackend,
		Mode:              DefaultMode,
		Temperature:       DefaultTemperature,
		TopP:              DefaultTopP,
		MaxToolIterations: DefaultMaxToolIterations,
	}
}
