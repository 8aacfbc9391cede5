package config

// ClassifierConfig represents the configuration for the LLM classifier
type ClassifierConfig struct {
	Enabled  bool
	Provider string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// HTTPConfig represents the HTTP server configuration
type HTTPConfig struct {
	ListenAddress string
	CORSOrigins   []string
	CORSMethods   []string
	CORSHeaders   []string
	ReadTimeout   string
	WriteTimeout  string
}

// SMTPConfig represents the SMTP ingress filter configuration
type SMTPConfig struct {
	ListenAddress string
	Domain        string
	RelayAddress  string
	RelayPort     int
	RelayEnabled  bool
	BlockInvalid  bool
	ValidHeader   string
	ScoreHeader   string
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Enabled:  c.GetBool("classifier.enabled"),
		Provider: c.GetString("classifier.provider"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetHTTP returns the HTTP server configuration
func (c *Config) GetHTTP() HTTPConfig {
	return HTTPConfig{
		ListenAddress: c.GetString("server.listen_address"),
		CORSOrigins:   c.GetStringSlice("http.cors_origins"),
		CORSMethods:   c.GetStringSlice("http.cors_methods"),
		CORSHeaders:   c.GetStringSlice("http.cors_headers"),
		ReadTimeout:   c.GetString("http.read_timeout"),
		WriteTimeout:  c.GetString("http.write_timeout"),
	}
}

// GetSMTP returns the SMTP filter configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		ListenAddress: c.GetString("server.listen_address"),
		Domain:        c.GetString("smtp.domain"),
		RelayAddress:  c.GetString("smtp.relay_address"),
		RelayPort:     c.GetInt("smtp.relay_port"),
		RelayEnabled:  c.GetBool("smtp.relay_enabled"),
		BlockInvalid:  c.GetBool("smtp.block_invalid"),
		ValidHeader:   c.GetString("smtp.headers.valid"),
		ScoreHeader:   c.GetString("smtp.headers.score"),
	}
}
