package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Configuration provides type-safe access to application settings
type Configuration struct {
	viper *viper.Viper
}

// DefaultChunkDurationMS is the per-segment duration bound (10 minutes)
const DefaultChunkDurationMS = 600000

func setDefaults(v *viper.Viper) {
	v.SetDefault("chunk.duration_ms", DefaultChunkDurationMS)
	v.SetDefault("log.file_path", "./transcriptions.json")
	v.SetDefault("ffmpeg.path", "ffmpeg")
	v.SetDefault("openai.base_url", "https://api.openai.com")
	v.SetDefault("openai.transcription_model", "whisper-1")
	v.SetDefault("openai.summary_model", "gpt-4o-mini")
	v.SetDefault("transcriber.backend", "openai")
	v.SetDefault("summarizer.backend", "openai")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("watch.dir", "")
}

// NewConfiguration creates a new Configuration instance with default settings
func NewConfiguration() *Configuration {
	v := viper.New()
	setDefaults(v)
	return &Configuration{viper: v}
}

// NewConfigurationFromFile creates a Configuration instance from a config file
func NewConfigurationFromFile(configFile string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configFile)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	cfg := &Configuration{viper: v}
	bindCredentialEnv(v)
	return cfg, nil
}

// NewConfigurationFromEnv creates a Configuration instance that reads from environment variables.
// A .env file in the working directory is loaded first if present.
func NewConfigurationFromEnv() (*Configuration, error) {
	// Missing .env is not an error; the process environment may carry everything
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("MEETINGSCRIBE")
	v.AutomaticEnv()

	v.BindEnv("chunk.duration_ms", "CHUNK_DURATION_MS")
	v.BindEnv("log.file_path", "TRANSCRIPTION_LOG_PATH")
	v.BindEnv("ffmpeg.path", "FFMPEG_PATH")
	v.BindEnv("openai.base_url", "OPENAI_BASE_URL")
	v.BindEnv("transcriber.backend", "TRANSCRIBER_BACKEND")
	v.BindEnv("summarizer.backend", "SUMMARIZER_BACKEND")
	v.BindEnv("watch.dir", "WATCH_DIR")
	bindCredentialEnv(v)

	return &Configuration{viper: v}, nil
}

// bindCredentialEnv maps the service credentials, which are always read from
// the environment rather than committed to config files.
func bindCredentialEnv(v *viper.Viper) {
	v.BindEnv("openai.api_key", "OPENAI_API_KEY")
	v.BindEnv("assemblyai.api_key", "ASSEMBLYAI_API_KEY")
	v.BindEnv("gemini.api_key", "GEMINI_API_KEY")
}

// GetChunkDurationMS returns the segment duration bound in milliseconds.
// Non-positive configured values fall back to the default.
func (c *Configuration) GetChunkDurationMS() int {
	ms := c.viper.GetInt("chunk.duration_ms")
	if ms <= 0 {
		return DefaultChunkDurationMS
	}
	return ms
}

// GetTranscriptionLogPath returns the path of the persisted transcription log
func (c *Configuration) GetTranscriptionLogPath() string {
	return c.viper.GetString("log.file_path")
}

// GetFFmpegPath returns the ffmpeg binary path used for audio decoding
func (c *Configuration) GetFFmpegPath() string {
	return c.viper.GetString("ffmpeg.path")
}

// GetOpenAIAPIKey returns the OpenAI API credential
func (c *Configuration) GetOpenAIAPIKey() string {
	return c.viper.GetString("openai.api_key")
}

// GetOpenAIBaseURL returns the base URL for OpenAI API calls
func (c *Configuration) GetOpenAIBaseURL() string {
	return c.viper.GetString("openai.base_url")
}

// GetTranscriptionModel returns the remote speech-to-text model identifier
func (c *Configuration) GetTranscriptionModel() string {
	return c.viper.GetString("openai.transcription_model")
}

// GetSummaryModel returns the remote chat model used for summaries
func (c *Configuration) GetSummaryModel() string {
	return c.viper.GetString("openai.summary_model")
}

// GetTranscriberBackend returns which transcription backend to use ("openai" or "assemblyai")
func (c *Configuration) GetTranscriberBackend() string {
	return c.viper.GetString("transcriber.backend")
}

// GetAssemblyAIAPIKey returns the AssemblyAI API credential
func (c *Configuration) GetAssemblyAIAPIKey() string {
	return c.viper.GetString("assemblyai.api_key")
}

// GetSummarizerBackend returns which summarization backend to use ("openai" or "gemini")
func (c *Configuration) GetSummarizerBackend() string {
	return c.viper.GetString("summarizer.backend")
}

// GetGeminiAPIKey returns the Gemini API credential
func (c *Configuration) GetGeminiAPIKey() string {
	return c.viper.GetString("gemini.api_key")
}

// GetGeminiModel returns the Gemini model identifier
func (c *Configuration) GetGeminiModel() string {
	return c.viper.GetString("gemini.model")
}

// GetWatchDir returns the directory monitored in watch mode, empty when watch mode is off
func (c *Configuration) GetWatchDir() string {
	return c.viper.GetString("watch.dir")
}

// ValidateCredentials verifies that the credentials required by the selected
// backends are present. A missing credential is a fatal startup condition and
// the returned error carries remediation instructions for the operator.
func (c *Configuration) ValidateCredentials() error {
	switch c.GetTranscriberBackend() {
	case "openai":
		if c.GetOpenAIAPIKey() == "" {
			return fmt.Errorf("OPENAI_API_KEY not set: add it to your environment or to a .env file in the working directory")
		}
	case "assemblyai":
		if c.GetAssemblyAIAPIKey() == "" {
			return fmt.Errorf("ASSEMBLYAI_API_KEY not set: add it to your environment or to a .env file in the working directory")
		}
	default:
		return fmt.Errorf("unknown transcriber backend %q (expected \"openai\" or \"assemblyai\")", c.GetTranscriberBackend())
	}

	switch c.GetSummarizerBackend() {
	case "openai":
		if c.GetOpenAIAPIKey() == "" {
			return fmt.Errorf("OPENAI_API_KEY not set: add it to your environment or to a .env file in the working directory")
		}
	case "gemini":
		if c.GetGeminiAPIKey() == "" {
			return fmt.Errorf("GEMINI_API_KEY not set: add it to your environment or to a .env file in the working directory")
		}
	default:
		return fmt.Errorf("unknown summarizer backend %q (expected \"openai\" or \"gemini\")", c.GetSummarizerBackend())
	}

	return nil
}
