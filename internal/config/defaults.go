package config

const (
	defaultSourceDir             = "~/Downloads"
	defaultTargetDir             = "~/Books"
	defaultLogDir                = "~/.local/share/shelfsort/logs"
	defaultAPIURL                = "https://api.deepseek.com/v1/chat/completions"
	defaultModel                 = "deepseek-chat"
	defaultConnectTimeoutSeconds = 10
	defaultRequestTimeoutSeconds = 60
	defaultBatchSize             = 50
	defaultFallbackCategory      = "Uncategorized"
	defaultLogFormat             = "console"
	defaultLogLevel              = "info"
)

func defaultExtensions() []string {
	return []string{".pdf", ".epub", ".mobi", ".djvu", ".txt"}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			SourceDir: defaultSourceDir,
			TargetDir: defaultTargetDir,
			LogDir:    defaultLogDir,
		},
		DeepSeek: DeepSeek{
			APIURL:                defaultAPIURL,
			Model:                 defaultModel,
			ConnectTimeoutSeconds: defaultConnectTimeoutSeconds,
			RequestTimeoutSeconds: defaultRequestTimeoutSeconds,
		},
		Sort: Sort{
			BatchSize:        defaultBatchSize,
			Extensions:       defaultExtensions(),
			FallbackCategory: defaultFallbackCategory,
			OnItemFailure:    OutcomePolicyBestEffort,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
