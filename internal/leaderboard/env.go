package leaderboard

import (
	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/config"
)

// StoreFromEnv picks the score store from the environment: JSONBin when
// JSONBIN_BIN_ID and JSONBIN_API_KEY are set, else a local file when SCORES_FILE
// is set, else an unconfigured store.
func StoreFromEnv(logger *log.Logger) Store {
	if logger == nil {
		logger = log.Default()
	}

	binID := config.GetEnv("JSONBIN_BIN_ID", "")
	apiKey := config.GetEnv("JSONBIN_API_KEY", "")
	if binID != "" && apiKey != "" {
		base := config.GetEnv("JSONBIN_URL", DefaultJSONBinURL)
		logger.Info("Using JSONBin leaderboard", "url", base, "bin", binID)
		return NewJSONBinStore(base, binID, apiKey)
	}

	if path := config.GetEnv("SCORES_FILE", ""); path != "" {
		logger.Info("Using file leaderboard", "path", path)
		return NewFileStore(path)
	}

	logger.Warn("Leaderboard not configured; scores will not be kept")
	return NullStore{}
}

// SubmitterFromEnv returns a client for the leaderboard service at
// LEADERBOARD_URL, or a local Service over StoreFromEnv.
func SubmitterFromEnv(logger *log.Logger) Submitter {
	if logger == nil {
		logger = log.Default()
	}
	if url := config.GetEnv("LEADERBOARD_URL", ""); url != "" {
		logger.Info("Using remote leaderboard", "url", url)
		return NewClient(url, logger)
	}
	return NewService(StoreFromEnv(logger), logger)
}
