package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// APIKeyEnv is the environment variable holding the Gemini credential.
const APIKeyEnv = "GEMINI_API_KEY"

// ResolveAPIKey finds the generation API credential, in priority order:
// explicit flag value, environment variable, .env file, interactive
// hidden prompt. An empty return means every source came up dry.
func ResolveAPIKey(flagValue string, logger *zap.Logger) string {
	if flagValue != "" {
		logger.Info("Using API key from command line argument")
		return flagValue
	}

	if key := os.Getenv(APIKeyEnv); key != "" {
		logger.Info("Using API key from environment variable", zap.String("var", APIKeyEnv))
		return key
	}

	// .env in the working directory, same convention as the env var.
	if err := godotenv.Load(); err == nil {
		if key := os.Getenv(APIKeyEnv); key != "" {
			logger.Info("Using API key from .env file")
			return key
		}
	}

	logger.Warn("No API key found in arguments, environment, or .env file")
	key, err := promptAPIKey()
	if err != nil || key == "" {
		return ""
	}
	logger.Info("Using API key from interactive input")
	// Keep it for the rest of this process.
	os.Setenv(APIKeyEnv, key)
	return key
}

// promptAPIKey reads the key from the terminal without echoing it.
func promptAPIKey() (string, error) {
	fmt.Fprintln(os.Stderr, "Gemini API key required. Get one at https://aistudio.google.com/app/apikey")
	fmt.Fprint(os.Stderr, "API Key: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}
