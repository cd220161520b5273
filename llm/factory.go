package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvRoastMode is the environment variable name for mode selection.
	EnvRoastMode = "ROAST_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewChatClient creates a chat client based on the ROAST_MODE environment
// variable. If ROAST_MODE=MOCK, returns a MockClient; otherwise a real Client.
func NewChatClient(baseURL, apiKey string, timeout time.Duration) ChatClient {
	if os.Getenv(EnvRoastMode) == ModeMock {
		log.Println("ROAST_MODE=MOCK detected, using mock chat client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}
