package config

import (
	"errors"
	"os"
	"strings"

	"landdesk/client/chat"
	"landdesk/client/trello"
	"landdesk/persistence"
)

// Config is the whole static configuration of the service, built once at
// startup from the environment.
type Config struct {
	Database *persistence.DatabaseConfig
	Trello   *trello.Config
	Chat     *chat.Config

	// PublicBaseURL is this service's externally reachable address, used
	// when composing links back to itself.
	PublicBaseURL string
}

func LoadFromEnv() (*Config, error) {
	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		return nil, err
	}

	trelloConfig := &trello.Config{
		BaseURL:      getenv("TRELLO_BASE_URL", "https://api.trello.com/1"),
		Key:          os.Getenv("TRELLO_KEY"),
		Token:        os.Getenv("TRELLO_TOKEN"),
		BoardIDs:     splitList(os.Getenv("TRELLO_BOARD_IDS")),
		ActiveListID: os.Getenv("TRELLO_ACTIVE_LIST_ID"),
		IntakeListID: os.Getenv("TRELLO_INTAKE_LIST_ID"),
	}
	if trelloConfig.Key == "" || trelloConfig.Token == "" {
		return nil, errors.New("TRELLO_KEY and TRELLO_TOKEN must be set")
	}

	chatConfig := &chat.Config{
		BaseURL:         getenv("CHAT_BASE_URL", "https://discord.com/api/v10"),
		BotToken:        os.Getenv("CHAT_BOT_TOKEN"),
		NotifyChannelID: os.Getenv("CHAT_NOTIFY_CHANNEL_ID"),
		TicketChannelID: os.Getenv("CHAT_TICKET_CHANNEL_ID"),
	}
	if chatConfig.BotToken == "" {
		return nil, errors.New("CHAT_BOT_TOKEN must be set")
	}

	return &Config{
		Database:      dbConfig,
		Trello:        trelloConfig,
		Chat:          chatConfig,
		PublicBaseURL: getenv("PUBLIC_BASE_URL", "http://localhost:8080"),
	}, nil
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	list := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			list = append(list, trimmed)
		}
	}
	return list
}
