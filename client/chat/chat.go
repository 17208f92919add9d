package chat

import (
	"encoding/json"
	"net/http"
	"time"

	"landdesk/common"
	"landdesk/infra/tracing"
	"landdesk/session"

	"github.com/patrickmn/go-cache"
)

// Config is the static notification-surface configuration: bot credential
// and the channels announcements land in.
type Config struct {
	BaseURL  string
	BotToken string

	NotifyChannelID string
	TicketChannelID string
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type Embed struct {
	Title     string       `json:"title,omitempty"`
	Color     int          `json:"color,omitempty"`
	Fields    []EmbedField `json:"fields,omitempty"`
	Footer    *EmbedFooter `json:"footer,omitempty"`
	Timestamp string       `json:"timestamp,omitempty"`
}

const (
	ComponentActionRow = 1
	ComponentButton    = 2

	ButtonStylePrimary = 1
	ButtonStyleDanger  = 4
	ButtonStyleLink    = 5
)

type Button struct {
	Type     int    `json:"type"`
	Style    int    `json:"style"`
	Label    string `json:"label"`
	CustomID string `json:"custom_id,omitempty"`
	URL      string `json:"url,omitempty"`
}

type ActionRow struct {
	Type       int      `json:"type"`
	Components []Button `json:"components"`
}

type Message struct {
	ID         string      `json:"id"`
	ChannelID  string      `json:"channel_id"`
	Content    string      `json:"content"`
	Embeds     []Embed     `json:"embeds"`
	Components []ActionRow `json:"components"`
}

// OutgoingMessage is the {mentionText, structuredSummary, components}
// payload the workflows hand to the surface. Components must be non-nil on
// edits so stripped controls are really removed.
type OutgoingMessage struct {
	Content    string      `json:"content"`
	Embeds     []Embed     `json:"embeds"`
	Components []ActionRow `json:"components"`
}

type SurfaceTraits interface {
	PostMessage(channelID string, msg *OutgoingMessage, s *session.Session) (*Message, error)
	GetMessage(channelID, messageID string, s *session.Session) (*Message, error)
	EditMessage(channelID, messageID string, msg *OutgoingMessage, s *session.Session) (*Message, error)
	OpenDirectChannel(userID string, s *session.Session) (string, error)
}

type Client struct {
	config *Config
	client *http.Client

	// direct channels are stable per user, cheap to re-open, and safe to
	// cache within the process
	dmChannels *cache.Cache
}

func NewClient(config *Config) *Client {
	return &Client{
		config:     config,
		client:     &http.Client{Transport: &tracing.TracingTransport{Transport: http.DefaultTransport}},
		dmChannels: cache.New(1*time.Hour, 10*time.Minute),
	}
}

func Mention(userID string) string {
	return "<@" + userID + ">"
}

func (c *Client) PostMessage(channelID string, msg *OutgoingMessage, s *session.Session) (*Message, error) {
	return c.messageCall(http.MethodPost, "/channels/"+channelID+"/messages", msg, s)
}

func (c *Client) GetMessage(channelID, messageID string, s *session.Session) (*Message, error) {
	return c.messageCall(http.MethodGet, "/channels/"+channelID+"/messages/"+messageID, nil, s)
}

func (c *Client) EditMessage(channelID, messageID string, msg *OutgoingMessage, s *session.Session) (*Message, error) {
	return c.messageCall(http.MethodPatch, "/channels/"+channelID+"/messages/"+messageID, msg, s)
}

// OpenDirectChannel re-opens (or fetches from cache) the private channel to
// a user and returns its channel identifier.
func (c *Client) OpenDirectChannel(userID string, s *session.Session) (string, error) {
	if channelID, found := c.dmChannels.Get(userID); found {
		return channelID.(string), nil
	}

	reqBody, err := json.Marshal(map[string]string{"recipient_id": userID})
	if err != nil {
		return "", err
	}
	respBody, err := common.HttpInvokeJson(s.Context, c.client, http.MethodPost, c.config.BaseURL+"/users/@me/channels",
		c.authHeader(), string(reqBody))
	if err != nil {
		return "", err
	}

	channel := struct {
		ID string `json:"id"`
	}{}
	if err := json.Unmarshal([]byte(respBody), &channel); err != nil {
		return "", err
	}
	c.dmChannels.Set(userID, channel.ID, cache.DefaultExpiration)
	return channel.ID, nil
}

func (c *Client) messageCall(method, path string, msg *OutgoingMessage, s *session.Session) (*Message, error) {
	reqBody := ""
	if msg != nil {
		bodyBytes, err := json.Marshal(msg)
		if err != nil {
			return nil, err
		}
		reqBody = string(bodyBytes)
	}

	respBody, err := common.HttpInvokeJson(s.Context, c.client, method, c.config.BaseURL+path, c.authHeader(), reqBody)
	if err != nil {
		return nil, err
	}

	message := Message{}
	if err := json.Unmarshal([]byte(respBody), &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (c *Client) authHeader() http.Header {
	headers := http.Header{}
	headers.Set("Authorization", "Bot "+c.config.BotToken)
	return headers
}
