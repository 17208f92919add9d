package chat_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"landdesk/client/chat"
	"landdesk/session"

	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
)

func buildSession() *session.Session {
	return &session.Session{Context: context.Background(), Identity: session.Identity{ID: "20001", Name: "moderator"}}
}

func TestMention(t *testing.T) {
	assert.Equal(t, "<@10001>", chat.Mention("10001"))
}

func TestPostAndEditMessage(t *testing.T) {
	RegisterTestingT(t)

	var lastMethod, lastPath, lastAuth string
	var lastPayload chat.OutgoingMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastMethod, lastPath, lastAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&lastPayload)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(chat.Message{ID: "555", ChannelID: "chan-1", Content: lastPayload.Content})
	}))
	defer server.Close()

	client := chat.NewClient(&chat.Config{BaseURL: server.URL, BotToken: "secret"})

	msg, err := client.PostMessage("chan-1", &chat.OutgoingMessage{
		Content: "<@10001> new submission",
		Embeds:  []chat.Embed{{Title: "New Land Request Submission"}},
		Components: []chat.ActionRow{{Type: chat.ComponentActionRow, Components: []chat.Button{
			{Type: chat.ComponentButton, Style: chat.ButtonStylePrimary, Label: "Approve", CustomID: "approve-123"},
		}}},
	}, buildSession())
	Expect(err).To(BeNil())
	Expect(msg.ID).To(Equal("555"))
	Expect(lastMethod).To(Equal(http.MethodPost))
	Expect(lastPath).To(Equal("/channels/chan-1/messages"))
	Expect(lastAuth).To(Equal("Bot secret"))
	Expect(lastPayload.Components[0].Components[0].CustomID).To(Equal("approve-123"))

	// stripping controls sends an explicit empty component list
	_, err = client.EditMessage("chan-1", "555", &chat.OutgoingMessage{
		Content:    "resolved",
		Components: []chat.ActionRow{},
	}, buildSession())
	Expect(err).To(BeNil())
	Expect(lastMethod).To(Equal(http.MethodPatch))
	Expect(lastPath).To(Equal("/channels/chan-1/messages/555"))
	Expect(lastPayload.Components).ToNot(BeNil())
	Expect(len(lastPayload.Components)).To(Equal(0))
}

func TestOpenDirectChannelCaching(t *testing.T) {
	RegisterTestingT(t)

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		Expect(r.URL.Path).To(Equal("/users/@me/channels"))
		body := map[string]string{}
		json.NewDecoder(r.Body).Decode(&body)
		Expect(body["recipient_id"]).To(Equal("30001"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "dm-chan-9"}`))
	}))
	defer server.Close()

	client := chat.NewClient(&chat.Config{BaseURL: server.URL, BotToken: "secret"})

	channelID, err := client.OpenDirectChannel("30001", buildSession())
	Expect(err).To(BeNil())
	Expect(channelID).To(Equal("dm-chan-9"))

	channelID, err = client.OpenDirectChannel("30001", buildSession())
	Expect(err).To(BeNil())
	Expect(channelID).To(Equal("dm-chan-9"))
	Expect(calls).To(Equal(1))
}

func TestPostMessageFailure(t *testing.T) {
	RegisterTestingT(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"message": "missing access"}`))
	}))
	defer server.Close()

	client := chat.NewClient(&chat.Config{BaseURL: server.URL, BotToken: "secret"})
	_, err := client.PostMessage("chan-1", &chat.OutgoingMessage{Content: "x"}, buildSession())
	Expect(err).ToNot(BeNil())
}
