package trello

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"

	"landdesk/bizerror"
	"landdesk/infra/tracing"
	"landdesk/session"

	"golang.org/x/time/rate"
)

// Config is the static external-ticket-service surface: credential pair,
// board scope, and the two well-known lists.
type Config struct {
	BaseURL string
	Key     string
	Token   string

	BoardIDs     []string
	ActiveListID string
	IntakeListID string
}

// Card is the external ticket record. Owned by the ticket service; this
// system reads, creates and comments, never deletes.
type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc,omitempty"`
	ShortURL string `json:"shortUrl"`
	ListID   string `json:"idList"`
	Closed   bool   `json:"closed"`
}

type CardCreation struct {
	Name      string   `json:"name"`
	Desc      string   `json:"desc"`
	ListID    string   `json:"idList"`
	LabelIDs  []string `json:"idLabels"`
	MemberIDs []string `json:"idMembers"`
}

type ClientTraits interface {
	SearchCard(query string, s *session.Session) (*Card, error)
	GetCard(cardID string, s *session.Session) (*Card, error)
	CreateCard(creation *CardCreation, s *session.Session) (*Card, error)
	CommentCard(cardID, text string, s *session.Session) error
}

type Client struct {
	config  *Config
	client  *http.Client
	limiter *rate.Limiter
}

// NewClient builds a gateway honoring the ticket service's 10 req/s client
// cap. Outbound calls become child spans of the event span.
func NewClient(config *Config) *Client {
	return &Client{
		config:  config,
		client:  &http.Client{Transport: &tracing.TracingTransport{Transport: http.DefaultTransport}},
		limiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// ExtractCardID recovers the card identifier from a user-provided card link
// of the shape https://trello.com/c/<id>/... .
func ExtractCardID(link string) (string, bool) {
	idx := strings.Index(link, "trello.com/c/")
	if idx < 0 {
		return "", false
	}
	rest := link[idx+len("trello.com/c/"):]
	if slash := strings.Index(rest, "/"); slash >= 0 {
		rest = rest[0:slash]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// SearchCard looks up a card by title within the configured boards. Among
// the matches, the first card that sits in the active list and is not closed
// wins; when no such card exists the result is nil without error, even if
// closed or inactive matches were returned.
func (c *Client) SearchCard(query string, s *session.Session) (*Card, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("idBoards", strings.Join(c.config.BoardIDs, ","))
	params.Set("modelTypes", "cards")
	params.Set("card_fields", "name,shortUrl,closed,idList")
	params.Set("cards_limit", "5")

	body, err := c.invoke(http.MethodGet, "/search?"+params.Encode(), nil, s)
	if err != nil {
		return nil, err
	}

	result := struct {
		Cards []Card `json:"cards"`
	}{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}

	for i := range result.Cards {
		if result.Cards[i].ListID == c.config.ActiveListID && !result.Cards[i].Closed {
			return &result.Cards[i], nil
		}
	}
	return nil, nil
}

func (c *Client) GetCard(cardID string, s *session.Session) (*Card, error) {
	body, err := c.invoke(http.MethodGet, "/cards/"+cardID, nil, s)
	if err != nil {
		return nil, err
	}
	card := Card{}
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// CreateCard files a new card in the intake list.
func (c *Client) CreateCard(creation *CardCreation, s *session.Session) (*Card, error) {
	if creation.ListID == "" {
		creation.ListID = c.config.IntakeListID
	}
	reqBody, err := json.Marshal(creation)
	if err != nil {
		return nil, err
	}

	body, err := c.invoke(http.MethodPost, "/cards", reqBody, s)
	if err != nil {
		return nil, err
	}
	card := Card{}
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

func (c *Client) CommentCard(cardID, text string, s *session.Session) error {
	reqBody, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	_, err = c.invoke(http.MethodPost, "/cards/"+cardID+"/actions/comments", reqBody, s)
	return err
}

// invoke performs one credentialed call. The key/token pair travels as a
// query string, the way the ticket service requires.
func (c *Client) invoke(method, pathAndQuery string, reqBody []byte, s *session.Session) ([]byte, error) {
	if err := c.limiter.Wait(s.Context); err != nil {
		return nil, err
	}

	sep := "?"
	if strings.Contains(pathAndQuery, "?") {
		sep = "&"
	}
	fullURL := c.config.BaseURL + pathAndQuery + sep + "key=" + url.QueryEscape(c.config.Key) + "&token=" + url.QueryEscape(c.config.Token)

	var bodyReader *bytes.Reader
	if reqBody == nil {
		bodyReader = bytes.NewReader([]byte{})
	} else {
		bodyReader = bytes.NewReader(reqBody)
	}
	req, err := http.NewRequest(method, fullURL, bodyReader)
	if err != nil {
		return nil, err
	}
	req = req.WithContext(s.Context)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, bizerror.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("ticket service responded %s: %s", resp.Status, string(respBody))
	}
	return respBody, nil
}
