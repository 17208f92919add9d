package testinfra

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"landdesk/session"

	"github.com/gin-gonic/gin"
)

// BuildSession builds a request-scoped session for an acting identity.
func BuildSession(id, name string) *session.Session {
	return &session.Session{Identity: session.Identity{ID: id, Name: name}}
}

// ExecuteRequest drives a gin engine with an in-memory request and returns
// the recorded status and body.
func ExecuteRequest(req *http.Request, engine *gin.Engine) (int, string) {
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.String()
}

// BuildJSONRequest builds a request carrying a JSON body and the acting
// identity headers the session extractor reads.
func BuildJSONRequest(method, target, body string, identity *session.Identity) *http.Request {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if identity != nil {
		req.Header.Set(session.ActorIDHeader, identity.ID)
		req.Header.Set(session.ActorNameHeader, identity.Name)
	}
	return req
}
