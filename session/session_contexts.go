package session

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Identity is the bot-platform identity of the actor behind one event.
type Identity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Session carries the trace context and the actor identity of a single
// inbound event. One instance per event, never shared across events.
type Session struct {
	Context  context.Context
	Identity Identity
}

const ActorIDHeader = "X-Actor-Id"
const ActorNameHeader = "X-Actor-Name"

// ExtractSessionFromGinContext builds the per-event session from the request
// context (trace) and the actor headers the front-end forwards.
func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	return &Session{
		Context: ctx.Request.Context(),
		Identity: Identity{
			ID:   ctx.GetHeader(ActorIDHeader),
			Name: ctx.GetHeader(ActorNameHeader),
		},
	}
}
