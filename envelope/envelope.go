package envelope

import (
	"landdesk/common"
	"landdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go"
	"github.com/opentracing/opentracing-go/ext"
	otlog "github.com/opentracing/opentracing-go/log"
)

// Event describes one inbound interaction for the tracing envelope.
type Event struct {
	Kind       string
	TargetKind string
	TargetID   string
}

// Run wraps a single event handling step in a named child span, records the
// actor and the target on it, and guarantees failures are reported exactly
// once: the span is marked failed, the error is forwarded to the sink with
// full context, and then re-raised so the outer response boundary renders
// the one user-visible notice.
func Run(c *gin.Context, ev Event, op string, handler func(s *session.Session) error) {
	s := session.ExtractSessionFromGinContext(c)

	span, spanCtx := opentracing.StartSpanFromContext(s.Context, op)
	defer span.Finish()

	span.SetTag("event.kind", ev.Kind)
	span.SetTag("actor.id", s.Identity.ID)
	span.SetTag("actor.name", s.Identity.Name)
	if ev.TargetKind != "" {
		span.SetTag("target.kind", ev.TargetKind)
		span.SetTag("target.id", ev.TargetID)
	}

	s.Context = spanCtx

	if err := handler(s); err != nil {
		ext.Error.Set(span, true)
		span.LogFields(otlog.Error(err))

		if _, handled := err.(common.BizError); !handled {
			common.Log.WithFields(map[string]interface{}{
				"event.kind":  ev.Kind,
				"actor.id":    s.Identity.ID,
				"target.kind": ev.TargetKind,
				"target.id":   ev.TargetID,
			}).Error(err)
		}

		panic(err)
	}
}
