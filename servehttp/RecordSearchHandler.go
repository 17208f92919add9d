package servehttp

import (
	"net/http"

	"landdesk/common"
	"landdesk/envelope"
	"landdesk/indices"
	"landdesk/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// RegisterRecordSearchHandler exposes the audit index over the terminal and
// pending submission records.
func RegisterRecordSearchHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	handler := &recordSearchHandler{}

	g := r.Group("/v1/submission-records", middleWares...)
	g.GET("", handler.handleSearch)
}

type recordSearchHandler struct {
}

func (h *recordSearchHandler) handleSearch(c *gin.Context) {
	query := indices.SubmissionQuery{}
	_ = c.MustBindWith(&query, binding.Query)

	envelope.Run(c, envelope.Event{Kind: "submission-record.search"}, "SearchSubmissions", func(s *session.Session) error {
		docs, err := indices.SearchSubmissions(&query, s)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, &common.PagedBody{List: docs, Total: uint64(len(docs))})
		return nil
	})
}
