package servehttp

import (
	"errors"
	"net/http"

	"landdesk/artifact"
	"landdesk/common"
	"landdesk/envelope"
	"landdesk/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/sony/sonyflake"
)

func RegisterArtifactHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	handler := &artifactHandler{idWorker: sonyflake.NewSonyflake(sonyflake.Settings{})}

	g := r.Group("/v1/artifacts", middleWares...)
	g.POST("", handler.handleUpload)
	g.GET(":id", handler.handleDownload)
}

type artifactHandler struct {
	idWorker *sonyflake.Sonyflake
}

func (h *artifactHandler) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	id := common.NextId(h.idWorker)
	envelope.Run(c, envelope.Event{Kind: "artifact.upload", TargetKind: "artifact", TargetID: id.String()},
		"CreateArtifact", func(s *session.Session) error {
			opened, err := file.Open()
			if err != nil {
				return err
			}
			defer opened.Close()

			if err := artifact.CreateArtifact(id, opened, s); err != nil {
				return err
			}
			c.JSON(http.StatusCreated, gin.H{"id": id})
			return nil
		})
}

func (h *artifactHandler) handleDownload(c *gin.Context) {
	id, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	envelope.Run(c, envelope.Event{Kind: "artifact.download", TargetKind: "artifact", TargetID: id.String()},
		"DetailArtifact", func(s *session.Session) error {
			data, err := artifact.DetailArtifact(id, s)
			if err != nil {
				return err
			}
			c.Data(http.StatusOK, "application/octet-stream", data)
			return nil
		})
}
