package artifact

import (
	"io"
	"io/ioutil"

	"landdesk/bizerror"
	"landdesk/client/s3"
	"landdesk/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/fundwit/go-commons/types"
)

// Artifacts are the documents a moderator attaches when approving a
// submission (signed permits, deeds). They are stored once and later
// delivered to the submitter by reference.

func DetailArtifact(id types.ID, s *session.Session) ([]byte, error) {
	r, err := s3.GetObjectFunc("artifacts/"+id.String(), s)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			return nil, bizerror.ErrNotFound
		}
		return nil, err
	}
	return ioutil.ReadAll(r)
}

func CreateArtifact(id types.ID, r io.Reader, s *session.Session) error {
	return s3.PutObjectFunc("artifacts/"+id.String(), r, s)
}
