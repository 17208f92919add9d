package indices

import (
	"encoding/json"

	"landdesk/client/es"
	"landdesk/domain/submission"
	"landdesk/session"

	"github.com/sirupsen/logrus"
)

const SubmissionIndexName = "submissions"

// SubmissionDocument is the audit projection of a submission. It mirrors the
// database row closely enough that the index can answer "who resolved what,
// when" without touching the primary store.
type SubmissionDocument struct {
	submission.Submission
}

// IndexSubmission projects one submission into the audit index. Indexing is
// best effort: failures are logged and swallowed so a search outage never
// breaks a workflow.
func IndexSubmission(r *submission.Submission, s *session.Session) {
	if err := es.IndexFunc(SubmissionIndexName, r.ID, &SubmissionDocument{Submission: *r}, s); err != nil {
		logrus.Warnf("failed to index submission %v: %v\n", r.ID, err)
	}
}

// SubmissionQuery is the search surface over the audit index.
type SubmissionQuery struct {
	State       submission.State `json:"state" form:"state"`
	District    string           `json:"district" form:"district"`
	SubmitterID string           `json:"submitterId" form:"submitterId"`
}

func SearchSubmissions(q *SubmissionQuery, s *session.Session) ([]SubmissionDocument, error) {
	must := make([]es.H, 0, 3)
	if q.State != "" {
		must = append(must, es.H{"term": es.H{"state.keyword": q.State}})
	}
	if q.District != "" {
		must = append(must, es.H{"term": es.H{"district.keyword": q.District}})
	}
	if q.SubmitterID != "" {
		must = append(must, es.H{"term": es.H{"submitterId.keyword": q.SubmitterID}})
	}

	query := es.H{"query": es.H{"bool": es.H{"must": must}}, "sort": []es.H{{"createTime": es.H{"order": "desc"}}}}
	result, err := es.SearchFunc(SubmissionIndexName, query, s)
	if err != nil {
		return nil, err
	}

	docs := make([]SubmissionDocument, 0, len(result.Hits.Hits))
	for _, hit := range result.Hits.Hits {
		doc := SubmissionDocument{}
		if err := json.Unmarshal([]byte(hit.Source), &doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// BootstrapSubmissionIndexing hooks the projection into the submission
// workflows. Called once at startup, after the search client is built.
func BootstrapSubmissionIndexing() {
	submission.SubmissionIndexFunc = IndexSubmission
}
