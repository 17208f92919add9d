package servehttp_test

import (
	"bytes"
	"io"
	"io/ioutil"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"

	"landdesk/bizerror"
	"landdesk/client/s3"
	"landdesk/servehttp"
	"landdesk/session"
	"landdesk/testinfra"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("ArtifactHandler", func() {
	var router *gin.Engine

	BeforeEach(func() {
		router = gin.New()
		router.Use(bizerror.ErrorHandling())
		servehttp.RegisterArtifactHandler(router)
	})
	AfterEach(func() {
		s3.GetObjectFunc = s3.GetObject
		s3.PutObjectFunc = s3.PutObject
	})

	Describe("handleUpload", func() {
		It("should store the uploaded document and return its id", func() {
			var storedKey string
			var storedData []byte
			s3.PutObjectFunc = func(key string, reader io.Reader, s *session.Session, opts ...oss.Option) error {
				storedKey = key
				storedData, _ = ioutil.ReadAll(reader)
				return nil
			}

			buf := bytes.Buffer{}
			writer := multipart.NewWriter(&buf)
			part, err := writer.CreateFormFile("file", "deed.pdf")
			Expect(err).To(BeNil())
			_, err = part.Write([]byte("signed deed"))
			Expect(err).To(BeNil())
			Expect(writer.Close()).To(BeNil())

			req := httptest.NewRequest(http.MethodPost, "/v1/artifacts", &buf)
			req.Header.Set("Content-Type", writer.FormDataContentType())
			status, body := testinfra.ExecuteRequest(req, router)

			Expect(status).To(Equal(http.StatusCreated))
			Expect(body).To(ContainSubstring(`"id":`))
			Expect(strings.HasPrefix(storedKey, "artifacts/")).To(BeTrue())
			Expect(string(storedData)).To(Equal("signed deed"))
		})

		It("should return 400 when the form carries no file", func() {
			req := testinfra.BuildJSONRequest(http.MethodPost, "/v1/artifacts", `{}`, nil)
			status, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("handleDownload", func() {
		It("should deliver a stored document", func() {
			s3.GetObjectFunc = func(key string, s *session.Session, opts ...oss.Option) (io.ReadCloser, error) {
				Expect(key).To(Equal("artifacts/123"))
				return ioutil.NopCloser(strings.NewReader("signed deed")), nil
			}
			req := testinfra.BuildJSONRequest(http.MethodGet, "/v1/artifacts/123", "", nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusOK))
			Expect(body).To(Equal("signed deed"))
		})

		It("should return 404 for an unknown document", func() {
			s3.GetObjectFunc = func(key string, s *session.Session, opts ...oss.Option) (io.ReadCloser, error) {
				return nil, oss.ServiceError{Code: "NoSuchKey"}
			}
			req := testinfra.BuildJSONRequest(http.MethodGet, "/v1/artifacts/123", "", nil)
			status, body := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusNotFound))
			Expect(body).To(ContainSubstring(`"code":"common.record_not_found"`))
		})

		It("should return 400 for a malformed id", func() {
			req := testinfra.BuildJSONRequest(http.MethodGet, "/v1/artifacts/not-an-id", "", nil)
			status, _ := testinfra.ExecuteRequest(req, router)
			Expect(status).To(Equal(http.StatusBadRequest))
		})
	})
})
