package main

import (
	"net/http"

	"landdesk/bizerror"
	"landdesk/client/chat"
	"landdesk/client/es"
	"landdesk/client/s3"
	"landdesk/client/trello"
	"landdesk/common"
	"landdesk/config"
	"landdesk/domain/district"
	"landdesk/domain/roster"
	"landdesk/domain/submission"
	"landdesk/indices"
	"landdesk/infra/tracing"
	"landdesk/persistence"
	"landdesk/servehttp"

	"github.com/gin-gonic/gin"
)

func main() {
	common.Log.Infoln("service start")

	tracingCloser, err := tracing.Bootstrap()
	if err != nil {
		common.Log.Fatalf("tracing bootstrap failed %v\n", err)
	}
	defer tracingCloser.Close()

	conf, err := config.LoadFromEnv()
	if err != nil {
		common.Log.Fatalf("configuration load failed %v\n", err)
	}

	// create database (no conflict)
	if conf.Database.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(conf.Database.DriverArgs); err != nil {
			common.Log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: conf.Database}
	if err := ds.Start(); err != nil {
		common.Log.Fatalf("database conneciton failed %v\n", err)
	}
	defer ds.Stop()

	// database migration (race condition)
	err = ds.GormDB().AutoMigrate(&submission.Submission{}, &roster.ManagerAssignment{}).Error
	if err != nil {
		common.Log.Fatalf("database migration failed %v\n", err)
	}

	s3.Bootstrap()
	es.CreateClientFromEnv()
	indices.BootstrapSubmissionIndexing()

	rosterManager := roster.NewRosterManager(ds)
	workflow := submission.NewSubmissionManager(ds, district.DefaultTable(), rosterManager,
		trello.NewClient(conf.Trello), chat.NewClient(conf.Chat), conf.Chat, conf.PublicBaseURL)

	engine := gin.New()
	engine.Use(gin.Logger(), tracing.TracingIngress(), bizerror.ErrorHandling())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "landdesk")
	})

	servehttp.RegisterSubmissionHandler(engine, workflow)
	servehttp.RegisterResolutionHandler(engine, workflow)
	servehttp.RegisterRosterHandler(engine, rosterManager)
	servehttp.RegisterArtifactHandler(engine)
	servehttp.RegisterRecordSearchHandler(engine)

	servehttp.StartHTTPServer(engine)
}
