package initializers

import (
	"context"

	"github.com/asaskevich/EventBus"
	"talent-backend/config"
	"talent-backend/db"
	"talent-backend/fiberlog"
	candidatehandler "talent-backend/lib/candidate"
	candidatehistoryhandler "talent-backend/lib/candidate-history"
	candidatestore "talent-backend/lib/candidate/store"
	eventstream "talent-backend/lib/event-stream"
	xlsexport "talent-backend/lib/export/xls"
	resumeparser "talent-backend/lib/external-services/resume-parser"
	filestorage "talent-backend/lib/file-storage"
	"talent-backend/lib/pipeline"
	"talent-backend/lib/search"
	s3client "talent-backend/s3"
)

var LoggerConfig *fiberlog.Config

func InitAllServices(ctx context.Context) {
	LoggerConfig = InitLogger()
	config.InitConfig()
	InitDBConnection()
	InitS3()
	bus := EventBus.New()
	pipeline.NewHandler(*config.Conf.Pipeline.StrictTransitions)
	filestorage.NewHandler(s3client.Client)
	eventstream.NewHandler()
	resumeparser.NewHandler()
	search.NewHandler(candidatestore.NewInstance(db.DB))
	candidatehistoryhandler.NewHandler(bus)
	xlsexport.NewHandler()
	candidatehandler.NewHandler(bus)
}
