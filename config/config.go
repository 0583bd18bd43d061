package config

import (
	"github.com/gotify/configor"
)

var Conf *Configuration

type Configuration struct {
	App struct {
		ListenAddr string `default:"" env:"APP_HOST"`
		Port       int    `default:"8080"  env:"APP_PORT"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"talent" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
		DebugMode      *bool  `default:"false" env:"DB_DEBUG_MODE"`
	}
	S3 struct {
		Endpoint        string `default:"127.0.0.1:9000" env:"S3_ENDPOINT"`
		AccessKeyID     string `default:"" env:"S3_ACCESS_KEY_ID"`
		SecretAccessKey string `default:"" env:"S3_SECRET_ACCESS_KEY"`
		UseSSL          *bool  `default:"false" env:"S3_USE_SSL"`
		BucketName      string `default:"talent" env:"S3_BUCKET_NAME"`
	}
	SearchIndex struct {
		Host       string `default:"http://127.0.0.1:9200" env:"SEARCH_HOST"`
		Index      string `default:"candidates" env:"SEARCH_INDEX"`
		TimeoutSec int    `default:"5" env:"SEARCH_TIMEOUT_SEC"`
	}
	EventStream struct {
		Brokers         string `default:"127.0.0.1:9092" env:"EVENT_BROKERS"` // список через запятую
		Topic           string `default:"talent.candidate.events" env:"EVENT_TOPIC"`
		WriteTimeoutSec int    `default:"5" env:"EVENT_WRITE_TIMEOUT_SEC"`
	}
	ResumeParser struct {
		URL               string  `default:"http://ai-resume-parser:8000" env:"RESUME_PARSER_URL"`
		AttemptTimeoutSec int     `default:"10" env:"RESUME_PARSER_ATTEMPT_TIMEOUT_SEC"` // таймаут одной попытки
		RetryAttempts     int     `default:"3" env:"RESUME_PARSER_RETRY_ATTEMPTS"`
		RetryDelayMs      int     `default:"500" env:"RESUME_PARSER_RETRY_DELAY_MS"`
		FailureThreshold  float64 `default:"0.5" env:"RESUME_PARSER_FAILURE_THRESHOLD"` // доля ошибок для размыкания
		MinRequests       int     `default:"3" env:"RESUME_PARSER_MIN_REQUESTS"`        // минимум вызовов в окне до оценки
		WindowSec         int     `default:"60" env:"RESUME_PARSER_WINDOW_SEC"`         // окно подсчета ошибок
		CooldownSec       int     `default:"30" env:"RESUME_PARSER_COOLDOWN_SEC"`       // пауза перед пробными вызовами
		ProbeRequests     int     `default:"2" env:"RESUME_PARSER_PROBE_REQUESTS"`      // число пробных вызовов в half-open
	}
	Pipeline struct {
		// StrictTransitions - проверять достижимость этапа по графу переходов,
		// базовый режим выполняет только маппинг этап->статус
		StrictTransitions *bool `default:"false" env:"PIPELINE_STRICT_TRANSITIONS"`
	}
}

func configFiles() []string {
	return []string{"config.yml"}
}

func InitConfig() {
	if Conf != nil {
		return
	}
	conf := new(Configuration)
	err := configor.New(&configor.Config{}).Load(conf, configFiles()...)
	if err != nil {
		panic(err)
	}
	Conf = conf
}
