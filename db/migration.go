package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	dbmodels "talent-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.Candidate{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Candidate")
	}
	if err := DB.AutoMigrate(&dbmodels.CandidateHistory{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры CandidateHistory")
	}
	if err := DB.AutoMigrate(&dbmodels.FileStorage{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры FileStorage")
	}
	// email уникален в рамках тенанта
	if err := DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_tenant_email ON candidates(tenant_id, email)").Error; err != nil {
		return errors.Wrap(err, "ошибка создания индекса уникальности email")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
