package filesdbstore

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
	dbmodels "talent-backend/models/db"
)

type Provider interface {
	SaveFile(rec dbmodels.FileStorage) (id string, err error)
	GetFileByType(tenantID, candidateID string, fileType dbmodels.FileType) (rec *dbmodels.FileStorage, err error)
	GetFileListByType(tenantID, candidateID string, fileType dbmodels.FileType) (list []dbmodels.FileStorage, err error)
	DeleteByCandidate(tenantID, candidateID string) error
}

func NewInstance(db *gorm.DB) Provider {
	return &impl{db: db}
}

type impl struct {
	db *gorm.DB
}

func (i impl) SaveFile(rec dbmodels.FileStorage) (id string, err error) {
	err = i.db.Save(&rec).Error
	if err != nil {
		return "", errors.Wrap(err, "ошибка сохранения записи о файле")
	}
	return rec.ID, nil
}

func (i impl) GetFileByType(tenantID, candidateID string, fileType dbmodels.FileType) (*dbmodels.FileStorage, error) {
	rec := dbmodels.FileStorage{}
	err := i.db.
		Model(&dbmodels.FileStorage{}).
		Where("tenant_id = ? AND candidate_id = ? AND type = ?", tenantID, candidateID, fileType).
		Order("created_at desc").
		First(&rec).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (i impl) GetFileListByType(tenantID, candidateID string, fileType dbmodels.FileType) (list []dbmodels.FileStorage, err error) {
	err = i.db.
		Model(&dbmodels.FileStorage{}).
		Where("tenant_id = ? AND candidate_id = ? AND type = ?", tenantID, candidateID, fileType).
		Find(&list).
		Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return list, nil
}

func (i impl) DeleteByCandidate(tenantID, candidateID string) error {
	return i.db.
		Where("tenant_id = ? AND candidate_id = ?", tenantID, candidateID).
		Delete(&dbmodels.FileStorage{}).
		Error
}
