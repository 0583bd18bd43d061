package candidatestore

import (
	"strings"

	"github.com/lib/pq"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"talent-backend/models"
	dbmodels "talent-backend/models/db"
)

type Provider interface {
	Create(rec dbmodels.Candidate) (id string, err error)
	GetByID(tenantID, id string) (rec *dbmodels.Candidate, err error)
	GetByEmail(tenantID, email string) (rec *dbmodels.Candidate, err error)
	UpdateWithVersion(tenantID, id string, expectedVersion int64, updMap map[string]interface{}) error
	Delete(tenantID, id string) error
	List(tenantID string, filter dbmodels.CandidateFilter, offset, limit int) ([]dbmodels.Candidate, error)
	ListCount(tenantID string, filter dbmodels.CandidateFilter) (int64, error)
	ListAll(tenantID string) ([]dbmodels.Candidate, error)
}

func NewInstance(DB *gorm.DB) Provider {
	return &impl{
		db: DB,
	}
}

type impl struct {
	db *gorm.DB
}

func (i impl) Create(rec dbmodels.Candidate) (id string, err error) {
	err = i.db.Create(&rec).Error
	if err != nil {
		if isDuplicateErr(err) {
			return "", models.ErrConflict
		}
		return "", err
	}
	return rec.ID, nil
}

func (i impl) GetByID(tenantID, id string) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	err := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
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

func (i impl) GetByEmail(tenantID, email string) (*dbmodels.Candidate, error) {
	rec := dbmodels.Candidate{}
	err := i.db.
		Model(&dbmodels.Candidate{}).
		Where("tenant_id = ?", tenantID).
		Where("email = ?", email).
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

// UpdateWithVersion - compare-and-swap по счетчику версии: обновление
// применяется одним запросом только если версия не изменилась с момента чтения.
// Проигравший конкурентный писатель получает ErrVersionConflict,
// решение о повторе за вызывающим.
func (i impl) UpdateWithVersion(tenantID, id string, expectedVersion int64, updMap map[string]interface{}) error {
	if len(updMap) == 0 {
		return nil
	}
	updMap["version"] = gorm.Expr("version + 1")
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Where("version = ?", expectedVersion).
		Updates(updMap)
	if tx.Error != nil {
		if isDuplicateErr(tx.Error) {
			return models.ErrConflict
		}
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		rec, err := i.GetByID(tenantID, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return models.ErrNotFound
		}
		return models.ErrVersionConflict
	}
	return nil
}

func (i impl) Delete(tenantID, id string) error {
	tx := i.db.
		Where("id = ?", id).
		Where("tenant_id = ?", tenantID).
		Delete(&dbmodels.Candidate{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (i impl) List(tenantID string, filter dbmodels.CandidateFilter, offset, limit int) (list []dbmodels.Candidate, err error) {
	list = []dbmodels.Candidate{}
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("tenant_id = ?", tenantID)
	addListFilter(tx, filter)
	err = tx.
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (i impl) ListCount(tenantID string, filter dbmodels.CandidateFilter) (count int64, err error) {
	tx := i.db.
		Model(&dbmodels.Candidate{}).
		Where("tenant_id = ?", tenantID)
	addListFilter(tx, filter)
	err = tx.Count(&count).Error
	return count, err
}

func (i impl) ListAll(tenantID string) (list []dbmodels.Candidate, err error) {
	list = []dbmodels.Candidate{}
	err = i.db.
		Model(&dbmodels.Candidate{}).
		Where("tenant_id = ?", tenantID).
		Find(&list).
		Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

func addListFilter(tx *gorm.DB, filter dbmodels.CandidateFilter) {
	if filter.Status != "" {
		tx.Where("status = ?", filter.Status)
	}
	if filter.Stage != "" {
		tx.Where("pipeline_stage = ?", filter.Stage)
	}
	if filter.Source != "" {
		tx.Where("source = ?", filter.Source)
	}
	if filter.Search != "" {
		searchValue := "%" + strings.ToLower(filter.Search) + "%"
		tx.Where("LOWER(first_name) like ? or LOWER(last_name) like ? or LOWER(email) like ?", searchValue, searchValue, searchValue)
	}
}

func isDuplicateErr(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	// тестовый драйвер sqlite транслирует нарушение уникальности сам
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
