package candidatehistorystore

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	candidateapimodels "talent-backend/models/api/candidate"
	dbmodels "talent-backend/models/db"
)

func newTestStore(t *testing.T) Provider {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&dbmodels.CandidateHistory{}))
	return NewInstance(db)
}

func newHistoryRec(tenantID, candidateID string, action dbmodels.ActionType) dbmodels.CandidateHistory {
	return dbmodels.CandidateHistory{
		BaseTenantModel: dbmodels.BaseTenantModel{TenantID: tenantID},
		CandidateID:     candidateID,
		ActionType:      action,
		Status:          "NEW",
		Stage:           "APPLIED",
		Changes:         dbmodels.CandidateChanges{Description: "Кандидат добавлен"},
	}
}

func TestCreateAndList(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(newHistoryRec("tenant-a", "cand-1", dbmodels.HistoryTypeAdded))
	require.NoError(t, err)
	_, err = store.Create(newHistoryRec("tenant-a", "cand-1", dbmodels.HistoryTypeStageChange))
	require.NoError(t, err)
	_, err = store.Create(newHistoryRec("tenant-a", "cand-2", dbmodels.HistoryTypeAdded))
	require.NoError(t, err)
	_, err = store.Create(newHistoryRec("tenant-b", "cand-1", dbmodels.HistoryTypeAdded))
	require.NoError(t, err)

	t.Run("история только своего кандидата и тенанта", func(t *testing.T) {
		count, err := store.ListCount("tenant-a", "cand-1", candidateapimodels.HistoryFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(2), count)

		list, err := store.List("tenant-a", "cand-1", candidateapimodels.HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "Кандидат добавлен", list[0].Changes.Description)
	})

	t.Run("фильтр по типу действия", func(t *testing.T) {
		list, err := store.List("tenant-a", "cand-1", candidateapimodels.HistoryFilter{ActionType: dbmodels.HistoryTypeStageChange})
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, dbmodels.HistoryTypeStageChange, list[0].ActionType)
	})
}
