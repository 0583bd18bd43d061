package candidatestore

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"talent-backend/models"
	dbmodels "talent-backend/models/db"
)

func newTestStore(t *testing.T) Provider {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// одна бд в памяти на все запросы
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&dbmodels.Candidate{}))
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_tenant_email ON candidates(tenant_id, email)").Error)
	return NewInstance(db)
}

func newCandidate(tenantID, email string) dbmodels.Candidate {
	return dbmodels.Candidate{
		BaseTenantModel: dbmodels.BaseTenantModel{TenantID: tenantID},
		FirstName:       "Иван",
		LastName:        "Петров",
		Email:           email,
		Status:          models.CandidateStatusNew,
		PipelineStage:   models.PipelineStageApplied,
		Skills:          dbmodels.StringSlice{"Go", "PostgreSQL"},
	}
}

func TestCreateAndGet(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create(newCandidate("tenant-a", "ivan@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := store.GetByID("tenant-a", id)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, "ivan@example.com", rec.Email)
	require.Equal(t, models.CandidateStatusNew, rec.Status)
	require.Equal(t, models.PipelineStageApplied, rec.PipelineStage)
	require.Equal(t, int64(0), rec.Version)
	require.Equal(t, dbmodels.StringSlice{"Go", "PostgreSQL"}, rec.Skills)

	t.Run("чужой тенант запись не видит", func(t *testing.T) {
		rec, err := store.GetByID("tenant-b", id)
		require.NoError(t, err)
		require.Nil(t, rec)
	})
}

func TestDuplicateEmail(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(newCandidate("tenant-a", "dup@example.com"))
	require.NoError(t, err)

	t.Run("повтор email внутри тенанта запрещен", func(t *testing.T) {
		_, err := store.Create(newCandidate("tenant-a", "dup@example.com"))
		require.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("в другом тенанте email свободен", func(t *testing.T) {
		_, err := store.Create(newCandidate("tenant-b", "dup@example.com"))
		require.NoError(t, err)
	})
}

func TestUpdateWithVersion(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create(newCandidate("tenant-a", "cas@example.com"))
	require.NoError(t, err)

	t.Run("обновление с актуальной версией проходит", func(t *testing.T) {
		err := store.UpdateWithVersion("tenant-a", id, 0, map[string]interface{}{"phone": "+79990000000"})
		require.NoError(t, err)
		rec, err := store.GetByID("tenant-a", id)
		require.NoError(t, err)
		require.Equal(t, "+79990000000", rec.Phone)
		require.Equal(t, int64(1), rec.Version)
	})

	t.Run("устаревшая версия получает конфликт", func(t *testing.T) {
		err := store.UpdateWithVersion("tenant-a", id, 0, map[string]interface{}{"phone": "+79991111111"})
		require.ErrorIs(t, err, models.ErrVersionConflict)
		rec, err := store.GetByID("tenant-a", id)
		require.NoError(t, err)
		require.Equal(t, "+79990000000", rec.Phone)
		require.Equal(t, int64(1), rec.Version)
	})

	t.Run("несуществующая запись", func(t *testing.T) {
		err := store.UpdateWithVersion("tenant-a", "00000000-0000-0000-0000-000000000000", 0, map[string]interface{}{"phone": "x"})
		require.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("версия растет на единицу за успешное обновление", func(t *testing.T) {
		require.NoError(t, store.UpdateWithVersion("tenant-a", id, 1, map[string]interface{}{"city": "Москва"}))
		require.NoError(t, store.UpdateWithVersion("tenant-a", id, 2, map[string]interface{}{"city": "Казань"}))
		rec, err := store.GetByID("tenant-a", id)
		require.NoError(t, err)
		require.Equal(t, int64(3), rec.Version)
		require.Equal(t, "Казань", rec.City)
	})
}

func TestSequentialWritersSingleWinner(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create(newCandidate("tenant-a", "race@example.com"))
	require.NoError(t, err)

	// оба писателя прочитали версию 0, применится ровно один
	winners := 0
	for _, phone := range []string{"+71110000000", "+72220000000"} {
		if err := store.UpdateWithVersion("tenant-a", id, 0, map[string]interface{}{"phone": phone}); err == nil {
			winners++
		} else {
			require.ErrorIs(t, err, models.ErrVersionConflict)
		}
	}
	require.Equal(t, 1, winners)

	rec, err := store.GetByID("tenant-a", id)
	require.NoError(t, err)
	require.Equal(t, int64(1), rec.Version)
	require.Equal(t, "+71110000000", rec.Phone)
}

func TestListAndFilter(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create(newCandidate("tenant-a", "a1@example.com"))
	require.NoError(t, err)
	second := newCandidate("tenant-a", "a2@example.com")
	second.FirstName = "Maria"
	second.Status = models.CandidateStatusScreening
	second.PipelineStage = models.PipelineStageScreening
	_, err = store.Create(second)
	require.NoError(t, err)
	_, err = store.Create(newCandidate("tenant-b", "b1@example.com"))
	require.NoError(t, err)

	t.Run("список только своего тенанта", func(t *testing.T) {
		count, err := store.ListCount("tenant-a", dbmodels.CandidateFilter{})
		require.NoError(t, err)
		require.Equal(t, int64(2), count)

		list, err := store.List("tenant-a", dbmodels.CandidateFilter{}, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		for _, rec := range list {
			require.Equal(t, "tenant-a", rec.TenantID)
		}
	})

	t.Run("фильтр по статусу", func(t *testing.T) {
		list, err := store.List("tenant-a", dbmodels.CandidateFilter{Status: models.CandidateStatusScreening}, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "a2@example.com", list[0].Email)
	})

	t.Run("поиск по имени без учета регистра", func(t *testing.T) {
		list, err := store.List("tenant-a", dbmodels.CandidateFilter{Search: "maria"}, 0, 10)
		require.NoError(t, err)
		require.Len(t, list, 1)
		require.Equal(t, "Maria", list[0].FirstName)
	})
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create(newCandidate("tenant-a", "del@example.com"))
	require.NoError(t, err)

	t.Run("чужой тенант удалить не может", func(t *testing.T) {
		require.ErrorIs(t, store.Delete("tenant-b", id), models.ErrNotFound)
	})

	require.NoError(t, store.Delete("tenant-a", id))

	rec, err := store.GetByID("tenant-a", id)
	require.NoError(t, err)
	require.Nil(t, rec)

	t.Run("повторное удаление", func(t *testing.T) {
		require.ErrorIs(t, store.Delete("tenant-a", id), models.ErrNotFound)
	})
}
