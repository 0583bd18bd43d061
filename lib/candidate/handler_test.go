package candidatehandler

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	candidatestore "talent-backend/lib/candidate/store"
	"talent-backend/lib/pipeline"
	"talent-backend/models"
	candidateapimodels "talent-backend/models/api/candidate"
	parserapimodels "talent-backend/models/api/parser"
	dbmodels "talent-backend/models/db"
)

type fakeIndex struct {
	indexed []dbmodels.Candidate
	deleted []string
}

func (f *fakeIndex) IndexCandidate(ctx context.Context, rec dbmodels.Candidate) {
	f.indexed = append(f.indexed, rec)
}

func (f *fakeIndex) DeleteFromIndex(ctx context.Context, candidateID string) {
	f.deleted = append(f.deleted, candidateID)
}

type publishedEvent struct {
	eventType models.EventType
	rec       dbmodels.Candidate
}

type fakeEvents struct {
	published []publishedEvent
	deleted   []string
}

func (f *fakeEvents) Publish(ctx context.Context, eventType models.EventType, rec dbmodels.Candidate) {
	f.published = append(f.published, publishedEvent{eventType: eventType, rec: rec})
}

func (f *fakeEvents) PublishDeleted(ctx context.Context, tenantID, candidateID string) {
	f.deleted = append(f.deleted, candidateID)
}

type fakeParser struct {
	result parserapimodels.ParseResult
}

func (f *fakeParser) Parse(ctx context.Context, candidateID, fileName string, body []byte) parserapimodels.ParseResult {
	result := f.result
	result.CandidateID = candidateID
	return result
}

type fakeFiles struct {
	uploads map[string][]byte
}

func (f *fakeFiles) UploadResume(ctx context.Context, tenantID, candidateID, fileName, contentType string, file []byte) (string, error) {
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	f.uploads[candidateID] = file
	return "file-" + candidateID, nil
}

func (f *fakeFiles) GetResume(ctx context.Context, tenantID, candidateID string) (*dbmodels.FileStorage, []byte, error) {
	body, ok := f.uploads[candidateID]
	if !ok {
		return nil, nil, models.ErrNotFound
	}
	return &dbmodels.FileStorage{Name: "resume.pdf"}, body, nil
}

func (f *fakeFiles) DeleteCandidateFiles(ctx context.Context, tenantID, candidateID string) error {
	delete(f.uploads, candidateID)
	return nil
}

type testEnv struct {
	handler *impl
	index   *fakeIndex
	events  *fakeEvents
	parser  *fakeParser
	files   *fakeFiles
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&dbmodels.Candidate{}))
	require.NoError(t, db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_candidates_tenant_email ON candidates(tenant_id, email)").Error)

	pipeline.NewHandler(false)
	env := &testEnv{
		index:  &fakeIndex{},
		events: &fakeEvents{},
		parser: &fakeParser{},
		files:  &fakeFiles{},
	}
	env.handler = newInstance(candidatestore.NewInstance(db), pipeline.Instance, env.index, env.events, env.parser, env.files, nil)
	return env
}

func newCandidateData(email string) candidateapimodels.CandidateData {
	return candidateapimodels.CandidateData{
		FirstName: "Иван",
		LastName:  "Петров",
		Email:     email,
		Skills:    []string{"Go"},
	}
}

func TestCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.handler.Create(ctx, "tenant-a", newCandidateData("ivan@example.com"))
	require.NoError(t, err)
	require.NotEmpty(t, view.ID)
	require.Equal(t, models.CandidateStatusNew, view.Status)
	require.Equal(t, models.PipelineStageApplied, view.PipelineStage)
	require.Equal(t, int64(0), view.Version)

	require.Len(t, env.index.indexed, 1)
	require.Equal(t, view.ID, env.index.indexed[0].ID)
	require.Len(t, env.events.published, 1)
	require.Equal(t, models.EventCandidateCreated, env.events.published[0].eventType)

	t.Run("валидация данных", func(t *testing.T) {
		_, err := env.handler.Create(ctx, "tenant-a", candidateapimodels.CandidateData{FirstName: "Иван"})
		require.Error(t, err)
	})

	t.Run("повтор email внутри тенанта", func(t *testing.T) {
		_, err := env.handler.Create(ctx, "tenant-a", newCandidateData("ivan@example.com"))
		require.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("тот же email в другом тенанте", func(t *testing.T) {
		_, err := env.handler.Create(ctx, "tenant-b", newCandidateData("ivan@example.com"))
		require.NoError(t, err)
	})
}

func TestUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.handler.Create(ctx, "tenant-a", newCandidateData("upd@example.com"))
	require.NoError(t, err)

	phone := "+79990000000"
	updated, err := env.handler.Update(ctx, "tenant-a", view.ID, view.Version, candidateapimodels.UpdateData{Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, phone, updated.Phone)
	require.Equal(t, view.Version+1, updated.Version)
	require.Equal(t, models.EventCandidateUpdated, env.events.published[len(env.events.published)-1].eventType)

	t.Run("устаревшая версия", func(t *testing.T) {
		other := "+79991111111"
		_, err := env.handler.Update(ctx, "tenant-a", view.ID, view.Version, candidateapimodels.UpdateData{Phone: &other})
		require.ErrorIs(t, err, models.ErrVersionConflict)
	})

	t.Run("пустое обновление версию не двигает", func(t *testing.T) {
		same, err := env.handler.Update(ctx, "tenant-a", view.ID, updated.Version, candidateapimodels.UpdateData{})
		require.NoError(t, err)
		require.Equal(t, updated.Version, same.Version)
	})
}

func TestChangeStage(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.handler.Create(ctx, "tenant-a", newCandidateData("stage@example.com"))
	require.NoError(t, err)

	moved, err := env.handler.ChangeStage(ctx, "tenant-a", view.ID, view.Version, models.PipelineStageScreening)
	require.NoError(t, err)
	require.Equal(t, models.PipelineStageScreening, moved.PipelineStage)
	require.Equal(t, models.CandidateStatusScreening, moved.Status)
	require.Equal(t, view.Version+1, moved.Version)
	require.NotEmpty(t, moved.LastStageChangeAt)
	require.Equal(t, models.EventCandidateStageChanged, env.events.published[len(env.events.published)-1].eventType)

	t.Run("принятый оффер переводит в нанятые", func(t *testing.T) {
		hired, err := env.handler.ChangeStage(ctx, "tenant-a", view.ID, moved.Version, models.PipelineStageOfferAccepted)
		require.NoError(t, err)
		require.Equal(t, models.CandidateStatusHired, hired.Status)
		require.Equal(t, models.PipelineStageOfferAccepted, hired.PipelineStage)
	})

	t.Run("неизвестный этап", func(t *testing.T) {
		_, err := env.handler.ChangeStage(ctx, "tenant-a", view.ID, 2, "TRIAL_DAY")
		require.ErrorIs(t, err, models.ErrTransition)
	})

	t.Run("устаревшая версия", func(t *testing.T) {
		_, err := env.handler.ChangeStage(ctx, "tenant-a", view.ID, 0, models.PipelineStageRejected)
		require.ErrorIs(t, err, models.ErrVersionConflict)
	})
}

func TestUploadResume(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.handler.Create(ctx, "tenant-a", newCandidateData("resume@example.com"))
	require.NoError(t, err)

	t.Run("успешный разбор обогащает карточку", func(t *testing.T) {
		env.parser.result = parserapimodels.ParseResult{
			Status: parserapimodels.StatusOk,
			Data: dbmodels.ResumeData{
				"skills":            []interface{}{"Go", "Kafka"},
				"yearsOfExperience": float64(5),
			},
		}
		result, err := env.handler.UploadResume(ctx, "tenant-a", view.ID, "resume.pdf", "application/pdf", []byte("pdf-body"))
		require.NoError(t, err)
		require.False(t, result.IsFallback())

		updated, err := env.handler.GetByID("tenant-a", view.ID)
		require.NoError(t, err)
		require.ElementsMatch(t, []string{"Go", "Kafka"}, updated.Skills)
		require.Equal(t, 5, updated.YearsOfExperience)
		require.NotEmpty(t, updated.ResumeURL)
		require.Equal(t, models.EventCandidateResumeParsed, env.events.published[len(env.events.published)-1].eventType)
	})

	t.Run("заглушка сохраняется как результат разбора", func(t *testing.T) {
		env.parser.result = parserapimodels.NewFallback("")
		rec, err := env.handler.GetByID("tenant-a", view.ID)
		require.NoError(t, err)

		result, err := env.handler.UploadResume(ctx, "tenant-a", view.ID, "resume.pdf", "application/pdf", []byte("pdf-body"))
		require.NoError(t, err)
		require.True(t, result.IsFallback())
		require.Equal(t, view.ID, result.CandidateID)
		require.Equal(t, "manual review required", result.Message)

		updated, err := env.handler.GetByID("tenant-a", view.ID)
		require.NoError(t, err)
		require.Equal(t, "fallback", updated.ResumeData["status"])
		// навыки из прошлого разбора не затерты
		require.ElementsMatch(t, []string{"Go", "Kafka"}, updated.Skills)
		require.Equal(t, rec.Version+1, updated.Version)
	})

	t.Run("кандидат не найден", func(t *testing.T) {
		_, err := env.handler.UploadResume(ctx, "tenant-a", "00000000-0000-0000-0000-000000000000", "resume.pdf", "application/pdf", []byte("x"))
		require.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	view, err := env.handler.Create(ctx, "tenant-a", newCandidateData("del@example.com"))
	require.NoError(t, err)

	require.NoError(t, env.handler.Delete(ctx, "tenant-a", view.ID))
	require.Contains(t, env.index.deleted, view.ID)
	require.Contains(t, env.events.deleted, view.ID)

	_, err = env.handler.GetByID("tenant-a", view.ID)
	require.ErrorIs(t, err, models.ErrNotFound)

	t.Run("повторное удаление", func(t *testing.T) {
		require.ErrorIs(t, env.handler.Delete(ctx, "tenant-a", view.ID), models.ErrNotFound)
	})
}
