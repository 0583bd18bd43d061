package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/pkg/errors"
	"talent-backend/config"
	"talent-backend/db"
	filesdbstore "talent-backend/lib/file-storage/store"
	"talent-backend/models"
	dbmodels "talent-backend/models/db"
)

// Provider - хранение файлов кандидатов: объекты в S3, метаданные в БД.
// Бакеты раздельные по тенантам
type Provider interface {
	UploadResume(ctx context.Context, tenantID, candidateID, fileName, contentType string, file []byte) (fileID string, err error)
	GetResume(ctx context.Context, tenantID, candidateID string) (rec *dbmodels.FileStorage, file []byte, err error)
	DeleteCandidateFiles(ctx context.Context, tenantID, candidateID string) error
	MakeTenantBucket(ctx context.Context, tenantID string) error
}

var Instance Provider

func NewHandler(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
		store:    filesdbstore.NewInstance(db.DB),
	}
}

type impl struct {
	s3client *minio.Client
	store    filesdbstore.Provider
}

func (i impl) UploadResume(ctx context.Context, tenantID, candidateID, fileName, contentType string, file []byte) (string, error) {
	bucketName := i.getTenantBucketName(tenantID)
	if err := i.MakeTenantBucket(ctx, tenantID); err != nil {
		return "", err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	fileID, err := i.store.SaveFile(dbmodels.FileStorage{
		BaseTenantModel: dbmodels.BaseTenantModel{TenantID: tenantID},
		Name:            fileName,
		CandidateID:     candidateID,
		Type:            dbmodels.CandidateResume,
		ContentType:     contentType,
	})
	if err != nil {
		return "", err
	}
	_, err = i.s3client.PutObject(ctx, bucketName, fileID, bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "ошибка загрузки файла в хранилище")
	}
	return fileID, nil
}

func (i impl) GetResume(ctx context.Context, tenantID, candidateID string) (*dbmodels.FileStorage, []byte, error) {
	rec, err := i.store.GetFileByType(tenantID, candidateID, dbmodels.CandidateResume)
	if err != nil {
		return nil, nil, err
	}
	if rec == nil {
		return nil, nil, models.ErrNotFound
	}
	obj, err := i.s3client.GetObject(ctx, i.getTenantBucketName(tenantID), rec.ID, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка получения файла из хранилища")
	}
	defer obj.Close()
	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, nil, errors.Wrap(err, "ошибка чтения файла из хранилища")
	}
	return rec, body, nil
}

func (i impl) DeleteCandidateFiles(ctx context.Context, tenantID, candidateID string) error {
	list, err := i.store.GetFileListByType(tenantID, candidateID, dbmodels.CandidateResume)
	if err != nil {
		return err
	}
	bucketName := i.getTenantBucketName(tenantID)
	for _, rec := range list {
		if err = i.s3client.RemoveObject(ctx, bucketName, rec.ID, minio.RemoveObjectOptions{}); err != nil {
			return errors.Wrap(err, "ошибка удаления файла из хранилища")
		}
	}
	return i.store.DeleteByCandidate(tenantID, candidateID)
}

func (i impl) MakeTenantBucket(ctx context.Context, tenantID string) error {
	bucketName := i.getTenantBucketName(tenantID)
	location := "us-east-1"
	exists, err := i.s3client.BucketExists(ctx, bucketName)
	if err != nil {
		return errors.Wrap(err, "ошибка проверки бакета")
	}
	if exists {
		return nil
	}
	err = i.s3client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: location})
	if err != nil {
		return errors.Wrap(err, "ошибка создания бакета")
	}
	return nil
}

func (i impl) getTenantBucketName(tenantID string) string {
	return fmt.Sprintf("%s-%s", config.Conf.S3.BucketName, tenantID)
}
