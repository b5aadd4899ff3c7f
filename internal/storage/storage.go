package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotConfigured возвращается хранилищем-заглушкой, когда S3 не подключен.
var ErrNotConfigured = errors.New("файловое хранилище не настроено")

// FileStorage - хранилище файлов (фотографий животных). Ключ объекта
// формирует вызывающая сторона; UploadFile возвращает публичный URL,
// остальные методы принимают этот URL.
type FileStorage interface {
	UploadFile(ctx context.Context, data []byte, objectName string) (string, error)

	DeleteFile(ctx context.Context, fileURL string) error

	GetFile(ctx context.Context, fileURL string) ([]byte, error)

	GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error)
}

// Disabled подставляется вместо S3, когда хранилище не сконфигурировано:
// загрузка и чтение возвращают ErrNotConfigured, удаление пропускается.
type Disabled struct{}

func (Disabled) UploadFile(ctx context.Context, data []byte, objectName string) (string, error) {
	return "", ErrNotConfigured
}

func (Disabled) DeleteFile(ctx context.Context, fileURL string) error {
	return nil
}

func (Disabled) GetFile(ctx context.Context, fileURL string) ([]byte, error) {
	return nil, ErrNotConfigured
}

func (Disabled) GetPresignedURL(ctx context.Context, fileURL string, expiry time.Duration) (string, error) {
	return "", ErrNotConfigured
}
