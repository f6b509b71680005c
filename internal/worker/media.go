package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"learnhub_backend/internal/service"
	"learnhub_backend/pkg/logger"
	"learnhub_backend/pkg/queue"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// MediaWorker executes the cleanup tasks the services enqueue. Both
// handlers are idempotent: an object that is already gone counts as
// deleted, so retries after partial failures are safe.
type MediaWorker struct {
	Storage *service.StorageService
}

func NewMediaWorker(storage *service.StorageService) *MediaWorker {
	return &MediaWorker{Storage: storage}
}

func (w *MediaWorker) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(queue.TypeDeleteMedia, w.HandleDeleteMedia)
	mux.HandleFunc(queue.TypeDeleteFolder, w.HandleDeleteFolder)
}

func (w *MediaWorker) HandleDeleteMedia(ctx context.Context, task *asynq.Task) error {
	var payload queue.DeleteMediaPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", queue.TypeDeleteMedia, err)
	}

	if err := w.Storage.DeleteByURL(ctx, payload.URL); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		logger.Log.Warn("media delete failed, will retry",
			zap.String("url", payload.URL), zap.Error(err))
		return err
	}

	logger.Log.Info("media deleted", zap.String("url", payload.URL))
	return nil
}

func (w *MediaWorker) HandleDeleteFolder(ctx context.Context, task *asynq.Task) error {
	var payload queue.DeleteFolderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode %s payload: %w", queue.TypeDeleteFolder, err)
	}

	if err := w.Storage.DeleteFolder(ctx, payload.FolderID); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		logger.Log.Warn("folder delete failed, will retry",
			zap.String("folderId", payload.FolderID), zap.Error(err))
		return err
	}

	logger.Log.Info("asset folder deleted", zap.String("folderId", payload.FolderID))
	return nil
}
