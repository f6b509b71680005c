package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"learnhub_backend/internal/config"

	"github.com/hibiken/asynq"
)

// Task types for media cleanup. Deletions run off the request path because
// the database write they trail has already committed; the queue retries
// them, the request does not wait for them.
const (
	TypeDeleteMedia  = "media:delete"
	TypeDeleteFolder = "media:delete_folder"
)

const (
	maxRetry   = 3
	mediaQueue = "media"
)

type DeleteMediaPayload struct {
	URL string `json:"url"`
}

type DeleteFolderPayload struct {
	FolderID string `json:"folderId"`
}

func redisOpt(cfg *config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Client enqueues cleanup tasks. Both task bodies are idempotent (deleting
// an already-deleted object succeeds), so at-least-once delivery is safe.
type Client struct {
	inner *asynq.Client
}

func NewClient(cfg *config.RedisConfig) *Client {
	return &Client{inner: asynq.NewClient(redisOpt(cfg))}
}

func (c *Client) EnqueueDeleteMedia(url string) error {
	payload, err := json.Marshal(DeleteMediaPayload{URL: url})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeDeleteMedia, payload)
	_, err = c.inner.Enqueue(task, asynq.MaxRetry(maxRetry), asynq.Queue(mediaQueue))
	return err
}

func (c *Client) EnqueueDeleteFolder(folderID string) error {
	payload, err := json.Marshal(DeleteFolderPayload{FolderID: folderID})
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeDeleteFolder, payload)
	_, err = c.inner.Enqueue(task, asynq.MaxRetry(maxRetry), asynq.Queue(mediaQueue))
	return err
}

func (c *Client) Close() error {
	return c.inner.Close()
}

// NewServer builds the worker server with exponential backoff between
// attempts. A task that exhausts its retries is dropped after the error
// handler runs; the owning record stays visibly incomplete.
func NewServer(cfg *config.RedisConfig, concurrency int, errHandler func(err error)) *asynq.Server {
	return asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				mediaQueue: 1,
			},
			RetryDelayFunc: func(n int, e error, t *asynq.Task) time.Duration {
				return time.Duration(math.Pow(2, float64(n))) * time.Second
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				if errHandler != nil {
					errHandler(err)
				}
			}),
		},
	)
}
