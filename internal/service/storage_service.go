package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"learnhub_backend/internal/config"
	"learnhub_backend/internal/model"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageProvider abstracts the object store. Object names are always
// "<folderID>/<file>" so that a course's assets can be removed as a unit.
type StorageProvider interface {
	Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error)
	UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error)
	Delete(ctx context.Context, objectName string) error
	DeleteFolder(ctx context.Context, folderID string) error
	GetURL(objectName string) string
	// ObjectKeyFromURL inverts GetURL. Returns false for URLs that do not
	// belong to this provider.
	ObjectKeyFromURL(url string) (string, bool)
}

type LocalStorageProvider struct {
	Config *config.StorageConfig
}

func (p *LocalStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, reader); err != nil {
		return "", err
	}

	return p.GetURL(objectName), nil
}

func (p *LocalStorageProvider) UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	dst := filepath.Join(p.Config.LocalPath, objectName)
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return "", err
	}

	if localPath == dst {
		return p.GetURL(objectName), nil
	}

	src, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer src.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, src); err != nil {
		return "", err
	}

	return p.GetURL(objectName), nil
}

func (p *LocalStorageProvider) Delete(ctx context.Context, objectName string) error {
	return os.Remove(filepath.Join(p.Config.LocalPath, objectName))
}

func (p *LocalStorageProvider) DeleteFolder(ctx context.Context, folderID string) error {
	return os.RemoveAll(filepath.Join(p.Config.LocalPath, folderID))
}

func (p *LocalStorageProvider) GetURL(objectName string) string {
	return "/uploads/" + objectName
}

func (p *LocalStorageProvider) ObjectKeyFromURL(url string) (string, bool) {
	key := strings.TrimPrefix(url, "/uploads/")
	return key, key != url && key != ""
}

type MinioStorageProvider struct {
	Config *config.StorageConfig
	Client *minio.Client
}

func NewMinioStorageProvider(cfg *config.StorageConfig) (*MinioStorageProvider, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessID, cfg.MinioSecret, ""),
		Secure: false,
	})
	if err != nil {
		return nil, err
	}
	return &MinioStorageProvider{Config: cfg, Client: client}, nil
}

func (p *MinioStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	_, err := p.Client.PutObject(ctx, p.Config.MinioBucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *MinioStorageProvider) UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	_, err := p.Client.FPutObject(ctx, p.Config.MinioBucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *MinioStorageProvider) Delete(ctx context.Context, objectName string) error {
	return p.Client.RemoveObject(ctx, p.Config.MinioBucket, objectName, minio.RemoveObjectOptions{})
}

func (p *MinioStorageProvider) DeleteFolder(ctx context.Context, folderID string) error {
	objects := p.Client.ListObjects(ctx, p.Config.MinioBucket, minio.ListObjectsOptions{
		Prefix:    folderID + "/",
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return object.Err
		}
		if err := p.Client.RemoveObject(ctx, p.Config.MinioBucket, object.Key, minio.RemoveObjectOptions{}); err != nil {
			return err
		}
	}
	return nil
}

func (p *MinioStorageProvider) GetURL(objectName string) string {
	return "/" + p.Config.MinioBucket + "/" + objectName
}

func (p *MinioStorageProvider) ObjectKeyFromURL(url string) (string, bool) {
	prefix := "/" + p.Config.MinioBucket + "/"
	key := strings.TrimPrefix(url, prefix)
	return key, key != url && key != ""
}

type OSSStorageProvider struct {
	Config *config.StorageConfig
	Client *oss.Client
}

func NewOSSStorageProvider(cfg *config.StorageConfig) (*OSSStorageProvider, error) {
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey)
	if err != nil {
		return nil, err
	}
	return &OSSStorageProvider{Config: cfg, Client: client}, nil
}

func (p *OSSStorageProvider) Upload(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObject(objectName, reader); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *OSSStorageProvider) UploadFile(ctx context.Context, objectName string, localPath string, contentType string) (string, error) {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return "", err
	}
	if err := bucket.PutObjectFromFile(objectName, localPath); err != nil {
		return "", err
	}
	return p.GetURL(objectName), nil
}

func (p *OSSStorageProvider) Delete(ctx context.Context, objectName string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}
	return bucket.DeleteObject(objectName)
}

func (p *OSSStorageProvider) DeleteFolder(ctx context.Context, folderID string) error {
	bucket, err := p.Client.Bucket(p.Config.OSSBucket)
	if err != nil {
		return err
	}

	marker := ""
	for {
		result, err := bucket.ListObjects(oss.Prefix(folderID+"/"), oss.Marker(marker))
		if err != nil {
			return err
		}
		keys := make([]string, 0, len(result.Objects))
		for _, object := range result.Objects {
			keys = append(keys, object.Key)
		}
		if len(keys) > 0 {
			if _, err := bucket.DeleteObjects(keys); err != nil {
				return err
			}
		}
		if !result.IsTruncated {
			return nil
		}
		marker = result.NextMarker
	}
}

func (p *OSSStorageProvider) GetURL(objectName string) string {
	return fmt.Sprintf("https://%s.%s/%s", p.Config.OSSBucket, p.Config.OSSEndpoint, objectName)
}

func (p *OSSStorageProvider) ObjectKeyFromURL(url string) (string, bool) {
	prefix := fmt.Sprintf("https://%s.%s/", p.Config.OSSBucket, p.Config.OSSEndpoint)
	key := strings.TrimPrefix(url, prefix)
	return key, key != url && key != ""
}

type StorageService struct {
	Provider StorageProvider
}

func NewStorageService(cfg *config.Config) *StorageService {
	var provider StorageProvider
	switch cfg.Storage.Type {
	case "minio":
		p, err := NewMinioStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		}
	case "oss":
		p, err := NewOSSStorageProvider(&cfg.Storage)
		if err == nil {
			provider = p
		}
	}

	if provider == nil {
		provider = &LocalStorageProvider{Config: &cfg.Storage}
	}

	return &StorageService{Provider: provider}
}

// UploadAsset stores a file under the given folder with a random name that
// keeps the original extension, and returns its public URL.
func (s *StorageService) UploadAsset(ctx context.Context, folderID, originalName string, reader io.Reader, size int64, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	objectName := folderID + "/" + model.GenerateUUID() + ext
	return s.Provider.Upload(ctx, objectName, reader, size, contentType)
}

// UploadAssetFile is UploadAsset for files already on local disk, used for
// videos that are probed before upload.
func (s *StorageService) UploadAssetFile(ctx context.Context, folderID, originalName, localPath, contentType string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	objectName := folderID + "/" + model.GenerateUUID() + ext
	return s.Provider.UploadFile(ctx, objectName, localPath, contentType)
}

// DeleteByURL removes the object a previously returned URL points at. URLs
// from a different provider configuration are rejected rather than
// silently ignored.
func (s *StorageService) DeleteByURL(ctx context.Context, url string) error {
	key, ok := s.Provider.ObjectKeyFromURL(url)
	if !ok {
		return fmt.Errorf("url %q does not belong to the configured storage", url)
	}
	return s.Provider.Delete(ctx, key)
}

// DeleteFolder removes every asset stored under the folder.
func (s *StorageService) DeleteFolder(ctx context.Context, folderID string) error {
	return s.Provider.DeleteFolder(ctx, folderID)
}

func (s *StorageService) GetURL(objectName string) string {
	return s.Provider.GetURL(objectName)
}
