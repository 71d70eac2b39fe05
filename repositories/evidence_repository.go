package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrEvidenceNotFound = errors.New("evidence file not found")

type EvidenceFile struct {
	ID          string
	Name        string
	ContentType string
	Size        int64
	Content     io.ReadCloser
}

// EvidenceRepository stores the files attached to deliveries.
type EvidenceRepository interface {
	Upload(ctx context.Context, filename string, data io.Reader, contentType string, uploadedBy string) (string, error)
	Open(ctx context.Context, fileID string) (*EvidenceFile, error)
	Delete(ctx context.Context, fileID string) error
}

type gridFSEvidenceRepository struct {
	bucket *gridfs.Bucket
}

func NewGridFSEvidenceRepository(db *mongo.Database) (EvidenceRepository, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName("evidence"))
	if err != nil {
		return nil, fmt.Errorf("failed to create GridFS bucket: %w", err)
	}
	return &gridFSEvidenceRepository{bucket: bucket}, nil
}

func (r *gridFSEvidenceRepository) Upload(ctx context.Context, filename string, data io.Reader, contentType string, uploadedBy string) (string, error) {
	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"uploadedBy":  uploadedBy,
		"uploadedAt":  time.Now(),
		"contentType": contentType,
	})

	fileID, err := r.bucket.UploadFromStream(filename, data, uploadOpts)
	if err != nil {
		return "", fmt.Errorf("failed to upload file to GridFS: %w", err)
	}
	return fileID.Hex(), nil
}

func (r *gridFSEvidenceRepository) Open(ctx context.Context, fileID string) (*EvidenceFile, error) {
	oid, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, ErrEvidenceNotFound
	}

	stream, err := r.bucket.OpenDownloadStream(oid)
	if errors.Is(err, gridfs.ErrFileNotFound) {
		return nil, ErrEvidenceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to download file from GridFS: %w", err)
	}

	info := stream.GetFile()
	contentType := "application/octet-stream"
	if len(info.Metadata) > 0 {
		var meta map[string]interface{}
		if err := bson.Unmarshal(info.Metadata, &meta); err == nil {
			if ct, ok := meta["contentType"].(string); ok && ct != "" {
				contentType = ct
			}
		}
	}

	return &EvidenceFile{
		ID:          fileID,
		Name:        info.Name,
		ContentType: contentType,
		Size:        info.Length,
		Content:     stream,
	}, nil
}

func (r *gridFSEvidenceRepository) Delete(ctx context.Context, fileID string) error {
	oid, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return ErrEvidenceNotFound
	}
	if err := r.bucket.Delete(oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return ErrEvidenceNotFound
		}
		return fmt.Errorf("failed to delete file from GridFS: %w", err)
	}
	return nil
}

type memoryEvidence struct {
	name        string
	contentType string
	data        []byte
}

type memoryEvidenceRepository struct {
	mu    sync.RWMutex
	files map[string]memoryEvidence
}

func NewMemoryEvidenceRepository() EvidenceRepository {
	return &memoryEvidenceRepository{files: make(map[string]memoryEvidence)}
}

func (r *memoryEvidenceRepository) Upload(ctx context.Context, filename string, data io.Reader, contentType string, uploadedBy string) (string, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	id := uuid.NewString()
	r.mu.Lock()
	r.files[id] = memoryEvidence{name: filename, contentType: contentType, data: content}
	r.mu.Unlock()
	return id, nil
}

func (r *memoryEvidenceRepository) Open(ctx context.Context, fileID string) (*EvidenceFile, error) {
	r.mu.RLock()
	f, ok := r.files[fileID]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrEvidenceNotFound
	}
	return &EvidenceFile{
		ID:          fileID,
		Name:        f.name,
		ContentType: f.contentType,
		Size:        int64(len(f.data)),
		Content:     io.NopCloser(bytes.NewReader(f.data)),
	}, nil
}

func (r *memoryEvidenceRepository) Delete(ctx context.Context, fileID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[fileID]; !ok {
		return ErrEvidenceNotFound
	}
	delete(r.files, fileID)
	return nil
}
