package repository

import (
	"context"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"TenantPilot/entity"
)

// Store stages an uploaded document in GridFS so a failed submission to the
// platform can be retried later. Returns the hex file id and the stored size.
func (m *MongoDB) Store(ctx context.Context, filename string, reader io.Reader, meta entity.FileMetadata) (string, int64, error) {
	connection, err := m.connect()
	if err != nil {
		return "", 0, err
	}
	defer m.disconnect(connection)

	bucket, err := gridfs.NewBucket(connection.Database(m.database))
	if err != nil {
		return "", 0, fmt.Errorf("gridfs bucket: %w", err)
	}

	uploadOpts := options.GridFSUpload().SetMetadata(meta)
	uploadStream, err := bucket.OpenUploadStream(filename, uploadOpts)
	if err != nil {
		return "", 0, fmt.Errorf("gridfs open upload: %w", err)
	}

	size, err := io.Copy(uploadStream, io.LimitReader(reader, entity.MaxFileSize+1))
	if err != nil {
		uploadStream.Close()
		return "", 0, fmt.Errorf("gridfs copy: %w", err)
	}
	if size > entity.MaxFileSize {
		uploadStream.Close()
		return "", 0, fmt.Errorf("file %s exceeds the %d MB limit", filename, entity.MaxFileSize>>20)
	}

	if err := uploadStream.Close(); err != nil {
		return "", 0, fmt.Errorf("gridfs close upload: %w", err)
	}

	fileID := uploadStream.FileID.(primitive.ObjectID)
	return fileID.Hex(), size, nil
}

// Delete removes a staged document once it has been submitted.
func (m *MongoDB) Delete(ctx context.Context, fileID string) error {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return fmt.Errorf("bad file id %q: %w", fileID, err)
	}

	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)

	bucket, err := gridfs.NewBucket(connection.Database(m.database))
	if err != nil {
		return fmt.Errorf("gridfs bucket: %w", err)
	}

	if err := bucket.Delete(objectID); err != nil {
		return fmt.Errorf("gridfs delete: %w", err)
	}
	return nil
}

// gridfsReadCloser wraps a GridFS download stream and disconnects
// the MongoDB client when closed.
type gridfsReadCloser struct {
	stream     *gridfs.DownloadStream
	disconnect func()
}

func (r *gridfsReadCloser) Read(p []byte) (int, error) {
	return r.stream.Read(p)
}

func (r *gridfsReadCloser) Close() error {
	err := r.stream.Close()
	r.disconnect()
	return err
}

// Open re-reads a staged document by its hex file id.
// The caller must close the returned ReadCloser to release the connection.
func (m *MongoDB) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	objectID, err := primitive.ObjectIDFromHex(fileID)
	if err != nil {
		return nil, fmt.Errorf("bad file id %q: %w", fileID, err)
	}

	connection, err := m.connect()
	if err != nil {
		return nil, err
	}

	bucket, err := gridfs.NewBucket(connection.Database(m.database))
	if err != nil {
		m.disconnect(connection)
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}

	stream, err := bucket.OpenDownloadStream(objectID)
	if err != nil {
		m.disconnect(connection)
		return nil, fmt.Errorf("gridfs open download: %w", err)
	}

	return &gridfsReadCloser{
		stream:     stream,
		disconnect: func() { m.disconnect(connection) },
	}, nil
}
