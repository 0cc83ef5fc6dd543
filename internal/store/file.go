package store

import (
	"context"
	"encoding/json"
	"os"

	commonerrors "x360-agent/internal/common/errors"
	"x360-agent/internal/models"
)

// FileSource reads the dataset from a JSON array on disk.
type FileSource struct {
	Path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

func (f *FileSource) Name() string { return "file" }

func (f *FileSource) Load(ctx context.Context) ([]models.Ticket, error) {
	raw, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, err
	}

	var tickets []models.Ticket
	if err := json.Unmarshal(raw, &tickets); err != nil {
		return nil, commonerrors.NewStoreDecodeFailedError(f.Name(), err)
	}
	return tickets, nil
}
