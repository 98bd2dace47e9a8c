// Package fs provides a filesystem-backed task ledger on top of viant/afs,
// persisting one JSON document per task. Any afs scheme works (file, mem,
// embed, cloud object stores).
package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"path"
	"strings"
	"sync"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/option"
	"github.com/viant/afs/url"

	"github.com/agvsim/putaway/model"
	"github.com/agvsim/putaway/service/dao"
	"github.com/agvsim/putaway/service/dao/criteria"
)

// Service implements a filesystem-based task ledger.
type Service struct {
	baseURL string
	fs      afs.Service
	mu      sync.RWMutex
}

var _ dao.Service[string, model.Task] = (*Service)(nil)

// Save persists a task as JSON under the base URL.
func (s *Service) Save(ctx context.Context, task *model.Task) error {
	if task == nil {
		return dao.ErrNilEntity
	}
	if task.TaskID == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload(ctx, task)
}

// SaveAll commits a task batch. The batch is validated up front; if an
// upload fails midway the already-written subset is removed so a failed run
// leaves no partial ledger state behind.
func (s *Service) SaveAll(ctx context.Context, batch []*model.Task) error {
	for _, task := range batch {
		if task == nil {
			return dao.ErrNilEntity
		}
		if task.TaskID == "" {
			return dao.ErrInvalidID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	written := make([]string, 0, len(batch))
	for _, task := range batch {
		if err := s.upload(ctx, task); err != nil {
			for _, id := range written {
				if delErr := s.fs.Delete(ctx, s.taskURL(id)); delErr != nil {
					log.Printf("task ledger: failed to undo write of %v: %v", id, delErr)
				}
			}
			return err
		}
		written = append(written, task.TaskID)
	}
	return nil
}

// Load retrieves a task from the filesystem.
func (s *Service) Load(ctx context.Context, id string) (*model.Task, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	location := s.taskURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to check task %v: %w", id, err)
	}
	if !exists {
		return nil, dao.ErrNotFound
	}

	data, err := s.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("failed to read task %v: %w", id, err)
	}

	task := &model.Task{}
	if err := json.Unmarshal(data, task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task %v: %w", id, err)
	}
	return task, nil
}

// Delete removes a task document.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	location := s.taskURL(id)
	exists, err := s.fs.Exists(ctx, location)
	if err != nil {
		return fmt.Errorf("failed to check task %v: %w", id, err)
	}
	if !exists {
		return dao.ErrNotFound
	}
	return s.fs.Delete(ctx, location)
}

// List returns tasks matching the supplied parameters.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	objects, err := s.fs.List(ctx, s.baseURL, option.NewRecursive(true))
	if err != nil {
		return nil, fmt.Errorf("failed to list task files: %w", err)
	}

	var tasks []*model.Task
	for _, object := range objects {
		if object.IsDir() || !strings.HasSuffix(object.Name(), ".json") {
			continue
		}
		data, err := s.fs.Download(ctx, object)
		if err != nil {
			log.Printf("task ledger: error reading %v: %v", object.URL(), err)
			continue
		}
		task := &model.Task{}
		if err := json.Unmarshal(data, task); err != nil {
			log.Printf("task ledger: error unmarshaling %v: %v", object.URL(), err)
			continue
		}
		fields := map[string]string{
			dao.ParamMapID:  task.MapID,
			dao.ParamStatus: task.Status,
		}
		if !criteria.Match(fields, parameters) {
			continue
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func (s *Service) upload(ctx context.Context, task *model.Task) error {
	data, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task %v: %w", task.TaskID, err)
	}
	location := s.taskURL(task.TaskID)
	if err := s.fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save task to %v: %w", location, err)
	}
	return nil
}

func (s *Service) taskURL(id string) string {
	return url.Join(s.baseURL, path.Clean(id)+".json")
}

// New creates a filesystem task ledger rooted at baseURL.
func New(baseURL string) (*Service, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL cannot be empty")
	}

	fs := afs.New()
	ctx := context.Background()
	if exists, _ := fs.Exists(ctx, baseURL); !exists {
		if err := fs.Create(ctx, baseURL, file.DefaultDirOsMode, true); err != nil {
			return nil, fmt.Errorf("failed to create ledger directory: %w", err)
		}
	}

	return &Service{
		baseURL: url.Normalize(baseURL, file.Scheme),
		fs:      fs,
	}, nil
}
