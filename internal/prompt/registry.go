package prompt

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"palmvote/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// Snapshot 是某一时刻生效的模板（值拷贝，可随意持有）。
type Snapshot struct {
	Version   int64
	LoadedAt  time.Time
	Source    string
	Templates Templates
}

// Registry 持有当前模板；配置了文件时监听其变更并热加载，用完需 Close。
type Registry struct {
	path string

	mu       sync.RWMutex
	snapshot Snapshot

	watcher   *fsnotify.Watcher
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewRegistry 在 path 为空时只使用内置模板。
func NewRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	r := &Registry{path: path}
	if path == "" {
		r.snapshot = Snapshot{Version: 1, LoadedAt: time.Now(), Source: "builtin", Templates: Default()}
		return r, nil
	}
	if abs, err := filepath.Abs(path); err == nil {
		r.path = abs
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	if err := r.watch(); err != nil {
		return nil, err
	}
	return r, nil
}

// watch 监听文件所在目录，兼容编辑器先写临时文件再改名的保存方式。
func (r *Registry) watch() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher failed: %w", err)
	}
	if err := w.Add(filepath.Dir(r.path)); err != nil {
		_ = w.Close()
		return fmt.Errorf("watch prompt dir failed: %w", err)
	}
	r.watcher = w
	r.done = make(chan struct{})
	go r.loop(w)
	return nil
}

func (r *Registry) loop(w *fsnotify.Watcher) {
	defer close(r.done)
	for {
		select {
		case evt, ok := <-w.Events:
			if !ok {
				return
			}
			if filepath.Clean(evt.Name) != r.path || evt.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if err := r.Reload(); err != nil {
				logger.Errorf("prompt reload failed (%s), keeping v%d: %v", evt.Op, r.Snapshot().Version, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Warnf("prompt watcher error: %v", err)
		}
	}
}

// Close 停止文件监听；可重复调用，内置模板时为空操作。
func (r *Registry) Close() error {
	if r == nil || r.watcher == nil {
		return nil
	}
	r.closeOnce.Do(func() {
		r.closeErr = r.watcher.Close()
		<-r.done
	})
	return r.closeErr
}

// Snapshot 返回当前模板。
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshot
}

// Reload 重新读取文件；失败时保留旧快照。
func (r *Registry) Reload() error {
	if r.path == "" {
		return nil
	}
	tpl, err := ReadFile(r.path)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.snapshot = Snapshot{
		Version:   r.snapshot.Version + 1,
		LoadedAt:  time.Now(),
		Source:    r.path,
		Templates: tpl,
	}
	version := r.snapshot.Version
	r.mu.Unlock()
	logger.Infof("prompt templates v%d loaded from %s", version, filepath.Base(r.path))
	return nil
}
