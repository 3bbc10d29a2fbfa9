// Package scheduler writes periodic JSON backup snapshots to disk.
package scheduler

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zhangshanggaoqing-glitch/stone-record/internal/backup"
	applog "github.com/zhangshanggaoqing-glitch/stone-record/internal/log"
	"github.com/zhangshanggaoqing-glitch/stone-record/internal/store"
)

type Scheduler struct {
	cron   *cron.Cron
	store  *store.Store
	dir    string
	logger *applog.Logger
}

func New(st *store.Store, dir string, logger *applog.Logger) *Scheduler {
	if logger == nil {
		logger = applog.New(applog.ComponentScheduler, nil)
	}
	return &Scheduler{
		cron:   cron.New(),
		store:  st,
		dir:    dir,
		logger: logger.WithComponent(applog.ComponentScheduler),
	}
}

// Register schedules the snapshot task; spec uses the standard 5-field cron
// format.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.snapshotTask); err != nil {
		return fmt.Errorf("register backup task: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Backup scheduler started", "dir", s.dir)
}

// Stop stops the scheduler and waits for a running snapshot to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Backup scheduler stopped")
}

// RunNow takes a snapshot immediately, outside the schedule.
func (s *Scheduler) RunNow() error {
	return s.snapshot()
}

func (s *Scheduler) snapshotTask() {
	if err := s.snapshot(); err != nil {
		s.logger.Error("Backup snapshot failed", applog.FieldError, err.Error())
	}
}

func (s *Scheduler) snapshot() error {
	data, err := backup.Export(s.store)
	if err != nil {
		return fmt.Errorf("export state: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}

	name := fmt.Sprintf("stone-backup-%s.json", time.Now().Format("20060102-150405"))
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	s.logger.Info("Backup snapshot written", "path", path, "bytes", len(data))
	return nil
}
