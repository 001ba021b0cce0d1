// Package geodir serves the building reference directory and reloads it
// when the workbook changes on disk.
package geodir

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgs-kpis/fmd-dashboard/internal/geo"
	"github.com/dgs-kpis/fmd-dashboard/internal/logger"
	"github.com/dgs-kpis/fmd-dashboard/internal/models"
)

// Event represents a geodir service event.
type Event struct {
	Type  EventType
	Error error
}

// EventType defines the type of geodir event.
type EventType int

const (
	// EventDirectoryLoaded indicates the workbook loaded at startup.
	EventDirectoryLoaded EventType = iota
	// EventDirectoryReloaded indicates the workbook changed and reloaded.
	EventDirectoryReloaded
	// EventError indicates a load or watch failure. The previous directory
	// stays in service.
	EventError
)

// Service watches the building workbook and swaps in a fresh immutable
// directory on every valid change.
type Service struct {
	mu            sync.RWMutex
	directory     *geo.Directory
	filePath      string
	watcher       *fsnotify.Watcher
	eventChan     chan Event
	stopChan      chan struct{}
	debounceTimer *time.Timer
}

// New loads the workbook and starts watching it for changes.
func New(filePath string) (*Service, error) {
	directory, err := geo.LoadWorkbook(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load building workbook: %w", err)
	}

	s := &Service{
		directory: directory,
		filePath:  filePath,
		eventChan: make(chan Event, 100),
		stopChan:  make(chan struct{}),
	}

	if err := s.startWatcher(); err != nil {
		return nil, fmt.Errorf("failed to start workbook watcher: %w", err)
	}

	s.sendEvent(Event{Type: EventDirectoryLoaded})

	return s, nil
}

// Events returns the event channel for subscribing to directory changes.
func (s *Service) Events() <-chan Event {
	return s.eventChan
}

// Directory returns the current directory. The returned value is immutable;
// callers may hold it across reloads.
func (s *Service) Directory() *geo.Directory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory
}

// Len returns the number of buildings in the current directory.
func (s *Service) Len() int {
	return s.Directory().Len()
}

// Lookup returns the geo record for a building id.
func (s *Service) Lookup(buildingID string) (models.BuildingGeo, bool) {
	return s.Directory().Lookup(buildingID)
}

// Join attaches coordinates to every order using the current directory.
func (s *Service) Join(orders []models.WorkOrder) ([]models.LocatedOrder, error) {
	return s.Directory().Join(orders)
}

// startWatcher starts the file system watcher.
func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	s.watcher = watcher

	// Watch the directory to catch save-via-rename from spreadsheet editors.
	dir := filepath.Dir(s.filePath)
	if err := watcher.Add(dir); err != nil {
		if closeErr := watcher.Close(); closeErr != nil {
			logger.Error("failed to close watcher", "error", closeErr)
		}
		return err
	}

	go s.watchLoop()
	return nil
}

// watchLoop handles file system events with debouncing.
func (s *Service) watchLoop() {
	const debounceInterval = 200 * time.Millisecond

	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != filepath.Base(s.filePath) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				if s.debounceTimer != nil {
					s.debounceTimer.Stop()
				}
				s.debounceTimer = time.AfterFunc(debounceInterval, func() {
					s.reload()
				})
			}

		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.sendEvent(Event{Type: EventError, Error: err})

		case <-s.stopChan:
			return
		}
	}
}

// reload parses the workbook again and swaps the directory on success.
func (s *Service) reload() {
	directory, err := geo.LoadWorkbook(s.filePath)
	if err != nil {
		logger.Error("workbook reload failed, keeping previous directory", "error", err)
		s.sendEvent(Event{Type: EventError, Error: err})
		return
	}

	s.mu.Lock()
	s.directory = directory
	s.mu.Unlock()

	s.sendEvent(Event{Type: EventDirectoryReloaded})
}

// sendEvent sends an event to the event channel non-blocking.
func (s *Service) sendEvent(event Event) {
	select {
	case s.eventChan <- event:
	default:
		// Channel full, drop oldest
		select {
		case <-s.eventChan:
		default:
		}
		select {
		case s.eventChan <- event:
		default:
		}
	}
}

// Close stops the watcher and cleans up resources.
func (s *Service) Close() error {
	close(s.stopChan)

	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}

	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}
