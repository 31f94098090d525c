package parallel

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StrandMonitor watches submitted proof-attempt strands and raises an alert
// when one runs far longer than expected, which in this domain usually
// means a strand is looping without making progress (no suspension points
// exist inside a single resolvent step, so a step that never returns is a
// bug, not contention).
type StrandMonitor struct {
	mu sync.RWMutex

	timeoutDuration time.Duration
	checkInterval   time.Duration

	activeStrands      map[string]*strandInfo
	lastActivity       time.Time
	potentialDeadlocks int64

	shutdownChan chan struct{}
	alertChan    chan StrandAlert
}

type strandInfo struct {
	id          string
	startTime   time.Time
	lastUpdate  time.Time
	description string
}

// StrandAlert reports a stuck or timed-out strand.
type StrandAlert struct {
	Type        StrandAlertType
	StrandID    string
	Description string
	Timestamp   time.Time
}

type StrandAlertType int

const (
	AlertStrandTimeout StrandAlertType = iota
	AlertSystemStall
)

// NewStrandMonitor creates a new strand monitor.
func NewStrandMonitor(timeoutDuration, checkInterval time.Duration) *StrandMonitor {
	if timeoutDuration <= 0 {
		timeoutDuration = 30 * time.Second
	}
	if checkInterval <= 0 {
		checkInterval = 5 * time.Second
	}

	m := &StrandMonitor{
		timeoutDuration: timeoutDuration,
		checkInterval:   checkInterval,
		activeStrands:   make(map[string]*strandInfo),
		lastActivity:    time.Now(),
		shutdownChan:    make(chan struct{}),
		alertChan:       make(chan StrandAlert, 10),
	}

	go m.monitor()

	return m
}

// RegisterStrand registers a new active strand for monitoring.
func (m *StrandMonitor) RegisterStrand(id, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.activeStrands[id] = &strandInfo{id: id, startTime: time.Now(), lastUpdate: time.Now(), description: description}
	m.lastActivity = time.Now()
}

// UnregisterStrand removes a strand from monitoring.
func (m *StrandMonitor) UnregisterStrand(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.activeStrands, id)
}

// Alerts returns a channel for receiving stuck-strand alerts.
func (m *StrandMonitor) Alerts() <-chan StrandAlert {
	return m.alertChan
}

// ActiveStrandCount returns the number of currently monitored strands.
func (m *StrandMonitor) ActiveStrandCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.activeStrands)
}

// Shutdown stops the monitor.
func (m *StrandMonitor) Shutdown() {
	close(m.shutdownChan)
}

func (m *StrandMonitor) monitor() {
	ticker := time.NewTicker(m.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.check()
		case <-m.shutdownChan:
			return
		}
	}
}

func (m *StrandMonitor) check() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()

	for id, strand := range m.activeStrands {
		if now.Sub(strand.lastUpdate) > m.timeoutDuration {
			m.emit(StrandAlert{
				Type:        AlertStrandTimeout,
				StrandID:    id,
				Description: fmt.Sprintf("strand %q timed out after %v", strand.description, now.Sub(strand.startTime)),
				Timestamp:   now,
			})
		}
	}

	if stallThreshold := m.timeoutDuration * 2; now.Sub(m.lastActivity) > stallThreshold && len(m.activeStrands) > 0 {
		m.emit(StrandAlert{
			Type:        AlertSystemStall,
			Description: fmt.Sprintf("no activity for %v with %d active strands", now.Sub(m.lastActivity), len(m.activeStrands)),
			Timestamp:   now,
		})
	}
}

func (m *StrandMonitor) emit(alert StrandAlert) {
	select {
	case m.alertChan <- alert:
	default:
	}
	m.potentialDeadlocks++
}

// RunGuarded runs fn as a monitored strand, cancelling its context if it
// exceeds the monitor's timeout.
func (m *StrandMonitor) RunGuarded(ctx context.Context, id, description string, fn func(context.Context) error) error {
	m.RegisterStrand(id, description)
	defer m.UnregisterStrand(id)

	strandCtx, cancel := context.WithTimeout(ctx, m.timeoutDuration)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- fn(strandCtx) }()

	select {
	case err := <-done:
		return err
	case <-strandCtx.Done():
		return fmt.Errorf("strand %q timed out: %w", description, strandCtx.Err())
	}
}
