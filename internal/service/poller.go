package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"telescrape/internal/models"
	"telescrape/pkg/telegram"

	"github.com/sirupsen/logrus"
)

// CyclePoller drives scheduled scrape cycles. Cycles run from a single
// goroutine, so two cycles can never overlap in-process.
type CyclePoller struct {
	orchestrator Orchestrator
	channels     *ChannelManager
	client       telegram.Client
	config       models.ScraperConfig
	logger       *logrus.Logger
	ctx          context.Context
	cancel       context.CancelFunc
	wg           sync.WaitGroup
	running      bool
	mu           sync.RWMutex
}

// NewCyclePoller creates a new cycle polling service
func NewCyclePoller(orchestrator Orchestrator, channels *ChannelManager, client telegram.Client, config models.ScraperConfig, logger *logrus.Logger) *CyclePoller {
	return &CyclePoller{
		orchestrator: orchestrator,
		channels:     channels,
		client:       client,
		config:       config,
		logger:       logger,
	}
}

// Start begins the background scrape loop
func (p *CyclePoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return fmt.Errorf("cycle poller is already running")
	}

	if !p.config.SchedulingEnabled {
		p.logger.Info("Scheduled scraping is disabled in configuration")
		return nil
	}

	// Test the gateway connection before committing to the loop
	if err := p.client.HealthCheck(ctx); err != nil {
		return fmt.Errorf("failed to reach Telegram gateway before starting poller: %w", err)
	}

	p.ctx, p.cancel = context.WithCancel(ctx)
	p.running = true

	p.wg.Add(1)
	go p.pollLoop()

	p.logger.WithFields(logrus.Fields{
		"interval_sec": p.config.ScrapeIntervalSec,
		"channels":     p.channels.Count(),
	}).Info("Cycle poller started successfully")

	return nil
}

// Stop gracefully stops the scrape loop
func (p *CyclePoller) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}

	p.logger.Info("Stopping cycle poller...")
	p.cancel()
	p.wg.Wait()
	p.running = false
	p.logger.Info("Cycle poller stopped")
}

// IsRunning returns whether the poller is currently active
func (p *CyclePoller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

func (p *CyclePoller) pollLoop() {
	defer p.wg.Done()

	ticker := time.NewTicker(time.Duration(p.config.ScrapeIntervalSec) * time.Second)
	defer ticker.Stop()

	p.runCycle()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			p.runCycle()
		}
	}
}

func (p *CyclePoller) runCycle() {
	ctx, cancel := context.WithTimeout(p.ctx, time.Duration(p.config.CycleTimeoutSec)*time.Second)
	defer cancel()

	results := p.orchestrator.RunCycle(ctx, p.channels.Channels())

	for _, result := range results {
		if result.Status == models.CycleStatusError {
			p.logger.WithFields(logrus.Fields{
				"channel": result.Channel,
				"detail":  result.Detail,
			}).Warn("Channel failed during scheduled cycle")
		}
	}
}
