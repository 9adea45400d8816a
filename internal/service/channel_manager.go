package service

import (
	"fmt"
	"sync"

	"telescrape/internal/models"
)

// ChannelManager holds the configured channel list, preserving config order.
type ChannelManager struct {
	names  []string
	byName map[string]bool
	mu     sync.RWMutex
}

// NewChannelManager creates a channel manager from configuration
func NewChannelManager(channels []models.ChannelConfig) (*ChannelManager, error) {
	cm := &ChannelManager{
		names:  make([]string, 0, len(channels)),
		byName: make(map[string]bool),
	}

	for _, channel := range channels {
		if channel.Name == "" {
			return nil, fmt.Errorf("empty channel name in configuration")
		}
		if cm.byName[channel.Name] {
			return nil, fmt.Errorf("duplicate channel name: %s", channel.Name)
		}

		cm.byName[channel.Name] = true
		cm.names = append(cm.names, channel.Name)
	}

	if len(cm.names) == 0 {
		return nil, fmt.Errorf("no channels configured")
	}

	return cm, nil
}

// Channels returns the configured channel names in config order
func (cm *ChannelManager) Channels() []string {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	names := make([]string, len(cm.names))
	copy(names, cm.names)
	return names
}

// IsValidChannel checks if a channel is configured
func (cm *ChannelManager) IsValidChannel(name string) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return cm.byName[name]
}

// Count returns the number of configured channels
func (cm *ChannelManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()

	return len(cm.names)
}
