package broker

import (
	"github.com/shortlink-org/smartapp-bridge/config"
)

// Config names the topics the relay host uses.
type Config struct {
	// OutboundTopic carries request envelopes to the host.
	OutboundTopic string
	// InboundTopic carries answers and notifications from the host.
	InboundTopic string
	// LogTopic carries app diagnostics.
	LogTopic string
}

func DefaultConfig() Config {
	return Config{
		OutboundTopic: "smartapp.outbound",
		InboundTopic:  "smartapp.inbound",
		LogTopic:      "smartapp.logs",
	}
}

// LoadConfig reads BRIDGE_BROKER_* keys.
func LoadConfig(cfg *config.Config) Config {
	def := DefaultConfig()

	cfg.SetDefault("BRIDGE_BROKER_OUTBOUND_TOPIC", def.OutboundTopic)
	cfg.SetDefault("BRIDGE_BROKER_INBOUND_TOPIC", def.InboundTopic)
	cfg.SetDefault("BRIDGE_BROKER_LOG_TOPIC", def.LogTopic)

	return Config{
		OutboundTopic: cfg.GetString("BRIDGE_BROKER_OUTBOUND_TOPIC"),
		InboundTopic:  cfg.GetString("BRIDGE_BROKER_INBOUND_TOPIC"),
		LogTopic:      cfg.GetString("BRIDGE_BROKER_LOG_TOPIC"),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()

	if c.OutboundTopic == "" {
		c.OutboundTopic = def.OutboundTopic
	}

	if c.InboundTopic == "" {
		c.InboundTopic = def.InboundTopic
	}

	if c.LogTopic == "" {
		c.LogTopic = def.LogTopic
	}

	return c
}
