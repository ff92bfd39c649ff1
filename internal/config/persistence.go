package config

import (
	"github.com/andrew-solarstorm/go-packages/common"
)

type PersistenceConfig struct {
	// DBPath is the path to the BoltDB file holding the last pool list.
	// Default: "./data/swap-engine.db"
	DBPath string

	// Enabled controls whether the pool list is snapshotted to disk.
	// Default: true
	Enabled bool
}

func (c *PersistenceConfig) Key() string {
	return PERSISTENCE_CONFIG_KEY
}

func (c *PersistenceConfig) Load() error {
	c.DBPath = common.GetEnvOrDefault("SNAPSHOT_DB_PATH", "./data/swap-engine.db")
	c.Enabled = common.GetEnvOrDefault("SNAPSHOT_ENABLED", "true") == "true"
	return nil
}

func (c *PersistenceConfig) Validate() error {
	return nil
}
