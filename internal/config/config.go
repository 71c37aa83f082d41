// Package config loads the YAML configuration file that names the KV
// backend file, the YANG module search path, and the named datastores to
// initialize at startup. Grounded on the teacher's pkg/config/config.go
// New()/validateSetDefaults() idiom.
package config

import (
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"
)

const (
	defaultKVPath   = "/var/lib/yangdb/yangdb.bolt"
	defaultLogLevel = "info"
)

// Config is the top-level configuration document.
type Config struct {
	KV         *KVConfig          `yaml:"kv,omitempty" json:"kv,omitempty"`
	Schema     *SchemaConfig      `yaml:"schema,omitempty" json:"schema,omitempty"`
	Datastores []*DatastoreConfig `yaml:"datastores,omitempty" json:"datastores,omitempty"`
	LogLevel   string             `yaml:"log-level,omitempty" json:"log-level,omitempty"`
}

// KVConfig names the backing bbolt file.
type KVConfig struct {
	Path string `yaml:"path,omitempty" json:"path,omitempty"`
}

// SchemaConfig names the YANG module files and search directories to load
// at startup.
type SchemaConfig struct {
	Files       []string `yaml:"files,omitempty" json:"files,omitempty"`
	Directories []string `yaml:"directories,omitempty" json:"directories,omitempty"`
}

// DatastoreConfig names one logical datastore (e.g. "running", "candidate",
// "startup") to initialize at startup.
type DatastoreConfig struct {
	Name string `yaml:"name" json:"name"`
}

// ValidateSetDefaults rejects an empty name (there are no per-datastore
// defaults to fill), mirroring the teacher's per-datastore ValidateSetDefaults.
func (d *DatastoreConfig) ValidateSetDefaults() error {
	if d.Name == "" {
		return errors.New("config: datastore entry with empty name")
	}
	return nil
}

// New reads file (if non-empty) as YAML into a Config and applies
// defaults. An empty file path returns a Config with defaults only.
func New(file string) (*Config, error) {
	c := new(Config)
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", file, err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", file, err)
		}
	}
	if err := c.validateSetDefaults(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validateSetDefaults() error {
	if c.KV == nil {
		c.KV = &KVConfig{}
	}
	if c.KV.Path == "" {
		c.KV.Path = defaultKVPath
	}

	if c.Schema == nil {
		c.Schema = &SchemaConfig{}
	}
	if len(c.Schema.Files) == 0 && len(c.Schema.Directories) == 0 {
		return errors.New("config: schema.files or schema.directories must be set")
	}

	if len(c.Datastores) == 0 {
		c.Datastores = []*DatastoreConfig{{Name: "running"}}
	}
	for _, ds := range c.Datastores {
		if err := ds.ValidateSetDefaults(); err != nil {
			return err
		}
	}

	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: bad log-level %q: %w", c.LogLevel, err)
	}
	return nil
}
