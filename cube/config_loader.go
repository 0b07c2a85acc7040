package cube

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MQTTConfig holds MQTT connection settings for the frame-in/result-out
// service mode.
type MQTTConfig struct {
	Broker      string `yaml:"broker" json:"broker"`
	ClientID    string `yaml:"clientId" json:"clientId"`
	Username    string `yaml:"username,omitempty" json:"username,omitempty"`
	Password    string `yaml:"password,omitempty" json:"password,omitempty"`
	FrameTopic  string `yaml:"frameTopic" json:"frameTopic"`
	ResultTopic string `yaml:"resultTopic" json:"resultTopic"`
}

// VisionConfig exposes the tunable detection thresholds. Zero values fall
// back to the package defaults, so a config file only names what it changes.
type VisionConfig struct {
	MinStickerArea float64 `yaml:"minStickerArea,omitempty" json:"minStickerArea,omitempty"`
	MaxStickerArea float64 `yaml:"maxStickerArea,omitempty" json:"maxStickerArea,omitempty"`
	AspectLimit    float64 `yaml:"aspectLimit,omitempty" json:"aspectLimit,omitempty"`
	ClosestMatches int     `yaml:"closestMatches,omitempty" json:"closestMatches,omitempty"`
}

// Config represents the full configuration file
type Config struct {
	MQTT       MQTTConfig   `yaml:"mqtt,omitempty" json:"mqtt,omitempty"`
	Vision     VisionConfig `yaml:"vision,omitempty" json:"vision,omitempty"`
	TableCache string       `yaml:"tableCache,omitempty" json:"tableCache,omitempty"`
}

// Filter materializes a ContourFilter from the vision section, filling
// unset fields from DefaultContourFilter.
func (c *Config) Filter() ContourFilter {
	f := DefaultContourFilter()
	if c.Vision.MinStickerArea > 0 {
		f.MinArea = c.Vision.MinStickerArea
	}
	if c.Vision.MaxStickerArea > 0 {
		f.MaxArea = c.Vision.MaxStickerArea
	}
	if c.Vision.AspectLimit > 0 {
		f.AspectLimit = c.Vision.AspectLimit
	}
	return f
}

// TopK returns the configured closest-match count, or the default.
func (c *Config) TopK() int {
	if c.Vision.ClosestMatches > 0 {
		return c.Vision.ClosestMatches
	}
	return DefaultClosestMatches
}

// DefaultConfig returns a config with every field at its package default.
// This is what runs when no config file is given.
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig loads the unified configuration from a YAML file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks cross-field consistency. The MQTT section is optional as a
// whole, but a configured broker needs both topics to be usable.
func (c *Config) Validate() error {
	if c.MQTT.Broker != "" {
		if c.MQTT.FrameTopic == "" {
			return fmt.Errorf("mqtt.frameTopic is required when mqtt.broker is set")
		}
		if c.MQTT.ResultTopic == "" {
			return fmt.Errorf("mqtt.resultTopic is required when mqtt.broker is set")
		}
	}
	v := c.Vision
	if v.MinStickerArea < 0 || v.MaxStickerArea < 0 {
		return fmt.Errorf("vision sticker area bounds must be non-negative")
	}
	if v.MinStickerArea > 0 && v.MaxStickerArea > 0 && v.MinStickerArea >= v.MaxStickerArea {
		return fmt.Errorf("vision.minStickerArea must be below vision.maxStickerArea")
	}
	if v.AspectLimit != 0 && v.AspectLimit < 1 {
		return fmt.Errorf("vision.aspectLimit must be at least 1")
	}
	if v.ClosestMatches < 0 {
		return fmt.Errorf("vision.closestMatches must be non-negative")
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(path string, config *Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("marshaling config YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
