package lobby

import (
	"fmt"
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// TableConfig carries the table stakes applied to new sessions.
type TableConfig struct {
	SmallBlind int64 `yaml:"smallBlind"`
	BigBlind   int64 `yaml:"bigBlind"`
	MinBuyIn   int64 `yaml:"minBuyIn"`
}

// DefaultTableConfig is used when no config file is given.
func DefaultTableConfig() TableConfig {
	return TableConfig{
		SmallBlind: 10,
		BigBlind:   20,
		MinBuyIn:   100,
	}
}

func ParseTableConfig(configFile string) (TableConfig, error) {
	bytes, err := ioutil.ReadFile(configFile)
	if err != nil {
		return TableConfig{}, errors.Wrap(err, fmt.Sprintf("Error reading table config file [%s]", configFile))
	}

	var data TableConfig
	err = yaml.Unmarshal(bytes, &data)
	if err != nil {
		return TableConfig{}, errors.Wrap(err, fmt.Sprintf("Error parsing table config YAML file [%s]", configFile))
	}

	return data, nil
}
