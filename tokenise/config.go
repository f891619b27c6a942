package tokenise

import (
	"os"
	"path/filepath"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ConfigFile is written into a model directory next to the tokeniser files
const ConfigFile = "tokeniser_config.json"

// Tokeniser types recorded in ConfigFile
const (
	TypeWordLevel = "wordlevel"
	TypeTiktoken  = "tiktoken"
	TypeHub       = "hub"
)

// Config tells how to reload the tokeniser saved in a model directory
type Config struct {
	Type string `json:"type"`
	Name string `json:"name,omitempty"`
}

// Saver is implemented by tokenisers able to write themselves into a model directory
type Saver interface {
	SaveDir(dir string) error
}

// WriteConfig stores c in dir
func WriteConfig(dir string, c Config) error {
	buf, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, ConfigFile)
	return errors.Wrapf(os.WriteFile(path, buf, 0644), "write %s", path)
}

// ReadConfig reads the tokeniser config of a model directory
func ReadConfig(dir string) (c Config, err error) {
	path := filepath.Join(dir, ConfigFile)
	buf, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrapf(err, "read %s", path)
	}
	err = errors.Wrapf(json.Unmarshal(buf, &c), "parse %s", path)
	return
}
