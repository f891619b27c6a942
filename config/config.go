// Package config assembles the run configuration of the intent binaries from
// defaults, an optional YAML file, INTENT_ environment variables and command line flags,
// in increasing order of precedence.
package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/neurlang/intent/classifier"
)

// EnvPrefix prefixes every environment variable
const EnvPrefix = "INTENT"

// FileEnv names the config file when --config is not given
const FileEnv = EnvPrefix + "_CONFIG"

// Config of a run
type Config struct {
	OutDir  string `mapstructure:"out_dir"`
	DataDir string `mapstructure:"data_dir"`

	Batch       int     `mapstructure:"batch"`
	EvalBatch   int     `mapstructure:"eval_batch"`
	LR          float64 `mapstructure:"lr"`
	WeightDecay float64 `mapstructure:"weight_decay"`
	Epochs      int     `mapstructure:"epochs"`
	Seed        int64   `mapstructure:"seed"`
	Uncased     bool    `mapstructure:"uncased"`
	Buckets     uint32  `mapstructure:"buckets"`
	Workers     int     `mapstructure:"workers"`

	CacheDir string `mapstructure:"cache_dir"`
	HFToken  string `mapstructure:"hf_token"`

	SavePredictions bool   `mapstructure:"save_predictions"`
	LogLevel        string `mapstructure:"log_level"`
}

// Flags defines the command line flags shared by the binaries
func Flags(name string) *pflag.FlagSet {
	def := classifier.DefaultOptions()
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "", "YAML config file, "+FileEnv+" when empty")
	fs.String("out_dir", "", "directory to save model and results")
	fs.String("data_dir", "", "corpus directory, the conventional one when empty")
	fs.Int("batch", def.TrainBatch, "training batch size")
	fs.Int("eval_batch", def.EvalBatch, "evaluation batch size")
	fs.Float64("lr", def.LearningRate, "learning rate")
	fs.Float64("weight_decay", 0, "AdamW weight decay")
	fs.Int("epochs", def.Epochs, "training epochs")
	fs.Int64("seed", def.Seed, "random seed")
	fs.Bool("uncased", false, "lowercase text before tokenisation")
	fs.Uint32("buckets", 1<<14, "hashed feature buckets of a new model")
	fs.Int("workers", 0, "worker goroutines, half of the cores when 0")
	fs.String("cache_dir", "", "Hugging Face hub cache directory")
	fs.String("hf_token", "", "Hugging Face hub access token")
	fs.Bool("save_predictions", false, "write test_predictions.txt")
	fs.String("log_level", "info", "log level")
	return fs
}

// Load reads the configuration, fs must be parsed already
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name != "config" {
			v.SetDefault(f.Name, f.DefValue)
		}
	})

	path, _ := fs.GetString("config")
	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, errors.Wrap(err, "failed to read config")
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("hf_token", EnvPrefix+"_HF_TOKEN", "HF_TOKEN"); err != nil {
		return Config{}, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal config")
	}
	return c, nil
}

// Options translates the configuration, runID tags the logs and trainer state
func (c Config) Options(runID string) classifier.Options {
	return classifier.Options{
		TrainBatch:   c.Batch,
		EvalBatch:    c.EvalBatch,
		LearningRate: c.LR,
		WeightDecay:  c.WeightDecay,
		Epochs:       c.Epochs,
		Seed:         c.Seed,
		OutputDir:    c.OutDir,
		Uncased:      c.Uncased,
		CacheDir:     c.CacheDir,
		HubToken:     c.HFToken,
		Buckets:      c.Buckets,
		Workers:      c.Workers,
		RunID:        runID,
	}
}
