package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/neurlang/intent/classifier"
	"github.com/neurlang/intent/config"
	"github.com/neurlang/intent/datasets"
	"github.com/neurlang/intent/datasets/corpora"
	"github.com/neurlang/intent/net/linear"
)

func main() {
	fs := config.Flags("infer_intent")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: infer_intent [flags] <model_dir> <dataset>\n\ndataset is one of %s\n\n",
			strings.Join(corpora.Keys(), ", "))
		fs.PrintDefaults()
	}
	if err := fs.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, fs); err != nil {
		logrus.WithError(err).Error("infer_intent failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, fs *pflag.FlagSet) error {
	if fs.NArg() != 2 {
		fs.Usage()
		return errors.Errorf("expected <model_dir> <dataset>, got %d arguments", fs.NArg())
	}
	modelDir, key := fs.Arg(0), fs.Arg(1)
	corpus, ok := corpora.Get(key)
	if !ok {
		return errors.Errorf("unknown dataset %q, one of %s", key, strings.Join(corpora.Keys(), ", "))
	}
	if _, err := os.Stat(filepath.Join(modelDir, linear.ConfigFile)); err != nil {
		return errors.Errorf("%q is not a saved model directory", modelDir)
	}

	c, err := config.Load(fs)
	if err != nil {
		return err
	}
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	opts := c.Options(uuid.NewString())
	if opts.OutputDir == "" {
		opts.OutputDir = classifier.BaseOutputDir(modelDir)
	}

	data, err := corpus.Load(c.DataDir)
	if err != nil {
		return err
	}
	cl, err := classifier.Create(ctx, modelDir, data, opts)
	if err != nil {
		return err
	}
	return cl.Eval(ctx, cl.Data[datasets.Test], "", nil, c.SavePredictions)
}
