package trainer

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// CheckpointPrefix starts the name of every checkpoint directory, the global step follows
const CheckpointPrefix = "checkpoint-"

func stateFile(dir string) string {
	return filepath.Join(dir, StateFile)
}

// checkpoint saves the model at the current step, updates the best model and rotates old checkpoints
func (t *Trainer) checkpoint(m *Metrics) error {
	dir := filepath.Join(t.Args.OutputDir, CheckpointPrefix+strconv.Itoa(t.State.GlobalStep))

	if m != nil {
		value, ok := m.value(t.Args.MetricForBestModel)
		if ok {
			better := t.State.BestMetric == nil ||
				(t.Args.greaterIsBetter() && value > *t.State.BestMetric) ||
				(!t.Args.greaterIsBetter() && value < *t.State.BestMetric)
			if better {
				t.State.BestMetric = ptr(value)
				t.State.BestModelCheckpoint = dir
				if t.Args.LoadBestModelAtEnd {
					t.best = t.Model.Clone()
				}
			}
		}
	}

	if err := t.SaveModel(dir); err != nil {
		return err
	}
	if err := t.State.SaveToJSON(stateFile(dir)); err != nil {
		return err
	}
	return t.rotate()
}

// rotate removes the oldest checkpoints above the save limit, never the best one
func (t *Trainer) rotate() error {
	if t.Args.SaveTotalLimit <= 0 {
		return nil
	}
	entries, err := os.ReadDir(t.Args.OutputDir)
	if err != nil {
		return err
	}
	type ckpt struct {
		step int
		path string
	}
	var all []ckpt
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), CheckpointPrefix) {
			continue
		}
		step, err := strconv.Atoi(strings.TrimPrefix(e.Name(), CheckpointPrefix))
		if err != nil {
			continue
		}
		all = append(all, ckpt{step, filepath.Join(t.Args.OutputDir, e.Name())})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].step < all[j].step })

	keep := t.Args.SaveTotalLimit
	// the latest checkpoint survives next to the best one
	if keep == 1 && t.State.BestModelCheckpoint != "" && len(all) > 0 &&
		all[len(all)-1].path != t.State.BestModelCheckpoint {
		keep = 2
	}
	remove := len(all) - keep
	for _, c := range all {
		if remove <= 0 {
			break
		}
		if c.path == t.State.BestModelCheckpoint {
			continue
		}
		remove--
		logrus.WithField("checkpoint", c.path).Debug("removing checkpoint")
		if err := os.RemoveAll(c.path); err != nil {
			return err
		}
	}
	return nil
}
