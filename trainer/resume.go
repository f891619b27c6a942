package trainer

import (
	"io/fs"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/neurlang/intent/net/linear"
)

// Resume reloads the network of a saved model directory.
// A trainer_state.json next to it must parse, its absence is fine.
func Resume(dir string) (*linear.Network, error) {
	net, err := linear.Load(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "resume %s", dir)
	}
	s, err := LoadState(filepath.Join(dir, StateFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return net, nil
	case err != nil:
		return nil, errors.Wrapf(err, "resume %s", dir)
	}
	fields := logrus.Fields{"dir": dir, "step": s.GlobalStep, "epoch": s.Epoch}
	if s.BestMetric != nil {
		fields["best_metric"] = *s.BestMetric
	}
	logrus.WithFields(fields).Debug("resumed")
	return net, nil
}
