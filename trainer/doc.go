// Package trainer provides the training orchestration for intent classifiers.
// It runs seeded mini-batch epochs over a tokenised dataset, evaluates after every
// epoch, keeps the best checkpoint and records the run in trainer_state.json.
package trainer
