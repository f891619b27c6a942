// Package metrics turns classifier scores into accuracy, a per-class precision, recall
// and F1 report, and optionally the predicted class names.
package metrics
