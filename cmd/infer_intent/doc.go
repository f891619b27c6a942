// Package main provides the infer_intent program, which evaluates a saved intent
// classifier on the test split of a corpus:
//
//	infer_intent [flags] <model_dir> <dataset>
package main
