// Package main provides the train_intent program. It fine-tunes an intent classifier
// on one of the bank, clinc or hwu corpora and evaluates it on the test split:
//
//	train_intent [flags] <model> <dataset>
//
// The model is a short name such as bert or words, a Hugging Face model id, or the
// directory of a saved model.
package main
