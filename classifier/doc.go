// Package classifier ties the intent pipeline together: it resolves a model name,
// loads or fits the tokeniser, tokenises a corpus, trains through the trainer and
// writes the evaluation results of the test split.
package classifier
