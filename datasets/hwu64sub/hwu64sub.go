package hwu64sub

import "github.com/neurlang/intent/datasets"

// Corpus describes the HWU64 subset
var Corpus = datasets.Corpus{
	Key:        "hwu",
	Name:       "hwu64_sub",
	DefaultDir: "hwu64_sub",
	Description: "Sub-corpus of 11,036 utterances collected via Amazon Mechanical Turk, " +
		"covering all 64 intents of the HWU64 natural language understanding benchmark.",
	Homepage: "https://github.com/xliuhw/NLU-Evaluation-Data",
	Citation: `@InProceedings{XLiu.etal:IWSDS2019,
author    = {Xingkun Liu, Arash Eshghi, Pawel Swietojanski and Verena Rieser},
title     = {Benchmarking Natural Language Understanding Services for building
             Conversational Agents},
booktitle = {Proceedings of the Tenth International Workshop on Spoken Dialogue
             Systems Technology (IWSDS)},
month     = {April},
year      = {2019},
address   = {Ortigia, Siracusa (SR), Italy},
publisher = {Springer},
}`,
}

// Load loads the HWU64 subset from dataDir ("hwu64_sub" when empty)
func Load(dataDir string) (datasets.DatasetDict, error) {
	return Corpus.Load(dataDir)
}
