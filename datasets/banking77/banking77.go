package banking77

import "github.com/neurlang/intent/datasets"

// Corpus describes BANKING77
var Corpus = datasets.Corpus{
	Key:        "bank",
	Name:       "banking77",
	DefaultDir: "banking77",
	Description: "Single-domain intent detection dataset of 13,083 customer service queries " +
		"labelled with 77 banking intents.",
	Homepage: "https://github.com/PolyAI-LDN/task-specific-datasets",
	Citation: `@inproceedings{Casanueva2020,
author = {I{\~{n}}igo Casanueva and Tadas Temcinas and Daniela Gerz and Matthew
          Henderson and Ivan Vulic},
title = {Efficient Intent Detection with Dual Sentence Encoders},
year = {2020},
month = {mar},
url = {https://arxiv.org/abs/2003.04807},
booktitle = {Proceedings of the 2nd Workshop on NLP for ConvAI - ACL 2020}
}`,
}

// Load loads BANKING77 from dataDir ("banking77" when empty)
func Load(dataDir string) (datasets.DatasetDict, error) {
	return Corpus.Load(dataDir)
}
