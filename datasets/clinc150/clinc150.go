package clinc150

import "github.com/neurlang/intent/datasets"

// Corpus describes CLINC150
var Corpus = datasets.Corpus{
	Key:        "clinc",
	Name:       "clinc150",
	DefaultDir: "clinc150",
	Description: "Multi-domain intent classification dataset covering 150 intents " +
		"across 10 domains.",
	Homepage: "https://github.com/clinc/oos-eval",
	Citation: `@inproceedings{larson-etal-2019-evaluation,
title = {An Evaluation Dataset for Intent Classification and Out-of-Scope Prediction},
author = {Larson, Stefan and Mahendran, Anish and Peper, Joseph J. and Clarke,
          Christopher and Lee, Andrew and Hill, Parker and Kummerfeld, Jonathan K.
          and Leach, Kevin and Laurenzano, Michael A. and Tang, Lingjia and Mars, Jason},
booktitle = {Proceedings of EMNLP-IJCNLP 2019},
year = {2019}
}`,
}

// Load loads CLINC150 from dataDir ("clinc150" when empty)
func Load(dataDir string) (datasets.DatasetDict, error) {
	return Corpus.Load(dataDir)
}
