package datasets

// Corpus describes one of the intent detection corpora
type Corpus struct {
	// Key selects the corpus on the command line
	Key  string
	Name string

	// DefaultDir is used when no data directory is given, relative to the working directory
	DefaultDir string

	Description string
	Homepage    string
	Citation    string
}

// Load loads the corpus from dataDir, or from DefaultDir when dataDir is empty
func (c Corpus) Load(dataDir string) (DatasetDict, error) {
	if dataDir == "" {
		dataDir = c.DefaultDir
	}
	return Load(dataDir)
}
