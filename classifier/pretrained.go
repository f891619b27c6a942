package classifier

// Pretrained maps short model names to Hugging Face model ids
var Pretrained = map[string]string{
	"albert":        "albert-base-v1",
	"bart":          "facebook/bart-base",
	"bert":          "bert-base-uncased",
	"deberta":       "microsoft/deberta-base",
	"distilbert":    "distilbert-base-uncased",
	"distilroberta": "distilroberta-base",
	"electra":       "google/electra-base-discriminator",
	"funnel":        "funnel-transformer/small",
	"mobilebert":    "google/mobilebert-uncased",
	"roberta":       "roberta-base",
	"squeezebert":   "squeezebert/squeezebert-uncased",

	// offline tokenisers
	"words":  WordLevel,
	"cl100k": TiktokenPrefix + "cl100k_base",
}

// Tokeniser names not fetched from the hub
const (
	WordLevel      = "wordlevel"
	TiktokenPrefix = "tiktoken:"
)

// Resolve returns the model id of a short name, other names are returned as given
func Resolve(name string) string {
	if id, ok := Pretrained[name]; ok {
		return id
	}
	return name
}
