// Package clinc150 provides the CLINC150 intent classification dataset: 150 intents
// over 10 domains, in the in-scope split used by PolyAI for intent detection.
package clinc150
