// Package hwu64sub provides the subset of the HWU64 dataset used by PolyAI for intent
// detection: 11,036 home-robot assistant utterances over 64 intents and 21 scenarios.
package hwu64sub
