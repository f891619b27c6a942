// Package banking77 provides the BANKING77 dataset used by PolyAI for intent detection:
// 13,083 customer service queries in the banking domain labelled with 77 fine-grained intents.
package banking77
