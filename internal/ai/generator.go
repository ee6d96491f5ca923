// Package ai declares the contract shared by LLM-backed helpers.
package ai

import "context"

// Generator turns a system instruction and a user message into a text reply.
type Generator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}
