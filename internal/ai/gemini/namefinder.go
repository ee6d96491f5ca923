package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/resume-screener/internal/ai"
	"github.com/spigell/resume-screener/internal/utils"
)

//go:embed prompt.md
var systemPrompt string

const defaultMaxLogLength = 200

// NameFinder asks Gemini for the person a résumé belongs to.
type NameFinder struct {
	generator ai.Generator
	logger    *zap.Logger
	maxLogLen int
}

func NewNameFinder(generator ai.Generator, logger *zap.Logger, maxLogLength int) *NameFinder {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &NameFinder{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// PersonNames returns at most one name: the candidate the text belongs to.
func (f *NameFinder) PersonNames(ctx context.Context, text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	f.logger.Debug("gemini name request",
		zap.String("model", f.generator.Model()),
		zap.Int("text_length", utf8.RuneCountInString(text)),
		zap.String("text_preview", utils.TruncateForLog(text, f.maxLogLen)),
	)

	raw, err := f.generator.GenerateContent(ctx, systemPrompt, text)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("gemini name response",
		zap.String("response_preview", utils.TruncateForLog(raw, f.maxLogLen)),
	)

	name, err := parseName(raw)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	return []string{name}, nil
}

func parseName(raw string) (string, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	name, _ := data["name"].(string)
	name = strings.TrimSpace(name)
	switch strings.ToLower(name) {
	case "null", "none", "unknown", "n/a":
		return "", nil
	}
	return name, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
