package parse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrParseUnavailable is returned when no parsing model can be loaded.
var ErrParseUnavailable = errors.New("parse model unavailable")

// BaselineModel is substituted when the model for a requested language is missing.
const BaselineModel = "en_core_web_sm"

// Parser turns raw input into tokenized, dependency-parsed sentences.
// Implementations must be safe for concurrent use.
type Parser interface {
	Parse(ctx context.Context, text string) (*Doc, error)
	Model() string
}

// Opener loads the parser for a named model. It returns an error wrapping
// ErrParseUnavailable when the model does not exist.
type Opener interface {
	Open(ctx context.Context, model string) (Parser, error)
}

// ModelForLanguage maps a language code to the model name a spaCy-compatible
// service is expected to serve.
func ModelForLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	switch lang {
	case "", "en":
		return "en_core_web_lg"
	default:
		return lang + "_core_web_sm"
	}
}

// LoadParser opens the model for lang, falling back to BaselineModel when it
// cannot be loaded.
func LoadParser(ctx context.Context, o Opener, lang string, logger *zap.Logger) (Parser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	model := ModelForLanguage(lang)
	p, err := o.Open(ctx, model)
	if err == nil {
		return p, nil
	}
	if model == BaselineModel {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseUnavailable, model, err)
	}

	logger.Warn("parse model unavailable, using baseline",
		zap.String("language", lang),
		zap.String("model", model),
		zap.String("fallback", BaselineModel),
		zap.Error(err))

	p, ferr := o.Open(ctx, BaselineModel)
	if ferr != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrParseUnavailable, BaselineModel, ferr)
	}
	return p, nil
}
