package generation

import (
	"fmt"
	"strconv"
	"strings"

	"curriculum-cli/internal/curriculum"
	"curriculum-cli/internal/i18n"
)

// DefaultMaxItems caps questions or ideas per request.
const DefaultMaxItems = 7

// Request is one user submission.
type Request struct {
	Kind  curriculum.Kind
	Topic string
	Count int
}

// ValidationError carries the message key so callers can localize it.
type ValidationError struct {
	Key  i18n.Key
	Args []any
}

func (e *ValidationError) Error() string {
	return e.Message(i18n.LanguageEnglish)
}

func (e *ValidationError) Message(lang i18n.Language) string {
	text := i18n.Text(lang, e.Key)
	if len(e.Args) == 0 {
		return text
	}
	return fmt.Sprintf(text, e.Args...)
}

// Validate applies the submission rules: a non-numeric topic and a count in
// 1..maxItems. maxItems <= 0 means DefaultMaxItems.
func (r Request) Validate(maxItems int) error {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	topic := strings.TrimSpace(r.Topic)
	if topic == "" {
		return &ValidationError{Key: i18n.MsgTopicRequired}
	}
	if _, err := strconv.ParseFloat(topic, 64); err == nil {
		return &ValidationError{Key: i18n.MsgTopicNumeric}
	}
	if r.Kind != curriculum.KindMCQ && r.Kind != curriculum.KindProject {
		return fmt.Errorf("unknown request kind %q", r.Kind)
	}
	if r.Count <= 0 {
		return &ValidationError{Key: i18n.MsgCountRequired}
	}
	if r.Count > maxItems {
		return &ValidationError{Key: i18n.MsgTooManyItems, Args: []any{maxItems}}
	}
	return nil
}

// Prompt is the caption shown above a slot.
func (r Request) Prompt(lang i18n.Language) string {
	key := i18n.MsgMCQPrompt
	if r.Kind == curriculum.KindProject {
		key = i18n.MsgProjectPrompt
	}
	return fmt.Sprintf(i18n.Text(lang, key), r.Count, strings.TrimSpace(r.Topic))
}
