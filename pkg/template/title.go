// Package template resolves title placeholders against a document event
// context. Only the whitelisted placeholders below are supported; this is
// deliberately not a general templating engine.
package template

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/paperflow/paperflow/pkg/models"
)

var placeholderPattern = regexp.MustCompile(`\{([a-z_]+)\}`)

// RenderTitle substitutes every {placeholder} in tmpl with its value from
// the event context. An unknown placeholder is a configuration error, never
// silently left in place. Resolution depends only on the event, so the same
// inputs always render the same title.
func RenderTitle(tmpl string, event *models.DocumentEvent) (string, error) {
	var unknown string

	rendered := placeholderPattern.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[1 : len(match)-1]

		value, ok := resolvePlaceholder(name, event)
		if !ok && unknown == "" {
			unknown = name
		}

		return value
	})

	if unknown != "" {
		return "", fmt.Errorf("unknown title placeholder {%s}", unknown)
	}

	return rendered, nil
}

func resolvePlaceholder(name string, event *models.DocumentEvent) (string, bool) {
	switch name {
	case "title":
		return event.Title, true
	case "original_filename":
		return event.Filename, true
	case "correspondent":
		return event.Correspondent, true
	case "document_type":
		return event.DocumentType, true
	case "owner":
		return event.Owner, true
	case "source":
		return string(event.Source), true
	case "created":
		return event.Created.Format("2006-01-02"), true
	case "created_year":
		return strconv.Itoa(event.Created.Year()), true
	case "created_month":
		return fmt.Sprintf("%02d", int(event.Created.Month())), true
	case "created_day":
		return fmt.Sprintf("%02d", event.Created.Day()), true
	case "added":
		return event.Added.Format("2006-01-02"), true
	case "added_year":
		return strconv.Itoa(event.Added.Year()), true
	case "added_month":
		return fmt.Sprintf("%02d", int(event.Added.Month())), true
	case "added_day":
		return fmt.Sprintf("%02d", event.Added.Day()), true
	default:
		return "", false
	}
}
