package fetch

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"safefetch/internal/domain/entity"
	fetchuc "safefetch/internal/usecase/fetch"
)

// Service is the fetch use case as seen by the handlers.
type Service interface {
	HandleFetch(ctx context.Context, req fetchuc.Request) (*entity.FetchResult, error)
}

// Content formats accepted by the format parameter.
const (
	FormatHTML     = "html"
	FormatMarkdown = "markdown"
)

// RequestDTO is the POST /api/fetch body.
type RequestDTO struct {
	URL                string `json:"url" example:"https://example.com/article"`
	TextOnly           bool   `json:"textOnly"`
	ExtractMainContent bool   `json:"extractMainContent"`
	Format             string `json:"format,omitempty" example:"markdown"`
}

// toRequest converts the DTO into a use case request.
func (d RequestDTO) toRequest() (fetchuc.Request, error) {
	markdown, err := parseFormat(d.Format)
	if err != nil {
		return fetchuc.Request{}, err
	}
	return fetchuc.Request{
		URL:                d.URL,
		TextOnly:           d.TextOnly,
		ExtractMainContent: d.ExtractMainContent,
		Markdown:           markdown,
	}, nil
}

func parseFormat(format string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatHTML:
		return false, nil
	case FormatMarkdown:
		return true, nil
	default:
		return false, fmt.Errorf("invalid format: must be %s or %s", FormatHTML, FormatMarkdown)
	}
}

// parseFlag reads an optional boolean query parameter. Absent means false.
func parseFlag(name, value string) (bool, error) {
	if value == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, errors.New("invalid " + name + ": must be true or false")
	}
	return b, nil
}
