// Package entity defines the core domain values of the fetch proxy: the
// result of validating an outbound URL and the structured result of a fetch.
package entity

// FetchResult is the success payload returned to callers of the fetch proxy.
type FetchResult struct {
	URL         string   `json:"url"`         // final validated URL
	StatusCode  int      `json:"statusCode"`  // always 200 on success
	ContentType string   `json:"contentType"` // Content-Type response header
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Content     string   `json:"content"`     // cleaned HTML, plain text or Markdown
	MainContent string   `json:"mainContent"` // empty unless requested and found
}
