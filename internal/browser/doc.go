// Package browser drives a headless Chrome instance for sites that only
// materialize their listings through client-side JavaScript. Rather than
// scraping the rendered DOM, it records the JSON payloads those pages
// fetch over XHR so callers can decode the structured data directly.
package browser
