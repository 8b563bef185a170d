// Package scraper provides the per-facility source adapters that fetch
// tournament listings.
//
// Every adapter implements the Source interface: fetch one site's
// listings and return them as raw events, or fail. Static sources
// (512 Beach, ATX Beach, 210 Beach Sideliners, Third Coast VB) are
// fetched over plain HTTP and parsed with goquery. Sources hosted on the
// VolleyballLife platform (Sports Garden DFW, VolleyballLife) populate
// their listings through background API calls, so their adapters drive a
// headless browser session and capture the network response payloads
// instead of scraping rendered markup.
package scraper
