// Package coupang talks to the coupang storefront.
//
// the site only answers searches from sessions that look like they came
// through an ad click-through, so a session is warmed up first by walking the
// landing redirect chain by hand (one request per hop, cookies kept).
//
// each request generally has this structure:
// 1. make assertions on input validity.
// 2. build the request (url, query, browser headers for this hop).
// 3. make the request.
// 4. make assertions on the response (status, Location header).
// 5. hand the body back, parsing it is left to internal/extract.
package coupang
