// Package server exposes a [supplychain.Model] over HTTP.
//
// # Endpoints
//
//	GET    /api/scene                      current scene as JSON
//	GET    /api/items/{id}                 item record and folding state
//	POST   /api/items/{id}/collapse        collapse a group
//	POST   /api/items/{id}/expand          expand a group
//	POST   /api/items/{id}/toggle          collapse or expand a group
//	POST   /api/items/{id}/highlight       highlight connected items
//	POST   /api/items/{id}/genealogy       show the neighborhood (?connected=true)
//	POST   /api/items/{id}/zoom            zoom the viewport to the item
//	DELETE /api/highlight                  clear the highlight
//	POST   /api/level/{n}                  show n levels of groups
//	POST   /api/show-all                   expand every group
//	POST   /api/layout                     run a layout
//	PUT    /api/search                     set the search needle
//	GET    /api/export.{format}            export as svg, png or pdf
//	GET    /ws                             scene updates as JSON messages
//	GET    /metrics                        Prometheus metrics
//	GET    /healthz                        liveness
//
// Errors are JSON objects {"code": ..., "error": ...} with the status from
// [errors.HTTPStatus].
//
// # Live Reload
//
// With [Options.Watch] and a file source, edits to the data file are picked
// up and synchronized into the model. Websocket clients receive the new
// scene after every change.
package server
