// Package http exposes the section and asset endpoints consumed by the
// synchronizer transports.
//
// Routes mount under /api/v1 by default:
//   - Sections: GET and PATCH /{domain}/{section}?lang={locale}, GET /{domain}
//   - Assets: POST /assets?folder={folder} (multipart field "file"),
//     DELETE /assets?path={path}
//   - Blobs: GET /media/{path...}
//
// Every JSON response uses the envelope {ok, status, message, data}.
package http
