// Package docs ships the wiki markdown inside the binary so the server works
// without network access. Files are addressed by their content path without
// the leading slash, e.g. "content/users/getting-started.md".
package docs

import "embed"

//go:embed content
var FS embed.FS
