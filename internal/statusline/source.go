package statusline

import "embed"

// Sources holds the runtime files a generator splices into renderer programs.
//
//go:embed types.go document.go metrics.go fields.go paint.go statusline.go
var Sources embed.FS

// SourceFiles lists Sources in splice order.
var SourceFiles = []string{
	"types.go",
	"document.go",
	"metrics.go",
	"fields.go",
	"paint.go",
	"statusline.go",
}
