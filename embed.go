package crewbase

import "embed"

// EmailFS holds the email templates shipped with the binary.
//
//go:embed templates/emails
var EmailFS embed.FS
