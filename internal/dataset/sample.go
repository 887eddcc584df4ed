package dataset

import "embed"

// sampleFS holds the dataset used when no data directory is configured.
//
//go:embed sample/*.yaml
var sampleFS embed.FS

// SampleSource names the embedded dataset in logs and errors.
const SampleSource = "embedded sample"
