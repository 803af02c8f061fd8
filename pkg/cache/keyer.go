package cache

// Key prefixes.
const (
	artifactPrefix = "artifact"
	// KeyVersion changes whenever rendering output changes for the same
	// inputs, invalidating older entries.
	KeyVersion = "v1"
)

// ArtifactKeyOpts are the export settings that affect the encoded bytes.
type ArtifactKeyOpts struct {
	Engine     string  `json:"engine"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Padding    int     `json:"padding"`
	Background string  `json:"background"`
	Scale      float64 `json:"scale"`
	MinSize    int     `json:"min_size"`
	MaxSize    int     `json:"max_size"`
	// Search parameters: a different search can settle on different bytes.
	Low           float64  `json:"low"`
	High          float64  `json:"high"`
	Initial       float64  `json:"initial"`
	MaxIterations int      `json:"max_iterations"`
	Fonts         []string `json:"fonts,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// ArtifactKey returns the key for an artifact rendered from the record
	// with hash recordHash.
	ArtifactKey(recordHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey implements Keyer.
func (DefaultKeyer) ArtifactKey(recordHash string, opts ArtifactKeyOpts) string {
	return hashKey(artifactPrefix, KeyVersion, recordHash, opts)
}
