package parcels

import "time"

// Source identifies where the currently served parcel dataset came from.
type Source string

const (
	// SourceUnknown means no resolution pass has decided a source yet.
	SourceUnknown Source = "unknown"
	// SourceRemote means the dataset was fetched from the assessing company's URL.
	SourceRemote Source = "remote"
	// SourceLocal means the dataset came from a KMZ in the data directory.
	SourceLocal Source = "local"
	// SourceCached means a previously written cache file was served after
	// both remote and local acquisition failed.
	SourceCached Source = "cached"
	// SourceNone means every source in the chain failed.
	SourceNone Source = "none"
)

// SourceInfo is the provenance record reported by the diagnostics endpoints.
// LoadedAt is nil when the load time is not known, which is the case when
// serving a pre-existing cache file of unknown origin.
type SourceInfo struct {
	Source      Source     `json:"source"`
	LoadedAt    *time.Time `json:"loaded_at"`
	ParcelCount int        `json:"parcel_count"`
	Error       string     `json:"error"`
}
