package types

import "time"

// Summary is the report derived from a finished tree. Fields that do not
// apply to the file's family are left zero.
type Summary struct {
	Filename string `json:"filename"`
	FileSize int64  `json:"file_size"`
	Family   string `json:"format"`

	// ISO-BMFF
	Brand             string    `json:"brand,omitempty"`
	CompatibleBrands  []string  `json:"compatible_brands,omitempty"`
	CreationTime      time.Time `json:"creation_time,omitzero"`
	ModificationTime  time.Time `json:"modification_time,omitzero"`
	ContainsFragments bool      `json:"contains_fragments"`

	// Matroska
	DocType    string `json:"doc_type,omitempty"`
	MuxingApp  string `json:"muxing_app,omitempty"`
	WritingApp string `json:"writing_app,omitempty"`

	Duration float64 `json:"duration_seconds"`
	Bitrate  float64 `json:"bitrate,omitempty"` // bits per second over the whole file

	Tracks []TrackSummary `json:"tracks"`
}

// TrackSummary describes one track.
type TrackSummary struct {
	ID        uint64  `json:"id"`
	MediaType string  `json:"media_type"` // video, audio, or the handler or Matroska type label
	Codec     string  `json:"codec,omitempty"`
	Duration  float64 `json:"duration_seconds,omitempty"`
	Bitrate   float64 `json:"bitrate,omitempty"`
	Samples   int     `json:"samples,omitempty"`

	Width     uint32  `json:"width,omitempty"`
	Height    uint32  `json:"height,omitempty"`
	FrameRate float64 `json:"frame_rate,omitempty"`

	Channels   uint32  `json:"channels,omitempty"`
	SampleRate float64 `json:"sample_rate,omitempty"`

	Language string `json:"language,omitempty"`
}
