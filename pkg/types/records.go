package types

import "time"

// -----------------------------------------------------------------------------
// ISO-BMFF records
// -----------------------------------------------------------------------------

type Ftyp struct {
	MajorBrand       string   `json:"major_brand"`
	MinorVersion     uint32   `json:"minor_version"`
	CompatibleBrands []string `json:"compatible_brands"`
}

type Mvhd struct {
	CreationTime     time.Time `json:"creation_time"`
	ModificationTime time.Time `json:"modification_time"`
	Timescale        uint32    `json:"timescale"`
	Duration         uint64    `json:"duration"`
	Rate             float64   `json:"rate"`
	Volume           float64   `json:"volume"`
	Matrix           [9]uint32 `json:"matrix"`
	NextTrackID      uint32    `json:"next_track_id"`
}

type Tkhd struct {
	CreationTime     time.Time `json:"creation_time"`
	ModificationTime time.Time `json:"modification_time"`
	TrackID          uint32    `json:"track_id"`
	Duration         uint64    `json:"duration"`
	Layer            int16     `json:"layer"`
	AlternateGroup   int16     `json:"alternate_group"`
	Volume           float64   `json:"volume"`
	Matrix           [9]uint32 `json:"matrix"`
	Width            float64   `json:"width"`
	Height           float64   `json:"height"`
}

type Mdhd struct {
	CreationTime     time.Time `json:"creation_time"`
	ModificationTime time.Time `json:"modification_time"`
	Timescale        uint32    `json:"timescale"`
	Duration         uint64    `json:"duration"`
	Language         string    `json:"language"`
}

type Hdlr struct {
	HandlerType string `json:"handler_type"`
	Name        string `json:"name"`
}

type Vmhd struct {
	GraphicsMode uint16    `json:"graphics_mode"`
	OpColor      [3]uint16 `json:"opcolor"`
}

type Smhd struct {
	Balance float64 `json:"balance"`
}

type Hmhd struct {
	MaxPDUSize uint16 `json:"max_pdu_size"`
	AvgPDUSize uint16 `json:"avg_pdu_size"`
	MaxBitrate uint32 `json:"max_bitrate"`
	AvgBitrate uint32 `json:"avg_bitrate"`
}

// EntryCount is the prefix of list-style containers (stsd, dref).
type EntryCount struct {
	EntryCount uint32 `json:"entry_count"`
}

type SttsEntry struct {
	SampleCount uint32 `json:"sample_count"`
	SampleDelta uint32 `json:"sample_delta"`
}

type Stts struct {
	Entries []SttsEntry `json:"entries"`
}

type CttsEntry struct {
	SampleCount  uint32 `json:"sample_count"`
	SampleOffset int32  `json:"sample_offset"`
}

type Ctts struct {
	Entries []CttsEntry `json:"entries"`
}

type StscEntry struct {
	FirstChunk             uint32 `json:"first_chunk"`
	SamplesPerChunk        uint32 `json:"samples_per_chunk"`
	SampleDescriptionIndex uint32 `json:"sample_description_index"`
}

type Stsc struct {
	Entries []StscEntry `json:"entries"`
}

// SampleSizes covers both stsz and the compact stz2 form (FieldSize != 0).
type SampleSizes struct {
	FieldSize   uint8    `json:"field_size,omitempty"`
	SampleSize  uint32   `json:"sample_size"`
	SampleCount uint32   `json:"sample_count"`
	EntrySizes  []uint32 `json:"entry_sizes,omitempty"`
}

// Size returns the size of the 0-based sample i.
func (s *SampleSizes) Size(i int) uint32 {
	if s.SampleSize != 0 {
		return s.SampleSize
	}
	if i < 0 || i >= len(s.EntrySizes) {
		return 0
	}
	return s.EntrySizes[i]
}

// ChunkOffsets covers stco and co64.
type ChunkOffsets struct {
	Offsets []uint64 `json:"offsets"`
}

type Stss struct {
	SampleNumbers []uint32 `json:"sample_numbers"`
}

type SdtpEntry struct {
	IsLeading           uint8 `json:"is_leading"`
	SampleDependsOn     uint8 `json:"sample_depends_on"`
	SampleIsDependedOn  uint8 `json:"sample_is_depended_on"`
	SampleHasRedundancy uint8 `json:"sample_has_redundancy"`
}

// Sdtp rows are only known once the sibling sample count is; Resolved
// tells whether the table was filled in.
type Sdtp struct {
	Resolved bool        `json:"resolved"`
	Entries  []SdtpEntry `json:"entries,omitempty"`
}

type Stdp struct {
	Resolved   bool     `json:"resolved"`
	Priorities []uint16 `json:"priorities,omitempty"`
}

type ElstEntry struct {
	SegmentDuration   uint64 `json:"segment_duration"`
	MediaTime         int64  `json:"media_time"`
	MediaRateInteger  int16  `json:"media_rate_integer"`
	MediaRateFraction int16  `json:"media_rate_fraction"`
}

type Elst struct {
	Entries []ElstEntry `json:"entries"`
}

type Mfhd struct {
	SequenceNumber uint32 `json:"sequence_number"`
}

// Tfhd flag bits.
const (
	TfhdBaseDataOffset        = 0x000001
	TfhdSampleDescriptionIdx  = 0x000002
	TfhdDefaultSampleDuration = 0x000008
	TfhdDefaultSampleSize     = 0x000010
	TfhdDefaultSampleFlags    = 0x000020
	TfhdDurationIsEmpty       = 0x010000
	TfhdDefaultBaseIsMoof     = 0x020000
)

type Tfhd struct {
	TrackID                uint32 `json:"track_id"`
	BaseDataOffset         uint64 `json:"base_data_offset,omitempty"`
	SampleDescriptionIndex uint32 `json:"sample_description_index,omitempty"`
	DefaultSampleDuration  uint32 `json:"default_sample_duration,omitempty"`
	DefaultSampleSize      uint32 `json:"default_sample_size,omitempty"`
	DefaultSampleFlags     uint32 `json:"default_sample_flags,omitempty"`
	Flags                  uint32 `json:"flags"`
}

func (t *Tfhd) HasBaseDataOffset() bool    { return t.Flags&TfhdBaseDataOffset != 0 }
func (t *Tfhd) HasDefaultSampleSize() bool { return t.Flags&TfhdDefaultSampleSize != 0 }
func (t *Tfhd) DefaultBaseIsMoof() bool    { return t.Flags&TfhdDefaultBaseIsMoof != 0 }
func (t *Tfhd) DurationIsEmpty() bool      { return t.Flags&TfhdDurationIsEmpty != 0 }

type Tfdt struct {
	BaseMediaDecodeTime uint64 `json:"base_media_decode_time"`
}

type Trex struct {
	TrackID                       uint32 `json:"track_id"`
	DefaultSampleDescriptionIndex uint32 `json:"default_sample_description_index"`
	DefaultSampleDuration         uint32 `json:"default_sample_duration"`
	DefaultSampleSize             uint32 `json:"default_sample_size"`
	DefaultSampleFlags            uint32 `json:"default_sample_flags"`
}

type Mehd struct {
	FragmentDuration uint64 `json:"fragment_duration"`
}

// Trun flag bits.
const (
	TrunDataOffset            = 0x000001
	TrunFirstSampleFlags      = 0x000004
	TrunSampleDuration        = 0x000100
	TrunSampleSize            = 0x000200
	TrunSampleFlags           = 0x000400
	TrunSampleCompositionTime = 0x000800
)

type TrunSample struct {
	Duration              uint32 `json:"duration,omitempty"`
	Size                  uint32 `json:"size,omitempty"`
	Flags                 uint32 `json:"flags,omitempty"`
	CompositionTimeOffset int64  `json:"composition_time_offset,omitempty"`
}

type Trun struct {
	SampleCount      uint32       `json:"sample_count"`
	DataOffset       int32        `json:"data_offset,omitempty"`
	FirstSampleFlags uint32       `json:"first_sample_flags,omitempty"`
	Flags            uint32       `json:"flags"`
	// Samples is empty when no per-sample field is present; every sample
	// then takes the fragment or track defaults.
	Samples          []TrunSample `json:"samples,omitempty"`
}

func (t *Trun) HasDataOffset() bool { return t.Flags&TrunDataOffset != 0 }
func (t *Trun) HasSampleSize() bool { return t.Flags&TrunSampleSize != 0 }

type Subsample struct {
	ClearBytes     uint16 `json:"clear_bytes"`
	ProtectedBytes uint32 `json:"protected_bytes"`
}

type SencSample struct {
	IV         string      `json:"iv,omitempty"`
	Subsamples []Subsample `json:"subsamples,omitempty"`
}

// IV size sources recorded on a resolved senc.
const (
	IVFromSeig      = "sgpd-seig"
	IVFromSaiz      = "saiz"
	IVFromHeuristic = "payload-fit"
)

// SencUseSubsamples is the senc flag announcing subsample tables.
const SencUseSubsamples = 0x000002

type Senc struct {
	SampleCount uint32       `json:"sample_count"`
	Subsamples  bool         `json:"subsamples"`
	Resolved    bool         `json:"resolved"`
	IVSize      int          `json:"iv_size"`
	IVSource    string       `json:"iv_source,omitempty"`
	Samples     []SencSample `json:"samples,omitempty"`
}

type Saiz struct {
	AuxInfoType           string  `json:"aux_info_type,omitempty"`
	AuxInfoTypeParameter  uint32  `json:"aux_info_type_parameter,omitempty"`
	DefaultSampleInfoSize uint8   `json:"default_sample_info_size"`
	SampleCount           uint32  `json:"sample_count"`
	SampleInfoSizes       []uint8 `json:"sample_info_sizes,omitempty"`
}

// MinInfoSize is the smallest per-sample info size announced.
func (s *Saiz) MinInfoSize() int {
	if s.DefaultSampleInfoSize != 0 {
		return int(s.DefaultSampleInfoSize)
	}
	min := -1
	for _, v := range s.SampleInfoSizes {
		if min < 0 || int(v) < min {
			min = int(v)
		}
	}
	return min
}

type Saio struct {
	AuxInfoType          string   `json:"aux_info_type,omitempty"`
	AuxInfoTypeParameter uint32   `json:"aux_info_type_parameter,omitempty"`
	Offsets              []uint64 `json:"offsets"`
}

type SeigEntry struct {
	CryptByteBlock  uint8  `json:"crypt_byte_block"`
	SkipByteBlock   uint8  `json:"skip_byte_block"`
	IsProtected     uint8  `json:"is_protected"`
	PerSampleIVSize uint8  `json:"per_sample_iv_size"`
	KID             string `json:"kid"`
	ConstantIV      string `json:"constant_iv,omitempty"`
}

type SgpdEntry struct {
	Raw  string     `json:"raw,omitempty"`
	Seig *SeigEntry `json:"seig,omitempty"`
}

type Sgpd struct {
	GroupingType                  string      `json:"grouping_type"`
	DefaultLength                 uint32      `json:"default_length,omitempty"`
	DefaultSampleDescriptionIndex uint32      `json:"default_sample_description_index,omitempty"`
	Entries                       []SgpdEntry `json:"entries"`
}

type SbgpEntry struct {
	SampleCount           uint32 `json:"sample_count"`
	GroupDescriptionIndex uint32 `json:"group_description_index"`
}

type Sbgp struct {
	GroupingType          string      `json:"grouping_type"`
	GroupingTypeParameter uint32      `json:"grouping_type_parameter,omitempty"`
	Entries               []SbgpEntry `json:"entries"`
}

type Tenc struct {
	DefaultCryptByteBlock  uint8  `json:"default_crypt_byte_block,omitempty"`
	DefaultSkipByteBlock   uint8  `json:"default_skip_byte_block,omitempty"`
	DefaultIsProtected     uint8  `json:"default_is_protected"`
	DefaultPerSampleIVSize uint8  `json:"default_per_sample_iv_size"`
	DefaultKID             string `json:"default_kid"`
	DefaultConstantIV      string `json:"default_constant_iv,omitempty"`
}

// CencSystemID is the common-encryption pssh system identifier.
const CencSystemID = "1077efecc0b24d02ace33c1e52e2fb4b"

type Pssh struct {
	SystemID string   `json:"system_id"`
	KIDs     []string `json:"kids,omitempty"`
	DataSize uint32   `json:"data_size"`
}

type SidxReference struct {
	ReferenceType      uint8  `json:"reference_type"`
	ReferencedSize     uint32 `json:"referenced_size"`
	SubsegmentDuration uint32 `json:"subsegment_duration"`
	StartsWithSAP      uint8  `json:"starts_with_sap"`
	SAPType            uint8  `json:"sap_type"`
	SAPDeltaTime       uint32 `json:"sap_delta_time"`
}

type Sidx struct {
	ReferenceID              uint32          `json:"reference_id"`
	Timescale                uint32          `json:"timescale"`
	EarliestPresentationTime uint64          `json:"earliest_presentation_time"`
	FirstOffset              uint64          `json:"first_offset"`
	References               []SidxReference `json:"references"`
}

type TfraEntry struct {
	Time         uint64 `json:"time"`
	MoofOffset   uint64 `json:"moof_offset"`
	TrafNumber   uint32 `json:"traf_number"`
	TrunNumber   uint32 `json:"trun_number"`
	SampleNumber uint32 `json:"sample_number"`
}

type Tfra struct {
	TrackID uint32      `json:"track_id"`
	Entries []TfraEntry `json:"entries"`
}

type Mfro struct {
	Size uint32 `json:"size"`
}

type Prft struct {
	ReferenceTrackID uint32 `json:"reference_track_id"`
	NTPTimestamp     uint64 `json:"ntp_timestamp"`
	MediaTime        uint64 `json:"media_time"`
}

type Schm struct {
	SchemeType    string `json:"scheme_type"`
	SchemeVersion uint32 `json:"scheme_version"`
	SchemeURI     string `json:"scheme_uri,omitempty"`
}

type Frma struct {
	DataFormat string `json:"data_format"`
}

type Url struct {
	SelfContained bool   `json:"self_contained"`
	Location      string `json:"location,omitempty"`
}

type Cprt struct {
	Language string `json:"language"`
	Notice   string `json:"notice"`
}

type VisualSampleEntry struct {
	DataReferenceIndex uint16  `json:"data_reference_index"`
	Width              uint16  `json:"width"`
	Height             uint16  `json:"height"`
	HorizResolution    float64 `json:"horizresolution"`
	VertResolution     float64 `json:"vertresolution"`
	FrameCount         uint16  `json:"frame_count"`
	CompressorName     string  `json:"compressorname"`
	Depth              uint16  `json:"depth"`
}

type AudioSampleEntry struct {
	DataReferenceIndex uint16  `json:"data_reference_index"`
	EntryVersion       uint16  `json:"entry_version"`
	ChannelCount       uint32  `json:"channel_count"`
	SampleSize         uint32  `json:"sample_size"`
	SampleRate         float64 `json:"sample_rate"`
}

type AvcC struct {
	ConfigurationVersion uint8    `json:"configuration_version"`
	ProfileIndication    uint8    `json:"profile_indication"`
	ProfileCompatibility uint8    `json:"profile_compatibility"`
	LevelIndication      uint8    `json:"level_indication"`
	NALLengthSize        uint8    `json:"nal_length_size"`
	SPS                  []string `json:"sps"`
	PPS                  []string `json:"pps"`
	ChromaFormat         uint8    `json:"chroma_format,omitempty"`
	BitDepthLuma         uint8    `json:"bit_depth_luma,omitempty"`
	BitDepthChroma       uint8    `json:"bit_depth_chroma,omitempty"`
	Width                uint32   `json:"width,omitempty"`
	Height               uint32   `json:"height,omitempty"`
}

type Btrt struct {
	BufferSizeDB uint32 `json:"buffer_size_db"`
	MaxBitrate   uint32 `json:"max_bitrate"`
	AvgBitrate   uint32 `json:"avg_bitrate"`
}

type Pasp struct {
	HSpacing uint32 `json:"h_spacing"`
	VSpacing uint32 `json:"v_spacing"`
}

type Colr struct {
	ColorType               string `json:"color_type"`
	ColorPrimaries          uint16 `json:"color_primaries,omitempty"`
	TransferCharacteristics uint16 `json:"transfer_characteristics,omitempty"`
	MatrixCoefficients      uint16 `json:"matrix_coefficients,omitempty"`
	FullRange               bool   `json:"full_range,omitempty"`
}

// IlstData is the 'data' atom inside an iTunes metadata item.
type IlstData struct {
	DataType uint32 `json:"data_type"`
	Locale   uint32 `json:"locale"`
	Text     string `json:"text,omitempty"`
	Size     int    `json:"size"`
}

// -----------------------------------------------------------------------------
// EBML records
// -----------------------------------------------------------------------------

// Lacing names the frame packing used by a Matroska block.
type Lacing uint8

const (
	LacingNone  Lacing = 0
	LacingXiph  Lacing = 1
	LacingFixed Lacing = 2
	LacingEBML  Lacing = 3
)

func (l Lacing) String() string {
	switch l {
	case LacingXiph:
		return "xiph"
	case LacingFixed:
		return "fixed"
	case LacingEBML:
		return "ebml"
	default:
		return "none"
	}
}

func (l Lacing) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

// Block is a decoded SimpleBlock or Block payload. FrameOffsets are
// absolute file offsets of each frame.
type Block struct {
	TrackNumber  uint64  `json:"track_number"`
	Timecode     int16   `json:"timecode"`
	Keyframe     bool    `json:"keyframe"`
	Invisible    bool    `json:"invisible"`
	Discardable  bool    `json:"discardable"`
	Lacing       Lacing  `json:"lacing"`
	FrameSizes   []int64 `json:"frame_sizes"`
	FrameOffsets []int64 `json:"frame_offsets"`
}

func (*Ftyp) RecordKind() string              { return "ftyp" }
func (*Mvhd) RecordKind() string              { return "mvhd" }
func (*Tkhd) RecordKind() string              { return "tkhd" }
func (*Mdhd) RecordKind() string              { return "mdhd" }
func (*Hdlr) RecordKind() string              { return "hdlr" }
func (*Vmhd) RecordKind() string              { return "vmhd" }
func (*Smhd) RecordKind() string              { return "smhd" }
func (*Hmhd) RecordKind() string              { return "hmhd" }
func (*EntryCount) RecordKind() string        { return "entry_count" }
func (*Stts) RecordKind() string              { return "stts" }
func (*Ctts) RecordKind() string              { return "ctts" }
func (*Stsc) RecordKind() string              { return "stsc" }
func (*SampleSizes) RecordKind() string       { return "sample_sizes" }
func (*ChunkOffsets) RecordKind() string      { return "chunk_offsets" }
func (*Stss) RecordKind() string              { return "stss" }
func (*Sdtp) RecordKind() string              { return "sdtp" }
func (*Stdp) RecordKind() string              { return "stdp" }
func (*Elst) RecordKind() string              { return "elst" }
func (*Mfhd) RecordKind() string              { return "mfhd" }
func (*Tfhd) RecordKind() string              { return "tfhd" }
func (*Tfdt) RecordKind() string              { return "tfdt" }
func (*Trex) RecordKind() string              { return "trex" }
func (*Mehd) RecordKind() string              { return "mehd" }
func (*Trun) RecordKind() string              { return "trun" }
func (*Senc) RecordKind() string              { return "senc" }
func (*Saiz) RecordKind() string              { return "saiz" }
func (*Saio) RecordKind() string              { return "saio" }
func (*Sgpd) RecordKind() string              { return "sgpd" }
func (*Sbgp) RecordKind() string              { return "sbgp" }
func (*Tenc) RecordKind() string              { return "tenc" }
func (*Pssh) RecordKind() string              { return "pssh" }
func (*Sidx) RecordKind() string              { return "sidx" }
func (*Tfra) RecordKind() string              { return "tfra" }
func (*Mfro) RecordKind() string              { return "mfro" }
func (*Prft) RecordKind() string              { return "prft" }
func (*Schm) RecordKind() string              { return "schm" }
func (*Frma) RecordKind() string              { return "frma" }
func (*Url) RecordKind() string               { return "url" }
func (*Cprt) RecordKind() string              { return "cprt" }
func (*VisualSampleEntry) RecordKind() string { return "visual_sample_entry" }
func (*AudioSampleEntry) RecordKind() string  { return "audio_sample_entry" }
func (*AvcC) RecordKind() string              { return "avcC" }
func (*Btrt) RecordKind() string              { return "btrt" }
func (*Pasp) RecordKind() string              { return "pasp" }
func (*Colr) RecordKind() string              { return "colr" }
func (*IlstData) RecordKind() string          { return "data" }
func (*Block) RecordKind() string             { return "block" }
