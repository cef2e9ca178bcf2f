package registry

import "github.com/joshuapare/boxkit/pkg/types"

var ebmlTable = map[uint32]Entry{}

var (
	trackTypes = map[uint64]string{
		1: "video", 2: "audio", 3: "complex", 16: "logo",
		17: "subtitle", 18: "buttons", 32: "control", 33: "metadata",
	}
	interlaceModes = map[uint64]string{0: "undetermined", 1: "interlaced", 2: "progressive"}
	fieldOrders    = map[uint64]string{
		0: "progressive", 1: "tff", 2: "undetermined", 6: "bff", 9: "bff(swapped)", 14: "tff(swapped)",
	}
	displayUnits = map[uint64]string{
		0: "pixels", 1: "centimeters", 2: "inches", 3: "display aspect ratio", 4: "unknown",
	}
	stereoModes = map[uint64]string{
		0: "mono", 1: "side by side (left eye first)", 2: "top - bottom (right eye is first)",
		3: "top - bottom (left eye is first)", 11: "side by side (right eye first)",
	}
	encodingTypes = map[uint64]string{0: "compression", 1: "encryption"}
	compAlgos     = map[uint64]string{0: "zlib", 1: "bzlib", 2: "lzo1x", 3: "header stripping"}
	encAlgos      = map[uint64]string{
		0: "not encrypted", 1: "DES", 2: "3DES", 3: "Twofish", 4: "Blowfish", 5: "AES",
	}
	cipherModes = map[uint64]string{1: "AES-CTR", 2: "AES-CBC"}
	targetTypes = map[uint64]string{
		70: "COLLECTION", 60: "EDITION / ISSUE / VOLUME / OPUS / SEASON / SEQUEL",
		50: "ALBUM / OPERA / CONCERT / MOVIE / EPISODE", 40: "PART / SESSION",
		30: "TRACK / SONG / CHAPTER", 20: "SUBTRACK / MOVEMENT / SCENE", 10: "SHOT",
	}
)

func init() {
	el := func(id uint32, name string, kind types.Kind, level int, doc string) {
		e := Entry{Name: name, Kind: kind, Level: level, Doc: doc}
		switch kind {
		case types.KindUint:
			e.Decoder = DecUint
		case types.KindInt:
			e.Decoder = DecInt
		case types.KindFloat:
			e.Decoder = DecFloat
		case types.KindString:
			e.Decoder = DecString
		case types.KindUTF8:
			e.Decoder = DecUTF8
		case types.KindDate:
			e.Decoder = DecDate
		case types.KindBinary:
			e.Decoder = DecBinary
		}
		ebmlTable[id] = e
	}
	set := func(id uint32, fn func(e *Entry)) {
		e := ebmlTable[id]
		fn(&e)
		ebmlTable[id] = e
	}
	def := func(id uint32, v types.Value) { set(id, func(e *Entry) { e.Default = v }) }
	enum := func(id uint32, m map[uint64]string) { set(id, func(e *Entry) { e.Enum = m }) }

	const (
		master = types.KindContainer
		uintK  = types.KindUint
		intK   = types.KindInt
		floatK = types.KindFloat
		str    = types.KindString
		utf8   = types.KindUTF8
		date   = types.KindDate
		bin    = types.KindBinary
		block  = types.KindStructured
	)

	// EBML header.
	el(0x1A45DFA3, "EBML", master, 0, "Set the EBML characteristics of the data to follow.")
	el(0x4286, "EBMLVersion", uintK, 1, "The version of EBML parser used to create the file.")
	el(0x42F7, "EBMLReadVersion", uintK, 1, "The minimum EBML version a parser has to support to read this file.")
	el(0x42F2, "EBMLMaxIDLength", uintK, 1, "The maximum length of the IDs you'll find in this file.")
	el(0x42F3, "EBMLMaxSizeLength", uintK, 1, "The maximum length of the sizes you'll find in this file.")
	el(0x4282, "DocType", str, 1, "A string that describes the type of document that follows this EBML header.")
	el(0x4287, "DocTypeVersion", uintK, 1, "The version of DocType interpreter used to create the file.")
	el(0x4285, "DocTypeReadVersion", uintK, 1, "The minimum DocType version an interpreter has to support to read this file.")
	def(0x4286, types.UintValue(1))
	def(0x42F7, types.UintValue(1))
	def(0x42F2, types.UintValue(4))
	def(0x42F3, types.UintValue(8))
	def(0x4282, types.TextValue("matroska"))
	def(0x4287, types.UintValue(1))
	def(0x4285, types.UintValue(1))

	// Global elements.
	el(0xEC, "Void", bin, LevelGlobal, "Used to void damaged data, to avoid unexpected behaviors when using damaged data.")
	el(0xBF, "CRC-32", bin, LevelGlobal, "The CRC is computed on all the data of the Master-element it's in.")

	// Segment.
	el(0x18538067, "Segment", master, 0, "The Root Element that contains all other Top-Level Elements.")

	el(0x114D9B74, "SeekHead", master, 1, "Contains the Segment Position of other Top-Level Elements.")
	el(0x4DBB, "Seek", master, 2, "Contains a single seek entry to an EBML Element.")
	el(0x53AB, "SeekID", bin, 3, "The binary EBML ID of a Top-Level Element.")
	el(0x53AC, "SeekPosition", uintK, 3, "The Segment Position of a Top-Level Element.")

	el(0x1549A966, "Info", master, 1, "Contains general information about the Segment.")
	el(0x73A4, "SegmentUUID", bin, 2, "A randomly generated unique ID to identify the Segment.")
	el(0x7384, "SegmentFilename", utf8, 2, "A filename corresponding to this Segment.")
	el(0x3CB923, "PrevUUID", bin, 2, "An ID to identify the previous Segment of a Linked Segment.")
	el(0x3C83AB, "PrevFilename", utf8, 2, "A filename corresponding to the file of the previous Linked Segment.")
	el(0x3EB923, "NextUUID", bin, 2, "An ID to identify the next Segment of a Linked Segment.")
	el(0x3E83BB, "NextFilename", utf8, 2, "A filename corresponding to the file of the next Linked Segment.")
	el(0x4444, "SegmentFamily", bin, 2, "A unique ID that all Segments of a Linked Segment must share.")
	el(0x6924, "ChapterTranslate", master, 2, "The mapping between this Segment and a segment value in the given Chapter Codec.")
	el(0x2AD7B1, "TimestampScale", uintK, 2, "Base unit for Segment Ticks and Track Ticks, in nanoseconds.")
	el(0x4489, "Duration", floatK, 2, "Duration of the Segment, expressed in Segment Ticks.")
	el(0x4461, "DateUTC", date, 2, "The date and time that the Segment was created by the muxing application or library.")
	el(0x7BA9, "Title", utf8, 2, "General name of the Segment.")
	el(0x4D80, "MuxingApp", utf8, 2, "Muxing application or library.")
	el(0x5741, "WritingApp", utf8, 2, "Writing application.")
	def(0x2AD7B1, types.UintValue(1000000))

	el(0x1F43B675, "Cluster", master, 1, "The Top-Level Element containing the (monolithic) Block structure.")
	el(0xE7, "Timestamp", uintK, 2, "Absolute timestamp of the cluster, expressed in Segment Ticks.")
	el(0x5854, "SilentTracks", master, 2, "The list of tracks that are not used in that part of the stream.")
	el(0x58D7, "SilentTrackNumber", uintK, 3, "One of the track number that are not used from now on in the stream.")
	el(0xA7, "Position", uintK, 2, "The Segment Position of the Cluster in the Segment.")
	el(0xAB, "PrevSize", uintK, 2, "Size of the previous Cluster, in octets.")
	el(0xA3, "SimpleBlock", block, 2, "Similar to Block but without all the extra information.")
	el(0xA0, "BlockGroup", master, 2, "Basic container of information containing a single Block and information specific to that Block.")
	el(0xA1, "Block", block, 3, "Block containing the actual data to be rendered and a timestamp relative to the Cluster Timestamp.")
	el(0xA2, "BlockVirtual", bin, 3, "A Block with no data.")
	el(0x75A1, "BlockAdditions", master, 3, "Contain additional binary data to complete the main one.")
	el(0xA6, "BlockMore", master, 4, "Contain the BlockAdditional and some parameters.")
	el(0xEE, "BlockAddID", uintK, 5, "An ID to identify how to interpret the BlockAdditional data.")
	el(0xA5, "BlockAdditional", bin, 5, "Interpreted by the codec as it wishes (using the BlockAddID).")
	el(0x9B, "BlockDuration", uintK, 3, "The duration of the Block, expressed in Track Ticks.")
	el(0xFA, "ReferencePriority", uintK, 3, "This frame is referenced and has the specified cache priority.")
	el(0xFB, "ReferenceBlock", intK, 3, "A timestamp value, relative to the timestamp of the Block in this BlockGroup.")
	el(0xA4, "CodecState", bin, 3, "The new codec state to use.")
	el(0x75A2, "DiscardPadding", intK, 3, "Duration of the silent data added to the Block, in nanoseconds.")
	el(0x8E, "Slices", master, 3, "Contains slices description.")
	el(0xE8, "TimeSlice", master, 4, "Contains extra time information about the data contained in the Block.")
	el(0xCC, "LaceNumber", uintK, 5, "The reverse number of the frame in the lace.")
	el(0xAF, "EncryptedBlock", bin, 2, "Similar to SimpleBlock but the data inside the Block are Transformed.")
	def(0xEE, types.UintValue(1))
	for _, id := range []uint32{0xA3, 0xA1} {
		set(id, func(e *Entry) { e.Decoder = DecBlock })
	}

	el(0x1654AE6B, "Tracks", master, 1, "A Top-Level Element of information with many tracks described.")
	el(0xAE, "TrackEntry", master, 2, "Describes a track with all Elements.")
	el(0xD7, "TrackNumber", uintK, 3, "The track number as used in the Block Header.")
	el(0x73C5, "TrackUID", uintK, 3, "A unique ID to identify the Track.")
	el(0x83, "TrackType", uintK, 3, "The TrackType defines the type of each frame found in the Track.")
	el(0xB9, "FlagEnabled", uintK, 3, "Set to 1 if the track is usable.")
	el(0x88, "FlagDefault", uintK, 3, "Set if that track is eligible for automatic selection by the player.")
	el(0x55AA, "FlagForced", uintK, 3, "Applies only to subtitles; forced display.")
	el(0x55AB, "FlagHearingImpaired", uintK, 3, "Set to 1 if the track is suitable for users with hearing impairments.")
	el(0x55AC, "FlagVisualImpaired", uintK, 3, "Set to 1 if the track is suitable for users with visual impairments.")
	el(0x55AD, "FlagTextDescriptions", uintK, 3, "Set to 1 if the track contains textual descriptions of video content.")
	el(0x55AE, "FlagOriginal", uintK, 3, "Set to 1 if the track is in the content's original language.")
	el(0x55AF, "FlagCommentary", uintK, 3, "Set to 1 if the track contains commentary.")
	el(0x9C, "FlagLacing", uintK, 3, "Set to 1 if the track may contain blocks using lacing.")
	el(0x6DE7, "MinCache", uintK, 3, "The minimum number of frames a player should be able to cache during playback.")
	el(0x6DF8, "MaxCache", uintK, 3, "The maximum cache size necessary to store referenced frames in and the current frame.")
	el(0x23E383, "DefaultDuration", uintK, 3, "Number of nanoseconds per frame.")
	el(0x234E7A, "DefaultDecodedFieldDuration", uintK, 3, "The period between two successive fields at the output of the decoding process.")
	el(0x23314F, "TrackTimestampScale", floatK, 3, "The scale to apply on this track to work at normal speed in relation with other tracks.")
	el(0x55EE, "MaxBlockAdditionID", uintK, 3, "The maximum value of BlockAddID.")
	el(0x536E, "Name", utf8, 3, "A human-readable track name.")
	el(0x22B59C, "Language", str, 3, "The language of the track, in the Matroska languages form.")
	el(0x22B59D, "LanguageBCP47", str, 3, "The language of the track, in the BCP47 form.")
	el(0x86, "CodecID", str, 3, "An ID corresponding to the codec.")
	el(0x63A2, "CodecPrivate", bin, 3, "Private data only known to the codec.")
	el(0x258688, "CodecName", utf8, 3, "A human-readable string specifying the codec.")
	el(0x7446, "AttachmentLink", uintK, 3, "The UID of an attachment that is used by this codec.")
	el(0xAA, "CodecDecodeAll", uintK, 3, "Set to 1 if the codec can decode potentially damaged data.")
	el(0x6FAB, "TrackOverlay", uintK, 3, "Specify that this track is an overlay track for the Track specified.")
	el(0x56AA, "CodecDelay", uintK, 3, "Built-in delay for the codec, expressed in Matroska Ticks.")
	el(0x56BB, "SeekPreRoll", uintK, 3, "Decoding time after a seek before the data is valid, in Matroska Ticks.")
	el(0x6624, "TrackTranslate", master, 3, "The mapping between this TrackEntry and a track value in the given Chapter Codec.")
	def(0xB9, types.UintValue(1))
	def(0x88, types.UintValue(1))
	def(0x55AA, types.UintValue(0))
	def(0x9C, types.UintValue(1))
	def(0x6DE7, types.UintValue(0))
	def(0x23314F, types.FloatValue(1))
	def(0x22B59C, types.TextValue("eng"))
	def(0xAA, types.UintValue(1))
	def(0x56AA, types.UintValue(0))
	def(0x56BB, types.UintValue(0))
	enum(0x83, trackTypes)

	el(0xE0, "Video", master, 3, "Video settings.")
	el(0x9A, "FlagInterlaced", uintK, 4, "Specify whether the video frames in this track are interlaced.")
	el(0x9D, "FieldOrder", uintK, 4, "Specify the field ordering of video frames in this track.")
	el(0x53B8, "StereoMode", uintK, 4, "Stereo-3D video mode.")
	el(0x53C0, "AlphaMode", uintK, 4, "Indicate whether the BlockAdditional Element contains Alpha data.")
	el(0xB0, "PixelWidth", uintK, 4, "Width of the encoded video frames in pixels.")
	el(0xBA, "PixelHeight", uintK, 4, "Height of the encoded video frames in pixels.")
	el(0x54AA, "PixelCropBottom", uintK, 4, "The number of video pixels to remove at the bottom of the image.")
	el(0x54BB, "PixelCropTop", uintK, 4, "The number of video pixels to remove at the top of the image.")
	el(0x54CC, "PixelCropLeft", uintK, 4, "The number of video pixels to remove on the left of the image.")
	el(0x54DD, "PixelCropRight", uintK, 4, "The number of video pixels to remove on the right of the image.")
	el(0x54B0, "DisplayWidth", uintK, 4, "Width of the video frames to display.")
	el(0x54BA, "DisplayHeight", uintK, 4, "Height of the video frames to display.")
	el(0x54B2, "DisplayUnit", uintK, 4, "How DisplayWidth and DisplayHeight are interpreted.")
	el(0x54B3, "AspectRatioType", uintK, 4, "Specify the possible modifications to the aspect ratio.")
	el(0x2EB524, "UncompressedFourCC", bin, 4, "Specify the uncompressed pixel format used for the Track's data as a FourCC.")
	el(0x55B0, "Colour", master, 4, "Settings describing the colour format.")
	el(0x55B1, "MatrixCoefficients", uintK, 5, "The Matrix Coefficients of the video used to derive luma and chroma values.")
	el(0x55B2, "BitsPerChannel", uintK, 5, "Number of decoded bits per channel.")
	el(0x55B3, "ChromaSubsamplingHorz", uintK, 5, "The amount of pixels to remove in the Cr and Cb channels horizontally.")
	el(0x55B4, "ChromaSubsamplingVert", uintK, 5, "The amount of pixels to remove in the Cr and Cb channels vertically.")
	el(0x55B5, "CbSubsamplingHorz", uintK, 5, "The amount of pixels to remove in the Cb channel horizontally.")
	el(0x55B6, "CbSubsamplingVert", uintK, 5, "The amount of pixels to remove in the Cb channel vertically.")
	el(0x55B7, "ChromaSitingHorz", uintK, 5, "How chroma is subsampled horizontally.")
	el(0x55B8, "ChromaSitingVert", uintK, 5, "How chroma is subsampled vertically.")
	el(0x55B9, "Range", uintK, 5, "Clipping of the color ranges.")
	el(0x55BA, "TransferCharacteristics", uintK, 5, "The transfer characteristics of the video.")
	el(0x55BB, "Primaries", uintK, 5, "The colour primaries of the video.")
	el(0x55BC, "MaxCLL", uintK, 5, "Maximum brightness of a single pixel in candelas per square meter.")
	el(0x55BD, "MaxFALL", uintK, 5, "Maximum brightness of a single full frame in candelas per square meter.")
	el(0x55D0, "MasteringMetadata", master, 5, "SMPTE 2086 mastering data.")
	def(0x9A, types.UintValue(0))
	def(0x54B2, types.UintValue(0))
	enum(0x9A, interlaceModes)
	enum(0x9D, fieldOrders)
	enum(0x54B2, displayUnits)
	enum(0x53B8, stereoModes)

	el(0xE1, "Audio", master, 3, "Audio settings.")
	el(0xB5, "SamplingFrequency", floatK, 4, "Sampling frequency in Hz.")
	el(0x78B5, "OutputSamplingFrequency", floatK, 4, "Real output sampling frequency in Hz.")
	el(0x9F, "Channels", uintK, 4, "Numbers of channels in the track.")
	el(0x6264, "BitDepth", uintK, 4, "Bits per sample, mostly used for PCM.")
	def(0xB5, types.FloatValue(8000))
	def(0x9F, types.UintValue(1))

	el(0xE2, "TrackOperation", master, 3, "Operation that needs to be applied on tracks to create this virtual track.")

	el(0x6D80, "ContentEncodings", master, 3, "Settings for several content encoding mechanisms like compression or encryption.")
	el(0x6240, "ContentEncoding", master, 4, "Settings for one content encoding like compression or encryption.")
	el(0x5031, "ContentEncodingOrder", uintK, 5, "Tell in which order to apply each ContentEncoding of the ContentEncodings.")
	el(0x5032, "ContentEncodingScope", uintK, 5, "A bit field that describes which Elements have been modified in this way.")
	el(0x5033, "ContentEncodingType", uintK, 5, "A value describing what kind of transformation is applied.")
	el(0x5034, "ContentCompression", master, 5, "Settings describing the compression used.")
	el(0x4254, "ContentCompAlgo", uintK, 6, "The compression algorithm used.")
	el(0x4255, "ContentCompSettings", bin, 6, "Settings that might be needed by the decompressor.")
	el(0x5035, "ContentEncryption", master, 5, "Settings describing the encryption used.")
	el(0x47E1, "ContentEncAlgo", uintK, 6, "The encryption algorithm used.")
	el(0x47E2, "ContentEncKeyID", bin, 6, "For public key algorithms this is the ID of the public key the data was encrypted with.")
	el(0x47E7, "ContentEncAESSettings", master, 6, "Settings describing the encryption algorithm used.")
	el(0x47E8, "AESSettingsCipherMode", uintK, 7, "The AES cipher mode used in the encryption.")
	def(0x5031, types.UintValue(0))
	def(0x5032, types.UintValue(1))
	def(0x5033, types.UintValue(0))
	def(0x4254, types.UintValue(0))
	def(0x47E1, types.UintValue(0))
	enum(0x5033, encodingTypes)
	enum(0x4254, compAlgos)
	enum(0x47E1, encAlgos)
	enum(0x47E8, cipherModes)

	el(0x1C53BB6B, "Cues", master, 1, "A Top-Level Element to speed seeking access.")
	el(0xBB, "CuePoint", master, 2, "Contains all information relative to a seek point in the Segment.")
	el(0xB3, "CueTime", uintK, 3, "Absolute timestamp of the seek point, expressed in Matroska Ticks.")
	el(0xB7, "CueTrackPositions", master, 3, "Contain positions for different tracks corresponding to the timestamp.")
	el(0xF7, "CueTrack", uintK, 4, "The track for which a position is given.")
	el(0xF1, "CueClusterPosition", uintK, 4, "The Segment Position of the Cluster containing the associated Block.")
	el(0xF0, "CueRelativePosition", uintK, 4, "The relative position inside the Cluster of the referenced SimpleBlock or BlockGroup.")
	el(0xB2, "CueDuration", uintK, 4, "The duration of the block, expressed in Segment Ticks.")
	el(0x5378, "CueBlockNumber", uintK, 4, "Number of the Block in the specified Cluster.")
	el(0xEA, "CueCodecState", uintK, 4, "The Segment Position of the Codec State corresponding to this Cue Element.")
	el(0xDB, "CueReference", master, 4, "The Clusters containing the referenced Blocks.")
	el(0x96, "CueRefTime", uintK, 5, "Timestamp of the referenced Block, expressed in Matroska Ticks.")
	def(0xEA, types.UintValue(0))

	el(0x1941A469, "Attachments", master, 1, "Contain attached files.")
	el(0x61A7, "AttachedFile", master, 2, "An attached file.")
	el(0x467E, "FileDescription", utf8, 3, "A human-friendly name for the attached file.")
	el(0x466E, "FileName", utf8, 3, "Filename of the attached file.")
	el(0x4660, "FileMediaType", str, 3, "Media type of the file following the format described in RFC6838.")
	el(0x465C, "FileData", bin, 3, "The data of the file.")
	el(0x46AE, "FileUID", uintK, 3, "Unique ID representing the file, as random as possible.")

	el(0x1043A770, "Chapters", master, 1, "A system to define basic menus and partition data.")
	el(0x45B9, "EditionEntry", master, 2, "Contains all information about a Segment edition.")
	el(0x45BC, "EditionUID", uintK, 3, "A unique ID to identify the edition.")
	el(0x45BD, "EditionFlagHidden", uintK, 3, "Set to 1 if an edition is hidden.")
	el(0x45DB, "EditionFlagDefault", uintK, 3, "Set to 1 if the edition SHOULD be used as the default one.")
	el(0x45DD, "EditionFlagOrdered", uintK, 3, "Set to 1 if the chapters can be defined multiple times and the order to play them is enforced.")
	el(0xB6, "ChapterAtom", master, 3, "Contains the atom information to use as the chapter atom.")
	el(0x73C4, "ChapterUID", uintK, 4, "A unique ID to identify the Chapter.")
	el(0x5654, "ChapterStringUID", utf8, 4, "A unique string ID to identify the Chapter.")
	el(0x91, "ChapterTimeStart", uintK, 4, "Timestamp of the start of Chapter, expressed in Matroska Ticks.")
	el(0x92, "ChapterTimeEnd", uintK, 4, "Timestamp of the end of Chapter, expressed in Matroska Ticks.")
	el(0x98, "ChapterFlagHidden", uintK, 4, "Set to 1 if a chapter is hidden.")
	el(0x4598, "ChapterFlagEnabled", uintK, 4, "Set to 1 if the chapter is enabled.")
	el(0x6E67, "ChapterSegmentUUID", bin, 4, "The SegmentUUID of another Segment to play during this chapter.")
	el(0x80, "ChapterDisplay", master, 4, "Contains all possible strings to use for the chapter display.")
	el(0x85, "ChapString", utf8, 5, "Contains the string to use as the chapter atom.")
	el(0x437C, "ChapLanguage", str, 5, "A language corresponding to the string.")
	el(0x437E, "ChapCountry", str, 5, "A country corresponding to the string.")
	def(0x45BD, types.UintValue(0))
	def(0x45DB, types.UintValue(0))
	def(0x45DD, types.UintValue(0))
	def(0x98, types.UintValue(0))
	def(0x4598, types.UintValue(1))
	def(0x437C, types.TextValue("eng"))

	el(0x1254C367, "Tags", master, 1, "Element containing metadata describing Tracks, Editions, Chapters, Attachments, or the Segment as a whole.")
	el(0x7373, "Tag", master, 2, "A single metadata descriptor.")
	el(0x63C0, "Targets", master, 3, "Specifies which other elements the metadata represented by the Tag applies to.")
	el(0x68CA, "TargetTypeValue", uintK, 4, "A number to indicate the logical level of the target.")
	el(0x63CA, "TargetType", str, 4, "An informational string that can be used to display the logical level of the target.")
	el(0x63C5, "TagTrackUID", uintK, 4, "A unique ID to identify the Track(s) the tags belong to.")
	el(0x63C9, "TagEditionUID", uintK, 4, "A unique ID to identify the EditionEntry(s) the tags belong to.")
	el(0x63C4, "TagChapterUID", uintK, 4, "A unique ID to identify the Chapter(s) the tags belong to.")
	el(0x63C6, "TagAttachmentUID", uintK, 4, "A unique ID to identify the Attachment(s) the tags belong to.")
	el(0x67C8, "SimpleTag", master, 3, "Contains general information about the target.")
	el(0x45A3, "TagName", utf8, 4, "The name of the Tag that is going to be stored.")
	el(0x447A, "TagLanguage", str, 4, "Specifies the language of the tag specified.")
	el(0x4484, "TagDefault", uintK, 4, "A boolean value to indicate if this is the default/original language to use for the given tag.")
	el(0x4487, "TagString", utf8, 4, "The value of the Tag.")
	el(0x4485, "TagBinary", bin, 4, "The values of the Tag, if it is binary.")
	def(0x68CA, types.UintValue(50))
	def(0x447A, types.TextValue("und"))
	def(0x4484, types.UintValue(1))
	enum(0x68CA, targetTypes)
}
