package registry

import "github.com/joshuapare/boxkit/pkg/types"

func box(name string, kind types.Kind, dec DecoderID, full bool, doc string) Entry {
	return Entry{Name: name, Kind: kind, Decoder: dec, Full: full, Doc: doc}
}

func container(name, doc string) Entry {
	return Entry{Name: name, Kind: types.KindContainer, Doc: doc}
}

func record(name string, dec DecoderID, full bool, doc string) Entry {
	return box(name, types.KindStructured, dec, full, doc)
}

// prefixed is a container whose decoder reads fixed fields before the
// first child.
func prefixed(name string, dec DecoderID, full bool, doc string) Entry {
	return Entry{Name: name, Kind: types.KindContainer, Decoder: dec, Full: full, Doc: doc}
}

var mp4Table = map[uint32]Entry{}

func init() {
	add := func(tag string, e Entry) { mp4Table[types.Tag4(tag)] = e }

	// File level.
	add("ftyp", record("File Type Box", DecFtyp, false, "Major brand, minor version and compatible brands."))
	add("styp", record("Segment Type Box", DecFtyp, false, "File type of a media segment."))
	add("mdat", box("Media Data Box", types.KindBinary, DecBinary, false, "Sample payloads referenced by chunk and run tables."))
	add("free", box("Free Space Box", types.KindBinary, DecBinary, false, "Padding; contents are irrelevant."))
	add("skip", box("Free Space Box", types.KindBinary, DecBinary, false, "Padding; contents are irrelevant."))
	add("wide", box("Wide Box", types.KindBinary, DecBinary, false, "QuickTime placeholder for a following 64-bit mdat."))
	add("pdin", box("Progressive Download Info Box", types.KindBinary, DecBinary, true, "Rate/initial-delay pairs."))
	add("sidx", record("Segment Index Box", DecSidx, true, "Index of subsegments and their durations."))
	add("prft", record("Producer Reference Time Box", DecPrft, true, "Wall-clock time of a media time."))
	add("pssh", record("Protection System Specific Header Box", DecPssh, true, "DRM system initialisation data."))
	add("uuid", box("User Extension Box", types.KindBinary, DecBinary, false, "Box identified by a 16-byte user type."))

	// Movie.
	add("moov", container("Movie Box", "Presentation metadata."))
	add("mvhd", record("Movie Header Box", DecMvhd, true, "Timescale, duration and creation times of the presentation."))
	add("trak", container("Track Box", "One track of the presentation."))
	add("tkhd", record("Track Header Box", DecTkhd, true, "Track id, duration and presentation size."))
	add("tref", container("Track Reference Box", "References to other tracks."))
	add("trgr", container("Track Group Box", "Track grouping."))
	add("edts", container("Edit Box", "Maps the presentation timeline to the media timeline."))
	add("elst", record("Edit List Box", DecElst, true, "Edit list entries."))
	add("mdia", container("Media Box", "Media information of a track."))
	add("mdhd", record("Media Header Box", DecMdhd, true, "Media timescale, duration and language."))
	add("hdlr", record("Handler Reference Box", DecHdlr, true, "Media handler type (vide, soun, hint, meta, ...)."))
	add("minf", container("Media Information Box", "Characteristic information of the media."))
	add("vmhd", record("Video Media Header Box", DecVmhd, true, "Graphics mode and opcolor."))
	add("smhd", record("Sound Media Header Box", DecSmhd, true, "Stereo balance."))
	add("hmhd", record("Hint Media Header Box", DecHmhd, true, "PDU sizes and bitrates of a hint track."))
	add("nmhd", box("Null Media Header Box", types.KindBinary, DecBinary, true, "Header for other media types."))
	add("gmhd", container("Base Media Information Header Atom", "QuickTime generic media header."))
	add("dinf", container("Data Information Box", "Where the media data lives."))
	add("dref", prefixed("Data Reference Box", DecEntryCount, true, "Table of data references."))
	add("url ", record("Data Entry Url Box", DecURL, true, "Data location; flag 1 means in this file."))
	add("urn ", box("Data Entry Urn Box", types.KindBinary, DecBinary, true, "Data location by name."))
	add("udta", container("User Data Box", "User information."))
	add("cprt", record("Copyright Box", DecCprt, true, "Copyright notice and language."))
	add("meta", prefixed("Meta Box", DecMeta, false, "Metadata; versioned in ISO files, not in QuickTime."))
	add("ilst", Entry{Name: "Metadata Item List Atom", Kind: types.KindContainer, Items: true, Doc: "iTunes-style metadata items."})
	add("keys", box("Metadata Item Keys Atom", types.KindBinary, DecBinary, true, "Key table for ilst items."))
	add("data", record("Value Atom", DecIlstData, true, "Typed value of a metadata item."))

	// Sample table.
	add("stbl", container("Sample Table Box", "Time and data indexing of the media samples."))
	add("stsd", prefixed("Sample Description Box", DecEntryCount, true, "Coding type and initialization data."))
	add("stts", record("Decoding Time to Sample Box", DecStts, true, "Sample durations, run-length encoded."))
	add("ctts", record("Composition Time to Sample Box", DecCtts, true, "Composition offsets, run-length encoded."))
	add("cslg", box("Composition to Decode Box", types.KindBinary, DecBinary, true, "Composition shift limits."))
	add("stsc", record("Sample To Chunk Box", DecStsc, true, "Runs of chunks with equal samples per chunk."))
	add("stsz", record("Sample Size Box", DecStsz, true, "Uniform sample size or one size per sample."))
	add("stz2", record("Compact Sample Size Box", DecStz2, true, "Sample sizes in 4, 8 or 16 bit fields."))
	add("stco", record("Chunk Offset Box", DecStco, true, "32-bit absolute chunk offsets."))
	add("co64", record("Chunk Large Offset Box", DecCo64, true, "64-bit absolute chunk offsets."))
	add("stss", record("Sync Sample Box", DecStss, true, "Random access sample numbers."))
	add("stsh", box("Shadow Sync Sample Box", types.KindBinary, DecBinary, true, "Alternative sync samples."))
	add("padb", box("Padding Bits Box", types.KindBinary, DecBinary, true, "Per-sample padding bits."))
	add("stdp", record("Degradation Priority Box", DecStdp, true, "One priority per sample."))
	add("sdtp", record("Independent and Disposable Samples Box", DecSdtp, true, "Per-sample dependency flags."))
	add("sbgp", record("Sample To Group Box", DecSbgp, true, "Assigns samples to sample groups."))
	add("sgpd", record("Sample Group Description Box", DecSgpd, true, "Describes sample groups."))
	add("subs", box("Sub-Sample Information Box", types.KindBinary, DecBinary, true, "Sub-sample sizes."))
	add("saiz", record("Sample Auxiliary Information Sizes Box", DecSaiz, true, "Per-sample auxiliary info sizes."))
	add("saio", record("Sample Auxiliary Information Offsets Box", DecSaio, true, "Offsets of auxiliary info."))

	// Fragments.
	add("mvex", container("Movie Extends Box", "Signals movie fragments."))
	add("mehd", record("Movie Extends Header Box", DecMehd, true, "Overall duration of a fragmented movie."))
	add("trex", record("Track Extends Box", DecTrex, true, "Default sample values for fragments."))
	add("leva", box("Level Assignment Box", types.KindBinary, DecBinary, true, "Level assignments."))
	add("moof", container("Movie Fragment Box", "One movie fragment."))
	add("mfhd", record("Movie Fragment Header Box", DecMfhd, true, "Fragment sequence number."))
	add("traf", container("Track Fragment Box", "Track runs of one track in a fragment."))
	add("tfhd", record("Track Fragment Header Box", DecTfhd, true, "Base data offset and sample defaults."))
	add("trun", record("Track Fragment Run Box", DecTrun, true, "Samples of one run."))
	add("tfdt", record("Track Fragment Decode Time Box", DecTfdt, true, "Decode time of the first sample."))
	add("mfra", container("Movie Fragment Random Access Box", "Random access points of fragments."))
	add("tfra", record("Track Fragment Random Access Box", DecTfra, true, "Sync sample locations."))
	add("mfro", record("Movie Fragment Random Access Offset Box", DecMfro, true, "Size of the enclosing mfra."))
	add("ssix", box("Subsegment Index Box", types.KindBinary, DecBinary, true, "Byte ranges of subsegment levels."))

	// Protection.
	add("sinf", container("Protection Scheme Information Box", "Protection scheme of a sample entry."))
	add("frma", record("Original Format Box", DecFrma, false, "Unprotected sample entry type."))
	add("schm", record("Scheme Type Box", DecSchm, true, "Protection scheme type and version."))
	add("schi", container("Scheme Information Box", "Scheme-specific data."))
	add("tenc", record("Track Encryption Box", DecTenc, true, "Default key id and IV size."))
	add("senc", record("Sample Encryption Box", DecSenc, true, "Per-sample IVs and subsample maps."))
	add("ipro", prefixed("Item Protection Box", DecIpro, true, "Protection of metadata items."))

	// Items and others.
	add("iloc", box("Item Location Box", types.KindBinary, DecBinary, true, "Item extents."))
	add("pitm", box("Primary Item Box", types.KindBinary, DecBinary, true, "Primary item id."))
	add("iref", Entry{Name: "Item Reference Box", Kind: types.KindContainer, Full: true, Doc: "References between items."})
	add("xml ", box("XML Box", types.KindString, DecString, true, "XML metadata."))
	add("meco", container("Additional Metadata Container Box", "Additional meta boxes."))
	add("mere", box("Metabox Relation Box", types.KindBinary, DecBinary, true, "Relation between meta boxes."))
	add("strk", container("Sub Track Box", "Sub track."))
	add("strd", container("Sub Track Definition Box", "Sub track definition."))
	add("rinf", container("Restricted Scheme Information Box", "Restricted scheme."))
	add("elng", box("Extended Language Box", types.KindString, DecString, true, "BCP-47 language tag."))
	add("tsel", box("Track Selection Box", types.KindBinary, DecBinary, true, "Track switch group attributes."))

	// Sample entries and their children.
	for _, t := range []string{
		"avc1", "avc2", "avc3", "avc4", "hvc1", "hev1", "av01", "mp4v", "encv",
		"dvhe", "dvh1", "dvav", "dva1", "vvc1", "vvi1",
	} {
		add(t, prefixed("Visual Sample Entry", DecVisualSample, false, "Video coding type; configuration boxes follow."))
	}
	for _, t := range []string{"mp4a", "ac-3", "ec-3", "ac-4", "enca", "lpcm"} {
		add(t, prefixed("Audio Sample Entry", DecAudioSample, false, "Audio coding type; configuration boxes follow."))
	}
	add("avcC", record("AVC Configuration Box", DecAvcC, false, "H.264 decoder configuration record."))
	add("hvcC", box("HEVC Configuration Box", types.KindBinary, DecBinary, false, "H.265 decoder configuration record."))
	add("av1C", box("AV1 Configuration Box", types.KindBinary, DecBinary, false, "AV1 codec configuration record."))
	add("vvcC", box("VVC Configuration Box", types.KindBinary, DecBinary, true, "H.266 decoder configuration record."))
	add("dvcC", box("Dolby Vision Configuration Box", types.KindBinary, DecBinary, false, "Dolby Vision configuration."))
	add("esds", box("Elementary Stream Descriptor Box", types.KindBinary, DecBinary, true, "MPEG-4 ES descriptor."))
	add("dac3", box("AC-3 Specific Box", types.KindBinary, DecBinary, false, "AC-3 configuration."))
	add("dec3", box("E-AC-3 Specific Box", types.KindBinary, DecBinary, false, "E-AC-3 configuration."))
	add("btrt", record("Bit Rate Box", DecBtrt, false, "Buffer size and bitrates."))
	add("pasp", record("Pixel Aspect Ratio Box", DecPasp, false, "Relative pixel width and height."))
	add("colr", record("Colour Information Box", DecColr, false, "Colour primaries, transfer and matrix."))
}
