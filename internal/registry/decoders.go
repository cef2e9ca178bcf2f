package registry

// Generic decoders, shared by both families.
const (
	DecNone   DecoderID = ""
	DecUint   DecoderID = "uint"
	DecInt    DecoderID = "int"
	DecFloat  DecoderID = "float"
	DecString DecoderID = "string"
	DecUTF8   DecoderID = "utf-8"
	DecDate   DecoderID = "date"
	DecBinary DecoderID = "binary"
)

// ISO-BMFF decoders.
const (
	DecFtyp         DecoderID = "ftyp"
	DecMvhd         DecoderID = "mvhd"
	DecTkhd         DecoderID = "tkhd"
	DecMdhd         DecoderID = "mdhd"
	DecHdlr         DecoderID = "hdlr"
	DecVmhd         DecoderID = "vmhd"
	DecSmhd         DecoderID = "smhd"
	DecHmhd         DecoderID = "hmhd"
	DecEntryCount   DecoderID = "entry-count"
	DecStts         DecoderID = "stts"
	DecCtts         DecoderID = "ctts"
	DecStsc         DecoderID = "stsc"
	DecStsz         DecoderID = "stsz"
	DecStz2         DecoderID = "stz2"
	DecStco         DecoderID = "stco"
	DecCo64         DecoderID = "co64"
	DecStss         DecoderID = "stss"
	DecSdtp         DecoderID = "sdtp"
	DecStdp         DecoderID = "stdp"
	DecElst         DecoderID = "elst"
	DecMfhd         DecoderID = "mfhd"
	DecTfhd         DecoderID = "tfhd"
	DecTfdt         DecoderID = "tfdt"
	DecTrex         DecoderID = "trex"
	DecMehd         DecoderID = "mehd"
	DecTrun         DecoderID = "trun"
	DecSenc         DecoderID = "senc"
	DecSaiz         DecoderID = "saiz"
	DecSaio         DecoderID = "saio"
	DecSgpd         DecoderID = "sgpd"
	DecSbgp         DecoderID = "sbgp"
	DecTenc         DecoderID = "tenc"
	DecPssh         DecoderID = "pssh"
	DecSidx         DecoderID = "sidx"
	DecTfra         DecoderID = "tfra"
	DecMfro         DecoderID = "mfro"
	DecPrft         DecoderID = "prft"
	DecSchm         DecoderID = "schm"
	DecFrma         DecoderID = "frma"
	DecURL          DecoderID = "url"
	DecCprt         DecoderID = "cprt"
	DecVisualSample DecoderID = "visual-sample-entry"
	DecAudioSample  DecoderID = "audio-sample-entry"
	DecAvcC         DecoderID = "avcC"
	DecBtrt         DecoderID = "btrt"
	DecPasp         DecoderID = "pasp"
	DecColr         DecoderID = "colr"
	DecIlstData     DecoderID = "ilst-data"
	DecMeta         DecoderID = "meta"
	DecIpro         DecoderID = "ipro"
)

// Matroska decoders.
const (
	DecBlock DecoderID = "block"
)
