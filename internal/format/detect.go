package format

import (
	"bytes"

	"github.com/joshuapare/boxkit/pkg/types"
)

var (
	// EBMLMagic is the EBML header element ID.
	EBMLMagic = []byte{0x1A, 0x45, 0xDF, 0xA3}
	// ClusterMagic is the Cluster ID. Headerless WebM streams start at a Cluster.
	ClusterMagic = []byte{0x1F, 0x43, 0xB6, 0x75}
)

// DetectFamily picks the container family from the first four bytes.
// Anything without an EBML magic is treated as ISO-BMFF.
func DetectFamily(b []byte) types.Family {
	if bytes.HasPrefix(b, EBMLMagic) || bytes.HasPrefix(b, ClusterMagic) {
		return types.FamilyEBML
	}
	return types.FamilyMP4
}
