package tarlight

// Checksum returns the USTAR checksum of a header block: the unsigned sum of
// its 512 bytes with the checksum field counted as eight ASCII spaces. A
// block shorter than BlockSize has a checksum of zero.
func Checksum(block []byte) uint32 {
	if len(block) < BlockSize {
		return 0
	}
	var sum uint32
	for i, c := range block[:BlockSize] {
		if i >= fieldChecksum.off && i < fieldChecksum.off+fieldChecksum.size {
			c = ' '
		}
		sum += uint32(c)
	}
	return sum
}
