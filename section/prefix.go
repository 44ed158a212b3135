package section

import "github.com/arloliu/cbf/endian"

// AppendPrefix appends the container prefix (magic and version) to dst.
func AppendPrefix(dst []byte, engine endian.EndianEngine) []byte {
	dst = engine.AppendUint64(dst, Magic)
	return engine.AppendUint32(dst, Version)
}

// AppendTrailer appends the footer offset that closes the container.
func AppendTrailer(dst []byte, footerOffset uint64, engine endian.EndianEngine) []byte {
	return engine.AppendUint64(dst, footerOffset)
}
