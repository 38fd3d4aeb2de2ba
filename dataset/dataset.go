package dataset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/hupe1980/exprset"
	"github.com/hupe1980/exprset/codec"
	"github.com/hupe1980/exprset/frame"
	"github.com/hupe1980/exprset/internal/mmap"
)

var (
	fileMagic     = [4]byte{'E', 'S', 'D', '1'}
	dirMagic      = [4]byte{'E', 'S', 'D', 'D'}
	footerMagic   = [4]byte{'E', 'S', 'D', 'F'}
	formatVersion = uint16(1)
)

const (
	sectionMatrix   = uint16(1)
	sectionPheno    = uint16(2)
	sectionFeatures = uint16(3)
	sectionStudy    = uint16(4)

	headerSize = 16
	entrySize  = 32
	footerSize = 24
)

func sectionName(t uint16) string {
	switch t {
	case sectionMatrix:
		return "matrix"
	case sectionPheno:
		return "pheno"
	case sectionFeatures:
		return "features"
	case sectionStudy:
		return "study"
	default:
		return fmt.Sprintf("unknown(%d)", t)
	}
}

type sectionEntry struct {
	Type     uint16
	Offset   uint64
	Len      uint64
	Checksum uint32 // CRC32 of the stored (compressed) section bytes
}

// Options configures dataset encoding and decoding.
type Options struct {
	// Codec encodes the table and study sections. On read, a nil Codec is
	// inferred from the file header.
	Codec codec.Codec

	// Compression is applied per section on write. Reads pick it up from
	// the header.
	Compression Compression

	// Logger traces save and load operations.
	Logger *exprset.Logger

	// Metrics records save and load outcomes.
	Metrics exprset.MetricsCollector
}

// DefaultOptions are the defaults for dataset encoding.
var DefaultOptions = Options{
	Codec:       codec.Default,
	Compression: CompressionLZ4,
}

func applyOptions(optFns []func(o *Options)) Options {
	opts := DefaultOptions

	for _, fn := range optFns {
		fn(&opts)
	}

	return opts
}

func (o Options) logger() *exprset.Logger {
	if o.Logger == nil {
		return exprset.NoopLogger()
	}

	return o.Logger
}

func (o Options) metrics() exprset.MetricsCollector {
	if o.Metrics == nil {
		return exprset.NoopMetricsCollector{}
	}

	return o.Metrics
}

// Write writes the container to w.
//
// Format:
//  1. header (magic, version, compression, codec name)
//  2. matrix section (binary, see matrix_binary.go)
//  3. pheno / features / study sections (codec encoded, present when bound)
//  4. directory (type, offset, length, checksum per section)
//  5. footer (directory offset and length)
//
// Every section is CRC32-checksummed and independently compressed, so a
// reader can verify and decode any section without touching the others.
func Write(w io.Writer, set *exprset.Set, optFns ...func(o *Options)) error {
	if w == nil {
		return ErrNilWriter
	}
	if set == nil {
		return ErrNilSet
	}

	opts := applyOptions(optFns)

	if !opts.Compression.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownCompression, uint8(opts.Compression))
	}

	c := opts.Codec
	if c == nil {
		c = codec.Default
	}

	codecName := c.Name()
	if len(codecName) > 0xFFFF {
		return fmt.Errorf("dataset: codec name too long: %d", len(codecName))
	}

	type section struct {
		typ    uint16
		encode func() ([]byte, error)
	}

	sections := []section{
		{sectionMatrix, func() ([]byte, error) { return encodeMatrix(set.Exprs()) }},
	}

	if set.HasPheno() {
		sections = append(sections, section{sectionPheno, func() ([]byte, error) { return c.Marshal(set.Pheno()) }})
	}

	if set.HasFeatures() {
		sections = append(sections, section{sectionFeatures, func() ([]byte, error) { return c.Marshal(set.Features()) }})
	}

	if set.HasStudy() {
		sections = append(sections, section{sectionStudy, func() ([]byte, error) {
			st := set.Describe()
			return c.Marshal(&st)
		}})
	}

	// Header
	// [0:4]   magic
	// [4:6]   version
	// [6]     compression
	// [7]     reserved
	// [8:10]  codec name len
	// [10:12] section count
	// [12:16] reserved
	var hdr [headerSize]byte
	copy(hdr[0:4], fileMagic[:])
	binary.LittleEndian.PutUint16(hdr[4:6], formatVersion)
	hdr[6] = byte(opts.Compression)
	binary.LittleEndian.PutUint16(hdr[8:10], uint16(len(codecName)))
	binary.LittleEndian.PutUint16(hdr[10:12], uint16(len(sections)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if len(codecName) > 0 {
		if _, err := w.Write([]byte(codecName)); err != nil {
			return err
		}
	}

	cw := &countingWriter{w: w, n: int64(headerSize + len(codecName))}

	entries := make([]sectionEntry, 0, len(sections))

	for _, s := range sections {
		payload, err := s.encode()
		if err != nil {
			return fmt.Errorf("dataset: encode %s section: %w", sectionName(s.typ), err)
		}

		stored, err := compressSection(payload, opts.Compression)
		if err != nil {
			return fmt.Errorf("dataset: compress %s section: %w", sectionName(s.typ), err)
		}

		off := uint64(cw.n)
		if _, err := cw.Write(stored); err != nil {
			return err
		}

		entries = append(entries, sectionEntry{
			Type:     s.typ,
			Offset:   off,
			Len:      uint64(len(stored)),
			Checksum: crc32.ChecksumIEEE(stored),
		})
	}

	dirOff := uint64(cw.n)
	if err := writeDirectory(cw, entries); err != nil {
		return err
	}
	dirLen := uint64(cw.n) - dirOff

	return writeFooter(cw, dirOff, dirLen)
}

// Read reads a container from r and rebuilds it through the full
// constructor, so a corrupt or inconsistent file can never produce an
// invalid Set.
//
// The container requires random access so it can locate the directory via
// the footer and then fetch each section by offset.
func Read(r io.ReadSeeker, optFns ...func(o *Options)) (*exprset.Set, error) {
	if r == nil {
		return nil, ErrNilReader
	}

	opts := applyOptions(optFns)

	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	c := opts.Codec
	if c == nil {
		cc, ok := codec.ByName(hdr.codecName)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, hdr.codecName)
		}
		c = cc
	} else if hdr.codecName != "" && c.Name() != hdr.codecName {
		return nil, fmt.Errorf("dataset: file codec %q does not match provided codec %q", hdr.codecName, c.Name())
	}

	sections, err := readDirectory(r, hdr)
	if err != nil {
		return nil, err
	}

	mEntry, ok := sections[sectionMatrix]
	if !ok {
		return nil, fmt.Errorf("%w: matrix", ErrMissingSection)
	}

	mBytes, err := loadSection(r, mEntry, hdr.compression)
	if err != nil {
		return nil, err
	}

	m, err := decodeMatrix(mBytes)
	if err != nil {
		return nil, err
	}

	var setOpts []exprset.Option

	if e, ok := sections[sectionPheno]; ok {
		data, err := loadSection(r, e, hdr.compression)
		if err != nil {
			return nil, err
		}

		var ph frame.Frame
		if err := c.Unmarshal(data, &ph); err != nil {
			return nil, fmt.Errorf("dataset: decode pheno section: %w", err)
		}

		setOpts = append(setOpts, exprset.WithPheno(&ph))
	}

	if e, ok := sections[sectionFeatures]; ok {
		data, err := loadSection(r, e, hdr.compression)
		if err != nil {
			return nil, err
		}

		var ff frame.Frame
		if err := c.Unmarshal(data, &ff); err != nil {
			return nil, fmt.Errorf("dataset: decode features section: %w", err)
		}

		setOpts = append(setOpts, exprset.WithFeatures(&ff))
	}

	if e, ok := sections[sectionStudy]; ok {
		data, err := loadSection(r, e, hdr.compression)
		if err != nil {
			return nil, err
		}

		var st exprset.Study
		if err := c.Unmarshal(data, &st); err != nil {
			return nil, fmt.Errorf("dataset: decode study section: %w", err)
		}

		setOpts = append(setOpts, exprset.WithStudy(st))
	}

	if opts.Logger != nil {
		setOpts = append(setOpts, exprset.WithLogger(opts.Logger))
	}

	if opts.Metrics != nil {
		setOpts = append(setOpts, exprset.WithMetricsCollector(opts.Metrics))
	}

	return exprset.New(m, setOpts...)
}

// WriteFile writes the container to filename atomically: the bytes go to a
// temp file in the same directory, which is fsynced and renamed over the
// target.
func WriteFile(filename string, set *exprset.Set, optFns ...func(o *Options)) error {
	opts := applyOptions(optFns)
	start := time.Now()

	written, err := writeFileAtomic(filename, set, optFns)

	opts.metrics().RecordSave(written, time.Since(start), err)
	opts.logger().LogSave(filename, written, err)

	return err
}

func writeFileAtomic(filename string, set *exprset.Set, optFns []func(o *Options)) (int64, error) {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	// Write to a temp file in the same directory so the rename is atomic.
	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return 0, err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	_ = tmp.Chmod(0o644)

	bw := bufio.NewWriterSize(tmp, 256*1024)
	cw := &countingWriter{w: bw}
	if err := Write(cw, set, optFns...); err != nil {
		return 0, err
	}
	if err := bw.Flush(); err != nil {
		return 0, err
	}
	if err := tmp.Sync(); err != nil {
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return 0, err
	}
	tmpName = ""

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	return cw.n, nil
}

// ReadFile reads a container from filename, memory-mapping the file when
// the platform allows it. Everything is copied out of the mapping before it
// is unmapped, so the returned Set holds no file resources.
func ReadFile(filename string, optFns ...func(o *Options)) (*exprset.Set, error) {
	opts := applyOptions(optFns)
	start := time.Now()

	set, size, err := readFile(filename, optFns)

	opts.metrics().RecordLoad(size, time.Since(start), err)

	if err != nil {
		opts.logger().LogLoad(filename, 0, 0, err)
		return nil, err
	}

	opts.logger().LogLoad(filename, set.NFeatures(), set.NSamples(), nil)

	return set, nil
}

func readFile(filename string, optFns []func(o *Options)) (*exprset.Set, int64, error) {
	if m, err := mmap.Open(filename); err == nil {
		defer func() { _ = m.Close() }()
		_ = m.Advise(mmap.AccessSequential)

		set, err := Read(bytes.NewReader(m.Bytes()), optFns...)
		return set, int64(m.Size()), err
	}

	// Fall back to a plain read (e.g. platforms or files mmap rejects).
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, 0, err
	}

	set, err := Read(bytes.NewReader(data), optFns...)
	return set, int64(len(data)), err
}

type fileHeader struct {
	compression  Compression
	codecName    string
	sectionCount int
}

func readHeader(r io.ReadSeeker) (*fileHeader, error) {
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	var hdr [headerSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("%w: header", ErrTruncated)
	}

	if [4]byte(hdr[0:4]) != fileMagic {
		return nil, ErrBadMagic
	}

	if ver := binary.LittleEndian.Uint16(hdr[4:6]); ver != formatVersion {
		return nil, fmt.Errorf("%w: %d", ErrBadVersion, ver)
	}

	compression := Compression(hdr[6])
	if !compression.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCompression, hdr[6])
	}

	nameLen := int(binary.LittleEndian.Uint16(hdr[8:10]))
	sectionCount := int(binary.LittleEndian.Uint16(hdr[10:12]))
	if sectionCount <= 0 {
		return nil, fmt.Errorf("%w: empty section directory", ErrTruncated)
	}

	nameBytes := make([]byte, nameLen)
	if nameLen > 0 {
		if _, err := io.ReadFull(r, nameBytes); err != nil {
			return nil, fmt.Errorf("%w: codec name", ErrTruncated)
		}
	}

	return &fileHeader{
		compression:  compression,
		codecName:    string(nameBytes),
		sectionCount: sectionCount,
	}, nil
}

func readDirectory(r io.ReadSeeker, hdr *fileHeader) (map[uint16]sectionEntry, error) {
	end, err := r.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if end < footerSize {
		return nil, fmt.Errorf("%w: footer", ErrTruncated)
	}

	if _, err := r.Seek(end-footerSize, io.SeekStart); err != nil {
		return nil, err
	}
	var foot [footerSize]byte
	if _, err := io.ReadFull(r, foot[:]); err != nil {
		return nil, fmt.Errorf("%w: footer", ErrTruncated)
	}

	if [4]byte(foot[0:4]) != footerMagic {
		return nil, fmt.Errorf("%w: footer", ErrTruncated)
	}
	if ver := binary.LittleEndian.Uint16(foot[4:6]); ver != formatVersion {
		return nil, fmt.Errorf("%w: footer version %d", ErrBadVersion, ver)
	}

	const maxInt64u = uint64(^uint64(0) >> 1)
	dirOff := binary.LittleEndian.Uint64(foot[8:16])
	dirLen := binary.LittleEndian.Uint64(foot[16:24])
	dataEnd := uint64(end - footerSize)
	if dirOff > maxInt64u || dirLen > maxInt64u || dirLen < 12 || dirOff > dataEnd || dirLen > dataEnd-dirOff {
		return nil, fmt.Errorf("%w: directory range", ErrTruncated)
	}

	if _, err := r.Seek(int64(dirOff), io.SeekStart); err != nil {
		return nil, err
	}

	// Directory header (12 bytes)
	// [0:4]  magic
	// [4:6]  version
	// [6:8]  reserved
	// [8:12] entry count
	var dh [12]byte
	if _, err := io.ReadFull(r, dh[:]); err != nil {
		return nil, fmt.Errorf("%w: directory", ErrTruncated)
	}
	if [4]byte(dh[0:4]) != dirMagic {
		return nil, fmt.Errorf("%w: directory", ErrTruncated)
	}
	if ver := binary.LittleEndian.Uint16(dh[4:6]); ver != formatVersion {
		return nil, fmt.Errorf("%w: directory version %d", ErrBadVersion, ver)
	}

	entryCount := int(binary.LittleEndian.Uint32(dh[8:12]))
	if entryCount != hdr.sectionCount {
		return nil, fmt.Errorf("%w: directory entry count %d does not match header section count %d", ErrTruncated, entryCount, hdr.sectionCount)
	}

	headerEnd := uint64(headerSize + len(hdr.codecName))

	sections := make(map[uint16]sectionEntry, entryCount)
	for i := 0; i < entryCount; i++ {
		var eb [entrySize]byte
		if _, err := io.ReadFull(r, eb[:]); err != nil {
			return nil, fmt.Errorf("%w: directory entry", ErrTruncated)
		}

		e := sectionEntry{
			Type:     binary.LittleEndian.Uint16(eb[0:2]),
			Checksum: binary.LittleEndian.Uint32(eb[4:8]),
			Offset:   binary.LittleEndian.Uint64(eb[8:16]),
			Len:      binary.LittleEndian.Uint64(eb[16:24]),
		}

		if _, exists := sections[e.Type]; exists {
			return nil, fmt.Errorf("dataset: duplicate %s section", sectionName(e.Type))
		}

		// Sections live between the header and the directory.
		if e.Offset < headerEnd || e.Offset > dirOff || e.Len > dirOff-e.Offset {
			return nil, fmt.Errorf("%w: %s section range", ErrTruncated, sectionName(e.Type))
		}

		sections[e.Type] = e
	}

	return sections, nil
}

// loadSection reads a section's stored bytes, verifies the checksum, and
// decompresses the payload.
func loadSection(r io.ReadSeeker, e sectionEntry, c Compression) ([]byte, error) {
	if _, err := r.Seek(int64(e.Offset), io.SeekStart); err != nil {
		return nil, err
	}

	stored := make([]byte, e.Len)
	if _, err := io.ReadFull(r, stored); err != nil {
		return nil, fmt.Errorf("%w: %s section", ErrTruncated, sectionName(e.Type))
	}

	if actual := crc32.ChecksumIEEE(stored); actual != e.Checksum {
		return nil, &ChecksumError{
			Section:  sectionName(e.Type),
			Expected: e.Checksum,
			Actual:   actual,
		}
	}

	payload, err := decompressSection(stored, c)
	if err != nil {
		return nil, fmt.Errorf("dataset: decompress %s section: %w", sectionName(e.Type), err)
	}

	return payload, nil
}

func writeDirectory(w io.Writer, entries []sectionEntry) error {
	var hdr [12]byte
	copy(hdr[0:4], dirMagic[:])
	binary.LittleEndian.PutUint16(hdr[4:6], formatVersion)
	binary.LittleEndian.PutUint32(hdr[8:12], uint32(len(entries)))
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}

	// Each entry is 32 bytes
	// [0:2]   type
	// [2:4]   reserved
	// [4:8]   checksum (CRC32)
	// [8:16]  offset
	// [16:24] length
	// [24:32] reserved
	for _, e := range entries {
		var b [entrySize]byte
		binary.LittleEndian.PutUint16(b[0:2], e.Type)
		binary.LittleEndian.PutUint32(b[4:8], e.Checksum)
		binary.LittleEndian.PutUint64(b[8:16], e.Offset)
		binary.LittleEndian.PutUint64(b[16:24], e.Len)
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}

	return nil
}

func writeFooter(w io.Writer, dirOffset, dirLen uint64) error {
	// Footer is 24 bytes
	// [0:4]  magic
	// [4:6]  version
	// [6:8]  reserved
	// [8:16] directory offset
	// [16:24] directory length
	var b [footerSize]byte
	copy(b[0:4], footerMagic[:])
	binary.LittleEndian.PutUint16(b[4:6], formatVersion)
	binary.LittleEndian.PutUint64(b[8:16], dirOffset)
	binary.LittleEndian.PutUint64(b[16:24], dirLen)
	_, err := w.Write(b[:])
	return err
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
