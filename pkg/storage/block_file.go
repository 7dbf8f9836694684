// Copyright 2026 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package storage

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/execcore/pkg/sql/catalog/colinfo"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgcode"
	"github.com/cockroachdb/execcore/pkg/sql/pgwire/pgerror"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc"
	"github.com/cockroachdb/execcore/pkg/sql/rowenc/valueside"
	"github.com/cockroachdb/execcore/pkg/sql/sem/tree"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"
)

// A block file starts with blockFileMagic and is followed by blocks:
//
//	block   := codec:byte uvarint(numRows) uvarint(len(payload)) payload
//	payload := compressed(row*)
//	row     := uvarint(numCols) column*
//	column  := uvarint(0)                  NULL
//	         | uvarint(len(value)+1) value  see valueside.BinarySerDe
var blockFileMagic = []byte("XCB1")

// nullPlaceholder stands for a NULL column until the scanner puts the NULL
// on the tuple.
var nullPlaceholder = []byte{}

// BlockSize is the uncompressed size after which an appender cuts a block.
const BlockSize = 64 << 10

// Codec is the compression algorithm of a block.
type Codec byte

const (
	// SnappyCodec compresses blocks with snappy.
	SnappyCodec Codec = iota
	// ZstdCodec compresses blocks with zstd.
	ZstdCodec
	// NoCodec stores blocks uncompressed.
	NoCodec
)

var codecNames = map[Codec]string{
	SnappyCodec: "snappy",
	ZstdCodec:   "zstd",
	NoCodec:     "none",
}

func (c Codec) String() string {
	if s, ok := codecNames[c]; ok {
		return s
	}
	return "unknown"
}

// ParseCodec parses the name of a codec.
func ParseCodec(s string) (Codec, error) {
	for c, name := range codecNames {
		if name == s {
			return c, nil
		}
	}
	return 0, pgerror.Newf(pgcode.InvalidParameterValue, "unknown codec %q", s)
}

func corruptBlockFile(path string, offset int64, format string, args ...interface{}) error {
	return errors.Wrapf(pgerror.Newf(pgcode.DataCorrupted, format, args...),
		"block file %s at offset %d", path, offset)
}

// BlockFileScanner reads a block file. Rows are returned as LazyTuples over
// the decompressed block; NULL columns are set eagerly.
type BlockFileScanner struct {
	fs     afero.Fs
	path   string
	schema *colinfo.Schema

	f      afero.File
	r      *bufio.Reader
	offset int64
	zstd   *zstd.Decoder

	compressed []byte
	block      []byte
	blockStart int64
	rowsLeft   uint64
	raw        [][]byte
	nulls      []int
	tuple      *rowenc.LazyTuple
}

var _ Scanner = &BlockFileScanner{}

// NewBlockFileScanner returns a scanner over the block file at path. The
// file is opened by Init.
func NewBlockFileScanner(
	fs afero.Fs, path string, schema *colinfo.Schema, opts ScanOptions,
) *BlockFileScanner {
	t := rowenc.NewLazyTuple(schema, nil, valueside.BinarySerDe{}, nil)
	t.SetDecodeErrorHandling(opts.Strict, opts.OnDecodeError)
	return &BlockFileScanner{
		fs:     fs,
		path:   path,
		schema: schema,
		raw:    make([][]byte, schema.Len()),
		tuple:  t,
	}
}

// Init implements the Scanner interface.
func (s *BlockFileScanner) Init() error {
	if s.f != nil {
		return errors.AssertionFailedf("scanner for %s initialized twice", s.path)
	}
	f, err := s.fs.Open(s.path)
	if err != nil {
		return errors.Wrapf(err, "opening table file")
	}
	s.f = f
	s.r = bufio.NewReader(f)
	return s.readHeader()
}

func (s *BlockFileScanner) readHeader() error {
	magic := make([]byte, len(blockFileMagic))
	if _, err := io.ReadFull(s.r, magic); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return corruptBlockFile(s.path, 0, "missing header")
		}
		return errors.Wrapf(err, "reading %s", s.path)
	}
	if string(magic) != string(blockFileMagic) {
		return corruptBlockFile(s.path, 0, "bad magic %q", magic)
	}
	s.offset = int64(len(magic))
	s.rowsLeft = 0
	s.block = s.block[:0]
	return nil
}

func (s *BlockFileScanner) readUvarint() (uint64, error) {
	v, err := binary.ReadUvarint(s.r)
	if err != nil {
		return 0, err
	}
	var tmp [binary.MaxVarintLen64]byte
	s.offset += int64(binary.PutUvarint(tmp[:], v))
	return v, nil
}

// nextBlock loads the next block. It returns false at the end of the file.
func (s *BlockFileScanner) nextBlock() (bool, error) {
	s.blockStart = s.offset
	codec, err := s.r.ReadByte()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, errors.Wrapf(err, "reading %s", s.path)
	}
	s.offset++
	numRows, err := s.readUvarint()
	if err != nil {
		return false, corruptBlockFile(s.path, s.blockStart, "truncated block header")
	}
	n, err := s.readUvarint()
	if err != nil || n > 1<<31 {
		return false, corruptBlockFile(s.path, s.blockStart, "truncated block header")
	}
	if cap(s.compressed) < int(n) {
		s.compressed = make([]byte, n)
	}
	s.compressed = s.compressed[:n]
	if _, err := io.ReadFull(s.r, s.compressed); err != nil {
		return false, corruptBlockFile(s.path, s.blockStart, "truncated block")
	}
	s.offset += int64(n)

	switch Codec(codec) {
	case SnappyCodec:
		s.block, err = snappy.Decode(s.block[:cap(s.block)], s.compressed)
	case ZstdCodec:
		if s.zstd == nil {
			if s.zstd, err = zstd.NewReader(nil); err != nil {
				return false, err
			}
		}
		s.block, err = s.zstd.DecodeAll(s.compressed, s.block[:0])
	case NoCodec:
		s.block = append(s.block[:0], s.compressed...)
	default:
		return false, corruptBlockFile(s.path, s.blockStart, "unknown codec %d", codec)
	}
	if err != nil {
		return false, corruptBlockFile(s.path, s.blockStart, "decompressing: %v", err)
	}
	s.rowsLeft = numRows
	return true, nil
}

// Next implements the Scanner interface.
func (s *BlockFileScanner) Next() (rowenc.Tuple, error) {
	if s.r == nil {
		return nil, errors.AssertionFailedf("scanner for %s is not initialized", s.path)
	}
	for s.rowsLeft == 0 {
		ok, err := s.nextBlock()
		if err != nil || !ok {
			return nil, err
		}
	}
	s.rowsLeft--
	if err := s.decodeRow(); err != nil {
		return nil, err
	}
	s.tuple.Reset(s.raw, s.blockStart)
	for _, i := range s.nulls {
		s.tuple.Put(i, tree.DNull)
	}
	return s.tuple, nil
}

// decodeRow splits the next row of the current block into s.raw.
func (s *BlockFileScanner) decodeRow() error {
	numCols, n := binary.Uvarint(s.block)
	if n <= 0 {
		return corruptBlockFile(s.path, s.blockStart, "truncated row")
	}
	s.block = s.block[n:]
	s.raw = s.raw[:0]
	s.nulls = s.nulls[:0]
	for i := uint64(0); i < numCols; i++ {
		l, n := binary.Uvarint(s.block)
		if n <= 0 || l > uint64(len(s.block)-n)+1 {
			return corruptBlockFile(s.path, s.blockStart, "truncated column %d", i)
		}
		s.block = s.block[n:]
		if int(i) >= s.schema.Len() {
			// Extra columns are skipped.
			if l > 0 {
				s.block = s.block[l-1:]
			}
			continue
		}
		if l == 0 {
			s.nulls = append(s.nulls, int(i))
			s.raw = append(s.raw, nullPlaceholder)
			continue
		}
		s.raw = append(s.raw, s.block[:l-1:l-1])
		s.block = s.block[l-1:]
	}
	return nil
}

// Reset implements the Scanner interface.
func (s *BlockFileScanner) Reset() error {
	if s.f == nil {
		return errors.AssertionFailedf("scanner for %s is not initialized", s.path)
	}
	if _, err := s.f.Seek(0, io.SeekStart); err != nil {
		return errors.Wrapf(err, "rewinding %s", s.path)
	}
	s.r.Reset(s.f)
	return s.readHeader()
}

// Close implements the Scanner interface.
func (s *BlockFileScanner) Close() error {
	if s.zstd != nil {
		s.zstd.Close()
		s.zstd = nil
	}
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	s.r = nil
	return err
}

// Schema implements the Scanner interface.
func (s *BlockFileScanner) Schema() *colinfo.Schema { return s.schema }

// BlockFileAppender writes a block file. Rows are buffered and written as
// a compressed block once BlockSize bytes are pending or on Flush.
type BlockFileAppender struct {
	fs     afero.Fs
	path   string
	schema *colinfo.Schema
	codec  Codec

	f       afero.File
	w       *bufio.Writer
	zstd    *zstd.Encoder
	pending []byte
	numRows uint64
	scratch []byte
}

var _ Appender = &BlockFileAppender{}

// NewBlockFileAppender returns an appender that creates (or truncates) the
// block file at path on Init. Blocks are compressed with opts.Codec.
func NewBlockFileAppender(
	fs afero.Fs, path string, schema *colinfo.Schema, opts ScanOptions,
) *BlockFileAppender {
	return &BlockFileAppender{
		fs:     fs,
		path:   path,
		schema: schema,
		codec:  opts.Codec,
	}
}

// Init implements the Appender interface.
func (a *BlockFileAppender) Init() error {
	if _, ok := codecNames[a.codec]; !ok {
		return pgerror.Newf(pgcode.InvalidParameterValue, "unknown codec %d", a.codec)
	}
	if a.codec == ZstdCodec {
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return err
		}
		a.zstd = enc
	}
	f, err := a.fs.Create(a.path)
	if err != nil {
		return errors.Wrapf(err, "creating table file")
	}
	a.f = f
	a.w = bufio.NewWriter(f)
	_, err = a.w.Write(blockFileMagic)
	return err
}

// AddTuple implements the Appender interface.
func (a *BlockFileAppender) AddTuple(t rowenc.Tuple) error {
	if t.Len() != a.schema.Len() {
		return errors.Newf("row has %d columns, table has %d", t.Len(), a.schema.Len())
	}
	buf := binary.AppendUvarint(a.pending, uint64(t.Len()))
	for i := 0; i < t.Len(); i++ {
		d := t.Get(i)
		if d == tree.DNull {
			buf = binary.AppendUvarint(buf, 0)
			continue
		}
		var err error
		a.scratch, err = valueside.BinarySerDe{}.Serialize(a.scratch[:0], a.schema.Column(i), d)
		if err != nil {
			return err
		}
		buf = binary.AppendUvarint(buf, uint64(len(a.scratch))+1)
		buf = append(buf, a.scratch...)
	}
	if err := rowenc.Err(t); err != nil {
		return err
	}
	a.pending = buf
	a.numRows++
	if len(a.pending) >= BlockSize {
		return a.writeBlock()
	}
	return nil
}

func (a *BlockFileAppender) writeBlock() error {
	if a.numRows == 0 {
		return nil
	}
	var payload []byte
	switch a.codec {
	case SnappyCodec:
		payload = snappy.Encode(nil, a.pending)
	case ZstdCodec:
		payload = a.zstd.EncodeAll(a.pending, nil)
	default:
		payload = a.pending
	}
	hdr := []byte{byte(a.codec)}
	hdr = binary.AppendUvarint(hdr, a.numRows)
	hdr = binary.AppendUvarint(hdr, uint64(len(payload)))
	if _, err := a.w.Write(hdr); err != nil {
		return err
	}
	if _, err := a.w.Write(payload); err != nil {
		return err
	}
	a.pending = a.pending[:0]
	a.numRows = 0
	return nil
}

// Flush implements the Appender interface. It cuts the pending rows into a
// block, so frequent flushes produce small blocks.
func (a *BlockFileAppender) Flush() error {
	if err := a.writeBlock(); err != nil {
		return err
	}
	return a.w.Flush()
}

// Close implements the Appender interface.
func (a *BlockFileAppender) Close() error {
	if a.f == nil {
		return nil
	}
	err := a.Flush()
	if a.zstd != nil {
		err = errors.CombineErrors(err, a.zstd.Close())
		a.zstd = nil
	}
	err = errors.CombineErrors(err, a.f.Close())
	a.f = nil
	return err
}
