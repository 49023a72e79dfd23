// Package conn implements the per-connection pipeline of §3.5/§4.11: the
// framing, optional zlib compression, and optional AES-128/CFB-8 streaming
// encryption layered over a raw net.Conn, producing and consuming
// packet.Raw values.
package conn

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/dmitrymodder/mcwire/bufpool"
	"github.com/dmitrymodder/mcwire/mcerr"
	"github.com/dmitrymodder/mcwire/mclog"
	"github.com/dmitrymodder/mcwire/packet"
	"github.com/dmitrymodder/mcwire/varint"
	"github.com/dmitrymodder/mcwire/workpool"
)

// EncodedData is the mutable buffer layout of §3.3: a reserved leading
// marker byte, a varint packet id, and the packet's payload. The marker is
// always zero at construction so the buffer can later be reframed in
// place as the "uncompressed length = 0" form of a compressed frame.
type EncodedData struct {
	buf []byte
}

// NewEncodedData builds the §3.3 buffer for (id, payload).
func NewEncodedData(id int32, payload []byte) EncodedData {
	buf := make([]byte, 0, 1+varint.LenI32(id)+len(payload))
	buf = append(buf, 0)
	buf = varint.AppendI32(buf, id)
	buf = append(buf, payload...)
	return EncodedData{buf: buf}
}

// Bytes returns the full [marker][id][payload] buffer.
func (e EncodedData) Bytes() []byte { return e.buf }

// Payload returns the buffer without its leading marker byte, i.e.
// [id][payload] — what's actually transmitted when compression is off.
func (e EncodedData) Payload() []byte { return e.buf[1:] }

// PackedData is a byte slice ready for transmission, per §3.4, with a flag
// recording whether it still carries the §3.3 leading marker byte (true
// when compression left the frame in its uncompressed, under-threshold
// form and the marker byte is doing double duty as a zero-length prefix).
type PackedData struct {
	buf       []byte
	hasMarker bool
}

// Bytes returns the packed frame body (not including the outer length
// varint, which WriteHalf.WritePacket prepends).
func (p PackedData) Bytes() []byte { return p.buf }

// HasMarker reports whether Bytes still begins with the §3.3 marker byte.
func (p PackedData) HasMarker() bool { return p.hasMarker }

const defaultDecryptOffloadThreshold = 256

// ReadHalf is the ingress side of a connection: reads length-prefixed
// frames, optionally decrypts and decompresses them, and exposes the
// resulting packet.Raw values.
type ReadHalf struct {
	r   io.Reader
	br  byteReader
	buf *bufpool.Pool

	decryptStream cipher.Stream
	offloadThreshold int
	pool             *workpool.Pool

	decompressionEnabled bool
}

// byteReader adapts an io.Reader to io.ByteReader for the varint decoder,
// buffering one byte at a time since frame lengths are small.
type byteReader struct {
	r io.Reader
}

func (b byteReader) ReadByte() (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(b.r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// NewReadHalf wraps r with no encryption and no compression.
func NewReadHalf(r io.Reader) *ReadHalf {
	return &ReadHalf{
		r:                r,
		br:               byteReader{r: r},
		buf:              bufpool.New(),
		offloadThreshold: defaultDecryptOffloadThreshold,
	}
}

// EnableDecryption installs AES-128/CFB-8 decryption keyed by key, used as
// both key and IV per §3.5. It may only be called once.
func (h *ReadHalf) EnableDecryption(key [16]byte) error {
	if h.decryptStream != nil {
		return mcerr.New(mcerr.KindInvalidEnum, "decryption already enabled on this connection")
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, "constructing AES cipher", err)
	}
	h.decryptStream = newCFB8Decrypter(block, key[:])
	return nil
}

// EnableDecompression turns on zlib inflate for frames carrying a nonzero
// uncompressed-length prefix. It may only be called once.
func (h *ReadHalf) EnableDecompression() {
	h.decompressionEnabled = true
}

// SetWorkpool installs the bounded crypto offload pool used when a frame's
// length exceeds the decrypt offload threshold.
func (h *ReadHalf) SetWorkpool(p *workpool.Pool) {
	h.pool = p
}

// ReadPacket performs one full ingress cycle per §4.11's read path.
func (h *ReadHalf) ReadPacket(ctx context.Context) (packet.Raw, error) {
	length, _, err := varint.DecodeI32(h.br)
	if err != nil {
		return packet.Raw{}, err
	}
	if length < 0 {
		return packet.Raw{}, mcerr.New(mcerr.KindLengthOverflow, "negative frame length")
	}
	if length == 0 {
		return packet.Raw{}, mcerr.New(mcerr.KindShortRead, "zero-length frame")
	}

	frame := h.buf.Get(int(length))
	frame.Append(make([]byte, length))
	data := frame.Bytes()
	if _, err := io.ReadFull(h.r, data); err != nil {
		h.buf.Put(frame)
		return packet.Raw{}, mcerr.Wrap(mcerr.KindUnexpectedEOF, "reading frame body", err)
	}

	if h.decryptStream != nil {
		if h.pool != nil && len(data) > h.offloadThreshold {
			decrypted, err := h.pool.Submit(ctx, workpool.Job{
				Data:          data,
				LengthFromEnd: len(data),
				Stream:        h.decryptStream,
			})
			if err != nil {
				h.buf.Put(frame)
				return packet.Raw{}, err
			}
			data = decrypted
		} else {
			h.decryptStream.XORKeyStream(data, data)
		}
	}

	if h.decompressionEnabled {
		r := bytes.NewReader(data)
		uncompressedLen, _, err := varint.DecodeI32(r)
		if err != nil {
			h.buf.Put(frame)
			return packet.Raw{}, err
		}
		rest := data[len(data)-r.Len():]
		if uncompressedLen != 0 {
			zr, err := zlib.NewReader(bytes.NewReader(rest))
			if err != nil {
				h.buf.Put(frame)
				return packet.Raw{}, mcerr.Wrap(mcerr.KindCompression, "opening zlib reader", err)
			}
			inflated := make([]byte, uncompressedLen)
			if _, err := io.ReadFull(zr, inflated); err != nil {
				h.buf.Put(frame)
				return packet.Raw{}, mcerr.Wrap(mcerr.KindCompression, "inflating compressed frame", err)
			}
			data = inflated
		} else {
			data = rest
		}
	}
	h.buf.Put(frame)

	br := bytes.NewReader(data)
	id, _, err := varint.DecodeI32(br)
	if err != nil {
		return packet.Raw{}, err
	}
	payload := make([]byte, br.Len())
	copy(payload, data[len(data)-br.Len():])
	return packet.Raw{ID: id, Payload: payload}, nil
}

// WriteHalf is the egress side of a connection: serializes a packet.Raw,
// optionally compresses and encrypts it, and writes the length-prefixed
// frame to the underlying writer.
type WriteHalf struct {
	w   io.Writer
	buf *bufpool.Pool

	encryptStream cipher.Stream
	offloadThreshold int
	pool             *workpool.Pool

	compressionEnabled   bool
	compressionThreshold int
}

// NewWriteHalf wraps w with no encryption and no compression.
func NewWriteHalf(w io.Writer) *WriteHalf {
	return &WriteHalf{
		w:                w,
		buf:              bufpool.New(),
		offloadThreshold: defaultDecryptOffloadThreshold,
	}
}

// EnableEncryption installs AES-128/CFB-8 encryption keyed by key. It may
// only be called once.
func (h *WriteHalf) EnableEncryption(key [16]byte) error {
	if h.encryptStream != nil {
		return mcerr.New(mcerr.KindInvalidEnum, "encryption already enabled on this connection")
	}
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return mcerr.Wrap(mcerr.KindIO, "constructing AES cipher", err)
	}
	h.encryptStream = newCFB8Encrypter(block, key[:])
	return nil
}

// EnableCompression turns on zlib deflate for payloads at or above
// threshold bytes. It may only be called once; this is the transition the
// Login state's SetCompression packet triggers.
func (h *WriteHalf) EnableCompression(threshold int) {
	h.compressionEnabled = true
	h.compressionThreshold = threshold
}

// SetWorkpool installs the bounded crypto offload pool used when a frame's
// length exceeds the encrypt offload threshold.
func (h *WriteHalf) SetWorkpool(p *workpool.Pool) {
	h.pool = p
}

// WritePacket performs one full egress cycle per §4.11's write path.
func (h *WriteHalf) WritePacket(ctx context.Context, raw packet.Raw) error {
	enc := NewEncodedData(raw.ID, raw.Payload)
	payload := enc.Payload()

	var packed PackedData
	switch {
	case !h.compressionEnabled:
		packed = PackedData{buf: append([]byte(nil), payload...)}
	case len(payload) < h.compressionThreshold:
		packed = PackedData{buf: enc.Bytes(), hasMarker: true} // marker doubles as uncompressed-length 0
	default:
		var compressed bytes.Buffer
		zw := zlib.NewWriter(&compressed)
		if _, err := zw.Write(payload); err != nil {
			return mcerr.Wrap(mcerr.KindCompression, "deflating packet payload", err)
		}
		if err := zw.Close(); err != nil {
			return mcerr.Wrap(mcerr.KindCompression, "closing zlib writer", err)
		}
		buf := varint.AppendI32(nil, int32(len(payload)))
		buf = append(buf, compressed.Bytes()...)
		packed = PackedData{buf: buf}
	}
	frame := packed.Bytes()

	if h.encryptStream != nil {
		if h.pool != nil && len(frame) > h.offloadThreshold {
			encrypted, err := h.pool.Submit(ctx, workpool.Job{
				Data:          frame,
				LengthFromEnd: len(frame),
				Stream:        h.encryptStream,
			})
			if err != nil {
				return err
			}
			frame = encrypted
		} else {
			h.encryptStream.XORKeyStream(frame, frame)
		}
	}

	lenBuf := varint.AppendI32(nil, int32(len(frame)))
	if _, err := h.w.Write(lenBuf); err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing frame length", err)
	}
	if _, err := h.w.Write(frame); err != nil {
		return mcerr.Wrap(mcerr.KindIO, "writing frame body", err)
	}
	return nil
}

// Connection pairs a ReadHalf and WriteHalf over one underlying
// io.ReadWriter, mirroring §3.5's per-connection state.
type Connection struct {
	Read  *ReadHalf
	Write *WriteHalf
}

// New builds a Connection with no compression and no encryption.
func New(rw io.ReadWriter) *Connection {
	return &Connection{
		Read:  NewReadHalf(rw),
		Write: NewWriteHalf(rw),
	}
}

// EnableCompression enables compression on both halves, matching the
// one-way, non-revocable transition of §3.5.
func (c *Connection) EnableCompression(threshold int) {
	c.Write.EnableCompression(threshold)
	c.Read.EnableDecompression()
}

// EnableEncryption enables AES-128/CFB-8 encryption on both halves using
// the same 16-byte key for key and IV.
func (c *Connection) EnableEncryption(key [16]byte) error {
	if err := c.Read.EnableDecryption(key); err != nil {
		return err
	}
	if err := c.Write.EnableEncryption(key); err != nil {
		return err
	}
	mclog.L().Info("connection encryption enabled")
	return nil
}

// cfb8 implements CFB-8 mode (one byte of feedback per step), which the
// standard library's cipher.NewCFBEncrypter/Decrypter do not expose
// directly since they operate on the block's full size; Minecraft's wire
// protocol specifically requires 8-bit feedback.
type cfb8 struct {
	block     cipher.Block
	iv        []byte
	decrypt   bool
}

func newCFB8Encrypter(block cipher.Block, iv []byte) cipher.Stream {
	return &cfb8{block: block, iv: append([]byte(nil), iv...)}
}

func newCFB8Decrypter(block cipher.Block, iv []byte) cipher.Stream {
	return &cfb8{block: block, iv: append([]byte(nil), iv...), decrypt: true}
}

func (c *cfb8) XORKeyStream(dst, src []byte) {
	tmp := make([]byte, c.block.BlockSize())
	for i := range src {
		c.block.Encrypt(tmp, c.iv)
		b := src[i] ^ tmp[0]
		if c.decrypt {
			c.iv = append(c.iv[1:], src[i])
		} else {
			c.iv = append(c.iv[1:], b)
		}
			dst[i] = b
	}
}
